package wix

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/dosanma1/msiforge/pkg/xos"
)

const (
	// SourceDir is the conventional directory under the project root that
	// holds installer authoring files.
	SourceDir = "wix"
	// SourceFile is the conventional authoring file inside SourceDir.
	SourceFile = "main.wxs"
	// DefaultOutputDir receives the built installer and its report.
	DefaultOutputDir = "dist"
)

// Source is the authoring input for one build: a file on disk, or an
// in-memory rendering of the embedded template when the project has none.
type Source struct {
	Path    string
	Content string
}

// InMemory reports whether the source has to be materialized before the
// compiler can read it.
func (s Source) InMemory() bool { return s.Path == "" }

// DefaultSourcePath returns the conventional authoring file location for
// the given project root.
func DefaultSourcePath(root string) string {
	return filepath.Join(root, SourceDir, SourceFile)
}

// LocateSource picks the authoring input for a build. An explicit input
// path must exist. Otherwise the conventional file under the project root
// is used when present, falling back to an in-memory rendering of the
// embedded template so builds work without running init first.
func LocateSource(root, input string, vars Variables) (Source, error) {
	if input != "" {
		if _, err := os.Stat(input); err != nil {
			return Source{}, newError(KindSourceNotFound, "authoring source %s does not exist", input)
		}
		return Source{Path: input}, nil
	}

	conventional := DefaultSourcePath(root)
	if _, err := os.Stat(conventional); err == nil {
		return Source{Path: conventional}, nil
	}

	rendered, err := Render(DefaultTemplate(), vars)
	if err != nil {
		return Source{}, err
	}
	return Source{Content: rendered}, nil
}

// Init materializes the rendered template at the conventional location and
// returns the written path. An existing file is never overwritten unless
// force is set.
func Init(root string, vars Variables, force bool) (string, error) {
	path := DefaultSourcePath(root)
	if !force {
		if _, err := os.Stat(path); err == nil {
			return "", newError(KindFileExists, "%s already exists, use --force to overwrite it", path)
		}
	}

	var buf bytes.Buffer
	if err := WriteTemplate(&buf, vars); err != nil {
		return "", err
	}
	if err := xos.CreateDir(filepath.Dir(path), 0755); err != nil {
		return "", ioError(err, "creating %s", filepath.Dir(path))
	}
	if err := xos.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return "", ioError(err, "writing %s", path)
	}
	return path, nil
}
