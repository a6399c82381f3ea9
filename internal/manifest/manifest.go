// Package manifest loads and validates the package.yaml project descriptor.
package manifest

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// FileName is the manifest file looked up at the project root.
const FileName = "package.yaml"

//go:embed schemas/package.v1.schema.json
var schemaFS embed.FS

// Project is the parsed package.yaml descriptor. It is immutable after Load.
type Project struct {
	Name        string   `yaml:"name"`
	Version     string   `yaml:"version"`
	Description string   `yaml:"description,omitempty"`
	Authors     []string `yaml:"authors,omitempty"`
	Binary      Binary   `yaml:"binary,omitempty"`

	// Root is the directory containing the manifest. Set by Load.
	Root string `yaml:"-"`
}

// Binary describes the project's primary executable.
type Binary struct {
	Name string `yaml:"name,omitempty"`
	Dir  string `yaml:"dir,omitempty"`
}

// Load reads and parses a package.yaml file.
func Load(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var proj Project
	if err := yaml.Unmarshal(data, &proj); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}

	proj.applyDefaults()

	if err := proj.Validate(); err != nil {
		return nil, fmt.Errorf("invalid manifest: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	proj.Root = filepath.Dir(abs)

	return &proj, nil
}

// Validate checks structural soundness. Presence of name, version and the
// like is not enforced here: CLI overrides can still supply what the file
// omits, and the variable resolution step reports what is truly missing.
func (p *Project) Validate() error {
	if strings.ContainsAny(p.Name, `/\`) {
		return fmt.Errorf("name must not contain path separators")
	}
	for i, author := range p.Authors {
		if strings.TrimSpace(author) == "" {
			return fmt.Errorf("authors[%d] is empty", i)
		}
	}
	return nil
}

// applyDefaults sets default values for missing fields.
func (p *Project) applyDefaults() {
	if p.Binary.Name == "" {
		p.Binary.Name = p.Name
	}
	if p.Binary.Dir == "" {
		p.Binary.Dir = "bin"
	}
}

// FindRoot walks up from startDir looking for a package.yaml and returns the
// directory containing it.
func FindRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, FileName)); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("not inside a project (no %s found)", FileName)
}

// ValidateSchema checks a package.yaml document against the embedded JSON
// Schema and returns the list of violations. The YAML document is converted
// to JSON before validation.
func ValidateSchema(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var doc map[string]interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}

	jsonDoc, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to convert manifest to JSON: %w", err)
	}

	schemaBytes, err := schemaFS.ReadFile("schemas/package.v1.schema.json")
	if err != nil {
		return nil, fmt.Errorf("failed to load JSON schema: %w", err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaBytes),
		gojsonschema.NewBytesLoader(jsonDoc),
	)
	if err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	var violations []string
	for _, desc := range result.Errors() {
		violations = append(violations, desc.String())
	}
	return violations, nil
}
