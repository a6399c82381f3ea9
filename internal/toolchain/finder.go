package toolchain

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Executable names of the external tools the build pipeline drives.
const (
	Candle   = "candle.exe"
	Light    = "light.exe"
	Signtool = "signtool.exe"
)

// EnvToolsetRoot is the environment variable conventionally pointing at a
// WiX Toolset installation root.
const EnvToolsetRoot = "WIX"

// NotFoundError reports a toolset executable that could not be located.
type NotFoundError struct {
	Tool string
	Root string
}

func (e *NotFoundError) Error() string {
	if e.Root != "" {
		return fmt.Sprintf("%s not found under %s", e.Tool, filepath.Join(e.Root, "bin"))
	}
	return fmt.Sprintf("%s not found in $%s, PATH or %s (run 'msiforge setup' to install the toolset)",
		e.Tool, EnvToolsetRoot, InstallDir())
}

// InstallDir returns the msiforge-managed toolset root.
func InstallDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".msiforge", "wix")
}

// Find resolves a toolset executable to an absolute path. An explicit root
// is searched strictly: its bin directory either has the tool or resolution
// fails. Without a root the $WIX environment root is tried first, then
// PATH, then the msiforge-managed installation.
func Find(tool, root string) (string, error) {
	if root != "" {
		p := filepath.Join(root, "bin", tool)
		if _, err := os.Stat(p); err != nil {
			return "", &NotFoundError{Tool: tool, Root: root}
		}
		return p, nil
	}

	if env := os.Getenv(EnvToolsetRoot); env != "" {
		p := filepath.Join(env, "bin", tool)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	if p, err := exec.LookPath(tool); err == nil {
		return p, nil
	}
	// Wrapper scripts installed without the .exe suffix still count.
	if p, err := exec.LookPath(strings.TrimSuffix(tool, ".exe")); err == nil {
		return p, nil
	}

	p := filepath.Join(InstallDir(), "bin", tool)
	if _, err := os.Stat(p); err == nil {
		return p, nil
	}

	return "", &NotFoundError{Tool: tool}
}
