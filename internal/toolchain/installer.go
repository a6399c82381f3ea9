package toolchain

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/dosanma1/msiforge/pkg/xos"
)

const (
	toolsetVersion = "3.14"
	toolsetURL     = "https://github.com/wixtoolset/wix3/releases/download/wix314rtm/wix314-binaries.zip"
)

// Installer downloads the WiX Toolset binaries into the msiforge home
// directory so builds work without a system-wide installation.
type Installer struct {
	home   string
	url    string
	client *http.Client
}

// NewInstaller creates an installer targeting InstallDir.
func NewInstaller() *Installer {
	return &Installer{
		home:   InstallDir(),
		url:    toolsetURL,
		client: http.DefaultClient,
	}
}

// IsInstalled reports whether the compiler and linker resolve from any
// supported location.
func (i *Installer) IsInstalled() bool {
	if _, err := Find(Candle, ""); err != nil {
		return false
	}
	_, err := Find(Light, "")
	return err == nil
}

// Install downloads and unpacks the toolset binaries.
func (i *Installer) Install(ctx context.Context) error {
	if err := xos.CreateDir(i.home, 0755); err != nil {
		return fmt.Errorf("failed to create toolset directory: %w", err)
	}

	fmt.Printf("📦 Downloading WiX Toolset %s...\n", toolsetVersion)
	archive, err := i.download(ctx)
	if err != nil {
		return fmt.Errorf("failed to download toolset: %w", err)
	}
	defer os.Remove(archive)

	binDir := filepath.Join(i.home, "bin")
	if err := extract(archive, binDir); err != nil {
		return fmt.Errorf("failed to unpack toolset: %w", err)
	}

	// The archive is flat; both stages of the build must be present.
	for _, tool := range []string{Candle, Light} {
		if _, err := os.Stat(filepath.Join(binDir, tool)); err != nil {
			return fmt.Errorf("toolset archive did not contain %s", tool)
		}
	}

	fmt.Println("✅ WiX Toolset installed successfully!")
	fmt.Printf("   Location: %s\n", binDir)
	return nil
}

// Remove deletes the managed toolset installation.
func (i *Installer) Remove() error {
	if _, err := os.Stat(i.home); os.IsNotExist(err) {
		return fmt.Errorf("no managed toolset at %s", i.home)
	}
	return os.RemoveAll(i.home)
}

// download fetches the release archive to a temporary file and returns its
// path. The caller removes the file.
func (i *Installer) download(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, i.url, nil)
	if err != nil {
		return "", err
	}
	resp, err := i.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %s from %s", resp.Status, i.url)
	}

	f, err := os.CreateTemp("", "msiforge-wix-*.zip")
	if err != nil {
		return "", err
	}

	bar := progressbar.NewOptions64(resp.ContentLength,
		progressbar.OptionSetDescription("Downloading"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(os.Stderr, "\n")
		}),
	)

	if _, err := io.Copy(io.MultiWriter(f, bar), resp.Body); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}

// extract unpacks a zip archive into dest, refusing entries that would
// escape it.
func extract(archive, dest string) error {
	r, err := zip.OpenReader(archive)
	if err != nil {
		return err
	}
	defer r.Close()

	if err := xos.CreateDir(dest, 0755); err != nil {
		return err
	}
	root := filepath.Clean(dest) + string(os.PathSeparator)

	for _, f := range r.File {
		target := filepath.Join(dest, filepath.FromSlash(f.Name))
		if !strings.HasPrefix(target, root) {
			return fmt.Errorf("archive entry %s escapes %s", f.Name, dest)
		}
		if f.FileInfo().IsDir() {
			if err := xos.CreateDir(target, 0755); err != nil {
				return err
			}
			continue
		}
		if err := xos.CreateDir(filepath.Dir(target), 0755); err != nil {
			return err
		}
		rc, err := f.Open()
		if err != nil {
			return err
		}
		// Windows zip entries carry no execute bits; grant them wholesale.
		werr := xos.WriteReader(target, rc, 0755)
		rc.Close()
		if werr != nil {
			return werr
		}
	}
	return nil
}
