package toolchain

import (
	"archive/zip"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func zipBytes(t *testing.T, entries map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range entries {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func writeZip(t *testing.T, entries map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "toolset.zip")
	require.NoError(t, os.WriteFile(path, zipBytes(t, entries), 0644))
	return path
}

func serveArchive(t *testing.T, payload []byte) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(payload)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestInstaller_InstallUnpacksToolset(t *testing.T) {
	payload := zipBytes(t, map[string]string{
		Candle:               "compiler",
		Light:                "linker",
		"WixUIExtension.dll": "extension",
	})
	srv := serveArchive(t, payload)

	home := filepath.Join(t.TempDir(), "wix")
	inst := &Installer{home: home, url: srv.URL, client: srv.Client()}

	require.NoError(t, inst.Install(context.Background()))
	require.FileExists(t, filepath.Join(home, "bin", Candle))
	require.FileExists(t, filepath.Join(home, "bin", Light))
	require.FileExists(t, filepath.Join(home, "bin", "WixUIExtension.dll"))

	data, err := os.ReadFile(filepath.Join(home, "bin", Candle))
	require.NoError(t, err)
	require.Equal(t, "compiler", string(data))
}

func TestInstaller_InstallRejectsIncompleteArchive(t *testing.T) {
	srv := serveArchive(t, zipBytes(t, map[string]string{Candle: "compiler"}))

	inst := &Installer{home: filepath.Join(t.TempDir(), "wix"), url: srv.URL, client: srv.Client()}
	err := inst.Install(context.Background())
	require.ErrorContains(t, err, Light)
}

func TestInstaller_InstallFailsOnHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(srv.Close)

	inst := &Installer{home: filepath.Join(t.TempDir(), "wix"), url: srv.URL, client: srv.Client()}
	err := inst.Install(context.Background())
	require.ErrorContains(t, err, "unexpected status")
}

func TestExtract_RejectsEscapingEntries(t *testing.T) {
	archive := writeZip(t, map[string]string{"../evil.txt": "boom"})
	parent := t.TempDir()
	dest := filepath.Join(parent, "bin")

	err := extract(archive, dest)
	require.ErrorContains(t, err, "escapes")
	require.NoFileExists(t, filepath.Join(parent, "evil.txt"))
}

func TestExtract_CreatesNestedDirectories(t *testing.T) {
	archive := writeZip(t, map[string]string{"doc/manual/readme.txt": "hi"})
	dest := filepath.Join(t.TempDir(), "bin")

	require.NoError(t, extract(archive, dest))
	require.FileExists(t, filepath.Join(dest, "doc", "manual", "readme.txt"))
}

func TestInstaller_RemoveDeletesManagedTree(t *testing.T) {
	home := filepath.Join(t.TempDir(), "wix")
	require.NoError(t, os.MkdirAll(filepath.Join(home, "bin"), 0755))
	inst := &Installer{home: home}

	require.NoError(t, inst.Remove())
	require.NoDirExists(t, home)
	require.ErrorContains(t, inst.Remove(), "no managed toolset")
}

func TestInstaller_IsInstalledSeesManagedTools(t *testing.T) {
	isolate(t)
	inst := NewInstaller()
	require.False(t, inst.IsInstalled())

	bin := filepath.Join(InstallDir(), "bin")
	touchTool(t, bin, Candle)
	require.False(t, inst.IsInstalled(), "the linker is still missing")

	touchTool(t, bin, Light)
	require.True(t, inst.IsInstalled())
}
