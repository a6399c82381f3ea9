package wix

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLocateSource_ExplicitInputMustExist(t *testing.T) {
	root := t.TempDir()

	_, err := LocateSource(root, filepath.Join(root, "missing.wxs"), testVars())
	requireKind(t, err, KindSourceNotFound)
	require.ErrorContains(t, err, "missing.wxs")
}

func TestLocateSource_ExplicitInput(t *testing.T) {
	root := t.TempDir()
	input := filepath.Join(root, "custom.wxs")
	require.NoError(t, os.WriteFile(input, []byte("<Wix/>"), 0644))

	src, err := LocateSource(root, input, testVars())
	require.NoError(t, err)
	require.Equal(t, input, src.Path)
	require.False(t, src.InMemory())
}

func TestLocateSource_ConventionalFileWins(t *testing.T) {
	root := t.TempDir()
	conventional := DefaultSourcePath(root)
	require.NoError(t, os.MkdirAll(filepath.Dir(conventional), 0755))
	require.NoError(t, os.WriteFile(conventional, []byte("<Wix/>"), 0644))

	src, err := LocateSource(root, "", testVars())
	require.NoError(t, err)
	require.Equal(t, conventional, src.Path)
}

func TestLocateSource_FallsBackToEmbeddedTemplate(t *testing.T) {
	src, err := LocateSource(t.TempDir(), "", testVars())
	require.NoError(t, err)
	require.True(t, src.InMemory())
	require.Contains(t, src.Content, "Name='Hello World'")
}

func TestLocateSource_TemplateFallbackNeedsVariables(t *testing.T) {
	_, err := LocateSource(t.TempDir(), "", Variables{})
	requireKind(t, err, KindUnresolvedPlaceholder)
}

func TestInit_WritesRenderedTemplate(t *testing.T) {
	root := t.TempDir()

	path, err := Init(root, testVars(), false)
	require.NoError(t, err)
	require.Equal(t, DefaultSourcePath(root), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "Name='Hello World'")
	require.Contains(t, string(data), GUIDPlaceholder)
}

func TestInit_MatchesWriteTemplate(t *testing.T) {
	root := t.TempDir()
	path, err := Init(root, testVars(), false)
	require.NoError(t, err)

	written, err := os.ReadFile(path)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteTemplate(&buf, testVars()))
	require.Equal(t, buf.String(), string(written))
}

func TestInit_RefusesOverwrite(t *testing.T) {
	root := t.TempDir()
	path, err := Init(root, testVars(), false)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, []byte("hand edited"), 0644))

	_, err = Init(root, testVars(), false)
	requireKind(t, err, KindFileExists)
	require.ErrorContains(t, err, "--force")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "hand edited", string(data), "existing file must stay untouched")
}

func TestInit_ForceOverwrites(t *testing.T) {
	root := t.TempDir()
	path, err := Init(root, testVars(), false)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, []byte("hand edited"), 0644))

	_, err = Init(root, testVars(), true)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "Name='Hello World'")
}
