package watch

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func startWatcher(t *testing.T, cfg Config) *Watcher {
	t.Helper()
	w, err := NewWatcher(cfg)
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	t.Cleanup(func() { _ = w.Stop() })
	return w
}

func expectTrigger(t *testing.T, w *Watcher) string {
	t.Helper()
	select {
	case p := <-w.Triggers():
		return p
	case <-time.After(2 * time.Second):
		t.Fatal("no trigger before timeout")
		return ""
	}
}

func expectQuiet(t *testing.T, w *Watcher, d time.Duration) {
	t.Helper()
	select {
	case p := <-w.Triggers():
		t.Fatalf("unexpected trigger for %s", p)
	case <-time.After(d):
	}
}

func TestWatcher_TriggersOnWatchedFileWrite(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "package.yaml")
	require.NoError(t, os.WriteFile(file, []byte("name: x\n"), 0644))

	w := startWatcher(t, Config{Paths: []string{file}, Debounce: 50 * time.Millisecond})

	require.NoError(t, os.WriteFile(file, []byte("name: y\n"), 0644))
	require.Equal(t, file, expectTrigger(t, w))
}

func TestWatcher_TriggersOnNewFileInWatchedDir(t *testing.T) {
	dir := t.TempDir()
	w := startWatcher(t, Config{Paths: []string{dir}, Debounce: 50 * time.Millisecond})

	created := filepath.Join(dir, "main.wxs")
	require.NoError(t, os.WriteFile(created, []byte("<Wix/>"), 0644))
	require.Equal(t, created, expectTrigger(t, w))
}

func TestWatcher_IgnoresSiblingsOfWatchedFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "package.yaml")
	require.NoError(t, os.WriteFile(file, []byte("name: x\n"), 0644))

	w := startWatcher(t, Config{Paths: []string{file}, Debounce: 50 * time.Millisecond})

	// Same directory, but not a configured input.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("hi"), 0644))
	expectQuiet(t, w, 300*time.Millisecond)
}

func TestWatcher_IgnoresEditorDroppings(t *testing.T) {
	dir := t.TempDir()
	w := startWatcher(t, Config{Paths: []string{dir}, Debounce: 50 * time.Millisecond})

	for _, name := range []string{".hidden", "main.wxs~", "main.wxs.swp", "link.tmp"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}
	expectQuiet(t, w, 300*time.Millisecond)
}

func TestWatcher_CollapsesBurstsIntoOneTrigger(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "main.wxs")
	require.NoError(t, os.WriteFile(file, []byte("start"), 0644))

	w := startWatcher(t, Config{Paths: []string{dir}, Debounce: 150 * time.Millisecond})

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(file, []byte(strconv.Itoa(i)), 0644))
	}

	require.Equal(t, file, expectTrigger(t, w))
	expectQuiet(t, w, 400*time.Millisecond)
}

func TestWatcher_WatchesNewSubdirectories(t *testing.T) {
	dir := t.TempDir()
	w := startWatcher(t, Config{Paths: []string{dir}, Debounce: 50 * time.Millisecond})

	sub := filepath.Join(dir, "nested")
	require.NoError(t, os.Mkdir(sub, 0755))
	expectTrigger(t, w)

	created := filepath.Join(sub, "extra.wxs")
	require.NoError(t, os.WriteFile(created, []byte("<Wix/>"), 0644))
	require.Equal(t, created, expectTrigger(t, w))
}

func TestWatcher_SkipsMissingPaths(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "package.yaml")
	require.NoError(t, os.WriteFile(existing, []byte("name: x\n"), 0644))

	w := startWatcher(t, Config{
		Paths:    []string{existing, filepath.Join(dir, "not-there-yet")},
		Debounce: 50 * time.Millisecond,
	})

	require.NoError(t, os.WriteFile(existing, []byte("name: y\n"), 0644))
	expectTrigger(t, w)
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	w, err := NewWatcher(Config{Paths: nil})
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))

	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop())
}

func TestWatcher_DefaultDebounceApplied(t *testing.T) {
	w, err := NewWatcher(Config{})
	require.NoError(t, err)
	defer w.Stop()
	require.Equal(t, DefaultDebounce, w.config.Debounce)
}
