package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/dosanma1/msiforge/internal/manifest"
	"github.com/dosanma1/msiforge/internal/watch"
	"github.com/dosanma1/msiforge/internal/wix"
)

var watchDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Rebuild the installer when project files change",
	Long: `Watch package.yaml, the binary directory and wix/ for changes, and
rebuild the installer after each change burst.

Build failures are reported and watching continues, so a broken authoring
edit does not end the session. All build flags apply to every rebuild.`,
	Args:    cobra.NoArgs,
	PreRunE: validateBuildFlags,
	RunE:    runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	addMetadataFlags(watchCmd)
	addBuildFlags(watchCmd)
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watch.DefaultDebounce, "How long to wait after the last change before rebuilding")
}

func runWatch(cmd *cobra.Command, args []string) error {
	project, err := loadProject()
	if err != nil {
		return err
	}

	paths := []string{
		filepath.Join(project.Root, manifest.FileName),
		filepath.Join(project.Root, project.Binary.Dir),
	}
	if srcDir := filepath.Join(project.Root, wix.SourceDir); dirExists(srcDir) {
		paths = append(paths, srcDir)
	}

	watcher, err := watch.NewWatcher(watch.Config{Paths: paths, Debounce: watchDebounce})
	if err != nil {
		return &wix.Error{Kind: wix.KindIo, Msg: "cannot start file watcher", Err: err}
	}

	ctx := cmd.Context()
	if err := watcher.Start(ctx); err != nil {
		return &wix.Error{Kind: wix.KindIo, Msg: "cannot watch project files", Err: err}
	}
	defer watcher.Stop()

	fmt.Printf("👀 Watching %s for changes (Ctrl+C to stop)...\n", project.Name)

	// First build reflects the tree as it is now; later ones follow changes.
	if err := buildOnce(ctx, project, ""); err != nil {
		PrintFailure(err)
	}

	for {
		select {
		case <-ctx.Done():
			fmt.Println("\n👋 Stopped watching.")
			return nil
		case path := <-watcher.Triggers():
			rel, err := filepath.Rel(project.Root, path)
			if err != nil {
				rel = path
			}
			fmt.Printf("\n🔧 %s changed, rebuilding...\n", rel)
			if err := buildOnce(ctx, project, ""); err != nil {
				PrintFailure(err)
			}
		case err := <-watcher.Errors():
			fmt.Printf("⚠️  Watch error: %v\n", err)
		}
	}
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
