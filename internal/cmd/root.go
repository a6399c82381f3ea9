package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/dosanma1/msiforge/internal/manifest"
	"github.com/dosanma1/msiforge/internal/ui"
	"github.com/dosanma1/msiforge/internal/wix"
)

var (
	verbosity int
	wixPath   string
)

var rootCmd = &cobra.Command{
	Use:   "msiforge [INPUT]",
	Short: "msiforge - Build signed Windows installers from your project manifest",
	Long: `msiforge turns a compiled project and its package.yaml into a Windows
installer by driving the WiX Toolset (candle, light) and signtool.

Running msiforge with no subcommand builds the installer, exactly like
'msiforge build'. INPUT is an optional path to a WiX authoring source;
without it the conventional wix/main.wxs is used, or the embedded template
when the project has none.`,
	Version:       "0.1.0",
	Args:          cobra.MaximumNArgs(1),
	PreRunE:       validateBuildFlags,
	RunE:          runBuild,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute parses flags and dispatches to a command. A .env next to the
// caller is loaded first so per-project settings like $WIX apply.
func Execute(ctx context.Context) error {
	_ = godotenv.Load()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	// Commands are registered in their respective files via init()
	// This avoids duplicate command registration
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase log detail (repeat for more)")
	rootCmd.PersistentFlags().StringVar(&wixPath, "wix-path", "", "WiX Toolset root whose bin/ holds candle.exe and light.exe")

	addMetadataFlags(rootCmd)
	addBuildFlags(rootCmd)
}

// newLogger builds the handler for one invocation from the verbosity count.
// Nothing process-wide is mutated, so tests can run commands side by side.
func newLogger() *slog.Logger {
	level := slog.LevelWarn
	switch {
	case verbosity >= 2:
		level = slog.LevelDebug
	case verbosity == 1:
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:     level,
		AddSource: verbosity > 3,
	}))
}

// loadProject finds the project the working directory belongs to and loads
// its manifest.
func loadProject() (*manifest.Project, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, &wix.Error{Kind: wix.KindIo, Msg: "cannot determine working directory", Err: err}
	}
	root, err := manifest.FindRoot(cwd)
	if err != nil {
		return nil, &wix.Error{Kind: wix.KindIo, Msg: err.Error(), Err: err}
	}
	project, err := manifest.Load(filepath.Join(root, manifest.FileName))
	if err != nil {
		return nil, &wix.Error{Kind: wix.KindIo, Msg: err.Error(), Err: err}
	}
	return project, nil
}

// PrintFailure writes one structured failure to stderr: the captured tool
// output first, then the tagged error line, then a hint when we have one.
func PrintFailure(err error) {
	var we *wix.Error
	if !errors.As(err, &we) {
		we = &wix.Error{Kind: wix.KindGeneric, Msg: err.Error(), Err: err}
	}

	if len(we.Output) > 0 {
		os.Stderr.Write(we.Output)
		if !bytes.HasSuffix(we.Output, []byte("\n")) {
			fmt.Fprintln(os.Stderr)
		}
	}
	fmt.Fprintf(os.Stderr, "%s %s: %s\n", ui.IconError, ui.ErrorTag(we.Kind.Code(), we.Kind.String()), we.Error())
	if hint := wix.Hint(we); hint != "" {
		fmt.Fprintf(os.Stderr, "%s %s\n", ui.IconHint, ui.Hint(hint))
	}
}
