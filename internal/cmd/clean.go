package cmd

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dosanma1/msiforge/internal/toolchain"
	"github.com/dosanma1/msiforge/internal/wix"
)

var cleanToolchain bool

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove build outputs",
	Long: `Remove the project's dist/ directory with the built installer and its
report.

Use --toolchain to additionally remove the msiforge-managed WiX Toolset
installation (with confirmation). Tools found on PATH or under $WIX are
never touched.`,
	Args: cobra.NoArgs,
	RunE: runClean,
}

func init() {
	rootCmd.AddCommand(cleanCmd)
	cleanCmd.Flags().BoolVar(&cleanToolchain, "toolchain", false, "Also remove the managed WiX Toolset (requires confirmation)")
}

func runClean(cmd *cobra.Command, args []string) error {
	project, err := loadProject()
	if err != nil {
		// Removing the managed toolset works from anywhere.
		if !cleanToolchain {
			return err
		}
	}

	if project != nil {
		dist := filepath.Join(project.Root, wix.DefaultOutputDir)
		if _, err := os.Stat(dist); err == nil {
			fmt.Printf("🗑️  Removing %s...\n", dist)
			if err := os.RemoveAll(dist); err != nil {
				return &wix.Error{Kind: wix.KindIo, Msg: fmt.Sprintf("failed to remove %s", dist), Err: err}
			}
			fmt.Printf("   ✓ Removed %s\n", dist)
		}
	}

	if cleanToolchain {
		if err := removeToolchain(); err != nil {
			return err
		}
	}

	fmt.Println("✅ Clean completed successfully")
	return nil
}

func removeToolchain() error {
	dir := toolchain.InstallDir()
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		fmt.Println("   No managed toolset installed, nothing to do")
		return nil
	}

	fmt.Printf("\n⚠️  This removes the managed WiX Toolset at %s.\n", dir)
	fmt.Print("The next build needs 'msiforge setup' again. Continue? (y/N): ")

	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return &wix.Error{Kind: wix.KindIo, Msg: "failed to read input", Err: err}
	}

	response = strings.TrimSpace(strings.ToLower(response))
	if response != "y" && response != "yes" {
		fmt.Println("Cancelled.")
		return nil
	}

	if err := toolchain.NewInstaller().Remove(); err != nil {
		return &wix.Error{Kind: wix.KindIo, Msg: err.Error(), Err: err}
	}
	fmt.Printf("   ✓ Removed %s\n", dir)
	return nil
}
