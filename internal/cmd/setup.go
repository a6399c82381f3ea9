package cmd

import (
	"fmt"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/dosanma1/msiforge/internal/toolchain"
)

var setupYes bool

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Download the WiX Toolset",
	Long: `Set up the msiforge build environment.

This command:
- Checks whether candle.exe and light.exe already resolve
- Downloads the WiX Toolset binaries to ~/.msiforge/wix otherwise

signtool.exe is not included: it ships with the Windows SDK.
Run this command once before your first build.`,
	Args: cobra.NoArgs,
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
	setupCmd.Flags().BoolVarP(&setupYes, "yes", "y", false, "Install without prompting")
}

func runSetup(cmd *cobra.Command, args []string) error {
	fmt.Println("🔧 Setting up msiforge environment...")
	fmt.Println()

	installer := toolchain.NewInstaller()

	if installer.IsInstalled() {
		fmt.Println("✅ WiX Toolset is already installed")
		return nil
	}

	if !setupYes {
		prompt := promptui.Prompt{
			Label:     fmt.Sprintf("Download the WiX Toolset to %s", toolchain.InstallDir()),
			IsConfirm: true,
		}
		if _, err := prompt.Run(); err != nil {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	if err := installer.Install(cmd.Context()); err != nil {
		return fmt.Errorf("failed to install the WiX Toolset: %w", err)
	}

	fmt.Println()
	fmt.Println("✅ Setup complete!")
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Println("  msiforge init      # Create wix/main.wxs")
	fmt.Println("  msiforge build     # Build the installer")
	fmt.Println("  msiforge build -s  # Build and sign (needs the Windows SDK's signtool)")
	return nil
}
