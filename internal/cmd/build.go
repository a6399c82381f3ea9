package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dosanma1/msiforge/internal/manifest"
	"github.com/dosanma1/msiforge/internal/toolchain"
	"github.com/dosanma1/msiforge/internal/wix"
)

var (
	buildBinaryName   string
	buildDescription  string
	buildManufacturer string
	buildProductName  string
	buildOutputDir    string
	buildSign         bool
	buildTimestamp    string
	buildNoCapture    bool
)

var buildCmd = &cobra.Command{
	Use:   "build [INPUT]",
	Short: "Build the Windows installer",
	Long: `Build the project's Windows installer.

The build compiles the WiX authoring source with candle, links the result
into an .msi with light, and optionally signs it with signtool. Metadata
comes from package.yaml; every field can be overridden with a flag.

Examples:
  msiforge build                          # Build from wix/main.wxs or the embedded template
  msiforge build installer/custom.wxs     # Build from an explicit authoring source
  msiforge build --sign                   # Sign with the best local certificate
  msiforge build -s -t http://timestamp.digicert.com
  msiforge build --no-capture             # Stream candle/light output live`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: validateBuildFlags,
	RunE:    runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)
	addMetadataFlags(buildCmd)
	addBuildFlags(buildCmd)
}

// addMetadataFlags registers the manifest override flags shared by every
// command that resolves template variables.
func addMetadataFlags(c *cobra.Command) {
	c.Flags().StringVarP(&buildBinaryName, "binary-name", "b", "", "Override the packaged binary name")
	c.Flags().StringVarP(&buildDescription, "description", "d", "", "Override the package description")
	c.Flags().StringVarP(&buildManufacturer, "manufacturer", "m", "", "Override the manufacturer (defaults to the first author)")
	c.Flags().StringVarP(&buildProductName, "product-name", "p", "", "Override the product name")
}

// addBuildFlags registers the flags that shape a pipeline run.
func addBuildFlags(c *cobra.Command) {
	c.Flags().BoolVarP(&buildSign, "sign", "s", false, "Sign the installer with signtool after linking")
	c.Flags().StringVarP(&buildTimestamp, "timestamp", "t", "", "Timestamp server URL to use while signing")
	c.Flags().BoolVar(&buildNoCapture, "no-capture", false, "Stream tool output instead of capturing it")
	c.Flags().StringVarP(&buildOutputDir, "output", "o", "", "Output directory for the installer (default dist/)")
}

// validateBuildFlags rejects flag combinations the pipeline would silently
// ignore.
func validateBuildFlags(cmd *cobra.Command, args []string) error {
	if buildTimestamp != "" && !buildSign {
		return &wix.Error{Kind: wix.KindGeneric, Msg: "--timestamp only applies when signing, add --sign"}
	}
	return nil
}

func runBuild(cmd *cobra.Command, args []string) error {
	input := ""
	if len(args) > 0 {
		input = args[0]
	}

	project, err := loadProject()
	if err != nil {
		return err
	}

	return buildOnce(cmd.Context(), project, input)
}

// buildOnce runs one pipeline pass. The watch command reuses it between
// triggers.
func buildOnce(ctx context.Context, project *manifest.Project, input string) error {
	runner := &toolchain.ExecRunner{Root: wixPath, Dir: project.Root}
	pipe := wix.NewPipeline(buildConfig(input), project, runner, newLogger())

	fmt.Printf("📦 Building %s %s...\n", project.Name, project.Version)

	artifact, err := pipe.Run(ctx)
	if err != nil {
		if artifact != nil {
			// Signing failed after linking. The installer stays on disk.
			fmt.Printf("⚠️  Unsigned installer left at %s\n", artifact.Path)
		}
		return err
	}

	if artifact.Signed {
		fmt.Printf("✅ Built and signed %s\n", artifact.Path)
	} else {
		fmt.Printf("✅ Built %s\n", artifact.Path)
	}
	return nil
}

// buildConfig assembles the pipeline configuration from the parsed flags.
func buildConfig(input string) wix.Config {
	return wix.Config{
		Overrides: wix.Overrides{
			ProductName:  buildProductName,
			BinaryName:   buildBinaryName,
			Description:  buildDescription,
			Manufacturer: buildManufacturer,
		},
		Input:        input,
		Sign:         buildSign,
		TimestampURL: buildTimestamp,
		Capture:      !buildNoCapture,
		OutputDir:    buildOutputDir,
	}
}
