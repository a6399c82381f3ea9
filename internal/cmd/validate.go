package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dosanma1/msiforge/internal/manifest"
	"github.com/dosanma1/msiforge/internal/wix"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate package.yaml against its schema",
	Long: `Validates the package.yaml manifest against the JSON Schema.
This catches structural mistakes (wrong types, unknown fields, malformed
versions) before a build trips over them.`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return &wix.Error{Kind: wix.KindIo, Msg: "cannot determine working directory", Err: err}
	}
	root, err := manifest.FindRoot(cwd)
	if err != nil {
		return &wix.Error{Kind: wix.KindIo, Msg: err.Error(), Err: err}
	}

	path := filepath.Join(root, manifest.FileName)
	fmt.Printf("🔍 Validating %s...\n", path)

	violations, err := manifest.ValidateSchema(path)
	if err != nil {
		return &wix.Error{Kind: wix.KindIo, Msg: err.Error(), Err: err}
	}

	if len(violations) == 0 {
		fmt.Println("✅ package.yaml is valid!")
		return nil
	}

	fmt.Println("\n❌ Validation failed with the following errors:")
	fmt.Println()
	for i, violation := range violations {
		fmt.Printf("%d. %s\n", i+1, violation)
	}

	return fmt.Errorf("validation failed with %d errors", len(violations))
}
