package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dosanma1/msiforge/internal/ui"
	"github.com/dosanma1/msiforge/internal/wix"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the conventional WiX authoring file",
	Long: `Render the embedded installer template with this project's metadata and
write it to wix/main.wxs.

An existing file is never overwritten unless --force is given, so hand
edits survive accidental re-runs. The written file still contains
'{{replace-with-a-guid}}' markers: fill in a GUID for each one before
shipping, and keep them stable across releases.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
	addMetadataFlags(initCmd)
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite an existing authoring file")
}

func runInit(cmd *cobra.Command, args []string) error {
	project, err := loadProject()
	if err != nil {
		return err
	}

	vars, err := wix.Resolve(project, buildConfig("").Overrides)
	if err != nil {
		return err
	}

	path, err := wix.Init(project.Root, vars, initForce)
	if err != nil {
		return err
	}

	fmt.Printf("✅ Created %s\n", path)
	fmt.Printf("%s %s\n", ui.IconHint,
		ui.Hint("replace every '{{"+wix.GUIDPlaceholder+"}}' with a GUID of your own before shipping"))
	return nil
}
