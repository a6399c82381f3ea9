package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/dosanma1/msiforge/internal/wix"
)

var templateCmd = &cobra.Command{
	Use:     "template",
	Aliases: []string{"print-template"},
	Short:   "Print the rendered authoring template to stdout",
	Long: `Render the embedded installer template with this project's metadata and
print it to standard output.

The output is byte-identical to what 'msiforge init' would write, which
makes it handy for diffing against a hand-edited wix/main.wxs or for
piping into another location.`,
	Args: cobra.NoArgs,
	RunE: runTemplate,
}

func init() {
	rootCmd.AddCommand(templateCmd)
	addMetadataFlags(templateCmd)
}

func runTemplate(cmd *cobra.Command, args []string) error {
	project, err := loadProject()
	if err != nil {
		return err
	}

	vars, err := wix.Resolve(project, buildConfig("").Overrides)
	if err != nil {
		return err
	}

	return wix.WriteTemplate(os.Stdout, vars)
}
