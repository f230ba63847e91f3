package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates a new root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tamilqa",
		Short: "Scenario runner for the Singlish to Tamil converter",
		Long: `tamilqa drives a Singlish to Tamil transliteration site through a real browser,
feeds it a catalog of scenarios and checks the rendered Tamil output.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				_ = os.Setenv("TAMILQA_LOG", "DEBUG")
			}

			InitLogging()
		},
	}

	cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")

	cmd.AddCommand(
		NewRunCmd(),
		NewValidateCmd(),
		NewScenariosCmd(),
		NewListCmd(),
		NewGetCmd(),
		NewDeleteCmd(),
		NewInstallCmd(),
		NewDoctorCmd(),
		NewVersionCmd(),
	)

	return cmd
}
