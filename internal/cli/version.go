package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is overridden at build time with -ldflags "-X".
var Version = "dev"

// NewVersionCmd creates a new version command
func NewVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version number of tamilqa",
		Long:  `Print the version number of the tamilqa CLI.`,
		Run: func(cmd *cobra.Command, args []string) {
			version := os.Getenv("TAMILQA_VERSION")
			if version == "" {
				version = Version
			}
			fmt.Fprintf(cmd.OutOrStdout(), "tamilqa %s\n", version)
		},
	}

	return cmd
}
