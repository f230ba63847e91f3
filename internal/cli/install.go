package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tamilqa/tamilqa/internal/browser"
)

var installBrowsers = browser.Install

// NewInstallCmd creates the install command
func NewInstallCmd() *cobra.Command {
	var browsers []string

	cmd := &cobra.Command{
		Use:   "install",
		Short: "Install the Playwright driver and browsers",
		Long: `Download the Playwright driver and the browsers tamilqa runs against.

Examples:
  tamilqa install
  tamilqa install --browser chromium --browser firefox`,
		RunE: func(cmd *cobra.Command, args []string) error {
			Logger.Info("installing playwright browsers", "browsers", browsers)
			if err := installBrowsers(browsers...); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "✅ Playwright browsers installed")
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&browsers, "browser", []string{"chromium"}, "Browser to install (repeatable)")
	return cmd
}
