package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tamilqa/tamilqa/internal/report"
)

// NewDeleteCmd creates the delete command
func NewDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <run-id>...",
		Short: "Delete saved run reports",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			for _, runID := range args {
				if err := report.Remove(ctx, runID); err != nil {
					return err
				}
				Logger.Debug("deleted run report", "run_id", runID)
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted run %s\n", runID)
			}
			return nil
		},
	}
}
