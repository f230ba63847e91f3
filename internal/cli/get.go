package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tamilqa/tamilqa/internal/report"
)

// GetFlags holds the flags for the get command
type GetFlags struct {
	Format     string // table, json, yaml
	FailedOnly bool
}

// NewGetCmd creates a new get command
func NewGetCmd() *cobra.Command {
	flags := &GetFlags{
		Format: "table",
	}

	cmd := &cobra.Command{
		Use:   "get <run-id>",
		Short: "Get details of a saved test run",
		Long: `Get detailed information about a saved test run. A unique prefix of the run ID is enough.

Examples:
  # Get run details
  tamilqa get 3f2a9c1b

  # Only the cases that did not pass
  tamilqa get 3f2a9c1b --failed-only

  # Full report in JSON format
  tamilqa get 3f2a9c1b --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(cmd.OutOrStdout(), args[0], flags)
		},
	}

	cmd.Flags().StringVar(&flags.Format, "format", flags.Format, "Output format (table, json, yaml)")
	cmd.Flags().BoolVar(&flags.FailedOnly, "failed-only", false, "Only show cases that did not pass")

	return cmd
}

func runGet(out io.Writer, runID string, flags *GetFlags) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	Logger.Debug("getting test run details", "run_id", runID)

	r, err := report.Read(ctx, runID)
	if err != nil {
		return fmt.Errorf("failed to get run: %w", err)
	}

	switch flags.Format {
	case "table":
		return displayRunDetails(out, r, flags.FailedOnly)
	case "json", "yaml":
		return encode(out, flags.Format, r)
	default:
		return fmt.Errorf("unknown format: %s", flags.Format)
	}
}

func displayRunDetails(out io.Writer, r *report.Report, failedOnly bool) error {
	status := runStatus(*r)
	s := r.Summary

	fmt.Fprintf(out, "Test Run Details\n")
	fmt.Fprintf(out, "================\n\n")
	fmt.Fprintf(out, "Run ID:      %s\n", r.RunID)
	fmt.Fprintf(out, "Catalog:     %s\n", r.Catalog)
	fmt.Fprintf(out, "Status:      %s %s\n", getStatusIcon(status), status)
	fmt.Fprintf(out, "Target:      %s\n", r.TargetURL)
	fmt.Fprintf(out, "Browser:     %s (settle: %s)\n", r.Browser, r.Settle)
	if !r.StartedAt.IsZero() {
		fmt.Fprintf(out, "Started:     %s\n", r.StartedAt.Format(time.RFC3339))
	}
	if !r.FinishedAt.IsZero() {
		fmt.Fprintf(out, "Ended:       %s\n", r.FinishedAt.Format(time.RFC3339))
	}
	fmt.Fprintf(out, "Duration:    %s\n", formatDuration(s.Duration))
	fmt.Fprintf(out, "Tests:       %d passed, %d failed, %d skipped, %d total\n", s.Passed, s.Failed, s.Skipped, s.Total)
	if s.Unstable > 0 {
		fmt.Fprintf(out, "Unstable:    %d\n", s.Unstable)
	}

	fmt.Fprintf(out, "\nCases\n-----\n")
	for _, res := range s.Results {
		if failedOnly && res.Passed() {
			continue
		}
		icon := "✓"
		if !res.Passed() {
			icon = "✗"
		}
		fmt.Fprintf(out, "%s [%s] %s\n", icon, res.Case.Scenario.ID, res.Verdict.Diagnostic())
		if !res.Passed() && res.Verdict.Reason != "" {
			fmt.Fprintf(out, "    %s\n", res.Verdict.Reason)
		}
		if res.Unstable {
			fmt.Fprintf(out, "    attempts: %s\n", strings.Join(res.Attempts, " | "))
		}
	}
	return nil
}
