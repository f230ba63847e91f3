package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	yaml "gopkg.in/yaml.v3"

	"github.com/tamilqa/tamilqa/internal/report"
)

// ListFlags holds the flags for the list command
type ListFlags struct {
	Limit  int
	Failed bool
	Format string // table, json, yaml
}

// NewListCmd creates a new list command
func NewListCmd() *cobra.Command {
	flags := &ListFlags{
		Limit:  20,
		Format: "table",
	}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved run reports",
		Long: `List the run reports stored under $TAMILQA_RUN_DIR (default ./.tamilqa), newest first.

Examples:
  tamilqa list
  tamilqa list --failed
  tamilqa list --limit 5 --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, flags)
		},
	}

	cmd.Flags().IntVar(&flags.Limit, "limit", flags.Limit, "Maximum number of runs to display (0 for all)")
	cmd.Flags().BoolVar(&flags.Failed, "failed", false, "Only show runs with failing cases")
	cmd.Flags().StringVar(&flags.Format, "format", flags.Format, "Output format (table, json, yaml)")

	return cmd
}

func runList(cmd *cobra.Command, flags *ListFlags) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	reports, err := report.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if flags.Failed {
		failing := reports[:0]
		for _, r := range reports {
			if !r.Summary.OK() {
				failing = append(failing, r)
			}
		}
		reports = failing
	}
	if flags.Limit > 0 && len(reports) > flags.Limit {
		reports = reports[:flags.Limit]
	}

	Logger.Debug("listing runs", "count", len(reports))

	out := cmd.OutOrStdout()
	switch flags.Format {
	case "table":
		return displayRunsTable(out, reports)
	case "json", "yaml":
		// results are left out of the listing; use get for the full report
		rows := make([]runRow, 0, len(reports))
		for _, r := range reports {
			rows = append(rows, newRunRow(r))
		}
		return encode(out, flags.Format, rows)
	default:
		return fmt.Errorf("unknown format: %s", flags.Format)
	}
}

type runRow struct {
	RunID     string    `json:"run_id" yaml:"run_id"`
	Status    string    `json:"status" yaml:"status"`
	Catalog   string    `json:"catalog" yaml:"catalog"`
	Total     int       `json:"total" yaml:"total"`
	Passed    int       `json:"passed" yaml:"passed"`
	Failed    int       `json:"failed" yaml:"failed"`
	Duration  string    `json:"duration" yaml:"duration"`
	StartedAt time.Time `json:"started_at" yaml:"started_at"`
}

func newRunRow(r report.Report) runRow {
	return runRow{
		RunID:     r.RunID,
		Status:    runStatus(r),
		Catalog:   r.Catalog,
		Total:     r.Summary.Total,
		Passed:    r.Summary.Passed,
		Failed:    r.Summary.Failed,
		Duration:  formatDuration(r.Summary.Duration),
		StartedAt: r.StartedAt,
	}
}

func displayRunsTable(out io.Writer, reports []report.Report) error {
	if len(reports) == 0 {
		fmt.Fprintln(out, "No test runs found.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	defer func() {
		if err := w.Flush(); err != nil {
			Logger.Debug("failed to flush writer", "error", err)
		}
	}()

	if _, err := fmt.Fprintf(w, "RUN ID\tSTATUS\tCATALOG\tTESTS\tDURATION\tSTARTED\tURL\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "------\t------\t-------\t-----\t--------\t-------\t---\n"); err != nil {
		return err
	}

	for _, r := range reports {
		status := runStatus(r)
		if _, err := fmt.Fprintf(w, "%s\t%s %s\t%s\t%s\t%s\t%s\t%s\n",
			r.RunID[:min(12, len(r.RunID))],
			getStatusIcon(status),
			status,
			truncate(r.Catalog, 30),
			fmt.Sprintf("%d/%d/%d", r.Summary.Passed, r.Summary.Failed, r.Summary.Total),
			formatDuration(r.Summary.Duration),
			formatTime(r.StartedAt),
			r.TargetURL,
		); err != nil {
			return err
		}
	}
	return nil
}

func runStatus(r report.Report) string {
	s := r.Summary
	switch {
	case s.Skipped > 0:
		return "CANCELLED"
	case s.Failed > 0:
		return "FAILED"
	default:
		return "PASSED"
	}
}

func getStatusIcon(status string) string {
	switch status {
	case "PASSED":
		return "✓"
	case "FAILED":
		return "✗"
	case "CANCELLED":
		return "⏹"
	default:
		return "?"
	}
}

func formatDuration(d time.Duration) string {
	ms := d.Milliseconds()
	switch {
	case ms < 1000:
		return fmt.Sprintf("%dms", ms)
	case ms < 60000:
		return fmt.Sprintf("%.1fs", float64(ms)/1000)
	default:
		return fmt.Sprintf("%dm%ds", ms/60000, (ms%60000)/1000)
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "N/A"
	}
	diff := time.Since(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 02")
	}
}

func encode(out io.Writer, format string, v interface{}) error {
	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
