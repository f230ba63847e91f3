package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tamilqa/tamilqa/internal/catalog"
)

// ScenariosFlags holds the flags for the scenarios command
type ScenariosFlags struct {
	Groups []string
	Filter string
	Format string // table, json, yaml
}

// NewScenariosCmd creates the scenarios command
func NewScenariosCmd() *cobra.Command {
	flags := &ScenariosFlags{Format: "table"}

	cmd := &cobra.Command{
		Use:   "scenarios [catalog.yaml]",
		Short: "Print the cases of a catalog",
		Long: `Print the cases a run would execute, in run order.

Examples:
  tamilqa scenarios
  tamilqa scenarios --group negative --format json
  tamilqa scenarios --filter '.input_domain | test("Slang")'`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			_, cases, err := selectCases(path, flags.Groups, flags.Filter)
			if err != nil {
				return err
			}
			return printCases(cmd.OutOrStdout(), cases, flags.Format)
		},
	}

	cmd.Flags().StringArrayVar(&flags.Groups, "group", nil, "Case group to print (positive, negative, ui); repeatable")
	cmd.Flags().StringVar(&flags.Filter, "filter", "", "jq expression selecting cases")
	cmd.Flags().StringVar(&flags.Format, "format", flags.Format, "Output format (table, json, yaml)")

	return cmd
}

func printCases(out io.Writer, cases []catalog.Case, format string) error {
	switch format {
	case "table":
		return displayCasesTable(out, cases)
	case "json", "yaml":
		return encode(out, format, cases)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func displayCasesTable(out io.Writer, cases []catalog.Case) error {
	if len(cases) == 0 {
		fmt.Fprintln(out, "No cases selected.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	defer func() {
		if err := w.Flush(); err != nil {
			Logger.Debug("failed to flush writer", "error", err)
		}
	}()

	if _, err := fmt.Fprintf(w, "ID\tLABEL\tMODE\tLEN\tINPUT\tEXPECTED\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "--\t-----\t----\t---\t-----\t--------\n"); err != nil {
		return err
	}
	for _, c := range cases {
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			c.Scenario.ID,
			c.Label,
			c.Mode,
			c.Scenario.Length,
			truncate(oneLine(c.Scenario.Input), 40),
			truncate(oneLine(c.Scenario.Expected), 40),
		); err != nil {
			return err
		}
	}
	return nil
}

func oneLine(s string) string {
	return strings.ReplaceAll(s, "\n", `\n`)
}

// truncate shortens s to max runes.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}
