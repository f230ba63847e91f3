package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tamilqa/tamilqa/internal/catalog"
	"github.com/tamilqa/tamilqa/internal/config"
	"github.com/tamilqa/tamilqa/internal/report"
)

// RunFlags holds the flags for the run command
type RunFlags struct {
	Config     string
	EnvFile    string
	URL        string
	Headless   bool
	Browser    string
	Settle     string
	SettleWait time.Duration
	Workers    int
	Repeat     int
	Groups     []string
	Filter     string
	NoReport   bool
	Progress   bool
}

// NewRunCmd creates a new run command
func NewRunCmd() *cobra.Command {
	flags := &RunFlags{}

	cmd := &cobra.Command{
		Use:   "run [catalog.yaml]",
		Short: "Run the scenario catalog against the converter",
		Long: `Run every scenario of a catalog against the converter site and report a verdict per case.
Without an argument the built-in catalog is used.

Examples:
  tamilqa run                                  # Built-in catalog, all groups
  tamilqa run scenarios.yaml --group negative  # Only the negative cases
  tamilqa run --filter '.length == "L"'        # Only long inputs
  tamilqa run --settle fixed --headless=false  # Original fixed wait, visible browser
  tamilqa run --repeat 3                       # Flag cases whose output is not stable`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runRun(cmd, path, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.Config, "config", "c", "", "Path to a config file (default tamilqa.yaml if present)")
	cmd.Flags().StringVar(&flags.EnvFile, "env-file", "", "Path to a .env file with TAMILQA_* variables")
	cmd.Flags().StringVar(&flags.URL, "url", "", "Target URL of the converter")
	cmd.Flags().BoolVar(&flags.Headless, "headless", true, "Run browsers headless, including the realtime case")
	cmd.Flags().StringVar(&flags.Browser, "browser", "", "Browser engine (chromium, firefox, webkit)")
	cmd.Flags().StringVar(&flags.Settle, "settle", "", "Settle mode (fixed, stable)")
	cmd.Flags().DurationVar(&flags.SettleWait, "settle-wait", 0, "Wait after writing input in fixed settle mode")
	cmd.Flags().IntVar(&flags.Workers, "workers", 0, "Number of cases run in parallel")
	cmd.Flags().IntVar(&flags.Repeat, "repeat", 0, "Run every case this many times in fresh sessions")
	cmd.Flags().StringArrayVar(&flags.Groups, "group", nil, "Case group to run (positive, negative, ui); repeatable")
	cmd.Flags().StringVar(&flags.Filter, "filter", "", "jq expression selecting cases")
	cmd.Flags().BoolVar(&flags.NoReport, "no-report", false, "Do not write a JSON run report")
	cmd.Flags().BoolVar(&flags.Progress, "progress", false, "Print per-character snapshots of realtime cases")

	return cmd
}

func runRun(cmd *cobra.Command, path string, flags *RunFlags) error {
	cfg, err := loadRunConfig(cmd, flags)
	if err != nil {
		return err
	}

	cat, cases, err := selectCases(path, flags.Groups, flags.Filter)
	if err != nil {
		return err
	}
	if len(cases) == 0 {
		return errors.New("no cases selected")
	}

	// Past this point failures are run results, not usage errors.
	cmd.SilenceUsage = true

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	Logger.Info("starting run", "catalog", cat.Name, "cases", len(cases), "url", cfg.TargetURL,
		"browser", cfg.Browser, "settle", cfg.Settle, "workers", cfg.Workers, "repeat", cfg.Repeat)

	opener, shutdown, err := openBrowser(cfg, Logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdown(); err != nil {
			Logger.Warn("failed to stop browser backend", "error", err)
		}
	}()

	console := report.NewConsole(cmd.OutOrStdout())
	console.Progress = flags.Progress

	started := time.Now().UTC()
	summary := newRunner(cfg, opener, console, Logger, flags.Progress).Run(ctx, cases)
	console.Summary(summary)

	if !flags.NoReport {
		r := report.Report{
			RunID:      report.NewRunID(),
			Catalog:    cat.Name,
			TargetURL:  cfg.TargetURL,
			Browser:    cfg.Browser,
			Settle:     cfg.Settle,
			StartedAt:  started,
			FinishedAt: time.Now().UTC(),
			Summary:    summary,
		}
		// the run context may already be cancelled; the report is still written
		reportPath, err := report.Write(context.Background(), r)
		if err != nil {
			Logger.Error("failed to write run report", "error", err)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "\nRun %s report: %s\n", r.RunID, reportPath)
		}
	}

	if !summary.OK() {
		return fmt.Errorf("%d of %d cases did not pass", summary.Failed+summary.Skipped, summary.Total)
	}
	return nil
}

// loadRunConfig layers explicitly set flags over the loaded config.
func loadRunConfig(cmd *cobra.Command, flags *RunFlags) (config.Config, error) {
	cfg, err := config.Load(flags.Config, flags.EnvFile)
	if err != nil {
		return config.Config{}, err
	}

	changed := cmd.Flags().Changed
	if changed("url") {
		cfg.TargetURL = flags.URL
	}
	if changed("headless") {
		cfg.Headless = flags.Headless
		cfg.UIHeadless = flags.Headless
	}
	if changed("browser") {
		cfg.Browser = flags.Browser
	}
	if changed("settle") {
		cfg.Settle = flags.Settle
	}
	if changed("settle-wait") {
		cfg.SettleWait = flags.SettleWait
	}
	if changed("workers") {
		cfg.Workers = flags.Workers
	}
	if changed("repeat") {
		cfg.Repeat = flags.Repeat
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// selectCases loads the catalog at path, or the built-in one, and narrows it
// to the requested groups and filter.
func selectCases(path string, groups []string, filter string) (*catalog.Catalog, []catalog.Case, error) {
	var (
		cat *catalog.Catalog
		err error
	)
	if path == "" {
		cat, err = catalog.Default()
	} else {
		cat, err = catalog.Load(path)
	}
	if err != nil {
		return nil, nil, err
	}

	cases, err := cat.Cases(groups...)
	if err != nil {
		return nil, nil, err
	}
	if filter != "" {
		cases, err = catalog.Filter(cases, filter)
		if err != nil {
			return nil, nil, err
		}
	}
	return cat, cases, nil
}
