package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/tamilqa/tamilqa/internal/catalog"
	"github.com/tamilqa/tamilqa/internal/config"
	"github.com/tamilqa/tamilqa/internal/driver"
	"github.com/tamilqa/tamilqa/internal/report"
)

type checkResult struct {
	name     string
	ok       bool
	critical bool
	messages []string
}

// DoctorFlags holds the flags for the doctor command
type DoctorFlags struct {
	Config      string
	EnvFile     string
	Catalog     string
	SkipBrowser bool
}

// NewDoctorCmd creates a doctor subcommand that checks a run can succeed
// before any case is executed.
func NewDoctorCmd() *cobra.Command {
	flags := &DoctorFlags{}

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose configuration, catalog and browser issues",
		RunE: func(cmd *cobra.Command, args []string) error {
			results := runDoctorChecks(flags)
			out := cmd.OutOrStdout()
			criticalIssues := 0

			for _, res := range results {
				switch {
				case res.ok:
					_, _ = fmt.Fprintf(out, "[PASS] %s\n", res.name)
				case res.critical:
					_, _ = fmt.Fprintf(out, "[FAIL] %s\n", res.name)
					criticalIssues++
				default:
					_, _ = fmt.Fprintf(out, "[WARN] %s\n", res.name)
				}

				for _, msg := range res.messages {
					_, _ = fmt.Fprintf(out, "    %s\n", msg)
				}
			}

			if criticalIssues > 0 {
				return fmt.Errorf("doctor found %d critical issue(s)", criticalIssues)
			}

			_, _ = fmt.Fprintln(out, "All checks passed.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&flags.Config, "config", "c", "", "Path to a config file (default tamilqa.yaml if present)")
	cmd.Flags().StringVar(&flags.EnvFile, "env-file", "", "Path to a .env file with TAMILQA_* variables")
	cmd.Flags().StringVar(&flags.Catalog, "catalog", "", "Catalog to check instead of the built-in one")
	cmd.Flags().BoolVar(&flags.SkipBrowser, "skip-browser", false, "Do not open a browser on the target")

	return cmd
}

func runDoctorChecks(flags *DoctorFlags) []checkResult {
	cfgRes, cfg, cfgOK := checkConfig(flags.Config, flags.EnvFile)
	results := []checkResult{
		cfgRes,
		checkCatalog(flags.Catalog),
		checkRunDir(),
	}
	switch {
	case flags.SkipBrowser:
	case !cfgOK:
		results = append(results, checkResult{
			name:     "Target page",
			critical: true,
			messages: []string{"skipped: the configuration is invalid"},
		})
	default:
		results = append(results, checkTarget(cfg))
	}
	return results
}

func checkConfig(path, envFile string) (checkResult, config.Config, bool) {
	res := checkResult{name: "Configuration"}

	cfg, err := config.Load(path, envFile)
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		res.critical = true
		res.messages = []string{err.Error()}
		return res, config.Config{}, false
	}

	res.ok = true
	res.messages = []string{
		fmt.Sprintf("target %s with %s, settle %s", cfg.TargetURL, cfg.Browser, cfg.Settle),
	}
	return res, cfg, true
}

func checkCatalog(path string) checkResult {
	res := checkResult{name: "Scenario catalog"}

	var (
		c   *catalog.Catalog
		err error
	)
	if path == "" {
		c, err = catalog.Default()
	} else {
		c, err = catalog.Load(path)
	}
	if err != nil {
		res.critical = true
		res.messages = []string{err.Error()}
		return res
	}

	res.ok = true
	res.messages = []string{fmt.Sprintf("%s: %d scenarios", c.Name, c.Len())}
	return res
}

func checkRunDir() checkResult {
	res := checkResult{name: "Run report directory"}

	dir, err := report.BaseDir()
	if err == nil {
		err = report.EnsureDir()
	}
	if err == nil {
		err = verifyWritable(filepath.Join(dir, "reports"))
	}
	if err != nil {
		// reports are optional, runs still work with --no-report
		res.messages = []string{err.Error(), "Set TAMILQA_RUN_DIR to a writable directory or run with --no-report."}
		return res
	}

	res.ok = true
	res.messages = []string{fmt.Sprintf("reports are written to %s", filepath.Join(dir, "reports"))}
	return res
}

func checkTarget(cfg config.Config) checkResult {
	res := checkResult{name: "Target page", critical: true}

	opener, shutdown, err := openBrowser(cfg, Logger)
	if err != nil {
		res.messages = []string{err.Error(), "Install the browsers with: tamilqa install"}
		return res
	}
	defer func() {
		if err := shutdown(); err != nil {
			Logger.Debug("failed to stop browser backend", "error", err)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.NavigationTimeout+cfg.LocatorTimeout)
	defer cancel()

	start := time.Now()
	s, err := opener.Open(ctx, nil)
	if err != nil {
		res.messages = []string{err.Error()}
		return res
	}
	defer func() { _ = s.Close() }()

	if err := s.Fill(cfg.InputSelector, ""); err != nil {
		res.messages = []string{
			fmt.Sprintf("input %q not usable: %v", cfg.InputSelector, err),
			"Check input_selector against the current page.",
		}
		return res
	}
	if _, err := s.Text(driver.CSSDisjunction(cfg.OutputSelectors).Selector(), cfg.LocatorTimeout); err != nil {
		res.messages = []string{
			fmt.Sprintf("no output element matched: %v", err),
			"Check output_selectors against the current page.",
		}
		return res
	}

	res.ok = true
	res.messages = []string{fmt.Sprintf("%s loaded and usable in %s", cfg.TargetURL, time.Since(start).Round(time.Millisecond))}
	return res
}

func verifyWritable(dir string) error {
	f, err := os.CreateTemp(dir, ".tamilqa-doctor")
	if err != nil {
		return err
	}
	path := f.Name()
	_ = f.Close()
	return os.Remove(path)
}
