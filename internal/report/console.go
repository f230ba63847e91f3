// Package report prints run results and keeps JSON run reports on disk.
package report

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"

	"github.com/tamilqa/tamilqa/internal/runner"
)

// Console prints one line per finished case and a closing summary.
type Console struct {
	mu  sync.Mutex
	out io.Writer
	// Progress also prints the per-character snapshots of realtime cases.
	Progress bool
}

var _ runner.Reporter = (*Console)(nil)

// NewConsole returns a Console writing to out.
func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

// CaseFinished prints the verdict line of res, plus the failure reason and
// any attempt or progress detail.
func (c *Console) CaseFinished(res runner.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var mark string
	switch {
	case res.Skipped:
		mark = color.YellowString("- SKIP")
	case res.Passed():
		mark = color.GreenString("✓ PASS")
	default:
		mark = color.RedString("✗ FAIL")
	}
	fmt.Fprintf(c.out, "%s [%s] %s\n", mark, res.Case.Scenario.ID, res.Verdict.Diagnostic())

	if !res.Passed() && res.Verdict.Reason != "" {
		fmt.Fprintf(c.out, "    %s\n", res.Verdict.Reason)
	}
	if res.Unstable {
		fmt.Fprintf(c.out, "    %s output changed across %d attempts: %s\n",
			color.YellowString("!"), len(res.Attempts), strings.Join(res.Attempts, " | "))
	}
	if c.Progress {
		for i, snapshot := range res.Observed.Progress {
			fmt.Fprintf(c.out, "    %2d: %s\n", i+1, snapshot)
		}
	}
}

// Summary prints the totals block.
func (c *Console) Summary(s runner.Summary) {
	c.mu.Lock()
	defer c.mu.Unlock()

	fmt.Fprintln(c.out, "\n=== Final Summary ===")
	fmt.Fprintf(c.out, "Total Tests: %d\n", s.Total)
	fmt.Fprintf(c.out, "%s Passed Tests: %d\n", color.GreenString("✓"), s.Passed)
	fmt.Fprintf(c.out, "%s Failed Tests: %d\n", color.RedString("✗"), s.Failed)
	if s.Skipped > 0 {
		fmt.Fprintf(c.out, "%s Skipped Tests: %d\n", color.YellowString("-"), s.Skipped)
	}
	if s.Unstable > 0 {
		fmt.Fprintf(c.out, "%s Unstable Tests: %d\n", color.YellowString("!"), s.Unstable)
	}
	fmt.Fprintf(c.out, "Duration: %s\n", s.Duration.Round(time.Millisecond))
}
