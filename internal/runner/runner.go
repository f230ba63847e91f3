// Package runner drives catalog cases through fresh browser sessions and
// collects verdicts.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/tamilqa/tamilqa/internal/catalog"
	"github.com/tamilqa/tamilqa/internal/driver"
	"github.com/tamilqa/tamilqa/internal/oracle"
)

// Session is a live page owned by a single case.
type Session interface {
	driver.Surface
	Close() error
}

// Opener acquires a fresh session loaded on the target. A nil headless keeps
// the opener's default.
type Opener interface {
	Open(ctx context.Context, headless *bool) (Session, error)
}

// OpenerFunc adapts a function to Opener.
type OpenerFunc func(ctx context.Context, headless *bool) (Session, error)

func (f OpenerFunc) Open(ctx context.Context, headless *bool) (Session, error) {
	return f(ctx, headless)
}

// Reporter is told about every finished case. Calls are serialized.
type Reporter interface {
	CaseFinished(Result)
}

// Result is the outcome of one case across all its attempts.
type Result struct {
	Case    catalog.Case   `json:"case"`
	Verdict oracle.Verdict `json:"verdict"`
	// Observed is the last attempt's observation.
	Observed driver.Observed `json:"observed"`
	// Attempts holds the actual text of every attempt, in order.
	Attempts []string `json:"attempts"`
	// Unstable is set when attempts disagreed on the actual text.
	Unstable bool `json:"unstable,omitempty"`
	// Error describes a session failure or conversion fault, if any.
	Error    string        `json:"error,omitempty"`
	Skipped  bool          `json:"skipped,omitempty"`
	Started  time.Time     `json:"started"`
	Duration time.Duration `json:"duration"`
}

// Passed reports whether the case passed on every attempt.
func (r Result) Passed() bool { return !r.Skipped && r.Verdict.Passed }

// Summary aggregates a run.
type Summary struct {
	Total    int           `json:"total"`
	Passed   int           `json:"passed"`
	Failed   int           `json:"failed"`
	Skipped  int           `json:"skipped"`
	Unstable int           `json:"unstable"`
	Duration time.Duration `json:"duration"`
	Results  []Result      `json:"results"`
}

// OK reports whether every case passed.
func (s Summary) OK() bool { return s.Failed == 0 && s.Skipped == 0 }

// Runner executes cases. Converter handles bulk cases, Typist realtime ones.
type Runner struct {
	Opener    Opener
	Converter *driver.Converter
	Typist    *driver.Typist
	Oracle    *oracle.Oracle

	// Workers is the number of cases in flight. Cases share the external
	// target, so the default of one keeps them serialized.
	Workers int
	// Repeat runs every case this many times, each in its own session.
	Repeat int
	// UIHeadless overrides headless mode for realtime cases.
	UIHeadless *bool

	Reporter Reporter
	Logger   *slog.Logger
}

// Run executes cases and returns results in the order given. A cancelled
// context stops new cases from starting and interrupts the ones in flight;
// all of them are reported as skipped, never judged.
func (r *Runner) Run(ctx context.Context, cases []catalog.Case) Summary {
	logger := r.logger()
	workers := max(r.Workers, 1)
	start := time.Now()

	results := make([]Result, len(cases))
	jobs := make(chan int)

	var (
		wg       sync.WaitGroup
		reportMu sync.Mutex
	)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				res := r.runCase(ctx, cases[i])
				results[i] = res

				reportMu.Lock()
				if r.Reporter != nil {
					r.Reporter.CaseFinished(res)
				}
				reportMu.Unlock()
			}
		}()
	}

	dispatched := 0
dispatch:
	for i := range cases {
		select {
		case <-ctx.Done():
			break dispatch
		case jobs <- i:
			dispatched++
		}
	}
	close(jobs)
	wg.Wait()

	for i := dispatched; i < len(cases); i++ {
		results[i] = skipped(cases[i], ctx.Err())
	}

	summary := Summary{Total: len(cases), Results: results, Duration: time.Since(start)}
	for _, res := range results {
		switch {
		case res.Skipped:
			summary.Skipped++
		case res.Passed():
			summary.Passed++
		default:
			summary.Failed++
		}
		if res.Unstable {
			summary.Unstable++
		}
	}
	logger.Info("run finished", "total", summary.Total, "passed", summary.Passed, "failed", summary.Failed,
		"skipped", summary.Skipped, "duration", summary.Duration)
	return summary
}

func (r *Runner) runCase(ctx context.Context, c catalog.Case) Result {
	logger := r.logger().With("id", c.Scenario.ID, "label", c.Label)
	start := time.Now()
	res := Result{Case: c, Started: start}

	repeat := max(r.Repeat, 1)
	var failed *oracle.Verdict
	for attempt := 1; attempt <= repeat; attempt++ {
		obs, err := r.attempt(ctx, c)
		if cancelled(ctx, err) || cancelled(ctx, obs.Err) {
			logger.Warn("case interrupted", "attempt", attempt, "error", ctx.Err())
			res = skipped(c, ctx.Err())
			res.Observed = obs
			res.Started = start
			res.Duration = time.Since(start)
			return res
		}
		if err != nil {
			logger.Error("session failed", "attempt", attempt, "error", err)
			res.Verdict = oracle.Failed(c, err.Error())
			res.Error = err.Error()
			res.Duration = time.Since(res.Started)
			return res
		}

		res.Observed = obs
		res.Attempts = append(res.Attempts, obs.Actual)
		if obs.Err != nil {
			res.Error = obs.Err.Error()
			logger.Warn("conversion fault", "attempt", attempt, "error", obs.Err)
		}

		v := r.Oracle.Judge(c, obs.Actual)
		if !v.Passed && failed == nil {
			failed = &v
		}
		res.Verdict = v
		logger.Debug("case attempt judged", "attempt", attempt, "passed", v.Passed, "elapsed", obs.Elapsed)
	}
	if failed != nil {
		res.Verdict = *failed
	}

	for _, a := range res.Attempts[1:] {
		if a != res.Attempts[0] {
			res.Unstable = true
			break
		}
	}
	res.Duration = time.Since(res.Started)
	return res
}

// attempt runs the case once in a session of its own. The session is closed
// before attempt returns, whatever happened while driving it.
func (r *Runner) attempt(ctx context.Context, c catalog.Case) (obs driver.Observed, err error) {
	var headless *bool
	if c.Mode == catalog.ModeRealtime {
		headless = r.UIHeadless
	}

	s, err := r.Opener.Open(ctx, headless)
	if err != nil {
		return driver.Observed{}, fmt.Errorf("open session: %w", err)
	}
	defer func() {
		if closeErr := s.Close(); closeErr != nil {
			r.logger().Warn("failed to close session", "id", c.Scenario.ID, "error", closeErr)
		}
	}()

	switch c.Mode {
	case catalog.ModeRealtime:
		if r.Typist == nil {
			return driver.Observed{}, errors.New("no typist configured for realtime cases")
		}
		return r.Typist.TypeAndRead(ctx, s, c.Scenario.Input), nil
	default:
		if r.Converter == nil {
			return driver.Observed{}, errors.New("no converter configured for bulk cases")
		}
		return r.Converter.Convert(ctx, s, c.Scenario.Input), nil
	}
}

// cancelled reports whether err was caused by ctx ending rather than by the
// page. Anything that fails after the run is cancelled counts as interrupted.
func cancelled(ctx context.Context, err error) bool {
	return err != nil && ctx.Err() != nil
}

func skipped(c catalog.Case, cause error) Result {
	res := Result{
		Case:    c,
		Verdict: oracle.Failed(c, "skipped: run cancelled"),
		Skipped: true,
	}
	if cause != nil {
		res.Error = cause.Error()
	}
	return res
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
