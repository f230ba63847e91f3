//go:build e2e

package e2e

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamilqa/tamilqa/internal/browser"
	"github.com/tamilqa/tamilqa/internal/catalog"
	"github.com/tamilqa/tamilqa/internal/config"
	"github.com/tamilqa/tamilqa/internal/driver"
	"github.com/tamilqa/tamilqa/internal/oracle"
	"github.com/tamilqa/tamilqa/internal/runner"
)

type env struct {
	cfg       config.Config
	manager   *browser.Manager
	converter *driver.Converter
	typist    *driver.Typist
}

func setup(t *testing.T) *env {
	t.Helper()

	cfg, err := config.Load(os.Getenv("TAMILQA_CONFIG"), "")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	m := browser.NewManager(browser.Options{
		Browser:           cfg.Browser,
		Headless:          cfg.Headless,
		TargetURL:         cfg.TargetURL,
		NavigationTimeout: cfg.NavigationTimeout,
		ActionTimeout:     cfg.LocatorTimeout,
	}, nil)
	require.NoError(t, m.Start())
	t.Cleanup(func() { _ = m.Stop() })

	output := driver.CSSDisjunction(cfg.OutputSelectors)
	var settler driver.Settler = driver.StableText{Interval: cfg.PollInterval, Reads: cfg.StableReads, Timeout: cfg.SettleTimeout, MinWait: cfg.SettleWait}
	if cfg.Settle == config.SettleFixed {
		settler = driver.FixedDelay{Wait: cfg.SettleWait}
	}

	return &env{
		cfg:     cfg,
		manager: m,
		converter: &driver.Converter{
			InputSelector:  cfg.InputSelector,
			Output:         output,
			Settler:        settler,
			LocatorTimeout: cfg.LocatorTimeout,
		},
		typist: &driver.Typist{
			InputSelector:  cfg.InputSelector,
			Output:         output,
			KeyDelay:       cfg.KeyDelay,
			PostCharDelay:  cfg.PostCharDelay,
			FinalSettle:    cfg.FinalSettle,
			LocatorTimeout: cfg.LocatorTimeout,
		},
	}
}

func (e *env) convert(t *testing.T, input string) driver.Observed {
	t.Helper()
	var obs driver.Observed
	err := e.manager.WithSession(context.Background(), browser.OpenOptions{}, func(s *browser.Session) error {
		obs = e.converter.Convert(context.Background(), s, input)
		return nil
	})
	require.NoError(t, err)
	return obs
}

func cases(t *testing.T, groups ...string) []catalog.Case {
	t.Helper()
	c, err := catalog.Default()
	require.NoError(t, err)
	cs, err := c.Cases(groups...)
	require.NoError(t, err)
	return cs
}

func TestCatalog(t *testing.T) {
	e := setup(t)
	o := oracle.New(oracle.Options{Normalize: e.cfg.Normalize})

	for _, c := range cases(t, catalog.GroupPositive, catalog.GroupNegative) {
		t.Run(c.Scenario.ID, func(t *testing.T) {
			obs := e.convert(t, c.Scenario.Input)
			v := o.Judge(c, obs.Actual)
			t.Log(v.Diagnostic())
			assert.True(t, v.Passed, v.Reason)
		})
	}
}

func TestRealtimeTyping(t *testing.T) {
	e := setup(t)
	o := oracle.New(oracle.Options{Normalize: e.cfg.Normalize})
	ui := cases(t, catalog.GroupUI)
	require.Len(t, ui, 1)
	c := ui[0]

	headless := e.cfg.UIHeadless
	var obs driver.Observed
	err := e.manager.WithSession(context.Background(), browser.OpenOptions{Headless: &headless}, func(s *browser.Session) error {
		obs = e.typist.TypeAndRead(context.Background(), s, c.Scenario.Input)
		return nil
	})
	require.NoError(t, err)

	v := o.Judge(c, obs.Actual)
	t.Log(v.Diagnostic())
	assert.True(t, v.Passed, v.Reason)
}

// Clearing the input must leave no trace of the previous conversion.
func TestNoResidueBetweenInputs(t *testing.T) {
	e := setup(t)
	first, second := "vanakkam", "nanri"

	var got driver.Observed
	err := e.manager.WithSession(context.Background(), browser.OpenOptions{}, func(s *browser.Session) error {
		_ = e.converter.Convert(context.Background(), s, first)
		got = e.converter.Convert(context.Background(), s, second)
		return nil
	})
	require.NoError(t, err)

	fresh := e.convert(t, second)
	assert.Equal(t, fresh.Actual, got.Actual)
}

func TestTypedAndBulkConverge(t *testing.T) {
	e := setup(t)
	input := "naan veedu poren"

	bulk := e.convert(t, input)

	var typed driver.Observed
	err := e.manager.WithSession(context.Background(), browser.OpenOptions{}, func(s *browser.Session) error {
		typed = e.typist.TypeAndRead(context.Background(), s, input)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, bulk.Actual, typed.Actual)
}

func TestIdempotentAcrossSessions(t *testing.T) {
	e := setup(t)
	opener := runner.OpenerFunc(func(ctx context.Context, headless *bool) (runner.Session, error) {
		s, err := e.manager.Open(ctx, browser.OpenOptions{Headless: headless})
		if err != nil {
			return nil, err
		}
		return s, nil
	})
	r := &runner.Runner{
		Opener:    opener,
		Converter: e.converter,
		Typist:    e.typist,
		Oracle:    oracle.New(oracle.Options{Normalize: e.cfg.Normalize}),
		Repeat:    2,
	}

	summary := r.Run(context.Background(), cases(t, catalog.GroupPositive)[:3])
	for _, res := range summary.Results {
		assert.False(t, res.Unstable, "%s: %v", res.Case.Scenario.ID, res.Attempts)
	}
}

func TestEmptyInput(t *testing.T) {
	e := setup(t)

	start := time.Now()
	obs := e.convert(t, "")
	t.Logf("empty input settled in %s", time.Since(start))
	require.NoError(t, obs.Err)
	assert.Empty(t, obs.Actual)
}
