package cli

import (
	"context"
	"log/slog"

	"github.com/tamilqa/tamilqa/internal/browser"
	"github.com/tamilqa/tamilqa/internal/config"
	"github.com/tamilqa/tamilqa/internal/driver"
	"github.com/tamilqa/tamilqa/internal/oracle"
	"github.com/tamilqa/tamilqa/internal/runner"
)

// openBrowser starts the browser backend and returns an opener for sessions
// on the configured target together with its shutdown function.
var openBrowser = func(cfg config.Config, logger *slog.Logger) (runner.Opener, func() error, error) {
	m := browser.NewManager(browser.Options{
		Browser:           cfg.Browser,
		Headless:          cfg.Headless,
		TargetURL:         cfg.TargetURL,
		NavigationTimeout: cfg.NavigationTimeout,
		ActionTimeout:     cfg.LocatorTimeout,
	}, logger)
	if err := m.Start(); err != nil {
		return nil, nil, err
	}

	opener := runner.OpenerFunc(func(ctx context.Context, headless *bool) (runner.Session, error) {
		s, err := m.Open(ctx, browser.OpenOptions{Headless: headless})
		if err != nil {
			return nil, err
		}
		return s, nil
	})
	return opener, m.Stop, nil
}

func newSettler(cfg config.Config) driver.Settler {
	if cfg.Settle == config.SettleFixed {
		return driver.FixedDelay{Wait: cfg.SettleWait}
	}
	return driver.StableText{
		Interval: cfg.PollInterval,
		Reads:    cfg.StableReads,
		Timeout:  cfg.SettleTimeout,
		MinWait:  cfg.SettleWait,
	}
}

// newRunner wires the drivers from cfg. progress enables the per-character
// output reads of realtime cases.
func newRunner(cfg config.Config, opener runner.Opener, reporter runner.Reporter, logger *slog.Logger, progress bool) *runner.Runner {
	output := driver.CSSDisjunction(cfg.OutputSelectors)
	uiHeadless := cfg.UIHeadless

	return &runner.Runner{
		Opener: opener,
		Converter: &driver.Converter{
			InputSelector:  cfg.InputSelector,
			Output:         output,
			Settler:        newSettler(cfg),
			LocatorTimeout: cfg.LocatorTimeout,
		},
		Typist: &driver.Typist{
			InputSelector:  cfg.InputSelector,
			Output:         output,
			KeyDelay:       cfg.KeyDelay,
			PostCharDelay:  cfg.PostCharDelay,
			FinalSettle:    cfg.FinalSettle,
			LocatorTimeout: cfg.LocatorTimeout,
			TrackProgress:  progress,
		},
		Oracle:     oracle.New(oracle.Options{Normalize: cfg.Normalize}),
		Workers:    cfg.Workers,
		Repeat:     cfg.Repeat,
		UIHeadless: &uiHeadless,
		Reporter:   reporter,
		Logger:     logger,
	}
}
