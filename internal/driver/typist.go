package driver

import (
	"context"
	"fmt"
	"time"
)

// Typist types the input one character at a time so the page's input
// handlers fire per keystroke, then reads the output once.
type Typist struct {
	InputSelector  string
	Output         OutputLocator
	KeyDelay       time.Duration
	PostCharDelay  time.Duration
	FinalSettle    time.Duration
	LocatorTimeout time.Duration

	// TrackProgress reads the output after every character into
	// Observed.Progress, waiting at most ProgressTimeout per read.
	TrackProgress   bool
	ProgressTimeout time.Duration
}

// TypeAndRead focuses the input, types input rune by rune and returns the
// trimmed output after the final settle.
func (t *Typist) TypeAndRead(ctx context.Context, s Surface, input string) Observed {
	if err := s.Click(t.InputSelector); err != nil {
		return observedFault(fmt.Errorf("focus input: %w", err), 0)
	}

	var (
		progress []string
		waited   time.Duration
	)
	for _, r := range input {
		if err := s.Type(t.InputSelector, string(r), t.KeyDelay); err != nil {
			return observedFault(fmt.Errorf("type %q: %w", r, err), waited)
		}
		if err := Sleep(ctx, t.PostCharDelay); err != nil {
			return observedFault(err, waited)
		}
		waited += t.PostCharDelay

		if t.TrackProgress {
			text, err := readOutput(s, t.Output, t.progressTimeout())
			if err != nil {
				text = Sentinel(err)
			}
			progress = append(progress, text)
		}
	}

	if err := Sleep(ctx, t.FinalSettle); err != nil {
		return observedFault(err, waited)
	}
	waited += t.FinalSettle

	text, err := readOutput(s, t.Output, t.LocatorTimeout)
	if err != nil {
		obs := observedFault(err, waited)
		obs.Progress = progress
		return obs
	}
	return Observed{Actual: text, Elapsed: waited, Progress: progress}
}

func (t *Typist) progressTimeout() time.Duration {
	if t.ProgressTimeout > 0 {
		return t.ProgressTimeout
	}
	return time.Second
}
