package driver

import (
	"context"
	"time"
)

// Probe reads the current output once.
type Probe func() (string, error)

// Settler waits for the page to finish rendering and returns the settled text.
type Settler interface {
	Settle(ctx context.Context, probe Probe) (string, error)
}

// FixedDelay sleeps for Wait and then reads once.
type FixedDelay struct {
	Wait time.Duration
}

func (f FixedDelay) Settle(ctx context.Context, probe Probe) (string, error) {
	if err := Sleep(ctx, f.Wait); err != nil {
		return "", err
	}
	return probe()
}

// StableText polls every Interval and settles once Reads consecutive reads
// return the same text and at least MinWait has passed since the write. A
// slow render that still shows the pre-write text is therefore not settled
// before MinWait. When Timeout passes first, the last successful read wins;
// if there was none, the last error is returned.
type StableText struct {
	Interval time.Duration
	Reads    int
	Timeout  time.Duration
	MinWait  time.Duration
}

func (st StableText) Settle(ctx context.Context, probe Probe) (string, error) {
	reads := st.Reads
	if reads < 2 {
		reads = 2
	}
	start := time.Now()
	deadline := start.Add(max(st.Timeout, st.MinWait))

	var (
		last    string
		lastErr error
		seen    bool
		streak  int
	)
	for {
		if err := Sleep(ctx, st.Interval); err != nil {
			return "", err
		}

		text, err := probe()
		switch {
		case err != nil:
			lastErr, streak = err, 0
		case seen && text == last:
			lastErr = nil
			streak++
		default:
			last, seen, lastErr, streak = text, true, nil, 1
		}
		if streak >= reads && time.Since(start) >= st.MinWait {
			return last, nil
		}

		if !time.Now().Before(deadline) {
			if seen {
				return last, nil
			}
			return "", lastErr
		}
	}
}

// Sleep blocks for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
