package driver

import (
	"context"
	"fmt"
	"time"
)

// Converter writes a whole input in one fill and reads the settled output.
type Converter struct {
	InputSelector  string
	Output         OutputLocator
	Settler        Settler
	LocatorTimeout time.Duration
}

// Convert clears the input, writes input, waits for the render to settle and
// returns the trimmed output. Faults never escape as errors: they come back
// as a sentinel in Actual with Err set.
func (c *Converter) Convert(ctx context.Context, s Surface, input string) Observed {
	if err := s.Fill(c.InputSelector, ""); err != nil {
		return observedFault(fmt.Errorf("clear input: %w", err), 0)
	}
	if err := s.Fill(c.InputSelector, input); err != nil {
		return observedFault(fmt.Errorf("write input: %w", err), 0)
	}

	start := time.Now()
	text, err := c.Settler.Settle(ctx, func() (string, error) {
		return readOutput(s, c.Output, c.LocatorTimeout)
	})
	elapsed := time.Since(start)
	if err != nil {
		return observedFault(err, elapsed)
	}
	return Observed{Actual: text, Elapsed: elapsed}
}
