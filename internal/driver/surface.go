// Package driver feeds text into the transliteration page and reads back the
// rendered output.
package driver

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Surface is the slice of a browser page the drivers need.
type Surface interface {
	Fill(selector, value string) error
	Click(selector string) error
	Type(selector, text string, delay time.Duration) error
	// Text returns the inner text of the first element matching selector.
	Text(selector string, timeout time.Duration) (string, error)
}

// ErrLocatorTimeout marks a Surface error caused by an element that did not
// show up in time.
var ErrLocatorTimeout = errors.New("locator timeout")

// TimeoutSentinel is reported as the actual text when the output element
// cannot be found.
const TimeoutSentinel = "[TIMEOUT - element not found]"

// Sentinel renders a conversion fault into the actual-text channel.
func Sentinel(err error) string {
	if errors.Is(err, ErrLocatorTimeout) {
		return TimeoutSentinel
	}
	return fmt.Sprintf("[ERROR: %s]", err)
}

// IsSentinel reports whether text is a rendered fault rather than page output.
func IsSentinel(text string) bool {
	return text == TimeoutSentinel || (strings.HasPrefix(text, "[ERROR: ") && strings.HasSuffix(text, "]"))
}

// OutputLocator identifies the element carrying the converted text.
type OutputLocator interface {
	Selector() string
}

// CSSDisjunction matches the first element matching any of its patterns.
type CSSDisjunction []string

func (d CSSDisjunction) Selector() string { return strings.Join(d, ", ") }

// Selector is a single purpose-built locator.
type Selector string

func (s Selector) Selector() string { return string(s) }

// Observed is the outcome of driving one input through the page.
type Observed struct {
	// Actual is the trimmed output text, or a sentinel when Err is set.
	Actual string `json:"actual"`
	// Elapsed is the time spent waiting for the render to settle.
	Elapsed  time.Duration `json:"elapsed"`
	Err      error         `json:"-"`
	Progress []string      `json:"progress,omitempty"`
}

func observedFault(err error, elapsed time.Duration) Observed {
	return Observed{Actual: Sentinel(err), Elapsed: elapsed, Err: err}
}

func readOutput(s Surface, loc OutputLocator, timeout time.Duration) (string, error) {
	text, err := s.Text(loc.Selector(), timeout)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}
