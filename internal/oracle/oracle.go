// Package oracle decides whether an observed output satisfies a case.
package oracle

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/tamilqa/tamilqa/internal/catalog"
)

// Verdict is the judged outcome of one case.
type Verdict struct {
	ID       string           `json:"id"`
	Label    string           `json:"label"`
	Polarity catalog.Polarity `json:"polarity"`
	Mode     catalog.Mode     `json:"mode"`
	Input    string           `json:"input"`
	Expected string           `json:"expected"`
	Actual   string           `json:"actual"`
	Passed   bool             `json:"passed"`
	Reason   string           `json:"reason,omitempty"`
	// CheckFailures lists the structural checks that did not hold.
	CheckFailures []string `json:"check_failures,omitempty"`
}

// Diagnostic renders the audit line printed for every case.
func (v Verdict) Diagnostic() string {
	switch {
	case v.Mode == catalog.ModeRealtime:
		return fmt.Sprintf("%s | Typed: %s | Expected: %s | Actual: %s", v.Label, v.Input, v.Expected, v.Actual)
	case v.Polarity == catalog.Negative:
		return fmt.Sprintf("%s | %s | Expected NOT: %s | Actual: %s", v.Label, v.Input, v.Expected, v.Actual)
	default:
		return fmt.Sprintf("%s | %s | Expected: %s | Actual: %s", v.Label, v.Input, v.Expected, v.Actual)
	}
}

// Options configures an Oracle.
type Options struct {
	// Normalize is "" for exact comparison or "nfc".
	Normalize string
	// ScriptTimeout bounds each script check. Defaults to one second.
	ScriptTimeout time.Duration
}

// Oracle compares actual output against a case.
type Oracle struct {
	nfc           bool
	scriptTimeout time.Duration
}

// New returns an Oracle for opts.
func New(opts Options) *Oracle {
	timeout := opts.ScriptTimeout
	if timeout <= 0 {
		timeout = time.Second
	}
	return &Oracle{nfc: opts.Normalize == "nfc", scriptTimeout: timeout}
}

// Judge applies the case's polarity and then every structural check.
// Positive cases pass on equality, negative cases on inequality.
func (o *Oracle) Judge(c catalog.Case, actual string) Verdict {
	s := c.Scenario
	v := Verdict{
		ID:       s.ID,
		Label:    c.Label,
		Polarity: c.Polarity,
		Mode:     c.Mode,
		Input:    s.Input,
		Expected: s.Expected,
		Actual:   actual,
	}

	got, want := actual, s.Expected
	if o.nfc {
		got, want = norm.NFC.String(got), norm.NFC.String(want)
	}

	switch c.Polarity {
	case catalog.Negative:
		v.Passed = got != want
		if !v.Passed {
			v.Reason = fmt.Sprintf("Negative test should have failed but matched: %s", actual)
		}
	default:
		v.Passed = got == want
		if !v.Passed {
			v.Reason = fmt.Sprintf("Positive test failed: %s != %s", actual, s.Expected)
		}
	}

	for _, check := range s.Checks {
		if err := o.evaluate(check, s, got); err != nil {
			v.CheckFailures = append(v.CheckFailures, fmt.Sprintf("%s: %v", check.Type, err))
		}
	}
	if len(v.CheckFailures) > 0 {
		v.Passed = false
		if v.Reason == "" {
			v.Reason = "checks failed: " + strings.Join(v.CheckFailures, "; ")
		}
	}
	return v
}

// Failed builds a failing verdict for a case that never produced output,
// such as one whose page could not be loaded.
func Failed(c catalog.Case, reason string) Verdict {
	s := c.Scenario
	return Verdict{
		ID:       s.ID,
		Label:    c.Label,
		Polarity: c.Polarity,
		Mode:     c.Mode,
		Input:    s.Input,
		Expected: s.Expected,
		Passed:   false,
		Reason:   reason,
	}
}
