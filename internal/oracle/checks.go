package oracle

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/dop251/goja"

	"github.com/tamilqa/tamilqa/internal/catalog"
)

func (o *Oracle) evaluate(check catalog.Check, s catalog.Scenario, actual string) error {
	switch check.Type {
	case catalog.CheckEmpty:
		if actual != "" {
			return fmt.Errorf("expected empty output, got %q", actual)
		}
	case catalog.CheckNonEmpty:
		if actual == "" {
			return errors.New("expected non-empty output")
		}
	case catalog.CheckTamil:
		if !strings.ContainsFunc(actual, func(r rune) bool { return unicode.Is(unicode.Tamil, r) }) {
			return errors.New("output contains no Tamil script")
		}
	case catalog.CheckMaxLatinRun:
		if run := LongestLatinRun(actual); run > check.Max {
			return fmt.Errorf("found a run of %d Latin letters, allowed %d", run, check.Max)
		}
	case catalog.CheckWordCount:
		in, out := len(strings.Fields(s.Input)), len(strings.Fields(actual))
		if in != out {
			return fmt.Errorf("input has %d words, output has %d", in, out)
		}
	case catalog.CheckScript:
		return o.runScript(check.Script, s, actual)
	default:
		return fmt.Errorf("unsupported check type %q", check.Type)
	}
	return nil
}

// LongestLatinRun returns the length in runes of the longest sequence of
// consecutive Latin letters in text.
func LongestLatinRun(text string) int {
	longest, current := 0, 0
	for _, r := range text {
		if unicode.Is(unicode.Latin, r) {
			current++
			longest = max(longest, current)
			continue
		}
		current = 0
	}
	return longest
}

// runScript evaluates a JavaScript expression with input, expected and actual
// bound as strings. The check holds when the result is truthy.
func (o *Oracle) runScript(script string, s catalog.Scenario, actual string) error {
	vm := goja.New()
	_ = vm.Set("input", s.Input)
	_ = vm.Set("expected", s.Expected)
	_ = vm.Set("actual", actual)

	timer := time.AfterFunc(o.scriptTimeout, func() {
		vm.Interrupt("script check timeout")
	})
	defer timer.Stop()

	value, err := vm.RunString(script)
	if err != nil {
		var interrupted *goja.InterruptedError
		if errors.As(err, &interrupted) {
			return fmt.Errorf("script timed out after %s", o.scriptTimeout)
		}
		return fmt.Errorf("javascript execution error: %w", err)
	}
	if !value.ToBoolean() {
		return fmt.Errorf("script %q returned %s", script, value.String())
	}
	return nil
}
