package catalog

import (
	"fmt"

	"github.com/itchyny/gojq"
)

// Filter keeps the cases for which the jq expression yields a truthy value,
// so both `.length == "S"` and `select(.length == "S")` work.
// The expression sees each case as an object with the keys id, label,
// polarity, mode, input, expected, length, input_domain, grammar_focus and
// quality_focus. An empty expression keeps everything.
func Filter(cases []Case, expr string) ([]Case, error) {
	if expr == "" {
		return cases, nil
	}

	query, err := gojq.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse jq expression %q: %w", expr, err)
	}

	var kept []Case
	for _, c := range cases {
		iter := query.Run(c.view())
		v, ok := iter.Next()
		if !ok {
			continue
		}
		if err, isErr := v.(error); isErr {
			return nil, fmt.Errorf("jq evaluation error for %q on %s: %w", expr, c.Scenario.ID, err)
		}
		if truthy(v) {
			kept = append(kept, c)
		}
	}
	return kept, nil
}

// truthy follows jq: only false and null are false.
func truthy(v interface{}) bool {
	if v == nil {
		return false
	}
	if b, ok := v.(bool); ok {
		return b
	}
	return true
}
