package catalog

import "fmt"

// LengthClass buckets a scenario by input length: short, medium or long.
type LengthClass string

const (
	LengthShort  LengthClass = "S"
	LengthMedium LengthClass = "M"
	LengthLong   LengthClass = "L"
)

// Polarity decides how a case's actual output is compared to its expected text.
// It belongs to the group a scenario is drawn from, not to the scenario.
type Polarity string

const (
	Positive Polarity = "positive"
	Negative Polarity = "negative"
)

// Mode selects how input reaches the page.
type Mode string

const (
	// ModeBulk writes the whole input in one fill.
	ModeBulk Mode = "bulk"
	// ModeRealtime types the input one character at a time.
	ModeRealtime Mode = "realtime"
)

// Scenario is a single scripted input and its expected rendering.
// The tag fields are descriptive and are never used for control flow.
type Scenario struct {
	ID           string      `json:"id" yaml:"id,omitempty"`
	Input        string      `json:"input" yaml:"input"`
	Expected     string      `json:"expected" yaml:"expected"`
	Length       LengthClass `json:"length,omitempty" yaml:"length,omitempty"`
	InputDomain  string      `json:"input_domain,omitempty" yaml:"input_domain,omitempty"`
	GrammarFocus string      `json:"grammar_focus,omitempty" yaml:"grammar_focus,omitempty"`
	QualityFocus string      `json:"quality_focus,omitempty" yaml:"quality_focus,omitempty"`
	Checks       []Check     `json:"checks,omitempty" yaml:"checks,omitempty"`
}

// Check is a structural predicate evaluated against the actual output.
// Max is used by max_latin_run; Script by script.
type Check struct {
	Type   string `json:"type" yaml:"type"`
	Max    int    `json:"max,omitempty" yaml:"max,omitempty"`
	Script string `json:"script,omitempty" yaml:"script,omitempty"`
}

const (
	CheckEmpty       = "empty"
	CheckNonEmpty    = "non_empty"
	CheckTamil       = "tamil"
	CheckMaxLatinRun = "max_latin_run"
	CheckWordCount   = "word_count"
	CheckScript      = "script"
)

// CheckTypes lists every supported check type.
var CheckTypes = []string{CheckEmpty, CheckNonEmpty, CheckTamil, CheckMaxLatinRun, CheckWordCount, CheckScript}

// Catalog is the full fixture table: two ordered groups plus one scenario for
// incremental typing.
type Catalog struct {
	Name        string     `json:"name" yaml:"name"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Positive    []Scenario `json:"positive" yaml:"positive"`
	Negative    []Scenario `json:"negative" yaml:"negative"`
	UI          *Scenario  `json:"ui,omitempty" yaml:"ui,omitempty"`
}

// Case is a scenario drawn from a catalog group.
type Case struct {
	Label    string   `json:"label"`
	Polarity Polarity `json:"polarity"`
	Mode     Mode     `json:"mode"`
	Scenario Scenario `json:"scenario"`
}

// Group names accepted by Catalog.Cases.
const (
	GroupPositive = "positive"
	GroupNegative = "negative"
	GroupUI       = "ui"
)

// Cases flattens the catalog in order: positive, negative, then the UI scenario.
// When groups is non-empty only the named groups are included.
func (c *Catalog) Cases(groups ...string) ([]Case, error) {
	want := map[string]bool{}
	for _, g := range groups {
		switch g {
		case GroupPositive, GroupNegative, GroupUI:
			want[g] = true
		default:
			return nil, fmt.Errorf("unknown group %q", g)
		}
	}
	include := func(g string) bool { return len(want) == 0 || want[g] }

	var cases []Case
	if include(GroupPositive) {
		for _, s := range c.Positive {
			cases = append(cases, Case{Label: "Pos_Fun", Polarity: Positive, Mode: ModeBulk, Scenario: s})
		}
	}
	if include(GroupNegative) {
		for _, s := range c.Negative {
			cases = append(cases, Case{Label: "Neg_Fun", Polarity: Negative, Mode: ModeBulk, Scenario: s})
		}
	}
	if include(GroupUI) && c.UI != nil {
		cases = append(cases, Case{Label: c.UI.ID, Polarity: Positive, Mode: ModeRealtime, Scenario: *c.UI})
	}
	return cases, nil
}

// Len returns the number of scenarios in the catalog.
func (c *Catalog) Len() int {
	n := len(c.Positive) + len(c.Negative)
	if c.UI != nil {
		n++
	}
	return n
}

// view is the JSON shape filters run against.
func (cs Case) view() map[string]interface{} {
	s := cs.Scenario
	return map[string]interface{}{
		"id":            s.ID,
		"label":         cs.Label,
		"polarity":      string(cs.Polarity),
		"mode":          string(cs.Mode),
		"input":         s.Input,
		"expected":      s.Expected,
		"length":        string(s.Length),
		"input_domain":  s.InputDomain,
		"grammar_focus": s.GrammarFocus,
		"quality_focus": s.QualityFocus,
	}
}
