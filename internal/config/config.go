package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	yaml "gopkg.in/yaml.v3"
)

const (
	DefaultTargetURL     = "https://tamil.changathi.com/"
	DefaultInputSelector = "textarea"
	DefaultFileName      = "tamilqa.yaml"
)

// DefaultOutputSelectors is the heuristic locator for the rendered text. The
// first element matching any of them is read.
var DefaultOutputSelectors = []string{
	"div[style*='font-family']",
	"div[dir='auto']",
	".output",
	"#output",
	"p",
	"span",
}

const (
	SettleFixed  = "fixed"
	SettleStable = "stable"
)

const (
	NormalizeNone = ""
	NormalizeNFC  = "nfc"
)

var browsers = []string{"chromium", "firefox", "webkit"}

// Config holds every knob of a run.
type Config struct {
	TargetURL       string   `yaml:"target_url"`
	InputSelector   string   `yaml:"input_selector"`
	OutputSelectors []string `yaml:"output_selectors"`

	Browser    string `yaml:"browser"`
	Headless   bool   `yaml:"headless"`
	UIHeadless bool   `yaml:"ui_headless"`

	// Settle is "fixed" (sleep SettleWait) or "stable" (poll until the output
	// stops changing).
	Settle        string        `yaml:"settle"`
	SettleWait    time.Duration `yaml:"settle_wait"`
	PollInterval  time.Duration `yaml:"poll_interval"`
	StableReads   int           `yaml:"stable_reads"`
	SettleTimeout time.Duration `yaml:"settle_timeout"`

	KeyDelay      time.Duration `yaml:"key_delay"`
	PostCharDelay time.Duration `yaml:"post_char_delay"`
	FinalSettle   time.Duration `yaml:"final_settle"`

	LocatorTimeout    time.Duration `yaml:"locator_timeout"`
	NavigationTimeout time.Duration `yaml:"navigation_timeout"`

	Workers   int    `yaml:"workers"`
	Repeat    int    `yaml:"repeat"`
	Normalize string `yaml:"normalize"`
}

// Default returns the configuration the suite was written against.
func Default() Config {
	return Config{
		TargetURL:         DefaultTargetURL,
		InputSelector:     DefaultInputSelector,
		OutputSelectors:   slices.Clone(DefaultOutputSelectors),
		Browser:           "chromium",
		Headless:          true,
		UIHeadless:        false,
		Settle:            SettleStable,
		SettleWait:        2500 * time.Millisecond,
		PollInterval:      250 * time.Millisecond,
		StableReads:       3,
		SettleTimeout:     10 * time.Second,
		KeyDelay:          120 * time.Millisecond,
		PostCharDelay:     400 * time.Millisecond,
		FinalSettle:       1500 * time.Millisecond,
		LocatorTimeout:    10 * time.Second,
		NavigationTimeout: 30 * time.Second,
		Workers:           1,
		Repeat:            1,
	}
}

// Load builds a config from defaults, an optional YAML file, an optional .env
// file and TAMILQA_* environment variables, in increasing precedence.
// A missing path is only an error when the path was given explicitly.
func Load(path, envFile string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFileName
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if envFile != "" {
		// godotenv.Load never overrides variables already present in the environment
		if err := godotenv.Load(envFile); err != nil {
			return Config{}, fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ApplyEnv overlays TAMILQA_* variables read through lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	boolean := func(key string, dst *bool) error {
		v, ok := lookup(key)
		if !ok || v == "" {
			return nil
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", key, v, err)
		}
		*dst = b
		return nil
	}
	duration := func(key string, dst *time.Duration) error {
		v, ok := lookup(key)
		if !ok || v == "" {
			return nil
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", key, v, err)
		}
		*dst = d
		return nil
	}
	integer := func(key string, dst *int) error {
		v, ok := lookup(key)
		if !ok || v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", key, v, err)
		}
		*dst = n
		return nil
	}

	str("TAMILQA_URL", &c.TargetURL)
	str("TAMILQA_INPUT_SELECTOR", &c.InputSelector)
	if v, ok := lookup("TAMILQA_OUTPUT_SELECTORS"); ok && v != "" {
		c.OutputSelectors = splitSelectors(v)
	}
	str("TAMILQA_BROWSER", &c.Browser)
	str("TAMILQA_SETTLE", &c.Settle)
	str("TAMILQA_NORMALIZE", &c.Normalize)

	// TAMILQA_HEADLESS covers the realtime cases too, like --headless;
	// TAMILQA_UI_HEADLESS still wins for them.
	if v, ok := lookup("TAMILQA_HEADLESS"); ok && v != "" {
		if err := boolean("TAMILQA_HEADLESS", &c.Headless); err != nil {
			return err
		}
		c.UIHeadless = c.Headless
	}
	if err := boolean("TAMILQA_UI_HEADLESS", &c.UIHeadless); err != nil {
		return err
	}
	for key, dst := range map[string]*time.Duration{
		"TAMILQA_SETTLE_WAIT":        &c.SettleWait,
		"TAMILQA_POLL_INTERVAL":      &c.PollInterval,
		"TAMILQA_SETTLE_TIMEOUT":     &c.SettleTimeout,
		"TAMILQA_KEY_DELAY":          &c.KeyDelay,
		"TAMILQA_POST_CHAR_DELAY":    &c.PostCharDelay,
		"TAMILQA_FINAL_SETTLE":       &c.FinalSettle,
		"TAMILQA_LOCATOR_TIMEOUT":    &c.LocatorTimeout,
		"TAMILQA_NAVIGATION_TIMEOUT": &c.NavigationTimeout,
	} {
		if err := duration(key, dst); err != nil {
			return err
		}
	}
	for key, dst := range map[string]*int{
		"TAMILQA_STABLE_READS": &c.StableReads,
		"TAMILQA_WORKERS":      &c.Workers,
		"TAMILQA_REPEAT":       &c.Repeat,
	} {
		if err := integer(key, dst); err != nil {
			return err
		}
	}
	return nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if strings.TrimSpace(c.TargetURL) == "" {
		return errors.New("target_url is required")
	}
	if strings.TrimSpace(c.InputSelector) == "" {
		return errors.New("input_selector is required")
	}
	if len(c.OutputSelectors) == 0 {
		return errors.New("at least one output selector is required")
	}
	if !slices.Contains(browsers, c.Browser) {
		return fmt.Errorf("unsupported browser %q: expected one of %s", c.Browser, strings.Join(browsers, ", "))
	}
	switch c.Settle {
	case SettleFixed:
		if c.SettleWait <= 0 {
			return errors.New("settle_wait must be positive")
		}
	case SettleStable:
		if c.PollInterval <= 0 {
			return errors.New("poll_interval must be positive")
		}
		if c.StableReads < 2 {
			return errors.New("stable_reads must be at least 2")
		}
		if c.SettleTimeout < c.PollInterval {
			return errors.New("settle_timeout must not be shorter than poll_interval")
		}
	default:
		return fmt.Errorf("unsupported settle mode %q: expected fixed or stable", c.Settle)
	}
	for name, d := range map[string]time.Duration{
		"key_delay":       c.KeyDelay,
		"post_char_delay": c.PostCharDelay,
		"final_settle":    c.FinalSettle,
	} {
		if d < 0 {
			return fmt.Errorf("%s must not be negative", name)
		}
	}
	if c.LocatorTimeout <= 0 {
		return errors.New("locator_timeout must be positive")
	}
	if c.NavigationTimeout <= 0 {
		return errors.New("navigation_timeout must be positive")
	}
	if c.Workers < 1 {
		return errors.New("workers must be at least 1")
	}
	if c.Repeat < 1 {
		return errors.New("repeat must be at least 1")
	}
	switch c.Normalize {
	case NormalizeNone, NormalizeNFC:
	default:
		return fmt.Errorf("unsupported normalize %q: expected nfc or empty", c.Normalize)
	}
	return nil
}

func splitSelectors(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if s := strings.TrimSpace(part); s != "" {
			out = append(out, s)
		}
	}
	return out
}
