package cli

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"

	"github.com/tamilqa/tamilqa/internal/config"
	"github.com/tamilqa/tamilqa/internal/runner"
)

const smokeCatalog = `name: smoke
positive:
  - input: vanakkam
    expected: வணக்கம்
  - input: amma
    expected: அம்மா
    length: S
negative:
  - input: nanri
    expected: நன்றி
`

// fakeSession renders its input through a lookup table.
type fakeSession struct {
	value  string
	render map[string]string
}

func (f *fakeSession) Fill(_, value string) error { f.value = value; return nil }
func (f *fakeSession) Click(string) error         { return nil }
func (f *fakeSession) Type(_, text string, _ time.Duration) error {
	f.value += text
	return nil
}

func (f *fakeSession) Text(string, time.Duration) (string, error) {
	if out, ok := f.render[f.value]; ok {
		return out, nil
	}
	return f.value, nil
}

func (f *fakeSession) Close() error { return nil }

// useFakeBrowser swaps the browser backend for one rendering through render.
func useFakeBrowser(t *testing.T, render map[string]string) {
	t.Helper()
	prev := openBrowser
	openBrowser = func(config.Config, *slog.Logger) (runner.Opener, func() error, error) {
		opener := runner.OpenerFunc(func(context.Context, *bool) (runner.Session, error) {
			return &fakeSession{render: render}, nil
		})
		return opener, func() error { return nil }, nil
	}
	t.Cleanup(func() { openBrowser = prev })
}

// setupWorkspace isolates the working directory, run directory and colour
// output of a test.
func setupWorkspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("TAMILQA_RUN_DIR", filepath.Join(dir, "runs"))

	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })
	return dir
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}
