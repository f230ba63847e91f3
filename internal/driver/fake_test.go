package driver

import (
	"strings"
	"sync"
	"time"
)

// fakeSurface is an in-memory page. Output is derived from the current input
// value through render.
type fakeSurface struct {
	mu     sync.Mutex
	value  string
	ops    []string
	render func(value string) string

	fillErr  error
	clickErr error
	typeErr  error
	textErr  error
	// texts, when set, is served in order by Text before falling back to render.
	texts []string
}

func newFakeSurface(render func(string) string) *fakeSurface {
	if render == nil {
		render = func(v string) string { return "  " + strings.ToUpper(v) + "\n" }
	}
	return &fakeSurface{render: render}
}

func (f *fakeSurface) Fill(selector, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ops = append(f.ops, "fill "+selector+" "+value)
	if f.fillErr != nil {
		return f.fillErr
	}
	f.value = value
	return nil
}

func (f *fakeSurface) Click(selector string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ops = append(f.ops, "click "+selector)
	return f.clickErr
}

func (f *fakeSurface) Type(selector, text string, delay time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ops = append(f.ops, "type "+selector+" "+text+" "+delay.String())
	if f.typeErr != nil {
		return f.typeErr
	}
	f.value += text
	return nil
}

func (f *fakeSurface) Text(selector string, timeout time.Duration) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ops = append(f.ops, "text "+selector)
	if f.textErr != nil {
		return "", f.textErr
	}
	if len(f.texts) > 0 {
		t := f.texts[0]
		f.texts = f.texts[1:]
		return t, nil
	}
	return f.render(f.value), nil
}

func (f *fakeSurface) countOps(prefix string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, op := range f.ops {
		if strings.HasPrefix(op, prefix) {
			n++
		}
	}
	return n
}
