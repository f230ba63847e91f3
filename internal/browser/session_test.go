package browser

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamilqa/tamilqa/internal/driver"
)

func TestNewManagerDefaults(t *testing.T) {
	m := NewManager(Options{TargetURL: "https://tamil.changathi.com/"}, nil)
	assert.Equal(t, "chromium", m.opts.Browser)
	assert.Equal(t, 30*time.Second, m.opts.NavigationTimeout)
	assert.Equal(t, 30*time.Second, m.opts.ActionTimeout)
	assert.NotNil(t, m.logger)
}

func TestOpenRequiresStart(t *testing.T) {
	m := NewManager(Options{}, nil)
	_, err := m.Open(context.Background(), OpenOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "playwright is not running")
}

func TestOpenHonoursCancelledContext(t *testing.T) {
	m := NewManager(Options{}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := m.Open(ctx, OpenOptions{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWithSessionPropagatesOpenError(t *testing.T) {
	m := NewManager(Options{}, nil)
	called := false
	err := m.WithSession(context.Background(), OpenOptions{}, func(*Session) error {
		called = true
		return nil
	})
	require.Error(t, err)
	assert.False(t, called)
}

func TestStopWithoutStart(t *testing.T) {
	assert.NoError(t, NewManager(Options{}, nil).Stop())
}

func TestClosedSession(t *testing.T) {
	s := &Session{id: "session-test"}
	require.NoError(t, s.Close())
	require.NoError(t, s.Close(), "close is idempotent")

	assert.ErrorIs(t, s.Fill("textarea", "x"), ErrSessionClosed)
	assert.ErrorIs(t, s.Click("textarea"), ErrSessionClosed)
	assert.ErrorIs(t, s.Type("textarea", "x", time.Millisecond), ErrSessionClosed)
	_, err := s.Text("p", time.Second)
	assert.ErrorIs(t, err, ErrSessionClosed)
}

func TestNavigationError(t *testing.T) {
	cause := errors.New("net::ERR_NAME_NOT_RESOLVED")
	err := error(&NavigationError{URL: "https://tamil.changathi.com/", Err: cause})

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "navigation to https://tamil.changathi.com/ failed")

	var nav *NavigationError
	assert.True(t, errors.As(fmt.Errorf("open: %w", err), &nav))
}

func TestTranslate(t *testing.T) {
	timeout := translate(fmt.Errorf("read p failed: %w", playwright.ErrTimeout))
	assert.ErrorIs(t, timeout, driver.ErrLocatorTimeout)
	assert.ErrorIs(t, timeout, playwright.ErrTimeout)

	other := translate(errors.New("target closed"))
	assert.False(t, errors.Is(other, driver.ErrLocatorTimeout))
}
