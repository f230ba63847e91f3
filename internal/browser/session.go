package browser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/playwright-community/playwright-go"

	"github.com/tamilqa/tamilqa/internal/driver"
)

// ErrSessionClosed is returned by page operations after Close.
var ErrSessionClosed = errors.New("session is closed")

// NavigationError reports that the target page could not be loaded.
type NavigationError struct {
	URL string
	Err error
}

func (e *NavigationError) Error() string {
	return fmt.Sprintf("navigation to %s failed: %v", e.URL, e.Err)
}

func (e *NavigationError) Unwrap() error { return e.Err }

// Options configures every session a Manager opens.
type Options struct {
	Browser           string
	Headless          bool
	TargetURL         string
	NavigationTimeout time.Duration
	// ActionTimeout bounds fill, click and type calls.
	ActionTimeout time.Duration
}

// OpenOptions overrides Options for a single session.
type OpenOptions struct {
	Headless *bool
}

// Manager owns the Playwright driver process and hands out isolated sessions.
type Manager struct {
	mu     sync.Mutex
	opts   Options
	pw     *playwright.Playwright
	logger *slog.Logger
}

// NewManager returns a stopped manager; call Start before Open.
func NewManager(opts Options, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.Browser == "" {
		opts.Browser = "chromium"
	}
	if opts.NavigationTimeout == 0 {
		opts.NavigationTimeout = 30 * time.Second
	}
	if opts.ActionTimeout == 0 {
		opts.ActionTimeout = 30 * time.Second
	}
	return &Manager{opts: opts, logger: logger}
}

// Start launches the Playwright driver.
func (m *Manager) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.pw != nil {
		return nil
	}
	pw, err := playwright.Run()
	if err != nil {
		return fmt.Errorf("failed to start playwright: %w", err)
	}
	m.pw = pw
	return nil
}

// Stop shuts the Playwright driver down. Sessions still open are not closed.
func (m *Manager) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.pw == nil {
		return nil
	}
	err := m.pw.Stop()
	m.pw = nil
	if err != nil {
		return fmt.Errorf("failed to stop playwright: %w", err)
	}
	return nil
}

func (m *Manager) browserType() (playwright.BrowserType, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.pw == nil {
		return nil, errors.New("playwright is not running")
	}
	switch m.opts.Browser {
	case "chromium":
		return m.pw.Chromium, nil
	case "firefox":
		return m.pw.Firefox, nil
	case "webkit":
		return m.pw.WebKit, nil
	default:
		return nil, fmt.Errorf("unknown browser: %s", m.opts.Browser)
	}
}

// Open launches a fresh browser with one isolated context and page and loads
// the target URL. Everything opened is released again if any step fails.
func (m *Manager) Open(ctx context.Context, opts OpenOptions) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bt, err := m.browserType()
	if err != nil {
		return nil, err
	}

	headless := m.opts.Headless
	if opts.Headless != nil {
		headless = *opts.Headless
	}

	b, err := bt.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(headless),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to launch %s: %w", m.opts.Browser, err)
	}

	s := &Session{
		id:            fmt.Sprintf("session-%s", uuid.New().String()[:8]),
		browser:       b,
		actionTimeout: m.opts.ActionTimeout,
		logger:        m.logger,
	}

	s.context, err = b.NewContext()
	if err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("failed to create browser context: %w", err)
	}

	s.page, err = s.context.NewPage()
	if err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	_, err = s.page.Goto(m.opts.TargetURL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateLoad,
		Timeout:   playwright.Float(float64(m.opts.NavigationTimeout.Milliseconds())),
	})
	if err != nil {
		_ = s.Close()
		return nil, &NavigationError{URL: m.opts.TargetURL, Err: err}
	}

	m.logger.Debug("browser session opened", "session_id", s.id, "browser", m.opts.Browser, "headless", headless, "url", m.opts.TargetURL)
	return s, nil
}

// WithSession opens a session, hands it to fn and closes it on every exit
// path, including a panic inside fn.
func (m *Manager) WithSession(ctx context.Context, opts OpenOptions, fn func(*Session) error) (err error) {
	s, err := m.Open(ctx, opts)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := s.Close(); closeErr != nil {
			err = errors.Join(err, closeErr)
		}
	}()
	return fn(s)
}

// Session is one browser process with a single page on the target.
// It satisfies driver.Surface.
type Session struct {
	mu     sync.Mutex
	closed bool

	id      string
	browser playwright.Browser
	context playwright.BrowserContext
	page    playwright.Page

	actionTimeout time.Duration
	logger        *slog.Logger
}

var _ driver.Surface = (*Session)(nil)

// ID identifies the session in logs.
func (s *Session) ID() string { return s.id }

// Close releases the context and the browser process. It is safe to call more
// than once.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	var errs []error
	if s.context != nil {
		if err := s.context.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close browser context: %w", err))
		}
	}
	if s.browser != nil {
		if err := s.browser.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close browser: %w", err))
		}
	}
	if s.logger != nil {
		s.logger.Debug("browser session closed", "session_id", s.id)
	}
	return errors.Join(errs...)
}

func (s *Session) locator(selector string) (playwright.Locator, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.page == nil {
		return nil, ErrSessionClosed
	}
	return s.page.Locator(selector), nil
}

func (s *Session) timeoutMS() *float64 {
	return playwright.Float(float64(s.actionTimeout.Milliseconds()))
}

// Fill replaces the value of the first element matching selector.
func (s *Session) Fill(selector, value string) error {
	loc, err := s.locator(selector)
	if err != nil {
		return err
	}
	if err := loc.First().Fill(value, playwright.LocatorFillOptions{Timeout: s.timeoutMS()}); err != nil {
		return translate(fmt.Errorf("fill %s failed: %w", selector, err))
	}
	return nil
}

// Click clicks the first element matching selector.
func (s *Session) Click(selector string) error {
	loc, err := s.locator(selector)
	if err != nil {
		return err
	}
	if err := loc.First().Click(playwright.LocatorClickOptions{Timeout: s.timeoutMS()}); err != nil {
		return translate(fmt.Errorf("click %s failed: %w", selector, err))
	}
	return nil
}

// Type sends text as key presses with delay between them.
func (s *Session) Type(selector, text string, delay time.Duration) error {
	loc, err := s.locator(selector)
	if err != nil {
		return err
	}
	opts := playwright.LocatorTypeOptions{Timeout: s.timeoutMS()}
	if delay > 0 {
		opts.Delay = playwright.Float(float64(delay.Milliseconds()))
	}
	if err := loc.First().Type(text, opts); err != nil {
		return translate(fmt.Errorf("type into %s failed: %w", selector, err))
	}
	return nil
}

// Text returns the inner text of the first element matching selector.
func (s *Session) Text(selector string, timeout time.Duration) (string, error) {
	loc, err := s.locator(selector)
	if err != nil {
		return "", err
	}
	text, err := loc.First().InnerText(playwright.LocatorInnerTextOptions{
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	})
	if err != nil {
		return "", translate(fmt.Errorf("read %s failed: %w", selector, err))
	}
	return text, nil
}

// translate marks Playwright timeouts as driver.ErrLocatorTimeout so the
// driver can tell a missing element from any other fault.
func translate(err error) error {
	if errors.Is(err, playwright.ErrTimeout) {
		return fmt.Errorf("%w: %w", driver.ErrLocatorTimeout, err)
	}
	return err
}

// Install downloads the Playwright driver and the named browsers.
func Install(browsers ...string) error {
	if len(browsers) == 0 {
		browsers = []string{"chromium"}
	}
	if err := playwright.Install(&playwright.RunOptions{Browsers: browsers}); err != nil {
		return fmt.Errorf("failed to install playwright browsers: %w", err)
	}
	return nil
}
