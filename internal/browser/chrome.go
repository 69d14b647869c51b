package browser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/iconidentify/clipgrab/internal/config"
)

// defaultActionTimeout bounds navigation and input actions when the
// configuration leaves it unset.
const defaultActionTimeout = 60 * time.Second

// ChromeEngine launches Chrome/Chromium through the DevTools protocol.
type ChromeEngine struct {
	cfg    config.BrowserConfig
	logger *slog.Logger
}

// NewChromeEngine creates a chromedp-backed engine.
func NewChromeEngine(cfg config.BrowserConfig, logger *slog.Logger) *ChromeEngine {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChromeEngine{cfg: cfg, logger: logger}
}

func (e *ChromeEngine) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	opts = append(opts,
		chromedp.Flag("headless", e.cfg.Headless),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.DisableGPU,
	)
	if e.cfg.NoSandbox {
		opts = append(opts, chromedp.NoSandbox)
	}
	if e.cfg.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(e.cfg.ExecPath))
	}
	if e.cfg.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(e.cfg.UserAgent))
	}
	return opts
}

// Launch starts a browser process. The browser is killed when ctx is
// canceled or the session is closed, whichever happens first.
func (e *ChromeEngine) Launch(ctx context.Context) (Session, error) {
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), e.allocatorOptions()...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx,
		chromedp.WithErrorf(func(format string, args ...any) {
			e.logger.Debug("chrome: " + fmt.Sprintf(format, args...))
		}),
	)

	s := &chromeSession{
		browserCtx:  browserCtx,
		cancel:      browserCancel,
		allocCancel: allocCancel,
		timeout:     e.cfg.NavigationTimeout,
		logger:      e.logger,
	}
	s.stop = context.AfterFunc(ctx, s.kill)

	// Running with no actions starts the browser process.
	if err := chromedp.Run(browserCtx); err != nil {
		s.Close()
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	e.logger.Debug("browser launched", "headless", e.cfg.Headless)
	return s, nil
}

type chromeSession struct {
	browserCtx  context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
	stop        func() bool
	timeout     time.Duration
	logger      *slog.Logger

	once sync.Once
}

func (s *chromeSession) NewPage(ctx context.Context) (Page, error) {
	if err := s.browserCtx.Err(); err != nil {
		return nil, fmt.Errorf("browser closed: %w", err)
	}

	tabCtx, tabCancel := chromedp.NewContext(s.browserCtx)

	// The first Run creates the target and ties it to the context it is
	// given, so it must run on tabCtx itself rather than a derived one.
	stop := context.AfterFunc(ctx, tabCancel)
	err := chromedp.Run(tabCtx)
	stop()
	if err != nil {
		tabCancel()
		if ctx.Err() != nil {
			return nil, fmt.Errorf("open page: %w", ctx.Err())
		}
		return nil, fmt.Errorf("open page: %w", err)
	}
	return &chromePage{tabCtx: tabCtx, cancel: tabCancel, timeout: s.timeout}, nil
}

func (s *chromeSession) kill() {
	s.cancel()
	s.allocCancel()
}

func (s *chromeSession) Close() error {
	var err error
	s.once.Do(func() {
		s.stop()
		// Graceful close first; the allocator cancel kills the process if needed.
		if cerr := chromedp.Cancel(s.browserCtx); cerr != nil && !errors.Is(cerr, context.Canceled) {
			err = fmt.Errorf("close browser: %w", cerr)
		}
		s.kill()
		s.logger.Debug("browser closed")
	})
	return err
}

type chromePage struct {
	tabCtx  context.Context
	cancel  context.CancelFunc
	timeout time.Duration
}

func (p *chromePage) actionTimeout() time.Duration {
	if p.timeout > 0 {
		return p.timeout
	}
	return defaultActionTimeout
}

// run executes actions on the tab, bounded by timeout and by ctx. Canceling
// the derived context aborts the actions without closing the tab.
func (p *chromePage) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithTimeout(p.tabCtx, timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	err := chromedp.Run(runCtx, actions...)
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

func (p *chromePage) Goto(ctx context.Context, url string) error {
	if err := p.run(ctx, p.actionTimeout(),
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	); err != nil {
		return fmt.Errorf("navigate to %s: %w", url, err)
	}
	return nil
}

func (p *chromePage) Type(ctx context.Context, selector, text string) error {
	if err := p.run(ctx, p.actionTimeout(),
		chromedp.WaitReady(selector, chromedp.ByQuery),
		chromedp.SendKeys(selector, text, chromedp.ByQuery),
	); err != nil {
		return fmt.Errorf("type into %q: %w", selector, err)
	}
	return nil
}

func (p *chromePage) Click(ctx context.Context, selector string) error {
	if err := p.run(ctx, p.actionTimeout(), chromedp.Click(selector, chromedp.ByQuery)); err != nil {
		return fmt.Errorf("click %q: %w", selector, err)
	}
	return nil
}

func (p *chromePage) WaitForSelector(ctx context.Context, selector string, timeout time.Duration) error {
	if err := p.run(ctx, timeout, chromedp.WaitReady(selector, chromedp.ByQuery)); err != nil {
		return fmt.Errorf("wait for %q: %w", selector, err)
	}
	return nil
}

func (p *chromePage) Evaluate(ctx context.Context, expression string, out any) error {
	if err := p.run(ctx, p.actionTimeout(), chromedp.Evaluate(expression, out)); err != nil {
		return fmt.Errorf("evaluate: %w", err)
	}
	return nil
}

func (p *chromePage) HTML(ctx context.Context) (string, error) {
	var html string
	if err := p.run(ctx, p.actionTimeout(), chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("read document: %w", err)
	}
	return html, nil
}

func (p *chromePage) Close() error {
	err := chromedp.Cancel(p.tabCtx)
	p.cancel()
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("close page: %w", err)
	}
	return nil
}
