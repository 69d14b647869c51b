// Package browsertest provides in-memory browser fakes for tests.
package browsertest

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/iconidentify/clipgrab/internal/browser"
)

// Engine is a fake browser.Engine that records every session it launches.
type Engine struct {
	LaunchErr  error
	NewPageErr error
	// Page builds each page a session opens; nil yields an empty page.
	Page func() *Page

	mu       sync.Mutex
	sessions []*Session
}

// Launch records and returns a new fake session.
func (e *Engine) Launch(ctx context.Context) (browser.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.LaunchErr != nil {
		return nil, e.LaunchErr
	}
	s := &Session{engine: e}
	e.sessions = append(e.sessions, s)
	return s, nil
}

// Launches returns how many sessions were launched.
func (e *Engine) Launches() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.sessions)
}

// Sessions returns the launched sessions in order.
func (e *Engine) Sessions() []*Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]*Session(nil), e.sessions...)
}

// Session is a fake browser.Session.
type Session struct {
	engine *Engine

	mu     sync.Mutex
	closed bool
	pages  []*Page
}

func (s *Session) NewPage(ctx context.Context) (browser.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, fmt.Errorf("session closed")
	}
	if s.engine.NewPageErr != nil {
		return nil, s.engine.NewPageErr
	}
	p := &Page{}
	if s.engine.Page != nil {
		p = s.engine.Page()
	}
	s.pages = append(s.pages, p)
	return p, nil
}

func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Closed reports whether Close was called.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Pages returns the pages opened in this session.
func (s *Session) Pages() []*Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*Page(nil), s.pages...)
}

// Page is a fake browser.Page serving a fixed document.
type Page struct {
	// HTMLContent is returned by HTML once the page has navigated.
	HTMLContent string
	// Missing selectors never appear; waiting on them times out.
	Missing map[string]bool
	// EvalResult is JSON-decoded into Evaluate's out argument.
	EvalResult any

	GotoErr  error
	TypeErr  error
	ClickErr error

	mu      sync.Mutex
	actions []string
	waits   []time.Duration
	closed  bool
}

func (p *Page) record(action string) {
	p.mu.Lock()
	p.actions = append(p.actions, action)
	p.mu.Unlock()
}

func (p *Page) Goto(ctx context.Context, url string) error {
	p.record("goto " + url)
	if p.GotoErr != nil {
		return p.GotoErr
	}
	return ctx.Err()
}

func (p *Page) Type(ctx context.Context, selector, text string) error {
	p.record("type " + selector + " " + text)
	if p.TypeErr != nil {
		return p.TypeErr
	}
	return ctx.Err()
}

func (p *Page) Click(ctx context.Context, selector string) error {
	p.record("click " + selector)
	if p.ClickErr != nil {
		return p.ClickErr
	}
	return ctx.Err()
}

func (p *Page) WaitForSelector(ctx context.Context, selector string, timeout time.Duration) error {
	p.record("wait " + selector)
	p.mu.Lock()
	p.waits = append(p.waits, timeout)
	p.mu.Unlock()
	if p.Missing[selector] {
		return fmt.Errorf("wait for %q: %w", selector, context.DeadlineExceeded)
	}
	return ctx.Err()
}

func (p *Page) Evaluate(ctx context.Context, expression string, out any) error {
	p.record("eval")
	data, err := json.Marshal(p.EvalResult)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

func (p *Page) HTML(ctx context.Context) (string, error) {
	p.record("html")
	return p.HTMLContent, ctx.Err()
}

func (p *Page) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

// Actions returns the recorded actions in order.
func (p *Page) Actions() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.actions...)
}

// WaitTimeouts returns the timeouts passed to WaitForSelector.
func (p *Page) WaitTimeouts() []time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]time.Duration(nil), p.waits...)
}

// Closed reports whether Close was called.
func (p *Page) Closed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

var (
	_ browser.Engine  = (*Engine)(nil)
	_ browser.Session = (*Session)(nil)
	_ browser.Page    = (*Page)(nil)
)
