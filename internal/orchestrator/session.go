package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/iconidentify/clipgrab/internal/browser"
)

// sessionScope owns the rendering session of a single acquisition. The
// browser is launched on the first NewPage; Close is a no-op when no page
// was ever requested.
type sessionScope struct {
	engine browser.Engine
	logger *slog.Logger

	mu      sync.Mutex
	session browser.Session
	closed  bool
}

func newSessionScope(engine browser.Engine, logger *slog.Logger) *sessionScope {
	return &sessionScope{engine: engine, logger: logger}
}

func (s *sessionScope) NewPage(ctx context.Context) (browser.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, fmt.Errorf("session scope closed")
	}
	if s.session == nil {
		if s.engine == nil {
			return nil, fmt.Errorf("no browser engine configured")
		}
		session, err := s.engine.Launch(ctx)
		if err != nil {
			return nil, fmt.Errorf("launch browser: %w", err)
		}
		s.session = session
		s.logger.Debug("browser session opened")
	}
	return s.session.NewPage(ctx)
}

// launched reports whether a session is currently open.
func (s *sessionScope) launched() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session != nil
}

func (s *sessionScope) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	if s.session == nil {
		return nil
	}
	err := s.session.Close()
	s.session = nil
	s.logger.Debug("browser session closed")
	return err
}
