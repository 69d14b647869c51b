// Package orchestrator dispatches classified URLs to per-platform
// acquisition strategies.
package orchestrator

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iconidentify/clipgrab/internal/browser"
	"github.com/iconidentify/clipgrab/internal/classifier"
	"github.com/iconidentify/clipgrab/internal/domain"
)

// Option adjusts a single acquisition.
type Option func(*Request)

// WithQuality selects the format quality for platforms that expose formats.
func WithQuality(quality string) Option {
	return func(r *Request) {
		r.Quality = quality
	}
}

// Orchestrator classifies URLs and runs the matching strategy.
// It holds no per-call state and is safe for concurrent use.
type Orchestrator struct {
	engine     browser.Engine
	strategies map[domain.Platform]Strategy
	logger     *slog.Logger
}

// New creates an orchestrator. engine may be nil when no registered
// strategy needs a browser.
func New(engine browser.Engine, logger *slog.Logger, strategies ...Strategy) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	o := &Orchestrator{
		engine:     engine,
		strategies: make(map[domain.Platform]Strategy, len(strategies)),
		logger:     logger,
	}
	for _, s := range strategies {
		o.strategies[s.Platform()] = s
	}
	return o
}

// ProducesLocalFile reports whether acquisitions for platform write a file.
func (o *Orchestrator) ProducesLocalFile(platform domain.Platform) bool {
	s, ok := o.strategies[platform]
	return ok && s.ProducesLocalFile()
}

// Acquire classifies url and acquires its video. An unsupported URL fails
// with *domain.UnsupportedURLError before any browser is launched.
func (o *Orchestrator) Acquire(ctx context.Context, url string, opts ...Option) (*domain.AcquisitionResult, error) {
	info := classifier.Classify(url)
	return o.acquire(ctx, info, strings.TrimSpace(url), opts)
}

// AcquireInfo acquires url using info, a prior classification of it.
// info.RawURL is normalized, so url is kept as the source.
func (o *Orchestrator) AcquireInfo(ctx context.Context, url string, info domain.PlatformInfo, opts ...Option) (*domain.AcquisitionResult, error) {
	return o.acquire(ctx, info, strings.TrimSpace(url), opts)
}

func (o *Orchestrator) acquire(ctx context.Context, info domain.PlatformInfo, source string, opts []Option) (*domain.AcquisitionResult, error) {
	if !info.IsValid {
		return nil, &domain.UnsupportedURLError{URL: source}
	}
	strategy, ok := o.strategies[info.Platform]
	if !ok {
		return nil, &domain.UnsupportedURLError{URL: source}
	}

	id := uuid.New().String()
	logger := o.logger.With(
		"acquisition_id", id,
		"platform", info.Platform,
		"content_id", info.ContentID,
	)

	scope := newSessionScope(o.engine, logger)
	defer func() {
		if err := scope.Close(); err != nil {
			logger.Warn("failed to close browser session", "error", err)
		}
	}()

	req := Request{
		Info:      info,
		SourceURL: source,
		Pages:     scope,
		Logger:    logger,
	}
	for _, opt := range opts {
		opt(&req)
	}

	logger.Info("acquisition started", "url", info.CanonicalURL)
	start := time.Now()

	result, err := strategy.Acquire(ctx, req)
	if err != nil {
		logger.Error("acquisition failed",
			"error", err,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	}

	result.ID = id
	result.SourceURL = source
	result.Platform = info.Platform
	result.LocalFile = strategy.ProducesLocalFile()

	logger.Info("acquisition completed",
		"title", result.Title,
		"local_path", result.LocalPath,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return result, nil
}
