package orchestrator

import (
	"context"
	"io"
	"log/slog"

	"github.com/iconidentify/clipgrab/internal/browser"
	"github.com/iconidentify/clipgrab/internal/domain"
	"github.com/iconidentify/clipgrab/internal/youtube"
)

// Request is the input handed to a Strategy for one acquisition.
type Request struct {
	Info domain.PlatformInfo
	// SourceURL is the caller's URL, trimmed but otherwise as given.
	SourceURL string
	// Quality overrides the strategy's default format selection.
	Quality string
	// Pages opens browser pages in the call's session. The session is
	// launched on the first NewPage and closed by the orchestrator.
	Pages  browser.PageOpener
	Logger *slog.Logger
}

func (r Request) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.Default()
	}
	return r.Logger
}

// Strategy acquires content of a single platform.
type Strategy interface {
	Platform() domain.Platform
	// ProducesLocalFile reports whether successful results carry a LocalPath.
	ProducesLocalFile() bool
	Acquire(ctx context.Context, req Request) (*domain.AcquisitionResult, error)
}

// LinkResolver turns a content URL into a direct media URL.
type LinkResolver interface {
	Name() string
	Resolve(ctx context.Context, pages browser.PageOpener, target string) (string, error)
}

// VideoSource fetches metadata and streams from an API-backed platform.
type VideoSource interface {
	GetInfo(ctx context.Context, url string) (*youtube.Info, error)
	Stream(ctx context.Context, info *youtube.Info, f youtube.Format) (io.ReadCloser, int64, error)
}

// FileSaver writes a stream under the output directory and returns its path.
type FileSaver interface {
	Save(name string, r io.Reader) (string, int64, error)
}
