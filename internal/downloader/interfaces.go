package downloader

import (
	"context"
	"io"
)

// Downloader fetches remote media over plain HTTP.
type Downloader interface {
	// Download opens a stream of the content at url and returns it with its
	// size (-1 when unknown). Caller is responsible for closing the reader.
	Download(ctx context.Context, url string) (io.ReadCloser, int64, error)
}
