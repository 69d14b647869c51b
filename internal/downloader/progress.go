package downloader

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"
)

// progressLogInterval is how often a running download reports progress.
const progressLogInterval = 30 * time.Second

// ErrStalled is returned by ProgressReader when the stream delivers no data
// for its read timeout.
var ErrStalled = errors.New("download stalled")

// ProgressReader wraps an io.ReadCloser to track download progress
// and detect stalls (no data for readTimeout).
//
// A watchdog closes the underlying reader once readTimeout passes without
// data, which unblocks a Read stuck on a silent connection.
type ProgressReader struct {
	reader      io.ReadCloser
	total       int64
	downloaded  int64
	readTimeout time.Duration
	watchdog    *time.Timer
	lastLog     time.Time
	logger      *slog.Logger
	mu          sync.Mutex
	stalled     bool
	closed      bool
	closeOnce   sync.Once
	closeErr    error
}

// NewProgressReader wraps r. total may be -1 when the size is unknown and a
// zero readTimeout disables stall detection.
func NewProgressReader(r io.ReadCloser, total int64, readTimeout time.Duration, logger *slog.Logger) *ProgressReader {
	if logger == nil {
		logger = slog.Default()
	}
	p := &ProgressReader{
		reader:      r,
		total:       total,
		readTimeout: readTimeout,
		lastLog:     time.Now(),
		logger:      logger,
	}
	if readTimeout > 0 {
		p.watchdog = time.AfterFunc(readTimeout, p.stall)
	}
	return p
}

func (p *ProgressReader) stall() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.stalled = true
	p.mu.Unlock()

	p.logger.Warn("download stalled, aborting", "timeout", p.readTimeout)
	p.closeReader()
}

func (p *ProgressReader) closeReader() error {
	p.closeOnce.Do(func() {
		p.closeErr = p.reader.Close()
	})
	return p.closeErr
}

func (p *ProgressReader) Read(buf []byte) (int, error) {
	n, err := p.reader.Read(buf)

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stalled {
		return n, fmt.Errorf("%w: no data received for %v", ErrStalled, p.readTimeout)
	}

	if n > 0 {
		p.downloaded += int64(n)
		if p.watchdog != nil {
			p.watchdog.Reset(p.readTimeout)
		}

		if time.Since(p.lastLog) > progressLogInterval {
			p.logProgress()
			p.lastLog = time.Now()
		}
	}

	return n, err
}

// Downloaded returns the number of bytes read so far.
func (p *ProgressReader) Downloaded() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.downloaded
}

func (p *ProgressReader) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	if p.watchdog != nil {
		p.watchdog.Stop()
	}

	if p.downloaded > 0 {
		p.logProgress()
	}
	p.mu.Unlock()

	return p.closeReader()
}

func (p *ProgressReader) logProgress() {
	if p.total > 0 {
		pct := float64(p.downloaded) / float64(p.total) * 100
		p.logger.Info("download progress",
			"downloaded_mb", p.downloaded/(1024*1024),
			"total_mb", p.total/(1024*1024),
			"percent", fmt.Sprintf("%.1f%%", pct),
		)
	} else {
		p.logger.Info("download progress",
			"downloaded_mb", p.downloaded/(1024*1024),
		)
	}
}
