// Package youtube fetches video metadata and streams through the public
// YouTube player API.
package youtube

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	yt "github.com/kkdai/youtube/v2"

	"github.com/iconidentify/clipgrab/internal/config"
	"github.com/iconidentify/clipgrab/internal/downloader"
)

// Info is the metadata of a single video.
type Info struct {
	ID       string        `json:"id"`
	Title    string        `json:"title"`
	Author   string        `json:"author,omitempty"`
	Duration time.Duration `json:"duration"`
	Formats  []Format      `json:"formats"`

	video *yt.Video
}

// Client wraps the kkdai YouTube client.
type Client struct {
	yt          *yt.Client
	readTimeout time.Duration
	logger      *slog.Logger
}

// NewClient creates a YouTube client. cfg.Timeout bounds the wait for
// response headers; a stream aborts after dl.ReadTimeout without data.
// Whole-request timeouts are left to the caller's context since streams
// may legitimately run for minutes.
func NewClient(cfg config.YouTubeConfig, dl config.DownloadConfig, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.ResponseHeaderTimeout = cfg.Timeout
	return &Client{
		yt: &yt.Client{
			HTTPClient: &http.Client{Transport: transport},
		},
		readTimeout: dl.ReadTimeout,
		logger:      logger,
	}
}

// GetInfo fetches title and format list for a video URL or id.
func (c *Client) GetInfo(ctx context.Context, url string) (*Info, error) {
	video, err := c.yt.GetVideoContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("get video info: %w", err)
	}

	info := &Info{
		ID:       video.ID,
		Title:    video.Title,
		Author:   video.Author,
		Duration: video.Duration,
		Formats:  make([]Format, 0, len(video.Formats)),
		video:    video,
	}
	for _, f := range video.Formats {
		info.Formats = append(info.Formats, Format{
			Itag:          f.ItagNo,
			MimeType:      f.MimeType,
			Quality:       f.Quality,
			QualityLabel:  f.QualityLabel,
			Width:         f.Width,
			Height:        f.Height,
			Bitrate:       f.Bitrate,
			AudioChannels: f.AudioChannels,
			ContentLength: int64(f.ContentLength),
		})
	}

	c.logger.Debug("youtube info fetched",
		"video_id", info.ID,
		"formats", len(info.Formats),
	)
	return info, nil
}

// Stream opens the byte stream of format f. info must come from GetInfo.
func (c *Client) Stream(ctx context.Context, info *Info, f Format) (io.ReadCloser, int64, error) {
	if info == nil || info.video == nil {
		return nil, 0, fmt.Errorf("stream: info was not fetched by this client")
	}

	var format *yt.Format
	for i := range info.video.Formats {
		if info.video.Formats[i].ItagNo == f.Itag {
			format = &info.video.Formats[i]
			break
		}
	}
	if format == nil {
		return nil, 0, fmt.Errorf("stream: itag %d not in format list", f.Itag)
	}

	stream, size, err := c.yt.GetStreamContext(ctx, info.video, format)
	if err != nil {
		return nil, 0, fmt.Errorf("open stream: %w", err)
	}

	logger := c.logger.With("video_id", info.ID, "itag", f.Itag)
	return downloader.NewProgressReader(stream, size, c.readTimeout, logger), size, nil
}
