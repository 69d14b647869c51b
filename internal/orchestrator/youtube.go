package orchestrator

import (
	"context"

	"github.com/iconidentify/clipgrab/internal/domain"
	"github.com/iconidentify/clipgrab/internal/storage"
	"github.com/iconidentify/clipgrab/internal/youtube"
)

// YouTubeStrategy downloads videos through the YouTube player API.
type YouTubeStrategy struct {
	source         VideoSource
	store          FileSaver
	quality        string
	appendIDSuffix bool
}

// NewYouTubeStrategy creates the YouTube strategy. quality is the default
// format specifier; appendIDSuffix adds the video id to file names.
func NewYouTubeStrategy(source VideoSource, store FileSaver, quality string, appendIDSuffix bool) *YouTubeStrategy {
	return &YouTubeStrategy{
		source:         source,
		store:          store,
		quality:        quality,
		appendIDSuffix: appendIDSuffix,
	}
}

func (s *YouTubeStrategy) Platform() domain.Platform { return domain.PlatformYouTube }

func (s *YouTubeStrategy) ProducesLocalFile() bool { return true }

func (s *YouTubeStrategy) Acquire(ctx context.Context, req Request) (*domain.AcquisitionResult, error) {
	info, err := s.source.GetInfo(ctx, req.Info.CanonicalURL)
	if err != nil {
		return nil, domain.NewDownloadFailedError(domain.PlatformYouTube, "info", err)
	}

	quality := req.Quality
	if quality == "" {
		quality = s.quality
	}
	format, err := youtube.ChooseFormat(info.Formats, quality)
	if err != nil {
		return nil, domain.NewDownloadFailedError(domain.PlatformYouTube, "format", err)
	}

	stream, _, err := s.source.Stream(ctx, info, format)
	if err != nil {
		return nil, domain.NewDownloadFailedError(domain.PlatformYouTube, "stream", err)
	}
	defer stream.Close()

	name := youTubeFileName(info.Title, req.Info.ContentID, s.appendIDSuffix)
	path, written, err := s.store.Save(name, stream)
	if err != nil {
		return nil, domain.NewDownloadFailedError(domain.PlatformYouTube, "write", err)
	}

	req.logger().Debug("youtube format selected",
		"itag", format.Itag,
		"quality", format.Label(),
		"bytes", written,
	)

	return &domain.AcquisitionResult{
		Title:     info.Title,
		AssetURL:  req.SourceURL,
		LocalPath: path,
		Size:      written,
		Quality:   format.Label(),
		Container: format.Container(),
	}, nil
}

// youTubeFileName builds <sanitized title>.mp4. Titles that sanitize to
// nothing fall back to the video id.
func youTubeFileName(title, id string, appendID bool) string {
	base := storage.SanitizeFilename(title)
	switch {
	case base == "":
		base = "youtube_" + id
	case appendID && id != "":
		base += "_" + id
	}
	return base + ".mp4"
}
