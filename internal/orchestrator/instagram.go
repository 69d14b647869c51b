package orchestrator

import (
	"context"
	"regexp"

	"github.com/iconidentify/clipgrab/internal/domain"
	"github.com/iconidentify/clipgrab/internal/downloader"
)

var postIDPattern = regexp.MustCompile(`/p/([^/?#]+)`)

// InstagramStrategy resolves posts and reels through a resolver site and
// downloads the resolved media.
type InstagramStrategy struct {
	resolver LinkResolver
	fetcher  downloader.Downloader
	store    FileSaver
}

// NewInstagramStrategy creates the Instagram strategy.
func NewInstagramStrategy(resolver LinkResolver, fetcher downloader.Downloader, store FileSaver) *InstagramStrategy {
	return &InstagramStrategy{
		resolver: resolver,
		fetcher:  fetcher,
		store:    store,
	}
}

func (s *InstagramStrategy) Platform() domain.Platform { return domain.PlatformInstagram }

func (s *InstagramStrategy) ProducesLocalFile() bool { return true }

// Acquire reports every failure as *domain.DownloadFailedError. A resolver
// failure stays in the chain as *domain.ResolutionFailedError.
func (s *InstagramStrategy) Acquire(ctx context.Context, req Request) (*domain.AcquisitionResult, error) {
	link, err := s.resolver.Resolve(ctx, req.Pages, req.Info.CanonicalURL)
	if err != nil {
		resolveErr := asResolutionFailed(domain.PlatformInstagram, s.resolver.Name(), err)
		return nil, domain.NewDownloadFailedError(domain.PlatformInstagram, "resolve", resolveErr)
	}

	id := instagramPostID(req.Info.CanonicalURL, req.Info.ContentID)

	body, _, err := s.fetcher.Download(ctx, link)
	if err != nil {
		return nil, domain.NewDownloadFailedError(domain.PlatformInstagram, "fetch", err)
	}
	defer body.Close()

	path, written, err := s.store.Save("instagram_"+id+".mp4", body)
	if err != nil {
		return nil, domain.NewDownloadFailedError(domain.PlatformInstagram, "write", err)
	}

	return &domain.AcquisitionResult{
		Title:     "instagram_" + id,
		AssetURL:  link,
		LocalPath: path,
		Size:      written,
	}, nil
}

// instagramPostID returns the path segment after /p/, or fallback for
// reel and story URLs.
func instagramPostID(url, fallback string) string {
	if m := postIDPattern.FindStringSubmatch(url); len(m) == 2 {
		return m[1]
	}
	return fallback
}
