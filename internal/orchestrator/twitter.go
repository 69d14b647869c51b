package orchestrator

import (
	"context"
	"errors"

	"github.com/iconidentify/clipgrab/internal/domain"
)

// TwitterStrategy resolves tweet videos to their CDN URL. It never
// downloads bytes; callers fetch or redirect to AssetURL themselves.
type TwitterStrategy struct {
	resolver LinkResolver
}

// NewTwitterStrategy creates the Twitter/X strategy.
func NewTwitterStrategy(resolver LinkResolver) *TwitterStrategy {
	return &TwitterStrategy{resolver: resolver}
}

func (s *TwitterStrategy) Platform() domain.Platform { return domain.PlatformTwitter }

func (s *TwitterStrategy) ProducesLocalFile() bool { return false }

func (s *TwitterStrategy) Acquire(ctx context.Context, req Request) (*domain.AcquisitionResult, error) {
	link, err := s.resolver.Resolve(ctx, req.Pages, req.Info.CanonicalURL)
	if err != nil {
		return nil, asResolutionFailed(domain.PlatformTwitter, s.resolver.Name(), err)
	}

	return &domain.AcquisitionResult{
		Title:    "twitter_" + req.Info.ContentID,
		AssetURL: link,
	}, nil
}

// asResolutionFailed keeps resolver errors typed for callers regardless of
// the resolver implementation.
func asResolutionFailed(platform domain.Platform, resolver string, err error) error {
	if errors.Is(err, domain.ErrResolutionFailed) {
		return err
	}
	return domain.NewResolutionFailedError(platform, resolver, err)
}
