package orchestrator

import (
	"log/slog"

	"github.com/iconidentify/clipgrab/internal/browser"
	"github.com/iconidentify/clipgrab/internal/config"
	"github.com/iconidentify/clipgrab/internal/downloader"
	"github.com/iconidentify/clipgrab/internal/resolver"
	"github.com/iconidentify/clipgrab/internal/storage"
	"github.com/iconidentify/clipgrab/internal/youtube"
)

// NewFromConfig wires the production orchestrator: chromedp for rendering,
// the YouTube API client, the configured resolver sites, plain HTTP
// downloads, and the output directory store.
func NewFromConfig(cfg *config.Config, store *storage.FileStore, logger *slog.Logger) *Orchestrator {
	engine := browser.NewChromeEngine(cfg.Browser, logger)
	fetcher := downloader.NewHTTPDownloader(cfg.Download, logger)
	ytClient := youtube.NewClient(cfg.YouTube, cfg.Download, logger)

	return New(engine, logger,
		NewYouTubeStrategy(ytClient, store, cfg.YouTube.Quality, cfg.Storage.AppendIDSuffix),
		NewTwitterStrategy(resolver.NewTwitterResolver(cfg.Resolver, logger)),
		NewInstagramStrategy(resolver.NewInstagramResolver(cfg.Resolver, logger), fetcher, store),
	)
}
