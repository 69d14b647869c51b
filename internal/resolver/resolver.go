// Package resolver turns a content URL into a direct media URL by driving a
// third-party download site through a browser page.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"github.com/iconidentify/clipgrab/internal/browser"
	"github.com/iconidentify/clipgrab/internal/config"
	"github.com/iconidentify/clipgrab/internal/domain"
)

// errNoLink is returned when the result page holds no usable link.
var errNoLink = errors.New("no download link on result page")

// Site describes the form on a resolver site. The markup is owned by the
// third party and may change without notice.
type Site struct {
	Name     string
	Platform domain.Platform
	// LandingURL is the page holding the submission form.
	LandingURL     string
	InputSelector  string
	SubmitSelector string
	// ReadySelector appears once the site has rendered its result.
	ReadySelector string
	// LinkSelector matches the download anchors; the first one wins.
	LinkSelector string
}

// TwitSave returns the twitsave.com site description.
func TwitSave(landingURL string) Site {
	return Site{
		Name:           "twitsave",
		Platform:       domain.PlatformTwitter,
		LandingURL:     landingURL,
		InputSelector:  `input[name="url"]`,
		SubmitSelector: `button[type="submit"]`,
		ReadySelector:  "video",
		LinkSelector:   "td ul li a",
	}
}

// SnapInsta returns the snapinsta.app site description.
func SnapInsta(landingURL string) Site {
	return Site{
		Name:           "snapinsta",
		Platform:       domain.PlatformInstagram,
		LandingURL:     landingURL,
		InputSelector:  "#url",
		SubmitSelector: "#submit",
		ReadySelector:  ".download-content .download-items a",
		LinkSelector:   ".download-content .download-items a",
	}
}

// FormResolver submits a URL into a site's form and scrapes the resulting
// download link. It is safe for concurrent use; pages come from the caller.
type FormResolver struct {
	site    Site
	wait    time.Duration
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewFormResolver creates a resolver for site. Requests to the site are
// paced by cfg.RateLimit; result waits are bounded by cfg.WaitTimeout.
func NewFormResolver(site Site, cfg config.ResolverConfig, logger *slog.Logger) *FormResolver {
	if logger == nil {
		logger = slog.Default()
	}

	r := &FormResolver{
		site:   site,
		wait:   cfg.WaitTimeout,
		logger: logger.With("resolver", site.Name),
	}
	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		r.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	return r
}

// NewTwitterResolver creates the resolver for tweets.
func NewTwitterResolver(cfg config.ResolverConfig, logger *slog.Logger) *FormResolver {
	return NewFormResolver(TwitSave(cfg.TwitterURL), cfg, logger)
}

// NewInstagramResolver creates the resolver for Instagram posts and reels.
func NewInstagramResolver(cfg config.ResolverConfig, logger *slog.Logger) *FormResolver {
	return NewFormResolver(SnapInsta(cfg.InstagramURL), cfg, logger)
}

// Name returns the site name.
func (r *FormResolver) Name() string {
	return r.site.Name
}

// Resolve opens a page from pages, submits target and returns the first
// download link. The page is closed before returning. Every failure is a
// *domain.ResolutionFailedError.
func (r *FormResolver) Resolve(ctx context.Context, pages browser.PageOpener, target string) (string, error) {
	link, err := r.resolve(ctx, pages, target)
	if err != nil {
		return "", domain.NewResolutionFailedError(r.site.Platform, r.site.Name, err)
	}
	return link, nil
}

func (r *FormResolver) resolve(ctx context.Context, pages browser.PageOpener, target string) (string, error) {
	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limit: %w", err)
		}
	}

	page, err := pages.NewPage(ctx)
	if err != nil {
		return "", err
	}
	defer func() {
		if err := page.Close(); err != nil {
			r.logger.Warn("failed to close page", "error", err)
		}
	}()

	if err := page.Goto(ctx, r.site.LandingURL); err != nil {
		return "", err
	}
	if err := page.Type(ctx, r.site.InputSelector, target); err != nil {
		return "", err
	}
	if err := page.Click(ctx, r.site.SubmitSelector); err != nil {
		return "", err
	}
	if err := page.WaitForSelector(ctx, r.site.ReadySelector, r.wait); err != nil {
		return "", err
	}

	html, err := page.HTML(ctx)
	if err != nil {
		return "", err
	}

	link, err := FirstLink(html, r.site.LinkSelector, r.site.LandingURL)
	if err != nil {
		return "", err
	}

	r.logger.Debug("link resolved", "target", target)
	return link, nil
}

// FirstLink returns the href of the first element matching selector in
// html, resolved against base. Empty and fragment-only hrefs are skipped.
func FirstLink(html, selector, base string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parse result page: %w", err)
	}

	var href string
	doc.Find(selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		v, ok := s.Attr("href")
		v = strings.TrimSpace(v)
		if !ok || v == "" || strings.HasPrefix(v, "#") || strings.HasPrefix(strings.ToLower(v), "javascript:") {
			return true
		}
		href = v
		return false
	})
	if href == "" {
		return "", errNoLink
	}

	ref, err := url.Parse(href)
	if err != nil {
		return "", fmt.Errorf("parse link %q: %w", href, err)
	}
	if ref.IsAbs() || base == "" {
		return href, nil
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return href, nil
	}
	return baseURL.ResolveReference(ref).String(), nil
}
