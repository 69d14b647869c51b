package classifier

import (
	"regexp"

	"github.com/iconidentify/clipgrab/internal/domain"
)

// prefix matches an optional scheme and optional www. host prefix.
const prefix = `(?i)^(?:https?://)?(?:www\.)?`

// variant is one URL shape within a platform group.
type variant struct {
	name        string
	pattern     *regexp.Regexp
	contentType domain.ContentType
	// segment is the path segment used to rebuild the canonical URL.
	// Only Instagram canonical URLs depend on it.
	segment string
}

// group holds the URL variants of one platform, tried in order.
type group struct {
	platform  domain.Platform
	variants  []variant
	canonical func(v variant, id string) string
}

// groups are tried in priority order: YouTube, Twitter/X, Instagram.
var groups = []group{
	{
		platform: domain.PlatformYouTube,
		variants: []variant{
			{name: "standard", pattern: regexp.MustCompile(prefix + `youtube\.com/watch\?v=([a-zA-Z0-9_-]{11})`), contentType: domain.ContentVideo},
			{name: "short", pattern: regexp.MustCompile(prefix + `youtu\.be/([a-zA-Z0-9_-]{11})`), contentType: domain.ContentVideo},
			{name: "mobile", pattern: regexp.MustCompile(prefix + `m\.youtube\.com/watch\?v=([a-zA-Z0-9_-]{11})`), contentType: domain.ContentVideo},
			{name: "embed", pattern: regexp.MustCompile(prefix + `youtube\.com/embed/([a-zA-Z0-9_-]{11})`), contentType: domain.ContentVideo},
			{name: "shorts", pattern: regexp.MustCompile(prefix + `youtube\.com/shorts/([a-zA-Z0-9_-]{11})`), contentType: domain.ContentShort},
		},
		canonical: func(_ variant, id string) string {
			return "https://www.youtube.com/watch?v=" + id
		},
	},
	{
		platform: domain.PlatformTwitter,
		variants: []variant{
			{name: "standard", pattern: regexp.MustCompile(prefix + `twitter\.com/\w+/status/(\d+)`), contentType: domain.ContentVideo},
			{name: "mobile", pattern: regexp.MustCompile(prefix + `mobile\.twitter\.com/\w+/status/(\d+)`), contentType: domain.ContentVideo},
			{name: "x", pattern: regexp.MustCompile(prefix + `x\.com/\w+/status/(\d+)`), contentType: domain.ContentVideo},
		},
		// The author handle is dropped; /i/status/ resolves for any author.
		canonical: func(_ variant, id string) string {
			return "https://twitter.com/i/status/" + id
		},
	},
	{
		platform: domain.PlatformInstagram,
		variants: []variant{
			{name: "post", pattern: regexp.MustCompile(prefix + `instagram\.com/p/([a-zA-Z0-9_-]+)`), contentType: domain.ContentVideo, segment: "p"},
			{name: "reel", pattern: regexp.MustCompile(prefix + `instagram\.com/reels?/([a-zA-Z0-9_-]+)`), contentType: domain.ContentReel, segment: "reel"},
			{name: "stories", pattern: regexp.MustCompile(prefix + `instagram\.com/stories/([a-zA-Z0-9_-]+)`), contentType: domain.ContentStory, segment: "stories"},
		},
		canonical: func(v variant, id string) string {
			return "https://www.instagram.com/" + v.segment + "/" + id
		},
	},
}
