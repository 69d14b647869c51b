package domain

// Platform identifies the social network a URL belongs to.
type Platform string

const (
	PlatformYouTube   Platform = "youtube"
	PlatformTwitter   Platform = "twitter"
	PlatformInstagram Platform = "instagram"
	PlatformUnknown   Platform = "unknown"
)

// String returns the string representation of the Platform.
func (p Platform) String() string {
	return string(p)
}

// Known reports whether p is one of the supported platforms.
func (p Platform) Known() bool {
	switch p {
	case PlatformYouTube, PlatformTwitter, PlatformInstagram:
		return true
	}
	return false
}

// ContentType describes what kind of post a URL points at.
type ContentType string

const (
	ContentVideo   ContentType = "video"
	ContentShort   ContentType = "short"
	ContentReel    ContentType = "reel"
	ContentStory   ContentType = "story"
	ContentUnknown ContentType = "unknown"
)

// PlatformInfo is the result of classifying a URL.
type PlatformInfo struct {
	Platform     Platform    `json:"platform"`
	ContentType  ContentType `json:"type"`
	ContentID    string      `json:"id,omitempty"`
	IsValid      bool        `json:"is_valid"`
	RawURL       string      `json:"url"`
	CanonicalURL string      `json:"normalized_url,omitempty"`
}

// UnknownPlatformInfo returns the classification for an unrecognized URL.
func UnknownPlatformInfo(rawURL string) PlatformInfo {
	return PlatformInfo{
		Platform:    PlatformUnknown,
		ContentType: ContentUnknown,
		RawURL:      rawURL,
	}
}
