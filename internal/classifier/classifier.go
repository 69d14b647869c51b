// Package classifier maps raw social-media URLs to a platform, content id
// and canonical URL.
//
// Matching is case-insensitive, but ids are captured from the input as given
// because YouTube and Instagram ids are case-sensitive.
package classifier

import (
	"strings"

	"github.com/iconidentify/clipgrab/internal/domain"
)

// Classify determines the platform, content type, id and canonical URL of url.
// It never fails: unrecognized input yields an invalid PlatformInfo with
// platform unknown.
func Classify(url string) domain.PlatformInfo {
	trimmed := strings.TrimSpace(url)
	raw := strings.ToLower(trimmed)

	for _, g := range groups {
		for _, v := range g.variants {
			m := v.pattern.FindStringSubmatch(trimmed)
			if len(m) < 2 || m[1] == "" {
				continue
			}
			id := m[1]
			return domain.PlatformInfo{
				Platform:     g.platform,
				ContentType:  v.contentType,
				ContentID:    id,
				IsValid:      true,
				RawURL:       raw,
				CanonicalURL: g.canonical(v, id),
			}
		}
	}

	return domain.UnknownPlatformInfo(raw)
}

// IsValidVideoURL reports whether url classifies to a supported platform.
func IsValidVideoURL(url string) bool {
	return Classify(url).IsValid
}

// ExtractID returns the content id of url, if it has one.
func ExtractID(url string) (string, bool) {
	info := Classify(url)
	return info.ContentID, info.ContentID != ""
}

// Normalize returns the canonical URL of url, if it is valid.
func Normalize(url string) (string, bool) {
	info := Classify(url)
	return info.CanonicalURL, info.CanonicalURL != ""
}
