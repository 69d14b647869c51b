package youtube

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/iconidentify/clipgrab/internal/domain"
)

// Quality specifiers understood by ChooseFormat besides labels, itags and
// raw quality strings.
const (
	QualityHighest      = "highest"
	QualityLowest       = "lowest"
	QualityHighestVideo = "highestvideo"
	QualityLowestVideo  = "lowestvideo"
	QualityHighestAudio = "highestaudio"
	QualityLowestAudio  = "lowestaudio"
)

// Format describes one downloadable stream of a video.
type Format struct {
	Itag          int    `json:"itag"`
	MimeType      string `json:"mime_type"`
	Quality       string `json:"quality"`
	QualityLabel  string `json:"quality_label,omitempty"`
	Width         int    `json:"width,omitempty"`
	Height        int    `json:"height,omitempty"`
	Bitrate       int    `json:"bitrate"`
	AudioChannels int    `json:"audio_channels,omitempty"`
	ContentLength int64  `json:"content_length,omitempty"`
}

// HasVideo reports whether the format carries a video track.
func (f Format) HasVideo() bool {
	return strings.HasPrefix(f.MimeType, "video/") && (f.Height > 0 || f.QualityLabel != "")
}

// HasAudio reports whether the format carries an audio track.
func (f Format) HasAudio() bool {
	return f.AudioChannels > 0
}

// Container returns the container name from the mime type, e.g. "mp4" for
// `video/mp4; codecs="avc1.42001E, mp4a.40.2"`.
func (f Format) Container() string {
	mime, _, _ := strings.Cut(f.MimeType, ";")
	_, sub, ok := strings.Cut(strings.TrimSpace(mime), "/")
	if !ok {
		return ""
	}
	return sub
}

// Label returns the most descriptive quality name available.
func (f Format) Label() string {
	if f.QualityLabel != "" {
		return f.QualityLabel
	}
	return f.Quality
}

// ChooseFormat selects the format matching quality. An empty quality means
// "highest". Muxed formats (audio and video) are preferred for the general
// specifiers so the saved file plays with sound.
func ChooseFormat(formats []Format, quality string) (Format, error) {
	q := strings.ToLower(strings.TrimSpace(quality))
	if q == "" {
		q = QualityHighest
	}

	var (
		picked Format
		ok     bool
	)
	switch q {
	case QualityHighest:
		picked, ok = best(preferMuxed(formats), byVideo, true)
	case QualityLowest:
		picked, ok = best(preferMuxed(formats), byVideo, false)
	case QualityHighestVideo:
		picked, ok = best(filter(formats, Format.HasVideo), byVideo, true)
	case QualityLowestVideo:
		picked, ok = best(filter(formats, Format.HasVideo), byVideo, false)
	case QualityHighestAudio:
		picked, ok = best(preferAudioOnly(formats), byBitrate, true)
	case QualityLowestAudio:
		picked, ok = best(preferAudioOnly(formats), byBitrate, false)
	default:
		picked, ok = matchSpecific(formats, q)
	}

	if !ok {
		return Format{}, fmt.Errorf("%w: %q", domain.ErrNoMatchingFormat, quality)
	}
	return picked, nil
}

func matchSpecific(formats []Format, q string) (Format, bool) {
	if itag, err := strconv.Atoi(q); err == nil {
		for _, f := range formats {
			if f.Itag == itag {
				return f, true
			}
		}
		return Format{}, false
	}

	labeled := filter(formats, func(f Format) bool {
		return strings.EqualFold(f.QualityLabel, q)
	})
	if len(labeled) > 0 {
		return best(preferMuxed(labeled), byBitrate, true)
	}

	named := filter(formats, func(f Format) bool {
		return strings.EqualFold(f.Quality, q)
	})
	return best(preferMuxed(named), byBitrate, true)
}

func filter(formats []Format, keep func(Format) bool) []Format {
	out := make([]Format, 0, len(formats))
	for _, f := range formats {
		if keep(f) {
			out = append(out, f)
		}
	}
	return out
}

// preferMuxed narrows formats to those with both tracks when any exist.
func preferMuxed(formats []Format) []Format {
	muxed := filter(formats, func(f Format) bool { return f.HasVideo() && f.HasAudio() })
	if len(muxed) > 0 {
		return muxed
	}
	return formats
}

// preferAudioOnly narrows formats to audio-only streams when any exist,
// otherwise to any format with audio.
func preferAudioOnly(formats []Format) []Format {
	audio := filter(formats, Format.HasAudio)
	only := filter(audio, func(f Format) bool { return !f.HasVideo() })
	if len(only) > 0 {
		return only
	}
	return audio
}

// less orders two formats from lower to higher quality.
type less func(a, b Format) bool

func byVideo(a, b Format) bool {
	if a.Height != b.Height {
		return a.Height < b.Height
	}
	return a.Bitrate < b.Bitrate
}

func byBitrate(a, b Format) bool {
	if a.Bitrate != b.Bitrate {
		return a.Bitrate < b.Bitrate
	}
	return a.Height < b.Height
}

// best returns the highest (or lowest) format under the ordering. Ties keep
// the earliest format in the input.
func best(formats []Format, order less, highest bool) (Format, bool) {
	if len(formats) == 0 {
		return Format{}, false
	}
	sorted := append([]Format(nil), formats...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if highest {
			return order(sorted[j], sorted[i])
		}
		return order(sorted[i], sorted[j])
	})
	return sorted[0], true
}
