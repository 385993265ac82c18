package feed

import (
	"regexp"

	"github.com/samber/lo"
)

const (
	videoProvider      = "youtube"
	videoEmbedTemplate = "https://www.youtube-nocookie.com/embed/%s"
	videoThumbTemplate = "https://img.youtube.com/vi/%s/hqdefault.jpg"
)

var videoIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`youtube\.com/embed/([a-zA-Z0-9_-]{6,})`),
	regexp.MustCompile(`youtu\.be/([a-zA-Z0-9_-]{6,})`),
	regexp.MustCompile(`[?&]v=([a-zA-Z0-9_-]{6,})`),
}

// ExtractVideoID returns the YouTube video id referenced by s, which may be
// an HTML fragment or a bare URL.
func ExtractVideoID(s string) (string, bool) {
	if s == "" {
		return "", false
	}
	for _, pattern := range videoIDPatterns {
		if m := pattern.FindStringSubmatch(s); m != nil {
			return m[1], true
		}
	}
	return "", false
}

// itemVideoID looks at the item body first and at its media URL second.
func itemVideoID(it *RawItem) (string, bool) {
	body := lo.CoalesceOrEmpty(it.Description(), it.ContentEncoded())
	if id, ok := ExtractVideoID(body); ok {
		return id, true
	}

	var enclosureURL string
	if it.Enclosure != nil {
		enclosureURL = it.Enclosure.URL
	}
	return ExtractVideoID(lo.CoalesceOrEmpty(it.MediaContentURL(), enclosureURL))
}
