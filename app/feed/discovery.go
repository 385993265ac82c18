package feed

import (
	"bytes"
	"slices"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
)

// IsFeed reports whether data looks like a feed document of any kind.
func IsFeed(data []byte) bool {
	return gofeed.DetectFeedType(bytes.NewReader(data)) != gofeed.FeedTypeUnknown
}

// DiscoverFeedURL looks for an RSS alternate link in an HTML page and
// returns it resolved against pageURL.
func DiscoverFeedURL(page []byte, pageURL string) (string, bool) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return "", false
	}

	var found string
	doc.Find("link[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		rel := strings.ToLower(s.AttrOr("rel", ""))
		kind := strings.ToLower(strings.TrimSpace(s.AttrOr("type", "")))
		if !slices.Contains(strings.Fields(rel), "alternate") || kind != "application/rss+xml" {
			return true
		}
		found = s.AttrOr("href", "")
		return false
	})

	return ResolveURL(pageURL, found)
}
