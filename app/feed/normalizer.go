package feed

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// FormatError reports a document that does not have the RSS channel shape.
type FormatError struct {
	Reason string
}

func (e *FormatError) Error() string {
	return "unexpected feed format: " + e.Reason
}

// Normalizer converts a decoded RSS document into a Feed. It holds no state
// besides its clock and GUID source and can be shared between goroutines.
type Normalizer struct {
	now     func() time.Time
	newGUID func() string
}

// NewNormalizer creates a Normalizer. A nil now defaults to time.Now and a
// nil newGUID to random UUIDs; the latter only names items that carry no
// guid, link or title.
func NewNormalizer(now func() time.Time, newGUID func() string) *Normalizer {
	if now == nil {
		now = time.Now
	}
	if newGUID == nil {
		newGUID = uuid.NewString
	}
	return &Normalizer{
		now:     now,
		newGUID: newGUID,
	}
}

func (n *Normalizer) Run(feedURL string, doc *RawDocument) (*Feed, error) {
	if doc == nil || doc.Channel == nil {
		return nil, &FormatError{Reason: "missing rss.channel"}
	}
	channel := doc.Channel

	base := feedURL
	if resolved, ok := ResolveURL(feedURL, lo.CoalesceOrEmpty(channel.Link(), feedURL)); ok {
		base = resolved
	}

	items := lo.Map(channel.Items, func(it RawItem, _ int) Item {
		return n.normalizeItem(&it, base)
	})

	link, _ := ResolveURL(base, channel.Link())

	return &Feed{
		Title:       channel.Title(),
		Link:        link,
		Description: channel.Description(),
		Items:       items,
		FetchedAt:   n.now().UTC().Truncate(time.Millisecond),
		Source:      feedURL,
	}, nil
}

func (n *Normalizer) normalizeItem(it *RawItem, base string) Item {
	guid := lo.CoalesceOrEmpty(it.GUIDValue(), it.Link(), it.Title())
	if guid == "" {
		guid = n.newGUID()
	}

	rawHTML := lo.CoalesceOrEmpty(it.Description(), it.ContentEncoded())
	cleaned, htmlImage, hasHTMLImage := ExtractFirstImage(rawHTML, base)

	image, hasImage := mediaImage(it, base)
	if !hasImage && hasHTMLImage {
		image, hasImage = htmlImage, true
	}

	link, _ := ResolveURL(base, it.Link())

	item := Item{
		Title:           it.Title(),
		Link:            link,
		DescriptionHTML: lo.CoalesceOrEmpty(cleaned, rawHTML),
		Date:            it.PubDate(),
		GUID:            guid,
	}
	if hasImage {
		item.Image = &image
	}
	if id, ok := itemVideoID(it); ok {
		item.Video = newVideo(id)
	}

	return item
}

// mediaImage picks the image attached to the item itself, ahead of any
// image found in its body.
func mediaImage(it *RawItem, base string) (string, bool) {
	if image, ok := ResolveURL(base, it.MediaContentURL()); ok {
		return image, true
	}
	if image, ok := ResolveURL(base, it.MediaThumbnailURL()); ok {
		return image, true
	}
	if it.Enclosure != nil && strings.HasPrefix(it.Enclosure.Type, "image/") {
		return ResolveURL(base, it.Enclosure.URL)
	}
	return "", false
}

func newVideo(id string) *Video {
	return &Video{
		Provider:  videoProvider,
		ID:        id,
		Embed:     fmt.Sprintf(videoEmbedTemplate, id),
		Thumbnail: fmt.Sprintf(videoThumbTemplate, id),
	}
}
