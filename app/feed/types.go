package feed

import (
	"encoding/xml"
	"strings"
	"time"
)

const (
	contentNS = "http://purl.org/rss/1.0/modules/content/"
	mediaNS   = "http://search.yahoo.com/mrss/"
)

// Raw document types

// RawDocument is an RSS 2.0 document as decoded from XML. Channel is nil
// when the document has no <channel> element.
type RawDocument struct {
	XMLName xml.Name    `xml:"rss"`
	Channel *RawChannel `xml:"channel"`
}

// stripDefaultSpace moves plain RSS elements declared under a default
// namespace on <rss> (xmlns="http://backend.userland.com/rss2") back to the
// empty namespace, where the accessors look for them.
func (d *RawDocument) stripDefaultSpace() {
	space := d.XMLName.Space
	if space == "" || space == contentNS || space == mediaNS || d.Channel == nil {
		return
	}

	ch := d.Channel
	for _, els := range []TextElements{ch.Titles, ch.Links, ch.Descriptions} {
		els.stripSpace(space)
	}
	for i := range ch.Items {
		it := &ch.Items[i]
		for _, els := range []TextElements{it.Titles, it.Links, it.Descriptions, it.PubDates} {
			els.stripSpace(space)
		}
	}
}

type RawChannel struct {
	Titles       TextElements `xml:"title"`
	Links        TextElements `xml:"link"`
	Descriptions TextElements `xml:"description"`
	Items        []RawItem    `xml:"item"`
}

func (c *RawChannel) Title() string       { return c.Titles.First("") }
func (c *RawChannel) Link() string        { return c.Links.First("") }
func (c *RawChannel) Description() string { return c.Descriptions.First("") }

type RawItem struct {
	Titles       TextElements   `xml:"title"`
	Links        TextElements   `xml:"link"`
	Descriptions TextElements   `xml:"description"`
	Encoded      TextElements   `xml:"encoded"`
	PubDates     TextElements   `xml:"pubDate"`
	GUID         *RawGUID       `xml:"guid"`
	Enclosure    *RawEnclosure  `xml:"enclosure"`
	MediaContent []MediaElement `xml:"content"`
	Thumbnails   []MediaElement `xml:"thumbnail"`
}

func (it *RawItem) Title() string       { return it.Titles.First("") }
func (it *RawItem) Link() string        { return it.Links.First("") }
func (it *RawItem) Description() string { return it.Descriptions.First("") }
func (it *RawItem) PubDate() string     { return it.PubDates.First("") }

// ContentEncoded returns the <content:encoded> body. An undeclared
// "content" prefix is accepted as well.
func (it *RawItem) ContentEncoded() string {
	return it.Encoded.First(contentNS, "content")
}

// MediaContentURL returns the url of the first <media:content> that has one.
func (it *RawItem) MediaContentURL() string {
	return firstMediaURL(it.MediaContent)
}

// MediaThumbnailURL returns the url of the first <media:thumbnail> that has one.
func (it *RawItem) MediaThumbnailURL() string {
	return firstMediaURL(it.Thumbnails)
}

func (it *RawItem) GUIDValue() string {
	if it.GUID == nil {
		return ""
	}
	return strings.TrimSpace(it.GUID.Value)
}

// TextElement keeps the element name next to its text so that namespaced
// siblings such as <atom:link> or <media:title> can be told apart.
type TextElement struct {
	XMLName xml.Name
	Value   string `xml:",chardata"`
}

type TextElements []TextElement

// First returns the trimmed text of the first non-empty element whose
// namespace is one of spaces. With no spaces given only elements without a
// namespace match.
func (t TextElements) First(spaces ...string) string {
	if len(spaces) == 0 {
		spaces = []string{""}
	}
	for _, el := range t {
		value := strings.TrimSpace(el.Value)
		if value == "" {
			continue
		}
		for _, space := range spaces {
			if el.XMLName.Space == space {
				return value
			}
		}
	}
	return ""
}

func (t TextElements) stripSpace(space string) {
	for i := range t {
		if t[i].XMLName.Space == space {
			t[i].XMLName.Space = ""
		}
	}
}

type RawGUID struct {
	Value       string `xml:",chardata"`
	IsPermaLink string `xml:"isPermaLink,attr"`
}

type RawEnclosure struct {
	URL    string `xml:"url,attr"`
	Type   string `xml:"type,attr"`
	Length string `xml:"length,attr"`
}

// MediaElement is a <media:content> or <media:thumbnail> attribute bag.
type MediaElement struct {
	XMLName xml.Name
	URL     string `xml:"url,attr"`
	Type    string `xml:"type,attr"`
	Medium  string `xml:"medium,attr"`
}

func firstMediaURL(elements []MediaElement) string {
	for _, el := range elements {
		if el.XMLName.Space != mediaNS && el.XMLName.Space != "media" {
			continue
		}
		if url := strings.TrimSpace(el.URL); url != "" {
			return url
		}
	}
	return ""
}

// Normalized types

type Feed struct {
	Title       string    `json:"title"`
	Link        string    `json:"link"`
	Description string    `json:"description"`
	Items       []Item    `json:"items"`
	FetchedAt   time.Time `json:"fetchedAt"`
	Source      string    `json:"source"`
}

type Item struct {
	Title           string  `json:"title"`
	Link            string  `json:"link"`
	DescriptionHTML string  `json:"descriptionHtml"`
	Date            string  `json:"date"`
	GUID            string  `json:"guid"`
	Image           *string `json:"image"`
	Video           *Video  `json:"video"`
}

type Video struct {
	Provider  string `json:"provider"`
	ID        string `json:"id"`
	Embed     string `json:"embed"`
	Thumbnail string `json:"thumbnail"`
}
