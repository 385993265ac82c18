package feed

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Attributes checked for an image source, in priority order. srcset is
// handled separately since it holds a list of candidates.
var imageSourceAttrs = []string{"src", "data-src", "data-image"}

// ExtractFirstImage finds the first <img> tag in fragment and returns the
// fragment with that tag removed together with the tag's image URL resolved
// against base. When there is no <img> tag, or it has no usable source
// attribute, fragment is returned unchanged and the boolean is false.
func ExtractFirstImage(fragment, base string) (string, string, bool) {
	if fragment == "" {
		return fragment, "", false
	}

	start, raw, candidate, found := findFirstImage(fragment)
	if !found || candidate == "" {
		return fragment, "", false
	}

	cleaned := fragment[:start] + fragment[start+len(raw):]
	image, ok := ResolveURL(base, candidate)
	return cleaned, image, ok
}

// findFirstImage scans fragment token by token. start and raw locate the
// exact text of the first <img> tag; candidate is its chosen source value.
func findFirstImage(fragment string) (start int, raw string, candidate string, found bool) {
	z := html.NewTokenizer(strings.NewReader(fragment))
	offset := 0

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			return 0, "", "", false
		}

		tokenRaw := string(z.Raw())
		if tt == html.StartTagToken || tt == html.SelfClosingTagToken {
			token := z.Token()
			if token.DataAtom == atom.Img {
				start = offset
				if fragment[start:min(start+len(tokenRaw), len(fragment))] != tokenRaw {
					start = strings.Index(fragment, tokenRaw)
				}
				if start < 0 {
					return 0, "", "", false
				}
				return start, tokenRaw, imageCandidate(token.Attr), true
			}
		}
		offset += len(tokenRaw)
	}
}

func imageCandidate(attrs []html.Attribute) string {
	values := make(map[string]string, len(attrs))
	for _, attr := range attrs {
		if _, seen := values[attr.Key]; !seen {
			values[attr.Key] = strings.TrimSpace(attr.Val)
		}
	}

	for _, key := range imageSourceAttrs {
		if v := values[key]; v != "" {
			return v
		}
	}

	return pickFromSrcset(values["srcset"])
}

// pickFromSrcset returns the URL of the first srcset candidate, e.g. "a.jpg"
// for "a.jpg 1x, b.jpg 2x".
func pickFromSrcset(srcset string) string {
	first, _, _ := strings.Cut(srcset, ",")
	fields := strings.Fields(first)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
