package feed

import (
	"net/url"
	"strings"
)

// ResolveURL turns candidate into an absolute URL using base for relative
// references. The boolean is false when candidate is empty or cannot be
// resolved.
func ResolveURL(base, candidate string) (string, bool) {
	candidate = strings.TrimSpace(candidate)
	if candidate == "" {
		return "", false
	}

	if strings.HasPrefix(candidate, "//") {
		return parseAbsolute("https:" + candidate)
	}

	if hasHTTPScheme(candidate) {
		return candidate, true
	}

	baseURL, err := url.Parse(strings.TrimSpace(base))
	if err != nil || !baseURL.IsAbs() {
		return "", false
	}

	ref, err := url.Parse(candidate)
	if err != nil {
		return "", false
	}

	return href(baseURL.ResolveReference(ref)), true
}

func parseAbsolute(raw string) (string, bool) {
	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return "", false
	}
	return href(u), true
}

func hasHTTPScheme(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// href serializes u the way browsers do, with "/" as the path of a bare host.
func href(u *url.URL) string {
	if u.Host != "" && u.Path == "" && u.Opaque == "" {
		u.Path = "/"
	}
	return u.String()
}
