package variants

import (
	"net/url"
	"strings"
)

var (
	hrefSchemes  = []string{"http", "https", "mailto", "tel"}
	imageSchemes = []string{"http", "https"}
)

// safeHref returns raw when it is relative or uses a link scheme, "" otherwise.
func safeHref(raw string) string {
	return allowedURL(raw, hrefSchemes)
}

// safeImageSrc is safeHref restricted to http(s) and relative sources.
func safeImageSrc(raw string) string {
	return allowedURL(raw, imageSchemes)
}

func allowedURL(raw string, schemes []string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || strings.ContainsAny(trimmed, "\x00\t\r\n") {
		return ""
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return ""
	}
	// Relative and scheme-relative ("//host") references inherit the page scheme.
	if parsed.Scheme == "" {
		return trimmed
	}
	scheme := strings.ToLower(parsed.Scheme)
	for _, allowed := range schemes {
		if scheme == allowed {
			return trimmed
		}
	}
	return ""
}
