package sanitizer

import (
	"strings"
)

// NormalizeBaseURL trims whitespace and trailing slashes. Bare hosts get an
// https scheme.
func NormalizeBaseURL(url string) string {
	url = strings.TrimSpace(url)
	if url == "" {
		return ""
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = "https://" + url
	}
	return strings.TrimRight(url, "/")
}

func JoinURL(base string, path string) string {
	base = NormalizeBaseURL(base)
	if path == "" {
		return base
	}
	return base + "/" + strings.TrimLeft(path, "/")
}
