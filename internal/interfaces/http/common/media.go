package common

import (
	"net/url"
	"strings"
)

// ResolveMediaURL joins a stored relative media path onto baseURL. Absolute URLs
// and an empty baseURL leave path unchanged.
func ResolveMediaURL(baseURL, path string) string {
	path = strings.TrimSpace(path)
	if path == "" || baseURL == "" {
		return path
	}
	if u, err := url.Parse(path); err == nil && u.IsAbs() {
		return path
	}
	return strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(path, "/")
}

// ResolveMediaURLs applies ResolveMediaURL to every path, dropping empty ones.
func ResolveMediaURLs(baseURL string, paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if resolved := ResolveMediaURL(baseURL, p); resolved != "" {
			out = append(out, resolved)
		}
	}
	return out
}
