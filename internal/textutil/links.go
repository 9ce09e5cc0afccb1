package textutil

import (
	"net/url"
	"strings"
)

var trackingPrefixes = []string{"utm_", "fbclid", "gclid"}

// NormalizeLinks splits a comma- or newline-separated blob of URLs and returns
// the http(s) ones with tracking parameters and fragments removed, in order of
// first appearance and without duplicates. Segments that fail to parse are
// dropped silently. The result is never nil.
func NormalizeLinks(raw string) []string {
	raw = strings.ReplaceAll(raw, "\r", "")
	raw = strings.ReplaceAll(raw, "\n", ",")

	out := []string{}
	seen := map[string]struct{}{}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		link, ok := normalizeLink(part)
		if !ok {
			continue
		}
		if _, dup := seen[link]; dup {
			continue
		}
		seen[link] = struct{}{}
		out = append(out, link)
	}
	return out
}

func normalizeLink(s string) (string, bool) {
	u, err := url.Parse(s)
	if err != nil {
		return "", false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", false
	}
	if u.Host == "" {
		return "", false
	}
	query, ok := filterQuery(u.RawQuery)
	if !ok {
		return "", false
	}
	clean := url.URL{
		Scheme:   u.Scheme,
		User:     u.User,
		Host:     u.Host,
		Path:     u.Path,
		RawPath:  u.RawPath,
		RawQuery: query,
	}
	return clean.String(), true
}

// filterQuery drops tracking and empty-valued parameters while keeping the
// order of the rest. It reports false when the query is not decodable.
func filterQuery(raw string) (string, bool) {
	if raw == "" {
		return "", true
	}
	var kept []string
	for _, pair := range strings.Split(raw, "&") {
		if pair == "" {
			continue
		}
		k, v, _ := strings.Cut(pair, "=")
		key, err := url.QueryUnescape(k)
		if err != nil {
			return "", false
		}
		value, err := url.QueryUnescape(v)
		if err != nil {
			return "", false
		}
		if value == "" || isTracking(key) {
			continue
		}
		kept = append(kept, url.QueryEscape(key)+"="+url.QueryEscape(value))
	}
	return strings.Join(kept, "&"), true
}

func isTracking(key string) bool {
	key = strings.ToLower(key)
	for _, prefix := range trackingPrefixes {
		if strings.HasPrefix(key, prefix) {
			return true
		}
	}
	return false
}
