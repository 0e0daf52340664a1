package utils

import (
	"regexp"
	"strings"
)

var (
	localHTTP  = regexp.MustCompile(`(?i)^http://(localhost|127\.0\.0\.1|10\.0\.2\.2|192\.168\.)`)
	httpScheme = regexp.MustCompile(`(?i)^http://`)
	whitespace = regexp.MustCompile(`\s`)
	numericID  = regexp.MustCompile(`^\d+$`)
)

// FixImageURL makes a stored image reference safe to load.
// Quotes are stripped, protocol-relative URLs get https, remote http is upgraded
// (local network hosts are left alone) and whitespace is removed. data: URIs pass through.
func FixImageURL(url string) string {
	s := strings.TrimSpace(url)
	s = strings.TrimPrefix(s, `"`)
	s = strings.TrimPrefix(s, `'`)
	s = strings.TrimSuffix(s, `"`)
	s = strings.TrimSuffix(s, `'`)
	if s == "" {
		return ""
	}
	if strings.HasPrefix(s, "data:image") {
		return s
	}
	if strings.HasPrefix(s, "//") {
		s = "https:" + s
	}
	if httpScheme.MatchString(s) && !localHTTP.MatchString(s) {
		s = httpScheme.ReplaceAllString(s, "https://")
	}
	return whitespace.ReplaceAllString(s, "")
}

// IsNumericImageID reports whether a legacy image reference is a bundled-asset number
func IsNumericImageID(s string) bool {
	return numericID.MatchString(strings.TrimSpace(s))
}
