package service

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/atinyakov/shortify/internal/suggest"
)

var schemePrefix = regexp.MustCompile(`(?i)^https?://`)

// NormalizeURL trims raw and prepends https:// unless it already starts with
// http:// or https:// in any letter case.
func NormalizeURL(raw string) string {
	s := strings.TrimSpace(raw)
	if !schemePrefix.MatchString(s) {
		s = "https://" + s
	}
	return s
}

// ValidateURL reports whether s is a well-formed absolute URL with a host.
func ValidateURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Hostname() != ""
}

// SanitizeAlias keeps letters, digits and hyphens, as the alias field does.
func SanitizeAlias(alias string) string {
	return suggest.Sanitize(strings.TrimSpace(alias))
}
