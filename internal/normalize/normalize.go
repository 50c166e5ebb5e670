// Package normalize turns free-text spreadsheet values into canonical values.
//
// Every function here is total: unparseable input yields a documented default
// (or no value) and a logged warning, never an error.
package normalize

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// certPlaceholder is what the registration form writes when no file was uploaded.
const certPlaceholder = "Google Drive Links"

// Fold prepares text for keyword matching: NFC, lower case, trimmed.
// NFC matters for Devanagari, where the same glyph can arrive composed or not.
func Fold(s string) string {
	return strings.ToLower(strings.TrimSpace(norm.NFC.String(s)))
}

// containsAny reports whether s contains any of the given keywords.
func containsAny(s string, keywords ...string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

// PlaceholderEmail builds a synthetic address such as "team_a@team.local".
func PlaceholderEmail(name, domain string) string {
	local := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
	return local + "@" + domain
}

// CertificateURL returns the trimmed URL, or "" for the form placeholder.
func CertificateURL(raw string) string {
	v := strings.TrimSpace(raw)
	if strings.EqualFold(v, certPlaceholder) {
		return ""
	}
	return v
}
