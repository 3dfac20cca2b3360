package edgar

import (
	"regexp"
	"strings"
)

// Sanitize repairs a raw info-table payload so element lookups need neither
// namespace qualification nor entity-clean input. The two passes are
// independent: escape repair first, then namespace stripping.
func Sanitize(raw string) string {
	return stripNamespaces(escapeBareAmpersands(raw))
}

// xmlEntity matches a recognized entity reference starting at '&': the five
// predefined names or a numeric character reference.
var xmlEntity = regexp.MustCompile(`^&(amp|lt|gt|quot|apos|#[0-9]+|#[xX][0-9a-fA-F]+);`)

// escapeBareAmpersands rewrites '&' as '&amp;' unless it already opens a
// recognized entity. Issuer names routinely contain bare ampersands which
// would otherwise abort the parse. Other reserved characters are left as
// found, matching EDGAR's own convention. Idempotent: '&amp;' is recognized
// and passes through untouched.
func escapeBareAmpersands(s string) string {
	if !strings.Contains(s, "&") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 16)
	for i := 0; i < len(s); i++ {
		if s[i] != '&' {
			b.WriteByte(s[i])
			continue
		}
		if xmlEntity.MatchString(s[i:]) {
			b.WriteByte('&')
			continue
		}
		b.WriteString("&amp;")
	}
	return b.String()
}

var (
	// Default and prefixed namespace declarations, e.g. xmlns="..." or xmlns:ns1='...'.
	xmlnsDecl = regexp.MustCompile(`\s+xmlns(:[A-Za-z_][\w.-]*)?\s*=\s*("[^"]*"|'[^']*')`)
	// A namespace prefix at an open or close tag boundary, e.g. <ns1:infoTable> or </ns1:infoTable>.
	tagPrefix = regexp.MustCompile(`<(/?)[A-Za-z_][\w.-]*:`)
)

// stripNamespaces removes namespace declarations and tag prefixes so every
// downstream lookup uses plain unqualified names. Filers disagree on whether
// the info-table namespace is the default, prefixed, or absent.
func stripNamespaces(s string) string {
	s = xmlnsDecl.ReplaceAllString(s, "")
	return tagPrefix.ReplaceAllString(s, "<$1")
}
