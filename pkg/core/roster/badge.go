package roster

import (
	"strings"
	"unicode"
)

// NormalizeBadge canonicalises a badge number for joining roster rows to accounts:
// whitespace, periods and hyphens are removed and letters uppercased,
// so "12.345-K " and "12345k" both become "12345K".
// An empty result means there is no badge.
func NormalizeBadge(badge string) string {
	var b strings.Builder
	b.Grow(len(badge))
	for _, r := range badge {
		if unicode.IsSpace(r) || r == '.' || r == '-' {
			continue
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}

// BadgeKey normalises the badge held in a cell
func BadgeKey(c Cell) string {
	return NormalizeBadge(c.Text())
}
