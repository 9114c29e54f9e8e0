package entity

import (
	"strings"
	"unicode"
)

// acronyms keeps well-known state abbreviations upper-cased
var acronyms = map[string]string{
	"fct": "FCT",
}

// Slugify turns a state name into its URL slug: "Cross River" -> "cross-river"
func Slugify(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// StateNameFromSlug turns a slug back into a display name: "cross-river" -> "Cross River"
func StateNameFromSlug(slug string) string {
	parts := strings.FieldsFunc(strings.ToLower(slug), func(r rune) bool {
		return r == '-' || r == '_' || unicode.IsSpace(r)
	})
	for i, p := range parts {
		if a, ok := acronyms[p]; ok {
			parts[i] = a
			continue
		}
		runes := []rune(p)
		runes[0] = unicode.ToUpper(runes[0])
		parts[i] = string(runes)
	}
	return strings.Join(parts, " ")
}
