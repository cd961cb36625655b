package model

import (
	"strings"
	"unicode"
)

// DefaultLabeler turns a property name such as "countryId" or "vat_number"
// into "Country Id" / "Vat Number".
func DefaultLabeler(name string) string {
	var words []string
	var current []rune
	flush := func() {
		if len(current) > 0 {
			words = append(words, titleCase(string(current)))
			current = current[:0]
		}
	}

	runes := []rune(name)
	for i, r := range runes {
		switch {
		case r == '_' || r == '-' || unicode.IsSpace(r):
			flush()
			continue
		case i > 0 && isWordBoundary(runes[i-1], r):
			flush()
		}
		current = append(current, r)
	}
	flush()
	return strings.Join(words, " ")
}

func isWordBoundary(prev, r rune) bool {
	return (unicode.IsLower(prev) && unicode.IsUpper(r)) ||
		(unicode.IsLetter(prev) && unicode.IsDigit(r)) ||
		(unicode.IsDigit(prev) && unicode.IsLetter(r))
}

func titleCase(word string) string {
	lower := []rune(strings.ToLower(word))
	if len(lower) == 0 {
		return ""
	}
	lower[0] = unicode.ToUpper(lower[0])
	return string(lower)
}

// Label returns the declared label for a property, falling back to
// DefaultLabeler.
func (d Descriptor) Label(name string) string {
	if prop, ok := d.Property(name); ok && strings.TrimSpace(prop.Label) != "" {
		return prop.Label
	}
	return DefaultLabeler(name)
}
