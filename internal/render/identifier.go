package render

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ToIdentifier converts heading text to an anchor id: all lower case, every
// space replaced by a hyphen. Nothing is collapsed, stripped or escaped.
func ToIdentifier(text string) string {
	// A Caser keeps state between calls, so each call gets its own.
	lower := cases.Lower(language.Und).String(text)
	return strings.ReplaceAll(lower, " ", "-")
}
