package execution

import (
	"strings"
	"unicode"
)

// SanitizeID strips everything but letters, digits, '-' and '_' from id so
// that it can be safely used to derive a file name.
func SanitizeID(id string) string {
	var b strings.Builder
	b.Grow(len(id))
	for _, r := range id {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
