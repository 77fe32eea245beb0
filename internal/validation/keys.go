// Package validation checks generated variants against rules derived from a style guide.
package validation

import (
	"strings"
	"unicode"
)

// dashFolder maps typographic dashes to a plain hyphen before comparison
var dashFolder = strings.NewReplacer("—", "-", "–", "-", "‒", "-", "―", "-", "−", "-")

// ComparisonKey returns the normalized form of text used to detect near-duplicates.
// Dashes are folded, case is dropped and every run of non-alphanumeric characters
// becomes a single space.
func ComparisonKey(text string) string {
	return collapse(strings.ToLower(dashFolder.Replace(text)), ' ')
}

// NormalizeKey returns the identifier form of a tone key or label:
// lowercase with non-alphanumeric runs collapsed to an underscore.
func NormalizeKey(s string) string {
	return collapse(strings.ToLower(s), '_')
}

func collapse(s string, sep rune) string {
	var sb strings.Builder
	sb.Grow(len(s))
	pending := false
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pending && sb.Len() > 0 {
				sb.WriteRune(sep)
			}
			pending = false
			sb.WriteRune(r)
			continue
		}
		pending = true
	}
	return sb.String()
}
