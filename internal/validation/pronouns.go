package validation

import (
	"strings"
	"unicode"
)

var personalPronouns = map[string]bool{
	"i": true, "me": true, "my": true, "mine": true, "myself": true,
	"we": true, "us": true, "our": true, "ours": true, "ourselves": true,
	"you": true, "your": true, "yours": true, "yourself": true, "yourselves": true,
}

// ContainsPersonalPronoun reports whether text uses a first- or second-person pronoun.
// Contractions count by their stem ("you're" -> "you").
func ContainsPersonalPronoun(text string) bool {
	text = strings.ReplaceAll(text, "’", "'")
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	})
	for _, w := range words {
		if idx := strings.IndexByte(w, '\''); idx >= 0 {
			w = w[:idx]
		}
		if personalPronouns[w] {
			return true
		}
	}
	return false
}
