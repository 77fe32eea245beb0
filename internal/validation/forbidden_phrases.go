package validation

import (
	"strings"

	"github.com/jonathan/tonecycle/internal/types"
)

var apostropheFolder = strings.NewReplacer("’", "'", "‘", "'", "ʼ", "'")

// foldForMatch lowercases text and folds typographic apostrophes to ASCII
func foldForMatch(text string) string {
	return strings.ToLower(apostropheFolder.Replace(text))
}

// FindBannedTerms returns the banned terms present in text as case-insensitive substrings.
// Each term is reported once, in the order of terms.
func FindBannedTerms(text string, terms []string) []string {
	if len(terms) == 0 || text == "" {
		return nil
	}

	normalizedText := foldForMatch(text)

	var found []string
	seen := make(map[string]bool)
	for _, term := range terms {
		normalizedTerm := foldForMatch(strings.TrimSpace(term))
		if normalizedTerm == "" || seen[normalizedTerm] {
			continue
		}
		if strings.Contains(normalizedText, normalizedTerm) {
			found = append(found, term)
			seen[normalizedTerm] = true
		}
	}
	return found
}

// MissingPhraseGroups returns the labels of groups with no phrase present in text
func MissingPhraseGroups(text string, groups []types.PhraseGroup) []string {
	lower := foldForMatch(text)
	var missing []string
	for _, g := range groups {
		satisfied := false
		for _, p := range g.Phrases {
			p = foldForMatch(strings.TrimSpace(p))
			if p != "" && strings.Contains(lower, p) {
				satisfied = true
				break
			}
		}
		if !satisfied && len(g.Phrases) > 0 {
			missing = append(missing, g.Label)
		}
	}
	return missing
}
