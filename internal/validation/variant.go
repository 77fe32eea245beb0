package validation

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jonathan/tonecycle/internal/types"
)

// MaxSentences is the fixed policy cap on sentences per variant
const MaxSentences = 2

// RulesFromDirectives derives the per-call validation rules from style directives
func RulesFromDirectives(d *types.StyleDirectives) types.ValidationRules {
	rules := types.ValidationRules{MaxSentences: MaxSentences}
	if d == nil {
		return rules
	}
	rules.BannedTerms = d.BannedTerms
	rules.RequiredPhraseGroups = d.RequiredPhraseGroups
	rules.PronounConsistency = d.PronounConsistency
	if d.LengthPreference != nil {
		rules.MinChars = d.LengthPreference.MinChars
		rules.MaxChars = d.LengthPreference.MaxChars
	}
	return rules
}

// ValidateVariant checks text against rules. Issues are hard failures; soft issues
// are reported but do not make the variant invalid.
func ValidateVariant(text string, rules types.ValidationRules) types.ValidationResult {
	text = strings.TrimSpace(text)
	if text == "" {
		return types.ValidationResult{Issues: []string{"empty text"}}
	}

	var issues, soft []string

	maxSentences := rules.MaxSentences
	if maxSentences <= 0 {
		maxSentences = MaxSentences
	}
	if n := CountSentences(text); n > maxSentences {
		issues = append(issues, fmt.Sprintf("too many sentences (%d > %d)", n, maxSentences))
	}

	length := utf8.RuneCountInString(text)
	if rules.MaxChars > 0 && length > rules.MaxChars {
		issues = append(issues, fmt.Sprintf("too long (%d > %d characters)", length, rules.MaxChars))
	}
	if rules.MinChars > 0 && length < rules.MinChars {
		issues = append(issues, fmt.Sprintf("too short (%d < %d characters)", length, rules.MinChars))
	}

	for _, term := range FindBannedTerms(text, rules.BannedTerms) {
		issues = append(issues, fmt.Sprintf("contains banned term %q", term))
	}

	for _, label := range MissingPhraseGroups(text, rules.RequiredPhraseGroups) {
		issues = append(issues, fmt.Sprintf("missing required phrase (%s)", label))
	}

	if rules.PronounConsistency && ContainsPersonalPronoun(text) {
		soft = append(soft, "introduces first/second-person pronouns")
	}

	return types.ValidationResult{
		Valid:      len(issues) == 0,
		Issues:     issues,
		SoftIssues: soft,
	}
}

// CountSentences counts sentence-like segments. A period between two digits does not
// end a sentence, and runs of terminators count once.
func CountSentences(text string) int {
	runes := []rune(text)
	count := 0
	hasContent := false
	for i, r := range runes {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			hasContent = true
			continue
		}
		if !isTerminator(r) || !hasContent {
			continue
		}
		if r == '.' && i > 0 && i+1 < len(runes) && unicode.IsDigit(runes[i-1]) && unicode.IsDigit(runes[i+1]) {
			continue
		}
		count++
		hasContent = false
	}
	if hasContent {
		count++
	}
	return count
}

func isTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?' || r == '…'
}
