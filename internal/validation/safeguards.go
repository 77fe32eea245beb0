package validation

import (
	"regexp"

	"github.com/rs/zerolog"
)

// injectionPatterns catch obvious attempts to override the prompt from inside the
// copy or the guide. Matches are logged only; the text is still processed.
var injectionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)ignore\s+(all\s+)?(previous|prior|above)\s+instructions?`),
	regexp.MustCompile(`(?i)disregard\s+(all\s+)?(previous|prior|above)`),
	regexp.MustCompile(`(?i)forget\s+(all\s+)?(previous|prior|everything)`),
	regexp.MustCompile(`(?i)\byou\s+are\s+now\s+(a|an)\b`),
	regexp.MustCompile(`(?i)new\s+instructions?:`),
	regexp.MustCompile(`(?i)system\s+prompt`),
}

// InjectionCheck is the result of scanning one text
type InjectionCheck struct {
	Safe    bool
	Matches []string
}

// CheckInjection scans text for instruction-override phrasing
func CheckInjection(text string) InjectionCheck {
	var matches []string
	for _, p := range injectionPatterns {
		if m := p.FindString(text); m != "" {
			matches = append(matches, m)
		}
	}
	return InjectionCheck{Safe: len(matches) == 0, Matches: matches}
}

// WarnOnInjection logs a warning when text looks like an injection attempt and
// reports whether it did
func WarnOnInjection(log zerolog.Logger, source, text string) bool {
	check := CheckInjection(text)
	if check.Safe {
		return false
	}
	log.Warn().
		Str("source", source).
		Strs("matches", check.Matches).
		Msg("possible prompt injection in user-supplied text")
	return true
}
