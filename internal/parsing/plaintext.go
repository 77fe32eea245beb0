package parsing

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/tonecycle/internal/types"
	"github.com/jonathan/tonecycle/internal/validation"
)

// Plaintext lines shorter than this are labels or noise, not copy
const (
	MinPlaintextRunes = 8
	MaxPlaintextRunes = 600
)

var (
	numberedMarker = regexp.MustCompile(`^\s*(?:\d+[.):]|[-*•])\s+`)
	emphasis       = regexp.MustCompile("[*_`#]+")
	wrappingQuotes = regexp.MustCompile(`^["“”']+|["“”']+$`)
)

// PlaintextVariants treats text as prose: segments are separated by blank lines or
// numbered/bulleted markers. Instruction echoes and commentary are dropped.
func PlaintextVariants(text string) []types.ModelVariant {
	var out []types.ModelVariant
	for _, segment := range segments(text) {
		if validation.IsCommentary(segment) || validation.IsTemplateEcho(segment) {
			continue
		}
		line := cleanLine(segment)
		if !usableLine(line) {
			continue
		}
		out = append(out, types.ModelVariant{Text: line})
	}
	return out
}

func segments(text string) []string {
	var (
		out     []string
		current []string
	)
	flush := func() {
		if len(current) > 0 {
			out = append(out, strings.Join(current, " "))
			current = nil
		}
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case line == "":
			flush()
		case numberedMarker.MatchString(line):
			flush()
			current = append(current, numberedMarker.ReplaceAllString(line, ""))
		default:
			current = append(current, line)
		}
	}
	flush()
	return out
}

func cleanLine(line string) string {
	line = emphasis.ReplaceAllString(line, "")
	line = numberedMarker.ReplaceAllString(line, "")
	line = strings.TrimSpace(line)
	line = wrappingQuotes.ReplaceAllString(line, "")
	return strings.Join(strings.Fields(line), " ")
}

func usableLine(line string) bool {
	n := utf8.RuneCountInString(line)
	switch {
	case n < MinPlaintextRunes || n > MaxPlaintextRunes:
		return false
	case !strings.ContainsAny(line, " \t"):
		return false
	case strings.HasSuffix(line, ":"):
		// preface such as "Here are three options:"
		return false
	case strings.HasPrefix(line, "{") || strings.HasPrefix(line, "[") || strings.Contains(line, variantsKey):
		return false
	case validation.IsCommentary(line) || validation.IsTemplateEcho(line):
		return false
	}
	return true
}
