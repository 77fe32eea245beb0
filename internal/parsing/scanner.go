package parsing

import "strings"

// The scanners walk bytes: the delimiters they look for are ASCII, and ASCII bytes
// never occur inside a multi-byte UTF-8 sequence.

const variantsKey = `"variants"`

// objectCandidates returns every top-level brace-balanced object in s. Braces inside
// quoted strings are ignored. An unterminated trailing object is dropped.
func objectCandidates(s string) []string {
	var (
		candidates []string
		depth      int
		start      = -1
		inString   bool
		escape     bool
	)

	for i := 0; i < len(s); i++ {
		b := s[i]
		if escape {
			escape = false
			continue
		}
		if inString {
			switch b {
			case '\\':
				escape = true
			case '"':
				inString = false
			}
			continue
		}

		switch b {
		case '"':
			inString = true
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth == 0 {
				continue
			}
			depth--
			if depth == 0 && start >= 0 {
				candidates = append(candidates, s[start:i+1])
				start = -1
			}
		}
	}
	return candidates
}

// enclosingVariantsObject returns the smallest balanced object literal whose own
// keys include "variants". ok is false when the key is absent or its object never
// closes.
func enclosingVariantsObject(s string) (string, bool) {
	var (
		opens    []int
		target   = -1
		inString bool
		escape   bool
	)

	for i := 0; i < len(s); i++ {
		b := s[i]
		if escape {
			escape = false
			continue
		}
		if inString {
			switch b {
			case '\\':
				escape = true
			case '"':
				inString = false
			}
			continue
		}

		switch b {
		case '"':
			if target < 0 && len(opens) > 0 && strings.HasPrefix(s[i:], variantsKey) && followedByColon(s[i+len(variantsKey):]) {
				target = len(opens)
			}
			inString = true
		case '{':
			opens = append(opens, i)
		case '}':
			if len(opens) == 0 {
				continue
			}
			start := opens[len(opens)-1]
			opens = opens[:len(opens)-1]
			if target >= 0 && len(opens) == target-1 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

func followedByColon(rest string) bool {
	return strings.HasPrefix(strings.TrimLeft(rest, " \t\r\n"), ":")
}

// escapeRawNewlines escapes line breaks and tabs that appear unescaped inside string
// literals, which strict JSON decoders reject.
func escapeRawNewlines(s string) string {
	var (
		sb       strings.Builder
		inString bool
		escape   bool
	)
	sb.Grow(len(s))

	for i := 0; i < len(s); i++ {
		b := s[i]
		if escape {
			escape = false
			sb.WriteByte(b)
			continue
		}
		if !inString {
			if b == '"' {
				inString = true
			}
			sb.WriteByte(b)
			continue
		}

		switch b {
		case '\\':
			escape = true
			sb.WriteByte(b)
		case '"':
			inString = false
			sb.WriteByte(b)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteByte(b)
		}
	}
	return sb.String()
}
