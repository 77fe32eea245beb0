// Package ingestion turns a raw text selection, plain or HTML, into clean text for rewriting.
package ingestion

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

var (
	innerSpace  = regexp.MustCompile(`[ \t\f\v\x{00A0}\x{2007}\x{202F}]+`)
	extraBlanks = regexp.MustCompile(`\n{3,}`)
	zeroWidth   = strings.NewReplacer("\u200b", "", "\u200c", "", "\u200d", "", "\ufeff", "")
)

// CleanText normalizes a host text selection. Line endings become LF, runs of
// spaces inside a line collapse to one, zero-width characters are dropped and at
// most one blank line separates paragraphs.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	content = zeroWidth.Replace(content)

	lines := strings.Split(content, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		cleaned = append(cleaned, cleanLine(line))
	}

	result := strings.Join(cleaned, "\n")
	result = extraBlanks.ReplaceAllString(result, "\n\n")
	return strings.TrimSpace(result)
}

// cleanLine collapses inner whitespace; bullets keep their marker
func cleanLine(line string) string {
	trimmed := strings.TrimSpace(innerSpace.ReplaceAllString(line, " "))
	if trimmed == "" {
		return ""
	}
	if isBulletLine(trimmed) {
		return "- " + strings.TrimSpace(trimmed[strings.IndexByte(trimmed, ' ')+1:])
	}
	return trimmed
}

func isBulletLine(line string) bool {
	return strings.HasPrefix(line, "- ") || strings.HasPrefix(line, "* ") ||
		strings.HasPrefix(line, "• ") || strings.HasPrefix(line, "· ")
}

// Ingest cleans a raw selection, flattening it first when it is HTML
func Ingest(raw string) (string, *Metadata, error) {
	format := FormatPlain
	text := raw
	if LooksLikeHTML(raw) {
		flat, err := FlattenHTML(raw)
		if err != nil {
			return "", nil, err
		}
		format = FormatHTML
		text = flat
	}
	cleaned := CleanText(text)
	return cleaned, NewMetadata(cleaned, format), nil
}

// IngestFromFile reads a selection from disk and cleans it
func IngestFromFile(path string) (string, *Metadata, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil, fmt.Errorf("file not found: %w", err)
		}
		return "", nil, fmt.Errorf("failed to read file: %w", err)
	}
	return Ingest(string(content))
}
