// Package parsing recovers variants from the free-form reply of the text-generation
// service. Every strategy is a pure function over strings.
package parsing

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/tonecycle/internal/schemas"
	"github.com/jonathan/tonecycle/internal/types"
)

// Kind tags how the variants were recovered
type Kind string

const (
	KindParsed        Kind = "parsed"
	KindFragments     Kind = "fragments"
	KindPlaintext     Kind = "plaintext"
	KindUnrecoverable Kind = "unrecoverable"
)

// Strategy labels, in the order they are tried
const (
	StageVariantsObject = "variants-object"
	StageWholeText      = "whole-text"
	StageOuterBraces    = "outer-braces"
	StageFragments      = "fragments"
	StagePlaintext      = "plaintext"
	StageEnvelopeSchema = "envelope-schema"
)

// MaxSnippetBytes bounds the offending text kept in a diagnostic
const MaxSnippetBytes = 160

// Diagnostic records one failed step. It is for logs only.
type Diagnostic struct {
	Stage   string `json:"stage"`
	Message string `json:"message"`
	Snippet string `json:"snippet"`
}

// Result is the tagged outcome of Parse
type Result struct {
	Kind        Kind
	Strategy    string
	Variants    []types.ModelVariant
	Diagnostics []Diagnostic
}

var (
	openingFence = regexp.MustCompile("^```[A-Za-z0-9_-]*[ \t]*\r?\n?")
	prefaceWord  = regexp.MustCompile(`(?i)^(?:json|response)\s*:?\s*`)
)

// Parse runs the recovery strategies in order and stops at the first that yields a
// variant with non-empty text. It never fails; when nothing can be recovered the
// cleaned reply becomes a single variant.
func Parse(raw string) Result {
	var diags []Diagnostic
	cleaned := Clean(raw)

	if candidate, ok := enclosingVariantsObject(cleaned); ok {
		if res, ok := tryStructured(StageVariantsObject, candidate, &diags); ok {
			return res
		}
	} else {
		diags = append(diags, diagnostic(StageVariantsObject, "no balanced object with a variants key", cleaned))
	}

	if res, ok := tryStructured(StageWholeText, cleaned, &diags); ok {
		return res
	}

	if first, last := strings.Index(cleaned, "{"), strings.LastIndex(cleaned, "}"); first >= 0 && last > first {
		if res, ok := tryStructured(StageOuterBraces, cleaned[first:last+1], &diags); ok {
			return res
		}
	} else {
		diags = append(diags, diagnostic(StageOuterBraces, "no brace pair", cleaned))
	}

	if variants := fragmentVariants(cleaned, &diags); len(variants) > 0 {
		return Result{Kind: KindFragments, Strategy: StageFragments, Variants: variants, Diagnostics: diags}
	}

	if variants := PlaintextVariants(cleaned); len(variants) > 0 {
		return Result{Kind: KindPlaintext, Strategy: StagePlaintext, Variants: variants, Diagnostics: diags}
	}
	diags = append(diags, diagnostic(StagePlaintext, "no usable lines", cleaned))

	res := Result{Kind: KindUnrecoverable, Diagnostics: diags}
	if text := strings.TrimSpace(cleaned); text != "" {
		res.Variants = []types.ModelVariant{{Text: text}}
	}
	return res
}

// Clean strips a code fence and a leading "json"/"response" preface when what
// follows looks like JSON
func Clean(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		s = openingFence.ReplaceAllString(s, "")
		s = strings.TrimSpace(s)
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = strings.TrimSpace(s[:idx])
		}
	}

	if loc := prefaceWord.FindStringIndex(s); loc != nil {
		rest := s[loc[1]:]
		if strings.HasPrefix(rest, "{") || strings.HasPrefix(rest, "[") {
			s = rest
		}
	}
	return s
}

// tryStructured decodes candidate, retrying once with raw line breaks escaped
func tryStructured(stage, candidate string, diags *[]Diagnostic) (Result, bool) {
	variants, payload, err := decodeWithRetry(stage, candidate)
	if err != nil {
		*diags = append(*diags, diagnostic(stage, err.Error(), candidate))
		return Result{}, false
	}

	if err := schemas.CheckEnvelope(payload); err != nil {
		*diags = append(*diags, diagnostic(StageEnvelopeSchema, flatten(err.Error()), payload))
	}
	return Result{Kind: KindParsed, Strategy: stage, Variants: variants, Diagnostics: *diags}, true
}

func decodeWithRetry(stage, candidate string) ([]types.ModelVariant, string, error) {
	variants, err := decodeVariants(candidate)
	if err == nil {
		return variants, candidate, nil
	}

	var syntaxErr *json.SyntaxError
	if !errors.As(err, &syntaxErr) || !strings.ContainsAny(candidate, "\n\r\t") {
		return nil, "", &ParseError{Stage: stage, Message: "decode failed", Cause: err}
	}

	escaped := escapeRawNewlines(candidate)
	variants, retryErr := decodeVariants(escaped)
	if retryErr != nil {
		return nil, "", &ParseError{Stage: stage, Message: "decode failed after escaping line breaks", Cause: retryErr}
	}
	return variants, escaped, nil
}

// fragmentVariants parses each balanced object following the "variants" marker on
// its own, keeping those that expose usable text
func fragmentVariants(s string, diags *[]Diagnostic) []types.ModelVariant {
	idx := strings.Index(s, variantsKey)
	if idx < 0 {
		*diags = append(*diags, diagnostic(StageFragments, "no variants marker", s))
		return nil
	}

	var out []types.ModelVariant
	for _, fragment := range objectCandidates(s[idx+len(variantsKey):]) {
		var entry any
		err := json.Unmarshal([]byte(fragment), &entry)
		if err != nil {
			err = json.Unmarshal([]byte(escapeRawNewlines(fragment)), &entry)
		}
		if err != nil {
			*diags = append(*diags, diagnostic(StageFragments, err.Error(), fragment))
			continue
		}
		if v, ok := variantFromEntry(entry); ok {
			out = append(out, v)
		}
	}
	return out
}

func diagnostic(stage, message, text string) Diagnostic {
	return Diagnostic{Stage: stage, Message: message, Snippet: Snippet(text)}
}

// Snippet truncates text to MaxSnippetBytes without splitting a rune
func Snippet(text string) string {
	text = strings.TrimSpace(text)
	if len(text) <= MaxSnippetBytes {
		return text
	}
	cut := MaxSnippetBytes
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}

func flatten(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
