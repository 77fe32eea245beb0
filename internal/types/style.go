// Package types provides type definitions for structured data used throughout the tonecycle system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// LengthPreference describes the length rule a style guide asks for
type LengthPreference struct {
	Label       string `json:"label,omitempty"`
	MinChars    int    `json:"min_chars,omitempty"`
	MaxChars    int    `json:"max_chars,omitempty"`
	RangeHint   string `json:"range_hint,omitempty"`
	Structure   string `json:"structure,omitempty"`
	Description string `json:"description,omitempty"`
}

// PhraseGroup is a set of alternatives; the group is satisfied when any phrase is present
type PhraseGroup struct {
	Label   string   `json:"label"`
	Phrases []string `json:"phrases"`
}

// StyleDirectives is the machine-usable form of a style guide.
// It is built fresh for every call and never mutated afterwards.
type StyleDirectives struct {
	Overview             string            `json:"overview,omitempty"`
	Requirements         []string          `json:"requirements,omitempty"`
	BannedTerms          []string          `json:"banned_terms,omitempty"` // lowercase, sorted, unique
	RequiredPhraseGroups []PhraseGroup     `json:"required_phrase_groups,omitempty"`
	LengthPreference     *LengthPreference `json:"length_preference,omitempty"`
	ScenarioHints        []string          `json:"scenario_hints,omitempty"`
	SentenceHints        []string          `json:"sentence_hints,omitempty"`
	PronounConsistency   bool              `json:"pronoun_consistency"`
}

// ValidationRules are the per-call checks applied to every generated variant
type ValidationRules struct {
	BannedTerms          []string
	RequiredPhraseGroups []PhraseGroup
	MaxSentences         int
	MinChars             int // 0 means unbounded
	MaxChars             int // 0 means unbounded
	PronounConsistency   bool
}
