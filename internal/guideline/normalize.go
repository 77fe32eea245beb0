// Package guideline flattens a free-form style guide document into style directives
// and a tone catalogue.
package guideline

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/jonathan/tonecycle/internal/types"
	"github.com/jonathan/tonecycle/internal/validation"
)

// MaxScenarioHints caps how many triggered scenarios are included
const MaxScenarioHints = 3

// descriptorWords describe the brand voice itself and are never treated as banned
var descriptorWords = map[string]bool{
	"clear": true, "concise": true, "confident": true, "friendly": true,
	"helpful": true, "human": true, "simple": true, "warm": true,
	"direct": true, "playful": true, "empathetic": true,
}

var (
	alternativeSplitter = regexp.MustCompile(`(?i)\s*(?:,|/|;|\bor\b)\s*`)
	rangeHintPattern    = regexp.MustCompile(`(\d+)\s*(?:-|–|—|to)\s*(\d+)`)
)

// Normalize builds style directives and the tone catalogue from a guide document.
// It never fails: malformed or missing guide data degrades to empty directives and
// the default catalogue.
func Normalize(doc any, sourceText string) (*types.StyleDirectives, []types.ToneConfig) {
	obj, ok := asObject(doc)
	if !ok {
		obj = map[string]any{}
	}

	required := collectRequiredGroups(obj)

	directives := &types.StyleDirectives{
		Overview:             firstString(obj, "overview", "summary"),
		Requirements:         dedupeStrings(allStrings(obj, "requirements", "rules", "directives")),
		RequiredPhraseGroups: required,
		BannedTerms:          collectBannedTerms(obj, required),
		LengthPreference:     lengthPreference(obj["length"]),
		ScenarioHints:        scenarioHints(obj["scenarios"], sourceText),
		SentenceHints:        dedupeStrings(allStrings(obj, "sentenceGuidance", "sentence_guidance", "sentences")),
		PronounConsistency:   strings.TrimSpace(sourceText) != "" && !validation.ContainsPersonalPronoun(sourceText),
	}

	return directives, BuildCatalogue(obj)
}

// collectBannedTerms merges every banned section into one lowercase set. Terms that
// are also required, and brand-voice descriptor words, are dropped.
func collectBannedTerms(obj map[string]any, required []types.PhraseGroup) []string {
	requiredSet := make(map[string]bool)
	for _, g := range required {
		for _, p := range g.Phrases {
			requiredSet[strings.ToLower(p)] = true
		}
	}

	candidates := allStrings(obj, "bannedTerms", "banned_terms", "avoid", "forbidden")
	candidates = append(candidates, asStrings(nested(obj, "vocabulary", "avoid"))...)
	candidates = append(candidates, asStrings(nested(obj, "vocabulary", "banned"))...)
	candidates = append(candidates, terminologyByStatus(obj, "banned", "avoid")...)

	set := make(map[string]bool)
	for _, term := range candidates {
		term = strings.ToLower(strings.TrimSpace(term))
		if term == "" || requiredSet[term] || descriptorWords[term] {
			continue
		}
		set[term] = true
	}

	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for term := range set {
		out = append(out, term)
	}
	sort.Strings(out)
	return out
}

// terminologyByStatus reads [{term, status}] entries
func terminologyByStatus(obj map[string]any, statuses ...string) []string {
	entries, ok := obj["terminology"].([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, e := range entries {
		entry, ok := asObject(e)
		if !ok {
			continue
		}
		status := strings.ToLower(firstString(entry, "status"))
		for _, want := range statuses {
			if status == want {
				if term := firstString(entry, "term", "phrase"); term != "" {
					out = append(out, term)
				}
				break
			}
		}
	}
	return out
}

// collectRequiredGroups normalizes every accepted shape into {label, phrases} groups
func collectRequiredGroups(obj map[string]any) []types.PhraseGroup {
	var groups []types.PhraseGroup
	for _, key := range []string{"requiredPhrases", "required_phrases"} {
		groups = append(groups, phraseGroups(obj[key])...)
	}
	groups = append(groups, phraseGroups(nested(obj, "vocabulary", "required"))...)
	for _, term := range terminologyByStatus(obj, "required") {
		groups = append(groups, types.PhraseGroup{Label: term, Phrases: []string{term}})
	}
	return dedupeGroups(groups)
}

func phraseGroups(v any) []types.PhraseGroup {
	switch val := v.(type) {
	case nil:
		return nil
	case string:
		if g, ok := groupFromString(val); ok {
			return []types.PhraseGroup{g}
		}
		return nil
	case []any:
		var out []types.PhraseGroup
		for _, item := range val {
			if g, ok := groupFromEntry(item); ok {
				out = append(out, g)
			}
		}
		return out
	}

	obj, ok := asObject(v)
	if !ok {
		return nil
	}
	if g, ok := groupFromObject(obj); ok {
		return []types.PhraseGroup{g}
	}
	// label -> alternatives map
	labels := make([]string, 0, len(obj))
	for label := range obj {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	var out []types.PhraseGroup
	for _, label := range labels {
		phrases := splitPhrases(asStrings(obj[label]))
		if len(phrases) > 0 {
			out = append(out, types.PhraseGroup{Label: label, Phrases: phrases})
		}
	}
	return out
}

// groupFromEntry handles one element of a required-phrases array
func groupFromEntry(v any) (types.PhraseGroup, bool) {
	if s, ok := v.(string); ok {
		return groupFromString(s)
	}
	if arr, ok := v.([]any); ok {
		phrases := dedupeStrings(asStrings(arr))
		if len(phrases) == 0 {
			return types.PhraseGroup{}, false
		}
		return types.PhraseGroup{Label: strings.Join(phrases, " / "), Phrases: phrases}, true
	}
	if obj, ok := asObject(v); ok {
		return groupFromObject(obj)
	}
	return types.PhraseGroup{}, false
}

func groupFromString(s string) (types.PhraseGroup, bool) {
	s = strings.TrimSpace(s)
	phrases := splitPhrases([]string{s})
	if len(phrases) == 0 {
		return types.PhraseGroup{}, false
	}
	return types.PhraseGroup{Label: s, Phrases: phrases}, true
}

func groupFromObject(obj map[string]any) (types.PhraseGroup, bool) {
	var phrases []string
	for _, key := range []string{"phrases", "anyOf", "any_of", "alternatives", "options"} {
		if _, present := obj[key]; present {
			phrases = splitPhrases(asStrings(obj[key]))
			break
		}
	}
	if len(phrases) == 0 {
		return types.PhraseGroup{}, false
	}
	label := firstString(obj, "label", "name")
	if label == "" {
		label = strings.Join(phrases, " / ")
	}
	return types.PhraseGroup{Label: label, Phrases: phrases}, true
}

// splitPhrases splits single bare strings on , / ; and "or"; lists of several
// entries are already alternatives and are kept whole.
func splitPhrases(items []string) []string {
	if len(items) == 1 {
		items = alternativeSplitter.Split(items[0], -1)
	}
	return dedupeStrings(items)
}

func lengthPreference(v any) *types.LengthPreference {
	if s, ok := asString(v); ok {
		pref := &types.LengthPreference{Label: s}
		applyRangeHint(pref, s)
		return pref
	}
	obj, ok := asObject(v)
	if !ok {
		return nil
	}
	pref := &types.LengthPreference{
		Label:       firstString(obj, "label", "name"),
		MinChars:    firstInt(obj, "minChars", "min_chars", "min"),
		MaxChars:    firstInt(obj, "maxChars", "max_chars", "max"),
		RangeHint:   firstString(obj, "rangeHint", "range_hint", "range"),
		Structure:   firstString(obj, "structure"),
		Description: firstString(obj, "description"),
	}
	applyRangeHint(pref, pref.RangeHint)
	if pref.MinChars < 0 {
		pref.MinChars = 0
	}
	if pref.MaxChars < 0 {
		pref.MaxChars = 0
	}
	if pref.MaxChars > 0 && pref.MinChars > pref.MaxChars {
		pref.MinChars = 0
	}
	if *pref == (types.LengthPreference{}) {
		return nil
	}
	return pref
}

// applyRangeHint fills missing bounds from text such as "40-80 characters"
func applyRangeHint(pref *types.LengthPreference, hint string) {
	if pref.MinChars > 0 || pref.MaxChars > 0 {
		return
	}
	m := rangeHintPattern.FindStringSubmatch(hint)
	if m == nil {
		return
	}
	lo, errLo := strconv.Atoi(m[1])
	hi, errHi := strconv.Atoi(m[2])
	if errLo != nil || errHi != nil || lo > hi {
		return
	}
	pref.MinChars, pref.MaxChars = lo, hi
}

// scenarioHints returns the instructions of scenarios whose trigger keywords
// appear in the source text
func scenarioHints(v any, sourceText string) []string {
	entries, ok := v.([]any)
	if !ok || strings.TrimSpace(sourceText) == "" {
		return nil
	}
	lowerSource := strings.ToLower(sourceText)

	var hints []string
	for _, e := range entries {
		if len(hints) == MaxScenarioHints {
			break
		}
		entry, ok := asObject(e)
		if !ok {
			continue
		}
		instruction := firstString(entry, "instruction", "guidance", "hint")
		if instruction == "" {
			continue
		}
		triggers := splitPhrases(allStrings(entry, "triggers", "keywords"))
		for _, trigger := range triggers {
			if strings.Contains(lowerSource, strings.ToLower(trigger)) {
				hints = append(hints, instruction)
				break
			}
		}
	}
	return dedupeStrings(hints)
}

func dedupeStrings(items []string) []string {
	seen := make(map[string]bool)
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		key := strings.ToLower(item)
		if item == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, item)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func dedupeGroups(groups []types.PhraseGroup) []types.PhraseGroup {
	seen := make(map[string]bool)
	var out []types.PhraseGroup
	for _, g := range groups {
		key := strings.ToLower(strings.Join(g.Phrases, "\x00"))
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, g)
	}
	return out
}
