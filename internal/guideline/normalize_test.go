package guideline

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/jonathan/tonecycle/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDoc(t *testing.T, raw string) map[string]any {
	t.Helper()
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	return doc
}

const walletGuide = `{
	"version": "2024.3",
	"overview": "Fuel wallet copy for drivers on the go.",
	"rules": ["Use sentence case", "Lead with the action"],
	"bannedTerms": ["blocked", "Failed"],
	"vocabulary": {"avoid": ["oops", "friendly"], "required": ["top up"]},
	"avoid": "top up",
	"requiredPhrases": [
		{"label": "reassurance", "phrases": ["you're good to go", "all set"]}
	],
	"length": {"label": "short", "minChars": 10, "maxChars": 80, "structure": "one line"},
	"scenarios": [
		{"name": "payments", "triggers": ["wallet", "card"], "instruction": "Mention that balances update instantly."},
		{"name": "errors", "triggers": ["error"], "instruction": "Never blame the driver."}
	],
	"sentenceGuidance": "Keep sentences under 12 words.",
	"tones": [
		{"key": "warm", "label": "Warm", "notes": ["Talk like a neighbour"]},
		"Bold",
		{"name": "Calm Focus", "cues": "Slow down"}
	],
	"preferredTone": "calm focus"
}`

func TestNormalize_FullGuide(t *testing.T) {
	doc := mustDoc(t, walletGuide)

	directives, tones := Normalize(doc, "Top up your wallet to keep fuelling.")

	assert.Equal(t, "Fuel wallet copy for drivers on the go.", directives.Overview)
	assert.Equal(t, []string{"Use sentence case", "Lead with the action"}, directives.Requirements)
	// "top up" is required elsewhere and "friendly" is a voice descriptor
	assert.Equal(t, []string{"blocked", "failed", "oops"}, directives.BannedTerms)
	assert.Equal(t, []types.PhraseGroup{
		{Label: "reassurance", Phrases: []string{"you're good to go", "all set"}},
		{Label: "top up", Phrases: []string{"top up"}},
	}, directives.RequiredPhraseGroups)
	require.NotNil(t, directives.LengthPreference)
	assert.Equal(t, 80, directives.LengthPreference.MaxChars)
	assert.Equal(t, 10, directives.LengthPreference.MinChars)
	assert.Equal(t, "one line", directives.LengthPreference.Structure)
	assert.Equal(t, []string{"Mention that balances update instantly."}, directives.ScenarioHints)
	assert.Equal(t, []string{"Keep sentences under 12 words."}, directives.SentenceHints)
	assert.False(t, directives.PronounConsistency, "source already uses 'your'")

	require.Len(t, tones, MaxActiveTones)
	assert.Equal(t, "calm_focus", tones[0].Key)
	assert.Equal(t, []string{"Slow down"}, tones[0].Notes)
	assert.Equal(t, "warm", tones[1].Key)
	assert.Equal(t, "bold", tones[2].Key)
	assert.Equal(t, "Bold", tones[2].Label)
	assert.Equal(t, "Clear", tones[3].Label, "padding starts with the first default")
}

func TestNormalize_Idempotent(t *testing.T) {
	doc := mustDoc(t, walletGuide)

	d1, t1 := Normalize(doc, "Card declined, try again")
	d2, t2 := Normalize(doc, "Card declined, try again")

	if diff := cmp.Diff(d1, d2); diff != "" {
		t.Errorf("directives differ (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(t1, t2); diff != "" {
		t.Errorf("catalogue differs (-first +second):\n%s", diff)
	}
}

func TestNormalize_MalformedGuideDegrades(t *testing.T) {
	tests := []struct {
		name string
		doc  any
	}{
		{"nil", nil},
		{"string", "not a guide"},
		{"array", []any{"a", "b"}},
		{"wrong field shapes", map[string]any{
			"overview":        42.5,
			"rules":           map[string]any{"x": 1},
			"bannedTerms":     true,
			"requiredPhrases": 7.0,
			"length":          []any{1, 2},
			"scenarios":       "wallet",
			"tones":           12.0,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			directives, tones := Normalize(tt.doc, "Save changes")
			require.NotNil(t, directives)
			assert.Empty(t, directives.BannedTerms)
			assert.Empty(t, directives.RequiredPhraseGroups)
			assert.Nil(t, directives.LengthPreference)
			assert.Empty(t, directives.ScenarioHints)
			assert.Equal(t, DefaultTones(), tones)
		})
	}
}

func TestNormalize_RequiredPhraseShapes(t *testing.T) {
	doc := mustDoc(t, `{
		"required_phrases": [
			"all set, good to go",
			"tap here / press here",
			"continue; proceed",
			"ready or set",
			["alpha", "beta"],
			{"name": "cta", "anyOf": "Start now"},
			{"phrases": []}
		]
	}`)

	directives, _ := Normalize(doc, "")

	assert.Equal(t, []types.PhraseGroup{
		{Label: "all set, good to go", Phrases: []string{"all set", "good to go"}},
		{Label: "tap here / press here", Phrases: []string{"tap here", "press here"}},
		{Label: "continue; proceed", Phrases: []string{"continue", "proceed"}},
		{Label: "ready or set", Phrases: []string{"ready", "set"}},
		{Label: "alpha / beta", Phrases: []string{"alpha", "beta"}},
		{Label: "cta", Phrases: []string{"Start now"}},
	}, directives.RequiredPhraseGroups)
}

func TestNormalize_RequiredWinsOverBanned(t *testing.T) {
	doc := mustDoc(t, `{
		"banned_terms": ["Sorry", "all set"],
		"terminology": [
			{"term": "all set", "status": "required"},
			{"term": "Unfortunately", "status": "banned"}
		]
	}`)

	directives, _ := Normalize(doc, "")
	assert.Equal(t, []string{"sorry", "unfortunately"}, directives.BannedTerms)
}

func TestNormalize_PronounConsistency(t *testing.T) {
	d, _ := Normalize(nil, "Wallet balance updated")
	assert.True(t, d.PronounConsistency)

	d, _ = Normalize(nil, "Your balance updated")
	assert.False(t, d.PronounConsistency)

	d, _ = Normalize(nil, "")
	assert.False(t, d.PronounConsistency)
}

func TestNormalize_ScenarioCap(t *testing.T) {
	doc := mustDoc(t, `{"scenarios": [
		{"triggers": "pay", "instruction": "one"},
		{"keywords": ["PAY"], "guidance": "two"},
		{"triggers": ["pay"], "instruction": "three"},
		{"triggers": ["pay"], "instruction": "four"},
		{"triggers": ["refund"], "instruction": "never"}
	]}`)

	d, _ := Normalize(doc, "Pay now")
	assert.Equal(t, []string{"one", "two", "three"}, d.ScenarioHints)
}

func TestNormalize_LengthShapes(t *testing.T) {
	d, _ := Normalize(map[string]any{"length": "Medium, 40-120 characters"}, "")
	require.NotNil(t, d.LengthPreference)
	assert.Equal(t, 40, d.LengthPreference.MinChars)
	assert.Equal(t, 120, d.LengthPreference.MaxChars)

	d, _ = Normalize(map[string]any{"length": map[string]any{"rangeHint": "20 to 60"}}, "")
	require.NotNil(t, d.LengthPreference)
	assert.Equal(t, 20, d.LengthPreference.MinChars)
	assert.Equal(t, 60, d.LengthPreference.MaxChars)

	d, _ = Normalize(map[string]any{"length": map[string]any{"min": 90.0, "max": 30.0}}, "")
	require.NotNil(t, d.LengthPreference)
	assert.Zero(t, d.LengthPreference.MinChars)
	assert.Equal(t, 30, d.LengthPreference.MaxChars)
}
