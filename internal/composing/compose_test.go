package composing

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/jonathan/tonecycle/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tasks(labels ...string) []types.ToneTask {
	out := make([]types.ToneTask, len(labels))
	for i, l := range labels {
		out[i] = types.ToneTask{Tone: types.ToneConfig{
			Key:   strings.ToLower(l),
			Label: l,
			Notes: []string{"note for " + l},
		}}
	}
	return out
}

func directives() *types.StyleDirectives {
	return &types.StyleDirectives{
		Overview:     "Fuel wallet copy.",
		Requirements: []string{"Sentence case"},
		BannedTerms:  []string{"blocked"},
		RequiredPhraseGroups: []types.PhraseGroup{
			{Label: "reassurance", Phrases: []string{"you're good to go", "all set"}},
		},
		LengthPreference: &types.LengthPreference{Label: "short", MaxChars: 80},
		ScenarioHints:    []string{"Mention instant balance updates."},
		SentenceHints:    []string{"Keep it punchy."},
	}
}

func TestCompose_FullFormLayout(t *testing.T) {
	p := Compose(tasks("Friendly", "Urgent"), directives(), "Top up your wallet to keep fuelling.", types.ModeRewrite)

	assert.Equal(t, FormFull, p.Form)
	require.Len(t, p.Sections, 2)

	text := p.Text
	first := strings.Index(text, "Task 1: Friendly")
	second := strings.Index(text, "Task 2: Urgent")
	reminder := strings.Index(text, "UNIQUENESS REMINDER")
	src := strings.Index(text, "SOURCE COPY:\nTop up your wallet to keep fuelling.")

	assert.True(t, first >= 0 && first < second && second < reminder && reminder < src, "sections out of order:\n%s", text)
	assert.True(t, strings.HasSuffix(text, "Top up your wallet to keep fuelling."))
	assert.Equal(t, 1, strings.Count(text, "UNIQUENESS REMINDER"))

	assert.Contains(t, text, "tone_key: friendly")
	assert.Contains(t, text, "length_bucket: short")
	assert.Contains(t, text, "note for Friendly")
	assert.Contains(t, text, "Never use these terms: blocked")
	assert.Contains(t, text, "- reassurance: you're good to go | all set")
	assert.Contains(t, text, "Brand voice: Fuel wallet copy.")
	assert.Contains(t, text, "Mention instant balance updates.")
}

func TestCompose_ComposeModeLabelsBrief(t *testing.T) {
	p := Compose(tasks("Calm"), nil, "Announce the new card feature", types.ModeCompose)
	assert.Contains(t, p.Text, "BRIEF:\nAnnounce the new card feature")
	assert.NotContains(t, p.Text, "SOURCE COPY:")
}

func TestCompose_Deterministic(t *testing.T) {
	a := Compose(tasks("Friendly", "Urgent", "Calm"), directives(), "Save changes", types.ModeRewrite)
	b := Compose(tasks("Friendly", "Urgent", "Calm"), directives(), "Save changes", types.ModeRewrite)
	assert.Equal(t, a, b)
}

func TestCompose_FallsBackToCoreForm(t *testing.T) {
	d := directives()
	d.Overview = strings.Repeat("long overview ", 80)
	ts := tasks("Friendly", "Urgent")

	full := NewComposer(100000).Compose(ts, d, "Save changes", types.ModeRewrite)
	require.Equal(t, FormFull, full.Form)

	c := NewComposer(utf8.RuneCountInString(full.Text) - 1)
	p := c.Compose(ts, d, "Save changes", types.ModeRewrite)

	assert.Equal(t, FormCore, p.Form)
	assert.NotContains(t, p.Text, "long overview")
	assert.NotContains(t, p.Text, "note for Friendly")
	// constraints the validator enforces survive
	assert.Contains(t, p.Text, "blocked")
	assert.Contains(t, p.Text, "all set")
	assert.LessOrEqual(t, utf8.RuneCountInString(p.Text), c.Budget())
}

func TestCompose_TruncatesInstructionKeepsSource(t *testing.T) {
	source := "Top up your wallet to keep fuelling."
	c := NewComposer(200)
	p := c.Compose(tasks("Friendly", "Urgent", "Calm"), directives(), source, types.ModeRewrite)

	assert.Equal(t, FormTruncated, p.Form)
	assert.LessOrEqual(t, utf8.RuneCountInString(p.Text), 200)
	assert.True(t, strings.HasSuffix(p.Text, "SOURCE COPY:\n"+source))
}

func TestCompose_TruncatesOversizedSource(t *testing.T) {
	source := strings.Repeat("é", 500)
	c := NewComposer(100)
	p := c.Compose(tasks("Friendly"), nil, source, types.ModeRewrite)

	assert.Equal(t, FormTruncated, p.Form)
	assert.Equal(t, 100, utf8.RuneCountInString(p.Text))
	assert.True(t, utf8.ValidString(p.Text))
	assert.True(t, strings.HasPrefix(p.Text, "SOURCE COPY:"))
}

func TestCompose_DefaultBudget(t *testing.T) {
	assert.Equal(t, TokenBudget*CharsPerToken, NewComposer(0).Budget())
}

func TestEstimateTokens(t *testing.T) {
	assert.Equal(t, 0, EstimateTokens(""))
	assert.Equal(t, 1, EstimateTokens("abc"))
	assert.Equal(t, 1, EstimateTokens("abcd"))
	assert.Equal(t, 2, EstimateTokens("abcde"))
}

func TestLengthBucket(t *testing.T) {
	tests := []struct {
		name string
		pref *types.LengthPreference
		want string
	}{
		{"no preference", nil, "short"},
		{"label wins over size", &types.LengthPreference{Label: "Long form", MaxChars: 20}, "long"},
		{"medium label", &types.LengthPreference{Label: "medium"}, "medium"},
		{"no bounds", &types.LengthPreference{Label: "punchy"}, "short"},
		{"60 is short", &types.LengthPreference{MaxChars: 60}, "short"},
		{"61 is medium", &types.LengthPreference{MaxChars: 61}, "medium"},
		{"140 is medium", &types.LengthPreference{MaxChars: 140}, "medium"},
		{"141 is long", &types.LengthPreference{MaxChars: 141}, "long"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LengthBucket(tt.pref))
		})
	}
}
