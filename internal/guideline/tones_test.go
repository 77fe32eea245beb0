package guideline

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCatalogue_Defaults(t *testing.T) {
	tones := BuildCatalogue(map[string]any{})
	assert.Equal(t, DefaultTones(), tones)
	assert.Len(t, tones, MaxActiveTones)
}

func TestBuildCatalogue_PaddingSkipsExistingLabels(t *testing.T) {
	tones := BuildCatalogue(map[string]any{
		"tones": []any{"CALM", map[string]any{"key": "brand_friendly", "label": "friendly"}},
	})

	require.Len(t, tones, MaxActiveTones)
	seen := make(map[string]bool)
	for _, tone := range tones {
		label := strings.ToLower(tone.Label)
		assert.False(t, seen[label], "duplicate label %s", tone.Label)
		seen[label] = true
	}
	assert.Equal(t, "CALM", tones[0].Label)
	assert.Equal(t, "brand_friendly", tones[1].Key)
}

func TestBuildCatalogue_MapShape(t *testing.T) {
	tones := BuildCatalogue(map[string]any{
		"tones": map[string]any{
			"zesty": "Zesty",
			"bold":  map[string]any{"label": "Bold", "notes": "Short verbs"},
		},
	})

	assert.Equal(t, "bold", tones[0].Key)
	assert.Equal(t, []string{"Short verbs"}, tones[0].Notes)
	assert.Equal(t, "zesty", tones[1].Key)
}

func TestBuildCatalogue_UnknownPreferredUsesFallback(t *testing.T) {
	tones := BuildCatalogue(map[string]any{
		"tones":         []any{"Bold", "Zesty"},
		"preferredTone": "mysterious",
	})

	assert.Equal(t, FallbackToneLabel, tones[0].Label)
	assert.Equal(t, "Bold", tones[1].Label)
	assert.Len(t, tones, MaxActiveTones)

	count := 0
	for _, tone := range tones {
		if tone.Label == FallbackToneLabel {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestBuildCatalogue_CapsGuideTones(t *testing.T) {
	var many []any
	for i := 0; i < MaxActiveTones+5; i++ {
		many = append(many, "Tone "+string(rune('A'+i)))
	}
	tones := BuildCatalogue(map[string]any{"tones": many})
	assert.Len(t, tones, MaxActiveTones)
	assert.Equal(t, "tone_a", tones[0].Key)
}
