package rewriting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/tonecycle/internal/types"
	"github.com/jonathan/tonecycle/internal/validation"
)

func TestBatch_FilledTaskNeverOverwritten(t *testing.T) {
	b := newBatch([]types.ToneConfig{friendly}, validation.RulesFromDirectives(nil), true)

	accepted, _ := b.reconcile([]types.ModelVariant{{Tone: "friendly", Text: "First take."}})
	require.Equal(t, 1, accepted)

	accepted, rejected := b.reconcile([]types.ModelVariant{{Tone: "friendly", Text: "Second take."}})
	assert.Zero(t, accepted)
	require.Len(t, rejected, 1)
	assert.Equal(t, RejectUnmatched, rejected[0].Reason)
	assert.Equal(t, "First take.", b.tasks[0].Result)
}

func TestBatch_ClearDuplicatesFindsNothingAfterReconcile(t *testing.T) {
	b := newBatch([]types.ToneConfig{friendly, calm}, validation.RulesFromDirectives(nil), true)

	accepted, rejected := b.reconcile([]types.ModelVariant{
		{Tone: "friendly", Text: "Saved — done."},
		{Tone: "calm", Text: "saved - done"},
	})
	assert.Equal(t, 1, accepted)
	require.Len(t, rejected, 1)
	assert.Equal(t, RejectDuplicate, rejected[0].Reason)

	assert.Empty(t, b.clearDuplicates())
	assert.Equal(t, []int{1}, b.pending())
}

func TestBatch_ClearDuplicatesReopensTaskFilledOutsideReconcile(t *testing.T) {
	b := newBatch([]types.ToneConfig{friendly, calm}, validation.RulesFromDirectives(nil), true)
	b.tasks[0].Result = "Saved — done."
	b.tasks[1].Result = "saved - done"

	cleared := b.clearDuplicates()
	require.Len(t, cleared, 1)
	assert.Equal(t, RejectDuplicateOf, cleared[0].Reason)
	assert.Equal(t, []int{1}, b.pending())
	assert.Equal(t, "Saved — done.", b.tasks[0].Result)
}

func TestBatch_InvalidKeepsFirstFallback(t *testing.T) {
	rules := types.ValidationRules{BannedTerms: []string{"oops"}, MaxSentences: 2}
	b := newBatch([]types.ToneConfig{friendly}, rules, true)

	b.reconcile([]types.ModelVariant{{Text: "Oops, try again."}})
	b.reconcile([]types.ModelVariant{{Text: "Oops twice."}})

	assert.Equal(t, "Oops, try again.", b.fallback[0].text)
	assert.Equal(t, []string{`contains banned term "oops"`}, b.fallback[0].issues)
	assert.False(t, b.tasks[0].Filled())
}

func TestBatch_SoftIssuesDoNotBlock(t *testing.T) {
	rules := types.ValidationRules{MaxSentences: 2, PronounConsistency: true}
	b := newBatch([]types.ToneConfig{friendly}, rules, true)

	accepted, _ := b.reconcile([]types.ModelVariant{{Text: "You saved it."}})
	assert.Equal(t, 1, accepted)
	assert.Equal(t, []string{"introduces first/second-person pronouns"}, b.soft[0])
}

func TestExpandEnvelope(t *testing.T) {
	assert.Nil(t, expandEnvelope("Plain copy"))
	assert.Equal(t,
		[]types.ModelVariant{{Tone: "a", Text: "one"}, {Tone: "b", Text: "two"}},
		expandEnvelope(`{"variants":[{"tone":"a","text":"one"},{"tone":"b","text":"two"}]}`),
	)
}

func TestFinish_FlattensNestedEnvelope(t *testing.T) {
	r := newRewriter(t, replies(), DefaultPolicy())
	b := newBatch([]types.ToneConfig{friendly, calm}, validation.RulesFromDirectives(nil), true)
	b.tasks[0].Result = `{"variants":[{"text":"Saved for later."},{"text":"Saved for later!"},{"text":"Stored safely."}]}`
	b.tasks[1].Result = "Stored safely."

	out := r.finish(b)
	assert.Equal(t, "1. Saved for later.\n\n2. Stored safely.", out.Output)
	assert.Equal(t, "friendly", out.Variants[1].ToneKey)
}
