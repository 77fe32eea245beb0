package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsCommentary_EveryPhrase(t *testing.T) {
	for _, phrase := range CommentaryPhrases {
		text := "Note: " + strings.ToUpper(phrase) + " was used here."
		assert.True(t, IsCommentary(text), phrase)
	}
	assert.False(t, IsCommentary("Top up your wallet to keep fuelling."))
}

func TestIsTemplateEcho(t *testing.T) {
	for _, marker := range TemplateEchoMarkers {
		assert.True(t, IsTemplateEcho("  "+marker+" something"), marker)
	}

	assert.True(t, IsTemplateEcho("Task 2: Persuasive"))
	assert.True(t, IsTemplateEcho("**Task 1 - Calm**"))
	assert.False(t, IsTemplateEcho("Tasks done, you're all set."))
	assert.False(t, IsTemplateEcho("Fuel up in one tap."))
}

func TestContainsPersonalPronoun(t *testing.T) {
	assert.True(t, ContainsPersonalPronoun("Top up your wallet"))
	assert.True(t, ContainsPersonalPronoun("We’ve got it"))
	assert.True(t, ContainsPersonalPronoun("I'm ready"))
	assert.False(t, ContainsPersonalPronoun("Wallet topped up"))
	assert.False(t, ContainsPersonalPronoun("Yourselfie mode")) // whole words only
}

func TestFindBannedTerms(t *testing.T) {
	found := FindBannedTerms("Card BLOCKED, payment failed", []string{"blocked", "failed", "Blocked", ""})
	assert.Equal(t, []string{"blocked", "failed"}, found)
	assert.Nil(t, FindBannedTerms("", []string{"x"}))
	assert.Nil(t, FindBannedTerms("text", nil))
}
