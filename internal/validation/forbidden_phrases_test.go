package validation

import (
	"testing"

	"github.com/jonathan/tonecycle/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestMissingPhraseGroups(t *testing.T) {
	groups := []types.PhraseGroup{
		{Label: "reassurance", Phrases: []string{"you're good to go", "all set"}},
		{Label: "cta", Phrases: []string{"Top up"}},
		{Label: "empty", Phrases: nil},
	}

	tests := []struct {
		name string
		text string
		want []string
	}{
		{"all satisfied", "TOP UP now and you're ALL SET.", nil},
		{"one alternative is enough", "Top up, you're good to go", nil},
		{"typographic apostrophe", "Top up, you’re good to go", nil},
		{"missing reassurance", "Top up now", []string{"reassurance"}},
		{"missing both", "Nothing here", []string{"reassurance", "cta"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MissingPhraseGroups(tt.text, groups))
		})
	}
}

func TestFindBannedTerms_ReportsEachTermOnce(t *testing.T) {
	got := FindBannedTerms("Blocked? blocked! Unblocked.", []string{"blocked", "BLOCKED", " ", "oops"})
	assert.Equal(t, []string{"blocked"}, got)
}

func TestFindBannedTerms_FoldsApostrophes(t *testing.T) {
	assert.Equal(t, []string{"don't"}, FindBannedTerms("Don’t worry", []string{"don't"}))
	assert.Equal(t, []string{"can’t"}, FindBannedTerms("You can't pay", []string{"can’t"}))
}
