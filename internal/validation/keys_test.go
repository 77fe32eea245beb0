package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComparisonKey_NearDuplicates(t *testing.T) {
	a := ComparisonKey("All set — keep fuelling!")
	b := ComparisonKey("all set - keep fuelling")
	c := ComparisonKey("ALL SET – Keep   fuelling .")

	assert.Equal(t, "all set keep fuelling", a)
	assert.Equal(t, a, b)
	assert.Equal(t, a, c)
}

func TestNormalizeKey(t *testing.T) {
	assert.Equal(t, "warm_friendly", NormalizeKey("Warm & Friendly"))
	assert.Equal(t, "warm_friendly", NormalizeKey("warm_friendly"))
	assert.Equal(t, "calm", NormalizeKey("  CALM  "))
	assert.Equal(t, "", NormalizeKey("--"))
}

func TestDeduper(t *testing.T) {
	d := NewDeduper(false)
	assert.True(t, d.Accept("You're all set."))
	assert.False(t, d.Accept("you're ALL set"))
	assert.True(t, d.Seen("You’re all set"))

	d.Forget("You're all set.")
	assert.True(t, d.Accept("you're all set"))

	tolerant := NewDeduper(true)
	assert.True(t, tolerant.Accept("Same"))
	assert.True(t, tolerant.Accept("same"))
}

func TestDedupeTexts(t *testing.T) {
	out := DedupeTexts([]string{"Top up now", "top-up now", "TOP UP NOW!", "Fuel up"})
	assert.Equal(t, []string{"Top up now", "Fuel up"}, out)
}
