package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_ValidPrompt(t *testing.T) {
	ClearCache()

	prompt, err := Get("rewrite.json", "uniqueness-reminder")
	require.NoError(t, err)
	assert.Contains(t, prompt, "one JSON entry per task")
}

func TestGet_InvalidFile(t *testing.T) {
	ClearCache()

	_, err := Get("nonexistent.json", "some-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read prompt file")
}

func TestGet_InvalidKey(t *testing.T) {
	ClearCache()

	_, err := Get("rewrite.json", "nonexistent-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestMustGet_Panics(t *testing.T) {
	ClearCache()

	assert.Panics(t, func() {
		MustGet("nonexistent.json", "some-key")
	})
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		template string
		data     map[string]string
		want     string
	}{
		{
			name:     "substitutes every placeholder",
			template: "Task {{.Ordinal}}: {{.Label}}",
			data:     map[string]string{"Ordinal": "2", "Label": "Playful"},
			want:     "Task 2: Playful",
		},
		{
			name:     "no placeholders",
			template: "plain",
			data:     map[string]string{"Key": "Value"},
			want:     "plain",
		},
		{
			name:     "missing data leaves placeholder",
			template: "Hello {{.Name}}",
			data:     map[string]string{},
			want:     "Hello {{.Name}}",
		},
		{
			name:     "value containing another placeholder is resolved in key order",
			template: "{{.A}}",
			data:     map[string]string{"A": "{{.B}}", "B": "b"},
			want:     "b",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.template, tt.data))
		})
	}
}

func TestRender(t *testing.T) {
	ClearCache()

	got := Render("rewrite.json", "task-header", map[string]string{"Ordinal": "1", "Label": "Calm"})
	assert.Equal(t, "Task 1: Calm", got)
}

func TestList(t *testing.T) {
	ClearCache()

	keys, err := List("rewrite.json")
	require.NoError(t, err)
	for _, want := range []string{
		"task-header", "task-block", "instruction-full", "instruction-core",
		"uniqueness-reminder", "source-rewrite", "source-compose",
	} {
		assert.Contains(t, keys, want)
	}
	assert.IsIncreasing(t, keys)
}

func TestCaching(t *testing.T) {
	ClearCache()

	first, err := Get("rewrite.json", "task-block")
	require.NoError(t, err)
	second, err := Get("rewrite.json", "task-block")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
