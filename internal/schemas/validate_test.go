package schemas

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateJSON(t *testing.T) {
	schemaPath := filepath.Join("testdata", "envelope_schema.json")

	tests := []struct {
		name      string
		jsonFile  string
		wantError bool
	}{
		{"valid envelope", "valid_envelope.json", false},
		{"missing text", "missing_text.json", true},
		{"wrong type", "type_mismatch.json", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateJSON(schemaPath, filepath.Join("testdata", tt.jsonFile))
			if !tt.wantError {
				assert.NoError(t, err)
				return
			}
			var ve *ValidationError
			require.True(t, errors.As(err, &ve), "error should be ValidationError, got %v", err)
			assert.NotEmpty(t, ve.Errors)
		})
	}
}

func TestValidateJSON_MissingFiles(t *testing.T) {
	err := ValidateJSON("testdata/nonexistent_schema.json", "testdata/valid_envelope.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	err = ValidateJSON("testdata/envelope_schema.json", "testdata/nonexistent.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestValidateJSON_MalformedDocument(t *testing.T) {
	malformed := filepath.Join(t.TempDir(), "malformed.json")
	require.NoError(t, os.WriteFile(malformed, []byte("{ invalid json }"), 0644))

	err := ValidateJSON(filepath.Join("testdata", "envelope_schema.json"), malformed)
	var loadErr *SchemaLoadError
	assert.True(t, errors.As(err, &loadErr))
}

func TestValidateJSONString_InvalidSchema(t *testing.T) {
	err := ValidateJSONString(`{"type": 12}`, `{}`)
	var loadErr *SchemaLoadError
	assert.True(t, errors.As(err, &loadErr))
}

func TestLintGuide(t *testing.T) {
	good := map[string]any{
		"version":     "1",
		"bannedTerms": []any{"oops"},
		"tones":       []any{"Calm", map[string]any{"key": "bold", "label": "Bold"}},
		"length":      map[string]any{"label": "short", "maxChars": 80},
	}
	assert.NoError(t, LintGuide(good))

	bad := map[string]any{
		"tones":       12,
		"terminology": []any{map[string]any{"term": "x", "status": "sometimes"}},
	}
	err := LintGuide(bad)
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.GreaterOrEqual(t, len(ve.Messages()), 2)
}

func TestCheckEnvelope(t *testing.T) {
	assert.NoError(t, CheckEnvelope(`{"variants":[{"tone":"calm","length":"short","text":"All set."}]}`))

	err := CheckEnvelope(`{"variants":[{"tone":"calm","length":"tiny","text":""}]}`)
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
}

func TestResolveSchemaPath(t *testing.T) {
	assert.NotEmpty(t, ResolveSchemaPath(filepath.Join("testdata", "envelope_schema.json")))
	assert.Empty(t, ResolveSchemaPath("does/not/exist.json"))
}
