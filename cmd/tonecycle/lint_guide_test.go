package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunLintGuide(t *testing.T) {
	valid := writeFile(t, "guide.json", `{"version":"4","tones":["Calm"],"bannedTerms":["simply"]}`)
	invalid := writeFile(t, "bad.json", `{"version":true,"tones":[42]}`)

	tests := []struct {
		name     string
		path     string
		strict   bool
		wantErr  string
		contains []string
	}{
		{
			name:     "valid guide",
			path:     valid,
			contains: []string{"Guide version: 4", "NO ISSUES FOUND", "Banned:   simply", "Calm"},
		},
		{
			name:     "findings are advisory",
			path:     invalid,
			contains: []string{"GUIDE LINT (", "version"},
		},
		{
			name:    "strict fails on findings",
			path:    invalid,
			strict:  true,
			wantErr: "lint finding",
		},
		{
			name:    "missing file",
			path:    "/nonexistent/guide.yaml",
			wantErr: "failed to read guide file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			err := runLintGuide(context.Background(), tt.path, tt.strict, &out)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			for _, want := range tt.contains {
				assert.Contains(t, out.String(), want)
			}
		})
	}
}
