package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/tonecycle/internal/db"
)

func TestCredentialCommands(t *testing.T) {
	ctx := context.Background()
	store := &db.MemoryCredentials{}
	var out bytes.Buffer

	require.NoError(t, runCredentialGet(ctx, store, false, &out))
	assert.Equal(t, "No API key stored.\n", out.String())

	out.Reset()
	require.NoError(t, runCredentialSet(ctx, store, "  AIzaSecretValue1234 \n", &out))
	assert.Equal(t, "API key stored.\n", out.String())

	out.Reset()
	require.NoError(t, runCredentialGet(ctx, store, false, &out))
	assert.Equal(t, "***************1234\n", out.String())

	out.Reset()
	require.NoError(t, runCredentialGet(ctx, store, true, &out))
	assert.Equal(t, "AIzaSecretValue1234\n", out.String())

	out.Reset()
	require.NoError(t, runCredentialSet(ctx, store, "", &out))
	assert.Equal(t, "API key removed.\n", out.String())
	value, err := store.GetCredential(ctx)
	require.NoError(t, err)
	assert.Empty(t, value)
}

func TestMask(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"abc", "***"},
		{"abcd", "****"},
		{"abcdefgh", "****efgh"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, mask(tt.in), tt.in)
	}
}
