package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnvironment(t *testing.T) {
	assert.Equal(t, Production, ParseEnvironment("production"))
	assert.Equal(t, Production, ParseEnvironment(" PRODUCTION "))
	assert.Equal(t, Testing, ParseEnvironment("testing"))
	assert.Equal(t, Development, ParseEnvironment(""))
	assert.Equal(t, Development, ParseEnvironment("staging"))
}

func TestComponent_TagsEvents(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(Production, &buf)

	logger := Component("parser")
	logger.Info().Msg("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "parser", entry["component"])
	assert.Equal(t, "hello", entry["message"])
}

func TestProduction_DropsDebug(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(Production, &buf)

	Debug().Msg("hidden")
	assert.Empty(t, buf.String())

	SetVerbose(true)
	Debug().Msg("shown")
	assert.Contains(t, buf.String(), "shown")
}
