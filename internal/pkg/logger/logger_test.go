package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigure(t *testing.T) {
	t.Cleanup(func() { Configure(Config{Level: InfoLevel, Pretty: true}) })

	var out bytes.Buffer
	Configure(Config{Level: WarnLevel, Output: &out})

	Info().Msg("dropped")
	Component("lifecycle").Warn().Str("sessionID", "s-1").Msg("Session locked")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "lifecycle", entry["component"])
	assert.Equal(t, "academia", entry["app"])
	assert.Equal(t, "s-1", entry["sessionID"])
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())
}

func TestConfigureFallsBackToInfo(t *testing.T) {
	t.Cleanup(func() { Configure(Config{Level: InfoLevel, Pretty: true}) })

	Configure(Config{Level: "loud", Output: &bytes.Buffer{}})
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}
