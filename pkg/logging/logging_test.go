package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel("warn"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel(""))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("loud"))
}

func TestConsoleFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, closeFn := New(Options{Level: "warn", Console: &buf, NoColor: true})
	defer closeFn()

	logger.Info().Msg("hidden")
	logger.Warn().Str("carrier", "cat.png").Msg("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "carrier=cat.png")
}

func TestFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stegano.log")
	var console bytes.Buffer
	logger, closeFn := New(Options{Level: "debug", File: path, Console: &console, NoColor: true})

	logger.Debug().Int("groups", 400).Msg("session")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"groups":400`)
	assert.Contains(t, string(data), `"message":"session"`)
}
