package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"epsdm/internal/config"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	log, closer, err := New(config.LogConfig{Level: "debug", Format: "json"}, &buf)
	require.NoError(t, err)
	defer closer.Close()

	log.Debug().Str("archive", "a").Msg("hello")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "hello", line["message"])
	assert.Equal(t, "a", line["archive"])
	assert.Equal(t, "debug", line["level"])
}

func TestNewFiltersLevel(t *testing.T) {
	var buf bytes.Buffer
	log, _, err := New(config.LogConfig{Level: "warn", Format: "json"}, &buf)
	require.NoError(t, err)

	log.Info().Msg("quiet")
	assert.Zero(t, buf.Len())
}

func TestNewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "epsdm.log")
	log, closer, err := New(config.LogConfig{Level: "info", Format: "console", File: path}, nil)
	require.NoError(t, err)

	log.Info().Msg("to file")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")
}

func TestNewDiscard(t *testing.T) {
	log, _, err := New(config.LogConfig{Level: "info"}, nil)
	require.NoError(t, err)
	assert.Equal(t, zerolog.Disabled, log.GetLevel())
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("WARN")
	require.NoError(t, err)
	assert.Equal(t, zerolog.WarnLevel, level)

	_, err = ParseLevel("loud")
	require.Error(t, err)
}
