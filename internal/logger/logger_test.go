package logger

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DefaultsToWarnOnBadLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New("not-a-level", &buf)
	require.NotNil(t, log)

	log.Info().Msg("should be suppressed")
	assert.Empty(t, buf.String())

	log.Warn().Msg("should appear")
	assert.Contains(t, buf.String(), "should appear")
}

func TestLogger_Fields(t *testing.T) {
	var buf bytes.Buffer
	log := New("debug", &buf)

	log.Debug().
		Str("provider", "files").
		Int("count", 3).
		Bool("truncated", true).
		Dur("elapsed", 1500*time.Microsecond).
		Msg("completion done")

	out := buf.String()
	assert.Contains(t, out, "completion done")
	assert.Contains(t, out, "provider=files")
	assert.Contains(t, out, "count=3")
	assert.Contains(t, out, "truncated=true")
}

func TestLogger_Err(t *testing.T) {
	var buf bytes.Buffer
	log := New("error", &buf)

	log.Error().Err(errors.New("boom")).Msg("provider failed")
	assert.Contains(t, buf.String(), "boom")

	// nil error must not add a field
	buf.Reset()
	log.Error().Err(nil).Msg("no cause")
	assert.NotContains(t, buf.String(), "error=")
}

func TestNop_DiscardsEverything(t *testing.T) {
	log := Nop()
	require.NotNil(t, log)
	// Must not panic or write anywhere
	log.Error().Str("k", "v").Msg("dropped")
}
