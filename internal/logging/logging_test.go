package logging

import (
	"bytes"
	"errors"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "mathfacts-web", "warn")
	require.NoError(t, err)

	logger.Info("hidden", "k", 1)
	assert.Empty(t, buf.String())

	logger.Warn("shown", "user", "ada")
	out := buf.String()
	assert.Contains(t, out, "mathfacts-web")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "user=ada")
}

func TestNewDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "", "")
	require.NoError(t, err)
	assert.Equal(t, log.InfoLevel, logger.GetLevel())
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(&bytes.Buffer{}, "x", "chatty")
	assert.True(t, errors.Is(err, log.ErrInvalidLevel))
}

func TestDiscard(t *testing.T) {
	logger := Discard()
	logger.Error("nothing")
	assert.Equal(t, log.FatalLevel, logger.GetLevel())
}
