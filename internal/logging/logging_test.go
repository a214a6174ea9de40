package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/missionflow/internal/config"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Writer: &buf, Level: "info", Prefix: "missionflow"})
	require.NoError(t, err)

	logger.Debug("Hidden")
	logger.Info("Sync completed", "synced", 3)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "Sync completed", entry["msg"])
	assert.Equal(t, "missionflow", entry["app"])
	assert.InDelta(t, 3, entry["synced"], 0)
}

func TestNew_Terminal(t *testing.T) {
	var buf bytes.Buffer
	tty := true
	logger, err := New(Options{Writer: &buf, Level: "debug", Prefix: "mf", Terminal: &tty})
	require.NoError(t, err)

	logger.Debug("Probe", "online", true)

	out := buf.String()
	assert.Contains(t, out, "Probe")
	assert.Contains(t, out, "online")
	assert.False(t, json.Valid([]byte(strings.TrimSpace(out))))
}

func TestNew_BadLevel(t *testing.T) {
	_, err := New(Options{Level: "chatty"})
	assert.ErrorIs(t, err, config.ErrInvalidLogLevel)
}

func TestDiscard(t *testing.T) {
	assert.NotNil(t, Discard())
}
