package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_WritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "api.log")

	require.NoError(t, Init("debug", path))
	t.Cleanup(func() { Log.SetOutput(os.Stderr) })

	assert.Equal(t, logrus.DebugLevel, Log.GetLevel())

	Log.WithField("card_id", 42).Warn("enrichment skipped")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	line := string(data)
	assert.Contains(t, line, "[WARN]")
	assert.Contains(t, line, "logger_test.go:")
	assert.Contains(t, line, "enrichment skipped card_id=42")
}

func TestInit_BadLevelFallsBack(t *testing.T) {
	require.NoError(t, Init("loud", ""))
	assert.Equal(t, logrus.InfoLevel, Log.GetLevel())
}
