package logger_test

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/ostafen/fwunpack/internal/logger"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	require.Equal(t, slog.LevelDebug, logger.ParseLevel("debug"))
	require.Equal(t, slog.LevelWarn, logger.ParseLevel("WARN"))
	require.Equal(t, slog.LevelError, logger.ParseLevel("Error"))
	require.Equal(t, slog.LevelInfo, logger.ParseLevel("info"))
	require.Equal(t, slog.LevelInfo, logger.ParseLevel(""))
	require.Equal(t, slog.LevelInfo, logger.ParseLevel("verbose"))
}

func TestNew_Level(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(&buf, slog.LevelWarn)

	log.Info("hidden")
	log.Warn("shown", "file", "fw.bin")

	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), "file=fw.bin")
}

func TestSetup(t *testing.T) {
	log, f, err := logger.Setup("", slog.LevelInfo)
	require.NoError(t, err)
	require.Nil(t, f)
	require.NotNil(t, log)

	path := filepath.Join(t.TempDir(), "logs", "session.log")
	log, f, err = logger.Setup(path, slog.LevelInfo)
	require.NoError(t, err)
	require.NotNil(t, f)

	log.Info("extracting", "format", "lz4")
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "format=lz4")
}
