package log

import (
	"bytes"
	"io"
	"path/filepath"
	"testing"

	"github.com/natefinch/lumberjack"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeisme/hazopvault/pkg/configs"
)

func TestSink(t *testing.T) {
	assert.Equal(t, io.Discard, sink(configs.LogConfig{Output: "none"}))

	w := sink(configs.LogConfig{Output: "none", File: configs.LogFileConfig{
		Enabled: true, Path: filepath.Join(t.TempDir(), "hz.log"), MaxSizeMB: 1,
	}})
	lj, ok := w.(*lumberjack.Logger)
	require.True(t, ok)
	t.Cleanup(func() { _ = lj.Close() })

	_, isConsole := sink(configs.LogConfig{Output: "stdout", Format: "console"}).(zerolog.ConsoleWriter)
	assert.True(t, isConsole)
}

func TestGinWriterLevels(t *testing.T) {
	var buf bytes.Buffer

	l := zerolog.New(&buf)
	w := NewGinWriter(&l, zerolog.InfoLevel)

	tests := []struct {
		in    string
		level string
	}{
		{"[GIN-debug] GET /api/reports", "info"},
		{"[WARNING] Running in debug mode", "warn"},
		{"[ERROR] listen tcp: address in use", "error"},
	}

	for _, tt := range tests {
		buf.Reset()

		n, err := w.Write([]byte(tt.in + "\n"))
		require.NoError(t, err)
		assert.Equal(t, len(tt.in)+1, n)
		assert.Contains(t, buf.String(), `"level":"`+tt.level+`"`)
	}

	buf.Reset()
	_, _ = w.Write([]byte("   \n"))
	assert.Empty(t, buf.String())
}
