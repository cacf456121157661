package logger

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithComponent(t *testing.T) {
	prev := Logger
	t.Cleanup(func() { Logger = prev })

	var buf bytes.Buffer
	Logger = slog.New(slog.NewJSONHandler(&buf, nil))

	log := NewLoggerWithSlog(WithComponent("worker"))
	log.Named("sweeper").Infow("payments expired", "count", 2)

	out := buf.String()
	assert.Contains(t, out, `"component":"worker"`)
	assert.Contains(t, out, `"logger":"sweeper"`)
	assert.Contains(t, out, `"count":2`)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"WARNING", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLevel(tt.in), tt.in)
	}
}
