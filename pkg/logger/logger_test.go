package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestNewLevels(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"INFO":    zapcore.InfoLevel,
		"warn":    zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"verbose": zapcore.InfoLevel,
	}
	for level, want := range cases {
		l := New(level, "json")
		assert.True(t, l.Core().Enabled(want), level)
		if want > zapcore.DebugLevel {
			assert.False(t, l.Core().Enabled(want-1), level)
		}
	}
}

func TestNewConsoleFormat(t *testing.T) {
	l := New("info", "console")
	assert.NotNil(t, l)
	assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
}
