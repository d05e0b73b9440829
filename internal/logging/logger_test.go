// Copyright (c) 2025 graph-mcp contributors
//
// Licensed under the MIT License. See LICENSE file in the project root for full license information.

package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"DEBUG", slog.LevelDebug},
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"WARNING", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, parseLevel(tc.input, slog.LevelInfo), "input %q", tc.input)
	}
}

func TestParseContentLevel_Off(t *testing.T) {
	level := parseContentLevel("OFF")
	assert.Greater(t, int(level), int(slog.LevelError), "OFF must disable content logging")
	assert.Equal(t, slog.LevelInfo, parseContentLevel("INFO"))
}

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "a", firstNonEmpty("a", "b"))
	assert.Equal(t, "b", firstNonEmpty("", "b"))
	assert.Empty(t, firstNonEmpty("", ""))
}

func TestGetLogger(t *testing.T) {
	logger := GetLogger("test-component")
	require.NotNil(t, logger)
}

type stubLoggingConfig struct {
	level, format, file, contentLevel string
}

func (c stubLoggingConfig) GetLogLevel() string        { return c.level }
func (c stubLoggingConfig) GetLogFormat() string       { return c.format }
func (c stubLoggingConfig) GetLogFile() string         { return c.file }
func (c stubLoggingConfig) GetContentLogLevel() string { return c.contentLevel }

func TestInitializeFromConfig(t *testing.T) {
	defer SetLevel(slog.LevelDebug)

	InitializeFromConfig(stubLoggingConfig{level: "WARN", format: "json", contentLevel: "OFF"})
	assert.Equal(t, slog.LevelWarn, GetLevel())
	assert.False(t, IsDebugEnabled())
	assert.False(t, IsContentLoggingEnabled(slog.LevelInfo))

	InitializeFromConfig(stubLoggingConfig{level: "DEBUG", contentLevel: "DEBUG"})
	assert.True(t, IsDebugEnabled())
	assert.True(t, IsContentLoggingEnabled(slog.LevelDebug))
}

func TestLogContent_RespectsContentLevel(t *testing.T) {
	defer SetLevel(slog.LevelDebug)

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	InitializeFromConfig(stubLoggingConfig{level: "DEBUG", contentLevel: "OFF"})
	LogContent(logger, slog.LevelDebug, "Fetched message content", "content", "suppressed-body")
	assert.Empty(t, buf.String(), "CONTENT_LOG_LEVEL=OFF must suppress content logging")

	InitializeFromConfig(stubLoggingConfig{level: "DEBUG", contentLevel: "DEBUG"})
	LogContent(logger, slog.LevelDebug, "Fetched message content", "content", "visible-body")
	assert.Contains(t, buf.String(), "visible-body")

	// INFO threshold drops DEBUG-level content but passes INFO-level.
	buf.Reset()
	InitializeFromConfig(stubLoggingConfig{level: "DEBUG", contentLevel: "INFO"})
	LogContent(logger, slog.LevelDebug, "Fetched message content", "content", "debug-body")
	assert.NotContains(t, buf.String(), "debug-body")
	LogContent(logger, slog.LevelInfo, "Fetched message content", "content", "info-body")
	assert.Contains(t, buf.String(), "info-body")
}
