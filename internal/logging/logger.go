// logger.go - Centralized logging configuration for the Graph MCP server.
//
// Structured logging built on log/slog with configurable levels, text or
// JSON output, optional file output, and component-based loggers.
//
// Configuration:
// - LOG_LEVEL: DEBUG, INFO, WARN, or ERROR (default: INFO after config load)
// - LOG_FORMAT: "json" for JSON output, "text" for human-readable (default: text)
// - MCP_LOG_FILE: optional file path for log output
// - CONTENT_LOG_LEVEL: verbosity for response-content logging, or OFF
//
// Tokens, client secrets, and other credentials must never be passed to a
// logger; callers mask identifiers with their package's masking helper.

package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

var (
	defaultLogger   *slog.Logger
	logLevel        slog.Level = slog.LevelDebug // maximum verbosity until config is loaded
	contentLogLevel slog.Level = slog.LevelDebug
)

// Initialize sets up the global logger from environment variables. It is
// used for early initialization before the configuration is loaded and
// defaults to DEBUG so config-loading details are captured.
func Initialize() {
	InitializeFromEnv()
}

// InitializeFromEnv sets up logging from environment variables only.
func InitializeFromEnv() {
	logLevel = parseLevel(os.Getenv("LOG_LEVEL"), slog.LevelDebug)
	contentLogLevel = parseContentLevel(os.Getenv("CONTENT_LOG_LEVEL"))

	defaultLogger = slog.New(buildHandler(os.Getenv("LOG_FORMAT"), os.Getenv("MCP_LOG_FILE")))
	slog.SetDefault(defaultLogger)
}

// LoggingConfig is the configuration surface the logging package needs.
type LoggingConfig interface {
	GetLogLevel() string
	GetLogFormat() string
	GetLogFile() string
	GetContentLogLevel() string
}

// InitializeFromConfig reinitializes logging from the loaded configuration,
// falling back to environment variables for any empty values. This may
// reduce verbosity from the initial DEBUG level used during config loading.
func InitializeFromConfig(cfg LoggingConfig) {
	levelStr := firstNonEmpty(cfg.GetLogLevel(), os.Getenv("LOG_LEVEL"))
	formatStr := firstNonEmpty(cfg.GetLogFormat(), os.Getenv("LOG_FORMAT"))
	fileStr := firstNonEmpty(cfg.GetLogFile(), os.Getenv("MCP_LOG_FILE"))
	contentStr := firstNonEmpty(cfg.GetContentLogLevel(), os.Getenv("CONTENT_LOG_LEVEL"))

	logLevel = parseLevel(levelStr, slog.LevelInfo)
	contentLogLevel = parseContentLevel(contentStr)

	defaultLogger = slog.New(buildHandler(formatStr, fileStr))
	slog.SetDefault(defaultLogger)

	defaultLogger.Debug("Logging reconfigured from config",
		"final_log_level", logLevel.String(),
		"final_content_log_level", contentLogLevel.String(),
		"log_format", strings.ToLower(formatStr),
		"log_file", fileStr)
}

func parseLevel(levelStr string, fallback slog.Level) slog.Level {
	switch strings.ToUpper(levelStr) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return fallback
	}
}

func parseContentLevel(levelStr string) slog.Level {
	if strings.ToUpper(levelStr) == "OFF" {
		return slog.Level(1000) // effectively disabled
	}
	return parseLevel(levelStr, slog.LevelDebug)
}

func buildHandler(format, logFile string) slog.Handler {
	var output io.Writer = os.Stderr
	if logFile != "" {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			slog.Error("Failed to open log file, using stderr", "file", logFile, "error", err)
		} else {
			output = file
		}
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	if strings.ToLower(format) == "json" {
		return slog.NewJSONHandler(output, opts)
	}
	return slog.NewTextHandler(output, opts)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// GetLogger returns a component-specific logger. The component name is
// included in every log entry for easier filtering.
func GetLogger(component string) *slog.Logger {
	if defaultLogger == nil {
		Initialize()
	}
	return defaultLogger.With("component", component)
}

// GetLevel returns the current log level.
func GetLevel() slog.Level {
	return logLevel
}

// IsDebugEnabled returns true if debug logging is enabled.
func IsDebugEnabled() bool {
	return logLevel <= slog.LevelDebug
}

// IsContentLoggingEnabled returns true if content logging is enabled at the
// specified level.
func IsContentLoggingEnabled(level slog.Level) bool {
	return contentLogLevel <= level
}

// SetLevel sets the log level programmatically (useful for testing).
func SetLevel(level slog.Level) {
	logLevel = level
	Initialize()
}

// LogContent conditionally logs response content based on the content
// logging configuration.
func LogContent(logger *slog.Logger, level slog.Level, msg string, args ...any) {
	if IsContentLoggingEnabled(level) {
		logger.Log(context.Background(), level, msg, args...)
	}
}

// Component-specific logger instances for commonly used components.
var (
	AuthLogger   = GetLogger("auth")
	ConfigLogger = GetLogger("config")
	GraphLogger  = GetLogger("graph")
	MailLogger   = GetLogger("mail")
	UserLogger   = GetLogger("users")
	ToolsLogger  = GetLogger("tools")
	MainLogger   = GetLogger("main")
)
