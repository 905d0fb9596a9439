// FILE: level.go
package rtlog

import (
	"fmt"
	"strings"
)

// Log level constants, ordered by severity
const (
	LevelDebug int64 = -4
	LevelInfo  int64 = 0
	LevelWarn  int64 = 4
	LevelError int64 = 8
	LevelFatal int64 = 12
)

// Well-known category names
const (
	// CategoryGeneral is stamped on entries logged without an explicit category
	CategoryGeneral = "General"
	// CategoryCritical bypasses the minimum-severity filter in the default configuration
	CategoryCritical = "Critical"
)

// LevelToString converts a numeric level to its display token
func LevelToString(level int64) string {
	switch level {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelFatal:
		return "FATAL"
	default:
		return fmt.Sprintf("LEVEL(%d)", level)
	}
}

// ParseLevel converts a level string to its numeric constant
func ParseLevel(levelStr string) (int64, error) {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	case "fatal":
		return LevelFatal, nil
	default:
		return 0, fmtErrorf("invalid level string: '%s' (use debug, info, warn, error, fatal)", levelStr)
	}
}
