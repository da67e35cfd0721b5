// FILE: lixenwraith/daylog/record/level.go
package record

import (
	"fmt"
	"strings"
)

// Level is the ordered severity of a record, also used as the dispatcher threshold
type Level int

// Severity levels, least to most severe. LevelSuppressed as a threshold disables logging.
const (
	LevelSuppressed Level = iota
	LevelVerbose
	LevelDebug
	LevelInfo
	LevelWarning
	LevelError
)

// IsLoggable reports whether a record at level passes the threshold
func IsLoggable(level, threshold Level) bool {
	return threshold != LevelSuppressed && threshold <= level
}

// String returns the textual level marker
func (l Level) String() string {
	switch l {
	case LevelSuppressed:
		return ""
	case LevelVerbose:
		return "VERBOSE"
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarning:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return fmt.Sprintf("LEVEL(%d)", int(l))
	}
}

// Symbol returns the compact pictographic level marker
func (l Level) Symbol() string {
	switch l {
	case LevelVerbose:
		return "📋"
	case LevelDebug:
		return "🛠"
	case LevelInfo:
		return "💬"
	case LevelWarning:
		return "⚠️"
	case LevelError:
		return "⛔"
	default:
		return ""
	}
}

// ParseLevel converts a level name to its constant
func ParseLevel(levelStr string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "none", "suppressed", "off":
		return LevelSuppressed, nil
	case "verbose":
		return LevelVerbose, nil
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarning, nil
	case "error":
		return LevelError, nil
	default:
		return LevelSuppressed, fmt.Errorf("record: invalid level string: '%s' (use none, verbose, debug, info, warn, error)", levelStr)
	}
}
