// FILE: lixenwraith/daylog/constant.go
package daylog

import (
	"time"

	"github.com/lixenwraith/daylog/record"
)

// Level is the record severity
type Level = record.Level

// Severity levels, least to most severe. LevelSuppressed as a threshold disables logging.
const (
	LevelSuppressed = record.LevelSuppressed
	LevelVerbose    = record.LevelVerbose
	LevelDebug      = record.LevelDebug
	LevelInfo       = record.LevelInfo
	LevelWarning    = record.LevelWarning
	LevelError      = record.LevelError
)

// File sink defaults
const (
	DefaultDirectory = "logs"
	DefaultMaxFiles  = 7
)

// Timers
const (
	// Fallback for Flush and Shutdown when the configured timeout is unset
	defaultFlushTimeout = time.Second
)
