// FILE: lixenwraith/daylog/compat/fasthttp.go
package compat

import (
	"fmt"
	"strings"

	"github.com/valyala/fasthttp"

	"github.com/lixenwraith/daylog"
	"github.com/lixenwraith/daylog/record"
)

var _ fasthttp.Logger = (*FastHTTPAdapter)(nil)

// FastHTTPAdapter wraps a daylog.Logger to implement the fasthttp Logger interface
type FastHTTPAdapter struct {
	logger        *daylog.Logger
	defaultLevel  daylog.Level
	levelDetector func(string) daylog.Level // Suppressed means no level detected
}

// NewFastHTTPAdapter creates a new fasthttp-compatible logger adapter
func NewFastHTTPAdapter(logger *daylog.Logger, opts ...FastHTTPOption) *FastHTTPAdapter {
	adapter := &FastHTTPAdapter{
		logger:        logger,
		defaultLevel:  daylog.LevelInfo,
		levelDetector: DetectLogLevel,
	}

	for _, opt := range opts {
		opt(adapter)
	}

	return adapter
}

// FastHTTPOption allows customizing adapter behavior
type FastHTTPOption func(*FastHTTPAdapter)

// WithDefaultLevel sets the level used when the detector finds nothing
func WithDefaultLevel(level daylog.Level) FastHTTPOption {
	return func(a *FastHTTPAdapter) {
		a.defaultLevel = level
	}
}

// WithLevelDetector sets a custom function to detect log level from message content
func WithLevelDetector(detector func(string) daylog.Level) FastHTTPOption {
	return func(a *FastHTTPAdapter) {
		a.levelDetector = detector
	}
}

// Printf implements fasthttp's Logger interface
func (a *FastHTTPAdapter) Printf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)

	level := a.defaultLevel
	if a.levelDetector != nil {
		if detected := a.levelDetector(msg); detected != daylog.LevelSuppressed {
			level = detected
		}
	}

	a.logger.LogAt(level, record.Caller(1), func() string { return msg })
}

// DetectLogLevel guesses a level from message content, Suppressed when nothing matches
func DetectLogLevel(msg string) daylog.Level {
	msgLower := strings.ToLower(msg)

	switch {
	case strings.Contains(msgLower, "error"),
		strings.Contains(msgLower, "failed"),
		strings.Contains(msgLower, "fatal"),
		strings.Contains(msgLower, "panic"):
		return daylog.LevelError
	case strings.Contains(msgLower, "warn"),
		strings.Contains(msgLower, "deprecated"):
		return daylog.LevelWarning
	case strings.Contains(msgLower, "debug"),
		strings.Contains(msgLower, "trace"):
		return daylog.LevelDebug
	}
	return daylog.LevelSuppressed
}
