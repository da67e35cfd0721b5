// FILE: lixenwraith/daylog/builder.go
package daylog

import (
	"github.com/lixenwraith/daylog/record"
)

// Builder provides a fluent API for building logger configurations.
// It wraps a Config instance and provides chainable methods for setting values.
type Builder struct {
	cfg *Config
	err error // Accumulate errors for deferred handling
}

// NewBuilder creates a new configuration builder with default values.
func NewBuilder() *Builder {
	return &Builder{
		cfg: DefaultConfig(),
	}
}

// Build creates a new Logger instance with the specified configuration.
func (b *Builder) Build() (*Logger, error) {
	if b.err != nil {
		return nil, b.err
	}

	logger := NewLogger()

	// ApplyConfig handles validation and sink creation
	if err := logger.ApplyConfig(b.cfg); err != nil {
		_ = logger.Shutdown()
		return nil, err
	}

	return logger, nil
}

// NewLoggerFromFile builds a logger from the [log] section of a TOML file
func NewLoggerFromFile(path string) (*Logger, error) {
	cfg, err := NewConfigFromFile(path)
	if err != nil {
		return nil, err
	}
	logger := NewLogger()
	if err := logger.ApplyConfig(cfg); err != nil {
		_ = logger.Shutdown()
		return nil, err
	}
	return logger, nil
}

// Level sets the log threshold.
func (b *Builder) Level(level Level) *Builder {
	if level == LevelSuppressed {
		b.cfg.Level = "none"
		return b
	}
	b.cfg.Level = level.String()
	return b
}

// LevelString sets the log threshold from a string.
func (b *Builder) LevelString(level string) *Builder {
	if b.err != nil {
		return b
	}
	if _, err := record.ParseLevel(level); err != nil {
		b.err = fmtErrorf("%w", err)
		return b
	}
	b.cfg.Level = level
	return b
}

// Directory sets the day file directory.
func (b *Builder) Directory(dir string) *Builder {
	b.cfg.Directory = dir
	return b
}

// EnableFile enables the day file sink.
func (b *Builder) EnableFile(enable bool) *Builder {
	b.cfg.EnableFile = enable
	return b
}

// MaxFiles sets how many files the day file directory keeps.
func (b *Builder) MaxFiles(n int64) *Builder {
	b.cfg.MaxFiles = n
	return b
}

// EvictOnRollover also applies retention when the day changes.
func (b *Builder) EvictOnRollover(enable bool) *Builder {
	b.cfg.EvictOnRollover = enable
	return b
}

// EnableConsole enables the console sink.
func (b *Builder) EnableConsole(enable bool) *Builder {
	b.cfg.EnableConsole = enable
	return b
}

// ConsoleTarget selects "stdout" or "stderr" for the console sink.
func (b *Builder) ConsoleTarget(target string) *Builder {
	b.cfg.ConsoleTarget = target
	return b
}

// Format sets the file output format.
func (b *Builder) Format(format string) *Builder {
	b.cfg.Format = format
	return b
}

// TimestampFormat sets the time layout.
func (b *Builder) TimestampFormat(layout string) *Builder {
	b.cfg.TimestampFormat = layout
	return b
}

// LevelMarker selects "name" or "symbol" level markers.
func (b *Builder) LevelMarker(marker string) *Builder {
	b.cfg.LevelMarker = marker
	return b
}

// Sanitization sets the message sanitizer mode.
func (b *Builder) Sanitization(mode string) *Builder {
	b.cfg.Sanitization = mode
	return b
}

// RollingFile enables the size-rotated sink at path.
func (b *Builder) RollingFile(path string, maxSizeMB, maxBackups int64) *Builder {
	b.cfg.RollingFile = path
	b.cfg.RollingMaxSizeMB = maxSizeMB
	b.cfg.RollingMaxBackups = maxBackups
	return b
}

// FlushTimeoutMs sets the default Flush and Shutdown timeout.
func (b *Builder) FlushTimeoutMs(ms int64) *Builder {
	b.cfg.FlushTimeoutMs = ms
	return b
}

// InternalErrorsToStderr reports the logger's own failures on stderr.
func (b *Builder) InternalErrorsToStderr(enable bool) *Builder {
	b.cfg.InternalErrorsToStderr = enable
	return b
}

// Example usage:
// logger, err := daylog.NewBuilder().
//
//	Directory("/var/log/app").
//	EnableFile(true).
//	LevelString("debug").
//	EnableConsole(true).
//	Build()
//
// if err == nil {
//
//	 defer logger.Shutdown()
//	 logger.Infof("Logger initialized successfully")
//
// }
