// FILE: lixenwraith/daylog/override.go
package daylog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lixenwraith/daylog/record"
)

// ApplyConfigString applies string key-value overrides to the logger's current configuration.
// Each override should be in the format "key=value".
// The configuration is cloned before modification.
//
// Example:
//
//	logger := daylog.NewLogger()
//	err := logger.ApplyConfigString(
//	    "level=debug",
//	    "enable_file=true",
//	    "directory=/var/log/app",
//	)
func (l *Logger) ApplyConfigString(overrides ...string) error {
	cfg := l.getConfig().Clone()

	var errors []error

	for _, override := range overrides {
		key, value, err := parseKeyValue(override)
		if err != nil {
			errors = append(errors, err)
			continue
		}

		if err := applyConfigField(cfg, key, value); err != nil {
			errors = append(errors, err)
		}
	}

	if len(errors) > 0 {
		return combineConfigErrors(errors)
	}

	return l.ApplyConfig(cfg)
}

// combineConfigErrors combines multiple configuration errors into a single error.
func combineConfigErrors(errors []error) error {
	if len(errors) == 0 {
		return nil
	}
	if len(errors) == 1 {
		return errors[0]
	}

	var sb strings.Builder
	sb.WriteString("daylog: multiple configuration errors:")
	for i, err := range errors {
		// Remove prefix from individual errors to avoid duplication
		errMsg := strings.TrimPrefix(err.Error(), "daylog: ")
		sb.WriteString(fmt.Sprintf("\n  %d. %s", i+1, errMsg))
	}
	return fmt.Errorf("%s", sb.String())
}

// applyConfigField applies a single key-value override to a Config.
func applyConfigField(cfg *Config, key, value string) error {
	switch key {
	case "level":
		// Accept both named and ordinal values
		if numVal, err := strconv.Atoi(value); err == nil {
			level := record.Level(numVal)
			if level < record.LevelSuppressed || level > record.LevelError {
				return fmtErrorf("level out of range: %d", numVal)
			}
			cfg.Level = strings.ToLower(level.String())
			if level == record.LevelSuppressed {
				cfg.Level = "none"
			}
		} else {
			if _, err := record.ParseLevel(value); err != nil {
				return fmtErrorf("invalid level value '%s': %w", value, err)
			}
			cfg.Level = value
		}

	// Day file output
	case "enable_file":
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return fmtErrorf("invalid boolean value for enable_file '%s': %w", value, err)
		}
		cfg.EnableFile = boolVal
	case "directory":
		cfg.Directory = value
	case "max_files":
		intVal, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmtErrorf("invalid integer value for max_files '%s': %w", value, err)
		}
		cfg.MaxFiles = intVal
	case "evict_on_rollover":
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return fmtErrorf("invalid boolean value for evict_on_rollover '%s': %w", value, err)
		}
		cfg.EvictOnRollover = boolVal

	// Console output
	case "enable_console":
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return fmtErrorf("invalid boolean value for enable_console '%s': %w", value, err)
		}
		cfg.EnableConsole = boolVal
	case "console_target":
		cfg.ConsoleTarget = value

	// Formatting
	case "format":
		cfg.Format = value
	case "timestamp_format":
		cfg.TimestampFormat = value
	case "level_marker":
		cfg.LevelMarker = value
	case "sanitization":
		cfg.Sanitization = value

	// Size-rotated output
	case "rolling_file":
		cfg.RollingFile = value
	case "rolling_max_size_mb":
		intVal, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmtErrorf("invalid integer value for rolling_max_size_mb '%s': %w", value, err)
		}
		cfg.RollingMaxSizeMB = intVal
	case "rolling_max_backups":
		intVal, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmtErrorf("invalid integer value for rolling_max_backups '%s': %w", value, err)
		}
		cfg.RollingMaxBackups = intVal

	// Timers
	case "flush_timeout_ms":
		intVal, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmtErrorf("invalid integer value for flush_timeout_ms '%s': %w", value, err)
		}
		cfg.FlushTimeoutMs = intVal

	// Internal error handling
	case "internal_errors_to_stderr":
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return fmtErrorf("invalid boolean value for internal_errors_to_stderr '%s': %w", value, err)
		}
		cfg.InternalErrorsToStderr = boolVal

	default:
		return fmtErrorf("unknown configuration key '%s'", key)
	}

	return nil
}
