// FILE: lixenwraith/daylog/config.go
package daylog

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/lixenwraith/config"

	"github.com/lixenwraith/daylog/formatter"
	"github.com/lixenwraith/daylog/record"
	"github.com/lixenwraith/daylog/sanitizer"
)

// Config holds all logger configuration values
type Config struct {
	// Basic settings
	Level string `toml:"level"` // none, verbose, debug, info, warn, error

	// Day file output
	EnableFile      bool   `toml:"enable_file"`
	Directory       string `toml:"directory"`
	MaxFiles        int64  `toml:"max_files"`         // Files kept in directory, 0 = default
	EvictOnRollover bool   `toml:"evict_on_rollover"` // Also evict when the day changes

	// Console output
	EnableConsole bool   `toml:"enable_console"`
	ConsoleTarget string `toml:"console_target"` // "stdout" or "stderr"

	// Formatting
	Format          string `toml:"format"` // "txt" or "json"
	TimestampFormat string `toml:"timestamp_format"`
	LevelMarker     string `toml:"level_marker"` // "name" or "symbol"
	Sanitization    string `toml:"sanitization"` // raw, hex, strip, escape

	// Size-rotated output, disabled when RollingFile is empty
	RollingFile       string `toml:"rolling_file"`
	RollingMaxSizeMB  int64  `toml:"rolling_max_size_mb"`
	RollingMaxBackups int64  `toml:"rolling_max_backups"`

	// Timers
	FlushTimeoutMs int64 `toml:"flush_timeout_ms"` // Default wait for Flush and Shutdown

	// Internal error handling
	InternalErrorsToStderr bool `toml:"internal_errors_to_stderr"` // Write internal errors to stderr
}

// defaultConfig is the single source for all configurable default values
var defaultConfig = Config{
	Level: "none",

	EnableFile:      false,
	Directory:       DefaultDirectory,
	MaxFiles:        DefaultMaxFiles,
	EvictOnRollover: false,

	EnableConsole: false,
	ConsoleTarget: "stdout",

	Format:          "txt",
	TimestampFormat: formatter.DefaultTimestampFormat,
	LevelMarker:     "name",
	Sanitization:    "raw",

	RollingFile:       "",
	RollingMaxSizeMB:  10,
	RollingMaxBackups: 3,

	FlushTimeoutMs: 1000,

	InternalErrorsToStderr: false,
}

// DefaultConfig returns a copy of the default configuration
func DefaultConfig() *Config {
	// Create a copy to prevent modifications to the original
	copiedConfig := defaultConfig
	return &copiedConfig
}

// NewConfigFromFile loads the [log] section of a TOML file and returns a validated Config.
// A missing file yields the defaults.
func NewConfigFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	// Use lixenwraith/config as a loader
	loader := config.New()

	// Register the struct to enable proper unmarshaling
	if err := loader.RegisterStruct("log.", *cfg); err != nil {
		return nil, fmtErrorf("failed to register config struct: %w", err)
	}

	// Load from file (handles file not found gracefully)
	if err := loader.Load(path, nil); err != nil && !errors.Is(err, config.ErrConfigNotFound) {
		return nil, fmtErrorf("failed to load config from %s: %w", path, err)
	}

	// Extract values into our Config struct
	if err := extractConfig(loader, "log.", cfg); err != nil {
		return nil, fmtErrorf("failed to extract config values: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// NewConfigFromDefaults creates a Config with default values and applies overrides keyed by
// toml name
func NewConfigFromDefaults(overrides map[string]any) (*Config, error) {
	cfg := DefaultConfig()

	if err := applyOverrides(cfg, overrides); err != nil {
		return nil, fmtErrorf("failed to apply overrides: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the configuration as a [log] TOML section
func (c *Config) Save(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return fmtErrorf("failed to create config file '%s': %w", path, err)
	}

	doc := struct {
		Log *Config `toml:"log"`
	}{Log: c}
	if err := toml.NewEncoder(f).Encode(doc); err != nil {
		_ = f.Close()
		return fmtErrorf("failed to encode config to '%s': %w", path, err)
	}
	return f.Close()
}

// extractConfig extracts values from lixenwraith/config into our Config struct
func extractConfig(loader *config.Config, prefix string, cfg *Config) error {
	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldValue := v.Field(i)

		tomlTag := field.Tag.Get("toml")
		if tomlTag == "" {
			continue
		}

		val, found := loader.Get(prefix + tomlTag)
		if !found {
			continue // Keep default value
		}

		if err := setFieldValue(fieldValue, val); err != nil {
			return fmt.Errorf("failed to set field %s: %w", field.Name, err)
		}
	}

	return nil
}

// applyOverrides applies a map of overrides to the Config struct
func applyOverrides(cfg *Config, overrides map[string]any) error {
	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()

	fieldMap := make(map[string]reflect.Value)
	for i := 0; i < t.NumField(); i++ {
		if tomlTag := t.Field(i).Tag.Get("toml"); tomlTag != "" {
			fieldMap[tomlTag] = v.Field(i)
		}
	}

	for key, value := range overrides {
		fieldValue, exists := fieldMap[key]
		if !exists {
			return fmt.Errorf("unknown config key: %s", key)
		}

		if err := setFieldValue(fieldValue, value); err != nil {
			return fmt.Errorf("failed to set %s: %w", key, err)
		}
	}

	return nil
}

// setFieldValue sets a reflect.Value with proper type conversion
func setFieldValue(field reflect.Value, value any) error {
	switch field.Kind() {
	case reflect.String:
		strVal, ok := value.(string)
		if !ok {
			return fmt.Errorf("expected string, got %T", value)
		}
		field.SetString(strVal)

	case reflect.Int64:
		switch v := value.(type) {
		case int64:
			field.SetInt(v)
		case int:
			field.SetInt(int64(v))
		case float64:
			if v != float64(int64(v)) {
				return fmt.Errorf("expected integer, got %v", v)
			}
			field.SetInt(int64(v))
		default:
			return fmt.Errorf("expected int64, got %T", value)
		}

	case reflect.Bool:
		boolVal, ok := value.(bool)
		if !ok {
			return fmt.Errorf("expected bool, got %T", value)
		}
		field.SetBool(boolVal)

	default:
		return fmt.Errorf("unsupported field type: %v", field.Kind())
	}

	return nil
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if _, err := record.ParseLevel(c.Level); err != nil {
		return fmtErrorf("invalid level: '%s' (use none, verbose, debug, info, warn, error)", c.Level)
	}

	if c.EnableFile && strings.TrimSpace(c.Directory) == "" {
		return fmtErrorf("directory cannot be empty when file output is enabled")
	}

	if c.MaxFiles < 0 {
		return fmtErrorf("max_files cannot be negative: %d", c.MaxFiles)
	}

	if c.ConsoleTarget != "stdout" && c.ConsoleTarget != "stderr" {
		return fmtErrorf("invalid console_target: '%s' (use stdout or stderr)", c.ConsoleTarget)
	}

	if c.Format != "txt" && c.Format != "json" {
		return fmtErrorf("invalid format: '%s' (use txt or json)", c.Format)
	}

	if strings.TrimSpace(c.TimestampFormat) == "" {
		return fmtErrorf("timestamp_format cannot be empty")
	}

	if c.LevelMarker != "name" && c.LevelMarker != "symbol" {
		return fmtErrorf("invalid level_marker: '%s' (use name or symbol)", c.LevelMarker)
	}

	if _, err := sanitizer.ParseMode(c.Sanitization); err != nil {
		return fmtErrorf("invalid sanitization: %w", err)
	}

	if c.RollingMaxSizeMB < 0 || c.RollingMaxBackups < 0 {
		return fmtErrorf("rolling limits cannot be negative")
	}

	if c.FlushTimeoutMs <= 0 {
		return fmtErrorf("flush_timeout_ms must be positive: %d", c.FlushTimeoutMs)
	}

	return nil
}

// Clone creates a deep copy of the configuration
func (c *Config) Clone() *Config {
	copiedConfig := *c
	return &copiedConfig
}

// threshold returns the parsed level, LevelSuppressed if invalid
func (c *Config) threshold() record.Level {
	level, _ := record.ParseLevel(c.Level)
	return level
}

// sinksChanged reports whether moving from c to next requires rebuilding configured sinks
func (c *Config) sinksChanged(next *Config) bool {
	return c.EnableFile != next.EnableFile ||
		c.Directory != next.Directory ||
		c.MaxFiles != next.MaxFiles ||
		c.EvictOnRollover != next.EvictOnRollover ||
		c.EnableConsole != next.EnableConsole ||
		c.ConsoleTarget != next.ConsoleTarget ||
		c.Format != next.Format ||
		c.TimestampFormat != next.TimestampFormat ||
		c.LevelMarker != next.LevelMarker ||
		c.Sanitization != next.Sanitization ||
		c.RollingFile != next.RollingFile ||
		c.RollingMaxSizeMB != next.RollingMaxSizeMB ||
		c.RollingMaxBackups != next.RollingMaxBackups
}
