// FILE: lixenwraith/daylog/utility_test.go
package daylog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKeyValue(t *testing.T) {
	tests := []struct {
		input     string
		wantKey   string
		wantValue string
		wantErr   bool
	}{
		{"key=value", "key", "value", false},
		{" key = value ", "key", "value", false},
		{"key=value=with=equals", "key", "value=with=equals", false},
		{"noequals", "", "", true},
		{"=value", "", "", true},
		{"key=", "key", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			key, value, err := parseKeyValue(tt.input)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantKey, key)
				assert.Equal(t, tt.wantValue, value)
			}
		})
	}
}

func TestFmtErrorf(t *testing.T) {
	err := fmtErrorf("test error: %s", "details")
	assert.Error(t, err)
	assert.Equal(t, "daylog: test error: details", err.Error())

	// Already prefixed
	err = fmtErrorf("daylog: already prefixed")
	assert.Equal(t, "daylog: already prefixed", err.Error())

	// Wrapping keeps the cause
	cause := errors.New("cause")
	assert.ErrorIs(t, fmtErrorf("outer: %w", cause), cause)
}

// TestApplyConfigString tests applying configuration overrides from key-value strings
func TestApplyConfigString(t *testing.T) {
	tests := []struct {
		name         string
		configString []string
		verify       func(t *testing.T, l *Logger)
		wantError    string
	}{
		{
			name: "basic config string",
			configString: []string{
				"level=debug",
				"format=json",
				"max_files=3",
			},
			verify: func(t *testing.T, l *Logger) {
				cfg := l.GetConfig()
				assert.Equal(t, "debug", cfg.Level)
				assert.Equal(t, "json", cfg.Format)
				assert.Equal(t, int64(3), cfg.MaxFiles)
				assert.Equal(t, LevelDebug, l.LogThreshold())
			},
		},
		{
			name:         "numeric level",
			configString: []string{"level=4"},
			verify: func(t *testing.T, l *Logger) {
				assert.Equal(t, "warn", l.GetConfig().Level)
				assert.Equal(t, LevelWarning, l.LogThreshold())
			},
		},
		{
			name:         "numeric suppressed level",
			configString: []string{"level=0"},
			verify: func(t *testing.T, l *Logger) {
				assert.Equal(t, "none", l.GetConfig().Level)
				assert.Equal(t, LevelSuppressed, l.LogThreshold())
			},
		},
		{
			name: "boolean values",
			configString: []string{
				"evict_on_rollover=true",
				"internal_errors_to_stderr=true",
			},
			verify: func(t *testing.T, l *Logger) {
				cfg := l.GetConfig()
				assert.True(t, cfg.EvictOnRollover)
				assert.True(t, cfg.InternalErrorsToStderr)
			},
		},
		{
			name:         "invalid format",
			configString: []string{"invalid"},
			wantError:    "expected key=value",
		},
		{
			name:         "unknown key",
			configString: []string{"unknown_key=value"},
			wantError:    "unknown configuration key",
		},
		{
			name:         "invalid value type",
			configString: []string{"max_files=not_a_number"},
			wantError:    "invalid integer value for max_files",
		},
		{
			name:         "level out of range",
			configString: []string{"level=9"},
			wantError:    "level out of range",
		},
		{
			name:         "fails validation",
			configString: []string{"console_target=printer"},
			wantError:    "invalid console_target",
		},
		{
			name:         "multiple errors",
			configString: []string{"enable_file=maybe", "bogus=1"},
			wantError:    "multiple configuration errors",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := NewLogger()
			defer logger.Shutdown()

			err := logger.ApplyConfigString(tt.configString...)
			if tt.wantError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantError)
				// Rejected overrides leave the configuration untouched
				assert.Equal(t, DefaultConfig(), logger.GetConfig())
				return
			}
			require.NoError(t, err)
			tt.verify(t, logger)
		})
	}
}

func TestCombineConfigErrors(t *testing.T) {
	assert.NoError(t, combineConfigErrors(nil))

	single := fmtErrorf("only one")
	assert.Equal(t, single, combineConfigErrors([]error{single}))

	err := combineConfigErrors([]error{fmtErrorf("first"), fmtErrorf("second")})
	assert.Equal(t, "daylog: multiple configuration errors:\n  1. first\n  2. second", err.Error())
}
