// FILE: lixenwraith/daylog/utility.go
package daylog

import (
	"fmt"
	"os"
	"strings"
)

// fmtErrorf wrapper
func fmtErrorf(format string, args ...any) error {
	if !strings.HasPrefix(format, "daylog: ") {
		format = "daylog: " + format
	}
	return fmt.Errorf(format, args...)
}

// parseKeyValue splits a "key=value" string.
func parseKeyValue(arg string) (string, string, error) {
	parts := strings.SplitN(strings.TrimSpace(arg), "=", 2)
	if len(parts) != 2 {
		return "", "", fmtErrorf("invalid format in override string '%s', expected key=value", arg)
	}
	key := strings.TrimSpace(parts[0])
	value := strings.TrimSpace(parts[1])
	if key == "" {
		return "", "", fmtErrorf("key cannot be empty in override string '%s'", arg)
	}
	return key, value, nil
}

// internalLog writes the logger's own diagnostics to stderr when enabled in config
func (l *Logger) internalLog(format string, args ...any) {
	if !l.getConfig().InternalErrorsToStderr {
		return
	}
	if !strings.HasPrefix(format, "daylog: ") {
		format = "daylog: " + format
	}
	fmt.Fprintf(os.Stderr, format, args...)
}

// internalError adapts internalLog to the error hooks of the dispatcher and sinks
func (l *Logger) internalError(err error) {
	msg := strings.TrimPrefix(err.Error(), "daylog: ")
	l.internalLog("%s\n", msg)
}
