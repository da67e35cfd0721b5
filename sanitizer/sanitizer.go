// FILE: lixenwraith/daylog/sanitizer/sanitizer.go
// Package sanitizer neutralizes control and non-printable characters in log messages so a
// rendered record cannot inject terminal sequences or forge extra lines.
package sanitizer

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Mode selects how offending characters are transformed
type Mode int

const (
	None      Mode = iota // Passthrough
	HexEncode             // Replace with "<xx>" of the UTF-8 bytes
	Strip                 // Remove
	Escape                // JSON-style backslash escapes
)

// Sanitizer applies a single Mode. Not safe for concurrent use, the buffer is reused.
type Sanitizer struct {
	mode Mode
	buf  []byte
}

// New creates a sanitizer for the given mode
func New(mode Mode) *Sanitizer {
	return &Sanitizer{
		mode: mode,
		buf:  make([]byte, 0, 256),
	}
}

// ParseMode converts a configuration name to a Mode
func ParseMode(name string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none", "raw":
		return None, nil
	case "hex", "txt":
		return HexEncode, nil
	case "strip":
		return Strip, nil
	case "escape", "json":
		return Escape, nil
	default:
		return None, fmt.Errorf("sanitizer: unknown mode '%s' (use none, hex, strip, escape)", name)
	}
}

// Mode returns the configured mode
func (s *Sanitizer) Mode() Mode {
	return s.mode
}

// Sanitize returns data with every non-printable rune transformed per the mode
func (s *Sanitizer) Sanitize(data string) string {
	if s == nil || s.mode == None {
		return data
	}

	// Fast path: nothing to do
	clean := true
	for _, r := range data {
		if !strconv.IsPrint(r) {
			clean = false
			break
		}
	}
	if clean {
		return data
	}

	s.buf = s.buf[:0]
	for _, r := range data {
		if strconv.IsPrint(r) {
			s.buf = utf8.AppendRune(s.buf, r)
			continue
		}
		switch s.mode {
		case Strip:
		case HexEncode:
			var rb [utf8.UTFMax]byte
			n := utf8.EncodeRune(rb[:], r)
			s.buf = append(s.buf, '<')
			s.buf = hex.AppendEncode(s.buf, rb[:n])
			s.buf = append(s.buf, '>')
		case Escape:
			s.buf = appendEscaped(s.buf, r)
		}
	}
	return string(s.buf)
}

func appendEscaped(buf []byte, r rune) []byte {
	switch r {
	case '\n':
		return append(buf, '\\', 'n')
	case '\r':
		return append(buf, '\\', 'r')
	case '\t':
		return append(buf, '\\', 't')
	case '\b':
		return append(buf, '\\', 'b')
	case '\f':
		return append(buf, '\\', 'f')
	default:
		return fmt.Appendf(buf, "\\u%04x", r)
	}
}
