// Package formatter turns records into human-readable lines. Formatters are strategy values
// shared freely between sinks; a console formatter is the default one with the timestamp and
// level fields forced absent.
package formatter

import (
	"bytes"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/davecgh/go-spew/spew"

	"github.com/lixenwraith/daylog/record"
	"github.com/lixenwraith/daylog/sanitizer"
)

// DefaultTimestampFormat renders millisecond precision with a numeric zone offset
const DefaultTimestampFormat = "2006-01-02 15:04:05.000 -0700"

// Formatter renders a record at a level into a single string without a trailing newline
type Formatter interface {
	Format(rec record.Record, level record.Level) string
}

// Func adapts an ordinary function to the Formatter interface
type Func func(rec record.Record, level record.Level) string

// Format calls f
func (f Func) Format(rec record.Record, level record.Level) string {
	return f(rec, level)
}

// Default composes "timestamp level [file:line function] message" followed by the attachment.
// Every absent component is dropped together with its separator.
type Default struct {
	timestampFormat string
	showTimestamp   bool
	showLevel       bool
	symbols         bool

	mu        sync.Mutex // Sanitizer reuses its buffer
	sanitizer *sanitizer.Sanitizer
}

// New creates the default text formatter
func New() *Default {
	return &Default{
		timestampFormat: DefaultTimestampFormat,
		showTimestamp:   true,
		showLevel:       true,
	}
}

// NewConsole creates a formatter for destinations that stamp time and severity themselves
func NewConsole() *Default {
	return New().ShowTimestamp(false).ShowLevel(false)
}

// TimestampFormat sets the time layout
func (f *Default) TimestampFormat(layout string) *Default {
	if layout != "" {
		f.timestampFormat = layout
	}
	return f
}

// ShowTimestamp sets whether the timestamp is rendered
func (f *Default) ShowTimestamp(show bool) *Default {
	f.showTimestamp = show
	return f
}

// ShowLevel sets whether the level marker is rendered
func (f *Default) ShowLevel(show bool) *Default {
	f.showLevel = show
	return f
}

// Symbols switches level markers from names to pictographs
func (f *Default) Symbols(use bool) *Default {
	f.symbols = use
	return f
}

// Sanitizer sets the sanitizer applied to messages. Attachments are left untouched.
func (f *Default) Sanitizer(s *sanitizer.Sanitizer) *Default {
	f.sanitizer = s
	return f
}

// Format implements Formatter
func (f *Default) Format(rec record.Record, level record.Level) string {
	parts := make([]string, 0, 4)

	if ts, ok := f.timestamp(rec.Time); ok {
		parts = append(parts, ts)
	}
	if lvl, ok := f.level(level); ok {
		parts = append(parts, lvl)
	}
	if loc, ok := location(rec.Source, level); ok {
		parts = append(parts, loc)
	}
	if msg, ok := f.message(rec.Message); ok {
		parts = append(parts, msg)
	}

	out := strings.Join(parts, " ")
	if info, ok := attachment(rec.Attachment); ok {
		out += info
	}
	return out
}

func (f *Default) timestamp(t time.Time) (string, bool) {
	if !f.showTimestamp || t.IsZero() {
		return "", false
	}
	return t.Format(f.timestampFormat), true
}

func (f *Default) level(l record.Level) (string, bool) {
	if !f.showLevel {
		return "", false
	}
	marker := l.String()
	if f.symbols {
		marker = l.Symbol()
	}
	return marker, marker != ""
}

func (f *Default) message(msg string) (string, bool) {
	if msg == "" {
		return "", false
	}
	if f.sanitizer != nil {
		f.mu.Lock()
		msg = f.sanitizer.Sanitize(msg)
		f.mu.Unlock()
	}
	return msg, true
}

// location renders "[file:line function]". The function is only shown for verbose records.
func location(src record.Source, level record.Level) (string, bool) {
	file, hasFile := fileName(src.File)
	line, hasLine := lineNumber(src.Line)
	fn, hasFn := "", false
	if level <= record.LevelVerbose {
		fn, hasFn = functionName(src.Function)
	}
	if !hasFile && !hasLine && !hasFn {
		return "", false
	}

	var b strings.Builder
	b.WriteByte('[')
	b.WriteString(file)
	if hasLine {
		b.WriteByte(':')
		b.WriteString(line)
	}
	if hasFn {
		if hasFile || hasLine {
			b.WriteByte(' ')
		}
		b.WriteString(fn)
	}
	b.WriteByte(']')
	return b.String(), true
}

func fileName(path string) (string, bool) {
	name := path[strings.LastIndexByte(path, '/')+1:]
	return name, name != ""
}

func functionName(fn string) (string, bool) {
	return fn, fn != ""
}

func lineNumber(line uint) (string, bool) {
	if line == 0 {
		return "", false
	}
	return strconv.FormatUint(uint64(line), 10), true
}

// attachment renders the attachment suffix, custom messages verbatim and anything else on
// its own line
func attachment(v any) (string, bool) {
	if v == nil {
		return "", false
	}
	if cm, ok := v.(record.CustomMessager); ok && !isNilPointer(v) {
		return safeString(cm.LogMessage), true
	}
	return "\n" + Describe(v), true
}

// dumper prints composite attachments compactly and deterministically
var dumper = &spew.ConfigState{
	Indent:                  " ",
	MaxDepth:                10,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// Describe returns the default text representation of an attachment value
func Describe(v any) string {
	switch val := v.(type) {
	case nil:
		return "nil"
	case string:
		return val
	case []byte:
		return string(val)
	}
	if isNilPointer(v) {
		return nilPointer
	}
	switch val := v.(type) {
	case error:
		return safeString(val.Error)
	case interface{ String() string }:
		return safeString(val.String)
	}

	switch reflect.TypeOf(v).Kind() {
	case reflect.Bool, reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128, reflect.String:
		return spew.Sprint(v)
	}

	var b bytes.Buffer
	dumper.Fdump(&b, v)
	return string(bytes.TrimSpace(b.Bytes()))
}

// nilPointer stands in for typed-nil pointers, whose methods usually dereference the receiver
const nilPointer = "<nil>"

func isNilPointer(v any) bool {
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

// safeString calls a rendering method, turning a panic into a marker so the record survives
func safeString(fn func() string) (s string) {
	defer func() {
		if r := recover(); r != nil {
			s = fmt.Sprintf("<render panic: %v>", r)
		}
	}()
	return fn()
}
