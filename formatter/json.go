package formatter

import (
	"bytes"
	"encoding/json"
	"sync"

	"github.com/lixenwraith/daylog/record"
)

// JSON renders one JSON object per record, omitting empty fields
type JSON struct {
	timestampFormat string
	symbols         bool

	mu  sync.Mutex
	buf bytes.Buffer
}

type jsonEntry struct {
	Time       string `json:"time,omitempty"`
	Level      string `json:"level,omitempty"`
	File       string `json:"file,omitempty"`
	Line       uint   `json:"line,omitempty"`
	Function   string `json:"function,omitempty"`
	Message    string `json:"message,omitempty"`
	Attachment any    `json:"attachment,omitempty"`
}

// NewJSON creates a JSON formatter
func NewJSON() *JSON {
	return &JSON{timestampFormat: DefaultTimestampFormat}
}

// TimestampFormat sets the time layout
func (f *JSON) TimestampFormat(layout string) *JSON {
	if layout != "" {
		f.timestampFormat = layout
	}
	return f
}

// Symbols switches level markers from names to pictographs
func (f *JSON) Symbols(use bool) *JSON {
	f.symbols = use
	return f
}

// Format implements Formatter
func (f *JSON) Format(rec record.Record, level record.Level) string {
	entry := jsonEntry{
		Level:   level.String(),
		Line:    rec.Source.Line,
		Message: rec.Message,
	}
	if f.symbols {
		entry.Level = level.Symbol()
	}
	if !rec.Time.IsZero() {
		entry.Time = rec.Time.Format(f.timestampFormat)
	}
	entry.File, _ = fileName(rec.Source.File)
	if level <= record.LevelVerbose {
		entry.Function = rec.Source.Function
	}
	entry.Attachment = jsonAttachment(rec.Attachment)

	f.mu.Lock()
	defer f.mu.Unlock()

	f.buf.Reset()
	enc := json.NewEncoder(&f.buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(entry); err != nil {
		// Attachment could not be marshaled, fall back to its text form
		entry.Attachment = Describe(rec.Attachment)
		f.buf.Reset()
		if err := enc.Encode(entry); err != nil {
			return `{"_marshal_error":` + quote(err.Error()) + `}`
		}
	}
	return string(bytes.TrimRight(f.buf.Bytes(), "\n"))
}

func jsonAttachment(v any) any {
	if v == nil {
		return nil
	}
	if isNilPointer(v) {
		return nilPointer
	}
	switch val := v.(type) {
	case record.CustomMessager:
		return safeString(val.LogMessage)
	case error:
		return safeString(val.Error)
	case []byte:
		return string(val)
	}
	return v
}

func quote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
