package formatter

import (
	"encoding/json"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/daylog/record"
	"github.com/lixenwraith/daylog/sanitizer"
)

type requestDump struct{}

func (requestDump) LogMessage() string { return "\n----> REQUEST" }

type payload struct {
	ID   int
	Tags map[string]string
}

func testRecord() record.Record {
	return record.Record{
		Message: "payment done",
		Time:    time.Date(2024, 3, 9, 14, 5, 7, 123_000_000, time.UTC),
		Source: record.Source{
			File:     "/home/dev/app/checkout/Payment.go",
			Function: "(*Payment).Commit",
			Line:     37,
		},
	}
}

func TestDefaultFormatter(t *testing.T) {
	t.Run("full composition", func(t *testing.T) {
		out := New().Format(testRecord(), record.LevelInfo)
		assert.Equal(t, "2024-03-09 14:05:07.123 +0000 INFO [Payment.go:37] payment done", out)
	})

	t.Run("function only at verbose", func(t *testing.T) {
		f := NewConsole()
		assert.Equal(t, "[Payment.go:37 (*Payment).Commit] payment done", f.Format(testRecord(), record.LevelVerbose))
		assert.Equal(t, "[Payment.go:37] payment done", f.Format(testRecord(), record.LevelDebug))
	})

	t.Run("omitted fields drop their separators", func(t *testing.T) {
		rec := record.Record{Source: record.Source{File: "view.tmpl"}}
		assert.Equal(t, "[view.tmpl]", NewConsole().Format(rec, record.LevelInfo))
		assert.Equal(t, "[view.tmpl]", NewConsole().Format(rec, record.LevelVerbose))
	})

	t.Run("line without file", func(t *testing.T) {
		rec := record.Record{Message: "m", Source: record.Source{Line: 9}}
		assert.Equal(t, "[:9] m", NewConsole().Format(rec, record.LevelInfo))
	})

	t.Run("function without file or line", func(t *testing.T) {
		rec := record.Record{Source: record.Source{Function: "run"}}
		assert.Equal(t, "[run]", NewConsole().Format(rec, record.LevelVerbose))
	})

	t.Run("no location at all", func(t *testing.T) {
		rec := record.Record{Message: "bare"}
		assert.Equal(t, "bare", NewConsole().Format(rec, record.LevelInfo))
		assert.Equal(t, "WARN bare", New().Format(rec, record.LevelWarning), "zero time is omitted")
	})

	t.Run("symbols", func(t *testing.T) {
		rec := record.Record{Message: "x"}
		assert.Equal(t, "⚠️ x", New().Symbols(true).Format(rec, record.LevelWarning))
	})

	t.Run("timestamp layout", func(t *testing.T) {
		out := New().TimestampFormat(time.RFC3339).ShowLevel(false).Format(testRecord(), record.LevelInfo)
		assert.True(t, strings.HasPrefix(out, "2024-03-09T14:05:07Z [Payment.go:37]"))
	})

	t.Run("sanitizer only touches the message", func(t *testing.T) {
		rec := record.Record{Message: "a\nb", Attachment: "c\nd"}
		out := NewConsole().Sanitizer(sanitizer.New(sanitizer.Escape)).Format(rec, record.LevelInfo)
		assert.Equal(t, "a\\nb\nc\nd", out)
	})
}

func TestAttachments(t *testing.T) {
	f := NewConsole()
	base := record.Record{Message: "msg"}

	t.Run("custom message", func(t *testing.T) {
		out := f.Format(base.Attach(requestDump{}), record.LevelDebug)
		assert.Equal(t, "msg\n----> REQUEST", out)
	})

	t.Run("string", func(t *testing.T) {
		assert.Equal(t, "msg\ndetails", f.Format(base.Attach("details"), record.LevelDebug))
	})

	t.Run("error", func(t *testing.T) {
		assert.Equal(t, "msg\nboom", f.Format(base.Attach(errors.New("boom")), record.LevelError))
	})

	t.Run("scalar", func(t *testing.T) {
		assert.Equal(t, "msg\n42", f.Format(base.Attach(42), record.LevelInfo))
	})

	t.Run("composite uses dump", func(t *testing.T) {
		out := f.Format(base.Attach(payload{ID: 7, Tags: map[string]string{"b": "2", "a": "1"}}), record.LevelInfo)
		assert.True(t, strings.HasPrefix(out, "msg\n"))
		assert.Contains(t, out, "ID: (int) 7")
		assert.Less(t, strings.Index(out, `"a"`), strings.Index(out, `"b"`), "map keys sorted")
	})

	t.Run("empty message keeps attachment", func(t *testing.T) {
		rec := record.Record{}.Attach("only")
		assert.Equal(t, "\nonly", f.Format(rec, record.LevelInfo))
	})
}

type codeError struct{ code int }

func (e *codeError) Error() string { return "code " + strings.Repeat("!", e.code) }

type counterDump struct{ n int }

func (d *counterDump) LogMessage() string { return strings.Repeat("#", d.n) }

type brokenStringer struct{}

func (brokenStringer) String() string { panic("bad state") }

// Attachments whose methods cannot run still render, so the record is kept
func TestTypedNilAttachments(t *testing.T) {
	var nilErr error = (*codeError)(nil)
	base := record.New("m", "f.go", "", 1)

	tests := []struct {
		name       string
		attachment any
		want       string
	}{
		{"nil stringer", (*url.URL)(nil), "[f.go:1] m\n<nil>"},
		{"nil error", nilErr, "[f.go:1] m\n<nil>"},
		{"nil custom message", (*counterDump)(nil), "[f.go:1] m\n<nil>"},
		{"panicking stringer", brokenStringer{}, "[f.go:1] m\n<render panic: bad state>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out string
			require.NotPanics(t, func() {
				out = NewConsole().Format(base.Attach(tt.attachment), record.LevelInfo)
			})
			assert.Equal(t, tt.want, out)

			require.NotPanics(t, func() {
				out = NewJSON().Format(base.Attach(tt.attachment), record.LevelInfo)
			})
			var entry map[string]any
			require.NoError(t, json.Unmarshal([]byte(out), &entry))
			assert.Equal(t, "m", entry["message"])
		})
	}

	assert.NotPanics(t, func() {
		New().Format(base.Attach((*url.URL)(nil)), record.LevelInfo)
	})
}

func TestFormatterFunc(t *testing.T) {
	var f Formatter = Func(func(rec record.Record, level record.Level) string {
		return level.String() + ":" + rec.Message
	})
	assert.Equal(t, "INFO:hi", f.Format(record.Record{Message: "hi"}, record.LevelInfo))
}

func TestJSONFormatter(t *testing.T) {
	t.Run("fields", func(t *testing.T) {
		rec := testRecord().Attach(map[string]int{"amount": 5})
		out := NewJSON().TimestampFormat(time.RFC3339).Format(rec, record.LevelWarning)

		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &entry))
		assert.Equal(t, "2024-03-09T14:05:07Z", entry["time"])
		assert.Equal(t, "WARN", entry["level"])
		assert.Equal(t, "Payment.go", entry["file"])
		assert.Equal(t, float64(37), entry["line"])
		assert.Equal(t, "payment done", entry["message"])
		assert.NotContains(t, entry, "function")
		assert.Equal(t, map[string]any{"amount": float64(5)}, entry["attachment"])
		assert.False(t, strings.HasSuffix(out, "\n"))
	})

	t.Run("verbose carries function", func(t *testing.T) {
		out := NewJSON().Format(testRecord(), record.LevelVerbose)
		assert.Contains(t, out, `"function":"(*Payment).Commit"`)
	})

	t.Run("custom message and unmarshalable attachment", func(t *testing.T) {
		out := NewJSON().Format(record.Record{Message: "m"}.Attach(requestDump{}), record.LevelDebug)
		assert.Contains(t, out, `"attachment":"\n----> REQUEST"`)

		out = NewJSON().Format(record.Record{Message: "m"}.Attach(make(chan int)), record.LevelDebug)
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &entry))
		assert.IsType(t, "", entry["attachment"])
	})
}
