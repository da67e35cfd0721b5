package sink

import (
	"io"

	"github.com/lixenwraith/daylog/formatter"
	"github.com/lixenwraith/daylog/record"
)

// Writer commits newline-terminated formatted records to an io.Writer
type Writer struct {
	identity
	formatter formatter.Formatter
	w         io.Writer
	buf       []byte
}

// NewWriter creates a writer sink using the default formatter unless overridden
func NewWriter(w io.Writer, opts ...Option) *Writer {
	o := buildOptions(func() formatter.Formatter { return formatter.New() }, opts)
	return &Writer{
		identity:  identity{id: identifierOr(o.id)},
		formatter: o.formatter,
		w:         w,
		buf:       make([]byte, 0, 1024),
	}
}

// Formatter implements Sink
func (s *Writer) Formatter() formatter.Formatter {
	return s.formatter
}

// Persist implements Sink
func (s *Writer) Persist(rec record.Record, level record.Level) error {
	s.buf = append(s.buf[:0], s.formatter.Format(rec, level)...)
	s.buf = append(s.buf, '\n')
	_, err := s.w.Write(s.buf)
	return err
}

// Sync syncs the underlying writer when it supports it
func (s *Writer) Sync() error {
	if syncer, ok := s.w.(Syncer); ok {
		return syncer.Sync()
	}
	return nil
}
