package sink

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/lixenwraith/daylog/formatter"
	"github.com/lixenwraith/daylog/record"
)

// Rolling writes to a single file rotated by size, keeping a bounded number of backups
type Rolling struct {
	identity
	formatter formatter.Formatter
	out       *lumberjack.Logger
	buf       []byte
}

// RollingConfig holds the size-based rotation policy
type RollingConfig struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// NewRolling creates a size-rotated file sink. The file is opened lazily on first write; the
// directory is created up front and a failure goes to the error handler.
func NewRolling(cfg RollingConfig, opts ...Option) *Rolling {
	o := buildOptions(func() formatter.Formatter { return formatter.New() }, opts)
	if dir := filepath.Dir(cfg.Path); cfg.Path != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			o.onError(fmt.Errorf("sink: failed to create rolling log directory '%s': %w", dir, err))
		}
	}
	return &Rolling{
		identity:  identity{id: identifierOr(o.id)},
		formatter: o.formatter,
		out: &lumberjack.Logger{
			Filename:   cfg.Path,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress,
		},
		buf: make([]byte, 0, 1024),
	}
}

// Formatter implements Sink
func (s *Rolling) Formatter() formatter.Formatter {
	return s.formatter
}

// Persist implements Sink
func (s *Rolling) Persist(rec record.Record, level record.Level) error {
	s.buf = append(s.buf[:0], s.formatter.Format(rec, level)...)
	s.buf = append(s.buf, '\n')
	_, err := s.out.Write(s.buf)
	return err
}

// Rotate forces a rotation regardless of size
func (s *Rolling) Rotate() error {
	return s.out.Rotate()
}

// Path returns the active file path
func (s *Rolling) Path() string {
	return s.out.Filename
}

// Close releases the file
func (s *Rolling) Close() error {
	return s.out.Close()
}
