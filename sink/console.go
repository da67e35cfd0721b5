package sink

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/lixenwraith/daylog/formatter"
	"github.com/lixenwraith/daylog/record"
)

// Console emits records through the process's structured console log. The zap entry adds
// time and severity, so the default formatter omits both and the level marker becomes the
// logger name (category).
type Console struct {
	identity
	formatter  formatter.Formatter
	base       *zap.Logger
	categories map[record.Level]*zap.Logger
}

// NewConsole creates a console sink on a zap development console encoder writing to w.
// A nil w means stdout.
func NewConsole(w io.Writer, opts ...Option) *Console {
	if w == nil {
		w = os.Stdout
	}
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.Lock(zapcore.AddSync(w)),
		zapcore.DebugLevel,
	)
	return NewConsoleWithLogger(zap.New(core), opts...)
}

// NewConsoleWithLogger creates a console sink on an existing zap logger
func NewConsoleWithLogger(logger *zap.Logger, opts ...Option) *Console {
	o := buildOptions(func() formatter.Formatter { return formatter.NewConsole() }, opts)

	c := &Console{
		identity:   identity{id: identifierOr(o.id)},
		formatter:  o.formatter,
		base:       logger,
		categories: make(map[record.Level]*zap.Logger),
	}
	for _, lvl := range []record.Level{record.LevelVerbose, record.LevelDebug, record.LevelInfo, record.LevelWarning, record.LevelError} {
		c.categories[lvl] = logger.Named(lvl.String())
	}
	return c
}

// Formatter implements Sink
func (c *Console) Formatter() formatter.Formatter {
	return c.formatter
}

// Persist implements Sink
func (c *Console) Persist(rec record.Record, level record.Level) error {
	msg := c.formatter.Format(rec, level)

	logger, ok := c.categories[level]
	if !ok {
		logger = c.base
	}

	switch level {
	case record.LevelVerbose, record.LevelDebug:
		logger.Debug(msg)
	case record.LevelWarning:
		logger.Warn(msg)
	case record.LevelError:
		logger.Error(msg)
	default:
		logger.Info(msg)
	}
	return nil
}

// Sync flushes the zap core. Sync errors on terminals are expected and ignored.
func (c *Console) Sync() error {
	_ = c.base.Sync()
	return nil
}
