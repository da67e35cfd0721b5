// FILE: lixenwraith/daylog/logger.go
package daylog

import (
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/multierr"

	"github.com/lixenwraith/daylog/formatter"
	"github.com/lixenwraith/daylog/sanitizer"
	"github.com/lixenwraith/daylog/sink"
)

// Logger is the facade over a dispatcher and its sinks. Each Logger is an independent context;
// there is no package-level instance.
type Logger struct {
	currentConfig atomic.Value // stores *Config
	initMu        sync.Mutex
	dispatcher    *Dispatcher

	fileMu    sync.RWMutex
	fileSinks []*sink.File // In registration order, the last one answers file queries

	configured     []string // Identifiers of sinks created from Config
	shutdownCalled atomic.Bool

	shutdownMu   sync.Mutex
	shutdownDone bool // Sinks closed
}

// NewLogger creates a started Logger with the default configuration: threshold suppressed and
// no sinks
func NewLogger() *Logger {
	l := &Logger{}
	l.currentConfig.Store(DefaultConfig())
	l.dispatcher = NewDispatcher(l.internalError)
	_ = l.dispatcher.Start()
	return l
}

// ApplyConfig validates cfg, sets the threshold and rebuilds the sinks it describes.
// Sinks added directly through AddSink and friends are left alone.
func (l *Logger) ApplyConfig(cfg *Config) error {
	if cfg == nil {
		return fmtErrorf("configuration cannot be nil")
	}

	if err := cfg.validate(); err != nil {
		return fmtErrorf("invalid configuration: %w", err)
	}

	l.initMu.Lock()
	defer l.initMu.Unlock()

	return l.applyConfig(cfg.Clone())
}

// GetConfig returns a copy of current configuration
func (l *Logger) GetConfig() *Config {
	return l.getConfig().Clone()
}

// SetLogThreshold sets the minimum level logged. LevelSuppressed disables logging.
func (l *Logger) SetLogThreshold(level Level) {
	l.dispatcher.SetThreshold(level)
}

// LogThreshold returns the minimum level logged
func (l *Logger) LogThreshold() Level {
	return l.dispatcher.Threshold()
}

// IsLoggable reports whether a record at level would currently be logged
func (l *Logger) IsLoggable(level Level) bool {
	return l.dispatcher.IsLoggable(level)
}

// Dispatcher exposes the underlying dispatcher
func (l *Logger) Dispatcher() *Dispatcher {
	return l.dispatcher
}

// AddSink registers s and returns its identifier
func (l *Logger) AddSink(s sink.Sink) string {
	if f, ok := s.(*sink.File); ok {
		l.fileMu.Lock()
		l.fileSinks = append(l.fileSinks, f)
		l.fileMu.Unlock()
	}
	l.dispatcher.Register(s)
	return s.Identifier()
}

// AddConsoleSink registers a console sink on stdout. Calling it twice registers two sinks.
func (l *Logger) AddConsoleSink(opts ...sink.Option) string {
	return l.AddSink(sink.NewConsole(os.Stdout, l.withErrorHandler(opts)...))
}

// AddFileSink registers a day-file sink in dir keeping at most maxFiles files.
// An empty dir uses DefaultDirectory and maxFiles below 1 uses DefaultMaxFiles.
func (l *Logger) AddFileSink(dir string, maxFiles int, opts ...sink.Option) string {
	if dir == "" {
		dir = DefaultDirectory
	}
	return l.AddSink(sink.NewFile(dir, maxFiles, l.withErrorHandler(opts)...))
}

// AddWriterSink registers a sink writing formatted lines to w
func (l *Logger) AddWriterSink(w io.Writer, opts ...sink.Option) string {
	return l.AddSink(sink.NewWriter(w, l.withErrorHandler(opts)...))
}

// AddRollingSink registers a size-rotated file sink
func (l *Logger) AddRollingSink(path string, maxSizeMB, maxBackups int, opts ...sink.Option) string {
	return l.AddSink(sink.NewRolling(sink.RollingConfig{
		Path:       path,
		MaxSizeMB:  maxSizeMB,
		MaxBackups: maxBackups,
	}, l.withErrorHandler(opts)...))
}

// FindSink returns the first sink tagged id
func (l *Logger) FindSink(id string) (sink.Sink, bool) {
	return l.dispatcher.FindSink(id)
}

// RemoveSink unregisters the first sink tagged id and closes it after the records already
// queued for it
func (l *Logger) RemoveSink(id string) bool {
	s, ok := l.dispatcher.Unregister(id)
	if !ok {
		return false
	}
	if f, isFile := s.(*sink.File); isFile {
		l.fileMu.Lock()
		for i, fs := range l.fileSinks {
			if fs == f {
				l.fileSinks = append(l.fileSinks[:i:i], l.fileSinks[i+1:]...)
				break
			}
		}
		l.fileMu.Unlock()
	}
	if closer, isCloser := s.(io.Closer); isCloser {
		if err := l.dispatcher.Enqueue(func() {
			if errClose := closer.Close(); errClose != nil {
				l.internalError(errClose)
			}
		}); err != nil {
			// Processor stopped, nothing else can reach the sink
			_ = closer.Close()
		}
	}
	return true
}

// AllLogFiles lists the files in the directory of the most recently added file sink. It runs
// after every record already submitted. Without a file sink it logs a warning and returns nil.
func (l *Logger) AllLogFiles() []string {
	f := l.currentFileSink()
	if f == nil {
		l.warnNoFileSink("AllLogFiles")
		return nil
	}

	var paths []string
	err := l.dispatcher.Do(func() {
		files, errList := f.AllLogFiles()
		if errList != nil {
			l.internalError(errList)
			return
		}
		paths = make([]string, 0, len(files))
		for _, file := range files {
			paths = append(paths, file.Path)
		}
	})
	if err != nil {
		l.internalError(err)
		return nil
	}
	return paths
}

// DeleteAllLogFiles schedules removal of every file in the directory of the most recently
// added file sink, after the records already submitted. Records submitted afterwards go to a
// fresh current-day file.
func (l *Logger) DeleteAllLogFiles() {
	f := l.currentFileSink()
	if f == nil {
		l.warnNoFileSink("DeleteAllLogFiles")
		return
	}

	if err := l.dispatcher.Enqueue(func() {
		if errDelete := f.DeleteAllLogs(); errDelete != nil {
			l.internalError(errDelete)
		}
	}); err != nil {
		l.internalError(err)
	}
}

// Flush waits for every record submitted so far to be persisted and synced.
// A zero timeout uses flush_timeout_ms.
func (l *Logger) Flush(timeout time.Duration) error {
	if l.shutdownCalled.Load() {
		return fmtErrorf("logger already shut down")
	}
	if timeout <= 0 {
		timeout = l.flushTimeout()
	}
	return l.dispatcher.Flush(timeout)
}

// Start resumes processing after Stop. Safe to call multiple times.
func (l *Logger) Start() error {
	if l.shutdownCalled.Load() {
		return fmtErrorf("logger already shut down")
	}
	return l.dispatcher.Start()
}

// Stop drains the records already queued and pauses processing. Records logged while stopped
// are rejected. Sinks stay open; returns nil if already stopped.
func (l *Logger) Stop(timeout ...time.Duration) error {
	effectiveTimeout := l.flushTimeout()
	if len(timeout) > 0 && timeout[0] > 0 {
		effectiveTimeout = timeout[0]
	}
	return l.dispatcher.Stop(effectiveTimeout)
}

// Stats returns the dispatcher counters
func (l *Logger) Stats() Stats {
	return l.dispatcher.Stats()
}

// Shutdown drains the queue, stops the processor and closes every closable sink, writing the
// end-of-session marker to day files. Later records are rejected. Safe to call more than once.
// If the processor does not exit in time the sinks are left open and a later call retries.
func (l *Logger) Shutdown(timeout ...time.Duration) error {
	l.shutdownMu.Lock()
	defer l.shutdownMu.Unlock()

	if l.shutdownDone {
		return nil
	}
	l.shutdownCalled.Store(true)

	effectiveTimeout := l.flushTimeout()
	if len(timeout) > 0 && timeout[0] > 0 {
		effectiveTimeout = timeout[0]
	}

	var finalErr error
	if err := l.Stop(effectiveTimeout); err != nil {
		// The processor may still be using the sinks
		return err
	}
	l.shutdownDone = true

	for _, s := range l.dispatcher.Sinks() {
		if syncer, ok := s.(sink.Syncer); ok {
			if err := syncer.Sync(); err != nil {
				finalErr = multierr.Append(finalErr, fmtErrorf("failed to sync sink '%s' during shutdown: %w", s.Identifier(), err))
			}
		}
		if closer, ok := s.(io.Closer); ok {
			if err := closer.Close(); err != nil {
				finalErr = multierr.Append(finalErr, fmtErrorf("failed to close sink '%s' during shutdown: %w", s.Identifier(), err))
			}
		}
	}

	return finalErr
}

// getConfig returns the current configuration (thread-safe)
func (l *Logger) getConfig() *Config {
	return l.currentConfig.Load().(*Config)
}

// applyConfig is the internal implementation for applying configuration, assuming initMu is held
func (l *Logger) applyConfig(cfg *Config) error {
	if l.shutdownCalled.Load() {
		return fmtErrorf("logger already shut down")
	}

	oldCfg := l.getConfig()
	rebuild := oldCfg.sinksChanged(cfg)

	if rebuild && cfg.EnableFile {
		if err := os.MkdirAll(cfg.Directory, 0755); err != nil {
			return fmtErrorf("failed to create log directory '%s': %w", cfg.Directory, err)
		}
	}

	l.currentConfig.Store(cfg)
	l.dispatcher.SetThreshold(cfg.threshold())

	if !rebuild {
		return nil
	}

	for _, id := range l.configured {
		l.RemoveSink(id)
	}
	l.configured = l.configured[:0]

	if cfg.EnableConsole {
		var w io.Writer = os.Stdout
		if cfg.ConsoleTarget == "stderr" {
			w = os.Stderr
		}
		console := sink.NewConsole(w, sink.WithFormatter(consoleFormatter(cfg)), sink.WithErrorHandler(l.internalError))
		l.configured = append(l.configured, l.AddSink(console))
	}

	if cfg.EnableFile {
		file := sink.NewFile(cfg.Directory, int(cfg.MaxFiles),
			sink.WithFormatter(fileFormatter(cfg)),
			sink.WithEvictOnRollover(cfg.EvictOnRollover),
			sink.WithErrorHandler(l.internalError),
		)
		l.configured = append(l.configured, l.AddSink(file))
	}

	if cfg.RollingFile != "" {
		rolling := sink.NewRolling(sink.RollingConfig{
			Path:       cfg.RollingFile,
			MaxSizeMB:  int(cfg.RollingMaxSizeMB),
			MaxBackups: int(cfg.RollingMaxBackups),
		}, sink.WithFormatter(fileFormatter(cfg)), sink.WithErrorHandler(l.internalError))
		l.configured = append(l.configured, l.AddSink(rolling))
	}

	return nil
}

// fileFormatter builds the formatter described by cfg for file-like sinks
func fileFormatter(cfg *Config) formatter.Formatter {
	symbols := cfg.LevelMarker == "symbol"
	if cfg.Format == "json" {
		return formatter.NewJSON().TimestampFormat(cfg.TimestampFormat).Symbols(symbols)
	}
	mode, _ := sanitizer.ParseMode(cfg.Sanitization)
	return formatter.New().
		TimestampFormat(cfg.TimestampFormat).
		Symbols(symbols).
		Sanitizer(sanitizer.New(mode))
}

// consoleFormatter builds the console variant: the console log supplies time and severity
func consoleFormatter(cfg *Config) formatter.Formatter {
	mode, _ := sanitizer.ParseMode(cfg.Sanitization)
	return formatter.NewConsole().
		Symbols(cfg.LevelMarker == "symbol").
		Sanitizer(sanitizer.New(mode))
}

func (l *Logger) withErrorHandler(opts []sink.Option) []sink.Option {
	return append([]sink.Option{sink.WithErrorHandler(l.internalError)}, opts...)
}

func (l *Logger) currentFileSink() *sink.File {
	l.fileMu.RLock()
	defer l.fileMu.RUnlock()
	if len(l.fileSinks) == 0 {
		return nil
	}
	return l.fileSinks[len(l.fileSinks)-1]
}

func (l *Logger) warnNoFileSink(op string) {
	l.Warningf("%s called without a file sink; add one with AddFileSink", op)
}

func (l *Logger) flushTimeout() time.Duration {
	if ms := l.getConfig().FlushTimeoutMs; ms > 0 {
		return time.Duration(ms) * time.Millisecond
	}
	return defaultFlushTimeout
}
