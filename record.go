// FILE: lixenwraith/daylog/record.go
package daylog

import (
	"fmt"
	"net/http"
	"time"

	"github.com/lixenwraith/daylog/attach"
	"github.com/lixenwraith/daylog/record"
)

// Frames between record.Caller in log and the caller of a public logging method
const callerSkip = 2

// Verbose logs at verbose level. msg is only called when the level is enabled.
// The optional attachment is rendered after the message.
func (l *Logger) Verbose(msg func() string, attachment ...any) {
	l.log(LevelVerbose, callerSkip, msg, attachment)
}

// Debug logs at debug level
func (l *Logger) Debug(msg func() string, attachment ...any) {
	l.log(LevelDebug, callerSkip, msg, attachment)
}

// Info logs at info level
func (l *Logger) Info(msg func() string, attachment ...any) {
	l.log(LevelInfo, callerSkip, msg, attachment)
}

// Warning logs at warning level
func (l *Logger) Warning(msg func() string, attachment ...any) {
	l.log(LevelWarning, callerSkip, msg, attachment)
}

// Error logs at error level
func (l *Logger) Error(msg func() string, attachment ...any) {
	l.log(LevelError, callerSkip, msg, attachment)
}

// Verbosef formats and logs at verbose level. Formatting is skipped when the level is disabled.
func (l *Logger) Verbosef(format string, args ...any) {
	l.logf(LevelVerbose, format, args)
}

// Debugf formats and logs at debug level
func (l *Logger) Debugf(format string, args ...any) {
	l.logf(LevelDebug, format, args)
}

// Infof formats and logs at info level
func (l *Logger) Infof(format string, args ...any) {
	l.logf(LevelInfo, format, args)
}

// Warningf formats and logs at warning level
func (l *Logger) Warningf(format string, args ...any) {
	l.logf(LevelWarning, format, args)
}

// Errorf formats and logs at error level
func (l *Logger) Errorf(format string, args ...any) {
	l.logf(LevelError, format, args)
}

// Log logs at an arbitrary level
func (l *Logger) Log(level Level, msg func() string, attachment ...any) {
	l.log(level, callerSkip, msg, attachment)
}

// LogAt logs with an explicit call site, for adapters and wrappers that know their caller
func (l *Logger) LogAt(level Level, src record.Source, msg func() string, attachment ...any) {
	if !l.dispatcher.IsLoggable(level) {
		return
	}
	l.submit(level, src, msg, attachment)
}

// DebugRequest logs msg at debug level with a snapshot of r attached
func (l *Logger) DebugRequest(r *http.Request, msg string) {
	if !l.dispatcher.IsLoggable(LevelDebug) {
		return
	}
	src := record.Caller(1)
	l.submit(LevelDebug, src, func() string { return msg }, []any{attach.NewRequest(r)})
}

// DebugResponse logs msg at debug level with a snapshot of resp and its body attached
func (l *Logger) DebugResponse(resp *http.Response, body []byte, msg string) {
	if !l.dispatcher.IsLoggable(LevelDebug) {
		return
	}
	src := record.Caller(1)
	l.submit(LevelDebug, src, func() string { return msg }, []any{attach.NewResponse(resp, body)})
}

// log filters first, then captures the call site skip frames up and submits
func (l *Logger) log(level Level, skip int, msg func() string, attachment []any) {
	if !l.dispatcher.IsLoggable(level) {
		return
	}
	l.submit(level, record.Caller(skip), msg, attachment)
}

func (l *Logger) logf(level Level, format string, args []any) {
	if !l.dispatcher.IsLoggable(level) {
		return
	}
	l.submit(level, record.Caller(callerSkip), func() string {
		return fmt.Sprintf(format, args...)
	}, nil)
}

// submit builds the record on the calling goroutine and hands it to the dispatcher
func (l *Logger) submit(level Level, src record.Source, msg func() string, attachment []any) {
	l.dispatcher.Submit(level, func() record.Record {
		rec := record.Record{Time: time.Now(), Source: src}
		if msg != nil {
			rec.Message = msg()
		}
		switch len(attachment) {
		case 0:
		case 1:
			rec = rec.Attach(attachment[0])
		default:
			rec = rec.Attach(attachment)
		}
		return rec
	})
}
