// FILE: lixenwraith/daylog/record/record.go
// Package record holds the immutable log record value and severity levels shared by
// formatters, sinks and the dispatcher.
package record

import (
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

// Source identifies the call site that produced a record
type Source struct {
	File     string
	Function string
	Line     uint
}

// Record is a single log event. It is a value type: sinks receive copies and cannot
// alter what other sinks observe.
type Record struct {
	Message    string
	Time       time.Time
	Source     Source
	Attachment any
}

// CustomMessager lets an attachment render itself in place of the default representation
type CustomMessager interface {
	LogMessage() string
}

// New creates a record stamped with the current time
func New(message, file, function string, line uint) Record {
	return Record{
		Message: message,
		Time:    time.Now(),
		Source: Source{
			File:     file,
			Function: function,
			Line:     line,
		},
	}
}

// Attach returns a copy of the record carrying payload. Only one attachment is kept.
func (r Record) Attach(payload any) Record {
	r.Attachment = payload
	return r
}

// Caller captures the source of the function skip frames above the caller of Caller
func Caller(skip int) Source {
	pc, file, line, ok := runtime.Caller(skip + 1) // +1 for Caller itself
	if !ok {
		return Source{}
	}
	src := Source{File: file, Line: uint(line)}
	if fn := runtime.FuncForPC(pc); fn != nil {
		src.Function = shortFuncName(fn.Name())
	}
	return src
}

// shortFuncName trims the import path and package from a runtime function name:
// "github.com/a/b/pkg.(*T).Method" becomes "(*T).Method"
func shortFuncName(name string) string {
	name = filepath.Base(name)
	if i := strings.IndexByte(name, '.'); i >= 0 && i < len(name)-1 {
		return name[i+1:]
	}
	return name
}
