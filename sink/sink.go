// Package sink provides the log destinations. Sinks are invoked from a single dispatcher
// worker and never concurrently with themselves, so they carry no locking of their own
// around persistence.
package sink

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lixenwraith/daylog/formatter"
	"github.com/lixenwraith/daylog/record"
)

// Sink formats a record and commits it to a destination
type Sink interface {
	// Identifier returns the tag used to look the sink up
	Identifier() string
	// SetIdentifier re-tags the sink
	SetIdentifier(id string)
	// Formatter returns the formatter fixed at construction
	Formatter() formatter.Formatter
	// Persist formats and commits rec. Errors are reported to the dispatcher, which drops the
	// record for this sink only.
	Persist(rec record.Record, level record.Level) error
}

// Syncer is implemented by sinks that buffer or can fsync
type Syncer interface {
	Sync() error
}

// identity carries the mutable identifier shared by all sinks
type identity struct {
	mu sync.RWMutex
	id string
}

// identifierOr returns id, or a random UUID when id is empty
func identifierOr(id string) string {
	if id == "" {
		return uuid.NewString()
	}
	return id
}

// Identifier implements Sink
func (i *identity) Identifier() string {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.id
}

// SetIdentifier implements Sink
func (i *identity) SetIdentifier(id string) {
	i.mu.Lock()
	i.id = id
	i.mu.Unlock()
}

// options shared by the sink constructors; file-only settings are ignored elsewhere
type options struct {
	id              string
	formatter       formatter.Formatter
	onError         func(error)
	clock           func() time.Time
	evictOnRollover bool
}

// Option configures a sink at construction
type Option func(*options)

// WithIdentifier sets the sink identifier instead of a random UUID
func WithIdentifier(id string) Option {
	return func(o *options) {
		o.id = id
	}
}

// WithFormatter sets the formatter
func WithFormatter(f formatter.Formatter) Option {
	return func(o *options) {
		o.formatter = f
	}
}

// WithErrorHandler receives I/O failures the sink swallows outside of Persist
func WithErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.onError = fn
	}
}

// WithClock replaces time.Now for day-file naming
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.clock = now
	}
}

// WithEvictOnRollover also applies the retention policy each time the day file rolls over
func WithEvictOnRollover(enable bool) Option {
	return func(o *options) {
		o.evictOnRollover = enable
	}
}

func buildOptions(defaultFormatter func() formatter.Formatter, opts []Option) options {
	o := options{onError: func(error) {}}
	for _, opt := range opts {
		opt(&o)
	}
	if o.formatter == nil {
		o.formatter = defaultFormatter()
	}
	if o.onError == nil {
		o.onError = func(error) {}
	}
	if o.clock == nil {
		o.clock = time.Now
	}
	return o
}
