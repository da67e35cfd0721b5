// FILE: lixenwraith/daylog/dispatcher.go
package daylog

import (
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/multierr"

	"github.com/lixenwraith/daylog/record"
	"github.com/lixenwraith/daylog/sink"
)

// Dispatcher filters records against the threshold and hands them, in submission order, to a
// single processor goroutine that fans each one out to every registered sink
type Dispatcher struct {
	threshold atomic.Int64 // stores record.Level

	sinksMu sync.RWMutex
	sinks   []sink.Sink

	lifecycleMu sync.Mutex
	queue       atomic.Pointer[jobQueue] // nil while stopped
	done        chan struct{}            // Closed when the current processor exits

	state   State
	onError func(error)
}

// NewDispatcher creates a stopped dispatcher with the threshold at LevelSuppressed.
// onError receives sink failures and panics swallowed by the processor; nil discards them.
func NewDispatcher(onError func(error)) *Dispatcher {
	if onError == nil {
		onError = func(error) {}
	}
	d := &Dispatcher{onError: onError}
	d.state.ProcessorExited.Store(true)
	return d
}

// SetThreshold sets the minimum level accepted
func (d *Dispatcher) SetThreshold(level record.Level) {
	d.threshold.Store(int64(level))
}

// Threshold returns the minimum level accepted
func (d *Dispatcher) Threshold() record.Level {
	return record.Level(d.threshold.Load())
}

// IsLoggable reports whether a record at level would currently be accepted
func (d *Dispatcher) IsLoggable(level record.Level) bool {
	return record.IsLoggable(level, d.Threshold())
}

// Register appends s to the sink list. Identifiers are not deduplicated.
func (d *Dispatcher) Register(s sink.Sink) {
	d.sinksMu.Lock()
	d.sinks = append(d.sinks, s)
	d.sinksMu.Unlock()
}

// Unregister removes the first sink tagged id. Records submitted before the call still reach it.
func (d *Dispatcher) Unregister(id string) (sink.Sink, bool) {
	d.sinksMu.Lock()
	defer d.sinksMu.Unlock()
	for i, s := range d.sinks {
		if s.Identifier() == id {
			// Copy so snapshots carried by queued jobs are unaffected
			next := make([]sink.Sink, 0, len(d.sinks)-1)
			next = append(next, d.sinks[:i]...)
			d.sinks = append(next, d.sinks[i+1:]...)
			return s, true
		}
	}
	return nil, false
}

// FindSink returns the first sink tagged id
func (d *Dispatcher) FindSink(id string) (sink.Sink, bool) {
	d.sinksMu.RLock()
	defer d.sinksMu.RUnlock()
	for _, s := range d.sinks {
		if s.Identifier() == id {
			return s, true
		}
	}
	return nil, false
}

// Sinks returns a snapshot of the registered sinks in registration order. The list is only
// ever appended past its length or replaced, so a snapshot never changes.
func (d *Dispatcher) Sinks() []sink.Sink {
	d.sinksMu.RLock()
	defer d.sinksMu.RUnlock()
	return d.sinks[:len(d.sinks):len(d.sinks)]
}

// Submit filters on the threshold, then evaluates build on the calling goroutine and queues
// the record. build is never called for a filtered level. Returns false when filtered or
// when the dispatcher is stopped.
func (d *Dispatcher) Submit(level record.Level, build func() record.Record) bool {
	if !d.IsLoggable(level) {
		return false
	}
	q := d.queue.Load()
	if q == nil {
		d.state.RejectedLogs.Add(1)
		return false
	}
	rec := build()

	// The record goes to the sinks registered when it is queued. Holding the read lock across
	// the push keeps Register and Unregister ordered with respect to it.
	d.sinksMu.RLock()
	sinks := d.sinks[:len(d.sinks):len(d.sinks)]
	ok := q.push(job{level: level, rec: rec, sinks: sinks})
	d.sinksMu.RUnlock()

	if !ok {
		d.state.RejectedLogs.Add(1)
		return false
	}
	return true
}

// Enqueue schedules fn on the processor after every job already queued
func (d *Dispatcher) Enqueue(fn func()) error {
	q := d.queue.Load()
	if q == nil || !q.push(job{fn: fn}) {
		return fmtErrorf("dispatcher not started")
	}
	return nil
}

// Do runs fn on the processor after every job already queued and waits for it to return.
// It must not be called from a sink.
func (d *Dispatcher) Do(fn func()) error {
	done := make(chan struct{})
	if err := d.Enqueue(func() {
		defer close(done)
		fn()
	}); err != nil {
		return err
	}
	<-done
	return nil
}

// Flush waits until every record submitted before the call has been persisted, then syncs
// each sink implementing sink.Syncer
func (d *Dispatcher) Flush(timeout time.Duration) error {
	if timeout <= 0 {
		timeout = defaultFlushTimeout
	}

	var syncErr error
	confirmChan := make(chan struct{})
	if err := d.Enqueue(func() {
		defer close(confirmChan)
		syncErr = d.syncSinks()
	}); err != nil {
		return err
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-confirmChan:
		return syncErr
	case <-timer.C:
		return fmtErrorf("timeout waiting for flush confirmation (%v)", timeout)
	}
}

// Start launches the processor. Safe to call multiple times.
func (d *Dispatcher) Start() error {
	d.lifecycleMu.Lock()
	defer d.lifecycleMu.Unlock()

	if d.queue.Load() != nil {
		return nil
	}
	if !d.state.ProcessorExited.Load() {
		return fmtErrorf("processor still running from previous start")
	}

	q := newJobQueue()
	d.done = make(chan struct{})
	d.state.ProcessorExited.Store(false)
	d.state.Started.Store(true)
	d.queue.Store(q)
	go d.processJobs(q, d.done)
	return nil
}

// Stop rejects new submissions, lets the processor drain the queue and waits for it to exit.
// Returns nil if already stopped. After a timeout, calling Stop again resumes the wait.
func (d *Dispatcher) Stop(timeout time.Duration) error {
	d.lifecycleMu.Lock()
	defer d.lifecycleMu.Unlock()

	if q := d.queue.Swap(nil); q != nil {
		d.state.Started.Store(false)
		q.close()
	} else if d.state.ProcessorExited.Load() {
		return nil
	}

	if timeout <= 0 {
		timeout = defaultFlushTimeout
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-d.done:
		return nil
	case <-timer.C:
		return fmtErrorf("processor did not exit within timeout (%v)", timeout)
	}
}

// Started reports whether the processor accepts submissions
func (d *Dispatcher) Started() bool {
	return d.queue.Load() != nil
}

// Stats returns a snapshot of the dispatcher counters
func (d *Dispatcher) Stats() Stats {
	pending := 0
	if q := d.queue.Load(); q != nil {
		pending = q.len()
	}
	return Stats{
		Processed:    d.state.TotalLogsProcessed.Load(),
		Rejected:     d.state.RejectedLogs.Load(),
		SinkFailures: d.state.SinkFailures.Load(),
		SinkPanics:   d.state.SinkPanics.Load(),
		Pending:      pending,
	}
}

// syncSinks runs on the processor
func (d *Dispatcher) syncSinks() error {
	var errs error
	for _, s := range d.Sinks() {
		if syncer, ok := s.(sink.Syncer); ok {
			if err := syncer.Sync(); err != nil {
				errs = multierr.Append(errs, fmtErrorf("failed to sync sink '%s': %w", s.Identifier(), err))
			}
		}
	}
	return errs
}
