// FILE: lixenwraith/daylog/processor.go
package daylog

import (
	"github.com/lixenwraith/daylog/sink"
)

// processJobs is the main processing loop running in a separate goroutine. It exits once q
// is closed and empty.
func (d *Dispatcher) processJobs(q *jobQueue, done chan struct{}) {
	defer func() {
		d.state.ProcessorExited.Store(true)
		close(done)
	}()

	var spare []job
	for {
		batch, closed := q.drain(spare)
		if len(batch) == 0 {
			if closed {
				return
			}
			<-q.notify
			spare = batch
			continue
		}

		for i := range batch {
			if batch[i].fn != nil {
				d.runControl(batch[i].fn)
			} else {
				d.processLogRecord(batch[i])
			}
		}

		// Release record payloads before the slice is reused
		clear(batch)
		spare = batch
	}
}

// processLogRecord hands one record to every sink registered when it was submitted
func (d *Dispatcher) processLogRecord(j job) {
	for _, s := range j.sinks {
		d.persist(s, j)
	}
	d.state.TotalLogsProcessed.Add(1)
}

// persist isolates one sink: its error or panic is counted and reported, never propagated
func (d *Dispatcher) persist(s sink.Sink, j job) {
	defer func() {
		if r := recover(); r != nil {
			d.state.SinkPanics.Add(1)
			d.onError(fmtErrorf("sink '%s' panicked: %v", s.Identifier(), r))
		}
	}()

	if err := s.Persist(j.rec, j.level); err != nil {
		d.state.SinkFailures.Add(1)
		d.onError(fmtErrorf("sink '%s' failed to persist record: %w", s.Identifier(), err))
	}
}

// runControl runs a management function queued through Do or Enqueue
func (d *Dispatcher) runControl(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			d.onError(fmtErrorf("control job panicked: %v", r))
		}
	}()
	fn()
}
