// FILE: lixenwraith/daylog/type.go
package daylog

import (
	"github.com/lixenwraith/daylog/record"
	"github.com/lixenwraith/daylog/sink"
)

// job is one unit of work for the processor: a record to persist, or a control function
// when fn is set
type job struct {
	level record.Level
	rec   record.Record
	sinks []sink.Sink // Registered sinks at submission
	fn    func()
}

// Stats is a snapshot of dispatcher counters
type Stats struct {
	Processed    uint64 // Records handed to the sinks
	Rejected     uint64 // Submissions refused because the processor was stopped
	SinkFailures uint64 // Persist calls that returned an error
	SinkPanics   uint64 // Persist calls that panicked
	Pending      int    // Jobs waiting in the queue
}
