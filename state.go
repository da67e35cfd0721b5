// FILE: lixenwraith/daylog/state.go
package daylog

import (
	"sync/atomic"
)

// State encapsulates the runtime state of the dispatcher
type State struct {
	Started         atomic.Bool
	ProcessorExited atomic.Bool // Tracks if the processor goroutine is running or has exited

	TotalLogsProcessed atomic.Uint64 // Records handed to the sinks
	RejectedLogs       atomic.Uint64 // Submissions after Stop
	SinkFailures       atomic.Uint64 // Sink errors swallowed by the processor
	SinkPanics         atomic.Uint64 // Sink panics recovered by the processor
}
