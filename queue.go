// FILE: lixenwraith/daylog/queue.go
package daylog

import (
	"sync"
)

// jobQueue is an unbounded FIFO with a single consumer. Push never blocks on the consumer,
// and the order of successful pushes is the order of processing.
type jobQueue struct {
	mu     sync.Mutex
	items  []job
	closed bool
	notify chan struct{} // Capacity 1, coalesces wakeups
}

func newJobQueue() *jobQueue {
	return &jobQueue{
		items:  make([]job, 0, 64),
		notify: make(chan struct{}, 1),
	}
}

// push appends j, returning false once the queue is closed
func (q *jobQueue) push(j job) bool {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false
	}
	q.items = append(q.items, j)
	q.mu.Unlock()

	q.signal()
	return true
}

// drain hands every pending job to the consumer and installs spare as the new backing slice
func (q *jobQueue) drain(spare []job) (batch []job, closed bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	batch = q.items
	q.items = spare[:0]
	return batch, q.closed
}

// close rejects later pushes. Jobs already queued are still drained.
func (q *jobQueue) close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.signal()
}

func (q *jobQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

func (q *jobQueue) signal() {
	select {
	case q.notify <- struct{}{}:
	default:
	}
}
