// FILE: queue.go
package rtlog

import (
	"sync"
	"sync/atomic"
	"time"
)

// Queue lifecycle states
const (
	queueUninitialized int32 = iota
	queueRunning
	queueShuttingDown
	queueStopped
)

// Reusable batch capacity for the writer's drain loop
const drainBatchSize = 64

// asyncQueue bridges caller goroutines to a single background writer. The
// buffer is a bounded channel with drop-oldest overflow: when full, the head
// entry is evicted before the new one is admitted, so enqueue never blocks
// on I/O. The buffered send doubles as the writer wake signal.
type asyncQueue struct {
	ch       chan Entry
	capacity int
	idle     time.Duration

	// write and flush are the dispatcher's synchronous paths; the writer
	// goroutine is their only caller while the queue is running.
	write func(Entry)
	flush func()

	state        atomic.Int32
	writerExited atomic.Bool
	dropped      atomic.Uint64
	processed    atomic.Uint64

	// enqueueMu serializes the evict-then-send pair so the capacity bound
	// holds under concurrent producers. It is never held across I/O.
	enqueueMu sync.Mutex

	flushReq chan chan struct{}
}

func newAsyncQueue(capacity int, idle time.Duration, write func(Entry), flush func()) *asyncQueue {
	if capacity <= 0 {
		capacity = 1
	}
	return &asyncQueue{
		ch:       make(chan Entry, capacity),
		capacity: capacity,
		idle:     idle,
		write:    write,
		flush:    flush,
		flushReq: make(chan chan struct{}, 1),
	}
}

// start transitions Uninitialized -> Running and launches the writer
func (q *asyncQueue) start() {
	if !q.state.CompareAndSwap(queueUninitialized, queueRunning) {
		return
	}
	q.writerExited.Store(false)
	go q.run()
}

// enqueue appends an entry, evicting the oldest when the queue is full.
// Returns false when the entry (not an evicted predecessor) was dropped.
func (q *asyncQueue) enqueue(e Entry) (accepted bool) {
	if q.state.Load() != queueRunning {
		return false
	}

	// Shutdown can close the channel between the state check and the send
	defer func() {
		if r := recover(); r != nil {
			q.dropped.Add(1)
			accepted = false
		}
	}()

	q.enqueueMu.Lock()
	defer q.enqueueMu.Unlock()

	select {
	case q.ch <- e:
		return true
	default:
	}

	// Full: evict the head, then admit the new entry
	select {
	case <-q.ch:
		q.dropped.Add(1)
	default:
	}

	select {
	case q.ch <- e:
		return true
	default:
		q.dropped.Add(1)
		return false
	}
}

// requestFlush asks the writer to drain its backlog and flush the appenders,
// waiting for confirmation up to the timeout.
func (q *asyncQueue) requestFlush(timeout time.Duration) error {
	if q.state.Load() != queueRunning {
		return fmtErrorf("queue not running")
	}

	confirm := make(chan struct{})
	select {
	case q.flushReq <- confirm:
	case <-time.After(minWaitTime):
		return fmtErrorf("failed to send flush request to writer (possible deadlock or high load)")
	}

	select {
	case <-confirm:
		return nil
	case <-time.After(timeout):
		return fmtErrorf("timeout waiting for flush confirmation (%v)", timeout)
	}
}

// shutdown signals the writer, waits a bounded interval for it to drain
// naturally, then force-flushes anything still buffered from the calling
// goroutine. No entry enqueued before shutdown is dropped; ordering between
// the writer's last in-flight batch and the forced drain is not guaranteed.
func (q *asyncQueue) shutdown(timeout time.Duration) error {
	if !q.state.CompareAndSwap(queueRunning, queueShuttingDown) {
		return nil
	}

	// Hold enqueueMu so no producer is mid-send when the channel closes
	q.enqueueMu.Lock()
	close(q.ch)
	q.enqueueMu.Unlock()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if q.writerExited.Load() {
			break
		}
		time.Sleep(minWaitTime)
	}

	// Force-drain the remainder synchronously. Receiving alongside a slow
	// writer is safe; each entry is delivered exactly once.
	for e := range q.ch {
		q.write(e)
		q.processed.Add(1)
	}
	q.flush()

	q.state.Store(queueStopped)

	if !q.writerExited.Load() {
		return fmtErrorf("writer did not exit within timeout (%v)", timeout)
	}
	return nil
}

// run is the writer goroutine: it blocks on the channel with an idle ticker
// so appenders are flushed periodically even without traffic, and drains the
// current backlog into a reusable batch before writing, amortizing lock
// contention on the appender list.
func (q *asyncQueue) run() {
	defer q.writerExited.Store(true)

	ticker := time.NewTicker(q.idle)
	defer ticker.Stop()

	batch := make([]Entry, 0, drainBatchSize)

	for {
		select {
		case e, ok := <-q.ch:
			if !ok {
				q.flush()
				return
			}
			batch = append(batch[:0], e)
			open := q.drainInto(&batch)
			q.writeBatch(batch)
			if !open {
				q.flush()
				return
			}

		case confirm := <-q.flushReq:
			// Drain the entire backlog, not just one batch, before
			// confirming: the confirmation promises the requester that
			// everything enqueued before the request has reached the sinks.
			for {
				batch = batch[:0]
				open := q.drainInto(&batch)
				q.writeBatch(batch)
				if !open || len(batch) < cap(batch) {
					break
				}
			}
			q.flush()
			close(confirm)

		case <-ticker.C:
			q.flush()
		}
	}
}

// drainInto moves the channel's current backlog into the batch without
// blocking, up to the batch capacity. Returns false once the channel is
// closed and exhausted.
func (q *asyncQueue) drainInto(batch *[]Entry) bool {
	for len(*batch) < cap(*batch) {
		select {
		case e, ok := <-q.ch:
			if !ok {
				return false
			}
			*batch = append(*batch, e)
		default:
			return true
		}
	}
	return true
}

func (q *asyncQueue) writeBatch(batch []Entry) {
	for _, e := range batch {
		q.write(e)
		q.processed.Add(1)
	}
}
