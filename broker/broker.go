package broker

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

type (
	// Broker is the task queue of the UI goroutine. Model notifications that
	// may originate on any goroutine (playlist edits, transport changes,
	// capture progress) are posted to the broker as closures, and only the
	// goroutine running Run (or calling Drain) executes them. This way all
	// canvas and view state is mutated from a single goroutine and no locks
	// are needed around it.
	//
	// Posting never blocks: tasks are appended to an unbounded FIFO and a
	// wake-up token is sent to a channel with capacity 1. If the token
	// channel is already full, the consumer is already going to wake up, so
	// dropping the token is fine.
	//
	// For closing, the broker follows the same convention as the other
	// goroutines of the program: Close has capacity 1, so one can always send
	// a struct{}{} to it without blocking, and Finished is closed (nothing is
	// ever sent to it) when Run has returned. Waiting can be combined with a
	// timeout:
	//    select {
	//      case <-b.Finished:
	//      case <-time.After(3 * time.Second):
	//    }
	Broker struct {
		Close    chan struct{}
		Finished chan struct{}

		wake   chan struct{}
		mu     sync.Mutex
		tasks  []func()
		closed atomic.Bool
	}
)

func NewBroker() *Broker {
	return &Broker{
		Close:    make(chan struct{}, 1),
		Finished: make(chan struct{}),
		wake:     make(chan struct{}, 1),
	}
}

// Post enqueues f to be run on the UI goroutine. It is safe to call from any
// goroutine. Tasks posted after the broker has finished are dropped.
func (b *Broker) Post(f func()) {
	if f == nil || b.closed.Load() {
		return
	}
	b.mu.Lock()
	b.tasks = append(b.tasks, f)
	b.mu.Unlock()
	TrySend(b.wake, struct{}{})
}

// Wake returns the channel that receives a token whenever tasks are pending.
// Event loops that multiplex several sources (e.g. a window event loop)
// select on it and call Drain.
func (b *Broker) Wake() <-chan struct{} {
	return b.wake
}

// Pending returns the number of tasks waiting to be run.
func (b *Broker) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.tasks)
}

// Drain runs pending tasks in FIFO order until the queue is empty, including
// tasks posted by the tasks themselves. Returns the number of tasks run. Must
// only be called from the UI goroutine.
func (b *Broker) Drain() int {
	n := 0
	for {
		b.mu.Lock()
		if len(b.tasks) == 0 {
			b.mu.Unlock()
			return n
		}
		batch := b.tasks
		b.tasks = nil
		b.mu.Unlock()
		for _, f := range batch {
			f()
			n++
		}
	}
}

// Run makes the calling goroutine the UI goroutine: it runs posted tasks until
// something is sent to Close or ctx is cancelled. Finished is closed on return.
func (b *Broker) Run(ctx context.Context) error {
	defer b.Finish()
	for {
		select {
		case <-b.wake:
			b.Drain()
		case <-b.Close:
			b.Drain()
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Finish drops pending tasks, stops accepting new ones and closes Finished.
// Run calls it on return; event loops that call Drain themselves call it when
// they are done.
func (b *Broker) Finish() {
	if !b.closed.Swap(true) {
		b.mu.Lock()
		b.tasks = nil
		b.mu.Unlock()
		close(b.Finished)
	}
}

// Shutdown asks Run to return and waits for it, giving up after timeout.
// Returns false if the timeout occurred.
func (b *Broker) Shutdown(timeout time.Duration) bool {
	TrySend(b.Close, struct{}{})
	_, ok := TimeoutReceive(b.Finished, timeout)
	return ok || b.closed.Load()
}

// TrySend is a helper function to send a value to a channel if it is not full.
// It is guaranteed to be non-blocking. Return true if the value was sent, false
// otherwise.
func TrySend[T any](c chan<- T, v T) bool {
	select {
	case c <- v:
	default:
		return false
	}
	return true
}

// TimeoutReceive is a helper function to block until a value is received from a
// channel, or timing out after t. ok will be false if the timeout occurred or
// if the channel is closed.
func TimeoutReceive[T any](c <-chan T, t time.Duration) (v T, ok bool) {
	select {
	case v, ok = <-c:
		return v, ok
	case <-time.After(t):
		return v, false
	}
}
