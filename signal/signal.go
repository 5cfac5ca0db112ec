/*
Package signal implements typed publish/subscribe notifications.

A Signal is emitted by the producer (for example a playlist when a region is
added) possibly from any goroutine. Each connected slot is either called
directly during Emit, or, if the slot was connected with a Dispatcher, posted to
that dispatcher so that it runs later on the goroutine owning the dispatcher.
This is how model notifications are marshaled onto the UI goroutine.

A slot that is disconnected before a posted call gets to run is not called: the
posted closure checks the connection state first.
*/
package signal

import (
	"sync"
	"sync/atomic"
)

type (
	// Dispatcher runs posted functions later, on the goroutine that owns it.
	// Post must not block and returns nothing; the function is either run
	// eventually or dropped if the dispatcher is closed.
	Dispatcher interface {
		Post(f func())
	}

	// Signal is a list of slots to be notified with a value of type T. The
	// zero value is ready to use. Signal must not be copied after first use.
	Signal[T any] struct {
		mu     sync.Mutex
		nextID uint64
		slots  []slot[T]
	}

	// Connection is a handle to a connected slot.
	Connection struct {
		alive      *atomic.Bool
		disconnect func()
	}

	// Connections is a scoped list of connections that can be dropped all at
	// once, for example when a view stops observing a playlist. The zero value
	// is ready to use.
	Connections struct {
		mu    sync.Mutex
		conns []Connection
	}

	slot[T any] struct {
		id    uint64
		fn    func(T)
		ctx   Dispatcher
		alive *atomic.Bool
	}
)

// Connect adds fn as a slot. If ctx is nil, fn is called synchronously by
// Emit, otherwise calls are posted to ctx. If list is not nil, the connection
// is also added to it.
func (s *Signal[T]) Connect(list *Connections, fn func(T), ctx Dispatcher) Connection {
	alive := new(atomic.Bool)
	alive.Store(true)
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.slots = append(s.slots, slot[T]{id: id, fn: fn, ctx: ctx, alive: alive})
	s.mu.Unlock()
	c := Connection{alive: alive, disconnect: func() { s.remove(id) }}
	if list != nil {
		list.Add(c)
	}
	return c
}

// Emit notifies all slots connected at the time of the call.
func (s *Signal[T]) Emit(value T) {
	s.mu.Lock()
	slots := make([]slot[T], len(s.slots))
	copy(slots, s.slots)
	s.mu.Unlock()
	for _, sl := range slots {
		if sl.ctx == nil {
			if sl.alive.Load() {
				sl.fn(value)
			}
			continue
		}
		fn, alive := sl.fn, sl.alive
		sl.ctx.Post(func() {
			if alive.Load() {
				fn(value)
			}
		})
	}
}

// NumSlots returns the number of connected slots.
func (s *Signal[T]) NumSlots() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.slots)
}

func (s *Signal[T]) remove(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, sl := range s.slots {
		if sl.id == id {
			s.slots = append(s.slots[:i], s.slots[i+1:]...)
			return
		}
	}
}

// Disconnect removes the slot. Calls already posted to a dispatcher but not
// yet run become no-ops. Disconnecting twice is harmless.
func (c Connection) Disconnect() {
	if c.alive == nil {
		return
	}
	if c.alive.Swap(false) {
		c.disconnect()
	}
}

// Connected reports whether the slot is still connected.
func (c Connection) Connected() bool {
	return c.alive != nil && c.alive.Load()
}

func (l *Connections) Add(c Connection) {
	l.mu.Lock()
	l.conns = append(l.conns, c)
	l.mu.Unlock()
}

// DropConnections disconnects every connection in the list and empties it.
func (l *Connections) DropConnections() {
	l.mu.Lock()
	conns := l.conns
	l.conns = nil
	l.mu.Unlock()
	for _, c := range conns {
		c.Disconnect()
	}
}

func (l *Connections) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.conns)
}
