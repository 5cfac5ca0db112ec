package signal_test

import (
	"testing"

	"github.com/vsariola/lanes/signal"
)

type queue []func()

func (q *queue) Post(f func()) { *q = append(*q, f) }

func (q *queue) drain() {
	for len(*q) > 0 {
		f := (*q)[0]
		*q = (*q)[1:]
		f()
	}
}

func TestEmitDirect(t *testing.T) {
	var s signal.Signal[int]
	var got []int
	s.Connect(nil, func(v int) { got = append(got, v) }, nil)
	s.Emit(1)
	s.Emit(2)
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("unexpected values %v", got)
	}
}

func TestEmitPostedRunsOnDrain(t *testing.T) {
	var s signal.Signal[string]
	var q queue
	var got []string
	s.Connect(nil, func(v string) { got = append(got, v) }, &q)
	s.Emit("a")
	s.Emit("b")
	if len(got) != 0 {
		t.Fatalf("slot ran before drain: %v", got)
	}
	q.drain()
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("expected FIFO delivery, got %v", got)
	}
}

func TestDisconnectCancelsPendingCalls(t *testing.T) {
	var s signal.Signal[int]
	var q queue
	calls := 0
	c := s.Connect(nil, func(int) { calls++ }, &q)
	s.Emit(1)
	c.Disconnect()
	c.Disconnect()
	s.Emit(2)
	q.drain()
	if calls != 0 {
		t.Errorf("disconnected slot was called %d times", calls)
	}
	if s.NumSlots() != 0 {
		t.Errorf("slot still registered after disconnect")
	}
	if c.Connected() {
		t.Errorf("connection still reports connected")
	}
}

func TestDropConnections(t *testing.T) {
	var a signal.Signal[int]
	var b signal.Signal[struct{}]
	var list signal.Connections
	calls := 0
	a.Connect(&list, func(int) { calls++ }, nil)
	b.Connect(&list, func(struct{}) { calls++ }, nil)
	if list.Len() != 2 {
		t.Fatalf("expected 2 connections, got %d", list.Len())
	}
	list.DropConnections()
	a.Emit(1)
	b.Emit(struct{}{})
	if calls != 0 {
		t.Errorf("dropped slots were called %d times", calls)
	}
	if list.Len() != 0 {
		t.Errorf("list not emptied")
	}
}
