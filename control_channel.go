package handsynth

import (
	"sync"
	"sync/atomic"
)

// controlChannel is a bounded FIFO queue of control events.
//
// The consumer side (TryPop) is lock-free and is used by the audio goroutine only.
// Producers are serialized by a mutex that the consumer never touches.
type controlChannel struct {
	buf []ControlEvent

	// head is a number of popped events, tail is a number of pushed events.
	// Both are only growing; tail-head is the queue length.
	head atomic.Uint64
	tail atomic.Uint64

	pushMu sync.Mutex
}

func newControlChannel(capacity int) *controlChannel {
	return &controlChannel{buf: make([]ControlEvent, capacity)}
}

func (ch *controlChannel) Cap() int { return len(ch.buf) }

func (ch *controlChannel) Len() int {
	return int(ch.tail.Load() - ch.head.Load())
}

// TryPush enqueues e unless the channel is full.
func (ch *controlChannel) TryPush(e ControlEvent) bool {
	ch.pushMu.Lock()
	defer ch.pushMu.Unlock()

	tail := ch.tail.Load()
	if tail-ch.head.Load() >= uint64(len(ch.buf)) {
		return false
	}
	ch.buf[tail%uint64(len(ch.buf))] = e
	ch.tail.Store(tail + 1)
	return true
}

// TryPop dequeues the oldest event.
// It must only be called from the consumer goroutine.
func (ch *controlChannel) TryPop() (ControlEvent, bool) {
	head := ch.head.Load()
	if head == ch.tail.Load() {
		return ControlEvent{}, false
	}
	e := ch.buf[head%uint64(len(ch.buf))]
	ch.head.Store(head + 1)
	return e, true
}
