package handsynth

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/quasilyte/handsynth/handframe"
)

// FrameBridge passes the tracking frames from a producer to the audio goroutine.
//
// Only the latest frame is kept: the audio goroutine never waits for
// a producer and a producer never waits for the audio goroutine.
// A frame that was replaced before it was read is lost.
//
// Publish can be called from several goroutines.
// The observer calls are serialized, so the observer doesn't need
// its own synchronization.
type FrameBridge struct {
	latest atomic.Pointer[handframe.Frame]

	published atomic.Uint64

	// observerMu guards the fields below.
	observerMu    sync.Mutex
	observer      func(BridgeStats)
	observerEvery uint64
	lastObserved  time.Time
}

// BridgeStats is a diagnostics snapshot passed to the bridge observer.
type BridgeStats struct {
	// Published is a total number of published frames.
	Published uint64

	// Timestamp is the last published frame timestamp.
	Timestamp int64

	// Interval is the wall time elapsed since the previous observer call.
	// It's zero for the first call.
	Interval time.Duration
}

// SetObserver installs a callback that is invoked on every Nth Publish call.
// It runs on the goroutine that made the Nth call.
//
// A nil f or a non-positive every removes the observer.
func (b *FrameBridge) SetObserver(every int, f func(BridgeStats)) {
	b.observerMu.Lock()
	defer b.observerMu.Unlock()
	if f == nil || every <= 0 {
		b.observer = nil
		b.observerEvery = 0
		return
	}
	b.observer = f
	b.observerEvery = uint64(every)
}

// Publish makes a copy of f visible to the audio goroutine.
// The caller can reuse f after this call.
func (b *FrameBridge) Publish(f handframe.Frame) {
	b.latest.Store(f.Clone())
	n := b.published.Add(1)

	b.observerMu.Lock()
	defer b.observerMu.Unlock()
	if b.observer != nil && n%b.observerEvery == 0 {
		now := time.Now()
		stats := BridgeStats{
			Published: n,
			Timestamp: f.Timestamp,
		}
		if !b.lastObserved.IsZero() {
			stats.Interval = now.Sub(b.lastObserved)
		}
		b.lastObserved = now
		b.observer(stats)
	}
}

// Latest returns the most recently published frame, or nil.
// The returned frame must be treated as read-only.
func (b *FrameBridge) Latest() *handframe.Frame {
	return b.latest.Load()
}

// Published reports the number of Publish calls.
func (b *FrameBridge) Published() uint64 {
	return b.published.Load()
}
