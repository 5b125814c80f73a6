package handsynth

import (
	"math"
	"sync/atomic"
)

// Status is an engine state snapshot for the UI.
type Status struct {
	// Timestamp is the last applied frame timestamp.
	Timestamp int64

	// Voices is a number of voices that are still producing a sound,
	// including the dying ones.
	Voices int

	// SelectedMap is the current instrument map index.
	SelectedMap int

	// Shape is the oscillator shape override.
	// It's only meaningful if HasShape is true.
	Shape    Shape
	HasShape bool

	Volume float64

	// Buffers is a number of rendered audio buffers.
	Buffers uint64

	// FramesApplied is a number of frames that caused the voices reconciliation.
	FramesApplied uint64

	sounding digitMask
}

// IsSounding reports whether the digit has a rising or steady voice.
func (s Status) IsSounding(d Digit) bool { return s.sounding.Contains(d) }

// statusCell is written by the audio goroutine and read by the UI.
//
// Every field is an independent atomic, so a snapshot
// may mix values from two adjacent buffers.
type statusCell struct {
	timestamp     atomic.Int64
	voices        atomic.Int32
	sounding      atomic.Uint32
	selectedMap   atomic.Int32
	shape         atomic.Uint32 // bit 8 is set when an override is active
	volume        atomic.Uint64
	buffers       atomic.Uint64
	framesApplied atomic.Uint64
}

const shapeOverrideBit = 1 << 8

func (c *statusCell) Load() Status {
	shape := c.shape.Load()
	return Status{
		Timestamp:     c.timestamp.Load(),
		Voices:        int(c.voices.Load()),
		SelectedMap:   int(c.selectedMap.Load()),
		Shape:         Shape(shape & 0xff),
		HasShape:      shape&shapeOverrideBit != 0,
		Volume:        math.Float64frombits(c.volume.Load()),
		Buffers:       c.buffers.Load(),
		FramesApplied: c.framesApplied.Load(),
		sounding:      digitMask(c.sounding.Load()),
	}
}
