package handsynth

import (
	"math"
)

// ControlKind is a control event tag.
// See ControlEvent docs for more info.
type ControlKind uint8

const (
	// ControlUnknown is a sentinel value.
	// Events of this kind are ignored.
	ControlUnknown ControlKind = iota

	// ControlSetShape overrides the oscillator shape for the voices
	// that are triggered after this event.
	// Recordings and already sounding voices are not affected.
	//
	// Use ControlEvent.ShapeData to get the event data.
	ControlSetShape

	// ControlSelectMap selects the instrument map, just like a left hand gesture.
	// An out of range index is ignored.
	//
	// Use ControlEvent.SelectMapData to get the event data.
	ControlSelectMap

	// ControlSetVolume sets the master volume.
	// The value is clamped in [0, 1].
	//
	// Use ControlEvent.VolumeData to get the event data.
	ControlSetVolume

	// ControlReleaseAll releases all sounding voices.
	// It has no data.
	ControlReleaseAll
)

var controlKindNames = [...]string{"unknown", "set_shape", "select_map", "set_volume", "release_all"}

func (k ControlKind) String() string {
	if int(k) < len(controlKindNames) {
		return controlKindNames[k]
	}
	return "unknown"
}

// ControlEvent is a UI request that is applied on the audio goroutine.
//
// The event data is packed into a single word, so the events
// can be copied around without any allocations.
// Use a Kind-specific method to unpack the data.
type ControlEvent struct {
	Kind ControlKind

	value uint64
}

// SetShapeEvent overrides the waveform of oscillator voices
// that are triggered after the event is applied.
func SetShapeEvent(shape Shape) ControlEvent {
	return ControlEvent{Kind: ControlSetShape, value: uint64(shape)}
}

// SelectMapEvent selects the bank map with the given index.
// An out of range index is ignored by the engine.
func SelectMapEvent(index int) ControlEvent {
	return ControlEvent{Kind: ControlSelectMap, value: uint64(int64(index))}
}

// SetVolumeEvent sets the master volume, the value is clamped in [0, 1].
func SetVolumeEvent(volume float64) ControlEvent {
	return ControlEvent{Kind: ControlSetVolume, value: math.Float64bits(volume)}
}

// ReleaseAllEvent moves every active voice into the Dying state.
func ReleaseAllEvent() ControlEvent {
	return ControlEvent{Kind: ControlReleaseAll}
}

// ShapeData returns the event data if e.Kind=ControlSetShape.
func (e ControlEvent) ShapeData() Shape {
	return Shape(e.value & 0xff)
}

// SelectMapData returns the event data if e.Kind=ControlSelectMap.
func (e ControlEvent) SelectMapData() int {
	return int(int64(e.value))
}

// VolumeData returns the event data if e.Kind=ControlSetVolume.
func (e ControlEvent) VolumeData() float64 {
	return math.Float64frombits(e.value)
}
