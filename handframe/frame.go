package handframe

// Frame is one timestamped snapshot of tracked hand geometry.
//
// Frames are produced by a tracking device (or a recording of one)
// and are never mutated after publication.
type Frame struct {
	// Timestamp is a device clock value in microseconds.
	// Only its changes matter: two frames with the same timestamp
	// are considered to be the same frame.
	Timestamp int64 `json:"timestamp"`

	// Hands holds 0..2 hands in device order.
	Hands []Hand `json:"hands"`
}

type Hand struct {
	IsLeft bool `json:"left"`

	// Fingers holds 0..5 fingers, thumb first.
	// A device may report fewer fingers than there are digits.
	Fingers []Finger `json:"fingers"`
}

type Finger struct {
	Tip Vector `json:"tip"`
}

// Vector is a position in device units.
// For the usual desktop sensors Y is the height above the device in millimeters.
type Vector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

const (
	MaxHands   = 2
	MaxFingers = 5
)

// Clone returns a deep copy of the frame.
func (f *Frame) Clone() *Frame {
	dst := &Frame{Timestamp: f.Timestamp}
	if len(f.Hands) == 0 {
		return dst
	}
	dst.Hands = make([]Hand, len(f.Hands))
	for i, h := range f.Hands {
		dst.Hands[i].IsLeft = h.IsLeft
		dst.Hands[i].Fingers = append([]Finger(nil), h.Fingers...)
	}
	return dst
}
