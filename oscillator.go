package handsynth

import (
	"math"
)

// Shape is an oscillator waveform.
type Shape uint8

const (
	Sine Shape = iota
	SineSquared
	Saw
	Triangle

	numShapes = 4
)

var shapeNames = [numShapes]string{"sine", "sine_squared", "saw", "triangle"}

func (s Shape) String() string {
	if int(s) < len(shapeNames) {
		return shapeNames[s]
	}
	return "unknown"
}

// ParseShape converts a shape name (as printed by Shape.String) into a Shape.
func ParseShape(name string) (Shape, bool) {
	for i, n := range shapeNames {
		if n == name {
			return Shape(i), true
		}
	}
	return 0, false
}

type oscillator struct {
	freq       float64
	targetFreq float64
	phase      float64
	shape      Shape

	// anchor is a sample index the oscillator time is measured from.
	// It's moved forward once in a while to keep t small.
	anchor int
}

func (o *oscillator) next(sampleRate float64, i int) float64 {
	if i < o.anchor {
		// The sample counter was reset.
		o.anchor = i
	}

	t := float64(i-o.anchor) / sampleRate
	if t >= 1 {
		// Re-base the time: the phase absorbs the elapsed periods,
		// so the output value stays the same.
		o.phase = wrapPhase(twoPi*o.freq*t + o.phase)
		o.anchor = i
		t = 0
	}

	if o.targetFreq != o.freq {
		o.phase = wrapPhase(o.phase + twoPi*t*(o.freq-o.targetFreq))
		o.freq = o.targetFreq
	}

	return waveform(o.shape, twoPi*o.freq*t+o.phase)
}

func waveform(shape Shape, position float64) float64 {
	switch shape {
	case SineSquared:
		v := math.Sin(position)
		return v * math.Abs(v)
	case Saw:
		return wrapUnit(position/twoPi) - 0.5
	case Triangle:
		pos := wrapUnit(position / twoPi)
		switch {
		case pos < 0.25:
			return pos * 4
		case pos < 0.75:
			return 1 - (pos-0.25)*4
		default:
			return (pos-0.75)*4 - 1
		}
	default:
		return math.Sin(position)
	}
}
