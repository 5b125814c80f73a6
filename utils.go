package handsynth

import (
	"math"
)

type numeric interface {
	uint8 | int | float64
}

func clamp[T numeric](v, min, max T) T {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

const twoPi = 2 * math.Pi

// wrapUnit returns the fractional part of x in [0, 1).
func wrapUnit(x float64) float64 {
	x -= math.Floor(x)
	if x >= 1 {
		// Can happen for tiny negative x due to rounding.
		return 0
	}
	return x
}

// wrapPhase normalizes the phase into [0, 2π).
func wrapPhase(phase float64) float64 {
	return wrapUnit(phase/twoPi) * twoPi
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// clampSample limits a mixed sample to [-1, 1].
// NaN is turned into silence.
func clampSample(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return clamp(v, -1, 1)
}

func isPositiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}

func floatToPCM16(v float32) int16 {
	return int16(clampSample(float64(v)) * math.MaxInt16)
}
