package handsynth

// Digit is a finger that acts as a playable key.
//
// The digit value is also the finger index inside a hand.
type Digit uint8

const (
	Thumb Digit = iota
	Index
	Middle
	Ring
	Little

	NumDigits = 5
)

var digitNames = [NumDigits]string{"thumb", "index", "middle", "ring", "little"}

func (d Digit) String() string {
	if int(d) < len(digitNames) {
		return digitNames[d]
	}
	return "unknown"
}

// pressThreshold returns the finger tip height (in device units) below
// which the digit counts as pressed.
func (d Digit) pressThreshold() float64 {
	if d == Thumb {
		return 190
	}
	return 200
}

// digitMask is a set of digits, bit N is set for Digit(N).
type digitMask uint8

func (m digitMask) Contains(d Digit) bool { return m&(1<<d) != 0 }

func (m *digitMask) Set(d Digit) { *m |= 1 << d }
