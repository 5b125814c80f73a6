package handsynth

import (
	"github.com/quasilyte/handsynth/handframe"
)

// Publisher accepts the tracking frames.
// FrameBridge is the main implementation.
type Publisher interface {
	Publish(f handframe.Frame)
}

// HandSimulator produces tracking frames from a simple key-like input.
//
// It can be used to play the engine without a tracking device:
// every digit is either pressed or not, all fingers share the same
// horizontal position.
//
// Experimental: the simulator API may change in the near future.
type HandSimulator struct {
	pub Publisher

	frame     handframe.Frame
	timestamp int64

	right digitMask
	left  digitMask
	x     float64
}

// Finger tip heights used for the simulated presses.
const (
	simulatedPressedY  = 100
	simulatedReleasedY = 300
)

func NewHandSimulator(pub Publisher) *HandSimulator {
	s := &HandSimulator{pub: pub}
	s.frame.Hands = make([]handframe.Hand, 0, handframe.MaxHands)
	return s
}

// SetRight marks a playing hand digit as pressed or released.
func (s *HandSimulator) SetRight(d Digit, pressed bool) {
	setDigit(&s.right, d, pressed)
}

// SetLeft marks a map selection hand digit as pressed or released.
func (s *HandSimulator) SetLeft(d Digit, pressed bool) {
	setDigit(&s.left, d, pressed)
}

// SetX sets the horizontal position of the playing hand fingers.
func (s *HandSimulator) SetX(x float64) {
	s.x = x
}

// Publish sends a frame describing the current simulated hands state.
// Every published frame gets a new timestamp.
func (s *HandSimulator) Publish() {
	s.timestamp++
	s.frame.Timestamp = s.timestamp
	s.frame.Hands = s.frame.Hands[:0]
	s.frame.Hands = append(s.frame.Hands, s.makeHand(false, s.right, s.x))
	if s.left != 0 {
		s.frame.Hands = append(s.frame.Hands, s.makeHand(true, s.left, 0))
	}
	s.pub.Publish(s.frame)
}

func (s *HandSimulator) makeHand(isLeft bool, pressed digitMask, x float64) handframe.Hand {
	h := handframe.Hand{
		IsLeft:  isLeft,
		Fingers: make([]handframe.Finger, NumDigits),
	}
	for d := Digit(0); d < NumDigits; d++ {
		tip := &h.Fingers[d].Tip
		tip.X = x
		tip.Y = simulatedReleasedY
		if pressed.Contains(d) {
			tip.Y = simulatedPressedY
		}
	}
	return h
}

func setDigit(m *digitMask, d Digit, pressed bool) {
	if pressed {
		m.Set(d)
	} else {
		*m &^= 1 << d
	}
}
