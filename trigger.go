package handsynth

import (
	"github.com/quasilyte/handsynth/handframe"
)

// playingHand returns the hand that plays the notes, or nil.
//
// A lone left hand doesn't play anything: it's only used
// to select the instrument maps.
func playingHand(f *handframe.Frame) *handframe.Hand {
	switch len(f.Hands) {
	case 1:
		if !f.Hands[0].IsLeft {
			return &f.Hands[0]
		}
	case 2:
		for i := range f.Hands {
			if !f.Hands[i].IsLeft {
				return &f.Hands[i]
			}
		}
	}
	return nil
}

// leftHand returns the hand flagged as left, or nil.
func leftHand(f *handframe.Frame) *handframe.Hand {
	for i := range f.Hands {
		if f.Hands[i].IsLeft {
			return &f.Hands[i]
		}
	}
	return nil
}

// isPressed reports whether the hand has the digit finger below its press threshold.
func isPressed(h *handframe.Hand, d Digit) bool {
	if h == nil || len(h.Fingers) <= int(d) {
		return false
	}
	return h.Fingers[d].Tip.Y < d.pressThreshold()
}

// shouldBePresent reports whether the digit note should be sounding.
func shouldBePresent(f *handframe.Frame, d Digit) bool {
	return isPressed(playingHand(f), d)
}

var selectorPriority = [NumDigits]Digit{Middle, Ring, Little, Index, Thumb}

// selectMap returns the instrument map index selected by the left hand gesture.
// The current selection is returned if there is no such gesture.
func selectMap(f *handframe.Frame, bank *InstrumentBank, current int) int {
	h := leftHand(f)
	if h == nil {
		return current
	}
	for _, d := range selectorPriority {
		mapIndex := bank.Selector(d)
		if mapIndex == -1 {
			continue
		}
		if isPressed(h, d) {
			return mapIndex
		}
	}
	return current
}
