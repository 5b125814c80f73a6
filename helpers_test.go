package handsynth

import (
	"testing"

	"github.com/quasilyte/handsynth/handframe"
)

func testHand(isLeft bool, x float64, pressed ...Digit) handframe.Hand {
	h := handframe.Hand{
		IsLeft:  isLeft,
		Fingers: make([]handframe.Finger, NumDigits),
	}
	for i := range h.Fingers {
		h.Fingers[i].Tip = handframe.Vector{X: x, Y: 300}
	}
	for _, d := range pressed {
		h.Fingers[d].Tip.Y = 100
	}
	return h
}

func testFrame(timestamp int64, hands ...handframe.Hand) handframe.Frame {
	return handframe.Frame{Timestamp: timestamp, Hands: hands}
}

func testMap(name string, freq float64, shape Shape) InstrumentMap {
	m := InstrumentMap{Name: name}
	for d := range m.Triggers {
		m.Triggers[d] = TriggerDefinition{
			Generators: []Generator{OscillatorGenerator(freq, shape)},
		}
	}
	return m
}

// testBank returns a bank with two maps:
// "sine" (selected by Little) and "saw" (selected by Ring).
func testBank(t *testing.T) *InstrumentBank {
	t.Helper()
	bank, err := NewInstrumentBank(BankConfig{
		Maps: []InstrumentMap{
			testMap("sine", 440, Sine),
			testMap("saw", 220, Saw),
		},
		Selectors: map[Digit]int{Little: 0, Ring: 1},
	})
	if err != nil {
		t.Fatalf("NewInstrumentBank() error = %v", err)
	}
	return bank
}

func newTestEngine(t *testing.T, config Config) *Engine {
	t.Helper()
	if config.Bank == nil {
		config.Bank = testBank(t)
	}
	e, err := NewEngine(config)
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return e
}
