package handsynth

import (
	"math"
	"testing"
)

func TestNewInstrumentBankErrors(t *testing.T) {
	valid := testMap("valid", 440, Sine)
	empty := testMap("empty", 440, Sine)
	empty.Triggers[Ring].Generators = nil
	noSample := testMap("no sample", 440, Sine)
	noSample.Triggers[Thumb].Generators = []Generator{{kind: generatorRecording}}
	sample := NewSample(SampleConfig{Data: []float32{0, 1, 0}, SampleRate: 44100, RootFreq: 440})
	noRate := NewSample(SampleConfig{Data: []float32{0, 1, 0}, RootFreq: 440})
	infRoot := NewSample(SampleConfig{Data: []float32{0, 1, 0}, SampleRate: 44100, RootFreq: math.Inf(1)})
	withGenerator := func(g Generator) BankConfig {
		m := testMap("bad", 440, Sine)
		m.Triggers[Index].Generators = append(m.Triggers[Index].Generators, g)
		return BankConfig{Maps: []InstrumentMap{valid, m}}
	}

	tests := []struct {
		name   string
		config BankConfig
	}{
		{"no maps", BankConfig{}},
		{"empty trigger", BankConfig{Maps: []InstrumentMap{valid, empty}}},
		{"recording without sample", BankConfig{Maps: []InstrumentMap{noSample}}},
		{"initial out of range", BankConfig{Maps: []InstrumentMap{valid}, Initial: 1}},
		{"selector out of range", BankConfig{Maps: []InstrumentMap{valid}, Selectors: map[Digit]int{Ring: 1}}},
		{"nan oscillator freq", withGenerator(OscillatorGenerator(math.NaN(), Sine))},
		{"inf oscillator freq", withGenerator(OscillatorGenerator(math.Inf(1), Sine))},
		{"zero oscillator freq", withGenerator(OscillatorGenerator(0, Saw))},
		{"negative recording freq", withGenerator(RecordingGenerator(sample, -440))},
		{"nan recording freq", withGenerator(RecordingGenerator(sample, math.NaN()))},
		{"zero sample rate", withGenerator(RecordingGenerator(noRate, 440))},
		{"inf root freq", withGenerator(RecordingGenerator(infRoot, 440))},
		{"bad selector digit", BankConfig{Maps: []InstrumentMap{valid}, Selectors: map[Digit]int{7: 0}}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if _, err := NewInstrumentBank(test.config); err == nil {
				t.Fatalf("expected an error")
			}
		})
	}
}

func TestInstrumentBank(t *testing.T) {
	bank := testBank(t)
	if bank.NumMaps() != 2 {
		t.Fatalf("NumMaps() = %d, want 2", bank.NumMaps())
	}
	if bank.Map(1).Name != "saw" {
		t.Fatalf("Map(1).Name = %q", bank.Map(1).Name)
	}
	wantSelectors := [NumDigits]int{-1, -1, -1, 1, 0}
	for d := Digit(0); d < NumDigits; d++ {
		if got := bank.Selector(d); got != wantSelectors[d] {
			t.Fatalf("Selector(%s) = %d, want %d", d, got, wantSelectors[d])
		}
	}
	if bank.MemoryUsage() == 0 {
		t.Fatalf("MemoryUsage() is zero")
	}
}
