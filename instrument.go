package handsynth

import (
	"errors"
	"fmt"
)

// TriggerDefinition is a set of generators that sound together
// when a digit is pressed.
//
// It's a template: every triggered voice gets its own copy of the generators.
type TriggerDefinition struct {
	Generators []Generator
}

// InstrumentMap assigns a trigger to every digit.
type InstrumentMap struct {
	Name     string
	Triggers [NumDigits]TriggerDefinition
}

// InstrumentBank is a table of instrument maps.
// Exactly one map is selected at any moment; the selection is
// owned by the engine, the bank itself is immutable after its creation.
type InstrumentBank struct {
	maps []InstrumentMap

	// selectors maps a left hand digit to an instrument map index.
	// -1 means that the digit doesn't select anything.
	selectors [NumDigits]int

	initial int
}

// BankConfig describes the instrument bank layout.
type BankConfig struct {
	Maps []InstrumentMap

	// Selectors binds left hand digits to map indexes.
	// Digits that are not mentioned don't select anything.
	Selectors map[Digit]int

	// Initial is an index of a map that is selected on startup.
	Initial int
}

// NewInstrumentBank validates the maps and creates a bank.
//
// Every map must define a non-empty trigger for every digit.
func NewInstrumentBank(config BankConfig) (*InstrumentBank, error) {
	if len(config.Maps) == 0 {
		return nil, errors.New("a bank needs at least one map")
	}
	for i := range config.Maps {
		m := &config.Maps[i]
		for d := Digit(0); d < NumDigits; d++ {
			gens := m.Triggers[d].Generators
			if len(gens) == 0 {
				return nil, fmt.Errorf("map %d (%q): no generators for %s", i, m.Name, d)
			}
			for j := range gens {
				if err := validateGenerator(&gens[j]); err != nil {
					return nil, fmt.Errorf("map %d (%q): %s generator %d: %w", i, m.Name, d, j, err)
				}
			}
		}
	}
	if config.Initial < 0 || config.Initial >= len(config.Maps) {
		return nil, fmt.Errorf("initial map index %d is out of range", config.Initial)
	}

	b := &InstrumentBank{
		maps:    config.Maps,
		initial: config.Initial,
	}
	for d := range b.selectors {
		b.selectors[d] = -1
	}
	for d, mapIndex := range config.Selectors {
		if d >= NumDigits {
			return nil, fmt.Errorf("invalid selector digit %d", d)
		}
		if mapIndex < 0 || mapIndex >= len(config.Maps) {
			return nil, fmt.Errorf("%s selects a map %d that is out of range", d, mapIndex)
		}
		b.selectors[d] = mapIndex
	}
	return b, nil
}

// NumMaps reports the number of instrument maps.
func (b *InstrumentBank) NumMaps() int { return len(b.maps) }

// Map returns the instrument map by its index.
func (b *InstrumentBank) Map(i int) *InstrumentMap { return &b.maps[i] }

// Initial returns the startup map index.
func (b *InstrumentBank) Initial() int { return b.initial }

// Selector returns the map index selected by the left hand digit, or -1.
func (b *InstrumentBank) Selector(d Digit) int { return b.selectors[d] }

func (b *InstrumentBank) trigger(mapIndex int, d Digit) *TriggerDefinition {
	return &b.maps[mapIndex].Triggers[d]
}

func validateGenerator(g *Generator) error {
	if !isPositiveFinite(g.Freq()) {
		return fmt.Errorf("invalid frequency %g", g.Freq())
	}
	if !g.IsRecording() {
		if g.osc.shape >= numShapes {
			return fmt.Errorf("invalid shape %d", g.osc.shape)
		}
		return nil
	}
	s := g.rec.sample
	switch {
	case s == nil:
		return errors.New("no sample")
	case !isPositiveFinite(s.rootFreq):
		return fmt.Errorf("invalid sample root frequency %g", s.rootFreq)
	case !isPositiveFinite(s.sampleRate):
		return fmt.Errorf("invalid sample rate %g", s.sampleRate)
	}
	return nil
}
