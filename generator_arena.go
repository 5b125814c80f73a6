package handsynth

// generatorArena hands out generator slices for the triggered voices.
//
// A chunk is big enough to hold the generators of every digit trigger
// of the largest bank map, so one chunk serves a whole hand.
// The memory is only reclaimed by reset, which is called when
// no voice can reference the slices anymore.
type generatorArena struct {
	chunks [][]Generator

	// current is an index of the chunk being filled.
	current int
	used    int

	chunkSize int
	maxChunks int
}

func newGeneratorArena(bank *InstrumentBank, maxChunks int) generatorArena {
	chunkSize := 0
	for i := 0; i < bank.NumMaps(); i++ {
		m := bank.Map(i)
		n := 0
		for d := range m.Triggers {
			n += len(m.Triggers[d].Generators)
		}
		chunkSize = max(chunkSize, n)
	}
	return generatorArena{
		chunkSize: chunkSize,
		maxChunks: maxChunks,
	}
}

func (a *generatorArena) reset() {
	a.current = 0
	a.used = 0
}

// clone copies the trigger generators into the arena memory.
func (a *generatorArena) clone(def *TriggerDefinition) []Generator {
	dst := a.alloc(len(def.Generators))
	copy(dst, def.Generators)
	return dst
}

func (a *generatorArena) alloc(n int) []Generator {
	if n > a.chunkSize {
		return make([]Generator, n)
	}
	if a.current < len(a.chunks) && a.used+n > a.chunkSize {
		a.current++
		a.used = 0
	}
	if a.current == len(a.chunks) {
		if len(a.chunks) == a.maxChunks {
			// Too many hands are sounding at once.
			return make([]Generator, n)
		}
		a.chunks = append(a.chunks, make([]Generator, a.chunkSize))
	}
	chunk := a.chunks[a.current]
	s := chunk[a.used : a.used+n : a.used+n]
	a.used += n
	return s
}
