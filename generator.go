package handsynth

type generatorKind uint8

const (
	generatorOscillator generatorKind = iota
	generatorRecording
)

// Generator is a single sound source of a trigger.
//
// It's either an oscillator or a recording player.
// Use OscillatorGenerator and RecordingGenerator to create generators.
type Generator struct {
	kind generatorKind
	osc  oscillator
	rec  recording
}

// OscillatorGenerator returns a waveform generator playing at freq Hz.
func OscillatorGenerator(freq float64, shape Shape) Generator {
	return Generator{
		kind: generatorOscillator,
		osc: oscillator{
			freq:       freq,
			targetFreq: freq,
			shape:      shape,
		},
	}
}

// RecordingGenerator returns a sample player that plays s at freq Hz.
// Use s root frequency to play the sample as it was recorded.
func RecordingGenerator(s *Sample, freq float64) Generator {
	return Generator{
		kind: generatorRecording,
		rec: recording{
			sample:     s,
			freq:       freq,
			targetFreq: freq,
		},
	}
}

func (g *Generator) IsRecording() bool { return g.kind == generatorRecording }

// Freq reports the current generator frequency.
func (g *Generator) Freq() float64 {
	if g.kind == generatorRecording {
		return g.rec.freq
	}
	return g.osc.freq
}

// TargetFreq reports the frequency the generator will switch to on its next sample.
func (g *Generator) TargetFreq() float64 {
	if g.kind == generatorRecording {
		return g.rec.targetFreq
	}
	return g.osc.targetFreq
}

func (g *Generator) next(sampleRate float64, i int) float64 {
	switch g.kind {
	case generatorRecording:
		return g.rec.next(sampleRate, i)
	default:
		return g.osc.next(sampleRate, i)
	}
}

func (g *Generator) bend(multiplier float64) {
	switch g.kind {
	case generatorRecording:
		g.rec.targetFreq *= multiplier
	default:
		g.osc.targetFreq *= multiplier
	}
}

func (g *Generator) setShape(shape Shape) {
	if g.kind == generatorOscillator {
		g.osc.shape = shape
	}
}

// start aligns the generator time origin with the sample index i,
// so a triggered voice always starts from its beginning.
func (g *Generator) start(i int) {
	switch g.kind {
	case generatorRecording:
		g.rec.loopOffset = float64(i)
		g.rec.phase = 0
	default:
		g.osc.anchor = i
		g.osc.phase = 0
	}
}
