package handsynth

import (
	"fmt"
	"log/slog"

	"github.com/quasilyte/handsynth/bankfile"
	"github.com/quasilyte/handsynth/internal/pcm"
)

// LoadBankConfig configures the instrument bank compilation.
type LoadBankConfig struct {
	// Loader decodes the recording files.
	//
	// A nil value will use a default loader that
	// supports wav, mp3 and ogg files.
	Loader func(path string) (*pcm.Clip, error)

	// Logger receives the compilation diagnostics, like the
	// discovered sustain loops.
	//
	// A nil value will use slog.Default().
	Logger *slog.Logger
}

// LoadBank compiles a parsed bank description into a playable InstrumentBank.
//
// Loading a bank decodes all of its recordings which is a slow process.
// A bank should be loaded once and then shared by the engines.
func LoadBank(b *bankfile.Bank, config LoadBankConfig) (*InstrumentBank, error) {
	if config.Loader == nil {
		config.Loader = pcm.DecodeFile
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	c := &bankCompiler{
		config:  config,
		bank:    b,
		samples: make(map[sampleKey]*Sample),
	}
	return c.compile()
}

type sampleKey struct {
	path       string
	rootFreq   float64
	loopWindow int
}

type bankCompiler struct {
	config LoadBankConfig
	bank   *bankfile.Bank

	// Recordings are shared between the generators that
	// have identical settings.
	samples map[sampleKey]*Sample
}

func (c *bankCompiler) compile() (*InstrumentBank, error) {
	maps := make([]InstrumentMap, len(c.bank.Maps))
	selectors := make(map[Digit]int)
	for i := range c.bank.Maps {
		m := &c.bank.Maps[i]
		maps[i].Name = m.Name
		for d, gens := range m.Digits.List() {
			compiled, err := c.compileTrigger(gens)
			if err != nil {
				return nil, fmt.Errorf("map %q: %s: %w", m.Name, Digit(d), err)
			}
			maps[i].Triggers[d] = TriggerDefinition{Generators: compiled}
		}
		if m.Select != "" {
			selectors[Digit(bankfile.DigitIndex(m.Select))] = i
		}
	}

	initial := 0
	if c.bank.Initial != "" {
		initial = c.bank.MapIndex(c.bank.Initial)
	}

	bank, err := NewInstrumentBank(BankConfig{
		Maps:      maps,
		Selectors: selectors,
		Initial:   initial,
	})
	if err != nil {
		return nil, err
	}
	c.config.Logger.Info("instrument bank loaded",
		slog.Int("maps", len(maps)),
		slog.Int("recordings", len(c.samples)),
		slog.String("initial", maps[initial].Name))
	return bank, nil
}

func (c *bankCompiler) compileTrigger(gens []bankfile.Generator) ([]Generator, error) {
	result := make([]Generator, len(gens))
	for i := range gens {
		g := &gens[i]
		freq := g.PitchFreq()
		if !g.IsRecording() {
			shape, ok := ParseShape(g.Osc)
			if !ok {
				return nil, fmt.Errorf("generator %d: unknown shape %q", i, g.Osc)
			}
			result[i] = OscillatorGenerator(freq, shape)
			continue
		}
		s, err := c.loadSample(g, freq)
		if err != nil {
			return nil, fmt.Errorf("generator %d: %w", i, err)
		}
		result[i] = RecordingGenerator(s, freq)
	}
	return result, nil
}

func (c *bankCompiler) loadSample(g *bankfile.Generator, rootFreq float64) (*Sample, error) {
	key := sampleKey{
		path:       c.bank.ResolvePath(g.File),
		rootFreq:   rootFreq,
		loopWindow: g.LoopWindow,
	}
	if s, ok := c.samples[key]; ok {
		return s, nil
	}

	clip, err := c.config.Loader(key.path)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", key.path, err)
	}
	if clip.SampleRate <= 0 {
		return nil, fmt.Errorf("decode %s: invalid sample rate %d", key.path, clip.SampleRate)
	}
	s := NewSample(SampleConfig{
		Data:       clip.Samples,
		SampleRate: clip.SampleRate,
		RootFreq:   rootFreq,
		LoopWindow: g.LoopWindow,
	})
	c.samples[key] = s

	if start, end, ok := s.LoopBounds(); ok {
		c.config.Logger.Debug("sustain loop found",
			slog.String("file", key.path),
			slog.Int("start", start),
			slog.Int("end", end),
			slog.Int("len", s.Len()))
	} else {
		c.config.Logger.Debug("one-shot recording",
			slog.String("file", key.path),
			slog.Int("len", s.Len()))
	}
	return s, nil
}
