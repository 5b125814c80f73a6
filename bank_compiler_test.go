package handsynth

import (
	"errors"
	"io"
	"log/slog"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/quasilyte/handsynth/bankfile"
	"github.com/quasilyte/handsynth/internal/pcm"
)

const testBankYAML = `
initial: strings
maps:
  - name: beeps
    select: little
    digits:
      thumb: [{osc: saw, freq: 100}]
      index: [{osc: sine, note: A4}]
      middle: [{osc: triangle, note: A3}]
      ring: [{osc: sine_squared, note: C4}, {osc: sine, note: E4}]
      little: [{osc: sine, note: G4}]
  - name: strings
    select: middle
    digits:
      thumb: [{file: violin.wav, note: A4, loop_window: 4}]
      index: [{file: violin.wav, note: A4, loop_window: 4}]
      middle: [{file: violin.wav, note: A3}]
      ring: [{osc: sine, freq: 300}]
      little: [{file: cello.wav, freq: 110}]
`

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func swellClip() *pcm.Clip {
	data := make([]float32, 64)
	for i := range data {
		data[i] = float32(math.Sin(float64(i)) * math.Min(float64(i), float64(len(data)-i)) / 32)
	}
	return &pcm.Clip{Samples: data, SampleRate: 22050}
}

func TestLoadBank(t *testing.T) {
	b, err := bankfile.Parse(strings.NewReader(testBankYAML))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	b.BaseDir = "banks"

	loads := map[string]int{}
	bank, err := LoadBank(b, LoadBankConfig{
		Logger: testLogger(),
		Loader: func(path string) (*pcm.Clip, error) {
			loads[path]++
			return swellClip(), nil
		},
	})
	if err != nil {
		t.Fatalf("LoadBank() error = %v", err)
	}

	if bank.NumMaps() != 2 || bank.Initial() != 1 {
		t.Fatalf("maps = %d, initial = %d", bank.NumMaps(), bank.Initial())
	}
	if bank.Selector(Little) != 0 || bank.Selector(Middle) != 1 || bank.Selector(Ring) != -1 {
		t.Fatalf("unexpected selectors")
	}

	beeps := bank.Map(0)
	if g := beeps.Triggers[Thumb].Generators[0]; g.osc.shape != Saw || g.Freq() != 100 {
		t.Fatalf("thumb generator = %s %g", g.osc.shape, g.Freq())
	}
	if g := beeps.Triggers[Middle].Generators[0]; math.Abs(g.Freq()-220) > 1e-9 {
		t.Fatalf("A3 freq = %g, want 220", g.Freq())
	}
	if n := len(beeps.Triggers[Ring].Generators); n != 2 {
		t.Fatalf("ring generators = %d, want 2", n)
	}

	violin := filepath.Join("banks", "violin.wav")
	cello := filepath.Join("banks", "cello.wav")
	if loads[violin] != 2 || loads[cello] != 1 {
		t.Fatalf("loads = %v", loads)
	}

	strs := bank.Map(1)
	thumb := strs.Triggers[Thumb].Generators[0]
	index := strs.Triggers[Index].Generators[0]
	middle := strs.Triggers[Middle].Generators[0]
	if !thumb.IsRecording() || thumb.rec.sample != index.rec.sample {
		t.Fatalf("identical recordings are not shared")
	}
	if thumb.rec.sample == middle.rec.sample {
		t.Fatalf("recordings with different root notes are shared")
	}
	if thumb.rec.sample.sampleRate != 22050 || thumb.rec.sample.rootFreq != 440 {
		t.Fatalf("sample = %v Hz, root %v", thumb.rec.sample.sampleRate, thumb.rec.sample.rootFreq)
	}
}

func TestLoadBankDecodeError(t *testing.T) {
	b, err := bankfile.Parse(strings.NewReader(testBankYAML))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	_, err = LoadBank(b, LoadBankConfig{
		Logger: testLogger(),
		Loader: func(path string) (*pcm.Clip, error) {
			return nil, pcm.ErrUnsupportedFormat
		},
	})
	if !errors.Is(err, pcm.ErrUnsupportedFormat) {
		t.Fatalf("LoadBank() error = %v, want ErrUnsupportedFormat", err)
	}
	if !strings.Contains(err.Error(), `map "strings"`) {
		t.Fatalf("error %q doesn't name the map", err)
	}
}

func TestLoadDefaultBank(t *testing.T) {
	bank, err := LoadBank(bankfile.Default(), LoadBankConfig{
		Logger: testLogger(),
		Loader: func(path string) (*pcm.Clip, error) {
			t.Fatalf("default bank loads %s", path)
			return nil, nil
		},
	})
	if err != nil {
		t.Fatalf("LoadBank() error = %v", err)
	}
	if bank.Selector(Little) != 0 || bank.Selector(Ring) != 1 {
		t.Fatalf("unexpected default selectors")
	}
	if n := len(bank.Map(1).Triggers[Thumb].Generators); n != 3 {
		t.Fatalf("triad generators = %d, want 3", n)
	}
}

func TestLoadBankRejectsNonFiniteFrequency(t *testing.T) {
	for _, freq := range []string{".nan", ".inf", "-.inf"} {
		src := strings.Replace(testBankYAML, "freq: 100", "freq: "+freq, 1)
		if _, err := bankfile.Parse(strings.NewReader(src)); err == nil {
			t.Fatalf("Parse() accepted freq: %s", freq)
		}
	}

	// A bank that was built in code skips the file validation.
	for _, freq := range []float64{math.NaN(), math.Inf(1), 0} {
		b, err := bankfile.Parse(strings.NewReader(testBankYAML))
		if err != nil {
			t.Fatalf("Parse() error = %v", err)
		}
		b.Maps[0].Digits.Thumb[0].Freq = freq
		_, err = LoadBank(b, LoadBankConfig{
			Logger: testLogger(),
			Loader: func(path string) (*pcm.Clip, error) { return swellClip(), nil },
		})
		if err == nil {
			t.Fatalf("LoadBank() accepted freq %g", freq)
		}
	}
}

func TestLoadBankRejectsZeroSampleRate(t *testing.T) {
	b, err := bankfile.Parse(strings.NewReader(testBankYAML))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	_, err = LoadBank(b, LoadBankConfig{
		Logger: testLogger(),
		Loader: func(path string) (*pcm.Clip, error) {
			clip := swellClip()
			clip.SampleRate = 0
			return clip, nil
		},
	})
	if err == nil {
		t.Fatalf("LoadBank() accepted a clip without a sample rate")
	}
}
