package handsynth

import (
	"math"
)

// Sample is an immutable mono recording shared by all voices that play it.
type Sample struct {
	data       []float32
	sampleRate float64
	rootFreq   float64

	looped    bool
	loopStart float64
	loopEnd   float64
}

// SampleConfig describes a recording to be turned into a Sample.
type SampleConfig struct {
	// Data holds mono PCM amplitudes.
	Data []float32

	// SampleRate is the native sample rate of Data.
	SampleRate int

	// RootFreq is the pitch of the recorded note.
	// Playing the sample at this frequency keeps its original speed.
	RootFreq float64

	// LoopWindow is an amplitude envelope smoothing window (in samples)
	// used during the sustain loop discovery.
	// Values below 2 mean that raw sample magnitudes are used.
	LoopWindow int
}

// NewSample prepares a recording for playback.
//
// This involves the sustain loop discovery that scans the entire recording,
// so it should not be called on a hot path.
func NewSample(config SampleConfig) *Sample {
	s := &Sample{
		data:       config.Data,
		sampleRate: float64(config.SampleRate),
		rootFreq:   config.RootFreq,
	}
	if start, end, ok := findSustainLoop(config.Data, config.LoopWindow); ok {
		s.looped = true
		s.loopStart = float64(start)
		s.loopEnd = float64(end)
	}
	return s
}

// Len reports the number of recorded samples.
func (s *Sample) Len() int { return len(s.data) }

// LoopBounds returns the sustain loop [start, end] indices.
// ok is false for one-shot samples.
func (s *Sample) LoopBounds() (start, end int, ok bool) {
	return int(s.loopStart), int(s.loopEnd), s.looped
}

// findSustainLoop locates the plateau around the loudest part of the recording.
//
// The plateau is a contiguous run of samples around the amplitude peak
// where the amplitude envelope stays within 10% of the peak value.
func findSustainLoop(data []float32, window int) (start, end int, ok bool) {
	if len(data) == 0 {
		return 0, 0, false
	}

	env := amplitudeEnvelope(data, window)

	peakIndex := 0
	peak := env[0]
	for i, v := range env {
		if v > peak {
			peak = v
			peakIndex = i
		}
	}
	if peak <= 0 {
		return 0, 0, false
	}

	threshold := peak * 0.9
	end = peakIndex
	for end+1 < len(env) && env[end+1] >= threshold {
		end++
	}
	start = peakIndex
	for start > 0 && env[start-1] >= threshold {
		start--
	}
	if end <= start {
		return 0, 0, false
	}
	return start, end, true
}

func amplitudeEnvelope(data []float32, window int) []float64 {
	env := make([]float64, len(data))
	if window < 2 {
		for i, v := range data {
			env[i] = math.Abs(float64(v))
		}
		return env
	}

	// A centered moving average of magnitudes.
	half := window / 2
	sum := 0.0
	lo, hi := 0, 0 // The [lo, hi) range of values inside sum.
	for i := range data {
		for hi < len(data) && hi <= i+half {
			sum += math.Abs(float64(data[hi]))
			hi++
		}
		for lo < i-half {
			sum -= math.Abs(float64(data[lo]))
			lo++
		}
		env[i] = math.Max(sum, 0) / float64(hi-lo)
	}
	return env
}

type recording struct {
	sample *Sample

	freq       float64
	targetFreq float64
	phase      float64

	// loopOffset is an accumulated correction (in output samples)
	// applied every time the cursor goes past the loop end.
	loopOffset float64
}

func (r *recording) step(sampleRate float64) float64 {
	return (r.freq / r.sample.rootFreq) * (r.sample.sampleRate / sampleRate)
}

func (r *recording) cursor(sampleRate float64, i int) float64 {
	return (float64(i)-r.loopOffset)*r.step(sampleRate) + r.phase
}

func (r *recording) next(sampleRate float64, i int) float64 {
	s := r.sample

	if r.targetFreq != r.freq {
		// Keep the cursor where it is, only its speed changes.
		pos := r.cursor(sampleRate, i)
		r.freq = r.targetFreq
		r.phase = pos - (float64(i)-r.loopOffset)*r.step(sampleRate)
	}

	step := r.step(sampleRate)
	if !(step > 0) || math.IsInf(step, 0) {
		// The pitch was bent down to zero (or below), or it's not a number.
		return 0
	}

	pos := r.cursor(sampleRate, i)
	if s.looped && pos > s.loopEnd {
		// Shift the time origin back by a whole number of loop lengths.
		loopLength := s.loopEnd - s.loopStart
		r.loopOffset += math.Ceil((pos-s.loopEnd)/loopLength) * loopLength / step
		pos = r.cursor(sampleRate, i)
		if pos > s.loopEnd {
			r.loopOffset += loopLength / step
			pos = r.cursor(sampleRate, i)
		}
	}

	n := len(s.data)
	if !(pos >= 0) || pos >= float64(n) {
		return 0
	}
	index := int(pos)
	a := float64(s.data[index])
	var b float64
	switch {
	case index+1 < n:
		b = float64(s.data[index+1])
	case s.looped:
		b = float64(s.data[0])
	default:
		// A one-shot sample fades into silence after its last value.
		b = 0
	}
	return lerp(a, b, pos-math.Floor(pos))
}
