package handsynth

import (
	"encoding/binary"
	"errors"
	"log/slog"
	"math"

	"github.com/quasilyte/handsynth/handframe"
)

// Engine turns the hand tracking frames into audio.
//
// Three kinds of goroutines are involved:
//   - frame producers, they use Bridge().Publish
//   - UI, it uses PushControl and Status
//   - the audio goroutine, it uses Fill or Read
//
// The audio methods never block and never allocate
// after the engine has warmed up, except for the moments
// when new voices are triggered.
//
// Engine implements io.Reader, so it can be used as an argument
// for Ebitengine audio.NewPlayer or oto Context.NewPlayer.
type Engine struct {
	bank     *InstrumentBank
	bridge   *FrameBridge
	controls *controlChannel

	sampleRate float64
	env        EnvelopeConfig
	volume     float64

	voices voicePool
	gens   generatorArena

	selectedMap   int
	shape         Shape
	hasShape      bool
	hasFrame      bool
	lastTimestamp int64

	// sampleIndex is a sample counter that is shared by all voices.
	// It's reset when there are no voices left.
	sampleIndex int

	buffers       uint64
	framesApplied uint64

	// scratch is used by Read to render the mono samples.
	scratch []float32

	status statusCell
}

// Config describes the engine settings.
//
// These settings can't be changed after the engine is created.
// The master volume can be changed later with a SetVolumeEvent.
type Config struct {
	// Bank is a compiled instrument bank.
	// It's the only mandatory field.
	Bank *InstrumentBank

	// The sound device sample rate.
	// If you're using Ebitengine, it's the same value that
	// was used to create an audio context.
	//
	// A zero value will assume a sample rate of 44100.
	SampleRate int

	// ControlCapacity is a max number of pending control events.
	// Since only one event is applied per buffer, there is no point
	// in making this value big.
	//
	// A zero value will use a capacity of 5.
	ControlCapacity int

	// Envelope configures the voice volume envelope.
	// Zero fields are replaced by their defaults, see EnvelopeConfig.
	Envelope EnvelopeConfig

	// Volume is an initial master volume, the value is clamped in [0, 1].
	//
	// A zero value means "full volume".
	Volume float64

	// BufferSize is a number of stereo frames rendered per buffer by Read.
	//
	// A zero value will use 1024 frames.
	BufferSize int

	// Logger is only used during the engine creation.
	//
	// A nil value will use slog.Default().
	Logger *slog.Logger
}

func applyConfigDefaults(config *Config) {
	if config.SampleRate == 0 {
		config.SampleRate = 44100
	}
	if config.ControlCapacity == 0 {
		config.ControlCapacity = 5
	}
	if config.Volume == 0 {
		config.Volume = 1
	}
	if config.BufferSize == 0 {
		config.BufferSize = 1024
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	config.Envelope.applyDefaults()
}

// NewEngine creates an engine with no voices and the initial bank map selected.
func NewEngine(config Config) (*Engine, error) {
	applyConfigDefaults(&config)

	switch {
	case config.Bank == nil:
		return nil, errors.New("instrument bank is not set")
	case config.SampleRate < 0:
		return nil, errors.New("negative sample rate")
	case config.ControlCapacity < 0:
		return nil, errors.New("negative control channel capacity")
	case config.BufferSize < 0:
		return nil, errors.New("negative buffer size")
	}
	if err := config.Envelope.validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		bank:        config.Bank,
		bridge:      &FrameBridge{},
		controls:    newControlChannel(config.ControlCapacity),
		sampleRate:  float64(config.SampleRate),
		env:         config.Envelope,
		volume:      clamp(config.Volume, 0, 1),
		selectedMap: config.Bank.Initial(),
		scratch:     make([]float32, config.BufferSize),
	}
	e.voices.voices = make([]voice, 0, 4*NumDigits)
	e.gens = newGeneratorArena(config.Bank, 8)
	e.publishStatus()

	config.Logger.Debug("engine created",
		slog.Int("sample_rate", config.SampleRate),
		slog.Int("maps", config.Bank.NumMaps()),
		slog.Uint64("bank_bytes", uint64(config.Bank.MemoryUsage())))

	return e, nil
}

// Bridge returns the frame bridge that feeds this engine.
func (e *Engine) Bridge() *FrameBridge { return e.bridge }

// Bank returns the instrument bank used by this engine.
func (e *Engine) Bank() *InstrumentBank { return e.bank }

// SampleRate returns the output sample rate.
func (e *Engine) SampleRate() int { return int(e.sampleRate) }

// PushControl enqueues a control event without blocking.
// It returns false if the control channel is full;
// the caller may retry later.
//
// The events are applied on the audio goroutine, one event per buffer.
func (e *Engine) PushControl(ev ControlEvent) bool {
	return e.controls.TryPush(ev)
}

// Status returns the engine state snapshot.
// It's safe to call it from any goroutine.
func (e *Engine) Status() Status {
	return e.status.Load()
}

// Fill renders the next len(dst) mono samples.
// Every Fill call is treated as one audio buffer.
func (e *Engine) Fill(dst []float32) {
	e.beginBuffer()

	// This loop dominates the execution time.
	for k := range dst {
		v := 0.0
		for j := range e.voices.voices {
			v += e.voices.voices[j].next(&e.env, e.sampleRate, e.sampleIndex)
		}
		dst[k] = float32(clampSample(v * e.volume))
		e.sampleIndex++
	}

	e.endBuffer()
}

// Read puts the next PCM bytes into the provided slice.
//
// It produces 16-bit little endian stereo PCM data,
// the same value is written to both channels.
// Only whole frames (4 bytes) are written, so n can be less than len(b).
//
// The engine stream is infinite: Read never returns an error.
func (e *Engine) Read(b []byte) (int, error) {
	const bytesPerFrame = 4

	written := 0
	for len(b) >= bytesPerFrame {
		numFrames := len(b) / bytesPerFrame
		if numFrames > len(e.scratch) {
			numFrames = len(e.scratch)
		}
		buf := e.scratch[:numFrames]
		e.Fill(buf)
		for i, v := range buf {
			putPCM(b[i*bytesPerFrame:], floatToPCM16(v))
		}
		n := numFrames * bytesPerFrame
		written += n
		b = b[n:]
	}
	return written, nil
}

func putPCM(b []byte, v int16) {
	binary.LittleEndian.PutUint16(b, uint16(v))
	binary.LittleEndian.PutUint16(b[2:], uint16(v))
}

func (e *Engine) beginBuffer() {
	if ev, ok := e.controls.TryPop(); ok {
		e.applyControl(ev)
	}

	f := e.bridge.Latest()
	if f != nil && (!e.hasFrame || f.Timestamp != e.lastTimestamp) {
		e.hasFrame = true
		e.lastTimestamp = f.Timestamp
		e.framesApplied++
		e.applyFrame(f)
	}
}

func (e *Engine) endBuffer() {
	if e.voices.allDead() {
		// No voice references the generators anymore.
		e.voices.Reset()
		e.gens.reset()
		e.sampleIndex = 0
	}
	e.buffers++
	e.publishStatus()
}

func (e *Engine) applyControl(ev ControlEvent) {
	switch ev.Kind {
	case ControlSetShape:
		if shape := ev.ShapeData(); shape < numShapes {
			e.shape = shape
			e.hasShape = true
		}
	case ControlSelectMap:
		if i := ev.SelectMapData(); i >= 0 && i < e.bank.NumMaps() {
			e.selectedMap = i
		}
	case ControlSetVolume:
		v := ev.VolumeData()
		if !math.IsNaN(v) {
			e.volume = clamp(v, 0, 1)
		}
	case ControlReleaseAll:
		e.voices.releaseAll()
	}
}

func (e *Engine) applyFrame(f *handframe.Frame) {
	// The map selection only affects the voices triggered after it.
	e.selectedMap = selectMap(f, e.bank, e.selectedMap)

	hand := playingHand(f)
	for d := Digit(0); d < NumDigits; d++ {
		present := isPressed(hand, d)
		i := e.voices.find(d)
		switch {
		case present && i == -1:
			e.trigger(d, hand.Fingers[d].Tip.X)
		case present:
			e.voices.voices[i].updatePosition(hand.Fingers[d].Tip.X)
		case i != -1:
			e.voices.voices[i].release()
		}
	}
}

func (e *Engine) trigger(d Digit, x float64) {
	gens := e.gens.clone(e.bank.trigger(e.selectedMap, d))
	for i := range gens {
		g := &gens[i]
		g.start(e.sampleIndex)
		if e.hasShape {
			g.setShape(e.shape)
		}
	}
	e.voices.add(voice{
		digit:        d,
		state:        Rising,
		targetVolume: e.env.TargetVolume,
		lastX:        x,
		gens:         gens,
	})
}

func (e *Engine) publishStatus() {
	c := &e.status
	c.timestamp.Store(e.lastTimestamp)
	c.voices.Store(int32(e.voices.liveCount()))
	c.sounding.Store(uint32(e.voices.sounding()))
	c.selectedMap.Store(int32(e.selectedMap))
	shape := uint32(e.shape)
	if e.hasShape {
		shape |= shapeOverrideBit
	}
	c.shape.Store(shape)
	c.volume.Store(math.Float64bits(e.volume))
	c.buffers.Store(e.buffers)
	c.framesApplied.Store(e.framesApplied)
}
