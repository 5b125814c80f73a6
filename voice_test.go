package handsynth

import (
	"math"
	"testing"
)

func newTestVoice(d Digit, env *EnvelopeConfig) *voice {
	return &voice{
		digit:        d,
		state:        Rising,
		targetVolume: env.TargetVolume,
		gens:         []Generator{OscillatorGenerator(440, Sine)},
	}
}

func TestEnvelopeRisesToSteady(t *testing.T) {
	var env EnvelopeConfig
	env.applyDefaults()
	v := newTestVoice(Index, &env)

	ticks := int(math.Round(env.TargetVolume / env.RiseStep))
	peak := 0.0
	for i := 0; i < ticks; i++ {
		if v.state != Rising {
			t.Fatalf("tick %d: state = %s, want rising", i, v.state)
		}
		out := v.next(&env, 44100, i)
		if v.volume < 0 || v.volume > env.TargetVolume+env.RiseStep {
			t.Fatalf("tick %d: volume %g is out of range", i, v.volume)
		}
		peak = math.Max(peak, math.Abs(out))
	}
	if v.state != Steady {
		t.Fatalf("after %d ticks state = %s, want steady", ticks, v.state)
	}
	if math.Abs(v.volume-env.TargetVolume) > env.RiseStep {
		t.Fatalf("volume = %g, want %g", v.volume, env.TargetVolume)
	}

	for i := ticks; i < ticks+44100; i++ {
		peak = math.Max(peak, math.Abs(v.next(&env, 44100, i)))
	}
	if peak > env.TargetVolume+env.RiseStep || peak < env.TargetVolume-0.001 {
		t.Fatalf("peak = %g, want ~%g", peak, env.TargetVolume)
	}
	if v.state != Steady {
		t.Fatalf("state = %s, want steady", v.state)
	}
}

func TestEnvelopeReleaseWhileRising(t *testing.T) {
	var env EnvelopeConfig
	env.applyDefaults()
	v := newTestVoice(Thumb, &env)

	v.release()
	if v.state != Dying {
		t.Fatalf("state = %s, want dying", v.state)
	}
	v.next(&env, 44100, 0)
	if v.state != Dead || v.volume != 0 {
		t.Fatalf("state = %s volume = %g, want dead with zero volume", v.state, v.volume)
	}
}

func TestEnvelopeDecayTerminates(t *testing.T) {
	var env EnvelopeConfig
	env.applyDefaults()
	v := newTestVoice(Thumb, &env)
	v.state = Steady
	v.volume = env.TargetVolume
	v.release()

	// The volume follows (v0+b/(1-f))*f^n - b/(1-f),
	// which crosses zero after ~138k ticks for the default constants.
	const maxTicks = 200000
	prev := v.volume
	i := 0
	for ; i < maxTicks && v.state != Dead; i++ {
		v.next(&env, 44100, i)
		if v.volume > prev {
			t.Fatalf("tick %d: volume increased from %g to %g", i, prev, v.volume)
		}
		prev = v.volume
	}
	if v.state != Dead {
		t.Fatalf("voice is still %s after %d ticks", v.state, maxTicks)
	}
	if v.volume != 0 {
		t.Fatalf("dead voice volume = %g, want 0", v.volume)
	}

	for j := 0; j < 100; j++ {
		if out := v.next(&env, 44100, i+j); out != 0 {
			t.Fatalf("dead voice produced %g", out)
		}
		if v.state != Dead {
			t.Fatalf("dead voice moved to %s", v.state)
		}
	}
}

func TestEnvelopeReleaseIgnoresTerminalStates(t *testing.T) {
	v := voice{state: Dead}
	v.release()
	if v.state != Dead {
		t.Fatalf("state = %s, want dead", v.state)
	}
}

func TestPositionUpdateCompounds(t *testing.T) {
	v := voice{
		state: Steady,
		gens: []Generator{
			OscillatorGenerator(440, Sine),
			OscillatorGenerator(220, Triangle),
		},
	}
	v.updatePosition(10)
	v.updatePosition(20)

	tests := []struct {
		base float64
		got  float64
	}{
		{440, v.gens[0].TargetFreq()},
		{220, v.gens[1].TargetFreq()},
	}
	for _, test := range tests {
		want := test.base * 1.01 * 1.01
		if math.Abs(test.got-want) > 1e-9 {
			t.Fatalf("target freq = %g, want %g", test.got, want)
		}
		if math.Abs(test.got-test.base*1.02) < 1e-6 {
			t.Fatalf("target freq %g was not compounded", test.got)
		}
	}
	if v.lastX != 20 {
		t.Fatalf("lastX = %g, want 20", v.lastX)
	}
}

func TestEnvelopeConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		config EnvelopeConfig
		ok     bool
	}{
		{"defaults", EnvelopeConfig{}, true},
		{"negative bias", EnvelopeConfig{DecayBias: -1}, false},
		{"big factor", EnvelopeConfig{DecayFactor: 1.5}, false},
		{"negative rise", EnvelopeConfig{RiseStep: -0.1}, false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			config := test.config
			config.applyDefaults()
			err := config.validate()
			if (err == nil) != test.ok {
				t.Fatalf("validate() error = %v, want ok=%v", err, test.ok)
			}
		})
	}
}
