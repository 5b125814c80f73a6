package handsynth

import (
	"errors"
)

// EnvelopeState is a voice amplitude envelope stage.
// The transitions are one-directional: Rising -> Steady -> Dying -> Dead.
type EnvelopeState uint8

const (
	Rising EnvelopeState = iota
	Steady
	Dying
	Dead
)

var envelopeStateNames = [...]string{"rising", "steady", "dying", "dead"}

func (s EnvelopeState) String() string {
	if int(s) < len(envelopeStateNames) {
		return envelopeStateNames[s]
	}
	return "unknown"
}

// EnvelopeConfig holds the voice envelope constants.
//
// Zero fields are replaced by their defaults.
type EnvelopeConfig struct {
	// RiseStep is a volume increment per sample while the voice is rising.
	// The default is 0.000002.
	RiseStep float64

	// TargetVolume is a volume level where the rising stops.
	// The default is 0.2.
	TargetVolume float64

	// DecayFactor and DecayBias describe the dying voice volume:
	//	volume = volume*DecayFactor - DecayBias
	// The defaults are 0.99995 and 0.00000001.
	//
	// The bias guarantees that the volume reaches zero in a finite
	// number of steps, it must be positive.
	DecayFactor float64
	DecayBias   float64
}

func (config *EnvelopeConfig) applyDefaults() {
	if config.RiseStep == 0 {
		config.RiseStep = 0.000002
	}
	if config.TargetVolume == 0 {
		config.TargetVolume = 0.2
	}
	if config.DecayFactor == 0 {
		config.DecayFactor = 0.99995
	}
	if config.DecayBias == 0 {
		config.DecayBias = 0.00000001
	}
}

func (config *EnvelopeConfig) validate() error {
	switch {
	case config.RiseStep < 0:
		return errors.New("negative envelope rise step")
	case config.TargetVolume < 0:
		return errors.New("negative envelope target volume")
	case config.DecayFactor < 0 || config.DecayFactor > 1:
		return errors.New("envelope decay factor should be in [0, 1]")
	case config.DecayBias < 0:
		return errors.New("envelope decay bias should be positive")
	}
	return nil
}

type voice struct {
	digit Digit
	state EnvelopeState

	volume       float64
	targetVolume float64

	// lastX is a finger tip position used to compute the pitch bend.
	lastX float64

	// gens are owned by the voice, they're cloned from the trigger template.
	gens []Generator
}

func (v *voice) IsActive() bool { return v.state == Rising || v.state == Steady }

func (v *voice) release() {
	if v.IsActive() {
		v.state = Dying
	}
}

// updatePosition applies a pitch bend that is proportional
// to the horizontal finger movement.
func (v *voice) updatePosition(x float64) {
	delta := (x - v.lastX) / 1000
	if delta != 0 {
		multiplier := 1 + delta
		for i := range v.gens {
			v.gens[i].bend(multiplier)
		}
	}
	v.lastX = x
}

func (v *voice) tickEnvelope(env *EnvelopeConfig) {
	switch v.state {
	case Rising:
		v.volume += env.RiseStep
		if v.volume >= v.targetVolume-env.RiseStep/2 {
			v.state = Steady
		}
	case Dying:
		v.volume = v.volume*env.DecayFactor - env.DecayBias
		if v.volume <= 0 {
			v.volume = 0
			v.state = Dead
		}
	}
}

// next advances the voice by one sample and returns its output value.
func (v *voice) next(env *EnvelopeConfig, sampleRate float64, i int) float64 {
	if v.state == Dead {
		return 0
	}
	v.tickEnvelope(env)
	if v.state == Dead {
		return 0
	}
	sum := 0.0
	for j := range v.gens {
		sum += v.gens[j].next(sampleRate, i)
	}
	return v.volume * sum
}
