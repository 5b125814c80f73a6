package handsynth

// voicePool holds every voice that can still produce a sound.
//
// Voices are stored in the creation order.
// Dead voices are removed only when a new voice is added.
type voicePool struct {
	voices []voice
}

func (p *voicePool) Len() int { return len(p.voices) }

func (p *voicePool) IsEmpty() bool { return len(p.voices) == 0 }

func (p *voicePool) Reset() {
	p.voices = p.voices[:0]
}

// find returns the index of the newest active voice for d, or -1.
func (p *voicePool) find(d Digit) int {
	for i := len(p.voices) - 1; i >= 0; i-- {
		v := &p.voices[i]
		if v.digit == d && v.IsActive() {
			return i
		}
	}
	return -1
}

// add appends the voice and then removes the dead voices.
func (p *voicePool) add(v voice) {
	p.voices = append(p.voices, v)
	p.prune()
}

func (p *voicePool) prune() {
	live := p.voices[:0]
	for i := range p.voices {
		if p.voices[i].state != Dead {
			live = append(live, p.voices[i])
		}
	}
	// Don't keep the generator slices reachable from the tail.
	for i := len(live); i < len(p.voices); i++ {
		p.voices[i] = voice{}
	}
	p.voices = live
}

// release moves the active voice for d into the Dying state.
func (p *voicePool) release(d Digit) {
	if i := p.find(d); i != -1 {
		p.voices[i].release()
	}
}

func (p *voicePool) releaseAll() {
	for i := range p.voices {
		p.voices[i].release()
	}
}

// allDead reports whether none of the voices can produce a sound.
func (p *voicePool) allDead() bool {
	for i := range p.voices {
		if p.voices[i].state != Dead {
			return false
		}
	}
	return true
}

// sounding returns a set of digits that have an active voice.
func (p *voicePool) sounding() digitMask {
	var m digitMask
	for i := range p.voices {
		if p.voices[i].IsActive() {
			m.Set(p.voices[i].digit)
		}
	}
	return m
}

// liveCount reports the number of voices that are not dead yet.
func (p *voicePool) liveCount() int {
	n := 0
	for i := range p.voices {
		if p.voices[i].state != Dead {
			n++
		}
	}
	return n
}
