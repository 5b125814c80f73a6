package notefreq

import (
	"fmt"
	"math"
	"strconv"
)

// Note is a MIDI-style note number: C4 = 60, A4 = 69.
type Note int

const A4 Note = 69

// Freq returns the equal temperament frequency of the note, tuned to A4=440Hz.
func (n Note) Freq() float64 {
	return 440 * math.Pow(2, float64(n-A4)/12)
}

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

func (n Note) String() string {
	octave := int(n)/12 - 1
	return noteNames[int(n)%12] + strconv.Itoa(octave)
}

var letterSemitones = map[byte]int{
	'C': 0,
	'D': 2,
	'E': 4,
	'F': 5,
	'G': 7,
	'A': 9,
	'B': 11,
}

// Parse decodes a scientific pitch notation note name.
//
// Accepted forms: "A4", "C#5", "Cs5" (sample library style sharp), "Bb3", "C-1".
func Parse(s string) (Note, error) {
	if len(s) < 2 {
		return 0, fmt.Errorf("invalid note %q", s)
	}
	semitone, ok := letterSemitones[upper(s[0])]
	if !ok {
		return 0, fmt.Errorf("invalid note %q: unknown letter", s)
	}
	rest := s[1:]
	switch rest[0] {
	case '#', 's':
		semitone++
		rest = rest[1:]
	case 'b':
		semitone--
		rest = rest[1:]
	}
	octave, err := strconv.Atoi(rest)
	if err != nil {
		return 0, fmt.Errorf("invalid note %q: bad octave", s)
	}
	n := Note((octave+1)*12 + semitone)
	if n < 0 || n > 127 {
		return 0, fmt.Errorf("invalid note %q: out of range", s)
	}
	return n, nil
}

// ParseFreq is a Parse+Freq shorthand.
func ParseFreq(s string) (float64, error) {
	n, err := Parse(s)
	if err != nil {
		return 0, err
	}
	return n.Freq(), nil
}

func upper(ch byte) byte {
	if ch >= 'a' && ch <= 'z' {
		return ch - ('a' - 'A')
	}
	return ch
}
