package bankfile

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Bank is a parsed instrument bank description.
// This is a raw format that is not optimized for playback;
// it needs to be compiled before it can be used by the engine.
type Bank struct {
	// Initial is a name of the map that is selected on startup.
	// An empty value selects the first map.
	Initial string `yaml:"initial"`

	Maps []Map `yaml:"maps"`

	// BaseDir is used to resolve relative recording paths.
	// ParseFile sets it to the bank file directory.
	BaseDir string `yaml:"-"`
}

// Map describes one complete digit->trigger assignment.
type Map struct {
	Name string `yaml:"name"`

	// Select is a left hand digit name that selects this map when pressed.
	// An empty value means that the map can't be selected by a gesture.
	Select string `yaml:"select"`

	Digits Digits `yaml:"digits"`
}

type Digits struct {
	Thumb  []Generator `yaml:"thumb"`
	Index  []Generator `yaml:"index"`
	Middle []Generator `yaml:"middle"`
	Ring   []Generator `yaml:"ring"`
	Little []Generator `yaml:"little"`
}

// List returns the digit triggers in DigitNames order.
func (d *Digits) List() [5][]Generator {
	return [5][]Generator{d.Thumb, d.Index, d.Middle, d.Ring, d.Little}
}

// Generator is either an oscillator (Osc is set) or a recording (File is set).
type Generator struct {
	// Osc is an oscillator waveform name, see ShapeNames.
	Osc string `yaml:"osc"`

	// File is a recording path (wav, mp3 or ogg).
	File string `yaml:"file"`

	// Note and Freq are mutually exclusive.
	// For oscillators they specify the played pitch.
	// For recordings they specify the recorded (root) pitch.
	Note string  `yaml:"note"`
	Freq float64 `yaml:"freq"`

	// LoopWindow is a recording amplitude envelope smoothing window in samples.
	// Zero means "no smoothing".
	LoopWindow int `yaml:"loop_window"`
}

func (g *Generator) IsRecording() bool { return g.File != "" }

var DigitNames = [5]string{"thumb", "index", "middle", "ring", "little"}

var ShapeNames = [4]string{"sine", "sine_squared", "saw", "triangle"}

//go:embed default.yaml
var defaultBankData []byte

// Default returns the built-in oscillator-only bank.
func Default() *Bank {
	b, err := Parse(bytes.NewReader(defaultBankData))
	if err != nil {
		panic(fmt.Sprintf("bankfile: invalid default bank: %v", err))
	}
	return b
}

// Parse reads and validates a YAML bank description.
//
// A non-nil error is usually a *ParseError object.
func Parse(r io.Reader) (*Bank, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var b Bank
	if err := dec.Decode(&b); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &ParseError{Message: "empty bank"}
		}
		return nil, &ParseError{Message: err.Error()}
	}
	v := &validator{}
	if err := v.Validate(&b); err != nil {
		return nil, err
	}
	return &b, nil
}

// ParseFile is like Parse, but also binds the relative recording paths
// to the file location.
func ParseFile(path string) (*Bank, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	b, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	b.BaseDir = filepath.Dir(path)
	return b, nil
}

// ResolvePath returns a recording path relative to the bank location.
func (b *Bank) ResolvePath(file string) string {
	if filepath.IsAbs(file) || b.BaseDir == "" {
		return file
	}
	return filepath.Join(b.BaseDir, file)
}

// MapIndex returns the index of the named map, or -1.
func (b *Bank) MapIndex(name string) int {
	for i := range b.Maps {
		if b.Maps[i].Name == name {
			return i
		}
	}
	return -1
}

// DigitIndex returns the DigitNames index of the name, or -1.
func DigitIndex(name string) int {
	for i, n := range DigitNames {
		if n == name {
			return i
		}
	}
	return -1
}

// ShapeIndex returns the ShapeNames index of the name, or -1.
func ShapeIndex(name string) int {
	for i, n := range ShapeNames {
		if n == name {
			return i
		}
	}
	return -1
}
