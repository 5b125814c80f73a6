package bankfile

import (
	"fmt"
	"math"
	"strings"

	"github.com/quasilyte/handsynth/internal/notefreq"
)

type validator struct {
	bank *Bank

	// These fields below are needed for better error reporting.
	stage         string
	stageIndex    int
	subStage      string
	subStageIndex int
}

func (v *validator) Validate(b *Bank) (err error) {
	v.bank = b

	defer func() {
		rv := recover()
		if rv == nil {
			return
		}
		if parseErr, ok := rv.(*ParseError); ok {
			err = parseErr
			return
		}
		panic(rv)
	}()

	v.validate()
	return nil
}

func (v *validator) startStage(name string) {
	v.stage = name
	v.stageIndex = -1
	v.subStage = ""
	v.subStageIndex = -1
}

func (v *validator) startSubStage(name string) {
	v.subStage = name
	v.subStageIndex = -1
}

func (v *validator) formatStage() string {
	var b strings.Builder
	b.Grow(len(v.stage) + len(v.subStage) + 16)
	b.WriteString(v.stage)
	if v.stageIndex >= 0 {
		fmt.Fprintf(&b, "[%d]", v.stageIndex)
	}
	if v.subStage != "" {
		b.WriteByte('.')
		b.WriteString(v.subStage)
		if v.subStageIndex >= 0 {
			fmt.Fprintf(&b, "[%d]", v.subStageIndex)
		}
	}
	return b.String()
}

func (v *validator) errorf(format string, args ...any) *ParseError {
	return &ParseError{
		Message: fmt.Sprintf(format, args...),
		Path:    v.formatStage(),
	}
}

func (v *validator) validate() {
	b := v.bank

	v.startStage("maps")
	if len(b.Maps) == 0 {
		panic(v.errorf("a bank needs at least one map"))
	}

	names := make(map[string]struct{}, len(b.Maps))
	var selectors [len(DigitNames)]string
	for i := range b.Maps {
		m := &b.Maps[i]
		v.stageIndex = i
		v.subStage = ""

		if m.Name == "" {
			panic(v.errorf("empty map name"))
		}
		if _, ok := names[m.Name]; ok {
			panic(v.errorf("duplicated map name %q", m.Name))
		}
		names[m.Name] = struct{}{}

		if m.Select != "" {
			v.startSubStage("select")
			d := DigitIndex(m.Select)
			if d == -1 {
				panic(v.errorf("unknown digit %q", m.Select))
			}
			if selectors[d] != "" {
				panic(v.errorf("digit %q already selects map %q", m.Select, selectors[d]))
			}
			selectors[d] = m.Name
		}

		v.validateDigits(&m.Digits)
	}

	v.startStage("initial")
	if b.Initial != "" && b.MapIndex(b.Initial) == -1 {
		panic(v.errorf("unknown map %q", b.Initial))
	}
}

func (v *validator) validateDigits(digits *Digits) {
	for d, list := range digits.List() {
		v.startSubStage("digits." + DigitNames[d])
		if len(list) == 0 {
			panic(v.errorf("a digit needs at least one generator"))
		}
		for i := range list {
			v.subStageIndex = i
			v.validateGenerator(&list[i])
		}
	}
}

func (v *validator) validateGenerator(g *Generator) {
	switch {
	case g.Osc != "" && g.File != "":
		panic(v.errorf("osc and file are mutually exclusive"))
	case g.Osc == "" && g.File == "":
		panic(v.errorf("either osc or file should be specified"))
	}

	if g.Osc != "" {
		if ShapeIndex(g.Osc) == -1 {
			panic(v.errorf("unknown oscillator shape %q", g.Osc))
		}
		if g.LoopWindow != 0 {
			panic(v.errorf("loop_window is only valid for recordings"))
		}
	}
	if g.LoopWindow < 0 {
		panic(v.errorf("negative loop_window"))
	}

	switch {
	case g.Note != "" && g.Freq != 0:
		panic(v.errorf("note and freq are mutually exclusive"))
	case g.Note != "":
		if _, err := notefreq.Parse(g.Note); err != nil {
			panic(v.errorf("%v", err))
		}
	case math.IsNaN(g.Freq) || math.IsInf(g.Freq, 0):
		panic(v.errorf("freq should be a finite number"))
	case g.Freq < 0:
		panic(v.errorf("negative freq"))
	case g.Freq == 0:
		panic(v.errorf("either note or freq should be specified"))
	}
}

// PitchFreq returns the generator pitch in Hz.
// It should only be called for validated generators.
func (g *Generator) PitchFreq() float64 {
	if g.Note == "" {
		return g.Freq
	}
	f, err := notefreq.ParseFreq(g.Note)
	if err != nil {
		panic(fmt.Sprintf("bankfile: unvalidated note %q", g.Note))
	}
	return f
}
