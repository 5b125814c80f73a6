package main

import (
	"context"
	"flag"
	"fmt"
	"image/color"
	"os"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/quasilyte/handsynth"
	"github.com/quasilyte/handsynth/internal/app"
)

// This tool plays the hand synthesizer using Ebitengine audio player.
//
// Without -replay and -serial flags the hands are simulated with a keyboard:
//
//	A S D F G   playing hand digits (thumb..little)
//	Z X C       map selection hand digits (middle, ring, little)
//	1 2 3 4     oscillator shape (sine, sine squared, saw, triangle)
//	mouse X     pitch bend
//	SPACE       release all notes

const (
	screenWidth  = 640
	screenHeight = 480
)

func main() {
	var opts app.Options
	opts.RegisterFlags(flag.CommandLine)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: handsynth [flags]\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	logger := app.InitLogger(opts.Debug)

	engine, mapNames, err := app.NewEngine(&opts, logger)
	if err != nil {
		logger.Error("setup failed", "err", err)
		os.Exit(1)
	}

	// Create a sound player using the Ebitengine audio context.
	audioContext := audio.NewContext(opts.SampleRate)
	player, err := audioContext.NewPlayer(engine)
	if err != nil {
		logger.Error("create audio player", "err", err)
		os.Exit(1)
	}
	player.Play()

	ctx, cancel := context.WithCancel(context.Background())
	wait := app.StartProducers(ctx, &opts, engine, mapNames, logger)

	g := &game{
		engine:   engine,
		mapNames: mapNames,
	}
	if !opts.HasFrameSource() {
		g.sim = handsynth.NewHandSimulator(engine.Bridge())
		g.sim.Publish()
	}

	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("handsynth")
	runErr := ebiten.RunGame(g)

	player.Pause()
	cancel()
	wait()

	if runErr != nil {
		logger.Error("run game", "err", runErr)
		os.Exit(1)
	}
}

var rightKeys = [handsynth.NumDigits]ebiten.Key{
	ebiten.KeyA,
	ebiten.KeyS,
	ebiten.KeyD,
	ebiten.KeyF,
	ebiten.KeyG,
}

var leftKeys = []struct {
	key   ebiten.Key
	digit handsynth.Digit
}{
	{ebiten.KeyZ, handsynth.Middle},
	{ebiten.KeyX, handsynth.Ring},
	{ebiten.KeyC, handsynth.Little},
}

var shapeKeys = [...]ebiten.Key{ebiten.Key1, ebiten.Key2, ebiten.Key3, ebiten.Key4}

type game struct {
	engine   *handsynth.Engine
	mapNames []string

	// sim is nil when the frames come from a real source.
	sim    *handsynth.HandSimulator
	mouseX int

	dropped int
}

func (g *game) Update() error {
	for i, k := range shapeKeys {
		if inpututil.IsKeyJustPressed(k) {
			g.push(handsynth.SetShapeEvent(handsynth.Shape(i)))
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.push(handsynth.ReleaseAllEvent())
	}

	if g.sim == nil {
		return nil
	}

	changed := false
	for d, k := range rightKeys {
		if inpututil.IsKeyJustPressed(k) || inpututil.IsKeyJustReleased(k) {
			g.sim.SetRight(handsynth.Digit(d), ebiten.IsKeyPressed(k))
			changed = true
		}
	}
	for _, lk := range leftKeys {
		if inpututil.IsKeyJustPressed(lk.key) || inpututil.IsKeyJustReleased(lk.key) {
			g.sim.SetLeft(lk.digit, ebiten.IsKeyPressed(lk.key))
			changed = true
		}
	}
	if x, _ := ebiten.CursorPosition(); x != g.mouseX {
		g.mouseX = x
		g.sim.SetX(float64(x))
		changed = true
	}
	if changed {
		g.sim.Publish()
	}

	return nil
}

func (g *game) push(e handsynth.ControlEvent) {
	if !g.engine.PushControl(e) {
		g.dropped++
	}
}

var (
	soundingColor = color.RGBA{R: 0x4c, G: 0xd9, B: 0x64, A: 0xff}
	silentColor   = color.RGBA{R: 0x40, G: 0x40, B: 0x40, A: 0xff}
)

func (g *game) Draw(screen *ebiten.Image) {
	status := g.engine.Status()

	var sb strings.Builder
	mapName := "?"
	if status.SelectedMap >= 0 && status.SelectedMap < len(g.mapNames) {
		mapName = g.mapNames[status.SelectedMap]
	}
	fmt.Fprintf(&sb, "map: %s\n", mapName)
	if status.HasShape {
		fmt.Fprintf(&sb, "shape: %s\n", status.Shape)
	} else {
		sb.WriteString("shape: as defined by the map\n")
	}
	fmt.Fprintf(&sb, "voices: %d\n", status.Voices)
	fmt.Fprintf(&sb, "volume: %.2f\n", status.Volume)
	fmt.Fprintf(&sb, "frame: %d (applied %d)\n", status.Timestamp, status.FramesApplied)
	if g.dropped != 0 {
		fmt.Fprintf(&sb, "dropped controls: %d\n", g.dropped)
	}
	if g.sim != nil {
		sb.WriteString("\nASDFG: play, ZXC: select map, 1-4: shape, SPACE: release")
	}
	ebitenutil.DebugPrint(screen, sb.String())

	const (
		keyWidth  = 80
		keyHeight = 120
		keyGap    = 16
	)
	x := float32(screenWidth-(keyWidth*handsynth.NumDigits+keyGap*(handsynth.NumDigits-1))) / 2
	y := float32(screenHeight - keyHeight - 40)
	for d := handsynth.Digit(0); d < handsynth.NumDigits; d++ {
		clr := silentColor
		if status.IsSounding(d) {
			clr = soundingColor
		}
		vector.DrawFilledRect(screen, x, y, keyWidth, keyHeight, clr, false)
		ebitenutil.DebugPrintAt(screen, d.String(), int(x)+4, int(y)+keyHeight+4)
		x += keyWidth + keyGap
	}
}

func (g *game) Layout(_, _ int) (int, int) {
	return screenWidth, screenHeight
}
