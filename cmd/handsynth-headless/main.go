package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ebitengine/oto/v3"
	"github.com/quasilyte/handsynth/internal/app"
)

// This tool plays the hand synthesizer without a window,
// the frames come from -replay or -serial sources.
// It runs until interrupted.

func main() {
	var opts app.Options
	opts.RegisterFlags(flag.CommandLine)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: handsynth-headless [flags]\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	logger := app.InitLogger(opts.Debug)

	if !opts.HasFrameSource() {
		logger.Error("no frame source: use -replay or -serial")
		os.Exit(1)
	}

	engine, mapNames, err := app.NewEngine(&opts, logger)
	if err != nil {
		logger.Error("setup failed", "err", err)
		os.Exit(1)
	}

	otoContext, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   opts.SampleRate,
		ChannelCount: 2,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		logger.Error("create audio context", "err", err)
		os.Exit(1)
	}
	<-ready

	player := otoContext.NewPlayer(engine)
	player.Play()
	logger.Info("playing", "sample_rate", opts.SampleRate)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	wait := app.StartProducers(ctx, &opts, engine, mapNames, logger)
	<-ctx.Done()

	player.Pause()
	wait()
	if err := player.Err(); err != nil {
		logger.Error("audio player", "err", err)
		os.Exit(1)
	}
	logger.Info("stopped")
}
