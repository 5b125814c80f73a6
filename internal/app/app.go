// Package app holds the setup code shared by the handsynth executables.
package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/quasilyte/handsynth"
	"github.com/quasilyte/handsynth/bankfile"
	"github.com/quasilyte/handsynth/internal/framesrc"
	"github.com/quasilyte/handsynth/internal/httpctl"
)

// Options are the command-line settings.
type Options struct {
	BankFile   string
	SampleRate int
	Volume     float64

	ReplayFile  string
	ReplayLoop  bool
	ReplaySpeed float64

	SerialPort string
	SerialBaud int

	HTTPAddr string

	Debug bool
}

// RegisterFlags binds the options to the flag set.
func (o *Options) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&o.BankFile, "bank", "", "instrument bank YAML file; the built-in bank is used if empty")
	fs.IntVar(&o.SampleRate, "rate", 44100, "output sample rate")
	fs.Float64Var(&o.Volume, "volume", 1, "initial master volume in [0, 1]")
	fs.StringVar(&o.ReplayFile, "replay", "", "replay the frames from a JSON-lines file")
	fs.BoolVar(&o.ReplayLoop, "loop", false, "loop the replay file")
	fs.Float64Var(&o.ReplaySpeed, "speed", 1, "replay speed multiplier")
	fs.StringVar(&o.SerialPort, "serial", "", "read the frames from a serial device")
	fs.IntVar(&o.SerialBaud, "baud", 115200, "serial device baud rate")
	fs.StringVar(&o.HTTPAddr, "http", "", "serve the HTTP control API on this address, like localhost:8080")
	fs.BoolVar(&o.Debug, "debug", false, "enable debug logs")
}

// HasFrameSource reports whether the frames come from a device or a file.
func (o *Options) HasFrameSource() bool {
	return o.ReplayFile != "" || o.SerialPort != ""
}

// InitLogger configures the default slog logger.
func InitLogger(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:     level,
		AddSource: debug,
	})
	logger := slog.New(h)
	slog.SetDefault(logger)
	return logger
}

// NewEngine loads the instrument bank and creates an engine.
func NewEngine(o *Options, logger *slog.Logger) (*handsynth.Engine, []string, error) {
	b := bankfile.Default()
	if o.BankFile != "" {
		parsed, err := bankfile.ParseFile(o.BankFile)
		if err != nil {
			return nil, nil, fmt.Errorf("load bank: %w", err)
		}
		b = parsed
	}
	bank, err := handsynth.LoadBank(b, handsynth.LoadBankConfig{Logger: logger})
	if err != nil {
		return nil, nil, fmt.Errorf("compile bank: %w", err)
	}
	if o.Volume <= 0 || o.Volume > 1 {
		return nil, nil, errors.New("volume should be in (0, 1]")
	}
	engine, err := handsynth.NewEngine(handsynth.Config{
		Bank:       bank,
		SampleRate: o.SampleRate,
		Volume:     o.Volume,
		Logger:     logger,
	})
	if err != nil {
		return nil, nil, err
	}

	engine.Bridge().SetObserver(500, func(stats handsynth.BridgeStats) {
		logger.Debug("frames published",
			"total", stats.Published,
			"timestamp", stats.Timestamp,
			"interval", stats.Interval)
	})

	mapNames := make([]string, bank.NumMaps())
	for i := range mapNames {
		mapNames[i] = bank.Map(i).Name
	}
	return engine, mapNames, nil
}

// StartProducers runs the frame sources and the HTTP server
// in the background until ctx is cancelled.
//
// The returned function waits for all of them to stop.
func StartProducers(ctx context.Context, o *Options, engine *handsynth.Engine, mapNames []string, logger *slog.Logger) (wait func()) {
	var wg sync.WaitGroup
	run := func(name string, f func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := f()
			switch {
			case err == nil:
				logger.Info(name + " stopped")
			case errors.Is(err, context.Canceled):
			default:
				logger.Error(name+" failed", "err", err)
			}
		}()
	}

	if o.ReplayFile != "" {
		run("replay", func() error {
			f, err := os.Open(o.ReplayFile)
			if err != nil {
				return err
			}
			defer f.Close()
			return framesrc.Replay(ctx, f, engine.Bridge(), framesrc.ReplayConfig{
				Speed:  o.ReplaySpeed,
				Loop:   o.ReplayLoop,
				Logger: logger,
			})
		})
	}
	if o.SerialPort != "" {
		run("serial", func() error {
			return framesrc.Serial(ctx, framesrc.SerialConfig{
				Port:   o.SerialPort,
				Baud:   o.SerialBaud,
				Logger: logger,
			}, engine.Bridge())
		})
	}
	if o.HTTPAddr != "" {
		h := httpctl.NewHandler(engine, httpctl.Config{
			MapNames: mapNames,
			Logger:   logger,
		})
		run("http", func() error {
			return httpctl.Serve(ctx, o.HTTPAddr, h, logger)
		})
	}

	return wg.Wait
}
