package framesrc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/quasilyte/handsynth/handframe"
	"go.bug.st/serial"
)

type SerialConfig struct {
	// Port is a serial device name, like "/dev/ttyACM0" or "COM3".
	Port string

	// A zero value will use 115200.
	Baud int

	// A nil value will use slog.Default().
	Logger *slog.Logger
}

// Serial reads JSON-lines frames from a serial device until ctx is cancelled.
//
// Malformed lines are logged and skipped: a live device
// can emit a partial line right after the port is opened.
func Serial(ctx context.Context, config SerialConfig, pub Publisher) error {
	if config.Baud == 0 {
		config.Baud = 115200
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	port, err := serial.Open(config.Port, &serial.Mode{BaudRate: config.Baud})
	if err != nil {
		return fmt.Errorf("open %s: %w", config.Port, err)
	}
	config.Logger.Info("serial port opened", "device", config.Port, "baud", config.Baud)

	// Closing the port unblocks the pending Read.
	stop := context.AfterFunc(ctx, func() {
		_ = port.Close()
	})
	defer func() {
		if stop() {
			_ = port.Close()
		}
	}()

	err = readFrames(port, pub, config.Logger)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return err
}

// readFrames publishes every valid frame from r.
// It returns nil on EOF.
func readFrames(r io.Reader, pub Publisher, logger *slog.Logger) error {
	dec := handframe.NewDecoder(r)
	var f handframe.Frame
	for {
		err := dec.Decode(&f)
		if err == io.EOF {
			return nil
		}
		var parseErr *handframe.ParseError
		if errors.As(err, &parseErr) {
			logger.Warn("skipping malformed frame", "line", parseErr.Line, "err", parseErr.Message)
			continue
		}
		if err != nil {
			return err
		}
		pub.Publish(f)
	}
}
