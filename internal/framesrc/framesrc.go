// Package framesrc implements the tracking frame producers.
package framesrc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/quasilyte/handsynth/handframe"
)

// Publisher accepts the decoded frames.
// handsynth.FrameBridge implements it.
type Publisher interface {
	Publish(f handframe.Frame)
}

type ReplayConfig struct {
	// Speed is a playback speed multiplier.
	// A zero value means the recorded speed.
	Speed float64

	// Loop restarts the replay after the last frame.
	// The reader must implement io.Seeker for this to work.
	Loop bool

	// A nil value will use slog.Default().
	Logger *slog.Logger
}

// Replay publishes the recorded frames, keeping the recorded pacing.
//
// Frame timestamps are interpreted as microseconds.
// Replay returns nil when the recording is over,
// or ctx.Err() when the context is cancelled.
func Replay(ctx context.Context, r io.Reader, pub Publisher, config ReplayConfig) error {
	if config.Speed == 0 {
		config.Speed = 1
	}
	if config.Speed < 0 {
		return errors.New("negative replay speed")
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	var seeker io.Seeker
	if config.Loop {
		s, ok := r.(io.Seeker)
		if !ok {
			return errors.New("looped replay requires a seekable reader")
		}
		seeker = s
	}

	// Timestamps restart on every loop, so the output timestamps
	// are shifted to keep them growing.
	var shift int64
	pass := 0
	for {
		last, numFrames, err := replayOnce(ctx, r, pub, config.Speed, shift)
		if err != nil {
			return err
		}
		pass++
		config.Logger.Debug("replay finished", slog.Int("pass", pass), slog.Int("frames", numFrames))
		if seeker == nil || numFrames == 0 {
			return nil
		}
		if _, err := seeker.Seek(0, io.SeekStart); err != nil {
			return fmt.Errorf("rewind replay: %w", err)
		}
		shift = last + 1
	}
}

func replayOnce(ctx context.Context, r io.Reader, pub Publisher, speed float64, shift int64) (last int64, numFrames int, err error) {
	dec := handframe.NewDecoder(r)
	var f handframe.Frame
	prevTimestamp := int64(0)
	last = shift
	for {
		err := dec.Decode(&f)
		if err == io.EOF {
			return last, numFrames, nil
		}
		if err != nil {
			return last, numFrames, err
		}

		if numFrames != 0 {
			delta := f.Timestamp - prevTimestamp
			if delta > 0 {
				d := time.Duration(float64(delta) * float64(time.Microsecond) / speed)
				if err := sleep(ctx, d); err != nil {
					return last, numFrames, err
				}
			}
		} else if err := ctx.Err(); err != nil {
			return last, numFrames, err
		}
		prevTimestamp = f.Timestamp

		f.Timestamp += shift
		last = f.Timestamp
		pub.Publish(f)
		numFrames++
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
