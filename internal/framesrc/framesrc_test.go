package framesrc

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/quasilyte/handsynth/handframe"
)

type recorder struct {
	frames    []handframe.Frame
	onPublish func(n int)
}

func (r *recorder) Publish(f handframe.Frame) {
	r.frames = append(r.frames, *f.Clone())
	if r.onPublish != nil {
		r.onPublish(len(r.frames))
	}
}

func (r *recorder) timestamps() []int64 {
	result := make([]int64, len(r.frames))
	for i, f := range r.frames {
		result[i] = f.Timestamp
	}
	return result
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const replayData = `# session
{"timestamp":1000,"hands":[{"left":false,"fingers":[{"tip":{"x":1,"y":150,"z":0}}]}]}
{"timestamp":2000,"hands":[]}
{"timestamp":3000,"hands":[{"left":true,"fingers":[]}]}
`

func TestReplay(t *testing.T) {
	var rec recorder
	err := Replay(context.Background(), strings.NewReader(replayData), &rec, ReplayConfig{
		Speed:  1000,
		Logger: quietLogger(),
	})
	if err != nil {
		t.Fatalf("Replay() error = %v", err)
	}
	want := []int64{1000, 2000, 3000}
	got := rec.timestamps()
	if len(got) != len(want) {
		t.Fatalf("timestamps = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("timestamps = %v, want %v", got, want)
		}
	}
	if !rec.frames[2].Hands[0].IsLeft {
		t.Fatalf("third frame = %+v", rec.frames[2])
	}
}

func TestReplayLoop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rec := recorder{
		onPublish: func(n int) {
			if n == 7 {
				cancel()
			}
		},
	}
	err := Replay(ctx, strings.NewReader(replayData), &rec, ReplayConfig{
		Speed:  1000,
		Loop:   true,
		Logger: quietLogger(),
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Replay() error = %v, want context.Canceled", err)
	}
	got := rec.timestamps()
	if len(got) != 7 {
		t.Fatalf("frames = %d, want 7", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i] <= got[i-1] {
			t.Fatalf("timestamps are not growing: %v", got)
		}
	}
}

func TestReplayErrors(t *testing.T) {
	var rec recorder

	err := Replay(context.Background(), strings.NewReader("{bad json}\n"), &rec, ReplayConfig{Logger: quietLogger()})
	var parseErr *handframe.ParseError
	if !errors.As(err, &parseErr) || parseErr.Line != 1 {
		t.Fatalf("Replay() error = %v, want a line 1 parse error", err)
	}

	r := io.MultiReader(strings.NewReader(replayData))
	if err := Replay(context.Background(), r, &rec, ReplayConfig{Loop: true}); err == nil {
		t.Fatalf("looped replay of a non-seekable reader succeeded")
	}

	if err := Replay(context.Background(), strings.NewReader(replayData), &rec, ReplayConfig{Speed: -1}); err == nil {
		t.Fatalf("negative speed was accepted")
	}
}

func TestReadFramesSkipsMalformedLines(t *testing.T) {
	input := strings.Join([]string{
		`mp":17,"hands":[]}`,
		`{"timestamp":18,"hands":[]}`,
		`{"timestamp":19,"hands":[{},{},{}]}`,
		`{"timestamp":20,"hands":[]}`,
	}, "\n")

	var rec recorder
	if err := readFrames(strings.NewReader(input), &rec, quietLogger()); err != nil {
		t.Fatalf("readFrames() error = %v", err)
	}
	got := rec.timestamps()
	if len(got) != 2 || got[0] != 18 || got[1] != 20 {
		t.Fatalf("timestamps = %v, want [18 20]", got)
	}
}
