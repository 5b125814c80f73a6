package handframe

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Decoder reads frames encoded as JSON lines:
//
//	{"timestamp":1000,"hands":[{"left":false,"fingers":[{"tip":{"x":0,"y":150,"z":0}}]}]}
//
// Empty lines and lines starting with '#' are skipped.
type Decoder struct {
	scanner *bufio.Scanner
	line    int
}

func NewDecoder(r io.Reader) *Decoder {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 4096), 1024*1024)
	return &Decoder{scanner: s}
}

// Decode reads the next frame into dst.
//
// It returns io.EOF when there are no more frames.
// A non-nil error is usually a *ParseError object.
func (d *Decoder) Decode(dst *Frame) error {
	for d.scanner.Scan() {
		d.line++
		data := bytes.TrimSpace(d.scanner.Bytes())
		if len(data) == 0 || data[0] == '#' {
			continue
		}
		*dst = Frame{}
		if err := json.Unmarshal(data, dst); err != nil {
			return d.errorf("decode frame: %v", err)
		}
		return d.validate(dst)
	}
	if err := d.scanner.Err(); err != nil {
		return fmt.Errorf("read frames: %w", err)
	}
	return io.EOF
}

func (d *Decoder) validate(f *Frame) error {
	if len(f.Hands) > MaxHands {
		return d.errorf("too many hands: %d", len(f.Hands))
	}
	for i, h := range f.Hands {
		if len(h.Fingers) > MaxFingers {
			return d.errorf("hands[%d]: too many fingers: %d", i, len(h.Fingers))
		}
	}
	return nil
}

func (d *Decoder) errorf(format string, args ...any) *ParseError {
	return &ParseError{
		Message: fmt.Sprintf(format, args...),
		Line:    d.line,
	}
}

// Encoder writes frames in the format understood by Decoder.
type Encoder struct {
	w   io.Writer
	buf bytes.Buffer
}

func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

func (e *Encoder) Encode(f *Frame) error {
	e.buf.Reset()
	if err := json.NewEncoder(&e.buf).Encode(f); err != nil {
		return err
	}
	_, err := e.w.Write(e.buf.Bytes())
	return err
}
