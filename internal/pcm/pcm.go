// Package pcm decodes instrument recordings into mono float PCM.
package pcm

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
)

// Clip is a decoded recording.
type Clip struct {
	// Samples are mono amplitudes in [-1, 1].
	Samples []float32

	// SampleRate is the native sample rate of the recording.
	SampleRate int
}

var ErrUnsupportedFormat = errors.New("unsupported audio format")

// DecodeFile decodes a recording, the format is selected by the file extension.
//
// Multi-channel recordings are down-mixed by averaging the channels.
func DecodeFile(path string) (*Clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ext := strings.ToLower(filepath.Ext(path))
	clip, err := Decode(f, ext)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return clip, nil
}

// Decode is like DecodeFile, but reads from r.
// ext is a file extension with a leading dot (".wav", ".mp3", ".ogg").
func Decode(r io.ReadSeeker, ext string) (*Clip, error) {
	var clip *Clip
	var err error
	switch ext {
	case ".wav":
		clip, err = decodeWAV(r)
	case ".mp3":
		clip, err = decodeMP3(r)
	case ".ogg":
		clip, err = decodeOGG(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, err
	}
	if len(clip.Samples) == 0 {
		return nil, errors.New("recording has no samples")
	}
	if clip.SampleRate <= 0 {
		return nil, fmt.Errorf("bad sample rate: %d", clip.SampleRate)
	}
	return clip, nil
}

func decodeWAV(r io.ReadSeeker) (*Clip, error) {
	d := wav.NewDecoder(r)
	if !d.IsValidFile() {
		return nil, errors.New("invalid WAV file")
	}
	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, err
	}
	bitDepth := buf.SourceBitDepth
	if bitDepth == 0 {
		bitDepth = int(d.BitDepth)
	}
	if bitDepth == 0 {
		return nil, errors.New("unknown WAV bit depth")
	}
	scale := 1 / math.Pow(2, float64(bitDepth-1))
	numChannels := buf.Format.NumChannels
	samples := make([]float32, len(buf.Data))
	for i, v := range buf.Data {
		samples[i] = float32(float64(v) * scale)
	}
	return &Clip{
		Samples:    downmix(samples, numChannels),
		SampleRate: buf.Format.SampleRate,
	}, nil
}

func decodeMP3(r io.Reader) (*Clip, error) {
	d, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, err
	}
	// go-mp3 always produces 16-bit LE stereo.
	data, err := io.ReadAll(d)
	if err != nil {
		return nil, err
	}
	const numChannels = 2
	samples := make([]float32, len(data)/2)
	for i := range samples {
		v := int16(uint16(data[i*2]) | uint16(data[i*2+1])<<8)
		samples[i] = float32(v) / 32768
	}
	return &Clip{
		Samples:    downmix(samples, numChannels),
		SampleRate: d.SampleRate(),
	}, nil
}

func decodeOGG(r io.Reader) (*Clip, error) {
	samples, format, err := oggvorbis.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return &Clip{
		Samples:    downmix(samples, format.Channels),
		SampleRate: format.SampleRate,
	}, nil
}

func downmix(interleaved []float32, numChannels int) []float32 {
	if numChannels <= 1 {
		return interleaved
	}
	n := len(interleaved) / numChannels
	mono := make([]float32, n)
	scale := 1 / float32(numChannels)
	for i := range mono {
		sum := float32(0)
		for _, v := range interleaved[i*numChannels : (i+1)*numChannels] {
			sum += v
		}
		mono[i] = sum * scale
	}
	return mono
}
