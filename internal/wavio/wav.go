// Package wavio reads and writes the WAV files used by the renderer and the
// sample library.
package wavio

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	dspresample "github.com/cwbudde/algo-dsp/dsp/resample"
	"github.com/cwbudde/wav"
	"github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"
)

// ErrInvalidWAV is returned for files the decoder cannot read.
var ErrInvalidWAV = errors.New("invalid wav file")

// Clip holds decoded interleaved float samples.
type Clip struct {
	Data       []float32
	Channels   int
	SampleRate int
}

// Frames returns the number of sample frames.
func (c *Clip) Frames() int {
	if c.Channels < 1 {
		return 0
	}
	return len(c.Data) / c.Channels
}

// Channel extracts one channel as float64.
func (c *Clip) Channel(ch int) ([]float64, error) {
	if ch < 0 || ch >= c.Channels {
		return nil, fmt.Errorf("channel %d out of range (have %d)", ch, c.Channels)
	}
	out := make([]float64, c.Frames())
	for i := range out {
		out[i] = float64(c.Data[i*c.Channels+ch])
	}
	return out, nil
}

// Mono averages all channels.
func (c *Clip) Mono() []float64 {
	out := make([]float64, c.Frames())
	for i := range out {
		var sum float64
		for ch := range c.Channels {
			sum += float64(c.Data[i*c.Channels+ch])
		}
		out[i] = sum / float64(c.Channels)
	}
	return out
}

// Read decodes a WAV file into float samples.
func Read(path string) (*Clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidWAV, path)
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if buf == nil || buf.Format == nil || buf.Format.NumChannels < 1 {
		return nil, fmt.Errorf("%w: %s has no channels", ErrInvalidWAV, path)
	}
	return &Clip{
		Data:       buf.Data,
		Channels:   buf.Format.NumChannels,
		SampleRate: buf.Format.SampleRate,
	}, nil
}

// ReadChannel decodes one channel of path and resamples it to rate. A rate of
// zero keeps the file rate.
func ReadChannel(path string, ch, rate int) ([]float64, error) {
	clip, err := Read(path)
	if err != nil {
		return nil, err
	}
	x, err := clip.Channel(ch)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if rate <= 0 {
		return x, nil
	}
	return Resample(x, clip.SampleRate, rate)
}

// Resample converts x between sample rates. Equal rates return x unchanged.
func Resample(x []float64, fromRate, toRate int) ([]float64, error) {
	if fromRate == toRate {
		return x, nil
	}
	r, err := dspresample.NewForRates(
		float64(fromRate),
		float64(toRate),
		dspresample.WithQuality(dspresample.QualityBest),
	)
	if err != nil {
		return nil, err
	}
	return r.Process(x), nil
}

// EncodePCM16 writes mono 16-bit PCM to w.
func EncodePCM16(w io.WriteSeeker, samples []int16, sampleRate int) error {
	enc := gowav.NewEncoder(w, sampleRate, 16, 1, 1)
	data := make([]int, len(samples))
	for i, s := range samples {
		data[i] = int(s)
	}
	buf := &audio.IntBuffer{
		Format:         &audio.Format{SampleRate: sampleRate, NumChannels: 1},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		return err
	}
	return enc.Close()
}

// WritePCM16 writes mono 16-bit PCM to path, creating parent directories.
// A partially written file is removed on failure.
func WritePCM16(path string, samples []int16, sampleRate int) (err error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			os.Remove(path)
		}
	}()
	return EncodePCM16(f, samples, sampleRate)
}

// WriteFloat writes mono float samples in [-1, 1] as 16-bit PCM. It is used
// for test fixtures and sample-library tooling.
func WriteFloat(path string, data []float32, sampleRate int) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := wav.NewEncoder(f, sampleRate, 16, 1, 1)
	defer enc.Close()

	buf := &audio.Float32Buffer{
		Format: &audio.Format{
			SampleRate:  sampleRate,
			NumChannels: 1,
		},
		Data:           data,
		SourceBitDepth: 16,
	}
	return enc.Write(buf)
}
