package synth

import (
	"fmt"
	"log/slog"

	"github.com/cwbudde/algo-notesynth/dsp"
)

const (
	samplerTailPad = 10 // seconds
	samplerFade    = 1000
)

// Sampler plays recorded piano notes, shifting each recording up by zero,
// one or two semitones to cover the keys between recordings.
type Sampler struct {
	rate    int
	library Library
	logger  *slog.Logger
}

// NewSampler builds a sample-playback engine over lib.
func NewSampler(sampleRate int, lib Library, logger *slog.Logger) *Sampler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sampler{rate: sampleRate, library: lib, logger: logger}
}

func (s *Sampler) SampleRate() int { return s.rate }

func (s *Sampler) TailPad() int { return samplerTailPad * s.rate }

// Render returns exactly the nominal length of n unless the shifted
// recording is shorter, in which case the recording length is used.
func (s *Sampler) Render(n Note) ([]float64, error) {
	rec, err := s.library.Recording(n.Key)
	if err != nil {
		return nil, fmt.Errorf("note %s: %w", n.Name, err)
	}
	buf := dsp.ResampleLinear(rec, PlaybackRatio(n.Key))
	dsp.ExpRelease(buf, int(n.Legato*n.Length), releaseTau)

	want := int(n.Length)
	if want > len(buf) {
		s.logger.Warn("note truncated", "note", n.Name, "want", want, "have", len(buf))
		want = len(buf)
	}
	out := buf[:want]
	dsp.FadeOut(out, samplerFade)
	for i := range out {
		out[i] *= n.Loudness
	}
	return out, nil
}
