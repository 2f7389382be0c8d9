// Package synth renders single notes into finite sample buffers. Three
// techniques share the Engine interface: additive harmonic synthesis with a
// per-render partial cache, a Karplus-Strong plucked string, and playback of
// recorded piano samples with pitch-shifting.
package synth

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// ErrUnknownEngine is returned for an unsupported engine selector.
var ErrUnknownEngine = errors.New("unknown engine")

// Kind selects a synthesis engine.
type Kind string

const (
	KindHarmonic Kind = "harmonic"
	KindString   Kind = "string"
	KindSample   Kind = "sample"
)

// ParseKind resolves an engine selector. The short aliases "b" and "s" name
// the harmonic and string engines.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "harmonic", "piano", "b":
		return KindHarmonic, nil
	case "string", "pluck", "s":
		return KindString, nil
	case "sample", "sampler", "samp":
		return KindSample, nil
	default:
		return "", fmt.Errorf("%w: %q (expected harmonic|string|sample)", ErrUnknownEngine, s)
	}
}

// NativeSampleRate is the default output rate of an engine.
func (k Kind) NativeSampleRate() int {
	if k == KindSample {
		return 48000
	}
	return 44100
}

// Note is one note to render.
type Note struct {
	Name     string  // canonical key name, used as cache key
	Freq     float64 // fundamental in Hz, after transposition
	Key      int     // key index 0..87 selecting per-key tables
	Length   float64 // nominal duration in samples
	Loudness float64 // 1 for normal notes, the accent boost otherwise
	Legato   float64 // fraction of Length after which decay is forced
}

// Engine renders one note at a time.
type Engine interface {
	SampleRate() int
	// TailPad is the silence the timeline reserves after the score for decay
	// tails.
	TailPad() int
	Render(n Note) ([]float64, error)
}

// Options configure New.
type Options struct {
	SampleRate int
	Cache      *HarmonicCache
	Pause      float64
	Seed       int64
	Library    Library
	Logger     *slog.Logger
}

// New builds the engine for kind.
func New(kind Kind, opts Options) (Engine, error) {
	if opts.SampleRate <= 0 {
		opts.SampleRate = kind.NativeSampleRate()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	switch kind {
	case KindHarmonic:
		return NewHarmonic(opts.SampleRate, opts.Cache, opts.Logger), nil
	case KindString:
		return NewString(opts.SampleRate, opts.Pause, opts.Seed, opts.Logger), nil
	case KindSample:
		if opts.Library == nil {
			return nil, fmt.Errorf("%w: no sample library configured", ErrSampleMissing)
		}
		return NewSampler(opts.SampleRate, opts.Library, opts.Logger), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEngine, kind)
	}
}

// volumeCorrection is the log-frequency loudness curve shared by the
// synthesized engines.
func volumeCorrection(logFreq float64) float64 {
	t := (logFreq - 3.0) / (8.5 - 3.0)
	return 1.0 + 0.8*t*cosPi(logFreq-3.0)
}
