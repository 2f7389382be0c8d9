package render

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/cwbudde/algo-notesynth/synth"
)

// ErrInvalidConfig is returned by Config.Validate.
var ErrInvalidConfig = errors.New("invalid render config")

// MaxPCM is the largest 16-bit sample magnitude.
const MaxPCM = 32767

// Config controls one render.
type Config struct {
	SampleRate int // 0 selects the engine's native rate
	BPM        float64
	Transpose  int // semitones
	Repeat     int // extra passes over the score
	Boost      float64
	Legato     float64
	Pause      float64 // string engine: fraction of each note left silent
	Engine     synth.Kind
	TargetPeak float64
	Seed       int64

	SampleDir   string
	SampleLayer int
	Library     synth.Library // overrides SampleDir when set

	Silent bool
	Logger *slog.Logger
}

func DefaultConfig() Config {
	return Config{
		BPM:         120,
		Boost:       1.1,
		Legato:      0.9,
		Engine:      synth.KindHarmonic,
		TargetPeak:  16000,
		Seed:        1,
		SampleDir:   "samples",
		SampleLayer: synth.DefaultLayer,
	}
}

func (c *Config) Validate() error {
	if c.SampleRate < 0 || (c.SampleRate > 0 && c.SampleRate < 8000) {
		return fmt.Errorf("%w: sample rate %d", ErrInvalidConfig, c.SampleRate)
	}
	if c.BPM <= 0 || math.IsNaN(c.BPM) || math.IsInf(c.BPM, 0) {
		return fmt.Errorf("%w: bpm must be > 0, got %v", ErrInvalidConfig, c.BPM)
	}
	if c.Repeat < 0 {
		return fmt.Errorf("%w: repeat must be >= 0", ErrInvalidConfig)
	}
	if c.Boost < 1 {
		return fmt.Errorf("%w: boost must be >= 1", ErrInvalidConfig)
	}
	if c.Legato <= 0 || c.Legato > 1 {
		return fmt.Errorf("%w: legato must be in (0,1]", ErrInvalidConfig)
	}
	if c.Pause < 0 || c.Pause >= 1 {
		return fmt.Errorf("%w: pause must be in [0,1)", ErrInvalidConfig)
	}
	if c.TargetPeak <= 0 || c.TargetPeak > MaxPCM {
		return fmt.Errorf("%w: target peak must be in (0,%d]", ErrInvalidConfig, MaxPCM)
	}
	if _, err := synth.ParseKind(string(c.Engine)); err != nil {
		return err
	}
	return nil
}

func (c *Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

// engine builds the synthesis engine for c. cache may be nil.
func (c *Config) engine(cache *synth.HarmonicCache) (synth.Engine, error) {
	kind, err := synth.ParseKind(string(c.Engine))
	if err != nil {
		return nil, err
	}
	lib := c.Library
	if kind == synth.KindSample && lib == nil {
		rate := c.SampleRate
		if rate == 0 {
			rate = kind.NativeSampleRate()
		}
		lib = synth.NewDirLibrary(c.SampleDir, c.SampleLayer, rate)
	}
	return synth.New(kind, synth.Options{
		SampleRate: c.SampleRate,
		Cache:      cache,
		Pause:      c.Pause,
		Seed:       c.Seed,
		Library:    lib,
		Logger:     c.logger(),
	})
}
