// Package render turns a score into 16-bit mono PCM: it resolves pitches and
// durations, renders each note with the configured engine, mixes the notes on
// a timeline, normalizes the mix and writes the WAV file.
package render

import (
	"fmt"
	"math"
	"time"

	"github.com/cwbudde/algo-notesynth/internal/wavio"
	"github.com/cwbudde/algo-notesynth/pitch"
	"github.com/cwbudde/algo-notesynth/score"
	"github.com/cwbudde/algo-notesynth/synth"
	"github.com/cwbudde/algo-notesynth/timing"
)

const (
	endPadSeconds = 2
	progressEvery = 4
)

// Result is a finished render.
type Result struct {
	PCM        []int16
	SampleRate int
	// Cursor is the final timeline position in samples, excluding the end pad.
	Cursor float64
	Notes  int
	Gain   float64
}

// Duration returns the playing time of the PCM buffer.
func (r *Result) Duration() time.Duration {
	return time.Duration(float64(len(r.PCM)) / float64(r.SampleRate) * float64(time.Second))
}

type step struct {
	rest   bool
	note   synth.Note
	length float64
}

// plan resolves every event to a note or rest before anything is allocated,
// so unknown names fail the render up front. Lengths are filled in later.
func plan(s score.Score, cfg *Config, table *pitch.Table) ([]step, map[string]int, error) {
	steps := make([]step, len(s))
	counts := make(map[string]int)
	for i, ev := range s {
		if err := timing.Check(ev.Duration); err != nil {
			return nil, nil, fmt.Errorf("event %d: %w", i, err)
		}
		if ev.IsRest() {
			steps[i] = step{rest: true}
			continue
		}
		e, err := table.Lookup(ev.Note)
		if err != nil {
			return nil, nil, fmt.Errorf("event %d: %w", i, err)
		}
		name := table.Canonical(e.Key)
		counts[name]++
		t := pitch.Transpose(e, cfg.Transpose)
		loud := 1.0
		if ev.Accent {
			loud = cfg.Boost
		}
		steps[i] = step{note: synth.Note{
			Name:     name,
			Freq:     t.Freq,
			Key:      t.Key,
			Loudness: loud,
			Legato:   cfg.Legato,
		}}
	}
	return steps, counts, nil
}

// Render renders s with cfg.
func Render(s score.Score, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := cfg.logger()

	steps, counts, err := plan(s, &cfg, pitch.NewTable())
	if err != nil {
		return nil, err
	}
	eng, err := cfg.engine(synth.NewHarmonicCache(counts))
	if err != nil {
		return nil, err
	}
	clock, err := timing.NewClock(eng.SampleRate(), cfg.BPM)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	var pass float64
	for i, ev := range s {
		steps[i].length = clock.Samples(ev.Duration)
		steps[i].note.Length = steps[i].length
		pass += steps[i].length
	}
	passes := cfg.Repeat + 1
	tl := NewTimeline(int(math.Ceil(pass*float64(passes)))+eng.TailPad(), log)

	total := len(steps) * passes
	done := 0
	for range passes {
		for _, st := range steps {
			done++
			if !st.rest {
				x, err := eng.Render(st.note)
				if err != nil {
					return nil, err
				}
				if err := tl.Mix(x); err != nil {
					return nil, err
				}
			}
			tl.Advance(st.length)
			if !cfg.Silent && done%progressEvery == 0 {
				log.Info(fmt.Sprintf("[%d/%d]", done, total))
			}
		}
	}

	mix := tl.Samples()
	gain := Normalize(mix, cfg.TargetPeak)
	n := int(float64(endPadSeconds*eng.SampleRate()) + tl.Cursor() + 0.5)
	return &Result{
		PCM:        Quantize(mix, n),
		SampleRate: eng.SampleRate(),
		Cursor:     tl.Cursor(),
		Notes:      s.NoteCount() * passes,
		Gain:       gain,
	}, nil
}

// RenderToFile renders s and writes a mono 16-bit WAV file to path. Nothing
// is written when rendering fails.
func RenderToFile(s score.Score, cfg Config, path string) (*Result, error) {
	res, err := Render(s, cfg)
	if err != nil {
		return nil, err
	}
	if err := wavio.WritePCM16(path, res.PCM, res.SampleRate); err != nil {
		return nil, fmt.Errorf("write %s: %w", path, err)
	}
	if !cfg.Silent {
		cfg.logger().Info("wrote", "path", path, "duration", res.Duration().Round(time.Millisecond))
	}
	return res, nil
}

// Apply overrides cfg with the options of a shorthand line.
func Apply(cfg Config, opts score.Options) (Config, error) {
	if opts.BPM != nil {
		cfg.BPM = *opts.BPM
	}
	if opts.Repeat != nil {
		cfg.Repeat = *opts.Repeat
	}
	if opts.Transpose != nil {
		cfg.Transpose = *opts.Transpose
	}
	if opts.Legato != nil {
		cfg.Legato = *opts.Legato
	}
	if opts.Boost != nil {
		cfg.Boost = *opts.Boost
	}
	if opts.Sound != nil {
		kind, err := synth.ParseKind(*opts.Sound)
		if err != nil {
			return cfg, err
		}
		cfg.Engine = kind
	}
	if opts.Silent {
		cfg.Silent = true
	}
	return cfg, cfg.Validate()
}

// RenderLine parses a shorthand line, applies its options to cfg and writes
// the result to path.
func RenderLine(line string, cfg Config, path string) (*Result, score.Options, error) {
	s, opts, err := score.ParseLine(line)
	if err != nil {
		return nil, opts, err
	}
	cfg, err = Apply(cfg, opts)
	if err != nil {
		return nil, opts, err
	}
	res, err := RenderToFile(s, cfg, path)
	return res, opts, err
}
