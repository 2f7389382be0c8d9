package synth

import (
	"log/slog"
	"math"

	"github.com/cwbudde/algo-notesynth/dsp"
)

// Harmonic timing constants, in samples at the engine rate unless noted.
const (
	harmonicRawSeconds = 12
	harmonicTailPad    = 10 // seconds
	releaseTau         = 3000
	// Rendered length as a multiple of the nominal note length.
	harmonicSustain = 3.1
)

// Harmonic is the additive engine: five partials with per-key levels,
// exponential decay, a key-dependent attack blend and a slow tremolo.
type Harmonic struct {
	rate   int
	table  *HarmonicTable
	treble []float64
	bass   []float64
	cache  *HarmonicCache
	logger *slog.Logger
}

// NewHarmonic builds a harmonic engine. A nil cache disables caching.
func NewHarmonic(sampleRate int, cache *HarmonicCache, logger *slog.Logger) *Harmonic {
	if logger == nil {
		logger = slog.Default()
	}
	treble, bass := attackCurves()
	return &Harmonic{
		rate:   sampleRate,
		table:  NewHarmonicTable(),
		treble: treble,
		bass:   bass,
		cache:  cache,
		logger: logger,
	}
}

func (h *Harmonic) SampleRate() int { return h.rate }

func (h *Harmonic) TailPad() int { return harmonicTailPad * h.rate }

// Partials returns the raw partial sum for n before any per-occurrence
// shaping. The result is a private copy.
func (h *Harmonic) Partials(n Note) []float64 {
	if w, ok := h.cache.Get(n.Name); ok {
		return append([]float64(nil), w...)
	}
	w := h.synthesize(n)
	if h.cache.Wants(n.Name) {
		h.cache.Put(n.Name, append([]float64(nil), w...))
	}
	return w
}

func (h *Harmonic) synthesize(n Note) []float64 {
	sr := float64(h.rate)
	period := sr / n.Freq
	logFreq := math.Log(n.Freq)
	vol := volumeCorrection(logFreq)
	decay := decayTime(logFreq) * sr
	g := h.table.Gains(n.Key)

	raw := make([]float64, harmonicRawSeconds*h.rate)
	for x := range raw {
		fx := float64(x)
		s := 2 * math.Pi * fx / period
		over := math.Exp(-fx / 3 / decay)
		v := math.Sin(s)
		for p := 1; p < NumPartials; p++ {
			v += over * g[p] * math.Sin(partialMultiples[p]*s)
		}
		raw[x] = v * vol * math.Exp(-fx/decay)
	}
	return raw
}

// Render synthesizes n. The output runs 3.1 times the nominal length rounded
// to whole periods, and never shorter than one second.
func (h *Harmonic) Render(n Note) ([]float64, error) {
	sr := float64(h.rate)
	period := sr / n.Freq
	periods := math.Round(n.Length / sr * n.Freq)
	q := int(period * periods)
	logFreq := math.Log(n.Freq)

	want := max(int(harmonicSustain*float64(q)), h.rate)
	raw := h.Partials(n)
	if want > len(raw) {
		h.logger.Warn("note truncated", "note", n.Name, "want", want, "have", len(raw))
		want = len(raw)
	}
	out := raw[:want]
	dsp.ExpRelease(out, int(n.Legato*float64(q)), releaseTau)

	attack := min(float64(n.Key)/87*n.Loudness, 1)
	tremPeriod := sr / (logFreq * 100) * 32
	tremAmp := 0.05 - (logFreq-5)/100
	for i := range out {
		fac := 1.0
		if i < attackLen {
			fac = attack*h.treble[i] + (1-attack)*h.bass[i]
		}
		trem := 1 + tremAmp*math.Sin(2*math.Pi*float64(i)/tremPeriod)
		out[i] *= fac * n.Loudness * trem
	}
	return out, nil
}
