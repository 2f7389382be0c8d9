package synth

import (
	"log/slog"
	"math"
	"math/rand"

	dspcore "github.com/cwbudde/algo-dsp/dsp/core"

	"github.com/cwbudde/algo-notesynth/dsp"
)

const (
	stringTailPad   = 20 // seconds
	stringSmoothing = 10
	stringEndAmp    = 0.25
	stringFade      = 1000
)

// String is a Karplus-Strong plucked string: a burst of smoothed noise one
// period long, fed back through a two-point averaging fractional delay.
type String struct {
	rate   int
	pause  float64
	rng    *rand.Rand
	logger *slog.Logger
}

// NewString builds a string engine. pause shortens the excitation length by
// that fraction of the nominal duration. The noise generator is seeded once,
// so a render sequence is reproducible for a given seed.
func NewString(sampleRate int, pause float64, seed int64, logger *slog.Logger) *String {
	if logger == nil {
		logger = slog.Default()
	}
	return &String{
		rate:   sampleRate,
		pause:  pause,
		rng:    rand.New(rand.NewSource(seed)),
		logger: logger,
	}
}

func (s *String) SampleRate() int { return s.rate }

func (s *String) TailPad() int { return stringTailPad * s.rate }

// Render plucks n. Low notes ring twice as long.
func (s *String) Render(n Note) ([]float64, error) {
	sr := float64(s.rate)
	length := (1 - s.pause) * n.Length
	period := sr / n.Freq
	periods := max(math.Round(length/sr*n.Freq), 1)
	q := int(period * periods)
	logFreq := math.Log(n.Freq)

	size := int((10 - logFreq) * float64(q))
	if logFreq < 4 {
		size *= 2
	}
	fd := dsp.NewFractionalDelay(period)
	if size <= 0 || fd.Near < 2 {
		s.logger.Warn("note outside string range", "note", n.Name, "freq", n.Freq)
		return nil, nil
	}

	noise := make([]float64, fd.Near)
	for i := range noise {
		noise[i] = s.rng.Float64()*2 - 1
	}
	seed, err := dsp.MovingAverage(noise, stringSmoothing)
	if err != nil {
		return nil, err
	}
	buf := make([]float64, size)
	copy(buf, seed)

	whole := math.Floor(period)
	shifted := period * (whole - 1) / whole
	shiftedFrac := shifted - math.Floor(shifted)
	falloff := math.Pow(4/logFreq*stringEndAmp, 1/periods)

	for t := fd.Far; t < size; t++ {
		a := fd.Tap(buf, t)
		b := fd.TapWith(buf, t+1, shiftedFrac)
		buf[t] = dspcore.FlushDenormals(buf[t] + 0.5*(a+b)*falloff)
	}

	gain := n.Loudness * volumeCorrection(logFreq)
	for i := range buf {
		buf[i] *= gain
	}
	dsp.FadeOut(buf, stringFade)
	return buf, nil
}
