// Package timing converts symbolic note values into sample counts.
//
// A duration code N > 0 is 1/N of a whole note. A negative code -M is the
// dotted value of 1/M and is remapped to 2M/3 before conversion, so the
// dotted length is derived from the same formula instead of being scaled
// afterwards.
package timing

import (
	"errors"
	"fmt"
	"math"
	"math/big"
)

// ErrInvalidTempo is returned for a non-positive or non-finite tempo.
var ErrInvalidTempo = errors.New("invalid tempo")

// ErrInvalidDuration is returned for a zero or non-finite duration code.
var ErrInvalidDuration = errors.New("invalid duration code")

const (
	quarterNotesPerWhole = 4.0
	secondsPerMinute     = 60.0
)

// Clock converts duration codes at a fixed sample rate and tempo.
type Clock struct {
	SampleRate int
	BPM        float64
}

// NewClock validates the tempo and sample rate.
func NewClock(sampleRate int, bpm float64) (Clock, error) {
	if sampleRate <= 0 {
		return Clock{}, fmt.Errorf("invalid sample rate: %d", sampleRate)
	}
	if bpm <= 0 || math.IsNaN(bpm) || math.IsInf(bpm, 0) {
		return Clock{}, fmt.Errorf("%w: %v", ErrInvalidTempo, bpm)
	}
	return Clock{SampleRate: sampleRate, BPM: bpm}, nil
}

// WholeNote returns the length of a whole note in samples.
func (c Clock) WholeNote() float64 {
	return quarterNotesPerWhole * secondsPerMinute / c.BPM * float64(c.SampleRate)
}

// Denominator returns the effective denominator of a duration code, applying
// the dotted remap for negative codes.
func Denominator(code float64) float64 {
	if code < 0 {
		return -2.0 * code / 3.0
	}
	return code
}

// Samples returns the (fractional) sample count of a duration code. The
// quotient is formed in rational arithmetic and rounded once, which keeps a
// dotted value at exactly 1.5x its base wherever both are representable.
func (c Clock) Samples(code float64) float64 {
	bpm := new(big.Rat).SetFloat64(c.BPM)
	den := new(big.Rat).SetFloat64(math.Abs(code))
	if bpm == nil || den == nil || bpm.Sign() == 0 || den.Sign() == 0 {
		return math.Inf(1)
	}
	if code < 0 {
		den.Mul(den, big.NewRat(2, 3))
	}
	r := big.NewRat(int64(quarterNotesPerWhole*secondsPerMinute)*int64(c.SampleRate), 1)
	r.Quo(r, bpm)
	r.Quo(r, den)
	f, _ := r.Float64()
	return f
}

// Check reports whether code is usable as a duration.
func Check(code float64) error {
	if code == 0 || math.IsNaN(code) || math.IsInf(code, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidDuration, code)
	}
	return nil
}
