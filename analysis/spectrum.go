// Package analysis measures rendered audio: level statistics, the dominant
// pitch, and a distance score between a render and a reference recording.
package analysis

import (
	"fmt"
	"math"
	"math/cmplx"

	algofft "github.com/cwbudde/algo-fft"
)

// DefaultFFTSize is the frame length used by Spectrum and DominantFrequency.
const DefaultFFTSize = 8192

func hann(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n-1))
	}
	return w
}

// Spectrum returns the magnitude spectrum of x averaged over Hann-windowed
// frames of size samples with 50% overlap. Bin k is k*sampleRate/size Hz.
// Signals shorter than one frame are zero-padded.
func Spectrum(x []float64, size int) ([]float64, error) {
	if size < 4 || size&(size-1) != 0 {
		return nil, fmt.Errorf("fft size must be a power of two >= 4, got %d", size)
	}
	plan, err := algofft.NewPlanReal64(size)
	if err != nil {
		return nil, fmt.Errorf("fft plan: %w", err)
	}
	win := hann(size)
	buf := make([]float64, size)
	spec := make([]complex128, size/2+1)
	avg := make([]float64, size/2+1)

	frames := 0
	hop := size / 2
	for pos := 0; frames == 0 || pos+size <= len(x); pos += hop {
		for i := range buf {
			buf[i] = 0
			if pos+i < len(x) {
				buf[i] = x[pos+i] * win[i]
			}
		}
		plan.Forward(spec, buf)
		for k := range avg {
			avg[k] += cmplx.Abs(spec[k])
		}
		frames++
	}
	for k := range avg {
		avg[k] /= float64(frames)
	}
	return avg, nil
}

// DominantFrequency returns the frequency in Hz of the strongest spectral
// peak of x, refined by parabolic interpolation. It returns 0 for silence.
func DominantFrequency(x []float64, sampleRate int) (float64, error) {
	mag, err := Spectrum(x, DefaultFFTSize)
	if err != nil {
		return 0, err
	}
	best := 0
	for k := 1; k < len(mag)-1; k++ {
		if mag[k] > mag[best] {
			best = k
		}
	}
	if best == 0 || mag[best] == 0 {
		return 0, nil
	}
	a, b, c := mag[best-1], mag[best], mag[best+1]
	offset := 0.0
	if den := a - 2*b + c; den != 0 {
		offset = 0.5 * (a - c) / den
	}
	return (float64(best) + offset) * float64(sampleRate) / DefaultFFTSize, nil
}
