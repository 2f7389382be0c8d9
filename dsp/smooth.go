package dsp

import (
	"fmt"

	algofft "github.com/cwbudde/algo-fft"
)

// MovingAverage returns y[t] = mean(x[t:t+width]) for every t, treating
// samples past the end of x as zero. The boxcar is applied by FFT convolution.
func MovingAverage(x []float64, width int) ([]float64, error) {
	if width < 1 {
		return nil, fmt.Errorf("moving average width must be >= 1, got %d", width)
	}
	if len(x) == 0 {
		return nil, nil
	}
	in := make([]float32, len(x))
	for i, v := range x {
		in[i] = float32(v)
	}
	box := make([]float32, width)
	for i := range box {
		box[i] = 1.0 / float32(width)
	}
	conv := make([]float32, len(in)+width-1)
	if err := algofft.ConvolveReal(conv, in, box); err != nil {
		return nil, err
	}
	out := make([]float64, len(x))
	for t := range out {
		out[t] = float64(conv[t+width-1])
	}
	return out, nil
}

// ResampleLinear reads x at positions i*ratio with linear interpolation,
// which plays the signal ratio times faster. The result has len(x)/ratio
// samples.
func ResampleLinear(x []float64, ratio float64) []float64 {
	if ratio == 1 || len(x) == 0 {
		return append([]float64(nil), x...)
	}
	n := int(float64(len(x)) / ratio)
	out := make([]float64, n)
	for i := range out {
		pos := float64(i) * ratio
		idx := int(pos)
		q := pos - float64(idx)
		if idx+1 >= len(x) {
			out[i] = x[len(x)-1] * (1 - q)
			continue
		}
		out[i] = (1-q)*x[idx] + q*x[idx+1]
	}
	return out
}
