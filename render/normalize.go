package render

import (
	"math"

	"github.com/cwbudde/algo-notesynth/dsp"
)

// Normalize scales buf in place so its peak magnitude equals target. A silent
// buffer is left unchanged. It returns the applied gain.
func Normalize(buf []float64, target float64) float64 {
	peak := dsp.PeakAbs(buf)
	if peak == 0 {
		return 1
	}
	gain := target / peak
	for i := range buf {
		buf[i] *= gain
	}
	return gain
}

// Quantize rounds buf to 16-bit samples and returns exactly n of them,
// truncating or padding with silence.
func Quantize(buf []float64, n int) []int16 {
	out := make([]int16, max(n, 0))
	for i := range min(len(out), len(buf)) {
		out[i] = int16(dsp.Clamp(math.Round(buf[i]), -MaxPCM-1, MaxPCM))
	}
	return out
}
