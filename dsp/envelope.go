package dsp

import "github.com/cwbudde/algo-approx"

// ExpRelease multiplies buf[start:] by exp(-n/tau), n counted from start.
func ExpRelease(buf []float64, start int, tau float64) {
	if start < 0 {
		start = 0
	}
	if tau <= 0 {
		for i := start; i < len(buf); i++ {
			buf[i] = 0
		}
		return
	}
	inv := float32(-1.0 / tau)
	for i := start; i < len(buf); i++ {
		g := approx.FastExp(float32(i-start) * inv)
		if g < 1e-12 {
			for j := i; j < len(buf); j++ {
				buf[j] = 0
			}
			return
		}
		buf[i] *= float64(g)
	}
}

// FadeOut applies a linear ramp from 1 to 0 over the last n samples of buf.
func FadeOut(buf []float64, n int) {
	if n > len(buf) {
		n = len(buf)
	}
	if n <= 0 {
		return
	}
	start := len(buf) - n
	if n == 1 {
		buf[start] = 0
		return
	}
	step := 1.0 / float64(n-1)
	for i := 0; i < n; i++ {
		buf[start+i] *= 1.0 - float64(i)*step
	}
}
