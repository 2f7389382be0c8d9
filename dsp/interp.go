// Package dsp holds the small numeric building blocks shared by the
// synthesis engines.
package dsp

import (
	"math"

	"golang.org/x/exp/constraints"
)

// Point is one breakpoint of a piecewise-linear table.
type Point struct {
	X, Y float64
}

// Interpolate evaluates a piecewise-linear breakpoint table at x. Points must
// be sorted by X. Values outside the table are held at the end points.
func Interpolate(table []Point, x float64) float64 {
	n := len(table)
	if n == 0 {
		return 0
	}
	if x <= table[0].X {
		return table[0].Y
	}
	if x >= table[n-1].X {
		return table[n-1].Y
	}
	for i := 1; i < n; i++ {
		hi := table[i]
		if x > hi.X {
			continue
		}
		if x == hi.X {
			return hi.Y
		}
		lo := table[i-1]
		return Lerp(lo.Y, hi.Y, (x-lo.X)/(hi.X-lo.X))
	}
	return table[n-1].Y
}

// Lerp blends a and b linearly, t=0 gives a.
func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// Clamp limits v to [lo, hi].
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// DBToGain converts a level in dB to a linear amplitude ratio.
func DBToGain(db float64) float64 {
	return math.Pow(10, db/20.0)
}

// PeakAbs returns the largest absolute value in x.
func PeakAbs(x []float64) float64 {
	peak := 0.0
	for _, v := range x {
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}
	return peak
}
