package dsp

import "math"

// FractionalDelay splits a delay in samples into the two integer taps that
// bracket it and the weight of the far tap.
type FractionalDelay struct {
	Near int
	Far  int
	Frac float64
}

// NewFractionalDelay builds taps for delay d. For integer delays both taps
// coincide and Frac is zero.
func NewFractionalDelay(d float64) FractionalDelay {
	return FractionalDelay{
		Near: int(math.Floor(d)),
		Far:  int(math.Ceil(d)),
		Frac: d - math.Floor(d),
	}
}

// Tap reads buf at pos minus the delay, interpolating linearly between the
// near and far taps.
func (fd FractionalDelay) Tap(buf []float64, pos int) float64 {
	return fd.TapWith(buf, pos, fd.Frac)
}

// TapWith is Tap with an explicit far-tap weight.
func (fd FractionalDelay) TapWith(buf []float64, pos int, frac float64) float64 {
	near := buf[pos-fd.Near]
	if fd.Far == fd.Near || frac == 0 {
		return near
	}
	return (1-frac)*near + frac*buf[pos-fd.Far]
}
