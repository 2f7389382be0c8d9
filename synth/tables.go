package synth

import (
	"math"

	"github.com/cwbudde/algo-notesynth/dsp"
	"github.com/cwbudde/algo-notesynth/pitch"
)

// NumPartials is the number of partials in the harmonic model: the
// fundamental plus the 2nd, 3rd, 4th and 8th harmonics.
const NumPartials = 5

// partialMultiples maps table columns to harmonic numbers.
var partialMultiples = [NumPartials]float64{1, 2, 3, 4, 8}

// partialLevels holds measured partial levels in dB. Rows are keyed by
// 1-based key number.
var partialLevels = [][1 + NumPartials]float64{
	{1, -15.8, -3., -15.3, -22.8, -40.7},
	{16, -15.8, -3., -15.3, -22.8, -40.7},
	{28, -5.7, -4.4, -17.7, -16., -38.7},
	{40, -6.8, -17.2, -22.4, -16.8, -75.6},
	{52, -8.4, -19.7, -23.5, -21.6, -76.8},
	{64, -9.3, -20.8, -37.2, -36.3, -76.4},
	{76, -18., -64.5, -74.4, -77.3, -80.8},
	{88, -24.8, -53.8, -77.2, -80.8, -90.},
}

// HarmonicTable holds linear partial gains per key, relative to the
// fundamental. Column 0 is always 1.
type HarmonicTable [pitch.NumKeys][NumPartials]float64

// NewHarmonicTable interpolates the measured partial levels over all keys.
func NewHarmonicTable() *HarmonicTable {
	cols := make([][]dsp.Point, NumPartials)
	for h := range NumPartials {
		cols[h] = make([]dsp.Point, len(partialLevels))
		for i, row := range partialLevels {
			cols[h][i] = dsp.Point{X: row[0], Y: row[h+1]}
		}
	}
	var t HarmonicTable
	for k := range pitch.NumKeys {
		x := float64(k + 1)
		ref := dsp.Interpolate(cols[0], x)
		for h := range NumPartials {
			t[k][h] = dsp.DBToGain(dsp.Interpolate(cols[h], x) - ref)
		}
	}
	return &t
}

// Gains returns the partial gains of key k, clamped to the keyboard.
func (t *HarmonicTable) Gains(k int) [NumPartials]float64 {
	return t[dsp.Clamp(k, 0, pitch.NumKeys-1)]
}

// attackLen is the length of the attack blend in samples.
const attackLen = 3000

var (
	trebleAttack = []dsp.Point{
		{X: 0, Y: 0}, {X: 100, Y: .2}, {X: 300, Y: .7}, {X: 400, Y: .6}, {X: 600, Y: .25},
		{X: 800, Y: .9}, {X: 1000, Y: 1.25}, {X: 2000, Y: 1.15}, {X: 3000, Y: 1},
	}
	bassAttack = []dsp.Point{
		{X: 0, Y: 0}, {X: 100, Y: .1}, {X: 300, Y: .2}, {X: 400, Y: .15}, {X: 600, Y: .1},
		{X: 800, Y: .9}, {X: 1000, Y: 1.25}, {X: 2000, Y: 1.15}, {X: 3000, Y: 1},
	}
)

// attackCurves samples both attack envelopes over attackLen.
func attackCurves() (treble, bass []float64) {
	treble = make([]float64, attackLen)
	bass = make([]float64, attackLen)
	for i := range attackLen {
		treble[i] = dsp.Interpolate(trebleAttack, float64(i))
		bass[i] = dsp.Interpolate(bassAttack, float64(i))
	}
	return treble, bass
}

// decayPoints maps log-frequency to log decay time in seconds.
var decayPoints = []dsp.Point{
	{X: 0, Y: math.Log(3)},
	{X: 3, Y: math.Log(5)},
	{X: 5, Y: math.Log(1)},
	{X: 6, Y: math.Log(.8)},
	{X: 9, Y: math.Log(.1)},
}

const decaySteps = 900

// decayTable tabulates decay times at a log-frequency resolution of 0.01.
var decayTable = func() [decaySteps]float64 {
	var t [decaySteps]float64
	for n := range decaySteps {
		t[n] = math.Exp(dsp.Interpolate(decayPoints, float64(n)/100))
	}
	return t
}()

// decayTime returns the partial decay time constant in seconds.
func decayTime(logFreq float64) float64 {
	return decayTable[dsp.Clamp(int(logFreq*100), 0, decaySteps-1)]
}

func cosPi(x float64) float64 {
	return math.Cos(math.Pi / 5.3 * x)
}
