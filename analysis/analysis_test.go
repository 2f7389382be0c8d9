package analysis

import (
	"math"
	"math/rand"
	"testing"
	"time"
)

func TestCompareIdenticalSignalsHasLowDistance(t *testing.T) {
	sr := 44100
	x := makeDecaySine(sr, 440.0, 1.5, 0.7)
	d := Compare(x, x, sr)
	if d.Score > 0.05 {
		t.Fatalf("expected very low score for identical signals, got %f", d.Score)
	}
	if d.Similarity < 0.85 {
		t.Fatalf("expected high similarity for identical signals, got %f", d.Similarity)
	}
	if d.LagSamples != 0 {
		t.Fatalf("lag = %d, want 0", d.LagSamples)
	}
}

func TestCompareDifferentSignalsHasHigherDistance(t *testing.T) {
	sr := 44100
	a := makeDecaySine(sr, 261.63, 1.8, 0.8)
	b := makeDecaySine(sr, 330.0, 0.8, 0.25)
	if d := Compare(a, b, sr); d.Score < 0.25 {
		t.Fatalf("expected higher score for different signals, got %f", d.Score)
	}
}

func TestCompareIgnoresGain(t *testing.T) {
	sr := 44100
	a := makeDecaySine(sr, 440, 1, 0.5)
	b := make([]float64, len(a))
	for i, v := range a {
		b[i] = 0.25 * v
	}
	if d := Compare(a, b, sr); d.Score > 0.01 {
		t.Fatalf("gain change scored %f", d.Score)
	}
}

func TestCompareTooShort(t *testing.T) {
	d := Compare([]float64{1, 2}, []float64{1, 2}, 44100)
	if d.Score != 1 || d.AlignedFrames != 0 {
		t.Fatalf("short input: %+v", d)
	}
}

func TestEstimateLagFindsShift(t *testing.T) {
	const n = 8192
	ref := randomSignal(n, 7)
	for _, shift := range []int{237, -191} {
		cand := make([]float64, n)
		if shift > 0 {
			copy(cand, ref[shift:])
		} else {
			copy(cand[-shift:], ref)
		}
		if got := estimateLag(ref, cand, 600); got != shift {
			t.Fatalf("estimateLag() = %d, want %d", got, shift)
		}
	}
}

func TestDominantFrequency(t *testing.T) {
	sr := 44100
	for _, f := range []float64{110, 261.63, 440, 1046.5} {
		x := makeDecaySine(sr, f, 1, 10)
		got, err := DominantFrequency(x, sr)
		if err != nil {
			t.Fatalf("DominantFrequency: %v", err)
		}
		if math.Abs(got-f) > 1.5 {
			t.Fatalf("DominantFrequency(%v) = %v", f, got)
		}
	}
	got, err := DominantFrequency(make([]float64, 1000), sr)
	if err != nil || got != 0 {
		t.Fatalf("silence: %v, %v", got, err)
	}
}

func TestSpectrumRejectsBadSize(t *testing.T) {
	if _, err := Spectrum([]float64{1, 2, 3}, 1000); err == nil {
		t.Fatalf("expected error for non power of two")
	}
}

func TestMeasure(t *testing.T) {
	sr := 44100
	tone := makeDecaySine(sr, 440, 1, 1e9)
	x := append(make([]float64, 4410), tone...)
	for i := range x {
		x[i] *= 0.5
	}
	s, err := Measure(x, sr)
	if err != nil {
		t.Fatalf("Measure: %v", err)
	}
	if s.Frames != len(x) || s.Duration() != 1100*time.Millisecond {
		t.Fatalf("frames=%d duration=%v", s.Frames, s.Duration())
	}
	if math.Abs(s.Peak-0.5) > 1e-3 {
		t.Fatalf("peak = %v", s.Peak)
	}
	wantRMS := 0.5 / math.Sqrt2 * math.Sqrt(1/1.1)
	if math.Abs(s.RMS-wantRMS) > 1e-3 {
		t.Fatalf("rms = %v want %v", s.RMS, wantRMS)
	}
	// The first tone sample is sin(0) == 0.
	if s.LeadingSilence != 4411 {
		t.Fatalf("leading silence = %d", s.LeadingSilence)
	}
	if math.Abs(s.DominantHz-440) > 1.5 {
		t.Fatalf("dominant = %v", s.DominantHz)
	}
}

func makeDecaySine(sr int, freq float64, durationSec float64, decaySec float64) []float64 {
	n := max(int(float64(sr)*durationSec), 1)
	out := make([]float64, n)
	for i := range out {
		t := float64(i) / float64(sr)
		out[i] = math.Exp(-t/decaySec) * math.Sin(2*math.Pi*freq*t)
	}
	return out
}

func randomSignal(n int, seed int64) []float64 {
	rng := rand.New(rand.NewSource(seed))
	out := make([]float64, n)
	for i := range out {
		out[i] = rng.Float64()*2 - 1
	}
	return out
}
