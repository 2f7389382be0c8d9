package dsp

import (
	"math"
	"testing"
)

func TestInterpolate(t *testing.T) {
	table := []Point{{0, 0}, {100, 0.2}, {300, 0.7}, {3000, 1}}
	tests := []struct {
		x, want float64
	}{
		{-5, 0},
		{0, 0},
		{50, 0.1},
		{100, 0.2},
		{200, 0.45},
		{3000, 1},
		{4000, 1},
	}
	for _, tt := range tests {
		if got := Interpolate(table, tt.x); math.Abs(got-tt.want) > 1e-12 {
			t.Fatalf("Interpolate(%v)=%v want %v", tt.x, got, tt.want)
		}
	}
	if Interpolate(nil, 3) != 0 {
		t.Fatalf("expected zero for empty table")
	}
}

func TestClamp(t *testing.T) {
	if Clamp(5, 0, 3) != 3 || Clamp(-1, 0, 3) != 0 || Clamp(2, 0, 3) != 2 {
		t.Fatalf("int clamp mismatch")
	}
	if Clamp(0.5, 0.0, 0.25) != 0.25 {
		t.Fatalf("float clamp mismatch")
	}
}

func TestFractionalDelayTap(t *testing.T) {
	buf := []float64{0, 10, 20, 30, 40, 50}
	fd := NewFractionalDelay(2.25)
	if fd.Near != 2 || fd.Far != 3 || math.Abs(fd.Frac-0.25) > 1e-12 {
		t.Fatalf("unexpected taps: %+v", fd)
	}
	// buf[5-2]=30, buf[5-3]=20
	if got := fd.Tap(buf, 5); math.Abs(got-27.5) > 1e-12 {
		t.Fatalf("Tap=%v want 27.5", got)
	}
	whole := NewFractionalDelay(3)
	if whole.Near != whole.Far || whole.Frac != 0 {
		t.Fatalf("integer delay taps: %+v", whole)
	}
	if got := whole.Tap(buf, 3); got != 0 {
		t.Fatalf("Tap=%v want 0", got)
	}
}

func TestExpReleaseDecays(t *testing.T) {
	buf := make([]float64, 10000)
	for i := range buf {
		buf[i] = 1
	}
	ExpRelease(buf, 1000, 3000)
	for i := 0; i < 1000; i++ {
		if buf[i] != 1 {
			t.Fatalf("sample %d modified before release start", i)
		}
	}
	want := math.Exp(-1)
	if got := buf[4000]; math.Abs(got-want) > 0.01 {
		t.Fatalf("buf[4000]=%v want ~%v", got, want)
	}
	if buf[9999] >= buf[4000] || buf[4000] >= buf[1500] {
		t.Fatalf("release not decaying: %v %v %v", buf[1500], buf[4000], buf[9999])
	}
}

func TestFadeOut(t *testing.T) {
	buf := []float64{1, 1, 1, 1, 1}
	FadeOut(buf, 3)
	want := []float64{1, 1, 1, 0.5, 0}
	for i := range want {
		if math.Abs(buf[i]-want[i]) > 1e-12 {
			t.Fatalf("buf=%v want %v", buf, want)
		}
	}
	FadeOut(nil, 10)
}

func TestMovingAverageMatchesDirect(t *testing.T) {
	x := []float64{1, -2, 3, 0.5, -1, 4, 2, -3}
	const width = 3
	got, err := MovingAverage(x, width)
	if err != nil {
		t.Fatalf("MovingAverage: %v", err)
	}
	for i := range x {
		var sum float64
		for j := i; j < i+width && j < len(x); j++ {
			sum += x[j]
		}
		if want := sum / width; math.Abs(got[i]-want) > 1e-5 {
			t.Fatalf("y[%d]=%v want %v", i, got[i], want)
		}
	}
	if _, err := MovingAverage(x, 0); err == nil {
		t.Fatalf("expected error for zero width")
	}
}

func TestResampleLinear(t *testing.T) {
	x := make([]float64, 100)
	for i := range x {
		x[i] = float64(i)
	}
	y := ResampleLinear(x, 1.5)
	if len(y) != 66 {
		t.Fatalf("len=%d want 66", len(y))
	}
	for i, v := range y {
		if math.Abs(v-1.5*float64(i)) > 1e-9 {
			t.Fatalf("y[%d]=%v want %v", i, v, 1.5*float64(i))
		}
	}
	same := ResampleLinear(x, 1)
	same[0] = 42
	if x[0] != 0 {
		t.Fatalf("ratio 1 must copy")
	}
}
