package analysis

import (
	"math"
	"time"
)

// Stats summarizes a mono signal.
type Stats struct {
	SampleRate int     `json:"sample_rate"`
	Frames     int     `json:"frames"`
	Peak       float64 `json:"peak"`
	RMS        float64 `json:"rms"`
	PeakDB     float64 `json:"peak_db"`
	RMSDB      float64 `json:"rms_db"`
	// LeadingSilence is the number of frames before the first sample above
	// the silence threshold.
	LeadingSilence int     `json:"leading_silence"`
	DominantHz     float64 `json:"dominant_hz"`
}

// SilenceThreshold is the level below which a sample counts as silent.
const SilenceThreshold = 1e-6

// Duration returns the signal length.
func (s Stats) Duration() time.Duration {
	if s.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(s.Frames) / float64(s.SampleRate) * float64(time.Second))
}

// Measure computes Stats for x.
func Measure(x []float64, sampleRate int) (Stats, error) {
	s := Stats{SampleRate: sampleRate, Frames: len(x)}
	s.Peak = peak(x)
	s.RMS = rms(x)
	s.PeakDB = linToDB(s.Peak)
	s.RMSDB = linToDB(s.RMS)
	s.LeadingSilence = len(x) - len(trimLeadingSilence(x, SilenceThreshold))
	if len(x) == 0 || sampleRate <= 0 {
		return s, nil
	}
	hz, err := DominantFrequency(x[s.LeadingSilence:], sampleRate)
	if err != nil {
		return s, err
	}
	s.DominantHz = hz
	return s, nil
}

func peak(x []float64) float64 {
	var p float64
	for _, v := range x {
		p = max(p, math.Abs(v))
	}
	return p
}

func rms(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	var sum float64
	for _, v := range x {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(x)))
}

func linToDB(x float64) float64 {
	return 20.0 * math.Log10(max(x, 1e-12))
}

func trimLeadingSilence(x []float64, threshold float64) []float64 {
	for i, v := range x {
		if math.Abs(v) > threshold {
			return x[i:]
		}
	}
	return nil
}
