package analysis

import (
	"math"

	"github.com/cwbudde/algo-notesynth/dsp"
)

// Distance holds the measurements of Compare.
type Distance struct {
	SampleRate    int `json:"sample_rate"`
	AlignedFrames int `json:"aligned_frames"`
	LagSamples    int `json:"lag_samples"`

	TimeRMSE       float64 `json:"time_rmse"`
	EnvelopeRMSEDB float64 `json:"envelope_rmse_db"`
	SpectralRMSEDB float64 `json:"spectral_rmse_db"`

	// Score is in [0,1]; 0 means identical.
	Score      float64 `json:"score"`
	Similarity float64 `json:"similarity"`
}

const (
	envFrame   = 256
	envHop     = 128
	minAligned = 256
	compareFFT = 4096
)

// Compare aligns candidate to reference by cross-correlation and scores the
// difference in waveform, RMS envelope and average spectrum. Both signals are
// RMS-normalized first, so overall gain does not count.
func Compare(reference, candidate []float64, sampleRate int) Distance {
	d := Distance{SampleRate: sampleRate, Score: 1}
	ref := normalizeRMS(trimLeadingSilence(reference, SilenceThreshold), 0.1)
	cand := normalizeRMS(trimLeadingSilence(candidate, SilenceThreshold), 0.1)
	if sampleRate <= 0 || len(ref) < minAligned || len(cand) < minAligned {
		return d
	}

	maxLag := dsp.Clamp(sampleRate/2, 1, min(len(ref), len(cand))-1)
	d.LagSamples = estimateLag(ref, cand, maxLag)
	ref, cand = alignByLag(ref, cand, d.LagSamples)
	n := min(len(ref), len(cand), 12*sampleRate)
	if n < minAligned {
		return d
	}
	ref, cand = ref[:n], cand[:n]
	d.AlignedFrames = n

	var sum float64
	for i := range n {
		e := ref[i] - cand[i]
		sum += e * e
	}
	d.TimeRMSE = math.Sqrt(sum / float64(n))

	refEnv, candEnv := rmsEnvelope(ref), rmsEnvelope(cand)
	d.EnvelopeRMSEDB = dbRMSE(refEnv, candEnv, 0)

	if rs, err := Spectrum(ref, compareFFT); err == nil {
		if cs, err := Spectrum(cand, compareFFT); err == nil {
			d.SpectralRMSEDB = dbRMSE(rs, cs, 1)
		}
	}

	score := 0.35*clamp01(d.TimeRMSE/0.25) +
		0.30*clamp01(d.EnvelopeRMSEDB/30) +
		0.35*clamp01(d.SpectralRMSEDB/30)
	d.Score = clamp01(score)
	d.Similarity = math.Exp(-4 * d.Score)
	return d
}

func normalizeRMS(x []float64, target float64) []float64 {
	r := rms(x)
	out := make([]float64, len(x))
	if r <= 1e-12 {
		copy(out, x)
		return out
	}
	g := target / r
	for i, v := range x {
		out[i] = v * g
	}
	return out
}

// estimateLag returns the shift of cand against ref in [-maxLag, maxLag] with
// the largest (decimated) cross-correlation.
func estimateLag(ref, cand []float64, maxLag int) int {
	step := 2
	if len(ref) > 200000 || len(cand) > 200000 {
		step = 4
	}
	bestLag, best := 0, math.Inf(-1)
	for lag := -maxLag; lag <= maxLag; lag++ {
		ai, bi := max(lag, 0), max(-lag, 0)
		n := min(len(ref)-ai, len(cand)-bi)
		var s float64
		for i := 0; i < n; i += step {
			s += ref[ai+i] * cand[bi+i]
		}
		if s > best {
			best, bestLag = s, lag
		}
	}
	return bestLag
}

func alignByLag(ref, cand []float64, lag int) ([]float64, []float64) {
	if lag >= 0 {
		return ref[min(lag, len(ref)):], cand
	}
	return ref, cand[min(-lag, len(cand)):]
}

func rmsEnvelope(x []float64) []float64 {
	if len(x) < envFrame {
		return nil
	}
	out := make([]float64, 1+(len(x)-envFrame)/envHop)
	for i := range out {
		out[i] = rms(x[i*envHop : i*envHop+envFrame])
	}
	return out
}

// dbRMSE is the RMS difference in dB of a and b from index from onward.
func dbRMSE(a, b []float64, from int) float64 {
	n := min(len(a), len(b))
	if n <= from {
		return 0
	}
	var sum float64
	for i := from; i < n; i++ {
		e := linToDB(a[i]) - linToDB(b[i])
		sum += e * e
	}
	return math.Sqrt(sum / float64(n-from))
}

func clamp01(x float64) float64 {
	return dsp.Clamp(x, 0, 1)
}
