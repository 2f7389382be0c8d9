package render

import (
	"bytes"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-notesynth/internal/wavio"
	"github.com/cwbudde/algo-notesynth/pitch"
	"github.com/cwbudde/algo-notesynth/score"
	"github.com/cwbudde/algo-notesynth/synth"
)

func quietConfig() Config {
	cfg := DefaultConfig()
	cfg.Silent = true
	cfg.Logger = slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		mut  func(*Config)
	}{
		{"zero bpm", func(c *Config) { c.BPM = 0 }},
		{"negative bpm", func(c *Config) { c.BPM = -60 }},
		{"nan bpm", func(c *Config) { c.BPM = math.NaN() }},
		{"negative repeat", func(c *Config) { c.Repeat = -1 }},
		{"boost below one", func(c *Config) { c.Boost = 0.5 }},
		{"zero legato", func(c *Config) { c.Legato = 0 }},
		{"legato above one", func(c *Config) { c.Legato = 1.5 }},
		{"full pause", func(c *Config) { c.Pause = 1 }},
		{"target peak too high", func(c *Config) { c.TargetPeak = 40000 }},
		{"low sample rate", func(c *Config) { c.SampleRate = 100 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mut(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}

	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	cfg.Engine = "organ"
	assert.ErrorIs(t, cfg.Validate(), synth.ErrUnknownEngine)
}

func TestTimelineRestAdvances(t *testing.T) {
	tl := NewTimeline(100, nil)
	tl.Advance(40)
	require.NoError(t, tl.Mix([]float64{1, 2}))
	assert.Equal(t, 40.0, tl.Cursor())
	for i := range 40 {
		assert.Zero(t, tl.Samples()[i])
	}
	assert.Equal(t, 1.0, tl.Samples()[40])
	assert.Equal(t, 2.0, tl.Samples()[41])

	require.NoError(t, tl.Mix([]float64{1}))
	assert.Equal(t, 2.0, tl.Samples()[40], "overlap sums")
}

func TestTimelineClipsAtEnd(t *testing.T) {
	var logs bytes.Buffer
	tl := NewTimeline(10, slog.New(slog.NewTextHandler(&logs, nil)))
	tl.Advance(8)
	require.NoError(t, tl.Mix([]float64{1, 1, 1, 1}))
	assert.Equal(t, []float64{0, 0, 0, 0, 0, 0, 0, 0, 1, 1}, tl.Samples())
	assert.Contains(t, logs.String(), "clipped")

	tl.Advance(5)
	assert.ErrorIs(t, tl.Mix([]float64{1}), ErrTimelineOverrun)
}

func TestNormalizeIdempotent(t *testing.T) {
	buf := []float64{0.1, -0.4, 0.25, 0.05}
	Normalize(buf, 16000)
	assert.InDelta(t, 16000, math.Abs(buf[1]), 1e-9)
	once := append([]float64(nil), buf...)

	gain := Normalize(buf, 16000)
	assert.InDelta(t, 1.0, gain, 1e-12)
	for i := range buf {
		assert.InDelta(t, once[i], buf[i], 1e-9)
	}

	silent := make([]float64, 8)
	assert.Equal(t, 1.0, Normalize(silent, 16000))
	assert.Equal(t, make([]float64, 8), silent)
}

func TestQuantize(t *testing.T) {
	out := Quantize([]float64{0.4, 0.6, -1.5, 40000, -40000}, 7)
	assert.Equal(t, []int16{0, 1, -2, 32767, -32768, 0, 0}, out)
	assert.Len(t, Quantize([]float64{1, 2, 3}, 2), 2)
}

func TestRenderScaleScenario(t *testing.T) {
	s := score.MustEvents("c4", 4, "e4", 4, "g4", 4, "c5", 1)
	path := filepath.Join(t.TempDir(), "scale.wav")

	res, err := RenderToFile(s, quietConfig(), path)
	require.NoError(t, err)

	quarter, whole := 22050, 88200
	want := 3*quarter + whole + 2*44100
	assert.Equal(t, 44100, res.SampleRate)
	assert.Len(t, res.PCM, want)
	assert.Equal(t, float64(3*quarter+whole), res.Cursor)
	assert.Equal(t, 4, res.Notes)

	var peak int
	for _, v := range res.PCM {
		peak = max(peak, int(math.Abs(float64(v))))
	}
	assert.Equal(t, 16000, peak)

	clip, err := wavio.Read(path)
	require.NoError(t, err)
	assert.Equal(t, 1, clip.Channels)
	assert.Equal(t, 44100, clip.SampleRate)
	assert.Equal(t, want, clip.Frames())
}

func dominantLag(x []int16, lo, hi int) int {
	best, bestLag := math.Inf(-1), lo
	for lag := lo; lag <= hi; lag++ {
		var sum float64
		for i := 0; i+lag < len(x); i++ {
			sum += float64(x[i]) * float64(x[i+lag])
		}
		if sum > best {
			best, bestLag = sum, lag
		}
	}
	return bestLag
}

func TestRenderRestThenNote(t *testing.T) {
	res, err := Render(score.MustEvents("r", 4, "c4", 4), quietConfig())
	require.NoError(t, err)

	const quarter = 22050
	for i := range quarter {
		require.Zero(t, res.PCM[i], "sample %d in rest span", i)
	}
	lag := dominantLag(res.PCM[quarter+2000:quarter+12000], 120, 220)
	assert.InDelta(t, 44100/pitch.KeyFreq(39), float64(lag), 1.0)
}

func TestRenderUnknownNoteWritesNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.wav")
	_, _, err := RenderLine("xyz", quietConfig(), path)
	assert.ErrorIs(t, err, pitch.ErrUnknownNote)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRenderLineOptions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "line.wav")
	res, opts, err := RenderLine("4c 4r --bpm=240 --repeat=1 --save", quietConfig(), path)
	require.NoError(t, err)
	assert.True(t, opts.Save)
	assert.Equal(t, float64(4*11025), res.Cursor)
	assert.Equal(t, 2, res.Notes)
	_, err = os.Stat(path)
	assert.NoError(t, err)

	_, _, err = RenderLine("4c --sound=organ", quietConfig(), path)
	assert.ErrorIs(t, err, synth.ErrUnknownEngine)
}

func TestRenderRestOnly(t *testing.T) {
	res, err := Render(score.MustEvents("r", 1), quietConfig())
	require.NoError(t, err)
	assert.Len(t, res.PCM, 88200+2*44100)
	for _, v := range res.PCM {
		require.Zero(t, v)
	}
	assert.Zero(t, res.Notes)
}

func TestRenderProgress(t *testing.T) {
	var logs bytes.Buffer
	cfg := DefaultConfig()
	cfg.Logger = slog.New(slog.NewTextHandler(&logs, nil))
	s := score.MustEvents("r", 8, "r", 8, "r", 8, "r", 8)
	cfg.Repeat = 1

	_, err := Render(s, cfg)
	require.NoError(t, err)
	assert.Contains(t, logs.String(), "[4/8]")
	assert.Contains(t, logs.String(), "[8/8]")

	logs.Reset()
	cfg.Silent = true
	_, err = Render(s, cfg)
	require.NoError(t, err)
	assert.NotContains(t, logs.String(), "[4/8]")
}

func TestRenderDottedRest(t *testing.T) {
	res, err := Render(score.MustEvents("r", -4), quietConfig())
	require.NoError(t, err)
	assert.Equal(t, 1.5*22050, res.Cursor)
}

func TestRenderStringEngine(t *testing.T) {
	cfg := quietConfig()
	cfg.Engine = synth.KindString
	res, err := Render(score.MustEvents("c5", 8, "e5*", 8), cfg)
	require.NoError(t, err)
	assert.Equal(t, 44100, res.SampleRate)
	assert.Len(t, res.PCM, 2*11025+2*44100)
}

func TestRenderSampleEngine(t *testing.T) {
	rec := make([]float64, 48000)
	for i := range rec {
		rec[i] = math.Sin(2 * math.Pi * 261.63 * float64(i) / 48000)
	}
	cfg := quietConfig()
	cfg.Engine = synth.KindSample
	cfg.Library = synth.MemoryLibrary{39: rec}

	res, err := Render(score.MustEvents("c4", 4, "d4", 4), cfg)
	require.NoError(t, err)
	assert.Equal(t, 48000, res.SampleRate)
	assert.Len(t, res.PCM, 2*24000+2*48000)

	cfg.Library = synth.MemoryLibrary{}
	_, err = Render(score.MustEvents("c4", 4), cfg)
	assert.ErrorIs(t, err, synth.ErrSampleMissing)
}

func TestRenderTransposeMatchesTarget(t *testing.T) {
	up, err := Render(score.MustEvents("c4", 4), func() Config {
		c := quietConfig()
		c.Transpose = 12
		return c
	}())
	require.NoError(t, err)
	lag := dominantLag(up.PCM[2000:12000], 60, 110)
	assert.InDelta(t, 44100/pitch.KeyFreq(51), float64(lag), 1.0)
}
