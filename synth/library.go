package synth

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sync"

	"github.com/cwbudde/algo-notesynth/internal/wavio"
	"github.com/cwbudde/algo-notesynth/pitch"
)

// ErrSampleMissing is returned when a recording cannot be found.
var ErrSampleMissing = errors.New("sample missing")

// DefaultLayer is the velocity layer used when none is configured.
const DefaultLayer = 10

// The library holds one recording every three keys, starting at A0.
var sampleNames = [4]string{"A", "C", "D#", "F#"}

// SampledKey returns the recorded key that k is pitch-shifted from.
func SampledKey(k int) int { return k - k%3 }

// PlaybackRatio returns the speed-up applied to the recording of
// SampledKey(k) to reach k.
func PlaybackRatio(k int) float64 {
	switch k % 3 {
	case 1:
		return semitone
	case 2:
		return semitone * semitone
	default:
		return 1
	}
}

var semitone = pitchRatio(1)

func pitchRatio(semitones int) float64 {
	return pitch.KeyFreq(semitones) / pitch.BaseFreq
}

// SampleFile returns the file name of the recording for key k at a velocity
// layer, e.g. "C4v10.wav".
func SampleFile(k, layer int) string {
	s := SampledKey(k)
	return fmt.Sprintf("%s%dv%d.wav", sampleNames[(s/3)%4], pitch.KeyOctave(s), layer)
}

// Library supplies mono recordings at the engine sample rate.
type Library interface {
	Recording(key int) ([]float64, error)
}

// DirLibrary loads recordings from a directory of WAV files. Only the left
// channel is used. Loaded recordings are kept for reuse.
type DirLibrary struct {
	Dir        string
	Layer      int
	SampleRate int

	mu    sync.Mutex
	cache map[int][]float64
}

// NewDirLibrary returns a library rooted at dir.
func NewDirLibrary(dir string, layer, sampleRate int) *DirLibrary {
	if layer <= 0 {
		layer = DefaultLayer
	}
	return &DirLibrary{Dir: dir, Layer: layer, SampleRate: sampleRate, cache: make(map[int][]float64)}
}

// Recording returns the recording for the sampled key of k.
func (l *DirLibrary) Recording(k int) ([]float64, error) {
	s := SampledKey(k)
	l.mu.Lock()
	defer l.mu.Unlock()
	if x, ok := l.cache[s]; ok {
		return x, nil
	}
	path := filepath.Join(l.Dir, SampleFile(s, l.Layer))
	x, err := wavio.ReadChannel(path, 0, l.SampleRate)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrSampleMissing, path)
	}
	if err != nil {
		return nil, err
	}
	l.cache[s] = x
	return x, nil
}

// MemoryLibrary serves recordings held in memory, keyed by sampled key.
type MemoryLibrary map[int][]float64

func (m MemoryLibrary) Recording(k int) ([]float64, error) {
	x, ok := m[SampledKey(k)]
	if !ok {
		return nil, fmt.Errorf("%w: key %d", ErrSampleMissing, SampledKey(k))
	}
	return x, nil
}
