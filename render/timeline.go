package render

import (
	"errors"
	"fmt"
	"log/slog"
)

// ErrTimelineOverrun means a note started past the end of the timeline. The
// buffer is sized from the score before rendering, so this indicates a bug in
// that precomputation.
var ErrTimelineOverrun = errors.New("timeline overrun")

// Timeline is the mix buffer of one render. It is allocated once and notes
// are summed into it at the running cursor.
type Timeline struct {
	buf    []float64
	cursor float64
	logger *slog.Logger
}

// NewTimeline allocates a zeroed timeline of n samples.
func NewTimeline(n int, logger *slog.Logger) *Timeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Timeline{buf: make([]float64, max(n, 0)), logger: logger}
}

// Cursor returns the current position in (fractional) samples.
func (t *Timeline) Cursor() float64 { return t.cursor }

// Len returns the allocated length.
func (t *Timeline) Len() int { return len(t.buf) }

// Samples returns the mix buffer.
func (t *Timeline) Samples() []float64 { return t.buf }

// Advance moves the cursor by n samples.
func (t *Timeline) Advance(n float64) { t.cursor += n }

// Mix sums x into the timeline at the cursor. Samples past the end of the
// buffer are dropped with a warning.
func (t *Timeline) Mix(x []float64) error {
	at := int(t.cursor)
	if at < 0 || at > len(t.buf) {
		return fmt.Errorf("%w: note at %d, timeline has %d samples", ErrTimelineOverrun, at, len(t.buf))
	}
	n := len(x)
	if at+n > len(t.buf) {
		t.logger.Warn("note clipped at end of timeline", "at", at, "want", n, "have", len(t.buf)-at)
		n = len(t.buf) - at
	}
	dst := t.buf[at : at+n]
	for i, v := range x[:n] {
		dst[i] += v
	}
	return nil
}
