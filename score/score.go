// Package score holds the note event model and the shorthand grammar used by
// the command line interpreter.
package score

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cwbudde/algo-notesynth/pitch"
	"github.com/cwbudde/algo-notesynth/timing"
)

// ErrMalformedToken is returned for tokens whose duration or option syntax
// cannot be parsed.
var ErrMalformedToken = errors.New("malformed score token")

// Rest is the pitch symbol of a rest.
const Rest = "r"

// Event is one note or rest. Note holds the normalized name ("c#4") or Rest.
// Duration is the duration code: N means 1/N of a whole note, -M is dotted 1/M.
type Event struct {
	Note     string
	Duration float64
	Accent   bool
}

// IsRest reports whether the event is a rest.
func (e Event) IsRest() bool {
	return e.Note == Rest
}

func (e Event) String() string {
	s := fmt.Sprintf("%g%s", e.Duration, e.Note)
	if e.Accent {
		s += "*"
	}
	return s
}

// Score is an ordered list of events; order defines playback order.
type Score []Event

// NewEvent builds an event from a pitch symbol such as "c#5*", "eb" or "r".
func NewEvent(symbol string, duration float64) (Event, error) {
	sym := strings.ToLower(strings.TrimSpace(symbol))
	ev := Event{Duration: duration}
	if strings.HasSuffix(sym, "*") {
		ev.Accent = true
		sym = strings.TrimSuffix(sym, "*")
	}
	if sym == Rest {
		ev.Note = Rest
		ev.Accent = false
	} else {
		n, err := pitch.ParseName(sym)
		if err != nil {
			return Event{}, err
		}
		ev.Note = n.String()
	}
	if err := timing.Check(duration); err != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	return ev, nil
}

// MustEvents builds a score from (symbol, duration) pairs and panics on
// invalid input. Intended for tests and demo songs.
func MustEvents(pairs ...any) Score {
	if len(pairs)%2 != 0 {
		panic("score: odd number of arguments")
	}
	out := make(Score, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		sym, ok := pairs[i].(string)
		if !ok {
			panic(fmt.Sprintf("score: argument %d is not a string", i))
		}
		var dur float64
		switch v := pairs[i+1].(type) {
		case int:
			dur = float64(v)
		case float64:
			dur = v
		default:
			panic(fmt.Sprintf("score: argument %d is not a number", i+1))
		}
		ev, err := NewEvent(sym, dur)
		if err != nil {
			panic(err)
		}
		out = append(out, ev)
	}
	return out
}

// NoteCount returns the number of non-rest events.
func (s Score) NoteCount() int {
	n := 0
	for _, ev := range s {
		if !ev.IsRest() {
			n++
		}
	}
	return n
}

func (s Score) String() string {
	parts := make([]string, len(s))
	for i, ev := range s {
		parts[i] = ev.String()
	}
	return strings.Join(parts, " ")
}
