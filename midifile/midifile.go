// Package midifile reduces one track of a Standard MIDI File to a monophonic
// score that the renderer can play.
package midifile

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"

	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/cwbudde/algo-notesynth/pitch"
	"github.com/cwbudde/algo-notesynth/score"
)

// ErrNoNotes is returned when the selected track holds no playable notes.
var ErrNoNotes = errors.New("no notes in track")

const (
	defaultBPM = 120.0
	// MIDI note number of A0, key 0 of the keyboard.
	lowestMIDIKey = 21
	// Velocity at or above which a note is accented.
	AccentVelocity = 100
	beatsPerWhole  = 4.0
	epsilon        = 1e-9
)

// Options select what to read.
type Options struct {
	// Track is the track index. A negative value picks the first track that
	// contains notes.
	Track  int
	Logger *slog.Logger
}

// Song is a reduced track.
type Song struct {
	BPM   float64
	Track int
	Score score.Score
}

// Note is a paired note-on/note-off, timed in beats.
type Note struct {
	Key      uint8
	Velocity uint8
	Start    float64
	End      float64
}

// ReadFile reads path.
func ReadFile(path string, opts Options) (*Song, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f, opts)
}

// Read parses an SMF stream and reduces the selected track.
func Read(r io.Reader, opts Options) (song *Song, err error) {
	// The decoder can panic on truncated input.
	defer func() {
		if p := recover(); p != nil {
			song, err = nil, fmt.Errorf("parse midi: %v", p)
		}
	}()
	s, err := smf.ReadFrom(r)
	if err != nil {
		return nil, fmt.Errorf("parse midi: %w", err)
	}
	ticks, ok := s.TimeFormat.(smf.MetricTicks)
	if !ok {
		return nil, fmt.Errorf("unsupported time format %v", s.TimeFormat)
	}

	tracks := make([][]Note, len(s.Tracks))
	for i, tr := range s.Tracks {
		tracks[i] = Notes(tr, float64(ticks.Resolution()))
	}
	idx := opts.Track
	if idx < 0 {
		idx = -1
		for i, ns := range tracks {
			if len(ns) > 0 {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, ErrNoNotes
		}
	}
	if idx >= len(tracks) {
		return nil, fmt.Errorf("track %d out of range (file has %d)", idx, len(tracks))
	}
	if len(tracks[idx]) == 0 {
		return nil, fmt.Errorf("%w %d", ErrNoNotes, idx)
	}

	return &Song{
		BPM:   Tempo(s),
		Track: idx,
		Score: Reduce(tracks[idx], opts.Logger),
	}, nil
}

// Tempo returns the first set-tempo value in the file, or 120 BPM.
func Tempo(s *smf.SMF) float64 {
	for _, tr := range s.Tracks {
		for _, ev := range tr {
			var bpm float64
			if ev.Message.GetMetaTempo(&bpm) && bpm > 0 {
				return bpm
			}
		}
	}
	return defaultBPM
}

// Notes pairs note-on and note-off events of one track. A note-on with zero
// velocity ends a note. Notes still sounding at the end of the track are
// dropped.
func Notes(tr smf.Track, resolution float64) []Note {
	type held struct {
		start float64
		vel   uint8
	}
	var (
		abs   int64
		notes []Note
	)
	open := make(map[[2]uint8]held)
	for _, ev := range tr {
		abs += int64(ev.Delta)
		beat := float64(abs) / resolution
		var ch, key, vel uint8
		switch {
		case ev.Message.GetNoteOn(&ch, &key, &vel) && vel > 0:
			open[[2]uint8{ch, key}] = held{start: beat, vel: vel}
		case ev.Message.GetNoteOn(&ch, &key, &vel), ev.Message.GetNoteOff(&ch, &key, &vel):
			id := [2]uint8{ch, key}
			if h, ok := open[id]; ok {
				notes = append(notes, Note{Key: key, Velocity: h.vel, Start: h.start, End: beat})
				delete(open, id)
			}
		}
	}
	sort.SliceStable(notes, func(i, j int) bool { return notes[i].Start < notes[j].Start })
	return notes
}

// Reduce turns notes into a monophonic score. Of notes starting together only
// the first is kept, a note is cut where the next one starts, and gaps become
// rests. Durations are 4/beats.
func Reduce(notes []Note, logger *slog.Logger) score.Score {
	if logger == nil {
		logger = slog.Default()
	}
	table := pitch.NewTable()
	var (
		out    score.Score
		cursor float64
	)
	for i, n := range notes {
		if n.Start < cursor-epsilon {
			continue
		}
		end := n.End
		for _, next := range notes[i+1:] {
			if next.Start > n.Start+epsilon {
				end = min(end, next.Start)
				break
			}
		}
		if end-n.Start <= epsilon {
			continue
		}
		name := table.Canonical(int(n.Key) - lowestMIDIKey)
		if name == "" {
			logger.Warn("note outside keyboard skipped", "midi_key", n.Key)
			continue
		}
		if gap := n.Start - cursor; gap > epsilon {
			out = append(out, score.Event{Note: score.Rest, Duration: beatsPerWhole / gap})
		}
		out = append(out, score.Event{
			Note:     name,
			Duration: beatsPerWhole / (end - n.Start),
			Accent:   n.Velocity >= AccentVelocity,
		})
		cursor = end
	}
	return out
}
