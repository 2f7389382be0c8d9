package score

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Options are the trailing --key=value tokens of a shorthand line. Nil
// pointers mean "not given".
type Options struct {
	BPM       *float64
	Repeat    *int
	Transpose *int
	Sound     *string
	Legato    *float64
	Boost     *float64
	Save      bool
	Silent    bool
}

// ParseToken parses one "<duration><letter>[#|b][octave][*]" token, e.g.
// "4c#5*", "-8eb" or "2r".
func ParseToken(tok string) (Event, error) {
	tok = strings.TrimSpace(tok)
	i := strings.IndexFunc(tok, unicode.IsLetter)
	if i < 0 {
		return Event{}, fmt.Errorf("%w: %q has no note", ErrMalformedToken, tok)
	}
	durStr, sym := tok[:i], tok[i:]

	// Validate the pitch before the duration so an unknown name is reported
	// as such even when the duration is missing too.
	probe, err := NewEvent(sym, 1)
	if err != nil {
		return Event{}, err
	}
	if durStr == "" {
		return Event{}, fmt.Errorf("%w: %q has no duration", ErrMalformedToken, tok)
	}
	dur, err := strconv.ParseFloat(durStr, 64)
	if err != nil {
		return Event{}, fmt.Errorf("%w: %q: bad duration %q", ErrMalformedToken, tok, durStr)
	}
	ev, err := NewEvent(sym, dur)
	if err != nil {
		return Event{}, fmt.Errorf("%q: %w", tok, err)
	}
	ev.Accent = probe.Accent
	return ev, nil
}

// ParseLine splits a line on whitespace into note tokens and trailing options.
func ParseLine(line string) (Score, Options, error) {
	var (
		s    Score
		opts Options
	)
	for _, tok := range strings.Fields(line) {
		if strings.HasPrefix(tok, "--") {
			if err := opts.set(strings.TrimPrefix(tok, "--")); err != nil {
				return nil, Options{}, err
			}
			continue
		}
		ev, err := ParseToken(tok)
		if err != nil {
			return nil, Options{}, err
		}
		s = append(s, ev)
	}
	return s, opts, nil
}

func (o *Options) set(kv string) error {
	key, val, hasVal := strings.Cut(kv, "=")
	key = strings.ToLower(key)
	need := func() error {
		if !hasVal || val == "" {
			return fmt.Errorf("%w: --%s needs a value", ErrMalformedToken, key)
		}
		return nil
	}
	switch key {
	case "save":
		o.Save = !hasVal || parseBool(val)
	case "silent":
		o.Silent = !hasVal || parseBool(val)
	case "bpm", "legato", "boost":
		if err := need(); err != nil {
			return err
		}
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return fmt.Errorf("%w: --%s=%q", ErrMalformedToken, key, val)
		}
		switch key {
		case "bpm":
			o.BPM = &f
		case "legato":
			o.Legato = &f
		default:
			o.Boost = &f
		}
	case "repeat", "transpose":
		if err := need(); err != nil {
			return err
		}
		n, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("%w: --%s=%q", ErrMalformedToken, key, val)
		}
		if key == "repeat" {
			o.Repeat = &n
		} else {
			o.Transpose = &n
		}
	case "sound":
		if err := need(); err != nil {
			return err
		}
		v := strings.ToLower(val)
		o.Sound = &v
	default:
		return fmt.Errorf("%w: unknown option --%s", ErrMalformedToken, key)
	}
	return nil
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(s)
	return err == nil && b
}
