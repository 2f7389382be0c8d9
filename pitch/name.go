package pitch

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownNote is returned for note names that cannot be parsed or are
// outside the 88-key range.
var ErrUnknownNote = errors.New("unknown note name")

// DefaultOctave is used when a note name carries no octave digit.
const DefaultOctave = 4

// Name is a parsed note name.
type Name struct {
	Letter     byte // 'a'..'g'
	Accidental byte // 0, '#' or 'b'
	Octave     int
}

func (n Name) String() string {
	var sb strings.Builder
	sb.WriteByte(n.Letter)
	if n.Accidental != 0 {
		sb.WriteByte(n.Accidental)
	}
	fmt.Fprintf(&sb, "%d", n.Octave)
	return sb.String()
}

// ParseName parses "<letter>[#|b][octave]". Case is ignored.
func ParseName(s string) (Name, error) {
	raw := s
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Name{}, fmt.Errorf("%w: empty", ErrUnknownNote)
	}
	n := Name{Letter: s[0], Octave: DefaultOctave}
	if n.Letter < 'a' || n.Letter > 'g' {
		return Name{}, fmt.Errorf("%w: %q", ErrUnknownNote, raw)
	}
	rest := s[1:]
	if len(rest) > 0 && (rest[0] == '#' || rest[0] == 'b') {
		n.Accidental = rest[0]
		rest = rest[1:]
	}
	switch len(rest) {
	case 0:
	case 1:
		if rest[0] < '0' || rest[0] > '9' {
			return Name{}, fmt.Errorf("%w: %q", ErrUnknownNote, raw)
		}
		n.Octave = int(rest[0] - '0')
	default:
		return Name{}, fmt.Errorf("%w: %q", ErrUnknownNote, raw)
	}
	return n, nil
}
