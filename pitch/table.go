package pitch

import (
	"fmt"
	"math"
)

// NumKeys is the number of keys on a standard piano keyboard.
const NumKeys = 88

// BaseFreq is the frequency of the lowest key (A0) in Hz.
const BaseFreq = 27.5

// Key spellings per pitch class, starting at A. The third set holds the
// theoretical enharmonics (B#, Cb, E#, Fb) next to the regular flats.
var (
	sharpNames = [12]string{"a", "a#", "b", "c", "c#", "d", "d#", "e", "f", "f#", "g", "g#"}
	flatNames  = [12]string{"a", "bb", "b", "c", "db", "d", "eb", "e", "f", "gb", "g", "ab"}
	enharNames = [12]string{"a", "bb", "cb", "b#", "db", "d", "eb", "fb", "e#", "gb", "g", "ab"}
)

// Entry is one key of the table.
type Entry struct {
	Freq float64
	Key  int
}

// Table maps normalized note names to equal-tempered piano keys.
type Table struct {
	byName map[string]Entry
	names  [NumKeys]string
}

// NewTable builds the 88-key equal-tempered table.
func NewTable() *Table {
	t := &Table{byName: make(map[string]Entry, NumKeys*3)}
	for k := range NumKeys {
		e := Entry{Freq: KeyFreq(k), Key: k}
		oct := KeyOctave(k)
		pc := k % 12
		for _, set := range [...]*[12]string{&sharpNames, &flatNames, &enharNames} {
			t.byName[fmt.Sprintf("%s%d", set[pc], oct)] = e
		}
		t.names[k] = fmt.Sprintf("%s%d", sharpNames[pc], oct)
	}
	return t
}

// KeyFreq returns the equal-tempered frequency of key k (0 = A0).
func KeyFreq(k int) float64 {
	return BaseFreq * math.Pow(2, float64(k)/12.0)
}

// KeyOctave returns the scientific octave number of key k. Every spelling of
// a key shares this octave, including the theoretical enharmonics.
func KeyOctave(k int) int {
	return (k + 9) / 12
}

// Lookup resolves a note name such as "c#4", "Db4" or "c" (octave 4).
func (t *Table) Lookup(name string) (Entry, error) {
	n, err := ParseName(name)
	if err != nil {
		return Entry{}, err
	}
	return t.LookupName(n)
}

// LookupName resolves an already parsed name.
func (t *Table) LookupName(n Name) (Entry, error) {
	e, ok := t.byName[n.String()]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %q", ErrUnknownNote, n.String())
	}
	return e, nil
}

// Canonical returns the sharp spelling of key k, e.g. "c#4".
func (t *Table) Canonical(k int) string {
	if k < 0 || k >= NumKeys {
		return ""
	}
	return t.names[k]
}

// Len returns the number of registered spellings.
func (t *Table) Len() int {
	return len(t.byName)
}

// Transpose shifts an entry by a number of semitones. The frequency follows
// the shift exactly; the key index is clamped to the keyboard since it only
// selects per-key tables.
func Transpose(e Entry, semitones int) Entry {
	if semitones == 0 {
		return e
	}
	k := e.Key + semitones
	if k < 0 {
		k = 0
	}
	if k > NumKeys-1 {
		k = NumKeys - 1
	}
	return Entry{
		Freq: e.Freq * math.Pow(2, float64(semitones)/12.0),
		Key:  k,
	}
}
