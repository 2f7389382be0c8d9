package score

import (
	"errors"
	"testing"

	"github.com/cwbudde/algo-notesynth/pitch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTokenNotes(t *testing.T) {
	tests := []struct {
		tok  string
		want Event
	}{
		{"4c", Event{Note: "c4", Duration: 4}},
		{"1c5", Event{Note: "c5", Duration: 1}},
		{"8C#3", Event{Note: "c#3", Duration: 8}},
		{"-4eb", Event{Note: "eb4", Duration: -4}},
		{"16g*", Event{Note: "g4", Duration: 16, Accent: true}},
		{"2.66a2", Event{Note: "a2", Duration: 2.66}},
		{"2r", Event{Note: Rest, Duration: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.tok, func(t *testing.T) {
			got, err := ParseToken(tt.tok)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTokenErrors(t *testing.T) {
	assert := assert.New(t)

	_, err := ParseToken("xyz")
	assert.True(errors.Is(err, pitch.ErrUnknownNote), "xyz: %v", err)

	_, err = ParseToken("4h")
	assert.True(errors.Is(err, pitch.ErrUnknownNote), "4h: %v", err)

	_, err = ParseToken("c4")
	assert.True(errors.Is(err, ErrMalformedToken), "c4: %v", err)

	_, err = ParseToken("4x4c")
	assert.True(errors.Is(err, pitch.ErrUnknownNote), "4x4c: %v", err)

	_, err = ParseToken("1.2.3c")
	assert.True(errors.Is(err, ErrMalformedToken), "1.2.3c: %v", err)

	_, err = ParseToken("0c")
	assert.True(errors.Is(err, ErrMalformedToken), "0c: %v", err)

	_, err = ParseToken("44")
	assert.True(errors.Is(err, ErrMalformedToken), "44: %v", err)
}

func TestParseLineWithOptions(t *testing.T) {
	s, opts, err := ParseLine("1d 2c -4f 4r --bpm=150 --repeat=2 --sound=string --save")
	require.NoError(t, err)
	require.Len(t, s, 4)

	assert := assert.New(t)
	assert.Equal("d4", s[0].Note)
	assert.Equal(-4.0, s[2].Duration)
	assert.True(s[3].IsRest())
	assert.Equal(3, s.NoteCount())

	require.NotNil(t, opts.BPM)
	require.NotNil(t, opts.Repeat)
	require.NotNil(t, opts.Sound)
	assert.Equal(150.0, *opts.BPM)
	assert.Equal(2, *opts.Repeat)
	assert.Equal("string", *opts.Sound)
	assert.True(opts.Save)
	assert.False(opts.Silent)
	assert.Nil(opts.Transpose)
}

func TestParseLineRejectsBadOptions(t *testing.T) {
	for _, line := range []string{"4c --bpm", "4c --bpm=fast", "4c --volume=3", "4c --repeat=1.5"} {
		_, _, err := ParseLine(line)
		assert.True(t, errors.Is(err, ErrMalformedToken), "%q: %v", line, err)
	}
}

func TestMustEventsAndString(t *testing.T) {
	s := MustEvents("c4", 4, "e4*", 4, "r", 2, "g", -8)
	assert.Equal(t, "4c4 4e4* 2r -8g4", s.String())
	assert.Panics(t, func() { MustEvents("q4", 4) })
}
