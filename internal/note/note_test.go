package note

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapA4(t *testing.T) {
	n := Map(440.0)

	assert := assert.New(t)
	assert.Equal("A4", n.Name)
	assert.Equal("A", n.Pitch)
	assert.Equal(4, n.Octave)
	assert.Equal(57, n.HalfSteps)
	assert.InDelta(440.0, n.Frequency, 1e-9)
}

func TestMapKnownNotes(t *testing.T) {
	cases := []struct {
		freq float64
		name string
		ref  float64
	}{
		{82.41, "E2", 82.4069},
		{110.0, "A2", 110.0},
		{146.83, "D3", 146.8324},
		{196.0, "G3", 195.9977},
		{261.63, "C4", 261.6256},
		{277.18, "C#4", 277.1826},
		{329.63, "E4", 329.6276},
		{450.0, "A4", 440.0},
		{466.16, "A#4", 466.1638},
		{987.77, "B5", 987.7666},
		{1975.5, "B6", 1975.5332},
	}

	for _, c := range cases {
		t.Run(fmt.Sprintf("%.2fHz", c.freq), func(t *testing.T) {
			n := Map(c.freq)
			assert.Equal(t, c.name, n.Name)
			assert.InDelta(t, c.ref, n.Frequency, 1e-3)
		})
	}
}

func TestMapIsIdempotentThroughReference(t *testing.T) {
	for f := 50.0; f < 2000; f += 3.7 {
		n := Map(f)
		assert.Equal(t, n, Map(n.Frequency), "%.1f Hz", f)
	}
}

func TestMapRoundsToNearestHalfStep(t *testing.T) {
	// Quarter tone boundary between A4 and A#4 is ~452.9 Hz.
	assert.Equal(t, "A4", Map(452.0).Name)
	assert.Equal(t, "A#4", Map(454.0).Name)
}

func TestMapBelowC0TruncatesOctave(t *testing.T) {
	n := Map(C0 / 2)
	assert.Equal(t, -12, n.HalfSteps)
	assert.Equal(t, -1, n.Octave)
	assert.Equal(t, "C", n.Pitch)

	n = Map(C0 * 0.95) // one half step down
	assert.Equal(t, "B", n.Pitch)
	assert.Equal(t, 0, n.Octave)
}

func TestInTune(t *testing.T) {
	assert := assert.New(t)
	assert.True(InTune(440, 440, DefaultTolerance))
	assert.True(InTune(442, 440, DefaultTolerance))
	assert.True(InTune(438, 440, DefaultTolerance))
	assert.False(InTune(442.01, 440, DefaultTolerance))
	assert.False(InTune(437.5, 440, DefaultTolerance))
}

func TestInTuneIsSymmetric(t *testing.T) {
	pairs := [][2]float64{{440, 441.5}, {440, 443}, {82.4, 80.1}, {1000, 1002}, {0, 2}}
	for _, p := range pairs {
		assert.Equal(t, InTune(p[0], p[1], DefaultTolerance), InTune(p[1], p[0], DefaultTolerance))
	}
}

func TestCents(t *testing.T) {
	assert.InDelta(t, 0, Cents(440, 440), 1e-9)
	assert.InDelta(t, 100, Cents(466.1638, 440), 1e-3)
	assert.InDelta(t, -1200, Cents(220, 440), 1e-9)
	assert.Zero(t, Cents(0, 440))
}
