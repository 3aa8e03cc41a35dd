// Package note maps frequencies onto the 12-tone equal-tempered scale
// referenced to A4 = 440 Hz.
package note

import (
	"fmt"
	"math"
)

const (
	A4 = 440.0

	// DefaultTolerance is the in-tune window in Hz.
	DefaultTolerance = 2.0
)

// C0 is A4 lowered by 4.75 octaves (57 half steps).
var C0 = A4 * math.Pow(2, -4.75)

var names = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// Note is a chromatic pitch class in a given octave.
type Note struct {
	Name      string  `json:"name"`  // e.g. "A4"
	Pitch     string  `json:"pitch"` // e.g. "A"
	Octave    int     `json:"octave"`
	HalfSteps int     `json:"halfSteps"` // relative to C0
	Frequency float64 `json:"referenceFrequencyHz"`
}

func (n Note) String() string {
	return fmt.Sprintf("%s (%.1f Hz)", n.Name, n.Frequency)
}

// Map returns the note nearest to freq. freq must be positive.
//
// The octave truncates toward zero, so the eleven half steps just below C0
// report octave 0 like the ones above it.
func Map(freq float64) Note {
	halfSteps := int(math.Round(12 * math.Log2(freq/C0)))
	octave := halfSteps / 12
	pitch := names[((halfSteps%12)+12)%12]
	return Note{
		Name:      fmt.Sprintf("%s%d", pitch, octave),
		Pitch:     pitch,
		Octave:    octave,
		HalfSteps: halfSteps,
		Frequency: C0 * math.Pow(2, float64(halfSteps)/12),
	}
}

// InTune reports whether freq is within tolerance Hz of ref.
func InTune(freq, ref, tolerance float64) bool {
	return math.Abs(freq-ref) <= tolerance
}

// Cents is the signed deviation of freq from ref in hundredths of a half step.
func Cents(freq, ref float64) float64 {
	if freq <= 0 || ref <= 0 {
		return 0
	}
	return 1200 * math.Log2(freq/ref)
}
