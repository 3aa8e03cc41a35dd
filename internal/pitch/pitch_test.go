package pitch

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testRate  = 44100
	blockSize = 1323 // 30 ms at 44.1 kHz
)

func sine(freq float64, n, rate int) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = 0.8 * math.Sin(2*math.Pi*freq*float64(i)/float64(rate))
	}
	return s
}

func TestLagBounds(t *testing.T) {
	minLag, maxLag := LagBounds(testRate)
	assert.Equal(t, 22, minLag)
	assert.Equal(t, 882, maxLag)

	minLag, _ = LagBounds(1000)
	assert.Equal(t, 1, minLag)
}

func TestSilenceHasNoPitch(t *testing.T) {
	for name, detect := range map[string]Detector{MethodDirect: Detect, MethodFFT: DetectFFT} {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, NoPitch, detect(make([]float64, blockSize), testRate))
			assert.Equal(t, NoPitch, detect(nil, testRate))
		})
	}
}

func TestSineWithinLagQuantization(t *testing.T) {
	_, maxLag := LagBounds(testRate)
	tolerance := float64(testRate) / float64(maxLag)

	for _, f := range []float64{220, 261.63, 440, 880, 1000, 1500} {
		t.Run(fmt.Sprintf("%.2fHz", f), func(t *testing.T) {
			samples := sine(f, blockSize, testRate)
			assert.InDelta(t, f, Detect(samples, testRate), tolerance)
			assert.InDelta(t, f, DetectFFT(samples, testRate), tolerance)
		})
	}
}

func TestSineA4ResolvesToNearestLag(t *testing.T) {
	got := Detect(sine(440, blockSize, testRate), testRate)
	assert.InDelta(t, 441.0, got, 1e-9) // lag 100
}

func TestFFTMatchesDirect(t *testing.T) {
	for _, f := range []float64{220, 330, 440, 587.33, 880, 1760} {
		samples := sine(f, blockSize, testRate)
		assert.Equal(t, Detect(samples, testRate), DetectFFT(samples, testRate), "%.2f Hz", f)
	}
}

func TestBlockShorterThanMinLag(t *testing.T) {
	samples := sine(440, 10, testRate)
	assert.Equal(t, NoPitch, Detect(samples, testRate))
	assert.Equal(t, NoPitch, DetectFFT(samples, testRate))
}

func TestByName(t *testing.T) {
	d, err := ByName(MethodFFT)
	require.NoError(t, err)
	assert.Equal(t, NoPitch, d(nil, testRate))

	_, err = ByName("")
	assert.NoError(t, err)

	_, err = ByName("yin")
	assert.Error(t, err)
}

func TestInBand(t *testing.T) {
	assert := assert.New(t)
	assert.True(InBand(440, MinFrequency, MaxFrequency))
	assert.False(InBand(50, MinFrequency, MaxFrequency))
	assert.False(InBand(2000, MinFrequency, MaxFrequency))
	assert.False(InBand(NoPitch, MinFrequency, MaxFrequency))
}
