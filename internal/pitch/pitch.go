// Package pitch estimates the fundamental frequency of a mono block by
// searching for the autocorrelation peak over the lags of the 50-2000 Hz band.
package pitch

import (
	"fmt"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

const (
	// MinFrequency and MaxFrequency bound the lag search.
	MinFrequency = 50
	MaxFrequency = 2000

	// NoPitch is returned when no lag correlates positively.
	NoPitch = 0.0
)

const (
	MethodDirect = "direct"
	MethodFFT    = "fft"
)

// Detector turns a mono block into a frequency estimate in Hz, or NoPitch.
type Detector func(samples []float64, sampleRate int) float64

// ByName returns the detector registered under method.
func ByName(method string) (Detector, error) {
	switch method {
	case MethodDirect, "":
		return Detect, nil
	case MethodFFT:
		return DetectFFT, nil
	}
	return nil, fmt.Errorf("pitch: unknown detector method %q", method)
}

// LagBounds returns the inclusive lag range searched at sampleRate.
func LagBounds(sampleRate int) (minLag, maxLag int) {
	minLag = sampleRate / MaxFrequency
	maxLag = sampleRate / MinFrequency
	if minLag < 1 {
		minLag = 1
	}
	return minLag, maxLag
}

// Detect computes the unnormalized autocorrelation for every lag in
// LagBounds directly and returns sampleRate/bestLag.
func Detect(samples []float64, sampleRate int) float64 {
	minLag, maxLag := LagBounds(sampleRate)
	return pick(minLag, maxLag, sampleRate, func(lag int) float64 {
		var c float64
		for i := 0; i+lag < len(samples); i++ {
			c += samples[i] * samples[i+lag]
		}
		return c
	})
}

// DetectFFT produces the same lag correlations as Detect through the
// Wiener-Khinchin theorem: the inverse transform of the power spectrum of
// the zero-padded block.
func DetectFFT(samples []float64, sampleRate int) float64 {
	if len(samples) == 0 {
		return NoPitch
	}
	padded := make([]float64, nextPow2(2*len(samples)))
	copy(padded, samples)

	spectrum := fft.FFTReal(padded)
	for i, v := range spectrum {
		m := cmplx.Abs(v)
		spectrum[i] = complex(m*m, 0)
	}
	acf := fft.IFFT(spectrum)

	minLag, maxLag := LagBounds(sampleRate)
	return pick(minLag, maxLag, sampleRate, func(lag int) float64 {
		if lag >= len(samples) {
			return 0
		}
		return real(acf[lag])
	})
}

// InBand reports whether freq lies strictly inside (lo, hi).
func InBand(freq, lo, hi float64) bool {
	return freq > lo && freq < hi
}

// pick keeps the first lag with the strictly greatest positive correlation.
func pick(minLag, maxLag, sampleRate int, corr func(lag int) float64) float64 {
	best, bestLag := 0.0, 0
	for lag := minLag; lag <= maxLag; lag++ {
		if c := corr(lag); c > best {
			best, bestLag = c, lag
		}
	}
	if bestLag == 0 {
		return NoPitch
	}
	return float64(sampleRate) / float64(bestLag)
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
