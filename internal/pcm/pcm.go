// Package pcm converts interleaved 16-bit stereo PCM into normalized mono
// samples.
package pcm

import (
	"encoding/binary"
	"errors"
	"math"
)

const (
	// FrameSize is the byte size of one interleaved stereo frame.
	FrameSize = 4
	fullScale = 32768.0
)

// ErrMalformedBlock is returned when a block does not hold a whole number of
// stereo frames.
var ErrMalformedBlock = errors.New("pcm: block length is not a multiple of the frame size")

// Mono is a downmixed block together with its mean absolute amplitude.
type Mono struct {
	Samples   []float64
	Amplitude float64
}

// Downmix averages the left and right channels of every little-endian frame
// in block and normalizes the result to [-1, 1].
func Downmix(block []byte) (Mono, error) {
	if len(block)%FrameSize != 0 {
		return Mono{}, ErrMalformedBlock
	}
	n := len(block) / FrameSize
	samples := make([]float64, n)
	var sum float64
	for i := range n {
		left := int16(binary.LittleEndian.Uint16(block[i*FrameSize:]))
		right := int16(binary.LittleEndian.Uint16(block[i*FrameSize+2:]))
		s := mix(left, right)
		samples[i] = s
		sum += math.Abs(s)
	}
	return Mono{Samples: samples, Amplitude: mean(sum, n)}, nil
}

// DownmixInt16 is Downmix for frames that are already decoded into
// interleaved left/right pairs.
func DownmixInt16(frames []int16) (Mono, error) {
	if len(frames)%2 != 0 {
		return Mono{}, ErrMalformedBlock
	}
	n := len(frames) / 2
	samples := make([]float64, n)
	var sum float64
	for i := range n {
		s := mix(frames[2*i], frames[2*i+1])
		samples[i] = s
		sum += math.Abs(s)
	}
	return Mono{Samples: samples, Amplitude: mean(sum, n)}, nil
}

// EncodeInt16 appends samples to dst as little-endian 16-bit values.
func EncodeInt16(dst []byte, samples []int16) []byte {
	for _, s := range samples {
		dst = binary.LittleEndian.AppendUint16(dst, uint16(s))
	}
	return dst
}

func mix(left, right int16) float64 {
	return (float64(left) + float64(right)) / 2 / fullScale
}

func mean(sum float64, n int) float64 {
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
