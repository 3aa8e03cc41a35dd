// Package wavfile replays 16-bit PCM WAV files as capture blocks and writes
// test tones.
package wavfile

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/kazzyman/groktune/internal/capture"
	"github.com/kazzyman/groktune/internal/pcm"
)

var ErrUnsupported = errors.New("wavfile: unsupported format")

// Source reads a mono or stereo 16-bit WAV file.
type Source struct {
	SampleRate int
	Channels   int

	f   *os.File
	dec *wav.Decoder
}

func Open(path string) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		f.Close()
		return nil, fmt.Errorf("%w: %s is not a PCM WAV file", ErrUnsupported, path)
	}
	if dec.BitDepth != 16 || dec.NumChans < 1 || dec.NumChans > 2 {
		f.Close()
		return nil, fmt.Errorf("%w: %s has %d-bit %d-channel audio, need 16-bit mono or stereo",
			ErrUnsupported, path, dec.BitDepth, dec.NumChans)
	}
	return &Source{
		SampleRate: int(dec.SampleRate),
		Channels:   int(dec.NumChans),
		f:          f,
		dec:        dec,
	}, nil
}

func (s *Source) Close() error {
	return s.f.Close()
}

// Blocks calls fn with consecutive stereo blocks of up to frames frames,
// duplicating mono input onto both channels. The final block may be short.
// It returns the number of blocks delivered.
func (s *Source) Blocks(frames int, fn capture.BlockFunc) (int, error) {
	if frames < 1 {
		return 0, fmt.Errorf("wavfile: block size must be positive, got %d", frames)
	}
	buf := &audio.IntBuffer{
		Format:         s.dec.Format(),
		Data:           make([]int, frames*s.Channels),
		SourceBitDepth: 16,
	}
	stereo := make([]int16, 0, 2*frames)
	block := make([]byte, 0, pcm.FrameSize*frames)

	count := 0
	for {
		n, err := s.dec.PCMBuffer(buf)
		if err != nil && !errors.Is(err, io.EOF) {
			return count, fmt.Errorf("decode pcm: %w", err)
		}
		if n == 0 {
			return count, nil
		}
		stereo = stereo[:0]
		for i := 0; i+s.Channels <= n; i += s.Channels {
			left := int16(buf.Data[i])
			right := left
			if s.Channels == 2 {
				right = int16(buf.Data[i+1])
			}
			stereo = append(stereo, left, right)
		}
		block = pcm.EncodeInt16(block[:0], stereo)
		fn(block, s.SampleRate)
		count++
	}
}

// WriteTone writes a stereo 16-bit sine wave of the given frequency,
// amplitude (0-1) and duration.
func WriteTone(path string, freq, amplitude float64, d time.Duration, sampleRate int) error {
	if amplitude < 0 || amplitude > 1 {
		return fmt.Errorf("wavfile: amplitude %g outside [0, 1]", amplitude)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	frames := int(time.Duration(sampleRate) * d / time.Second)
	data := make([]int, 2*frames)
	for i := range frames {
		v := int(math.Round(amplitude * 32767 * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate))))
		data[2*i], data[2*i+1] = v, v
	}

	enc := wav.NewEncoder(f, sampleRate, 16, 2, 1)
	err = enc.Write(&audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 2, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: 16,
	})
	if err != nil {
		enc.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("finalize %s: %w", path, err)
	}
	return f.Close()
}
