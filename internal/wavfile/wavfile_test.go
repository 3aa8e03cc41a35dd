package wavfile

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kazzyman/groktune/internal/pcm"
	"github.com/kazzyman/groktune/internal/pitch"
)

func writeWAV(t *testing.T, bitDepth, channels int, data []int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "in.wav")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	enc := wav.NewEncoder(f, 44100, bitDepth, channels, 1)
	require.NoError(t, enc.Write(&audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: 44100},
		Data:           data,
		SourceBitDepth: bitDepth,
	}))
	require.NoError(t, enc.Close())
	return path
}

func TestToneRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a4.wav")
	require.NoError(t, WriteTone(path, 440, 0.8, 300*time.Millisecond, 44100))

	src, err := Open(path)
	require.NoError(t, err)
	defer src.Close()

	assert.Equal(t, 44100, src.SampleRate)
	assert.Equal(t, 2, src.Channels)

	var freqs []float64
	var sizes []int
	n, err := src.Blocks(1323, func(block []byte, rate int) {
		sizes = append(sizes, len(block))
		mono, err := pcm.Downmix(block)
		require.NoError(t, err)
		freqs = append(freqs, pitch.Detect(mono.Samples, rate))
	})
	require.NoError(t, err)

	assert.Equal(t, 10, n)
	for _, size := range sizes {
		assert.Equal(t, 1323*pcm.FrameSize, size)
	}
	for _, f := range freqs {
		assert.InDelta(t, 441.0, f, 1e-9)
	}
}

func TestMonoIsDuplicated(t *testing.T) {
	path := writeWAV(t, 16, 1, []int{100, -200, 300})

	src, err := Open(path)
	require.NoError(t, err)
	defer src.Close()

	var got []byte
	n, err := src.Blocks(2, func(block []byte, _ int) {
		got = append(got, block...)
	})
	require.NoError(t, err)

	assert.Equal(t, 2, n) // 2 frames then 1
	assert.Equal(t, pcm.EncodeInt16(nil, []int16{100, 100, -200, -200, 300, 300}), got)
}

func TestOpenRejectsUnsupported(t *testing.T) {
	_, err := Open(writeWAV(t, 8, 2, []int{1, 2, 3, 4}))
	assert.ErrorIs(t, err, ErrUnsupported)

	junk := filepath.Join(t.TempDir(), "junk.wav")
	require.NoError(t, os.WriteFile(junk, []byte("definitely not RIFF data"), 0o644))
	_, err = Open(junk)
	assert.ErrorIs(t, err, ErrUnsupported)

	_, err = Open(filepath.Join(t.TempDir(), "missing.wav"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWriteToneRejectsAmplitude(t *testing.T) {
	err := WriteTone(filepath.Join(t.TempDir(), "x.wav"), 440, 1.5, time.Second, 44100)
	assert.Error(t, err)
}

func TestBlocksRejectsSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.wav")
	require.NoError(t, WriteTone(path, 440, 0.5, 10*time.Millisecond, 44100))
	src, err := Open(path)
	require.NoError(t, err)
	defer src.Close()

	_, err = src.Blocks(0, func([]byte, int) {})
	assert.Error(t, err)
}
