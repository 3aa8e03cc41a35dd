package cmd

import (
	"bytes"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	err := rootCmd.Execute()
	return out.String(), err
}

func TestToneThenAnalyze(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a4.wav")

	out, err := execute(t, "tone", "--freq", "440", "--duration", "300ms", "--out", path)
	require.NoError(t, err)
	assert.Contains(t, out, "wrote "+path)

	out, err = execute(t, "analyze", path)
	require.NoError(t, err)
	assert.Contains(t, out, "A4")
	assert.Contains(t, out, "441.00 Hz")
	assert.Contains(t, out, "in tune")
	assert.Contains(t, out, "10 blocks, 10 detections")
}

func TestAnalyzeMissingFile(t *testing.T) {
	_, err := execute(t, "analyze", filepath.Join(t.TempDir(), "nope.wav"))
	assert.Error(t, err)
}

func TestInvalidMethodFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.wav")
	_, err := execute(t, "tone", "--method", "yin", "--out", path)
	assert.ErrorContains(t, err, "config")
	_, err = execute(t, "tone", "--method", "direct", "--out", path)
	assert.NoError(t, err)
}
