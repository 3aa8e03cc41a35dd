package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/kazzyman/groktune/internal/wavfile"
)

var (
	toneFreq      float64
	toneAmplitude float64
	toneDuration  time.Duration
	toneOut       string
)

func init() {
	f := toneCmd.Flags()
	f.Float64Var(&toneFreq, "freq", 440, "tone frequency in Hz")
	f.Float64Var(&toneAmplitude, "amplitude", 0.5, "peak amplitude, 0 to 1")
	f.DurationVar(&toneDuration, "duration", 2*time.Second, "tone length")
	f.StringVarP(&toneOut, "out", "o", "tone.wav", "output file")
	rootCmd.AddCommand(toneCmd)
}

var toneCmd = &cobra.Command{
	Use:   "tone",
	Short: "Write a stereo sine test tone to a WAV file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := wavfile.WriteTone(toneOut, toneFreq, toneAmplitude, toneDuration, cfg.SampleRate); err != nil {
			return err
		}
		green.Fprintf(cmd.OutOrStdout(), "wrote %s (%.2f Hz, %s)\n", toneOut, toneFreq, toneDuration)
		return nil
	},
}
