package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kazzyman/groktune/internal/tuner"
	"github.com/kazzyman/groktune/internal/wavfile"
)

var analyzeQuiet bool

func init() {
	analyzeCmd.Flags().BoolVarP(&analyzeQuiet, "quiet", "q", false, "only print the summary")
	rootCmd.AddCommand(analyzeCmd)
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze file.wav",
	Short: "Run the tuner over a 16-bit WAV file",
	Long: `Runs the detection cycle over a 16-bit PCM WAV file, one block at a
time, and prints a reading for every block with a detectable pitch.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := wavfile.Open(args[0])
		if err != nil {
			return err
		}
		defer src.Close()

		c := cfg
		c.SampleRate = src.SampleRate
		tu, err := tuner.New(c, nil, consoleLogger())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		frames := c.FramesPerBlock()
		blockTime := time.Duration(frames) * time.Second / time.Duration(src.SampleRate)
		var at time.Duration
		n, err := src.Blocks(frames, func(block []byte, sampleRate int) {
			r, skip := tu.Process(block, sampleRate)
			tu.Tick()
			if skip == tuner.None && !analyzeQuiet {
				faint.Fprintf(out, "%8.3fs  ", at.Seconds())
				printReading(out, r)
				fmt.Fprintln(out)
			}
			at += blockTime
		})
		if err != nil {
			return fmt.Errorf("analyze %s: %w", args[0], err)
		}

		s := tu.Stats()
		bold.Fprintf(out, "%d blocks, %d detections", n, s.Detections)
		fmt.Fprintf(out, " (silent %d, no pitch %d, out of range %d, malformed %d)\n",
			s.Skipped[tuner.SkipSilent.String()],
			s.Skipped[tuner.SkipNoPitch.String()],
			s.Skipped[tuner.SkipOutOfRange.String()],
			s.Skipped[tuner.SkipMalformed.String()])
		return nil
	},
}
