package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kazzyman/groktune/internal/config"
)

// cfg is loaded before any subcommand runs: GROKTUNE_* variables first,
// then explicitly set flags.
var cfg config.Config

var (
	bold   = color.New(color.Bold)
	green  = color.New(color.FgGreen)
	red    = color.New(color.FgRed)
	yellow = color.New(color.FgYellow)
	faint  = color.New(color.Faint)
)

var rootCmd = &cobra.Command{
	Use:   "groktune",
	Short: "Real-time monophonic pitch tuner",
	Long: `groktune listens to an audio input, detects the fundamental pitch of
each block, names the nearest equal-tempered note and tells you whether
you are in tune.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig(cmd)
	},
}

func init() {
	f := rootCmd.PersistentFlags()
	f.String("log-level", "", "debug, info, warn or error (GROKTUNE_LOG_LEVEL)")
	f.String("method", "", "pitch detector: direct or fft (GROKTUNE_METHOD)")
	f.Float64("tolerance", 0, "in-tune window in Hz (GROKTUNE_TOLERANCE)")
	f.Int("rate", 0, "sample rate in Hz (GROKTUNE_SAMPLE_RATE)")
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func loadConfig(cmd *cobra.Command) error {
	c, err := config.FromEnv()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		c.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Changed("method") {
		c.Method, _ = flags.GetString("method")
	}
	if flags.Changed("tolerance") {
		c.Tolerance, _ = flags.GetFloat64("tolerance")
	}
	if flags.Changed("rate") {
		c.SampleRate, _ = flags.GetInt("rate")
	}
	if flags.Changed("device") {
		c.Device, _ = flags.GetInt("device")
	}
	if flags.Changed("http") {
		c.HTTPAddr, _ = flags.GetString("http")
	}
	if flags.Changed("log-file") {
		c.LogFile, _ = flags.GetString("log-file")
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	cfg = c
	return nil
}
