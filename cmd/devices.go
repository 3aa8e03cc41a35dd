package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kazzyman/groktune/internal/capture"
)

func init() {
	rootCmd.AddCommand(devicesCmd)
}

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List audio input devices",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		pa, err := capture.Open()
		if err != nil {
			return fmt.Errorf("initializing PortAudio: %w", err)
		}
		defer pa.Close()

		devs, err := pa.List()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(devs) == 0 {
			yellow.Fprintln(out, "No input devices found.")
			return nil
		}
		for _, d := range devs {
			fmt.Fprintf(out, "%3d  %s", d.ID, d.Name)
			if d.Default {
				green.Fprint(out, "  (default)")
			}
			fmt.Fprintln(out)
		}
		return nil
	},
}
