package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/kazzyman/groktune/internal/capture"
	"github.com/kazzyman/groktune/internal/httpapi"
	"github.com/kazzyman/groktune/internal/logging"
	"github.com/kazzyman/groktune/internal/tuner"
	"github.com/kazzyman/groktune/internal/ui"
)

const switchDelay = 300 * time.Millisecond

var plain bool

func init() {
	f := listenCmd.Flags()
	f.Int("device", capture.DefaultDevice, "input device id as listed by the devices command (GROKTUNE_DEVICE)")
	f.String("http", "", "also serve the JSON api on this address, e.g. :8080 (GROKTUNE_HTTP_ADDR)")
	f.String("log-file", "", "log file path (GROKTUNE_LOG_FILE)")
	f.BoolVar(&plain, "plain", false, "print readings on one line instead of the full-screen view")
	rootCmd.AddCommand(listenCmd)
}

var listenCmd = &cobra.Command{
	Use:   "listen",
	Short: "Listen to an input device and show the detected note",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return listen(cmd.Context(), cmd.OutOrStdout())
	},
}

func listen(ctx context.Context, out io.Writer) error {
	lg, logFile := logging.NewFile(cfg.LogFile, cfg.LogLevel)
	defer logFile.Close()

	pa, err := capture.Open()
	if err != nil {
		return fmt.Errorf("initializing PortAudio: %w", err)
	}
	defer pa.Close()

	tu, err := tuner.New(cfg, tuner.PortAudio(pa), lg)
	if err != nil {
		return err
	}
	if err := tu.Start(cfg.Device); err != nil {
		if errors.Is(err, capture.ErrNoDevice) {
			yellow.Fprintln(out, "No input device available. Connect a microphone and try again.")
		}
		return err
	}
	defer func() {
		if err := tu.Stop(); err != nil && !errors.Is(err, tuner.ErrNotRunning) {
			lg.Error("stopping capture", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	go tu.Run(ctx)

	if cfg.HTTPAddr != "" {
		go func() {
			if err := httpapi.Serve(ctx, cfg.HTTPAddr, httpapi.Handler(tu, lg), lg); err != nil {
				lg.Error("http api stopped", "error", err)
			}
		}()
	}

	if plain {
		printReadings(ctx, out, tu)
		return nil
	}

	prog := tea.NewProgram(ui.NewModel(tu, switchDelay), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := prog.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

// printReadings rewrites a single status line whenever a new reading
// arrives, until ctx is done.
func printReadings(ctx context.Context, out io.Writer, tu *tuner.Tuner) {
	dev, _ := tu.Device()
	fmt.Fprintf(out, "Listening on %s... Press Ctrl+C to stop.\n", dev.Name)

	ticker := time.NewTicker(cfg.TickInterval)
	defer ticker.Stop()
	var last time.Time
	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(out, "\nStopped listening.")
			return
		case <-ticker.C:
		}
		r, ok := tu.Latest()
		if !ok || !r.At.After(last) {
			continue
		}
		last = r.At
		fmt.Fprint(out, "\r")
		printReading(out, r)
		fmt.Fprint(out, "    ")
	}
}

func printReading(out io.Writer, r tuner.Reading) {
	bold.Fprintf(out, "%-4s", r.Note.Name)
	fmt.Fprintf(out, " %8.2f Hz (ref %.2f Hz, %+5.1f cents) ", r.Frequency, r.Note.Frequency, r.Cents)
	if r.InTune {
		green.Fprint(out, "in tune")
	} else {
		red.Fprint(out, "out of tune")
	}
}

// consoleLogger is used by the commands that do not own the terminal.
func consoleLogger() *slog.Logger {
	return logging.New(os.Stderr, cfg.LogLevel)
}
