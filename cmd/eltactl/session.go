package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/oraqon/elta/elta"
)

var (
	sessionDuration time.Duration
	sessionStats    bool
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Run a control session against the radar",
	Long: `Session connects to the radar controller and drives the full
handshake: keep-alives at one per second, a standby request after the
configured number of status messages, periodic acknowledgments, and an
operate request once the operate threshold is reached.

The command runs until the link reaches the operate state and --duration
has elapsed, or until interrupted.

Examples:
  # Drive the radar to operate and keep the session up
  eltactl session -H 192.168.1.100:23004

  # Run for two minutes, then report link statistics
  eltactl session -H 192.168.1.100:23004 --duration 2m --stats`,

	RunE: runSession,
}

func init() {
	sessionCmd.Flags().DurationVar(&sessionDuration, "duration", 0, "Stop after this long (0 = run until interrupted)")
	sessionCmd.Flags().BoolVar(&sessionStats, "stats", false, "Print link statistics on exit")
}

func runSession(cmd *cobra.Command, args []string) error {
	client, err := createClient()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := client.Connect(ctx); err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer client.Close()

	client.OnStatus(func(h elta.MessageHeader, status elta.SystemStatus) {
		if status.Partial {
			fmt.Fprintf(os.Stderr, "[%s] short status (%d bytes)\n",
				time.Now().Format("15:04:05.000"), len(status.Raw))
			return
		}
		outputStatus(h, status, client.State())
	})

	// Handle interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nStopping session...")
		cancel()
	}()

	fmt.Printf("Session to %s (revision %s)\n", host, revisionName)
	fmt.Println("Press Ctrl+C to stop")
	fmt.Println()

	if sessionDuration > 0 {
		select {
		case <-ctx.Done():
		case <-time.After(sessionDuration):
		}
	} else {
		<-ctx.Done()
	}

	if sessionStats {
		printStats(client.Metrics().Snapshot())
	}

	fmt.Printf("Final link state: %s\n", client.State())
	return nil
}
