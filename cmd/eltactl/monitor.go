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
	monitorTargets  bool
	monitorUnknown  bool
	monitorDuration time.Duration
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Print decoded link traffic",
	Long: `Monitor connects to the radar controller and prints every decoded
message. The session handshake still runs underneath (the radar expects
keep-alives), but the focus is the traffic itself.

Examples:
  # Print everything
  eltactl monitor -H 192.168.1.100:23004

  # Only target traffic
  eltactl monitor -H 192.168.1.100:23004 --targets

  # Include unrecognized message identifiers
  eltactl monitor -H 192.168.1.100:23004 --unknown`,

	RunE: runMonitor,
}

func init() {
	monitorCmd.Flags().BoolVar(&monitorTargets, "targets", false, "Show only target reports")
	monitorCmd.Flags().BoolVar(&monitorUnknown, "unknown", false, "Show unrecognized message IDs with hex dumps")
	monitorCmd.Flags().DurationVar(&monitorDuration, "duration", 0, "Stop after this long (0 = run until interrupted)")
}

func runMonitor(cmd *cobra.Command, args []string) error {
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

	client.OnMessage(func(d elta.Decoded) {
		if monitorTargets {
			switch d.Body.(type) {
			case elta.TargetReport, elta.SingleTargetReport, elta.SingleTargetExtended:
			default:
				return
			}
		}
		if _, unknown := d.Body.(elta.Generic); unknown && !monitorUnknown {
			return
		}
		outputDecoded(d)
	})

	// Handle interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nStopping monitor...")
		cancel()
	}()

	fmt.Printf("Monitoring %s (revision %s)\n", host, revisionName)
	fmt.Println("Press Ctrl+C to stop")
	fmt.Println()

	if monitorDuration > 0 {
		select {
		case <-ctx.Done():
		case <-time.After(monitorDuration):
		}
	} else {
		<-ctx.Done()
	}

	return nil
}
