package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oraqon/elta/elta"
)

var simulateListen string

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Simulate the radar side of the link",
	Long: `Simulate listens for a C2 connection and plays the radar
controller: status messages once per second, periodic target traffic,
and state changes in response to received control requests. Point a
session at it to exercise the whole handshake locally.

Examples:
  # Terminal 1: simulated radar
  eltactl simulate --listen :23004

  # Terminal 2: session against it
  eltactl session -H 127.0.0.1:23004`,

	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().StringVar(&simulateListen, "listen", ":23004", "Address to listen on")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	rev, err := revision()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nStopping simulator...")
		cancel()
	}()

	sim := elta.NewSimulator(rev, logger)
	return sim.Run(ctx, simulateListen)
}
