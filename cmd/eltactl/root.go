// Copyright 2025 Oraqon Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/oraqon/elta/elta"
)

var (
	cfgFile      string
	host         string
	network      string
	revisionName string
	sourceID     uint32
	localAddress string
	timeout      time.Duration
	outputFmt    string
	verbose      bool

	standbyThreshold int
	operateThreshold int
	ackEvery         int

	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "eltactl",
	Short: "A command-line client for the ELM radar control link",
	Long: `eltactl talks the C2 side of the radar control and telemetry link.

It can run the full standby/operate session against a radar controller,
passively monitor link traffic, decode captured messages, and simulate
the radar side for testing.

Examples:
  # Run a full control session against a radar
  eltactl session -H 192.168.1.100:23004

  # Monitor traffic without driving the handshake
  eltactl monitor -H 192.168.1.100:23004

  # Decode a hex-encoded message from a capture
  eltactl decode 3521000000...

  # Simulate the radar side locally
  eltactl simulate --listen :23004`,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Setup logger
		logLevel := slog.LevelInfo
		if verbose {
			logLevel = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: logLevel,
		}))

		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.eltactl.yaml)")
	rootCmd.PersistentFlags().StringVarP(&host, "host", "H", "", "Radar controller address (host:port)")
	rootCmd.PersistentFlags().StringVarP(&network, "network", "n", "tcp", "Transport network (tcp, udp)")
	rootCmd.PersistentFlags().StringVarP(&revisionName, "revision", "r", "D", "Protocol revision (D, E)")
	rootCmd.PersistentFlags().Uint32Var(&sourceID, "source-id", elta.DefaultSourceID, "Source ID for outbound headers")
	rootCmd.PersistentFlags().StringVar(&localAddress, "local", "", "Local address to bind to")
	rootCmd.PersistentFlags().DurationVarP(&timeout, "timeout", "t", 5*time.Second, "Connect timeout")
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "text", "Output format (text, json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().IntVar(&standbyThreshold, "standby-after", elta.DefaultStandbyThreshold, "Statuses before requesting standby")
	rootCmd.PersistentFlags().IntVar(&operateThreshold, "operate-after", elta.DefaultOperateThreshold, "Statuses before requesting operate")
	rootCmd.PersistentFlags().IntVar(&ackEvery, "ack-every", elta.DefaultAckEvery, "Acknowledge every Nth status")

	// Bind flags to viper
	viper.BindPFlag("host", rootCmd.PersistentFlags().Lookup("host"))
	viper.BindPFlag("network", rootCmd.PersistentFlags().Lookup("network"))
	viper.BindPFlag("revision", rootCmd.PersistentFlags().Lookup("revision"))
	viper.BindPFlag("source-id", rootCmd.PersistentFlags().Lookup("source-id"))
	viper.BindPFlag("local", rootCmd.PersistentFlags().Lookup("local"))
	viper.BindPFlag("timeout", rootCmd.PersistentFlags().Lookup("timeout"))
	viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("standby-after", rootCmd.PersistentFlags().Lookup("standby-after"))
	viper.BindPFlag("operate-after", rootCmd.PersistentFlags().Lookup("operate-after"))
	viper.BindPFlag("ack-every", rootCmd.PersistentFlags().Lookup("ack-every"))

	// Add subcommands
	rootCmd.AddCommand(sessionCmd)
	rootCmd.AddCommand(monitorCmd)
	rootCmd.AddCommand(decodeCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		viper.AddConfigPath(home)
		viper.SetConfigName(".eltactl")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("ELTA")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		if verbose {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}
}

// revision resolves the --revision flag
func revision() (elta.Revision, error) {
	return elta.RevisionByName(revisionName)
}

// createClient creates a link client with current configuration
func createClient() (*elta.Client, error) {
	if host == "" {
		return nil, fmt.Errorf("radar controller address is required (-H or --host)")
	}

	rev, err := revision()
	if err != nil {
		return nil, err
	}

	opts := []elta.Option{
		elta.WithNetwork(network),
		elta.WithRevision(rev),
		elta.WithSourceID(sourceID),
		elta.WithConnectTimeout(timeout),
		elta.WithStandbyThreshold(standbyThreshold),
		elta.WithOperateThreshold(operateThreshold),
		elta.WithAckEvery(ackEvery),
		elta.WithLogger(logger),
	}

	if localAddress != "" {
		opts = append(opts, elta.WithLocalAddress(localAddress))
	}

	return elta.NewClient(host, opts...)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("eltactl version 1.0.0")
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
