package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "gstc",
	Short: "GStreamer Daemon client",
	Long: `A command line client for the GStreamer Daemon (gstd).

Connection settings come from ~/.gstc/config.toml, then the nearest gstc.toml
above the working directory, then the flags below.`,
	SilenceUsage: true,
}

// Global flags
var (
	jsonOutput     bool
	hostFlag       string
	portFlag       int
	httpFlag       bool
	keepOpenFlag   bool
	connectTimeout time.Duration
	logLevelFlag   string
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVar(&jsonOutput, "json", false, "Output as JSON")
	flags.StringVar(&hostFlag, "host", "", "Daemon host (default from config, 127.0.0.1)")
	flags.IntVar(&portFlag, "port", 0, "Daemon port (default from config, 5000)")
	flags.BoolVar(&httpFlag, "http", false, "Talk to the daemon's HTTP API instead of TCP")
	flags.BoolVar(&keepOpenFlag, "keep-open", false, "Reuse one TCP connection for all commands")
	flags.DurationVar(&connectTimeout, "connect-timeout", 0, "Connection timeout (default from config, 5s)")
	flags.StringVar(&logLevelFlag, "log-level", "", "Log level: trace, debug, info, warn, error")
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitGeneralError)
	}
}
