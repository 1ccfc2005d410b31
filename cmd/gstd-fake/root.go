package main

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/gstc/gstc/internal/server"
	"github.com/gstc/gstc/internal/telemetry"
)

// ExitGeneralError is the exit code for any failure.
const ExitGeneralError = 1

// options holds the command line settings.
type options struct {
	address   string
	tcpPort   int
	httpPort  int
	noTCP     bool
	enableWeb bool
	metrics   bool
	logLevel  string
	logFormat string
}

var opts options

var rootCmd = &cobra.Command{
	Use:   "gstd-fake",
	Short: "In-memory GStreamer Daemon stand-in",
	Long: `Serve gstd's TCP command protocol and HTTP API from memory.

Pipelines are parsed but never run: states, properties and bus messages
behave like the daemon's without any media flowing. Injecting eos posts an
eos message on the pipeline bus.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(opts)
	},
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVarP(&opts.address, "address", "a", "127.0.0.1", "Address to listen on")
	flags.IntVarP(&opts.tcpPort, "tcp-port", "p", 5000, "TCP protocol port")
	flags.IntVar(&opts.httpPort, "http-port", 5001, "HTTP protocol port")
	flags.BoolVar(&opts.noTCP, "no-tcp", false, "Disable the TCP protocol")
	flags.BoolVar(&opts.enableWeb, "enable-http", false, "Enable the HTTP protocol")
	flags.BoolVar(&opts.metrics, "metrics", false, "Serve Prometheus metrics at /metrics on the HTTP port")
	flags.StringVar(&opts.logLevel, "log-level", "info", "Log level: trace, debug, info, warn, error")
	flags.StringVar(&opts.logFormat, "log-format", "console", "Log format: console or json")
}

// serverConfig translates the options into a server configuration.
func serverConfig(o options) (server.Config, error) {
	var cfg server.Config
	if !o.noTCP {
		if err := checkPort("tcp-port", o.tcpPort); err != nil {
			return cfg, err
		}
		cfg.TCPAddr = net.JoinHostPort(o.address, strconv.Itoa(o.tcpPort))
	}
	if o.enableWeb {
		if err := checkPort("http-port", o.httpPort); err != nil {
			return cfg, err
		}
		cfg.HTTPAddr = net.JoinHostPort(o.address, strconv.Itoa(o.httpPort))
	}
	if o.metrics {
		if !o.enableWeb {
			return cfg, errors.New("--metrics requires --enable-http")
		}
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		cfg.Registry = reg
	}
	if cfg.TCPAddr == "" && cfg.HTTPAddr == "" {
		return cfg, server.ErrNoListener
	}
	return cfg, nil
}

func checkPort(flag string, port int) error {
	if port < 0 || port > 65535 {
		return fmt.Errorf("invalid --%s %d: must be between 0 and 65535", flag, port)
	}
	return nil
}

func run(o options) error {
	logger, err := telemetry.NewLogger(telemetry.LoggingConfig{
		Level:  o.logLevel,
		Format: o.logFormat,
		Output: "stderr",
	})
	if err != nil {
		return err
	}

	cfg, err := serverConfig(o)
	if err != nil {
		return err
	}
	cfg.Logger = logger

	srv, err := server.New(cfg)
	if err != nil {
		return err
	}

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error().Err(err).Msg("server error")
		return err
	}
	return nil
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitGeneralError)
	}
}
