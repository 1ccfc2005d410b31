package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/gstc/gstc/internal/config"
	"github.com/gstc/gstc/internal/telemetry"
	"github.com/gstc/gstc/pkg/gstc"
)

// errConfig marks failures to load or validate the configuration.
var errConfig = errors.New("configuration error")

// Daemon codes the CLI maps to dedicated exit codes.
const (
	daemonBadDescription   = 2
	daemonExistingName     = 3
	daemonNoPipeline       = 5
	daemonNoResource       = 6
	daemonExistingResource = 8
	daemonBadValue         = 13
	daemonMissingArgument  = 17
)

// loadConfig resolves the configuration files and applies the flags the
// user set explicitly.
func loadConfig(cmd *cobra.Command) (*config.ResolvedConfig, error) {
	cfg, err := config.ResolveConfig()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errConfig, err)
	}
	applyFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", errConfig, err)
	}
	return cfg, nil
}

func applyFlags(cmd *cobra.Command, cfg *config.ResolvedConfig) {
	flags := cmd.Flags()
	if flags.Changed("host") {
		cfg.ServerHost = hostFlag
	}
	if flags.Changed("port") {
		cfg.ServerPort = portFlag
	}
	if flags.Changed("http") {
		cfg.HTTP = httpFlag
	}
	if flags.Changed("keep-open") {
		cfg.KeepOpen = keepOpenFlag
	}
	if flags.Changed("connect-timeout") {
		cfg.Timeout = connectTimeout
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevelFlag
	}
}

// getClient creates a client from the resolved config
func getClient(cmd *cobra.Command) (*gstc.Client, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	logger, err := telemetry.NewLogger(telemetry.LoggingConfig{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Output: "stderr",
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errConfig, err)
	}

	return newClient(cfg, logger)
}

func newClient(cfg *config.ResolvedConfig, logger zerolog.Logger) (*gstc.Client, error) {
	return gstc.NewClient(
		gstc.WithAddress(cfg.ServerHost),
		gstc.WithPort(cfg.ServerPort),
		gstc.WithConnectTimeout(cfg.Timeout),
		gstc.WithKeepOpen(cfg.KeepOpen),
		gstc.WithHTTP(cfg.HTTP),
		gstc.WithLogger(logger),
	)
}

// mapErrorToExitCode maps an error to the appropriate exit code
func mapErrorToExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, errConfig) {
		return ExitConfigError
	}

	var daemonErr *gstc.DaemonError
	if errors.As(err, &daemonErr) {
		switch daemonErr.Code {
		case daemonNoPipeline, daemonNoResource:
			return ExitNotFound
		case daemonExistingName, daemonExistingResource:
			return ExitConflict
		case daemonBadDescription, daemonBadValue, daemonMissingArgument:
			return ExitInvalidArgument
		default:
			return ExitDaemonError
		}
	}

	switch {
	case gstc.IsTransportFailure(err):
		return ExitServerNotRunning
	case gstc.IsDecodeFailure(err), errors.Is(err, gstc.ErrUnsupported):
		return ExitBadResponse
	case gstc.IsNullArgument(err):
		return ExitInvalidArgument
	}

	return ExitGeneralError
}

// handleError handles an error by printing it and exiting with the appropriate code
func handleError(err error) {
	if err == nil {
		return
	}

	printError(os.Stderr, err, jsonOutput)
	os.Exit(mapErrorToExitCode(err))
}
