package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	// DefaultServerHost is where gstd listens by default
	DefaultServerHost = "127.0.0.1"

	// DefaultServerPort is gstd's default TCP port
	DefaultServerPort = 5000

	// DefaultTimeout bounds connection establishment
	DefaultTimeout = 5 * time.Second

	// DefaultLogLevel keeps the CLI quiet unless something goes wrong
	DefaultLogLevel = "warn"

	// DefaultLogFormat is human readable output on stderr
	DefaultLogFormat = "console"
)

// ResolvedConfig represents the final merged configuration with all
// precedence rules applied. Precedence order (highest to lowest):
// 1. Command line flags (applied by the caller, then Validate)
// 2. Local config (gstc.toml, nearest ancestor of the working directory)
// 3. Global config (~/.gstc/config.toml)
// 4. Built-in defaults (127.0.0.1:5000)
type ResolvedConfig struct {
	ServerHost string `validate:"required,hostname_rfc1123|ip"`
	ServerPort int    `validate:"min=1,max=65535"`
	HTTP       bool
	KeepOpen   bool
	Timeout    time.Duration `validate:"gte=0"`
	LogLevel   string        `validate:"oneof=trace debug info warn error"`
	LogFormat  string        `validate:"oneof=console json"`

	// Sources lists the files that were applied, lowest precedence first.
	Sources []string `validate:"-"`
}

var validate = validator.New()

// Defaults returns the built-in configuration.
func Defaults() *ResolvedConfig {
	return &ResolvedConfig{
		ServerHost: DefaultServerHost,
		ServerPort: DefaultServerPort,
		Timeout:    DefaultTimeout,
		LogLevel:   DefaultLogLevel,
		LogFormat:  DefaultLogFormat,
	}
}

// ResolveConfig loads the global config, discovers the local config, and
// merges them according to precedence rules.
func ResolveConfig() (*ResolvedConfig, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return ResolveConfigWithHome(homeDir)
}

// ResolveConfigWithHome resolves config using a specified home directory.
// This is useful for testing.
func ResolveConfigWithHome(homeDir string) (*ResolvedConfig, error) {
	globalCfg, err := LoadGlobalConfigFromDir(homeDir)
	if err != nil {
		return nil, err
	}

	localCfg, err := DiscoverLocalConfig()
	if err != nil {
		return nil, err
	}

	resolved := Defaults()
	resolved.apply(globalCfg)
	if localCfg != nil {
		resolved.apply(localCfg)
	}

	if err := resolved.Validate(); err != nil {
		return nil, err
	}
	return resolved, nil
}

// apply overrides every value f sets.
func (c *ResolvedConfig) apply(f *FileConfig) {
	if f.Path != "" {
		c.Sources = append(c.Sources, f.Path)
	}
	if f.ServerHost != "" {
		c.ServerHost = f.ServerHost
	}
	if f.ServerPort != 0 {
		c.ServerPort = f.ServerPort
	}
	if f.HTTP != nil {
		c.HTTP = *f.HTTP
	}
	if f.KeepOpen != nil {
		c.KeepOpen = *f.KeepOpen
	}
	if f.Timeout != nil {
		c.Timeout = *f.Timeout
	}
	if f.LogLevel != "" {
		c.LogLevel = strings.ToLower(f.LogLevel)
	}
	if f.LogFormat != "" {
		c.LogFormat = strings.ToLower(f.LogFormat)
	}
}

// Validate checks the merged values.
func (c *ResolvedConfig) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("failed to validate config: %w", err)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, describeFieldError(fe))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Field() {
	case "ServerHost":
		if fe.Tag() == "required" {
			return "server host cannot be empty"
		}
		return fmt.Sprintf("invalid server host %q", fe.Value())
	case "ServerPort":
		return fmt.Sprintf("invalid port %v: must be between 1 and 65535", fe.Value())
	case "Timeout":
		return fmt.Sprintf("invalid timeout %v: must not be negative", fe.Value())
	case "LogLevel":
		return fmt.Sprintf("invalid log level %q: must be one of %s", fe.Value(), fe.Param())
	case "LogFormat":
		return fmt.Sprintf("invalid log format %q: must be one of %s", fe.Value(), fe.Param())
	}
	return fmt.Sprintf("%s failed %q validation", fe.Field(), fe.Tag())
}
