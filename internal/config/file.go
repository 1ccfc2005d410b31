package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// FileConfig holds the settings read from one configuration file. Zero
// values and nil pointers mean the key was absent, so the value from a
// lower precedence source is kept.
type FileConfig struct {
	Path string

	ServerHost string
	ServerPort int
	HTTP       *bool
	KeepOpen   *bool
	Timeout    *time.Duration

	LogLevel  string
	LogFormat string
}

// configFile represents the raw TOML structure shared by both files
type configFile struct {
	Server serverConfig `toml:"server"`
	Log    logConfig    `toml:"log"`
}

// serverConfig represents the [server] section in TOML
type serverConfig struct {
	Host     string `toml:"host"`
	Port     *int   `toml:"port"`
	HTTP     *bool  `toml:"http"`
	KeepOpen *bool  `toml:"keep_open"`
	Timeout  string `toml:"timeout"`
}

// logConfig represents the [log] section in TOML
type logConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// ParseConfigFile parses the configuration file at path.
func ParseConfigFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var raw configFile
	meta, err := toml.Decode(string(data), &raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TOML in %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown key %q in %s", undecoded[0].String(), path)
	}

	cfg := &FileConfig{
		Path:       path,
		ServerHost: raw.Server.Host,
		HTTP:       raw.Server.HTTP,
		KeepOpen:   raw.Server.KeepOpen,
		LogLevel:   raw.Log.Level,
		LogFormat:  raw.Log.Format,
	}

	// Validate port if explicitly specified in config
	if raw.Server.Port != nil {
		if err := validatePort(*raw.Server.Port); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		cfg.ServerPort = *raw.Server.Port
	}

	if raw.Server.Timeout != "" {
		timeout, err := time.ParseDuration(raw.Server.Timeout)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid timeout %q: %w", path, raw.Server.Timeout, err)
		}
		cfg.Timeout = &timeout
	}

	return cfg, nil
}

// validatePort checks if the port is in the valid range (1-65535)
func validatePort(port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("invalid port %d: must be between 1 and 65535", port)
	}
	return nil
}
