package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// LocalConfigFileName is the per-directory configuration file, looked up
// from the working directory towards the filesystem root.
const LocalConfigFileName = "gstc.toml"

// DiscoverLocalConfig finds and parses the nearest gstc.toml by traversing
// up the directory tree from the current working directory. It returns nil
// without an error when there is none.
func DiscoverLocalConfig() (*FileConfig, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current directory: %w", err)
	}

	return discoverLocalConfigFrom(cwd)
}

// discoverLocalConfigFrom searches for gstc.toml starting from the given directory
func discoverLocalConfigFrom(startDir string) (*FileConfig, error) {
	dir := startDir

	for {
		configPath := filepath.Join(dir, LocalConfigFileName)
		if _, err := os.Stat(configPath); err == nil {
			return ParseConfigFile(configPath)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, nil
		}
		dir = parent
	}
}
