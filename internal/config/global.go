// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"sync"
)

var (
	globalMu sync.Mutex

	// configDirOverride allows tests to override the config directory,
	// since os.UserHomeDir() doesn't reliably respect the HOME environment
	// variable on all platforms.
	configDirOverride string

	// configFilePathOverride forces loading from a specific file, set via
	// the --config flag before any Load call.
	configFilePathOverride string

	// cachedConfig holds the config from the first successful Load.
	cachedConfig *Config
)

// Load returns the global configuration, loading it on first use and
// caching the result. The cache is keyed to the overrides in effect at the
// time of the first call; Reset clears it.
func Load() (*Config, error) {
	globalMu.Lock()
	defer globalMu.Unlock()

	if cachedConfig != nil {
		return cachedConfig, nil
	}

	cfg, _, err := loadWithOptions(context.Background(), LoadOptions{
		ConfigFilePath: configFilePathOverride,
		ConfigDirPath:  configDirOverride,
	})
	if err != nil {
		return nil, err
	}

	cachedConfig = cfg
	return cfg, nil
}

// Reset clears overrides and the cached config. Call from test cleanup to
// restore defaults.
func Reset() {
	globalMu.Lock()
	defer globalMu.Unlock()
	configDirOverride = ""
	configFilePathOverride = ""
	cachedConfig = nil
}

// SetConfigDirOverride sets a custom config directory path. Intended for
// tests that need to isolate config loading from the real home directory.
func SetConfigDirOverride(dir string) {
	globalMu.Lock()
	defer globalMu.Unlock()
	configDirOverride = dir
	cachedConfig = nil
}

// SetConfigFilePathOverride forces the next Load to read the given file.
func SetConfigFilePathOverride(path string) {
	globalMu.Lock()
	defer globalMu.Unlock()
	configFilePathOverride = path
	cachedConfig = nil
}
