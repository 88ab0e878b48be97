// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config provides configuration management for player-banner with
// support for multiple configuration sources and a well-defined precedence
// order.
//
// Configuration sources (in precedence order, highest to lowest):
//  1. Command-line flags
//  2. Environment variables (PLAYER_BANNER_*)
//  3. YAML configuration file
//  4. Built-in defaults
//
// The API key is not part of this configuration; it lives in its own
// plaintext file managed by the credential package.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/sirseerhq/player-banner/internal/speedrun"
	"github.com/sirseerhq/player-banner/pkg/version"
)

// DefaultPath returns $XDG_CONFIG_HOME/player-banner/config.yaml.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = filepath.Join(expandPath("~"), ".config")
	}
	return filepath.Join(dir, version.Product, "config.yaml")
}

// LoadConfig loads configuration from multiple sources and applies them in
// the correct precedence order. If configPath is provided, it loads from
// that specific file and fails when the file cannot be read. Otherwise the
// file at DefaultPath is used when it exists.
//
// Environment variables are applied after loading the config file, allowing
// runtime overrides. Path expansion (~ and environment variables) is performed
// on the key file path.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if err := loadConfigFile(expandPath(configPath), cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	} else {
		path := DefaultPath()
		if _, err := os.Stat(path); err == nil {
			if err := loadConfigFile(path, cfg); err != nil {
				return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
			}
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg.Credentials.KeyFile = expandPath(cfg.Credentials.KeyFile)

	return cfg, nil
}

// loadConfigFile reads and parses a YAML config file
func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return nil
}

// expandPath expands ~ and environment variables in paths
func expandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		path = filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
	}
	return os.ExpandEnv(path)
}

// Validate checks if the configuration contains valid values. This should
// be called after flags are applied to catch invalid settings early.
func (c *Config) Validate() error {
	var errs []error

	if c.API.BaseURL == "" {
		errs = append(errs, errors.New("API base URL cannot be empty"))
	} else if u, err := url.Parse(c.API.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("API base URL must be an absolute http(s) URL, got: %s", c.API.BaseURL))
	}
	if c.API.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout must not be negative, got: %s", c.API.Timeout))
	}
	if c.Runs.PageSize <= 0 || c.Runs.PageSize > speedrun.MaxPageSize {
		errs = append(errs, fmt.Errorf("page size must be between 1 and %d, got: %d", speedrun.MaxPageSize, c.Runs.PageSize))
	}
	if c.Retry.MaxRetries < 0 {
		errs = append(errs, fmt.Errorf("max retries must not be negative, got: %d", c.Retry.MaxRetries))
	}
	if c.Retry.InitialBackoff < 0 || c.Retry.MaxBackoff < 0 {
		errs = append(errs, errors.New("retry backoff must not be negative"))
	}
	if c.Credentials.KeyFile == "" {
		errs = append(errs, errors.New("API key file path cannot be empty"))
	}

	return errors.Join(errs...)
}

// RetryConfig converts the retry settings for speedrun.NewRetryClient.
func (c *Config) RetryConfig() *speedrun.RetryConfig {
	return &speedrun.RetryConfig{
		MaxRetries:        c.Retry.MaxRetries,
		InitialBackoff:    c.Retry.InitialBackoff,
		MaxBackoff:        c.Retry.MaxBackoff,
		BackoffMultiplier: 2.0,
	}
}
