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

// Package config types define the configuration structures used throughout
// player-banner. These types represent settings that can be loaded from
// YAML configuration files, environment variables, or command-line flags.
package config

import (
	"time"

	"github.com/sirseerhq/player-banner/internal/credential"
	"github.com/sirseerhq/player-banner/internal/speedrun"
)

// Config represents the complete configuration for player-banner.
type Config struct {
	API         APIConfig         `yaml:"api"`
	Runs        RunsConfig        `yaml:"runs"`
	Retry       RetryConfig       `yaml:"retry"`
	Credentials CredentialsConfig `yaml:"credentials"`
	Telemetry   TelemetryConfig   `yaml:"telemetry"`
}

// APIConfig locates the speedrun.com REST API. Pointing BaseURL elsewhere
// is how tests and mirrors are used.
type APIConfig struct {
	BaseURL   string        `yaml:"base_url"   env:"PLAYER_BANNER_API_URL"`
	UserAgent string        `yaml:"user_agent" env:"PLAYER_BANNER_USER_AGENT"`
	Timeout   time.Duration `yaml:"timeout"    env:"PLAYER_BANNER_TIMEOUT"`
}

// RunsConfig controls run enumeration.
type RunsConfig struct {
	PageSize int `yaml:"page_size" env:"PLAYER_BANNER_PAGE_SIZE"`
}

// RetryConfig controls retries of transient failures. MaxRetries of zero
// sends every request exactly once.
type RetryConfig struct {
	MaxRetries     int           `yaml:"max_retries"     env:"PLAYER_BANNER_MAX_RETRIES"`
	InitialBackoff time.Duration `yaml:"initial_backoff" env:"PLAYER_BANNER_INITIAL_BACKOFF"`
	MaxBackoff     time.Duration `yaml:"max_backoff"     env:"PLAYER_BANNER_MAX_BACKOFF"`
}

// CredentialsConfig locates the API key file.
type CredentialsConfig struct {
	KeyFile string `yaml:"key_file" env:"PLAYER_BANNER_KEY_FILE"`
}

// TelemetryConfig enables OTLP trace export when Endpoint is set.
type TelemetryConfig struct {
	Endpoint string `yaml:"otlp_endpoint" env:"PLAYER_BANNER_OTEL_ENDPOINT"`
}

// DefaultConfig returns a Config that talks to the public API with one
// request per operation and no timeouts.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:   speedrun.DefaultBaseURL,
			UserAgent: "player-banner",
		},
		Runs: RunsConfig{
			PageSize: speedrun.MaxPageSize,
		},
		Retry: RetryConfig{
			MaxRetries:     0,
			InitialBackoff: time.Second,
			MaxBackoff:     30 * time.Second,
		},
		Credentials: CredentialsConfig{
			KeyFile: credential.DefaultPath(),
		},
	}
}
