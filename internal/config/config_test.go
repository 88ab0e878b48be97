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

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// isolate points the config and home directories at a temp dir so that a
// developer's own files cannot leak into the test.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, ".config"))
	for _, name := range []string{
		"PLAYER_BANNER_API_URL", "PLAYER_BANNER_USER_AGENT", "PLAYER_BANNER_TIMEOUT",
		"PLAYER_BANNER_PAGE_SIZE", "PLAYER_BANNER_MAX_RETRIES", "PLAYER_BANNER_INITIAL_BACKOFF",
		"PLAYER_BANNER_MAX_BACKOFF", "PLAYER_BANNER_KEY_FILE", "PLAYER_BANNER_OTEL_ENDPOINT",
	} {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
	return dir
}

func TestDefaultConfig(t *testing.T) {
	isolate(t)
	cfg := DefaultConfig()

	if cfg.API.BaseURL != "https://www.speedrun.com/api/v1" {
		t.Errorf("BaseURL = %s, want https://www.speedrun.com/api/v1", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 0 {
		t.Errorf("Timeout = %v, want 0", cfg.API.Timeout)
	}
	if cfg.Runs.PageSize != 200 {
		t.Errorf("PageSize = %d, want 200", cfg.Runs.PageSize)
	}
	if cfg.Retry.MaxRetries != 0 {
		t.Errorf("MaxRetries = %d, want 0", cfg.Retry.MaxRetries)
	}
	if !strings.HasSuffix(cfg.Credentials.KeyFile, filepath.Join("player-banner", "player-bannerrc")) {
		t.Errorf("KeyFile = %s", cfg.Credentials.KeyFile)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config does not validate: %v", err)
	}
}

func TestLoadConfigFile(t *testing.T) {
	isolate(t)
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
api:
  base_url: http://localhost:9999/api/v1
  user_agent: banner-test
  timeout: 15s

runs:
  page_size: 50

retry:
  max_retries: 2
  initial_backoff: 250ms
  max_backoff: 2s

credentials:
  key_file: ~/keys/speedrun

telemetry:
  otlp_endpoint: http://localhost:4318
`
	if err := os.WriteFile(configPath, []byte(configContent), 0o644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.API.BaseURL != "http://localhost:9999/api/v1" {
		t.Errorf("BaseURL = %s", cfg.API.BaseURL)
	}
	if cfg.API.UserAgent != "banner-test" {
		t.Errorf("UserAgent = %s", cfg.API.UserAgent)
	}
	if cfg.API.Timeout != 15*time.Second {
		t.Errorf("Timeout = %v, want 15s", cfg.API.Timeout)
	}
	if cfg.Runs.PageSize != 50 {
		t.Errorf("PageSize = %d, want 50", cfg.Runs.PageSize)
	}
	if cfg.Retry.MaxRetries != 2 || cfg.Retry.InitialBackoff != 250*time.Millisecond || cfg.Retry.MaxBackoff != 2*time.Second {
		t.Errorf("Retry = %+v", cfg.Retry)
	}
	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, "keys", "speedrun"); cfg.Credentials.KeyFile != want {
		t.Errorf("KeyFile = %s, want %s", cfg.Credentials.KeyFile, want)
	}
	if cfg.Telemetry.Endpoint != "http://localhost:4318" {
		t.Errorf("Telemetry.Endpoint = %s", cfg.Telemetry.Endpoint)
	}
}

func TestLoadConfig_DefaultLocation(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, ".config", "player-banner", "config.yaml")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("runs:\n  page_size: 25\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Runs.PageSize != 25 {
		t.Errorf("PageSize = %d, want 25 from default location", cfg.Runs.PageSize)
	}
	if cfg.API.BaseURL != "https://www.speedrun.com/api/v1" {
		t.Errorf("unset keys must keep defaults, BaseURL = %s", cfg.API.BaseURL)
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	isolate(t)
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("runs:\n  page_size: 10\nretry:\n  max_retries: 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("PLAYER_BANNER_API_URL", "http://env.example/api/v1")
	t.Setenv("PLAYER_BANNER_PAGE_SIZE", "75")
	t.Setenv("PLAYER_BANNER_TIMEOUT", "3s")
	t.Setenv("PLAYER_BANNER_KEY_FILE", "/env/key")

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.API.BaseURL != "http://env.example/api/v1" {
		t.Errorf("BaseURL = %s", cfg.API.BaseURL)
	}
	if cfg.Runs.PageSize != 75 {
		t.Errorf("env should override file: PageSize = %d, want 75", cfg.Runs.PageSize)
	}
	if cfg.Retry.MaxRetries != 1 {
		t.Errorf("file value without env override lost: MaxRetries = %d, want 1", cfg.Retry.MaxRetries)
	}
	if cfg.API.Timeout != 3*time.Second {
		t.Errorf("Timeout = %v, want 3s", cfg.API.Timeout)
	}
	if cfg.Credentials.KeyFile != "/env/key" {
		t.Errorf("KeyFile = %s", cfg.Credentials.KeyFile)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	isolate(t)
	tmpDir := t.TempDir()

	if _, err := LoadConfig(filepath.Join(tmpDir, "missing.yaml")); err == nil {
		t.Error("expected error for explicit missing config file")
	}

	bad := filepath.Join(tmpDir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("runs: [unterminated"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(bad); err == nil {
		t.Error("expected error for invalid YAML")
	}

	t.Setenv("PLAYER_BANNER_PAGE_SIZE", "lots")
	if _, err := LoadConfig(""); err == nil {
		t.Error("expected error for non-numeric PLAYER_BANNER_PAGE_SIZE")
	}
}

func TestValidate(t *testing.T) {
	isolate(t)

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"empty url", func(c *Config) { c.API.BaseURL = "" }, "cannot be empty"},
		{"relative url", func(c *Config) { c.API.BaseURL = "/api/v1" }, "absolute http(s) URL"},
		{"ftp url", func(c *Config) { c.API.BaseURL = "ftp://example.com" }, "absolute http(s) URL"},
		{"zero page size", func(c *Config) { c.Runs.PageSize = 0 }, "page size"},
		{"page size too large", func(c *Config) { c.Runs.PageSize = 201 }, "page size"},
		{"negative retries", func(c *Config) { c.Retry.MaxRetries = -1 }, "max retries"},
		{"negative timeout", func(c *Config) { c.API.Timeout = -time.Second }, "timeout"},
		{"negative backoff", func(c *Config) { c.Retry.MaxBackoff = -time.Second }, "backoff"},
		{"empty key file", func(c *Config) { c.Credentials.KeyFile = "" }, "key file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestRetryConfig(t *testing.T) {
	isolate(t)
	cfg := DefaultConfig()
	cfg.Retry.MaxRetries = 4

	rc := cfg.RetryConfig()
	if rc.MaxRetries != 4 || rc.InitialBackoff != time.Second || rc.MaxBackoff != 30*time.Second || rc.BackoffMultiplier != 2 {
		t.Errorf("RetryConfig() = %+v", rc)
	}
}

func TestExpandPath(t *testing.T) {
	dir := isolate(t)
	t.Setenv("BANNER_TEST_DIR", "/opt/banner")

	tests := []struct {
		in   string
		want string
	}{
		{"~", dir},
		{"~/keys/rc", filepath.Join(dir, "keys", "rc")},
		{"$BANNER_TEST_DIR/rc", "/opt/banner/rc"},
		{"/abs/path", "/abs/path"},
	}

	for _, tt := range tests {
		if got := expandPath(tt.in); got != tt.want {
			t.Errorf("expandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
