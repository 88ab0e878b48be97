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

package speedrun

import (
	"context"
	"fmt"
	"log"
	"math"
	"math/rand/v2"
	"time"

	"github.com/sirseerhq/player-banner/internal/apierror"
)

// RetryConfig configures the retry behavior for API calls
type RetryConfig struct {
	// MaxRetries is the maximum number of retry attempts. Zero disables retries.
	MaxRetries int
	// InitialBackoff is the initial backoff duration
	InitialBackoff time.Duration
	// MaxBackoff is the maximum backoff duration
	MaxBackoff time.Duration
	// BackoffMultiplier is the multiplier for exponential backoff
	BackoffMultiplier float64
	// Logger receives one line per retry. Nil keeps retries silent.
	Logger *log.Logger
}

// DefaultRetryConfig returns the default retry configuration. Retries are
// off by default; a failed request is reported once.
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxRetries:        0,
		InitialBackoff:    1 * time.Second,
		MaxBackoff:        30 * time.Second,
		BackoffMultiplier: 2.0,
	}
}

// RetryClient wraps a speedrun client with automatic retry logic for
// rate limits, 5xx answers and transient network errors using exponential
// backoff.
type RetryClient struct {
	client    Client
	config    *RetryConfig
	inspector apierror.Inspector
}

// NewRetryClient creates a new RetryClient with the given configuration
func NewRetryClient(client Client, config *RetryConfig) Client {
	if config == nil {
		config = DefaultRetryConfig()
	}
	if config.BackoffMultiplier <= 0 {
		config.BackoffMultiplier = 2.0
	}
	return &RetryClient{
		client:    client,
		config:    config,
		inspector: apierror.NewInspector(),
	}
}

// LookupUsers implements the Client interface with retry logic
func (r *RetryClient) LookupUsers(ctx context.Context, name string) ([]User, error) {
	return withRetry(ctx, r, "user lookup", func() ([]User, error) {
		return r.client.LookupUsers(ctx, name)
	})
}

// LookupGames implements the Client interface with retry logic
func (r *RetryClient) LookupGames(ctx context.Context, abbreviation string) ([]Game, error) {
	return withRetry(ctx, r, "game lookup", func() ([]Game, error) {
		return r.client.LookupGames(ctx, abbreviation)
	})
}

// ListRuns implements the Client interface with retry logic
func (r *RetryClient) ListRuns(ctx context.Context, opts ListRunsOptions) (*RunPage, error) {
	return withRetry(ctx, r, "run listing", func() (*RunPage, error) {
		return r.client.ListRuns(ctx, opts)
	})
}

// SetRunStatus implements the Client interface with retry logic. Setting a
// status is idempotent, so repeating the request is safe.
func (r *RetryClient) SetRunStatus(ctx context.Context, apiKey, runID string, update StatusUpdate) error {
	_, err := withRetry(ctx, r, "status update", func() (struct{}, error) {
		return struct{}{}, r.client.SetRunStatus(ctx, apiKey, runID, update)
	})
	return err
}

func withRetry[T any](ctx context.Context, r *RetryClient, op string, call func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 0; attempt <= r.config.MaxRetries; attempt++ {
		result, err := call()
		if err == nil {
			return result, nil
		}

		lastErr = err

		// Don't retry on non-retryable errors
		if !r.inspector.IsRetryable(err) {
			return zero, err
		}

		if ctx.Err() != nil {
			return zero, ctx.Err()
		}

		if attempt == r.config.MaxRetries {
			break
		}

		backoff := r.calculateBackoff(attempt)

		if r.config.Logger != nil {
			reason := "Network error"
			if r.inspector.IsRateLimitError(err) {
				reason = "Rate limit hit"
			} else if r.inspector.IsServerError(err) {
				reason = "Server error"
			}
			r.config.Logger.Printf("%s during %s. Retrying in %v (attempt %d/%d)",
				reason, op, backoff.Round(time.Millisecond), attempt+1, r.config.MaxRetries)
		}

		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return zero, ctx.Err()
		}
	}

	if r.config.MaxRetries == 0 {
		return zero, lastErr
	}
	return zero, fmt.Errorf("failed after %d retries: %w", r.config.MaxRetries, lastErr)
}

// calculateBackoff calculates the backoff duration for the given attempt
func (r *RetryClient) calculateBackoff(attempt int) time.Duration {
	backoff := float64(r.config.InitialBackoff) * math.Pow(r.config.BackoffMultiplier, float64(attempt))

	if r.config.MaxBackoff > 0 && backoff > float64(r.config.MaxBackoff) {
		backoff = float64(r.config.MaxBackoff)
	}

	// ±10% jitter
	jitter := backoff * 0.1 * (2*rand.Float64() - 1)
	backoff += jitter

	return time.Duration(backoff)
}
