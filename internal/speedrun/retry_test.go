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
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/sirseerhq/player-banner/internal/apierror"
	bannererrors "github.com/sirseerhq/player-banner/internal/errors"
)

// mockClientWithErrors is a mock client that fails a fixed number of times
type mockClientWithErrors struct {
	attempts     int
	maxFailures  int
	failureError error
}

func (m *mockClientWithErrors) next() error {
	m.attempts++
	if m.attempts <= m.maxFailures {
		return m.failureError
	}
	return nil
}

func (m *mockClientWithErrors) LookupUsers(ctx context.Context, name string) ([]User, error) {
	if err := m.next(); err != nil {
		return nil, err
	}
	return []User{{ID: "7j477kvj"}}, nil
}

func (m *mockClientWithErrors) LookupGames(ctx context.Context, abbreviation string) ([]Game, error) {
	if err := m.next(); err != nil {
		return nil, err
	}
	return []Game{{ID: "l3dxogdy"}}, nil
}

func (m *mockClientWithErrors) ListRuns(ctx context.Context, opts ListRunsOptions) (*RunPage, error) {
	if err := m.next(); err != nil {
		return nil, err
	}
	return &RunPage{}, nil
}

func (m *mockClientWithErrors) SetRunStatus(ctx context.Context, apiKey, runID string, update StatusUpdate) error {
	return m.next()
}

func fastRetryConfig(maxRetries int) *RetryConfig {
	return &RetryConfig{
		MaxRetries:        maxRetries,
		InitialBackoff:    time.Millisecond,
		MaxBackoff:        10 * time.Millisecond,
		BackoffMultiplier: 2.0,
	}
}

func TestRetryClient_RateLimitRetry(t *testing.T) {
	tests := []struct {
		name             string
		maxFailures      int
		maxRetries       int
		expectError      bool
		expectedAttempts int
	}{
		{
			name:             "succeeds after one retry",
			maxFailures:      1,
			maxRetries:       3,
			expectError:      false,
			expectedAttempts: 2,
		},
		{
			name:             "succeeds after max retries",
			maxFailures:      3,
			maxRetries:       3,
			expectError:      false,
			expectedAttempts: 4,
		},
		{
			name:             "fails after max retries exceeded",
			maxFailures:      5,
			maxRetries:       3,
			expectError:      true,
			expectedAttempts: 4,
		},
		{
			name:             "succeeds immediately",
			maxFailures:      0,
			maxRetries:       3,
			expectError:      false,
			expectedAttempts: 1,
		},
		{
			name:             "retries disabled",
			maxFailures:      1,
			maxRetries:       0,
			expectError:      true,
			expectedAttempts: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockClient := &mockClientWithErrors{
				maxFailures:  tt.maxFailures,
				failureError: &apierror.StatusError{StatusCode: 420},
			}
			retryClient := NewRetryClient(mockClient, fastRetryConfig(tt.maxRetries))

			_, err := retryClient.ListRuns(context.Background(), ListRunsOptions{})

			if tt.expectError && err == nil {
				t.Error("expected error but got nil")
			}
			if !tt.expectError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if mockClient.attempts != tt.expectedAttempts {
				t.Errorf("expected %d attempts, got %d", tt.expectedAttempts, mockClient.attempts)
			}
		})
	}
}

func TestRetryClient_NetworkErrorRetry(t *testing.T) {
	mockClient := &mockClientWithErrors{
		maxFailures:  2,
		failureError: fmt.Errorf("GET /users: %w: dial tcp: connection refused", bannererrors.ErrNetworkFailure),
	}

	var logs bytes.Buffer
	config := fastRetryConfig(3)
	config.Logger = log.New(&logs, "", 0)
	retryClient := NewRetryClient(mockClient, config)

	users, err := retryClient.LookupUsers(context.Background(), "AnInternetTroll")
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if len(users) != 1 {
		t.Errorf("expected one user, got %d", len(users))
	}
	if mockClient.attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", mockClient.attempts)
	}
	if got := strings.Count(logs.String(), "Network error during user lookup"); got != 2 {
		t.Errorf("expected 2 retry log lines, got %d:\n%s", got, logs.String())
	}
}

func TestRetryClient_NonRetryableError(t *testing.T) {
	nonRetryableErrors := []struct {
		name string
		err  error
	}{
		{"auth error", &apierror.StatusError{StatusCode: 403}},
		{"not found", &apierror.StatusError{StatusCode: 404}},
		{"bad request", &apierror.StatusError{StatusCode: 400}},
		{"canceled", context.Canceled},
	}

	for _, tt := range nonRetryableErrors {
		t.Run(tt.name, func(t *testing.T) {
			mockClient := &mockClientWithErrors{
				maxFailures:  10,
				failureError: tt.err,
			}
			retryClient := NewRetryClient(mockClient, fastRetryConfig(3))

			err := retryClient.SetRunStatus(context.Background(), "key", "run", StatusUpdate{})

			if !errors.Is(err, tt.err) {
				t.Errorf("expected %v, got %v", tt.err, err)
			}
			if mockClient.attempts != 1 {
				t.Errorf("expected 1 attempt, got %d", mockClient.attempts)
			}
		})
	}
}

func TestRetryClient_ContextCancellation(t *testing.T) {
	mockClient := &mockClientWithErrors{
		maxFailures:  10,
		failureError: &apierror.StatusError{StatusCode: 429},
	}

	config := &RetryConfig{
		MaxRetries:        3,
		InitialBackoff:    100 * time.Millisecond,
		MaxBackoff:        1 * time.Second,
		BackoffMultiplier: 2.0,
	}
	retryClient := NewRetryClient(mockClient, config)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := retryClient.LookupGames(ctx, "mkw")
	duration := time.Since(start)

	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected context deadline exceeded error, got: %v", err)
	}
	if duration > 100*time.Millisecond {
		t.Errorf("operation took too long: %v", duration)
	}
	if mockClient.attempts > 2 {
		t.Errorf("too many attempts: %d", mockClient.attempts)
	}
}

func TestRetryClient_BackoffCalculation(t *testing.T) {
	config := &RetryConfig{
		MaxRetries:        5,
		InitialBackoff:    1 * time.Second,
		MaxBackoff:        30 * time.Second,
		BackoffMultiplier: 2.0,
	}
	client := &RetryClient{config: config}

	tests := []struct {
		attempt     int
		minExpected time.Duration
		maxExpected time.Duration
	}{
		{0, 900 * time.Millisecond, 1100 * time.Millisecond},
		{1, 1800 * time.Millisecond, 2200 * time.Millisecond},
		{2, 3600 * time.Millisecond, 4400 * time.Millisecond},
		{3, 7200 * time.Millisecond, 8800 * time.Millisecond},
		{4, 14400 * time.Millisecond, 17600 * time.Millisecond},
		{5, 27000 * time.Millisecond, 33000 * time.Millisecond}, // capped at 30s
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("attempt_%d", tt.attempt), func(t *testing.T) {
			backoff := client.calculateBackoff(tt.attempt)
			if backoff < tt.minExpected || backoff > tt.maxExpected {
				t.Errorf("backoff for attempt %d = %v, want between %v and %v",
					tt.attempt, backoff, tt.minExpected, tt.maxExpected)
			}
		})
	}
}

func TestDefaultRetryConfig(t *testing.T) {
	config := DefaultRetryConfig()
	if config.MaxRetries != 0 {
		t.Errorf("MaxRetries = %d, want 0", config.MaxRetries)
	}
	if config.InitialBackoff != time.Second || config.MaxBackoff != 30*time.Second {
		t.Errorf("unexpected backoff bounds: %v..%v", config.InitialBackoff, config.MaxBackoff)
	}
}
