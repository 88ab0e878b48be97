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
	"sync"

	bannererrors "github.com/sirseerhq/player-banner/internal/errors"
)

// StatusCall records one SetRunStatus invocation on a MockClient.
type StatusCall struct {
	APIKey string
	RunID  string
	Update StatusUpdate
}

// MockClient is a mock implementation of the Client interface for testing.
type MockClient struct {
	mu sync.Mutex

	// Users maps a lookup name to the users returned for it.
	Users map[string][]User

	// Games maps an abbreviation to the games returned for it.
	Games map[string][]Game

	// Runs maps a game id to the runs listed for it, in listing order.
	Runs map[string][]Run

	// StatusErrors maps a run id to the error SetRunStatus returns for it.
	StatusErrors map[string]error

	// ListErrors maps an offset to the error ListRuns returns at it.
	ListErrors map[int]error

	// Error, when set, is returned by every lookup.
	Error error

	// Behavior flags
	ShouldFailNetwork bool

	// Track calls for verification
	UserLookups []string
	GameLookups []string
	ListCalls   []ListRunsOptions
	StatusCalls []StatusCall
}

// NewMockClient creates a new mock client with the AnInternetTroll / mkw
// fixtures used across the tests.
func NewMockClient() *MockClient {
	return &MockClient{
		Users: map[string][]User{
			"AnInternetTroll": {{ID: "7j477kvj", Names: Names{International: "AnInternetTroll"}}},
		},
		Games: map[string][]Game{
			"mkw":       {{ID: "l3dxogdy", Abbreviation: "mkw"}},
			"celestep8": {{ID: "4d7e7z67", Abbreviation: "celestep8"}},
		},
		Runs:         map[string][]Run{},
		StatusErrors: map[string]error{},
		ListErrors:   map[int]error{},
	}
}

// LookupUsers implements the Client interface
func (m *MockClient) LookupUsers(ctx context.Context, name string) ([]User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UserLookups = append(m.UserLookups, name)

	if err := m.fail(ctx); err != nil {
		return nil, err
	}
	return m.Users[name], nil
}

// LookupGames implements the Client interface
func (m *MockClient) LookupGames(ctx context.Context, abbreviation string) ([]Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GameLookups = append(m.GameLookups, abbreviation)

	if err := m.fail(ctx); err != nil {
		return nil, err
	}
	return m.Games[abbreviation], nil
}

// ListRuns implements the Client interface. It pages through Runs[opts.Game]
// ignoring the user filter.
func (m *MockClient) ListRuns(ctx context.Context, opts ListRunsOptions) (*RunPage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ListCalls = append(m.ListCalls, opts)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.ShouldFailNetwork {
		return nil, fmt.Errorf("network timeout: %w", bannererrors.ErrNetworkFailure)
	}
	if err, ok := m.ListErrors[opts.Offset]; ok {
		return nil, err
	}

	size := opts.Max
	if size <= 0 || size > MaxPageSize {
		size = MaxPageSize
	}

	all := m.Runs[opts.Game]
	runs := []Run{}
	if opts.Offset < len(all) {
		end := opts.Offset + size
		if end > len(all) {
			end = len(all)
		}
		runs = append(runs, all[opts.Offset:end]...)
	}

	return &RunPage{
		Runs:       runs,
		Pagination: Pagination{Offset: opts.Offset, Max: size, Size: len(runs)},
	}, nil
}

// SetRunStatus implements the Client interface
func (m *MockClient) SetRunStatus(ctx context.Context, apiKey, runID string, update StatusUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StatusCalls = append(m.StatusCalls, StatusCall{APIKey: apiKey, RunID: runID, Update: update})

	if err := ctx.Err(); err != nil {
		return err
	}
	if m.ShouldFailNetwork {
		return fmt.Errorf("network timeout: %w", bannererrors.ErrNetworkFailure)
	}
	return m.StatusErrors[runID]
}

func (m *MockClient) fail(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.ShouldFailNetwork {
		return fmt.Errorf("network timeout: %w", bannererrors.ErrNetworkFailure)
	}
	return m.Error
}

// GenerateRuns creates n runs for a game with ids run0000, run0001, ...
func GenerateRuns(gameID string, n int) []Run {
	runs := make([]Run, 0, n)
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("run%04d", i)
		runs = append(runs, Run{
			ID:      id,
			Weblink: "https://www.speedrun.com/" + gameID + "/run/" + id,
			Game:    gameID,
			Status:  RunStatus{Status: StatusNew},
		})
	}
	return runs
}

// MockClientOption allows configuring the mock client
type MockClientOption func(*MockClient)

// WithRuns sets the runs listed for a game
func WithRuns(gameID string, runs []Run) MockClientOption {
	return func(m *MockClient) {
		m.Runs[gameID] = runs
	}
}

// WithStatusError makes SetRunStatus fail for one run
func WithStatusError(runID string, err error) MockClientOption {
	return func(m *MockClient) {
		m.StatusErrors[runID] = err
	}
}

// WithNetworkFailure makes every call fail with a network error
func WithNetworkFailure() MockClientOption {
	return func(m *MockClient) {
		m.ShouldFailNetwork = true
	}
}

// NewMockClientWithOptions creates a mock client with options
func NewMockClientWithOptions(opts ...MockClientOption) *MockClient {
	mock := NewMockClient()
	for _, opt := range opts {
		opt(mock)
	}
	return mock
}
