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

import "context"

// Client defines the interface for interacting with the speedrun.com API.
// This interface allows for easy mocking in tests.
type Client interface {
	// LookupUsers returns the users matching name, best match first.
	// An empty slice with a nil error means no user matched.
	LookupUsers(ctx context.Context, name string) ([]User, error)

	// LookupGames returns the games with the given abbreviation.
	// An empty slice with a nil error means no game matched.
	LookupGames(ctx context.Context, abbreviation string) ([]Game, error)

	// ListRuns retrieves one page of runs using offset pagination.
	ListRuns(ctx context.Context, opts ListRunsOptions) (*RunPage, error)

	// SetRunStatus changes the verification status of a run. It needs an
	// API key belonging to a moderator of the run's game. A non-2xx answer
	// is returned as *apierror.StatusError.
	SetRunStatus(ctx context.Context, apiKey, runID string, update StatusUpdate) error
}
