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

package ban

import "time"

// GameResult holds the statistics of one game's run listing.
type GameResult struct {
	Abbreviation string `json:"abbreviation"`
	GameID       GameID `json:"game_id"`
	Pages        int    `json:"pages"`
	Runs         int    `json:"runs"`
	Rejected     int    `json:"rejected"`
	Failed       int    `json:"failed"`
	Complete     bool   `json:"complete"`
}

// Report summarises one Ban invocation.
type Report struct {
	Username    string       `json:"username"`
	UserID      UserID       `json:"user_id,omitempty"`
	DryRun      bool         `json:"dry_run"`
	Games       []GameResult `json:"games"`
	StartedAt   time.Time    `json:"started_at"`
	CompletedAt time.Time    `json:"completed_at"`
}

// Duration returns how long the invocation took.
func (r *Report) Duration() time.Duration {
	return r.CompletedAt.Sub(r.StartedAt)
}

// Totals sums runs, rejections and failures across all games.
func (r *Report) Totals() (runs, rejected, failed int) {
	for _, g := range r.Games {
		runs += g.Runs
		rejected += g.Rejected
		failed += g.Failed
	}
	return runs, rejected, failed
}

// APICalls returns the number of completed API requests: lookups, listing
// pages and status updates.
func (r *Report) APICalls() int {
	calls := 0
	if r.UserID != "" {
		calls++
	}
	for _, g := range r.Games {
		calls += 1 + g.Pages
		if !r.DryRun {
			calls += g.Rejected + g.Failed
		}
	}
	return calls
}
