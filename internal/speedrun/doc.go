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

// Package speedrun provides a client for the small part of the speedrun.com
// REST API (v1) needed to ban a player: user lookup, game lookup, run
// listing and run status updates.
//
// The package includes:
//   - A Client interface for the four endpoints
//   - A REST implementation over net/http with a header-setting transport
//   - A RetryClient decorator with exponential backoff
//   - A MockClient for tests
//
// Basic usage:
//
//	client := speedrun.NewRESTClient(speedrun.Options{BaseURL: speedrun.DefaultBaseURL})
//	users, err := client.LookupUsers(ctx, "AnInternetTroll")
//	if err != nil {
//	    // Handle error
//	}
//	page, err := client.ListRuns(ctx, speedrun.ListRunsOptions{
//	    User: users[0].ID, Game: "l3dxogdy", Max: 200,
//	})
package speedrun
