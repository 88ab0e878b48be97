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

// Package main implements the player-banner command-line interface.
// player-banner bans a speedrun.com user from one or more games by
// rejecting every run the user has submitted to them.
//
// Usage:
//
//	player-banner [flags] <username> <game-abbreviation>...
//
// Example:
//
//	player-banner AnInternetTroll mcbe mcbece celestep8
//
// The first invocation prompts for a speedrun.com API key and stores it in
// ~/.config/player-banner/player-bannerrc; later invocations read it from
// there.
//
// Exit codes:
//   - 0: Success
//   - 1: Incorrect usage or general error
//   - 2: The user cannot be found
//   - 3: A game cannot be found
//   - 4: speedrun.com could not be reached, or a run listing was cut short
package main
