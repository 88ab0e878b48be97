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

// Package errors defines sentinel errors for consistent error handling across the application.
// These errors map to specific exit codes in the CLI for proper scripting support.
package errors

import "errors"

// Sentinel errors for consistent error handling and exit code mapping
var (
	// ErrUsage indicates the command line was malformed, e.g. missing arguments.
	// Maps to exit code 1.
	ErrUsage = errors.New("incorrect program usage")

	// ErrUserNotFound indicates the username lookup returned no match.
	// Maps to exit code 2.
	ErrUserNotFound = errors.New("user not found")

	// ErrGameNotFound indicates the game abbreviation lookup returned no match.
	// Maps to exit code 3.
	ErrGameNotFound = errors.New("game not found")

	// ErrNetworkFailure indicates the API could not be reached or answered
	// with something that is not a valid response body.
	// Maps to exit code 4.
	ErrNetworkFailure = errors.New("network connection failed")

	// ErrIncomplete indicates at least one run listing failed part-way, so
	// some runs may not have been rejected.
	// Maps to exit code 4.
	ErrIncomplete = errors.New("run listing incomplete")

	// ErrRateLimit indicates speedrun.com throttled the request (HTTP 420/429).
	ErrRateLimit = errors.New("speedrun.com rate limit exceeded")

	// ErrInvalidAPIKey indicates the API key was rejected (HTTP 401/403).
	ErrInvalidAPIKey = errors.New("invalid speedrun.com api key")
)
