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

// Package apierror classifies failures returned by the speedrun.com REST API.
//
// Requests either fail in transport (DNS, refused connections, timeouts,
// truncated or malformed bodies) or come back with a non-2xx status. The
// latter are carried as *StatusError so callers can print the structured
// error body the API returns. The Inspector turns both shapes into the
// categories the rest of the program cares about: retryable or not, and
// which exit code applies.
package apierror
