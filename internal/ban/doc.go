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

// Package ban implements the reject workflow: it resolves a speedrun.com
// user and a list of games, pages through the user's runs for each game and
// rejects every one of them.
//
// The workflow is strictly sequential. Games are processed in the order they
// are given and a game that cannot be resolved stops the whole invocation.
// A run that cannot be rejected is reported and skipped; it never aborts the
// batch.
package ban
