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

// Package credential supplies the speedrun.com API key used to authorize
// status updates.
//
// The key lives in a plaintext file holding nothing but the key. When the
// file is missing the user is prompted once and the answer is persisted
// with the same atomic write-to-temp-and-rename pattern used for every file
// this program writes, so an interrupted first run never leaves a truncated
// key behind. Later invocations read the file without prompting.
package credential
