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

// Package version holds the build version of player-banner.
package version

// Version is overridden at build time with
// -ldflags "-X github.com/sirseerhq/player-banner/pkg/version.Version=1.2.3".
var Version = "1.1.0"

// Product is the name sent in the User-Agent header and printed by --version.
const Product = "player-banner"

// UserAgent returns "<product>/<version>".
func UserAgent(product string) string {
	if product == "" {
		product = Product
	}
	return product + "/" + Version
}
