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

// Package output writes the structured text player-banner prints.
//
// Two formats are supported. Writer streams NDJSON, one record per line, and
// is used for dry-run listings on stdout. PrettyWriter renders response
// bodies returned by speedrun.com as JSON indented with four spaces, falling
// back to the raw text when a body is not valid JSON.
//
// Example usage:
//
//	w := output.NewWriter(os.Stdout)
//	for _, run := range runs {
//	    if err := w.Write(run); err != nil {
//	        return err
//	    }
//	}
//
//	p := output.NewPrettyWriter(os.Stderr)
//	_ = p.WriteBody(statusErr.Body)
package output
