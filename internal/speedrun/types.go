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

import (
	"net/url"
	"path"
	"strings"
)

// DefaultBaseURL is the public speedrun.com REST API root.
const DefaultBaseURL = "https://www.speedrun.com/api/v1"

// Run statuses accepted by the status endpoint.
const (
	StatusNew      = "new"
	StatusVerified = "verified"
	StatusRejected = "rejected"
)

// MaxPageSize is the largest page the runs endpoint will serve.
const MaxPageSize = 200

// Names holds the localized names the API reports for users and games.
type Names struct {
	International string `json:"international"`
	Japanese      string `json:"japanese,omitempty"`
}

// User is a speedrun.com account as returned by GET /users.
type User struct {
	ID      string `json:"id"`
	Names   Names  `json:"names"`
	Weblink string `json:"weblink"`
}

// Game is a game as returned by GET /games.
type Game struct {
	ID           string `json:"id"`
	Abbreviation string `json:"abbreviation"`
	Names        Names  `json:"names"`
	Weblink      string `json:"weblink"`
}

// RunStatus is the verification state of a run.
type RunStatus struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

// Run is a single submission as returned by GET /runs. Only the fields the
// ban workflow reads are decoded.
type Run struct {
	ID       string    `json:"id"`
	Weblink  string    `json:"weblink"`
	Game     string    `json:"game"`
	Category string    `json:"category,omitempty"`
	Status   RunStatus `json:"status"`
}

// WeblinkID returns the run id taken from the last path segment of the
// run's canonical web link, e.g. "yo3g1qkm" for
// https://www.speedrun.com/mkw/run/yo3g1qkm. It falls back to the ID field
// when the web link is missing or has no usable segment.
func (r Run) WeblinkID() string {
	if r.Weblink != "" {
		p := r.Weblink
		if u, err := url.Parse(r.Weblink); err == nil && u.Path != "" {
			p = u.Path
		}
		p = strings.TrimRight(p, "/")
		if seg := path.Base(p); seg != "" && seg != "." && seg != "/" {
			return seg
		}
	}
	return r.ID
}

// Pagination mirrors the pagination block of list responses.
type Pagination struct {
	Offset int `json:"offset"`
	Max    int `json:"max"`
	Size   int `json:"size"`
}

// RunPage is a single page of runs and the pagination block that came with it.
type RunPage struct {
	Runs       []Run
	Pagination Pagination
}

// ListRunsOptions filters and pages GET /runs.
type ListRunsOptions struct {
	// User restricts the listing to runs by this user id.
	User string

	// Game restricts the listing to runs of this game id.
	Game string

	// Max is the page size. Values outside 1..MaxPageSize are clamped.
	Max int

	// Offset is the index of the first run to return.
	Offset int
}

// StatusUpdate is the body of PUT /runs/<id>/status.
type StatusUpdate struct {
	Status RunStatus `json:"status"`
}

type dataEnvelope[T any] struct {
	Data       T           `json:"data"`
	Pagination *Pagination `json:"pagination,omitempty"`
}
