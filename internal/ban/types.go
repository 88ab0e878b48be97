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

import (
	"fmt"
	"io"
	"log"

	"go.opentelemetry.io/otel/trace"

	"github.com/sirseerhq/player-banner/internal/output"
	"github.com/sirseerhq/player-banner/internal/speedrun"
	"github.com/sirseerhq/player-banner/internal/telemetry"
)

// UserID is the opaque identifier speedrun.com assigns to a user.
type UserID string

// GameID is the opaque identifier speedrun.com assigns to a game.
type GameID string

// DefaultPageSize is the number of runs requested per listing page.
const DefaultPageSize = speedrun.MaxPageSize

// DefaultRejection is the status update applied to every banned run.
var DefaultRejection = speedrun.StatusUpdate{
	Status: speedrun.RunStatus{
		Status: speedrun.StatusRejected,
		Reason: "Banned player",
	},
}

// Options configures a Banner. The zero value is usable.
type Options struct {
	// PageSize is the listing page size. Values outside 1..200 fall back to
	// DefaultPageSize.
	PageSize int

	// Rejection overrides DefaultRejection when its status is set.
	Rejection speedrun.StatusUpdate

	// DryRun lists runs to Listing instead of rejecting them. No API key is
	// requested in this mode.
	DryRun bool

	// Listing receives every enumerated run in dry-run mode.
	Listing output.OutputWriter

	// Bodies receives the response body of every failed rejection.
	Bodies output.BodyWriter

	// Logger receives failure diagnostics.
	Logger *log.Logger

	// Progress receives verbose progress messages.
	Progress *log.Logger

	// Tracer creates spans. Defaults to telemetry.Tracer().
	Tracer trace.Tracer
}

func (o Options) withDefaults() Options {
	o.PageSize = clampPageSize(o.PageSize)
	if o.Rejection.Status.Status == "" {
		o.Rejection = DefaultRejection
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard, "", 0)
	}
	if o.Progress == nil {
		o.Progress = log.New(io.Discard, "", 0)
	}
	if o.Tracer == nil {
		o.Tracer = telemetry.Tracer()
	}
	return o
}

func clampPageSize(size int) int {
	if size <= 0 || size > speedrun.MaxPageSize {
		return DefaultPageSize
	}
	return size
}

// ResolutionError reports a user or game lookup that matched nothing.
// It unwraps to ErrUserNotFound or ErrGameNotFound.
type ResolutionError struct {
	Entity string // "user" or "game"
	Key    string // "name" or "abbreviation"
	Value  string
	Err    error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("%s with %s '%s' not found", e.Entity, e.Key, e.Value)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// Outcome is the result of one rejection attempt.
type Outcome struct {
	RunID string
	Err   error
}

// OK reports whether the run was rejected.
func (o Outcome) OK() bool {
	return o.Err == nil
}
