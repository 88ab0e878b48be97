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
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/sirseerhq/player-banner/internal/speedrun"
	"github.com/sirseerhq/player-banner/internal/telemetry"
)

// Enumerator walks a user's runs for one game, one page at a time.
//
// It requests offsets 0, size, 2*size, ... and stops at the first empty
// page, so N runs cost ceil(N/size)+1 requests, the last being the empty
// terminator. Runs are yielded in the order the server lists them and
// duplicates across pages are passed through. An Enumerator cannot be
// restarted.
//
//	e := ban.NewEnumerator(client, user, game, 200)
//	for e.Next(ctx) {
//	    run := e.Run()
//	}
//	if err := e.Err(); err != nil {
//	    ...
//	}
type Enumerator struct {
	client speedrun.Client
	tracer trace.Tracer
	user   UserID
	game   GameID
	size   int

	offset int
	page   []speedrun.Run
	next   int
	cur    speedrun.Run
	pages  int
	done   bool
	err    error
}

// NewEnumerator creates an Enumerator. A pageSize outside 1..200 means
// DefaultPageSize.
func NewEnumerator(client speedrun.Client, user UserID, game GameID, pageSize int) *Enumerator {
	return &Enumerator{
		client: client,
		tracer: telemetry.Tracer(),
		user:   user,
		game:   game,
		size:   clampPageSize(pageSize),
	}
}

// Next advances to the next run, fetching a new page when the current one
// is exhausted. It returns false when the listing ends or a request fails.
func (e *Enumerator) Next(ctx context.Context) bool {
	for !e.done {
		if e.next < len(e.page) {
			e.cur = e.page[e.next]
			e.next++
			return true
		}
		e.fetch(ctx)
	}
	return false
}

func (e *Enumerator) fetch(ctx context.Context) {
	ctx, span := e.tracer.Start(ctx, "ban.ListRuns", trace.WithAttributes(
		attribute.String("speedrun.user.id", string(e.user)),
		attribute.String("speedrun.game.id", string(e.game)),
		attribute.Int("speedrun.page.offset", e.offset),
		attribute.Int("speedrun.page.size", e.size),
	))
	defer span.End()

	page, err := e.client.ListRuns(ctx, speedrun.ListRunsOptions{
		User:   string(e.user),
		Game:   string(e.game),
		Max:    e.size,
		Offset: e.offset,
	})
	if err != nil {
		recordError(span, err)
		e.err = err
		e.done = true
		return
	}
	e.pages++
	span.SetAttributes(attribute.Int("speedrun.page.runs", len(page.Runs)))

	if len(page.Runs) == 0 {
		e.done = true
		return
	}
	e.page = page.Runs
	e.next = 0
	e.offset += e.size
}

// Run returns the run Next advanced to.
func (e *Enumerator) Run() speedrun.Run {
	return e.cur
}

// Err returns the error that stopped the enumeration, if any.
func (e *Enumerator) Err() error {
	return e.err
}

// Pages returns the number of pages fetched successfully, including the
// empty terminating page.
func (e *Enumerator) Pages() int {
	return e.pages
}

// Offset returns the offset of the next page to fetch, which is the offset
// of the failing page after an error.
func (e *Enumerator) Offset() int {
	return e.offset
}
