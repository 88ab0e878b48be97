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
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	bannererrors "github.com/sirseerhq/player-banner/internal/errors"
)

// Ban resolves username, obtains the API key and then rejects the user's
// runs in every game, in the order given.
//
// The returned Report covers whatever was processed, even on error. Errors
// end the invocation at these points:
//   - the user does not resolve (wraps ErrUserNotFound) or cannot be looked up
//   - the API key cannot be obtained
//   - a game does not resolve (wraps ErrGameNotFound); later games are skipped
//   - ctx is canceled
//
// A run listing that fails part-way is reported and the next game is
// processed; Ban then returns an error wrapping ErrIncomplete.
func (b *Banner) Ban(ctx context.Context, username string, games []string) (*Report, error) {
	report := &Report{
		Username:  username,
		DryRun:    b.opts.DryRun,
		StartedAt: time.Now(),
	}
	defer func() { report.CompletedAt = time.Now() }()

	ctx, span := b.opts.Tracer.Start(ctx, "ban.Ban", trace.WithAttributes(
		attribute.String("speedrun.user.name", username),
		attribute.StringSlice("speedrun.game.abbreviations", games),
		attribute.Bool("player_banner.dry_run", b.opts.DryRun),
	))
	defer span.End()

	user, err := b.ResolveUser(ctx, username)
	if err != nil {
		recordError(span, err)
		return report, err
	}
	report.UserID = user
	b.opts.Progress.Printf("user '%s' is %s", username, user)

	var apiKey string
	if !b.opts.DryRun {
		apiKey, err = b.creds.APIKey(ctx)
		if err != nil {
			recordError(span, err)
			return report, fmt.Errorf("failed to obtain API key: %w", err)
		}
	}

	incomplete := 0
	for _, abbreviation := range games {
		game, err := b.ResolveGame(ctx, abbreviation)
		if err != nil {
			recordError(span, err)
			return report, err
		}
		b.opts.Progress.Printf("game '%s' is %s", abbreviation, game)

		result := b.banGame(ctx, apiKey, user, abbreviation, game)
		report.Games = append(report.Games, result)

		if err := ctx.Err(); err != nil {
			recordError(span, err)
			return report, err
		}
		if !result.Complete {
			incomplete++
		}
	}

	if incomplete > 0 {
		err := fmt.Errorf("%w: %d of %d games", bannererrors.ErrIncomplete, incomplete, len(games))
		recordError(span, err)
		return report, err
	}
	return report, nil
}

func (b *Banner) banGame(ctx context.Context, apiKey string, user UserID, abbreviation string, game GameID) GameResult {
	result := GameResult{Abbreviation: abbreviation, GameID: game}

	e := NewEnumerator(b.client, user, game, b.opts.PageSize)
	e.tracer = b.opts.Tracer

	for e.Next(ctx) {
		run := e.Run()
		result.Runs++

		if b.opts.DryRun {
			if b.opts.Listing != nil {
				if err := b.opts.Listing.Write(run); err != nil {
					b.opts.Logger.Printf("failed to list run %s: %v", run.WeblinkID(), err)
				}
			}
			continue
		}

		if b.RejectRun(ctx, apiKey, run).OK() {
			result.Rejected++
		} else {
			result.Failed++
		}
		if ctx.Err() != nil {
			break
		}
	}
	result.Pages = e.Pages()

	if err := e.Err(); err != nil {
		if ctx.Err() == nil {
			b.opts.Logger.Printf("run listing for game '%s' stopped at offset %d: %v", abbreviation, e.Offset(), err)
		}
		return result
	}
	result.Complete = ctx.Err() == nil

	b.opts.Progress.Printf("%s: %d runs, %d rejected, %d failed (%d pages)",
		abbreviation, result.Runs, result.Rejected, result.Failed, result.Pages)
	return result
}
