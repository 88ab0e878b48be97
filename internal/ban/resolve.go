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

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/sirseerhq/player-banner/internal/apierror"
	"github.com/sirseerhq/player-banner/internal/credential"
	bannererrors "github.com/sirseerhq/player-banner/internal/errors"
	"github.com/sirseerhq/player-banner/internal/speedrun"
)

// Banner runs the reject workflow against a speedrun.com client.
type Banner struct {
	client    speedrun.Client
	creds     credential.Provider
	opts      Options
	inspector apierror.Inspector

	authHinted bool
}

// New creates a Banner. creds is only consulted after the user resolves,
// and never in dry-run mode.
func New(client speedrun.Client, creds credential.Provider, opts Options) *Banner {
	return &Banner{
		client:    client,
		creds:     creds,
		opts:      opts.withDefaults(),
		inspector: apierror.NewInspector(),
	}
}

// ResolveUser returns the id of the first user matching name.
func (b *Banner) ResolveUser(ctx context.Context, name string) (UserID, error) {
	ctx, span := b.opts.Tracer.Start(ctx, "ban.ResolveUser",
		trace.WithAttributes(attribute.String("speedrun.user.name", name)))
	defer span.End()

	users, err := b.client.LookupUsers(ctx, name)
	if err != nil {
		recordError(span, err)
		return "", fmt.Errorf("failed to look up user '%s': %w", name, err)
	}
	if len(users) == 0 {
		err := &ResolutionError{Entity: "user", Key: "name", Value: name, Err: bannererrors.ErrUserNotFound}
		recordError(span, err)
		return "", err
	}

	id := UserID(users[0].ID)
	span.SetAttributes(attribute.String("speedrun.user.id", string(id)))
	return id, nil
}

// ResolveGame returns the id of the first game with the given abbreviation.
func (b *Banner) ResolveGame(ctx context.Context, abbreviation string) (GameID, error) {
	ctx, span := b.opts.Tracer.Start(ctx, "ban.ResolveGame",
		trace.WithAttributes(attribute.String("speedrun.game.abbreviation", abbreviation)))
	defer span.End()

	games, err := b.client.LookupGames(ctx, abbreviation)
	if err != nil {
		recordError(span, err)
		return "", fmt.Errorf("failed to look up game '%s': %w", abbreviation, err)
	}
	if len(games) == 0 {
		err := &ResolutionError{Entity: "game", Key: "abbreviation", Value: abbreviation, Err: bannererrors.ErrGameNotFound}
		recordError(span, err)
		return "", err
	}

	id := GameID(games[0].ID)
	span.SetAttributes(attribute.String("speedrun.game.id", string(id)))
	return id, nil
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
