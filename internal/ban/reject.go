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
	"errors"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/sirseerhq/player-banner/internal/apierror"
	"github.com/sirseerhq/player-banner/internal/speedrun"
)

// RejectRun sets the status of run to the configured rejection. The run is
// addressed by the last path segment of its weblink.
//
// A failure is reported on the Logger, with the response body written to
// Bodies when speedrun.com answered. Rejecting an already rejected run is an
// ordinary rejection.
func (b *Banner) RejectRun(ctx context.Context, apiKey string, run speedrun.Run) Outcome {
	id := run.WeblinkID()
	ctx, span := b.opts.Tracer.Start(ctx, "ban.RejectRun", trace.WithAttributes(
		attribute.String("speedrun.run.id", id),
		attribute.String("speedrun.run.previous_status", run.Status.Status),
	))
	defer span.End()

	err := b.client.SetRunStatus(ctx, apiKey, id, b.opts.Rejection)
	if err == nil {
		b.opts.Progress.Printf("rejected run %s", id)
		return Outcome{RunID: id}
	}
	recordError(span, err)

	if ctx.Err() != nil {
		return Outcome{RunID: id, Err: err}
	}

	var statusErr *apierror.StatusError
	if errors.As(err, &statusErr) {
		span.SetAttributes(attribute.Int("http.response.status_code", statusErr.StatusCode))
		b.opts.Logger.Printf("failed to reject run %s: %d %s", id, statusErr.StatusCode, http.StatusText(statusErr.StatusCode))
		if b.opts.Bodies != nil {
			if werr := b.opts.Bodies.WriteBody(statusErr.Body); werr != nil {
				b.opts.Logger.Printf("failed to print response body: %v", werr)
			}
		}
	} else {
		b.opts.Logger.Printf("failed to reject run %s: %v", id, err)
	}

	if !b.authHinted && b.inspector.IsAuthError(err) {
		b.authHinted = true
		b.opts.Logger.Printf("speedrun.com refused the API key or its permissions; use --reset-key to enter a different key")
	}
	return Outcome{RunID: id, Err: err}
}
