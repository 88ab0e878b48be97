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

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirseerhq/player-banner/internal/apierror"
	bannererrors "github.com/sirseerhq/player-banner/internal/errors"
	"github.com/sirseerhq/player-banner/pkg/version"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes the command line and returns the process exit code.
func run(args []string, in io.Reader, out, errOut io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := log.New(errOut, version.Product+": ", 0)

	rootCmd := newRootCommand(in, out, errOut, logger)
	rootCmd.SetArgs(args)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logger.Print(err)
		if errors.Is(err, bannererrors.ErrUsage) {
			fmt.Fprintf(errOut, "Usage: %s\nTry '%s --help' for more information.\n", usageLine, version.Product)
		}
		return mapErrorToExitCode(err)
	}
	return 0
}

// mapErrorToExitCode maps internal errors to appropriate exit codes
func mapErrorToExitCode(err error) int {
	if err == nil {
		return 0
	}

	switch {
	case errors.Is(err, bannererrors.ErrUsage):
		return 1
	case errors.Is(err, bannererrors.ErrUserNotFound):
		return 2
	case errors.Is(err, bannererrors.ErrGameNotFound):
		return 3
	case errors.Is(err, bannererrors.ErrIncomplete):
		return 4
	case errors.Is(err, context.Canceled):
		return 1
	case errors.Is(err, bannererrors.ErrNetworkFailure), errors.Is(err, bannererrors.ErrRateLimit):
		return 4
	}

	var statusErr *apierror.StatusError
	if errors.As(err, &statusErr) && statusErr.IsServerError() {
		return 4
	}

	return 1 // General error
}
