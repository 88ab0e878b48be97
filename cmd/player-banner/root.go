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
	"fmt"
	"io"
	"log"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/sirseerhq/player-banner/internal/ban"
	"github.com/sirseerhq/player-banner/internal/config"
	"github.com/sirseerhq/player-banner/internal/credential"
	bannererrors "github.com/sirseerhq/player-banner/internal/errors"
	"github.com/sirseerhq/player-banner/internal/output"
	"github.com/sirseerhq/player-banner/internal/speedrun"
	"github.com/sirseerhq/player-banner/internal/telemetry"
	"github.com/sirseerhq/player-banner/pkg/version"
)

const usageLine = "player-banner [flags] <username> <game-abbreviation>..."

const exitStatusHelp = `
Exit status:
 0  if OK,
 1  if incorrect program usage,
 2  if USER cannot be found,
 3  if GAME cannot be found,
 4  if speedrun.com cannot be reached or a run listing was cut short.
`

type banFlags struct {
	configPath string
	keyFile    string
	apiURL     string
	outputFile string
	dryRun     bool
	verbose    bool
	resetKey   bool
	maxRetries int
	timeout    time.Duration
}

type streams struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer
}

func newRootCommand(in io.Reader, out, errOut io.Writer, logger *log.Logger) *cobra.Command {
	var flags banFlags
	ios := streams{in: in, out: out, errOut: errOut}

	cmd := &cobra.Command{
		Use:   usageLine,
		Short: "Ban a speedrun.com user from games by rejecting all of their runs",
		Long: `Ban a USER from a list of GAMES by rejecting all of their existing runs.

The usage of this program requires that you have a speedrun.com API key. When
first using the program, you will be prompted to enter your API key. After this
the key will be saved in the file located at '~/.config/player-banner/player-bannerrc'.
Future calls to this program will read the API key from the player-bannerrc file.`,
		Example:       "  player-banner AnInternetTroll mcbe mcbece celestep8",
		Version:       version.Version,
		SilenceUsage:  true, // Don't show usage on error
		SilenceErrors: true, // We'll handle error printing ourselves
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 2 {
				return fmt.Errorf("%w: expected a username and at least one game abbreviation", bannererrors.ErrUsage)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBan(cmd.Context(), cmd.Flags(), &flags, ios, logger, args[0], args[1:])
		},
	}

	cmd.SetIn(in)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetVersionTemplate("{{.Name}} {{.Version}}\n")
	cmd.SetHelpTemplate(cmd.HelpTemplate() + exitStatusHelp)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", bannererrors.ErrUsage, err)
	})

	cmd.Flags().StringVar(&flags.configPath, "config", "", "YAML settings file (default: ~/.config/player-banner/config.yaml if present)")
	cmd.Flags().StringVar(&flags.keyFile, "key-file", "", "API key file (default: ~/.config/player-banner/player-bannerrc)")
	cmd.Flags().StringVar(&flags.apiURL, "api-url", "", "speedrun.com API base URL")
	cmd.Flags().BoolVarP(&flags.dryRun, "dry-run", "n", false, "List the runs as NDJSON instead of rejecting them")
	cmd.Flags().StringVarP(&flags.outputFile, "output", "o", "", "Write the dry-run listing to a file (default: stdout)")
	cmd.Flags().BoolVar(&flags.verbose, "verbose", false, "Print progress messages to stderr")
	cmd.Flags().BoolVar(&flags.resetKey, "reset-key", false, "Prompt for a new API key and replace the stored one")
	cmd.Flags().IntVar(&flags.maxRetries, "max-retries", 0, "Retries for network, rate limit and server errors")
	cmd.Flags().DurationVar(&flags.timeout, "timeout", 0, "Per-request timeout, 0 for none")

	return cmd
}

// loadConfig reads the configuration and applies the flags that were set.
// Flags take precedence over environment variables and the config file.
func loadConfig(fs *pflag.FlagSet, flags *banFlags) (*config.Config, error) {
	cfg, err := config.LoadConfig(flags.configPath)
	if err != nil {
		return nil, err
	}

	if fs.Changed("key-file") {
		cfg.Credentials.KeyFile = flags.keyFile
	}
	if fs.Changed("api-url") {
		cfg.API.BaseURL = flags.apiURL
	}
	if fs.Changed("max-retries") {
		cfg.Retry.MaxRetries = flags.maxRetries
	}
	if fs.Changed("timeout") {
		cfg.API.Timeout = flags.timeout
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func runBan(ctx context.Context, fs *pflag.FlagSet, flags *banFlags, ios streams, logger *log.Logger, username string, games []string) error {
	if flags.outputFile != "" && !flags.dryRun {
		return fmt.Errorf("%w: --output requires --dry-run", bannererrors.ErrUsage)
	}
	if flags.resetKey && flags.dryRun {
		return fmt.Errorf("%w: --reset-key cannot be combined with --dry-run", bannererrors.ErrUsage)
	}

	cfg, err := loadConfig(fs, flags)
	if err != nil {
		return err
	}

	shutdown, err := telemetry.Setup(ctx, version.Product, cfg.Telemetry.Endpoint)
	if err != nil {
		return fmt.Errorf("failed to set up tracing: %w", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			logger.Printf("failed to flush traces: %v", err)
		}
	}()

	progress := log.New(io.Discard, version.Product+": ", 0)
	if flags.verbose {
		progress.SetOutput(ios.errOut)
	}

	creds := &credential.Store{
		Path:  cfg.Credentials.KeyFile,
		In:    ios.in,
		Out:   ios.errOut,
		Reset: flags.resetKey,
	}

	retryConfig := cfg.RetryConfig()
	retryConfig.Logger = logger
	client := speedrun.NewRetryClient(speedrun.NewRESTClient(speedrun.Options{
		BaseURL: cfg.API.BaseURL,
		Product: cfg.API.UserAgent,
		Timeout: cfg.API.Timeout,
	}), retryConfig)

	opts := ban.Options{
		PageSize: cfg.Runs.PageSize,
		DryRun:   flags.dryRun,
		Bodies:   output.NewPrettyWriter(ios.errOut),
		Logger:   logger,
		Progress: progress,
	}
	if flags.dryRun {
		var writer output.OutputWriter
		if flags.outputFile == "" {
			writer = output.NewWriter(ios.out)
		} else {
			fileWriter, fErr := output.NewFileWriter(flags.outputFile)
			if fErr != nil {
				return fErr
			}
			writer = fileWriter
		}
		defer writer.Close()
		opts.Listing = writer
	}

	report, err := ban.New(client, creds, opts).Ban(ctx, username, games)
	if report != nil {
		runs, rejected, failed := report.Totals()
		progress.Printf("finished in %s: %d runs, %d rejected, %d failed, %d API calls",
			report.Duration().Round(time.Millisecond), runs, rejected, failed, report.APICalls())
	}
	return err
}
