package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"issues-import/internal/config"
	"issues-import/internal/github"
	"issues-import/internal/issues"
	"issues-import/internal/jira"
	"issues-import/internal/loader"
	"issues-import/internal/logging"
	"issues-import/internal/notion"
	"issues-import/internal/space"
	"issues-import/internal/youtrack"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	debug  bool
	noFile bool
	args   config.Args

	// credentials is replaced in tests.
	credentials config.CredentialStore = config.Keyring{}
)

// errLoadFailed marks a run that stopped because the source could not be
// read.
var errLoadFailed = errors.New("failed to load issues from external system")

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "issues-import",
		Short: "Import issues from Jira, YouTrack, Notion or GitHub into Space",
		Long: `Loads every issue matching the source query, rewrites assignees, statuses and
tags through the configured mappings and imports them into a Space project in
batches. Created and updated issues can be added to a board and tagged.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := logging.Init(logging.Options{Debug: debug, NoFile: noFile}); err != nil {
				return err
			}
			config.LoadEnv()
			if err := applyEnv(cmd.Flags()); err != nil {
				return err
			}
			if debug {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
				log.Info().Msg("Running in debug mode")
			}
			log.Debug().
				Str("version", Version).
				Str("commit", Commit).
				Str("buildDate", BuildDate).
				Msg("issues-import starting")
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runImport(cmd.Context())
		},
	}

	cmd.PersistentFlags().BoolVarP(&debug, "debug", "v", false, "Run in debug mode, logging every HTTP request")
	cmd.PersistentFlags().BoolVar(&noFile, "noLogFile", false, "Log to the console only")
	registerFlags(cmd, &args)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &config.UsageError{Msg: err.Error(), Err: err}
	})

	cmd.AddCommand(newCredentialsCmd(), newVersionCmd())
	return cmd
}

// Execute runs the command line with ctx as the root context.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// ExitCode maps an Execute error to the process exit status.
func ExitCode(err error) int {
	var usage *config.UsageError
	if errors.As(err, &usage) {
		return 2
	}
	return 1
}

func runImport(ctx context.Context) error {
	args.Debug = debug
	args.FillCredentials(credentials)

	importArgs, err := config.Resolve(args)
	if err != nil {
		return err
	}

	l, err := newLoader(importArgs)
	if err != nil {
		return err
	}
	return importIssues(ctx, l, space.NewClient(importArgs.Space), importArgs)
}

func importIssues(ctx context.Context, l loader.Loader, client space.Client, importArgs *config.ImportArgs) error {
	log.Info().Str("source", l.Name()).Msg("Loading issues")
	res := l.Load(ctx, importArgs.Params)
	if !res.OK() {
		log.Error().Str("reason", res.Err.Message).Msg("Failed to load issues from external system")
		return fmt.Errorf("%w: %w", errLoadFailed, res.Err)
	}
	log.Info().Int("count", len(res.Issues)).Msg("Loaded issues")

	issues.ResolveAll(res.Issues, importArgs.Mappings)

	req := importArgs.Upload
	req.Issues = res.Issues
	results, err := space.NewUploader(client, log.Logger).Upload(ctx, req)

	var secondary *space.SecondaryError
	switch {
	case errors.As(err, &secondary):
		log.Warn().Msg("Issues were imported but some board or tag updates failed")
	case errors.Is(err, space.ErrEmailTagMapping):
		return &config.UsageError{Msg: err.Error(), Err: err}
	case err != nil:
		log.Error().Err(err).Msg("Failed to upload issues")
		return err
	}

	totals := space.Summary(results)
	log.Info().
		Int("created", totals.Created).
		Int("updated", totals.Updated).
		Int("skipped", totals.Skipped).
		Bool("dryRun", req.DryRun).
		Msg("Finished")
	return nil
}

func newLoader(a *config.ImportArgs) (loader.Loader, error) {
	switch a.Source {
	case loader.Jira:
		return jira.NewLoader(a.Jira, nil, log.Logger), nil
	case loader.Notion:
		return notion.NewLoader(a.Notion, nil, log.Logger), nil
	case loader.GitHub:
		l, err := github.NewLoader(a.GitHub, log.Logger)
		if err != nil {
			return nil, &config.UsageError{Msg: err.Error(), Err: err}
		}
		return l, nil
	default:
		return youtrack.NewLoader(a.YouTrack, nil, log.Logger), nil
	}
}
