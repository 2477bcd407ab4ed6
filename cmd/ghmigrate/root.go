package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"projects-migrate/config"
	"projects-migrate/github"
	"projects-migrate/graphql"
	"projects-migrate/mapping"
	"projects-migrate/snapshot"
)

// Version is set at build time via ldflags: -ldflags "-X main.Version=1.0.0"
var Version = "dev"

var verbose bool

var rootCmd = &cobra.Command{
	Use:           "ghmigrate",
	Short:         "Migrate Projects V2 data between accounts",
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.AddCommand(exportCmd, importCmd, checkCmd)
}

// setup loads configuration and installs the process logger. Every phase
// runs under a signal-cancelable context.
func setup() (context.Context, context.CancelFunc, *config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, nil, err
	}
	level := slog.LevelInfo
	if verbose || cfg.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGTERM, syscall.SIGINT)
	return ctx, cancel, cfg, logger, nil
}

func newClient(org, token string, cfg *config.Config, logger *slog.Logger) *github.Client {
	return github.NewClient(org, &graphql.Client{
		Endpoint:              cfg.Endpoint,
		Auth:                  graphql.StaticToken(token),
		Logger:                logger,
		EnableLocalThrottling: cfg.Throttle,
	})
}

func sourceClient(cfg *config.Config, logger *slog.Logger) *github.Client {
	return newClient(cfg.SourceOrg, cfg.SourceToken, cfg, logger)
}

func targetClient(cfg *config.Config, logger *slog.Logger) *github.Client {
	return newClient(cfg.TargetOrg, cfg.TargetToken, cfg, logger)
}

func newStore(cfg *config.Config) *snapshot.Store {
	return snapshot.NewStore(cfg.SnapshotDir)
}

func newTable(cfg *config.Config) *mapping.Table {
	return mapping.NewTable(cfg.MappingDir)
}
