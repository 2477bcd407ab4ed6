package main

import (
	"github.com/spf13/cobra"

	"projects-migrate/migrate"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Compare live item counts against the exported snapshot set",
}

func init() {
	checkCmd.AddCommand(checkSourceCmd, checkTargetCmd)
}

var checkSourceCmd = &cobra.Command{
	Use:   "source",
	Short: "Count items per exported project on the source account",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel, cfg, logger, err := setup()
		if err != nil {
			return err
		}
		defer cancel()
		if err := cfg.RequireSource(); err != nil {
			return err
		}

		checker := &migrate.Checker{
			Client: sourceClient(cfg, logger),
			Store:  newStore(cfg),
			Table:  newTable(cfg),
			Logger: logger,
		}
		return checker.Run(ctx)
	},
}

var checkTargetCmd = &cobra.Command{
	Use:   "target",
	Short: "Count items per mapped project on the target account",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel, cfg, logger, err := setup()
		if err != nil {
			return err
		}
		defer cancel()
		if err := cfg.RequireTarget(); err != nil {
			return err
		}

		checker := &migrate.Checker{
			Client:    targetClient(cfg, logger),
			Store:     newStore(cfg),
			Table:     newTable(cfg),
			Translate: true,
			Logger:    logger,
		}
		return checker.Run(ctx)
	},
}
