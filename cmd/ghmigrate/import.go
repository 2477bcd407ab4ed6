package main

import (
	"github.com/spf13/cobra"

	"projects-migrate/migrate"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Replay snapshots against the target organization",
	Long: `Replay snapshots against the target organization.

The three phases must run in order against the same mapping directory:
projects first (which rewrites the project mapping file), then fields,
then items. Fields and items read the mapping written by the project
phase, either from this pass or from an earlier run.`,
}

func init() {
	importCmd.AddCommand(importProjectsCmd, importFieldsCmd, importItemsCmd)
}

var importProjectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "Create target projects from snapshots and write the id mapping",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel, cfg, logger, err := setup()
		if err != nil {
			return err
		}
		defer cancel()
		if err := cfg.RequireTarget(); err != nil {
			return err
		}

		replicator := &migrate.ProjectReplicator{
			Target: targetClient(cfg, logger),
			Store:  newStore(cfg),
			Table:  newTable(cfg),
			Logger: logger,
		}
		return replicator.Run(ctx)
	},
}

var importFieldsCmd = &cobra.Command{
	Use:   "fields",
	Short: "Create missing fields on mapped target projects",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel, cfg, logger, err := setup()
		if err != nil {
			return err
		}
		defer cancel()
		if err := cfg.RequireTarget(); err != nil {
			return err
		}

		replicator := &migrate.FieldReplicator{
			Target: targetClient(cfg, logger),
			Store:  newStore(cfg),
			Table:  newTable(cfg),
			Logger: logger,
		}
		return replicator.Run(ctx)
	},
}

var importItemsCmd = &cobra.Command{
	Use:   "items",
	Short: "Attach items to mapped target projects and write field values",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel, cfg, logger, err := setup()
		if err != nil {
			return err
		}
		defer cancel()
		if err := cfg.RequireTarget(); err != nil {
			return err
		}

		replicator := &migrate.ItemReplicator{
			Target: targetClient(cfg, logger),
			Store:  newStore(cfg),
			Table:  newTable(cfg),
			Logger: logger,
		}
		return replicator.Run(ctx)
	},
}
