package main

import (
	"github.com/spf13/cobra"

	"projects-migrate/migrate"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the source organization's projects to local snapshots",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel, cfg, logger, err := setup()
		if err != nil {
			return err
		}
		defer cancel()
		if err := cfg.RequireSource(); err != nil {
			return err
		}

		exporter := &migrate.Exporter{
			Source: sourceClient(cfg, logger),
			Store:  newStore(cfg),
			Logger: logger,
		}
		count, err := exporter.Run(ctx)
		if err != nil {
			return err
		}
		logger.Info("export finished", "projects", count)
		return nil
	},
}
