package migrate

import (
	"context"
	"log/slog"

	"projects-migrate/github"
	"projects-migrate/mapping"
	"projects-migrate/snapshot"
)

// Checker compares live item counts against the exported snapshot set,
// either on the source account directly or on the target account through
// the project mapping file.
type Checker struct {
	Client    *github.Client
	Store     *snapshot.Store
	Table     *mapping.Table
	Translate bool
	Logger    *slog.Logger
}

func (c *Checker) Run(ctx context.Context) error {
	logger := orNop(c.Logger)

	ids, err := c.Store.ListIDs(snapshot.KindProjects)
	if err != nil {
		return err
	}

	var projectMap map[string]string
	if c.Translate {
		projectMap, err = c.Table.LoadProjects()
		if err != nil {
			return err
		}
	}

	for _, id := range ids {
		projectID := id
		if c.Translate {
			mapped, ok := projectMap[id]
			if !ok || mapped == "" {
				logger.Warn("no target mapping for project; skipping check",
					"source_project_id", id)
				continue
			}
			projectID = mapped
		}
		logger.Info("checking project", "org", c.Client.Org, "project_id", projectID)
		count, err := c.Client.ProjectItemCount(ctx, projectID)
		if err != nil {
			logger.Error("item count check failed",
				"org", c.Client.Org, "project_id", projectID, "error", err)
			continue
		}
		logger.Info("check completed",
			"org", c.Client.Org, "project_id", projectID, "item_count", count)
	}
	return nil
}
