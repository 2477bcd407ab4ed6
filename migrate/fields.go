package migrate

import (
	"context"
	"log/slog"

	"projects-migrate/github"
	"projects-migrate/graphql"
	"projects-migrate/mapping"
	"projects-migrate/projects"
	"projects-migrate/snapshot"
)

type FieldReplicator struct {
	Target *github.Client
	Store  *snapshot.Store
	Table  *mapping.Table
	Logger *slog.Logger
}

// Run reconciles target project fields against each field snapshot. The
// correlation key across accounts is the field name, matched exactly and
// case-sensitively; identifiers are account-local and never compared.
func (r *FieldReplicator) Run(ctx context.Context) error {
	logger := orNop(r.Logger)

	projectMap, err := r.Table.LoadProjects()
	if err != nil {
		return err
	}
	ids, err := r.Store.ListIDs(snapshot.KindFields)
	if err != nil {
		return err
	}

	for _, id := range ids {
		targetID, ok := projectMap[id]
		if !ok || targetID == "" {
			logger.Warn("no target mapping for project; run the project import first",
				"source_project_id", id)
			continue
		}
		if err := r.replicate(ctx, id, targetID); err != nil {
			logger.Error("field import failed", "source_project_id", id, "error", err)
			continue
		}
	}
	return nil
}

func (r *FieldReplicator) replicate(ctx context.Context, sourceID, targetID string) error {
	logger := orNop(r.Logger)

	var pages []graphql.Page
	if err := r.Store.Read(snapshot.KindFields, sourceID, &pages); err != nil {
		return err
	}
	nodes := graphql.FlattenPages(pages)

	// One live fetch per project, shared across every snapshot field.
	live, err := r.Target.TargetFields(ctx, targetID)
	if err != nil {
		return err
	}
	existing := make(map[string]struct{}, len(live))
	for _, field := range live {
		existing[field.Name] = struct{}{}
	}

	var succeeded, skipped, failed int
	for _, node := range nodes {
		field, err := projects.DecodeField(node)
		if err != nil {
			logger.Warn("skipping malformed field node",
				"source_project_id", sourceID, "error", err)
			skipped++
			continue
		}
		if _, ok := existing[field.Name]; ok {
			logger.Info("field already exists on target; skipped",
				"target_project_id", targetID, "field", field.Name)
			skipped++
			continue
		}

		switch {
		case field.IsIteration():
			// The creation API has no iteration support.
			logger.Info("iteration field cannot be created; skipped",
				"target_project_id", targetID, "field", field.Name)
			skipped++
		case field.IsSingleSelect():
			if err := r.Target.CreateSingleSelectField(ctx, targetID, field.Name, field.Options); err != nil {
				logger.Error("single select field creation failed",
					"target_project_id", targetID, "field", field.Name, "error", err)
				failed++
				continue
			}
			existing[field.Name] = struct{}{}
			succeeded++
		default:
			if err := r.Target.CreateField(ctx, targetID, field.Name, field.DataType); err != nil {
				logger.Error("field creation failed",
					"target_project_id", targetID, "field", field.Name,
					"data_type", field.DataType, "error", err)
				failed++
				continue
			}
			existing[field.Name] = struct{}{}
			succeeded++
		}
	}

	logger.Info("field import finished",
		"source_project_id", sourceID,
		"target_project_id", targetID,
		"succeeded", succeeded,
		"skipped", skipped,
		"failed", failed)
	return nil
}
