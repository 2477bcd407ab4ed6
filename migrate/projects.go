package migrate

import (
	"context"
	"log/slog"

	"projects-migrate/github"
	"projects-migrate/mapping"
	"projects-migrate/projects"
	"projects-migrate/snapshot"
)

type ProjectReplicator struct {
	Target *github.Client
	Store  *snapshot.Store
	Table  *mapping.Table
	Logger *slog.Logger
}

// Run recreates every snapshot project on the target account and records
// the source-to-target id mapping. The mapping file is truncated first:
// field and item imports in the same pass must see only this run's ids.
func (r *ProjectReplicator) Run(ctx context.Context) error {
	logger := orNop(r.Logger)

	ownerID, err := r.Target.OwnerID(ctx)
	if err != nil {
		return err
	}

	ids, err := r.Store.ListIDs(snapshot.KindProjects)
	if err != nil {
		return err
	}

	writer, err := r.Table.BeginProjects()
	if err != nil {
		return err
	}
	defer writer.Close()

	for _, id := range ids {
		if err := r.replicate(ctx, writer, ownerID, id); err != nil {
			logger.Error("project import failed", "project_id", id, "error", err)
			continue
		}
	}
	return nil
}

func (r *ProjectReplicator) replicate(ctx context.Context, writer *mapping.Writer, ownerID, id string) error {
	logger := orNop(r.Logger)

	var meta map[string]any
	if err := r.Store.Read(snapshot.KindProjects, id, &meta); err != nil {
		return err
	}
	project, err := projects.DecodeProject(meta)
	if err != nil {
		return err
	}

	// The creation API accepts only title+owner; everything else needs
	// the follow-up update. An update failure leaves an orphan project
	// with default attributes and no mapping line; no rollback.
	targetID, err := r.Target.CreateProject(ctx, project.Title, ownerID)
	if err != nil {
		return err
	}
	if err := r.Target.UpdateProject(ctx, targetID, project); err != nil {
		return err
	}

	if err := writer.RecordProject(project.ID, targetID); err != nil {
		return err
	}
	logger.Info("project imported",
		"source_project_id", project.ID,
		"target_project_id", targetID,
		"title", project.Title)
	return nil
}
