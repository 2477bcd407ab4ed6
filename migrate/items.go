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

// The Title field is maintained by the platform and cannot be written.
const reservedTitleField = "Title"

type ItemReplicator struct {
	Target *github.Client
	Store  *snapshot.Store
	Table  *mapping.Table
	Logger *slog.Logger
}

// Run replays snapshot items against the target. Draft issues are
// re-created by title+body; linked issues and pull requests are resolved
// on the target by (repository name, number) and attached, then their
// field values are written one by one. Failures are isolated per item and
// per field value.
func (r *ItemReplicator) Run(ctx context.Context) error {
	logger := orNop(r.Logger)

	projectMap, err := r.Table.LoadProjects()
	if err != nil {
		return err
	}
	ids, err := r.Store.ListIDs(snapshot.KindItems)
	if err != nil {
		return err
	}

	writer, err := r.Table.BeginItems()
	if err != nil {
		return err
	}
	defer writer.Close()

	for _, id := range ids {
		targetID, ok := projectMap[id]
		if !ok || targetID == "" {
			logger.Warn("no target mapping for project; run the project import first",
				"source_project_id", id)
			continue
		}
		if err := r.replicate(ctx, writer, id, targetID); err != nil {
			logger.Error("item import failed", "source_project_id", id, "error", err)
			continue
		}
	}
	return nil
}

func (r *ItemReplicator) replicate(ctx context.Context, writer *mapping.Writer, sourceID, targetID string) error {
	logger := orNop(r.Logger)

	var pages []graphql.Page
	if err := r.Store.Read(snapshot.KindItems, sourceID, &pages); err != nil {
		return err
	}
	nodes := graphql.FlattenPages(pages)

	// One fetch each of the live field list and the existing draft titles,
	// shared by every item in this project.
	targetFields, err := r.Target.TargetFields(ctx, targetID)
	if err != nil {
		return err
	}
	fieldsByName := make(map[string]projects.Field, len(targetFields))
	for _, field := range targetFields {
		fieldsByName[field.Name] = field
	}
	draftTitles, err := r.targetDraftTitles(ctx, targetID)
	if err != nil {
		return err
	}

	var processed, failed int
	for _, node := range nodes {
		item, err := projects.DecodeItem(node)
		if err != nil {
			logger.Warn("skipping malformed item node",
				"source_project_id", sourceID, "error", err)
			failed++
			continue
		}
		if item.Content == nil {
			processed++
			continue
		}

		if item.Content.IsDraft() {
			if r.replicateDraft(ctx, targetID, item, draftTitles) {
				processed++
			} else {
				failed++
			}
			continue
		}

		if r.replicateLinked(ctx, writer, targetID, item, fieldsByName) {
			processed++
		} else {
			failed++
		}
	}

	logger.Info("item import finished",
		"source_project_id", sourceID,
		"target_project_id", targetID,
		"processed", processed,
		"failed", failed)
	return nil
}

func (r *ItemReplicator) replicateDraft(ctx context.Context, targetID string, item projects.Item, draftTitles map[string]struct{}) bool {
	logger := orNop(r.Logger)
	title := item.Content.Title
	if title == "" {
		logger.Warn("draft issue without title; skipping",
			"target_project_id", targetID, "item_id", item.ID)
		return false
	}
	if _, ok := draftTitles[title]; ok {
		logger.Info("draft issue already present; skipped",
			"target_project_id", targetID, "title", title)
		return true
	}
	if _, err := r.Target.AddDraftIssue(ctx, targetID, title, item.Content.Body); err != nil {
		logger.Error("draft issue creation failed",
			"target_project_id", targetID, "title", title, "error", err)
		return false
	}
	draftTitles[title] = struct{}{}
	logger.Info("draft issue created", "target_project_id", targetID, "title", title)
	return true
}

func (r *ItemReplicator) replicateLinked(ctx context.Context, writer *mapping.Writer, targetID string, item projects.Item, fieldsByName map[string]projects.Field) bool {
	logger := orNop(r.Logger)
	content := item.Content

	if content.Repository == "" || content.Number == 0 {
		logger.Warn("item content without repository/number; skipping",
			"target_project_id", targetID, "item_id", item.ID,
			"content_id", content.ID)
		return false
	}

	targetContentID, err := r.Target.IssueOrPullRequestID(ctx, content.Repository, content.Number)
	if err != nil {
		logger.Error("content resolution failed",
			"target_project_id", targetID,
			"repository", content.Repository,
			"number", content.Number,
			"error", err)
		return false
	}

	targetItemID, err := r.Target.AddItem(ctx, targetID, targetContentID)
	if err != nil {
		logger.Error("item attach failed",
			"target_project_id", targetID,
			"repository", content.Repository,
			"number", content.Number,
			"error", err)
		return false
	}

	if err := writer.RecordItem(content.Repository, content.Number, content.ID, targetContentID); err != nil {
		logger.Error("item mapping record failed",
			"content_id", content.ID, "error", err)
	}

	r.applyFieldValues(ctx, targetID, targetItemID, item, fieldsByName)
	return true
}

// applyFieldValues writes each snapshot value against the target item.
// Every resolution miss or API failure is logged and skipped; no value
// aborts its siblings.
func (r *ItemReplicator) applyFieldValues(ctx context.Context, targetID, targetItemID string, item projects.Item, fieldsByName map[string]projects.Field) {
	logger := orNop(r.Logger)

	for _, value := range item.FieldValues {
		if value.Field == "" {
			logger.Warn("field value without field name; skipping",
				"target_project_id", targetID, "item_id", targetItemID,
				"kind", string(value.Kind))
			continue
		}
		if value.Field == reservedTitleField {
			continue
		}
		field, ok := fieldsByName[value.Field]
		if !ok {
			logger.Warn("no matching target field; skipping value",
				"target_project_id", targetID, "item_id", targetItemID,
				"field", value.Field)
			continue
		}

		var err error
		switch value.Kind {
		case projects.ValueText:
			err = r.Target.SetTextValue(ctx, targetID, targetItemID, field.ID, value.Text)
		case projects.ValueNumber:
			err = r.Target.SetNumberValue(ctx, targetID, targetItemID, field.ID, value.Number)
		case projects.ValueDate:
			err = r.Target.SetDateValue(ctx, targetID, targetItemID, field.ID, value.Date)
		case projects.ValueSingleSelect:
			optionID, ok := field.OptionID(value.Option)
			if !ok {
				logger.Warn("no matching option on target field; skipping value",
					"target_project_id", targetID, "field", field.Name,
					"option", value.Option)
				continue
			}
			err = r.Target.SetSingleSelectValue(ctx, targetID, targetItemID, field.ID, optionID)
		case projects.ValueIteration:
			iterationID, ok := field.IterationID(value.Iteration)
			if !ok {
				logger.Warn("no matching iteration on target field; skipping value",
					"target_project_id", targetID, "field", field.Name,
					"iteration", value.Iteration)
				continue
			}
			err = r.Target.SetIterationValue(ctx, targetID, targetItemID, field.ID, iterationID)
		default:
			logger.Warn("unsupported field value type; skipping",
				"target_project_id", targetID, "field", value.Field,
				"kind", string(value.Kind))
			continue
		}

		if err != nil {
			logger.Error("field value write failed",
				"target_project_id", targetID, "item_id", targetItemID,
				"field", field.Name, "kind", string(value.Kind), "error", err)
		}
	}
}

// targetDraftTitles collects the titles of draft issues already on the
// target project, for the idempotency check on re-runs.
func (r *ItemReplicator) targetDraftTitles(ctx context.Context, targetID string) (map[string]struct{}, error) {
	pages, err := r.Target.ProjectItems(ctx, targetID)
	if err != nil {
		return nil, err
	}
	titles := map[string]struct{}{}
	for _, node := range graphql.FlattenPages(pages) {
		item, err := projects.DecodeItem(node)
		if err != nil || item.Content == nil {
			continue
		}
		if item.Content.IsDraft() && item.Content.Title != "" {
			titles[item.Content.Title] = struct{}{}
		}
	}
	return titles, nil
}
