package migrate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"projects-migrate/snapshot"
)

func TestExporterWritesAllSnapshotKinds(t *testing.T) {
	store := snapshot.NewStore(t.TempDir())

	client, rec := fakeGitHub(t, "source-org", func(op string, vars map[string]any) any {
		switch op {
		case "OrganizationProjects":
			return map[string]any{"organization": map[string]any{"projectsV2": connection(
				map[string]any{"id": "PVT_1", "title": "Roadmap"},
				map[string]any{"id": "PVT_2", "title": "Backlog"},
			)}}
		case "ProjectFields":
			return map[string]any{"node": map[string]any{"fields": connection(
				fieldNode("F_1", "Notes", "TEXT"),
			)}}
		case "ProjectViews":
			return map[string]any{"node": map[string]any{"views": connection(
				map[string]any{"id": "V_1", "name": "Board", "layout": "BOARD_LAYOUT"},
			)}}
		case "ProjectItems":
			return map[string]any{"node": map[string]any{"items": connection(
				map[string]any{"id": "PVTI_1"},
			)}}
		}
		return nil
	})

	exporter := &Exporter{Source: client, Store: store}
	count, err := exporter.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	for _, kind := range snapshot.Kinds() {
		ids, err := store.ListIDs(kind)
		require.NoError(t, err)
		assert.Equal(t, []string{"PVT_1", "PVT_2"}, ids, "kind %s", kind)
	}

	var meta map[string]any
	require.NoError(t, store.Read(snapshot.KindProjects, "PVT_1", &meta))
	assert.Equal(t, "Roadmap", meta["title"])

	// Connection snapshots keep their page boundaries.
	var fieldPages [][]map[string]any
	require.NoError(t, store.Read(snapshot.KindFields, "PVT_2", &fieldPages))
	require.Len(t, fieldPages, 1)
	assert.Equal(t, "Notes", fieldPages[0][0]["name"])

	// Items are fetched in the second pass, once per snapshot project.
	assert.Equal(t, 2, rec.count("ProjectItems"))
}

func TestExporterProjectFailureDoesNotAbortRun(t *testing.T) {
	store := snapshot.NewStore(t.TempDir())

	client, _ := fakeGitHub(t, "source-org", func(op string, vars map[string]any) any {
		switch op {
		case "OrganizationProjects":
			return map[string]any{"organization": map[string]any{"projectsV2": connection(
				map[string]any{"id": "PVT_bad", "title": "Broken"},
				map[string]any{"id": "PVT_ok", "title": "Healthy"},
			)}}
		case "ProjectFields":
			if vars["id"] == "PVT_bad" {
				return apiError("field fetch failed")
			}
			return map[string]any{"node": map[string]any{"fields": connection()}}
		case "ProjectViews":
			return map[string]any{"node": map[string]any{"views": connection()}}
		case "ProjectItems":
			return map[string]any{"node": map[string]any{"items": connection()}}
		}
		return nil
	})

	exporter := &Exporter{Source: client, Store: store}
	count, err := exporter.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// The failed project leaves no files at all; the second pass only sees
	// the healthy one.
	ids, err := store.ListIDs(snapshot.KindProjects)
	require.NoError(t, err)
	assert.Equal(t, []string{"PVT_ok"}, ids)

	ids, err = store.ListIDs(snapshot.KindItems)
	require.NoError(t, err)
	assert.Equal(t, []string{"PVT_ok"}, ids)
}

func TestExporterListFailureAborts(t *testing.T) {
	store := snapshot.NewStore(t.TempDir())

	client, _ := fakeGitHub(t, "source-org", func(op string, vars map[string]any) any {
		if op == "OrganizationProjects" {
			return apiError("org listing failed")
		}
		return nil
	})

	exporter := &Exporter{Source: client, Store: store}
	count, err := exporter.Run(context.Background())
	assert.Error(t, err)
	assert.Zero(t, count)
}
