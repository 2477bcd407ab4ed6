package migrate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"projects-migrate/mapping"
	"projects-migrate/snapshot"
)

func writeProjectMapping(t *testing.T, table *mapping.Table, pairs map[string]string) {
	t.Helper()
	writer, err := table.BeginProjects()
	require.NoError(t, err)
	for src, dst := range pairs {
		require.NoError(t, writer.RecordProject(src, dst))
	}
	require.NoError(t, writer.Close())
}

func TestFieldReplicatorReconcilesByName(t *testing.T) {
	store, table := newWorkspace(t)
	writeProjectMapping(t, table, map[string]string{"PVT_1": "PVT_t1"})

	require.NoError(t, store.Write(snapshot.KindFields, "PVT_1", [][]map[string]any{{
		{
			"id": "F_status", "name": "Status", "dataType": "SINGLE_SELECT",
			"options": []any{
				map[string]any{"id": "O_1", "name": "Todo", "color": "GREEN", "description": "not started"},
				map[string]any{"id": "O_2", "name": "Done", "color": "PURPLE", "description": ""},
			},
		},
		{"id": "F_sprint", "name": "Sprint", "dataType": "ITERATION"},
		{"id": "F_notes", "name": "Notes", "dataType": "TEXT"},
		{"id": "F_due", "name": "Due", "dataType": "DATE"},
		{"name": "broken"},
	}}))

	client, rec := fakeGitHub(t, "target-org", func(op string, vars map[string]any) any {
		switch op {
		case "ProjectFields":
			// The target already has "Notes" and a lowercase "status";
			// name matching is case-sensitive so "Status" is still created.
			return map[string]any{"node": map[string]any{"fields": connection(
				fieldNode("TF_1", "Notes", "TEXT"),
				fieldNode("TF_2", "status", "TEXT"),
			)}}
		case "CreateField", "CreateSingleSelectField":
			return map[string]any{"createProjectV2Field": map[string]any{"clientMutationId": nil}}
		}
		return nil
	})

	replicator := &FieldReplicator{Target: client, Store: store, Table: table}
	require.NoError(t, replicator.Run(context.Background()))

	singleSelect := rec.byOp("CreateSingleSelectField")
	require.Len(t, singleSelect, 1)
	assert.Equal(t, "PVT_t1", singleSelect[0].Vars["projectId"])
	assert.Equal(t, "Status", singleSelect[0].Vars["name"])
	assert.Equal(t, []any{
		map[string]any{"name": "Todo", "color": "GREEN", "description": "not started"},
		map[string]any{"name": "Done", "color": "PURPLE", "description": ""},
	}, singleSelect[0].Vars["options"])

	plain := rec.byOp("CreateField")
	require.Len(t, plain, 1, "only Due should be created; Notes exists, Sprint is an iteration field")
	assert.Equal(t, "Due", plain[0].Vars["name"])
	assert.Equal(t, "DATE", plain[0].Vars["dataType"])

	assert.Equal(t, 1, rec.count("ProjectFields"), "live fields fetched once per project")
}

func TestFieldReplicatorCreationFailureContinues(t *testing.T) {
	store, table := newWorkspace(t)
	writeProjectMapping(t, table, map[string]string{"PVT_1": "PVT_t1"})

	require.NoError(t, store.Write(snapshot.KindFields, "PVT_1", [][]map[string]any{{
		{"id": "F_a", "name": "Alpha", "dataType": "TEXT"},
		{"id": "F_b", "name": "Beta", "dataType": "TEXT"},
	}}))

	client, rec := fakeGitHub(t, "target-org", func(op string, vars map[string]any) any {
		switch op {
		case "ProjectFields":
			return map[string]any{"node": map[string]any{"fields": connection()}}
		case "CreateField":
			if vars["name"] == "Alpha" {
				return apiError("creation rejected")
			}
			return map[string]any{"createProjectV2Field": map[string]any{"clientMutationId": nil}}
		}
		return nil
	})

	replicator := &FieldReplicator{Target: client, Store: store, Table: table}
	require.NoError(t, replicator.Run(context.Background()))

	creates := rec.byOp("CreateField")
	require.Len(t, creates, 2)
	assert.Equal(t, "Beta", creates[1].Vars["name"])
}

func TestFieldReplicatorSkipsUnmappedProjects(t *testing.T) {
	store, table := newWorkspace(t)
	writeProjectMapping(t, table, map[string]string{})

	require.NoError(t, store.Write(snapshot.KindFields, "PVT_orphan", [][]map[string]any{{
		{"id": "F_a", "name": "Alpha", "dataType": "TEXT"},
	}}))

	client, rec := fakeGitHub(t, "target-org", func(op string, vars map[string]any) any {
		return nil
	})

	replicator := &FieldReplicator{Target: client, Store: store, Table: table}
	require.NoError(t, replicator.Run(context.Background()))
	assert.Empty(t, rec.calls)
}

func TestFieldReplicatorMissingMappingFileAborts(t *testing.T) {
	store, table := newWorkspace(t)
	client, _ := fakeGitHub(t, "target-org", func(op string, vars map[string]any) any {
		return nil
	})

	replicator := &FieldReplicator{Target: client, Store: store, Table: table}
	assert.Error(t, replicator.Run(context.Background()))
}
