package migrate

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"projects-migrate/snapshot"
)

func emptyItemsConnection() map[string]any {
	return map[string]any{"node": map[string]any{"items": connection()}}
}

func TestItemReplicatorLinkedItemWithFieldValues(t *testing.T) {
	store, table := newWorkspace(t)
	writeProjectMapping(t, table, map[string]string{"PVT_1": "PVT_t1"})

	require.NoError(t, store.Write(snapshot.KindItems, "PVT_1", [][]map[string]any{{
		{
			"id": "PVTI_src",
			"content": map[string]any{
				"id":         "I_src",
				"number":     float64(42),
				"title":      "Fix login",
				"repository": map[string]any{"id": "R_1", "name": "webapp"},
			},
			"fieldValues": map[string]any{"nodes": []any{
				map[string]any{
					"__typename": "ProjectV2ItemFieldTextValue",
					"text":       "hello",
					"field":      map[string]any{"name": "Notes"},
				},
				map[string]any{
					"__typename": "ProjectV2ItemFieldSingleSelectValue",
					"name":       "Done",
					"field":      map[string]any{"name": "Status"},
				},
				map[string]any{
					"__typename": "ProjectV2ItemFieldTextValue",
					"text":       "Fix login",
					"field":      map[string]any{"name": "Title"},
				},
				map[string]any{
					"__typename": "ProjectV2ItemFieldLabelValue",
					"field":      map[string]any{"name": "Labels"},
				},
				map[string]any{
					"__typename": "ProjectV2ItemFieldTextValue",
					"text":       "orphan",
					"field":      map[string]any{"name": "Ghost"},
				},
			}},
		},
	}}))

	client, rec := fakeGitHub(t, "target-org", func(op string, vars map[string]any) any {
		switch op {
		case "ProjectFields":
			return map[string]any{"node": map[string]any{"fields": connection(
				fieldNode("TF_notes", "Notes", "TEXT"),
				map[string]any{
					"id": "TF_status", "name": "Status", "dataType": "SINGLE_SELECT",
					"options": []any{
						map[string]any{"id": "TO_done", "name": "Done", "color": "PURPLE", "description": ""},
					},
				},
			)}}
		case "ProjectItems":
			return emptyItemsConnection()
		case "IssueOrPullRequest":
			return map[string]any{"repository": map[string]any{
				"issueOrPullRequest": map[string]any{"id": "I_dst"},
			}}
		case "AddItem":
			return map[string]any{"addProjectV2ItemById": map[string]any{
				"item": map[string]any{"id": "PVTI_dst"},
			}}
		case "UpdateItemFieldValue":
			return map[string]any{"updateProjectV2ItemFieldValue": map[string]any{
				"projectV2Item": map[string]any{"id": "PVTI_dst"},
			}}
		}
		return nil
	})

	replicator := &ItemReplicator{Target: client, Store: store, Table: table}
	require.NoError(t, replicator.Run(context.Background()))

	resolve := rec.byOp("IssueOrPullRequest")
	require.Len(t, resolve, 1)
	assert.Equal(t, "target-org", resolve[0].Vars["owner"])
	assert.Equal(t, "webapp", resolve[0].Vars["repository"])
	assert.Equal(t, float64(42), resolve[0].Vars["number"])

	attach := rec.byOp("AddItem")
	require.Len(t, attach, 1)
	assert.Equal(t, "PVT_t1", attach[0].Vars["projectId"])
	assert.Equal(t, "I_dst", attach[0].Vars["contentId"])

	// Title, the unsupported label value, and the unmatched Ghost field are
	// all skipped: only Notes and Status are written.
	writes := rec.byOp("UpdateItemFieldValue")
	require.Len(t, writes, 2)
	assert.Equal(t, "TF_notes", writes[0].Vars["fieldId"])
	assert.Equal(t, map[string]any{"text": "hello"}, writes[0].Vars["value"])
	assert.Equal(t, "TF_status", writes[1].Vars["fieldId"])
	assert.Equal(t, map[string]any{"singleSelectOptionId": "TO_done"}, writes[1].Vars["value"])

	raw, err := os.ReadFile(table.ItemsPath())
	require.NoError(t, err)
	assert.Equal(t, "webapp,42,I_src -> I_dst\n", string(raw))
}

func TestItemReplicatorDraftRouting(t *testing.T) {
	store, table := newWorkspace(t)
	writeProjectMapping(t, table, map[string]string{"PVT_1": "PVT_t1"})

	require.NoError(t, store.Write(snapshot.KindItems, "PVT_1", [][]map[string]any{{
		{
			"id": "PVTI_a",
			"content": map[string]any{
				"id": "DI_existing", "title": "Write docs", "body": "outline first",
			},
		},
		{
			"id": "PVTI_b",
			"content": map[string]any{
				"id": "DI_new", "title": "Plan launch", "body": "draft agenda",
			},
		},
	}}))

	client, rec := fakeGitHub(t, "target-org", func(op string, vars map[string]any) any {
		switch op {
		case "ProjectFields":
			return map[string]any{"node": map[string]any{"fields": connection()}}
		case "ProjectItems":
			return map[string]any{"node": map[string]any{"items": connection(
				map[string]any{
					"id": "PVTI_t", "content": map[string]any{
						"id": "DI_t", "title": "Write docs",
					},
				},
			)}}
		case "AddDraftIssue":
			return map[string]any{"addProjectV2DraftIssue": map[string]any{
				"projectItem": map[string]any{"id": "PVTI_draft"},
			}}
		}
		return nil
	})

	replicator := &ItemReplicator{Target: client, Store: store, Table: table}
	require.NoError(t, replicator.Run(context.Background()))

	// "Write docs" already exists on the target with the exact same title;
	// only "Plan launch" is created.
	drafts := rec.byOp("AddDraftIssue")
	require.Len(t, drafts, 1)
	assert.Equal(t, "Plan launch", drafts[0].Vars["title"])
	assert.Equal(t, "draft agenda", drafts[0].Vars["body"])

	assert.Zero(t, rec.count("AddItem"), "drafts never go through content resolution")
	assert.Zero(t, rec.count("IssueOrPullRequest"))
}

func TestItemReplicatorDraftDeduplicationWithinRun(t *testing.T) {
	store, table := newWorkspace(t)
	writeProjectMapping(t, table, map[string]string{"PVT_1": "PVT_t1"})

	require.NoError(t, store.Write(snapshot.KindItems, "PVT_1", [][]map[string]any{{
		{"id": "PVTI_a", "content": map[string]any{"id": "DI_a", "title": "Plan launch"}},
		{"id": "PVTI_b", "content": map[string]any{"id": "DI_b", "title": "Plan launch"}},
	}}))

	client, rec := fakeGitHub(t, "target-org", func(op string, vars map[string]any) any {
		switch op {
		case "ProjectFields":
			return map[string]any{"node": map[string]any{"fields": connection()}}
		case "ProjectItems":
			return emptyItemsConnection()
		case "AddDraftIssue":
			return map[string]any{"addProjectV2DraftIssue": map[string]any{
				"projectItem": map[string]any{"id": "PVTI_draft"},
			}}
		}
		return nil
	})

	replicator := &ItemReplicator{Target: client, Store: store, Table: table}
	require.NoError(t, replicator.Run(context.Background()))
	assert.Equal(t, 1, rec.count("AddDraftIssue"))
}

func TestItemReplicatorResolutionFailureContinues(t *testing.T) {
	store, table := newWorkspace(t)
	writeProjectMapping(t, table, map[string]string{"PVT_1": "PVT_t1"})

	require.NoError(t, store.Write(snapshot.KindItems, "PVT_1", [][]map[string]any{{
		{
			"id": "PVTI_a",
			"content": map[string]any{
				"id": "I_gone", "number": float64(7),
				"repository": map[string]any{"name": "deleted-repo"},
			},
		},
		{
			"id": "PVTI_b",
			"content": map[string]any{
				"id": "I_ok", "number": float64(8),
				"repository": map[string]any{"name": "webapp"},
			},
		},
	}}))

	client, rec := fakeGitHub(t, "target-org", func(op string, vars map[string]any) any {
		switch op {
		case "ProjectFields":
			return map[string]any{"node": map[string]any{"fields": connection()}}
		case "ProjectItems":
			return emptyItemsConnection()
		case "IssueOrPullRequest":
			if vars["repository"] == "deleted-repo" {
				return apiError("could not resolve")
			}
			return map[string]any{"repository": map[string]any{
				"issueOrPullRequest": map[string]any{"id": "I_dst8"},
			}}
		case "AddItem":
			return map[string]any{"addProjectV2ItemById": map[string]any{
				"item": map[string]any{"id": "PVTI_dst"},
			}}
		}
		return nil
	})

	replicator := &ItemReplicator{Target: client, Store: store, Table: table}
	require.NoError(t, replicator.Run(context.Background()))

	attach := rec.byOp("AddItem")
	require.Len(t, attach, 1)
	assert.Equal(t, "I_dst8", attach[0].Vars["contentId"])

	raw, err := os.ReadFile(table.ItemsPath())
	require.NoError(t, err)
	assert.Equal(t, "webapp,8,I_ok -> I_dst8\n", string(raw))
}

func TestItemReplicatorSkipsContentlessItems(t *testing.T) {
	store, table := newWorkspace(t)
	writeProjectMapping(t, table, map[string]string{"PVT_1": "PVT_t1"})

	require.NoError(t, store.Write(snapshot.KindItems, "PVT_1", [][]map[string]any{{
		{"id": "PVTI_a"},
		{"id": "PVTI_b", "content": map[string]any{}},
	}}))

	client, rec := fakeGitHub(t, "target-org", func(op string, vars map[string]any) any {
		switch op {
		case "ProjectFields":
			return map[string]any{"node": map[string]any{"fields": connection()}}
		case "ProjectItems":
			return emptyItemsConnection()
		}
		return nil
	})

	replicator := &ItemReplicator{Target: client, Store: store, Table: table}
	require.NoError(t, replicator.Run(context.Background()))

	assert.Zero(t, rec.count("AddItem"))
	assert.Zero(t, rec.count("AddDraftIssue"))
}
