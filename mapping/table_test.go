package mapping

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectMappingRoundTrip(t *testing.T) {
	table := NewTable(t.TempDir())

	writer, err := table.BeginProjects()
	require.NoError(t, err)
	require.NoError(t, writer.RecordProject("PVT_1", "PVT_new1"))
	require.NoError(t, writer.RecordProject("PVT_2", "PVT_new2"))
	require.NoError(t, writer.Close())

	mapping, err := table.LoadProjects()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"PVT_1": "PVT_new1",
		"PVT_2": "PVT_new2",
	}, mapping)
}

func TestProjectMappingLineFormat(t *testing.T) {
	table := NewTable(t.TempDir())

	writer, err := table.BeginProjects()
	require.NoError(t, err)
	require.NoError(t, writer.RecordProject("PVT_1", "PVT_new1"))
	require.NoError(t, writer.Close())

	raw, err := os.ReadFile(table.ProjectsPath())
	require.NoError(t, err)
	assert.Equal(t, "PVT_1 -> PVT_new1\n", string(raw))
}

func TestBeginProjectsTruncates(t *testing.T) {
	table := NewTable(t.TempDir())

	writer, err := table.BeginProjects()
	require.NoError(t, err)
	require.NoError(t, writer.RecordProject("PVT_old", "PVT_gone"))
	require.NoError(t, writer.Close())

	writer, err = table.BeginProjects()
	require.NoError(t, err)
	require.NoError(t, writer.RecordProject("PVT_1", "PVT_new1"))
	require.NoError(t, writer.Close())

	mapping, err := table.LoadProjects()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"PVT_1": "PVT_new1"}, mapping)
}

func TestLoadProjectsFailsOnCorruptLine(t *testing.T) {
	table := NewTable(t.TempDir())
	content := "PVT_1 -> PVT_new1\nPVT_2 PVT_new2\n"
	require.NoError(t, os.WriteFile(table.ProjectsPath(), []byte(content), 0o644))

	_, err := table.LoadProjects()
	require.Error(t, err)
	corrupt, ok := err.(*CorruptError)
	require.True(t, ok, "expected CorruptError, got %T", err)
	assert.Equal(t, 2, corrupt.Line)
}

func TestLoadProjectsMissingFileFails(t *testing.T) {
	table := NewTable(t.TempDir())
	_, err := table.LoadProjects()
	assert.Error(t, err)
}

func TestItemMappingLineFormat(t *testing.T) {
	table := NewTable(t.TempDir())

	writer, err := table.BeginItems()
	require.NoError(t, err)
	require.NoError(t, writer.RecordItem("webapp", 42, "I_src", "I_dst"))
	require.NoError(t, writer.Close())

	raw, err := os.ReadFile(table.ItemsPath())
	require.NoError(t, err)
	assert.Equal(t, "webapp,42,I_src -> I_dst\n", string(raw))
}
