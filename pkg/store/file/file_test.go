package file_test

import (
	"context"
	"testing"

	"github.com/arewm/pipegraph/pkg/models"
	"github.com/arewm/pipegraph/pkg/store"
	"github.com/arewm/pipegraph/pkg/store/file"
	"github.com/arewm/pipegraph/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSnapshot(name string) *store.Snapshot {
	tasks := []models.PipelineTask{testutil.CreateTask("build")}

	return &store.Snapshot{
		PipelineRun: testutil.CreatePipelineRun(name, tasks),
		TaskRuns:    []models.TaskRun{testutil.CreateTaskRun(name+"-build", "build")},
		Revision:    "1",
	}
}

func TestFileStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := file.NewStore(t.TempDir())

	saved := testSnapshot("run-1")
	require.NoError(t, s.SaveSnapshot(ctx, saved))

	loaded, err := s.Snapshot(ctx, "default", "run-1")
	require.NoError(t, err)
	assert.Equal(t, saved.PipelineRun.Name, loaded.PipelineRun.Name)
	assert.Len(t, loaded.TaskRuns, 1)
	assert.Equal(t, "1", loaded.Revision)
}

func TestFileStore_SnapshotNotFound(t *testing.T) {
	s := file.NewStore(t.TempDir())

	_, err := s.Snapshot(context.Background(), "default", "missing")

	assert.True(t, store.IsSnapshotNotFound(err))
}

func TestFileStore_ListSnapshots(t *testing.T) {
	ctx := context.Background()
	s := file.NewStore(t.TempDir())

	require.NoError(t, s.SaveSnapshot(ctx, testSnapshot("run-b")))
	require.NoError(t, s.SaveSnapshot(ctx, testSnapshot("run-a")))

	snapshots, err := s.ListSnapshots(ctx, "default")
	require.NoError(t, err)
	require.Len(t, snapshots, 2)
	assert.Equal(t, "run-a", snapshots[0].PipelineRun.Name)
	assert.Equal(t, "run-b", snapshots[1].PipelineRun.Name)
}

func TestFileStore_ListEmptyNamespace(t *testing.T) {
	s := file.NewStore(t.TempDir())

	snapshots, err := s.ListSnapshots(context.Background(), "nowhere")
	require.NoError(t, err)
	assert.Empty(t, snapshots)
}

func TestFileStore_Delete(t *testing.T) {
	ctx := context.Background()
	s := file.NewStore(t.TempDir())

	require.NoError(t, s.SaveSnapshot(ctx, testSnapshot("run-1")))
	require.NoError(t, s.DeleteSnapshot(ctx, "default", "run-1"))

	_, err := s.Snapshot(ctx, "default", "run-1")
	assert.True(t, store.IsSnapshotNotFound(err))

	assert.True(t, store.IsSnapshotNotFound(s.DeleteSnapshot(ctx, "default", "run-1")))
}

func TestFileStore_RejectsInvalidSnapshot(t *testing.T) {
	s := file.NewStore(t.TempDir())

	err := s.SaveSnapshot(context.Background(), &store.Snapshot{})

	assert.ErrorIs(t, err, store.ErrInvalidSnapshot)
}
