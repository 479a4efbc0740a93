package tasklist_test

import (
	"testing"

	"github.com/arewm/pipegraph/pkg/models"
	"github.com/arewm/pipegraph/pkg/tasklist"
	"github.com/arewm/pipegraph/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisplay_RegularTask(t *testing.T) {
	task := testutil.CreateTask("clone")
	run := testutil.CreatePipelineRun("run-1", []models.PipelineTask{task})
	records := tasklist.Normalize([]models.TaskRun{testutil.CreateTaskRun("run-1-clone", "clone")}, run)

	display := tasklist.NewBuilder(nil, nil).Display(task, records[0], run, records)

	assert.Equal(t, "clone", display.TaskName)
	assert.Empty(t, display.AdditionalInfo)
	assert.Equal(t, "clone", display.DisplayString)
}

func TestDisplay_MatrixInstanceMatchesGraphLabel(t *testing.T) {
	task := testutil.CreateTask("build", testutil.WithMatrixParam("PLATFORM", "linux/amd64", "linux/arm64"))
	run := testutil.CreatePipelineRun("run-1", []models.PipelineTask{task})
	records := tasklist.Normalize([]models.TaskRun{
		testutil.CreateTaskRun("run-1-build-0", "build", testutil.WithRunParam("PLATFORM", "linux/amd64")),
		testutil.CreateTaskRun("run-1-build-1", "build", testutil.WithRunParam("PLATFORM", "linux/arm64")),
	}, run)

	builder := tasklist.NewBuilder(nil, nil)
	display := builder.Display(task, records[1], run, records)

	assert.Equal(t, "build", display.TaskName)
	assert.Equal(t, "linux/arm64", display.AdditionalInfo)
	assert.Equal(t, "build (linux/arm64)", display.DisplayString)

	// The list builder must agree on the same label.
	list := builder.AppendStatus(run.Status.PipelineSpec, run, records, false)
	require.Len(t, list, 2)
	assert.Equal(t, display.AdditionalInfo, list[1].MatrixDisplayName)
}

func TestNormalize_ChildReferenceFallback(t *testing.T) {
	run := testutil.CreatePipelineRun("run-1", nil,
		testutil.WithChildReference("run-1-build-x", "build", "Build X"))

	taskRun := testutil.CreateTaskRun("run-1-build-x", "")
	taskRun.Labels = nil

	records := tasklist.Normalize([]models.TaskRun{taskRun}, run)

	require.Len(t, records, 1)
	assert.Equal(t, "build", records[0].TaskName)
}

func TestNormalize_UnresolvableRecordKeepsEmptyTaskName(t *testing.T) {
	taskRun := testutil.CreateTaskRun("stray", "")
	taskRun.Labels = nil

	records := tasklist.Normalize([]models.TaskRun{taskRun}, &models.PipelineRun{Name: "run-1"})

	require.Len(t, records, 1)
	assert.Empty(t, records[0].TaskName)
}
