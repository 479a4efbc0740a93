package tasklist_test

import (
	"fmt"
	"testing"

	"github.com/arewm/pipegraph/pkg/models"
	"github.com/arewm/pipegraph/pkg/tasklist"
	"github.com/arewm/pipegraph/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendStatus_NilPipeline(t *testing.T) {
	builder := tasklist.NewBuilder(nil, nil)

	assert.Empty(t, builder.AppendStatus(nil, &models.PipelineRun{Name: "r"}, nil, false))
}

func TestAppendStatus_OneEntryPerTaskWhenSingleRecords(t *testing.T) {
	tasks := []models.PipelineTask{
		testutil.CreateTask("clone"),
		testutil.CreateTask("build", testutil.WithRunAfter("clone")),
		testutil.CreateTask("deploy", testutil.WithRunAfter("build")),
	}
	run := testutil.CreatePipelineRun("run-1", tasks)
	records := tasklist.Normalize([]models.TaskRun{
		testutil.CreateTaskRun("run-1-clone", "clone"),
		testutil.CreateTaskRun("run-1-build", "build"),
		testutil.CreateTaskRun("run-1-deploy", "deploy"),
	}, run)

	list := tasklist.NewBuilder(nil, nil).AppendStatus(run.Status.PipelineSpec, run, records, false)

	require.Len(t, list, 3)
	for i, entry := range list {
		assert.Equal(t, tasks[i].Name, entry.Name)
		assert.False(t, entry.IsMatrix)
		assert.Empty(t, entry.OriginalName)
	}
}

func TestAppendStatus_NoRunStatusEmitsIdlePlaceholders(t *testing.T) {
	tasks := []models.PipelineTask{testutil.CreateTask("clone"), testutil.CreateTask("build")}
	pipeline := &models.PipelineSpec{Tasks: tasks}
	run := testutil.CreatePipelineRun("run-1", tasks, testutil.WithNoRunStatus())

	list := tasklist.NewBuilder(nil, nil).AppendStatus(pipeline, run, nil, false)

	require.Len(t, list, 2)
	for _, entry := range list {
		assert.Equal(t, models.RunStatusIdle, entry.Status.Reason)
	}
}

func TestAppendStatus_NoRecordsAtAllCarriesRunStatus(t *testing.T) {
	tasks := []models.PipelineTask{testutil.CreateTask("clone")}
	run := testutil.CreatePipelineRun("run-1", tasks)

	list := tasklist.NewBuilder(nil, nil).AppendStatus(run.Status.PipelineSpec, run, nil, false)

	require.Len(t, list, 1)
	assert.Equal(t, models.RunStatusRunning, list[0].Status.Reason)
}

func TestAppendStatus_SkippedTask(t *testing.T) {
	tasks := []models.PipelineTask{testutil.CreateTask("clone"), testutil.CreateTask("optional-scan")}
	run := testutil.CreatePipelineRun("run-1", tasks, testutil.WithSkippedTask("optional-scan"))
	records := tasklist.Normalize([]models.TaskRun{testutil.CreateTaskRun("run-1-clone", "clone")}, run)

	list := tasklist.NewBuilder(nil, nil).AppendStatus(run.Status.PipelineSpec, run, records, false)

	require.Len(t, list, 2)
	assert.Equal(t, models.RunStatusSucceeded, list[0].Status.Reason)
	assert.Equal(t, models.RunStatusSkipped, list[1].Status.Reason)
}

func TestAppendStatus_TaskWithoutRecordsIsIdle(t *testing.T) {
	tasks := []models.PipelineTask{testutil.CreateTask("clone"), testutil.CreateTask("deploy")}
	run := testutil.CreatePipelineRun("run-1", tasks)
	records := tasklist.Normalize([]models.TaskRun{testutil.CreateTaskRun("run-1-clone", "clone")}, run)

	list := tasklist.NewBuilder(nil, nil).AppendStatus(run.Status.PipelineSpec, run, records, false)

	require.Len(t, list, 2)
	assert.Equal(t, models.RunStatusIdle, list[1].Status.Reason)
}

// Scenario: task with three run records carrying distinct SCAN_TYPE
// annotation values expands into three uniquely named matrix entries.
func TestAppendStatus_MatrixExpansion(t *testing.T) {
	tasks := []models.PipelineTask{
		testutil.CreateTask("security-scan",
			testutil.WithMatrixParam("SCAN_TYPE", "sast", "dast", "sca")),
	}
	run := testutil.CreatePipelineRun("run-1", tasks)
	records := tasklist.Normalize([]models.TaskRun{
		testutil.CreateTaskRun("run-1-scan-0", "security-scan",
			testutil.WithAnnotations(map[string]string{"SCAN_TYPE": "sast"}),
			testutil.WithRunParam("SCAN_TYPE", "sast")),
		testutil.CreateTaskRun("run-1-scan-1", "security-scan",
			testutil.WithAnnotations(map[string]string{"SCAN_TYPE": "dast"}),
			testutil.WithRunParam("SCAN_TYPE", "dast")),
		testutil.CreateTaskRun("run-1-scan-2", "security-scan",
			testutil.WithAnnotations(map[string]string{"SCAN_TYPE": "sca"}),
			testutil.WithRunParam("SCAN_TYPE", "sca")),
	}, run)

	list := tasklist.NewBuilder(nil, nil).AppendStatus(run.Status.PipelineSpec, run, records, false)

	require.Len(t, list, 3)

	names := make(map[string]struct{})
	for _, entry := range list {
		assert.True(t, entry.IsMatrix)
		assert.Equal(t, "security-scan", entry.OriginalName)
		assert.Contains(t, entry.Name, "security-scan-")
		assert.NotEmpty(t, entry.MatrixDisplayName)
		names[entry.Name] = struct{}{}
	}

	assert.Len(t, names, 3, "expanded names must be unique")
	assert.Equal(t, "security-scan-sast", list[0].Name)
}

// Scenario: one run record for a task keeps its name untouched and carries
// no matrix metadata.
func TestAppendStatus_SingleRecordNotExpanded(t *testing.T) {
	tasks := []models.PipelineTask{testutil.CreateTask("security-scan")}
	run := testutil.CreatePipelineRun("run-1", tasks)
	records := tasklist.Normalize([]models.TaskRun{
		testutil.CreateTaskRun("run-1-scan", "security-scan"),
	}, run)

	list := tasklist.NewBuilder(nil, nil).AppendStatus(run.Status.PipelineSpec, run, records, false)

	require.Len(t, list, 1)
	assert.Equal(t, "security-scan", list[0].Name)
	assert.False(t, list[0].IsMatrix)
}

func TestAppendStatus_TwoRecordsExpandWithoutDetectorFlag(t *testing.T) {
	// Expansion triggers on record count alone, independent of the
	// detection heuristic.
	tasks := []models.PipelineTask{testutil.CreateTask("build")}
	run := testutil.CreatePipelineRun("run-1", tasks)
	records := tasklist.Normalize([]models.TaskRun{
		testutil.CreateTaskRun("run-1-build-0", "build"),
		testutil.CreateTaskRun("run-1-build-1", "build"),
	}, run)

	list := tasklist.NewBuilder(nil, nil).AppendStatus(run.Status.PipelineSpec, run, records, false)

	require.Len(t, list, 2)
	assert.Equal(t, "build", list[0].OriginalName)
	assert.Equal(t, "build", list[1].OriginalName)
	assert.NotEqual(t, list[0].Name, list[1].Name)
}

func TestAppendStatus_MatrixInstancesExpandInPlace(t *testing.T) {
	tasks := []models.PipelineTask{
		testutil.CreateTask("clone"),
		testutil.CreateTask("build", testutil.WithMatrixParam("PLATFORM", "linux/amd64", "linux/arm64")),
		testutil.CreateTask("deploy"),
	}
	run := testutil.CreatePipelineRun("run-1", tasks)
	records := tasklist.Normalize([]models.TaskRun{
		testutil.CreateTaskRun("run-1-clone", "clone"),
		testutil.CreateTaskRun("run-1-build-0", "build", testutil.WithRunParam("PLATFORM", "linux/amd64")),
		testutil.CreateTaskRun("run-1-build-1", "build", testutil.WithRunParam("PLATFORM", "linux/arm64")),
		testutil.CreateTaskRun("run-1-deploy", "deploy"),
	}, run)

	list := tasklist.NewBuilder(nil, nil).AppendStatus(run.Status.PipelineSpec, run, records, false)

	require.Len(t, list, 4)
	assert.Equal(t, "clone", list[0].Name)
	assert.Equal(t, "build-linux-amd64", list[1].Name)
	assert.Equal(t, "build-linux-arm64", list[2].Name)
	assert.Equal(t, "deploy", list[3].Name)
}

func TestAppendStatus_FinallyTasks(t *testing.T) {
	pipeline := &models.PipelineSpec{
		Tasks:   []models.PipelineTask{testutil.CreateTask("build")},
		Finally: []models.PipelineTask{testutil.CreateTask("cleanup"), testutil.CreateTask("notify")},
	}
	run := testutil.CreatePipelineRun("run-1", pipeline.Tasks)
	records := tasklist.Normalize([]models.TaskRun{
		testutil.CreateTaskRun("run-1-cleanup", "cleanup"),
	}, run)

	list := tasklist.NewBuilder(nil, nil).AppendStatus(pipeline, run, records, true)

	require.Len(t, list, 2)
	assert.Equal(t, "cleanup", list[0].Name)
	assert.Equal(t, models.RunStatusIdle, list[1].Status.Reason)
}

func TestAppendStatus_ManyInstancesStayUnique(t *testing.T) {
	tasks := []models.PipelineTask{testutil.CreateTask("fan-out")}
	run := testutil.CreatePipelineRun("run-1", tasks)

	taskRuns := make([]models.TaskRun, 0, 20)
	for i := range 20 {
		taskRuns = append(taskRuns, testutil.CreateTaskRun(fmt.Sprintf("run-1-fan-out-%02d", i), "fan-out"))
	}

	list := tasklist.NewBuilder(nil, nil).
		AppendStatus(run.Status.PipelineSpec, run, tasklist.Normalize(taskRuns, run), false)

	require.Len(t, list, 20)

	names := make(map[string]struct{})
	for _, entry := range list {
		names[entry.Name] = struct{}{}
	}

	assert.Len(t, names, 20)
}
