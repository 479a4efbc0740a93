package matrix

import (
	"testing"

	"github.com/arewm/pipegraph/pkg/models"
	"github.com/stretchr/testify/assert"
)

func matrixTask(name string, params ...models.MatrixParam) models.PipelineTask {
	return models.PipelineTask{Name: name, Matrix: &models.Matrix{Params: params}}
}

func runWithChildRef(taskRunName, displayName string) *models.PipelineRun {
	return &models.PipelineRun{
		Name: "run-1",
		Status: &models.PipelineRunStatus{
			ChildReferences: []models.ChildStatusReference{
				{Name: taskRunName, DisplayName: displayName},
			},
		},
	}
}

func TestInstanceLabel_ChildReferenceDisplayNameWins(t *testing.T) {
	task := matrixTask("build", models.MatrixParam{Name: "PLATFORM", Values: []string{"linux/amd64"}})
	rec := models.TaskRunRecord{
		Name:   "build-x",
		Params: []models.Param{{Name: "PLATFORM", Value: models.NewStringParamValue("linux/amd64")}},
	}

	label := InstanceLabel(task, rec, runWithChildRef("build-x", "Build for amd64"), 0)

	assert.Equal(t, "Build for amd64", label)
}

func TestInstanceLabel_ChildReferenceDisplayNameIsSanitized(t *testing.T) {
	rec := models.TaskRunRecord{Name: "build-x"}
	run := runWithChildRef("build-x", "<script>alert(1)</script>Build")

	assert.Equal(t, "alert(1)Build", InstanceLabel(models.PipelineTask{Name: "build"}, rec, run, 0))
}

func TestInstanceLabel_SingleParamPrefersLiveValue(t *testing.T) {
	task := matrixTask("build", models.MatrixParam{Name: "PLATFORM", Values: []string{"linux/amd64", "linux/arm64"}})
	rec := models.TaskRunRecord{
		Name:   "build-1",
		Params: []models.Param{{Name: "PLATFORM", Value: models.NewStringParamValue("linux/s390x")}},
	}

	assert.Equal(t, "linux/s390x", InstanceLabel(task, rec, &models.PipelineRun{Name: "r"}, 0))
}

func TestInstanceLabel_SingleParamFallsBackToDeclaredList(t *testing.T) {
	task := matrixTask("build", models.MatrixParam{Name: "PLATFORM", Values: []string{"linux/amd64", "linux/arm64"}})
	rec := models.TaskRunRecord{Name: "build-2"}

	assert.Equal(t, "linux/arm64", InstanceLabel(task, rec, &models.PipelineRun{Name: "r"}, 1))
}

func TestInstanceLabel_MultipleParamsJoinsLiveValues(t *testing.T) {
	task := matrixTask("test",
		models.MatrixParam{Name: "OS", Values: []string{"linux", "darwin"}},
		models.MatrixParam{Name: "ARCH", Values: []string{"amd64", "arm64"}},
	)
	rec := models.TaskRunRecord{
		Name: "test-3",
		Params: []models.Param{
			{Name: "OS", Value: models.NewStringParamValue("darwin")},
			{Name: "ARCH", Value: models.NewStringParamValue("arm64")},
		},
	}

	assert.Equal(t, "darwin, arm64", InstanceLabel(task, rec, &models.PipelineRun{Name: "r"}, 3))
}

func TestInstanceLabel_MultipleParamsPositionalFallback(t *testing.T) {
	task := matrixTask("test",
		models.MatrixParam{Name: "OS", Values: []string{"linux", "darwin"}},
		models.MatrixParam{Name: "ARCH", Values: []string{"amd64", "arm64"}},
	)
	rec := models.TaskRunRecord{Name: "test-3"}

	// Position 3 with the first parameter fastest-varying: OS=darwin, ARCH=arm64.
	assert.Equal(t, "darwin, arm64", InstanceLabel(task, rec, &models.PipelineRun{Name: "r"}, 3))
}

func TestInstanceLabel_PositionalFallbackSuppressedWhenTooLong(t *testing.T) {
	task := matrixTask("test",
		models.MatrixParam{Name: "A", Values: []string{"1"}},
		models.MatrixParam{Name: "B", Values: []string{"2"}},
		models.MatrixParam{Name: "C", Values: []string{"3"}},
		models.MatrixParam{Name: "D", Values: []string{"4"}},
	)
	rec := models.TaskRunRecord{Name: "test-0"}

	assert.Equal(t, "Instance 1", InstanceLabel(task, rec, &models.PipelineRun{Name: "r"}, 0))
}

func TestInstanceLabel_PositionalDefault(t *testing.T) {
	rec := models.TaskRunRecord{Name: "plain-0"}

	assert.Equal(t, "Instance 3", InstanceLabel(models.PipelineTask{Name: "plain"}, rec, &models.PipelineRun{Name: "r"}, 2))
}

func TestInstanceLabel_NeverEmpty(t *testing.T) {
	task := matrixTask("build", models.MatrixParam{Name: "PLATFORM"})
	rec := models.TaskRunRecord{Name: "build-9"}

	assert.NotEmpty(t, InstanceLabel(task, rec, nil, 9))
}
