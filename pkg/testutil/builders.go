// Package testutil provides test data builders for pipeline-run graph tests.
package testutil

import (
	"time"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/arewm/pipegraph/pkg/models"
)

// CreateTask creates a test PipelineTask with default values that can be
// overridden.
func CreateTask(name string, overrides ...func(*models.PipelineTask)) models.PipelineTask {
	task := models.PipelineTask{Name: name}

	for _, override := range overrides {
		override(&task)
	}

	return task
}

// WithRunAfter sets the task's declared upstream dependencies.
func WithRunAfter(names ...string) func(*models.PipelineTask) {
	return func(t *models.PipelineTask) {
		t.RunAfter = names
	}
}

// WithMatrixParam adds one declared matrix parameter axis.
func WithMatrixParam(name string, values ...string) func(*models.PipelineTask) {
	return func(t *models.PipelineTask) {
		if t.Matrix == nil {
			t.Matrix = &models.Matrix{}
		}

		t.Matrix.Params = append(t.Matrix.Params, models.MatrixParam{Name: name, Values: values})
	}
}

// WithTaskParam adds a task parameter with a scalar value.
func WithTaskParam(name, value string) func(*models.PipelineTask) {
	return func(t *models.PipelineTask) {
		t.Params = append(t.Params, models.Param{Name: name, Value: models.NewStringParamValue(value)})
	}
}

// WithWhen adds a conditional-execution expression.
func WithWhen(input, operator string, values ...string) func(*models.PipelineTask) {
	return func(t *models.PipelineTask) {
		t.When = append(t.When, models.WhenExpression{Input: input, Operator: operator, Values: values})
	}
}

// WithSteps declares the task's step list.
func WithSteps(names ...string) func(*models.PipelineTask) {
	return func(t *models.PipelineTask) {
		t.TaskSpec = &models.TaskSpec{}
		for _, name := range names {
			t.TaskSpec.Steps = append(t.TaskSpec.Steps, models.Step{Name: name})
		}
	}
}

// CreateTaskRun creates a test TaskRun labeled for the given logical task,
// with a reported Succeeded condition by default.
func CreateTaskRun(name, taskName string, overrides ...func(*models.TaskRun)) models.TaskRun {
	run := models.TaskRun{
		Name:   name,
		Labels: map[string]string{models.PipelineTaskLabel: taskName},
		Status: &models.TaskRunStatus{
			Conditions: []models.Condition{{
				Type:   models.ConditionTypeSucceeded,
				Status: metav1.ConditionTrue,
				Reason: "Succeeded",
			}},
		},
	}

	for _, override := range overrides {
		override(&run)
	}

	return run
}

// WithAnnotations sets the run's annotation map.
func WithAnnotations(annotations map[string]string) func(*models.TaskRun) {
	return func(r *models.TaskRun) {
		r.Annotations = annotations
	}
}

// WithRunParam adds a concrete run parameter value.
func WithRunParam(name, value string) func(*models.TaskRun) {
	return func(r *models.TaskRun) {
		r.Spec.Params = append(r.Spec.Params, models.Param{Name: name, Value: models.NewStringParamValue(value)})
	}
}

// WithCondition replaces the run's aggregate condition.
func WithCondition(status metav1.ConditionStatus, reason string) func(*models.TaskRun) {
	return func(r *models.TaskRun) {
		if r.Status == nil {
			r.Status = &models.TaskRunStatus{}
		}

		r.Status.Conditions = []models.Condition{{
			Type:   models.ConditionTypeSucceeded,
			Status: status,
			Reason: reason,
		}}
	}
}

// WithNoStatus clears the run's status payload entirely.
func WithNoStatus() func(*models.TaskRun) {
	return func(r *models.TaskRun) {
		r.Status = nil
	}
}

// WithTimes sets start and completion timestamps.
func WithTimes(start, end time.Time) func(*models.TaskRun) {
	return func(r *models.TaskRun) {
		if r.Status == nil {
			r.Status = &models.TaskRunStatus{}
		}

		startTime := metav1.NewTime(start)
		endTime := metav1.NewTime(end)
		r.Status.StartTime = &startTime
		r.Status.CompletionTime = &endTime
	}
}

// WithResult adds a task-run result with a scalar payload.
func WithResult(name, value string) func(*models.TaskRun) {
	return func(r *models.TaskRun) {
		if r.Status == nil {
			r.Status = &models.TaskRunStatus{}
		}

		r.Status.Results = append(r.Status.Results, models.TaskRunResult{
			Name:  name,
			Value: models.NewStringParamValue(value),
		})
	}
}

// WithStepStates sets the run status's reported step states.
func WithStepStates(states ...models.StepState) func(*models.TaskRun) {
	return func(r *models.TaskRun) {
		if r.Status == nil {
			r.Status = &models.TaskRunStatus{}
		}

		r.Status.Steps = states
	}
}

// CreatePipelineRun creates a test PipelineRun over the given tasks.
func CreatePipelineRun(name string, tasks []models.PipelineTask, overrides ...func(*models.PipelineRun)) *models.PipelineRun {
	run := &models.PipelineRun{
		Name:      name,
		Namespace: "default",
		Status: &models.PipelineRunStatus{
			Conditions: []models.Condition{{
				Type:   models.ConditionTypeSucceeded,
				Status: metav1.ConditionUnknown,
				Reason: "Running",
			}},
			PipelineSpec: &models.PipelineSpec{Tasks: tasks},
		},
	}

	for _, override := range overrides {
		override(run)
	}

	return run
}

// WithChildReference adds a child-reference entry to the run status.
func WithChildReference(taskRunName, pipelineTaskName, displayName string) func(*models.PipelineRun) {
	return func(r *models.PipelineRun) {
		r.Status.ChildReferences = append(r.Status.ChildReferences, models.ChildStatusReference{
			Name:             taskRunName,
			PipelineTaskName: pipelineTaskName,
			DisplayName:      displayName,
		})
	}
}

// WithSkippedTask marks a declared task as skipped on the run status.
func WithSkippedTask(name string) func(*models.PipelineRun) {
	return func(r *models.PipelineRun) {
		r.Status.SkippedTasks = append(r.Status.SkippedTasks, models.SkippedTask{Name: name})
	}
}

// WithNoRunStatus clears the pipeline run's status entirely.
func WithNoRunStatus() func(*models.PipelineRun) {
	return func(r *models.PipelineRun) {
		r.Status = nil
	}
}
