package status

import (
	"strings"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/arewm/pipegraph/pkg/models"
)

const stepPrefix = "step-"

// terminationReasonCompleted is what the engine reports for a step that
// exited cleanly.
const terminationReasonCompleted = "Completed"

// stepNames returns the ordered step list to synthesize statuses for: the
// run status's step list, falling back to the task's own declared steps.
func stepNames(task models.PipelineTask, record *models.TaskRunRecord) []string {
	if record != nil && record.Status != nil && len(record.Status.Steps) > 0 {
		names := make([]string, 0, len(record.Status.Steps))
		for _, step := range record.Status.Steps {
			names = append(names, step.Name)
		}

		return names
	}

	var declared []models.Step

	switch {
	case record != nil && record.Status != nil && record.Status.TaskSpec != nil:
		declared = record.Status.TaskSpec.Steps
	case task.TaskSpec != nil:
		declared = task.TaskSpec.Steps
	}

	names := make([]string, 0, len(declared))
	for _, step := range declared {
		names = append(names, step.Name)
	}

	return names
}

// matchStepState finds the reported run-time state for a declared step
// name, tolerating a "step-" prefix inconsistency on either side.
func matchStepState(record *models.TaskRunRecord, name string) *models.StepState {
	if record == nil || record.Status == nil {
		return nil
	}

	for i := range record.Status.Steps {
		reported := record.Status.Steps[i].Name
		if reported == name ||
			strings.TrimPrefix(reported, stepPrefix) == strings.TrimPrefix(name, stepPrefix) {
			return &record.Status.Steps[i]
		}
	}

	return nil
}

// synthesizeSteps computes a per-step status for every step of the task.
func synthesizeSteps(task models.PipelineTask, record *models.TaskRunRecord, overall models.RunStatus) []models.StepStatus {
	names := stepNames(task, record)
	if len(names) == 0 {
		return nil
	}

	noReason := record == nil || record.Status == nil || record.Status.SucceededCondition() == nil

	statuses := make([]models.StepStatus, 0, len(names))

	for i, name := range names {
		step := models.StepStatus{Name: name}

		state := matchStepState(record, name)

		switch {
		case noReason:
			step.Status = models.RunStatusCancelled
		case state == nil:
			step.Status = models.RunStatusPending
		case state.Terminated != nil:
			step.Status = terminatedStepStatus(state, overall, i == len(names)-1)
			step.StartedAt = formatTime(state.Terminated.StartedAt)
			step.EndedAt = formatTime(state.Terminated.FinishedAt)
		case state.Running != nil:
			if i == 0 || predecessorTerminated(record, names[i-1]) {
				step.Status = models.RunStatusRunning
			} else {
				step.Status = models.RunStatusPending
			}

			step.StartedAt = formatTime(state.Running.StartedAt)
		default:
			step.Status = models.RunStatusPending
		}

		statuses = append(statuses, step)
	}

	return statuses
}

func terminatedStepStatus(state *models.StepState, overall models.RunStatus, isFinal bool) models.RunStatus {
	if state.Terminated.Reason == terminationReasonCompleted {
		// A task can terminate cleanly while its test step reported
		// failures; surface that on the final step.
		if overall == models.RunStatusTestFailed && isFinal {
			return models.RunStatusTestFailed
		}

		return models.RunStatusSucceeded
	}

	if overall == models.RunStatusTestFailed && isFinal {
		return models.RunStatusTestFailed
	}

	return models.RunStatusFailed
}

func predecessorTerminated(record *models.TaskRunRecord, name string) bool {
	state := matchStepState(record, name)

	return state != nil && state.Terminated != nil
}

func formatTime(t *metav1.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}

	return t.UTC().Format("2006-01-02T15:04:05Z")
}
