package models

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// ConditionTypeSucceeded is the aggregate condition reported by the
// execution engine on both pipeline runs and task runs.
const ConditionTypeSucceeded = "Succeeded"

// Condition is one entry of a run object's status conditions.
type Condition struct {
	Type    string                 `json:"type"`
	Status  metav1.ConditionStatus `json:"status"`
	Reason  string                 `json:"reason,omitempty"`
	Message string                 `json:"message,omitempty"`
}

// SkippedTask names a declared task the engine decided not to run.
type SkippedTask struct {
	Name   string `json:"name"`
	Reason string `json:"reason,omitempty"`
}

// ChildStatusReference links a task-run record to the pipeline run that owns
// it, optionally carrying an engine-supplied display name for that instance.
type ChildStatusReference struct {
	Name             string `json:"name"`
	PipelineTaskName string `json:"pipelineTaskName,omitempty"`
	DisplayName      string `json:"displayName,omitempty"`
}

// PipelineRunStatus is the aggregate run-time status of a pipeline run.
type PipelineRunStatus struct {
	Conditions      []Condition            `json:"conditions,omitempty"`
	StartTime       *metav1.Time           `json:"startTime,omitempty"`
	CompletionTime  *metav1.Time           `json:"completionTime,omitempty"`
	SkippedTasks    []SkippedTask          `json:"skippedTasks,omitempty"`
	ChildReferences []ChildStatusReference `json:"childReferences,omitempty"`
	PipelineSpec    *PipelineSpec          `json:"pipelineSpec,omitempty"`
}

// PipelineRun is one execution instance of a pipeline.
type PipelineRun struct {
	Name      string             `json:"name"      validate:"required"`
	Namespace string             `json:"namespace"`
	Status    *PipelineRunStatus `json:"status,omitempty"`
}

// ChildReferenceFor returns the child reference for the named task-run
// record, or nil when the run carries none.
func (pr *PipelineRun) ChildReferenceFor(taskRunName string) *ChildStatusReference {
	if pr == nil || pr.Status == nil {
		return nil
	}

	for i := range pr.Status.ChildReferences {
		if pr.Status.ChildReferences[i].Name == taskRunName {
			return &pr.Status.ChildReferences[i]
		}
	}

	return nil
}

// IsTaskSkipped reports whether the engine recorded the named declared task
// on the run's skip list.
func (pr *PipelineRun) IsTaskSkipped(taskName string) bool {
	if pr == nil || pr.Status == nil {
		return false
	}

	for _, skipped := range pr.Status.SkippedTasks {
		if skipped.Name == taskName {
			return true
		}
	}

	return false
}
