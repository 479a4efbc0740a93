package models

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// PipelineTaskLabel is the label the execution engine stamps on every
// task-run record with the logical task name it belongs to.
const PipelineTaskLabel = "tekton.dev/pipelineTask"

// StepTermination is the terminal state of one container step.
type StepTermination struct {
	Reason     string       `json:"reason,omitempty"`
	ExitCode   int32        `json:"exitCode,omitempty"`
	StartedAt  *metav1.Time `json:"startedAt,omitempty"`
	FinishedAt *metav1.Time `json:"finishedAt,omitempty"`
}

// StepRunning marks a step as currently executing.
type StepRunning struct {
	StartedAt *metav1.Time `json:"startedAt,omitempty"`
}

// StepWaiting marks a step that has not started yet.
type StepWaiting struct {
	Reason string `json:"reason,omitempty"`
}

// StepState is the reported run-time state of one step; exactly one of
// Terminated, Running or Waiting is set.
type StepState struct {
	Name       string           `json:"name"`
	Terminated *StepTermination `json:"terminated,omitempty"`
	Running    *StepRunning     `json:"running,omitempty"`
	Waiting    *StepWaiting     `json:"waiting,omitempty"`
}

// TaskRunResult is one key/value result emitted by a finished task run.
type TaskRunResult struct {
	Name  string     `json:"name"`
	Value ParamValue `json:"value"`
}

// TaskRunStatus is the run-time status payload of one task run.
type TaskRunStatus struct {
	Conditions     []Condition     `json:"conditions,omitempty"`
	StartTime      *metav1.Time    `json:"startTime,omitempty"`
	CompletionTime *metav1.Time    `json:"completionTime,omitempty"`
	Steps          []StepState     `json:"steps,omitempty"`
	Results        []TaskRunResult `json:"results,omitempty"`
	TaskSpec       *TaskSpec       `json:"taskSpec,omitempty"`
}

// TaskRunSpec carries the subset of a task run's spec this system reads:
// the concrete parameter values the instance ran with.
type TaskRunSpec struct {
	Params []Param `json:"params,omitempty"`
}

// TaskRun is one execution instance of a single task as reported by the
// engine. For matrix tasks there is one TaskRun per parameter combination.
type TaskRun struct {
	Name        string            `json:"name"        validate:"required"`
	Namespace   string            `json:"namespace,omitempty"`
	Labels      map[string]string `json:"labels,omitempty"`
	Annotations map[string]string `json:"annotations,omitempty"`
	Spec        TaskRunSpec       `json:"spec,omitempty"`
	Status      *TaskRunStatus    `json:"status,omitempty"`
}

// SucceededCondition returns the aggregate Succeeded condition of the run,
// or nil when the engine has not reported one yet.
func (tr *TaskRunStatus) SucceededCondition() *Condition {
	if tr == nil {
		return nil
	}

	for i := range tr.Conditions {
		if tr.Conditions[i].Type == ConditionTypeSucceeded {
			return &tr.Conditions[i]
		}
	}

	return nil
}

// Result returns the named result value, or nil when absent.
func (tr *TaskRunStatus) Result(name string) *TaskRunResult {
	if tr == nil {
		return nil
	}

	for i := range tr.Results {
		if tr.Results[i].Name == name {
			return &tr.Results[i]
		}
	}

	return nil
}

// TaskRunRecord is the canonical, normalized view of one task-run record.
// All core logic consumes records in this shape; the label-vs-direct-field
// task-name fallback is resolved once at the ingestion boundary.
type TaskRunRecord struct {
	// Name is the record's own unique name.
	Name string
	// TaskName is the logical pipeline-task name the record belongs to.
	// Empty when the record could not be attributed to any declared task.
	TaskName string
	// Annotations are the engine-supplied key/value strings; matrix
	// parameter values surface here at run time.
	Annotations map[string]string
	// Params are the concrete parameter values this instance ran with.
	Params []Param
	// Status is the record's run-time status payload, nil when unreported.
	Status *TaskRunStatus
}

// Param returns the named run parameter value and whether it was present.
func (r *TaskRunRecord) Param(name string) (ParamValue, bool) {
	for _, p := range r.Params {
		if p.Name == name {
			return p.Value, true
		}
	}

	return ParamValue{}, false
}
