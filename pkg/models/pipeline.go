// Package models defines the core domain models for pipeline-run graph construction.
package models

// ParamType indicates whether a parameter value is a scalar or a list.
type ParamType string

const (
	ParamTypeString ParamType = "string"
	ParamTypeArray  ParamType = "array"
)

// ParamValue holds a scalar or list parameter value, mirroring the execution
// engine's union encoding (a JSON string or a JSON array of strings).
type ParamValue struct {
	Type      ParamType `json:"-"`
	StringVal string    `json:"-"`
	ArrayVal  []string  `json:"-"`
}

// Param is a named parameter on a task or a task run.
type Param struct {
	Name  string     `json:"name"  validate:"required"`
	Value ParamValue `json:"value"`
}

// MatrixParam declares one axis of a matrix: the full list of values the
// engine fans the task out over.
type MatrixParam struct {
	Name   string   `json:"name"  validate:"required"`
	Values []string `json:"value"`
}

// Matrix declares the parameter lists whose cartesian product defines how
// many instances of a task should run.
type Matrix struct {
	Params []MatrixParam `json:"params"`
}

// WhenExpression guards a task's execution on a runtime comparison.
type WhenExpression struct {
	Input    string   `json:"input"`
	Operator string   `json:"operator"`
	Values   []string `json:"values"`
}

// Step is a declared container step inside a task definition.
type Step struct {
	Name string `json:"name"`
}

// TaskSpec carries the subset of an embedded task definition this system
// reads: the declared step list.
type TaskSpec struct {
	Steps []Step `json:"steps,omitempty"`
}

// PipelineTask is one static task declaration inside a pipeline.
type PipelineTask struct {
	Name     string           `json:"name"               validate:"required"`
	RunAfter []string         `json:"runAfter,omitempty"`
	Params   []Param          `json:"params,omitempty"`
	When     []WhenExpression `json:"when,omitempty"`
	Matrix   *Matrix          `json:"matrix,omitempty"`
	TaskSpec *TaskSpec        `json:"taskSpec,omitempty"`
}

// PipelineSpec is the static pipeline definition: the main task list and the
// cleanup-phase ("finally") task list.
type PipelineSpec struct {
	Name    string         `json:"name,omitempty"`
	Tasks   []PipelineTask `json:"tasks"`
	Finally []PipelineTask `json:"finally,omitempty"`
}

// IsMatrixed reports whether the task declares a parameter matrix.
func (t *PipelineTask) IsMatrixed() bool {
	return t.Matrix != nil && len(t.Matrix.Params) > 0
}

// InstanceCount is the declared fan-out of a matrixed task: the product of
// its matrix value-list lengths. Returns 1 for non-matrixed tasks.
func (t *PipelineTask) InstanceCount() int {
	if !t.IsMatrixed() {
		return 1
	}

	count := 1
	for _, p := range t.Matrix.Params {
		if len(p.Values) > 0 {
			count *= len(p.Values)
		}
	}

	return count
}
