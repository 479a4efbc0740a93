package models

// RunStatus is the derived run-state classification of a task or pipeline run.
type RunStatus string

const (
	RunStatusSucceeded  RunStatus = "Succeeded"
	RunStatusFailed     RunStatus = "Failed"
	RunStatusRunning    RunStatus = "Running"
	RunStatusPending    RunStatus = "Pending"
	RunStatusCancelled  RunStatus = "Cancelled"
	RunStatusTestFailed RunStatus = "Test Failures"
	RunStatusSkipped    RunStatus = "Skipped"
	// RunStatusIdle marks a declared task with no run record yet.
	RunStatusIdle RunStatus = "Idle"
)

// StepStatus is the synthesized per-step status of a task run.
type StepStatus struct {
	Name      string    `json:"name"`
	Status    RunStatus `json:"status"`
	StartedAt string    `json:"startedAt,omitempty"`
	EndedAt   string    `json:"endedAt,omitempty"`
}

// VulnerabilityCounts is the severity breakdown of a CVE scan result.
type VulnerabilityCounts struct {
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
	Unknown  int `json:"unknown,omitempty"`
}

// ScanResults is the structured payload of a CVE-scan-output task result.
type ScanResults struct {
	Vulnerabilities VulnerabilityCounts `json:"vulnerabilities"`
}

// TaskStatus is the merged run-time status attached to a task definition.
type TaskStatus struct {
	Reason         RunStatus       `json:"reason"`
	StartTime      string          `json:"startTime,omitempty"`
	CompletionTime string          `json:"completionTime,omitempty"`
	Duration       string          `json:"duration,omitempty"`
	Conditions     []Condition     `json:"conditions,omitempty"`
	Steps          []StepStatus    `json:"steps,omitempty"`
	Results        []TaskRunResult `json:"results,omitempty"`
	TestFailCount  int             `json:"testFailCount,omitempty"`
	TestWarnCount  int             `json:"testWarnCount,omitempty"`
	ScanResults    *ScanResults    `json:"scanResults,omitempty"`
	// TaskRun is the normalized record this status was merged from,
	// nil for placeholder entries.
	TaskRun *TaskRunRecord `json:"-"`
}

// TaskWithStatus is a task definition merged with zero-or-one run record's
// status. Expanded matrix instances additionally carry the pre-expansion
// name, a matrix marker and the sanitized per-instance display label.
type TaskWithStatus struct {
	PipelineTask

	Status *TaskStatus `json:"status,omitempty"`

	// OriginalName is the declared task name before matrix expansion;
	// empty for non-matrix entries.
	OriginalName string `json:"originalName,omitempty"`
	// IsMatrix marks the entry as one expanded matrix instance.
	IsMatrix bool `json:"isMatrix,omitempty"`
	// MatrixDisplayName is the sanitized human label of this instance.
	MatrixDisplayName string `json:"matrixDisplayName,omitempty"`
}
