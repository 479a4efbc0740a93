package status

import (
	"log/slog"

	"github.com/arewm/pipegraph/pkg/models"
)

// Merger merges static task definitions with run-time status payloads.
type Merger struct {
	logger *slog.Logger
}

// NewMerger creates a merger. A nil logger selects the process default.
func NewMerger(logger *slog.Logger) *Merger {
	if logger == nil {
		logger = slog.Default()
	}

	return &Merger{logger: logger}
}

// Idle returns the unscheduled placeholder for a task with no run record.
func (m *Merger) Idle(task models.PipelineTask) models.TaskWithStatus {
	return models.TaskWithStatus{
		PipelineTask: task,
		Status:       &models.TaskStatus{Reason: models.RunStatusIdle},
	}
}

// Placeholder returns a record-less entry carrying an explicit reason,
// used when the pipeline run's own status is all that is known.
func (m *Merger) Placeholder(task models.PipelineTask, reason models.RunStatus) models.TaskWithStatus {
	return models.TaskWithStatus{
		PipelineTask: task,
		Status:       &models.TaskStatus{Reason: reason},
	}
}

// Merge combines a task definition with one run record's status payload.
func (m *Merger) Merge(task models.PipelineTask, record *models.TaskRunRecord) models.TaskWithStatus {
	if record == nil {
		return m.Idle(task)
	}

	merged := models.TaskStatus{
		Reason:  models.RunStatusPending,
		TaskRun: record,
	}

	if record.Status != nil {
		merged.Conditions = record.Status.Conditions
		merged.Results = record.Status.Results
		merged.StartTime = formatTime(record.Status.StartTime)
		merged.CompletionTime = formatTime(record.Status.CompletionTime)

		if record.Status.SucceededCondition() != nil {
			merged.Reason = Classify(record)
		}

		if record.Status.StartTime != nil && record.Status.CompletionTime != nil {
			elapsed := record.Status.CompletionTime.Sub(record.Status.StartTime.Time)
			merged.Duration = FormatDuration(elapsed)
		}

		m.mergeResults(record, &merged)
	}

	merged.Steps = synthesizeSteps(task, record, merged.Reason)

	return models.TaskWithStatus{PipelineTask: task, Status: &merged}
}

// mergeResults extracts test counts and scan breakdowns from well-known
// result entries, and reclassifies a clean exit as a test failure when the
// test output reports failures.
func (m *Merger) mergeResults(record *models.TaskRunRecord, merged *models.TaskStatus) {
	if result := record.Status.Result(TestOutputResultName); result != nil {
		failures, warnings, ok := parseTestOutput(m.logger, record.Name, result.Value.StringVal)
		if ok {
			merged.TestFailCount = failures
			merged.TestWarnCount = warnings

			if failures > 0 && merged.Reason == models.RunStatusSucceeded {
				merged.Reason = models.RunStatusTestFailed
			}
		}
	}

	scanResult := record.Status.Result(ScanOutputResultName)
	if scanResult == nil {
		scanResult = record.Status.Result(ClairScanResultName)
	}

	if scanResult != nil {
		if scan := parseScanResults(m.logger, record.Name, scanResult.Value.StringVal); scan != nil {
			merged.ScanResults = scan
		}
	}
}
