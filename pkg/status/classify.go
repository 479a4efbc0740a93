// Package status merges static task definitions with run-time status
// payloads into unified task-with-status records.
package status

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/arewm/pipegraph/pkg/models"
)

// Engine-reported condition reasons this system gives special treatment.
const (
	reasonTaskRunCancelled     = "TaskRunCancelled"
	reasonPipelineRunCancelled = "PipelineRunCancelled"
	reasonCancelled            = "Cancelled"
	reasonTestFailed           = "TestFailed"
	reasonPending              = "Pending"
	reasonPipelineRunPending   = "PipelineRunPending"
)

// Classify derives the run-state classification from a record's aggregate
// Succeeded condition. A record with no condition yet is Pending.
func Classify(record *models.TaskRunRecord) models.RunStatus {
	if record == nil || record.Status == nil {
		return models.RunStatusPending
	}

	condition := record.Status.SucceededCondition()
	if condition == nil {
		return models.RunStatusPending
	}

	switch condition.Status {
	case metav1.ConditionTrue:
		return models.RunStatusSucceeded
	case metav1.ConditionFalse:
		switch condition.Reason {
		case reasonTaskRunCancelled, reasonPipelineRunCancelled, reasonCancelled:
			return models.RunStatusCancelled
		case reasonTestFailed:
			return models.RunStatusTestFailed
		default:
			return models.RunStatusFailed
		}
	default:
		switch condition.Reason {
		case reasonPending, reasonPipelineRunPending:
			return models.RunStatusPending
		default:
			return models.RunStatusRunning
		}
	}
}

// ClassifyPipelineRun derives the aggregate classification of a pipeline
// run from its own Succeeded condition.
func ClassifyPipelineRun(run *models.PipelineRun) models.RunStatus {
	if run == nil || run.Status == nil {
		return models.RunStatusPending
	}

	for i := range run.Status.Conditions {
		condition := &run.Status.Conditions[i]
		if condition.Type != models.ConditionTypeSucceeded {
			continue
		}

		record := models.TaskRunRecord{
			Name:   run.Name,
			Status: &models.TaskRunStatus{Conditions: []models.Condition{*condition}},
		}

		return Classify(&record)
	}

	return models.RunStatusPending
}
