package tasklist

import (
	"fmt"

	"github.com/arewm/pipegraph/pkg/matrix"
	"github.com/arewm/pipegraph/pkg/models"
)

// TaskRunDisplay identifies a task run for the logs list and side panel.
type TaskRunDisplay struct {
	// TaskName is the logical task name.
	TaskName string `json:"taskName"`
	// AdditionalInfo is the matrix instance label, empty for regular tasks.
	AdditionalInfo string `json:"additionalInfo,omitempty"`
	// DisplayString is the full label: "task (instance)" for matrix
	// instances, the task name otherwise.
	DisplayString string `json:"displayString"`
}

// Display derives the display identity of one task run using the same
// matrix-vs-regular decision and the same instance labeler as the graph
// builder, so the graph, logs list and side panel always agree.
func (b *Builder) Display(
	task models.PipelineTask,
	record models.TaskRunRecord,
	run *models.PipelineRun,
	allRecords []models.TaskRunRecord,
) TaskRunDisplay {
	display := TaskRunDisplay{TaskName: task.Name, DisplayString: task.Name}

	group := groupByTask(allRecords)[task.Name]
	detections := b.policy.Detect(allRecords)

	if !detections[task.Name].IsMatrix && len(group) <= 1 {
		return display
	}

	position := 0

	for i := range group {
		if group[i].Name == record.Name {
			position = i

			break
		}
	}

	display.AdditionalInfo = matrix.InstanceLabel(task, record, run, position)
	display.DisplayString = fmt.Sprintf("%s (%s)", task.Name, display.AdditionalInfo)

	return display
}
