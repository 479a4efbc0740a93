// Package tasklist builds the flat ordered task-with-status list for one
// pipeline run, expanding matrix tasks into per-instance entries.
package tasklist

import (
	"sort"

	"github.com/arewm/pipegraph/pkg/models"
)

// Normalize converts raw task-run objects into canonical records, resolving
// each record's logical task name once at the ingestion boundary: the
// pipeline-task label when present, otherwise the pipeline run's
// child-reference entry for the record. Records that resolve to no task
// name are kept with an empty TaskName and ignored by all grouping logic.
func Normalize(taskRuns []models.TaskRun, run *models.PipelineRun) []models.TaskRunRecord {
	records := make([]models.TaskRunRecord, 0, len(taskRuns))

	for _, taskRun := range taskRuns {
		taskName := taskRun.Labels[models.PipelineTaskLabel]
		if taskName == "" {
			if ref := run.ChildReferenceFor(taskRun.Name); ref != nil {
				taskName = ref.PipelineTaskName
			}
		}

		records = append(records, models.TaskRunRecord{
			Name:        taskRun.Name,
			TaskName:    taskName,
			Annotations: taskRun.Annotations,
			Params:      taskRun.Spec.Params,
			Status:      taskRun.Status,
		})
	}

	return records
}

// groupByTask buckets records by logical task name. Each bucket is sorted
// by record name so instance positions are deterministic regardless of the
// order the records arrived in.
func groupByTask(records []models.TaskRunRecord) map[string][]models.TaskRunRecord {
	groups := make(map[string][]models.TaskRunRecord)

	for _, record := range records {
		if record.TaskName == "" {
			continue
		}

		groups[record.TaskName] = append(groups[record.TaskName], record)
	}

	for name := range groups {
		group := groups[name]
		sort.Slice(group, func(i, j int) bool { return group[i].Name < group[j].Name })
	}

	return groups
}
