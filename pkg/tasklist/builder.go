package tasklist

import (
	"fmt"
	"log/slog"

	"github.com/arewm/pipegraph/pkg/matrix"
	"github.com/arewm/pipegraph/pkg/models"
	"github.com/arewm/pipegraph/pkg/sanitize"
	"github.com/arewm/pipegraph/pkg/status"
)

// Builder produces the flat ordered task-with-status list for a pipeline
// run. Output order is the declaration order of tasks, with matrix
// instances appearing consecutively at the position of their owning task.
type Builder struct {
	logger *slog.Logger
	merger *status.Merger
	policy matrix.Policy
}

// NewBuilder creates a builder. Nil arguments select the process default
// logger and the annotation-heuristic detection policy.
func NewBuilder(logger *slog.Logger, policy matrix.Policy) *Builder {
	if logger == nil {
		logger = slog.Default()
	}

	if policy == nil {
		policy = matrix.NewAnnotationHeuristicPolicy(nil)
	}

	return &Builder{
		logger: logger,
		merger: status.NewMerger(logger),
		policy: policy,
	}
}

// AppendStatus merges the pipeline's declared tasks with their run records.
// A nil pipeline yields an empty list. The finally flag selects the
// cleanup-phase task list instead of the main one.
func (b *Builder) AppendStatus(
	pipeline *models.PipelineSpec,
	run *models.PipelineRun,
	records []models.TaskRunRecord,
	finallyTasks bool,
) []models.TaskWithStatus {
	if pipeline == nil {
		return nil
	}

	declared := pipeline.Tasks
	if finallyTasks {
		declared = pipeline.Finally
	}

	groups := groupByTask(records)
	detections := b.policy.Detect(records)

	list := make([]models.TaskWithStatus, 0, len(declared))
	usedNames := make(map[string]struct{}, len(declared))

	for _, task := range declared {
		switch {
		case run == nil || run.Status == nil:
			list = append(list, b.merger.Idle(task))
		case len(records) == 0:
			list = append(list, b.merger.Placeholder(task, status.ClassifyPipelineRun(run)))
		case len(groups[task.Name]) == 0:
			if run.IsTaskSkipped(task.Name) {
				list = append(list, b.merger.Placeholder(task, models.RunStatusSkipped))
			} else {
				list = append(list, b.merger.Idle(task))
			}
		default:
			group := groups[task.Name]
			if detections[task.Name].IsMatrix || len(group) > 1 {
				list = append(list, b.expandMatrix(task, group, run, usedNames)...)
			} else {
				list = append(list, b.merger.Merge(task, &group[0]))
			}
		}
	}

	return list
}

// expandMatrix emits one merged entry per run instance, renamed with a
// sanitized per-instance suffix and tagged with matrix metadata.
func (b *Builder) expandMatrix(
	task models.PipelineTask,
	group []models.TaskRunRecord,
	run *models.PipelineRun,
	usedNames map[string]struct{},
) []models.TaskWithStatus {
	expanded := make([]models.TaskWithStatus, 0, len(group))

	for i := range group {
		record := group[i]
		label := matrix.InstanceLabel(task, record, run, i)

		entry := b.merger.Merge(task, &record)
		entry.OriginalName = task.Name
		entry.IsMatrix = true
		entry.MatrixDisplayName = label
		entry.Name = instanceName(task.Name, label, i, usedNames)

		expanded = append(expanded, entry)
	}

	return expanded
}

// instanceName derives a unique expanded name from the instance label,
// falling back to the instance position when the sanitized suffix is empty
// or collides with an earlier instance.
func instanceName(taskName, label string, position int, usedNames map[string]struct{}) string {
	suffix := sanitize.NameSuffix(label)
	if suffix == "" {
		suffix = fmt.Sprintf("%d", position)
	}

	name := taskName + "-" + suffix
	if _, taken := usedNames[name]; taken {
		name = fmt.Sprintf("%s-%d", name, position)
	}

	usedNames[name] = struct{}{}

	return name
}
