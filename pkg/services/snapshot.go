package services

import (
	"context"
	"fmt"

	"github.com/arewm/pipegraph/pkg/models"
	"github.com/arewm/pipegraph/pkg/status"
	"github.com/arewm/pipegraph/pkg/store"
	"github.com/arewm/pipegraph/pkg/tasklist"
)

// RunSummary is one entry of a namespace's pipeline run listing.
type RunSummary struct {
	Namespace string           `json:"namespace"`
	Name      string           `json:"name"`
	Status    models.RunStatus `json:"status"`
	Revision  string           `json:"revision"`
}

// SaveSnapshot stores a pipeline run snapshot and drops any cached
// graph models derived from earlier revisions of the run.
func (g *Graph) SaveSnapshot(ctx context.Context, snapshot *store.Snapshot) error {
	if err := g.store.SaveSnapshot(ctx, snapshot); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	g.invalidateCache(ctx, snapshot.PipelineRun.Namespace, snapshot.PipelineRun.Name)

	return nil
}

// Snapshot returns the stored snapshot of a pipeline run.
func (g *Graph) Snapshot(ctx context.Context, namespace, name string) (*store.Snapshot, error) {
	if err := validateRunRef(namespace, name); err != nil {
		return nil, err
	}

	return g.store.Snapshot(ctx, namespace, name)
}

// DeleteSnapshot removes a stored snapshot and its cached graph models.
func (g *Graph) DeleteSnapshot(ctx context.Context, namespace, name string) error {
	if err := validateRunRef(namespace, name); err != nil {
		return err
	}

	if err := g.store.DeleteSnapshot(ctx, namespace, name); err != nil {
		return err
	}

	g.invalidateCache(ctx, namespace, name)

	return nil
}

// ListRuns summarizes the stored pipeline runs of a namespace.
func (g *Graph) ListRuns(ctx context.Context, namespace string) ([]RunSummary, error) {
	if namespace == "" {
		return nil, ErrNamespaceRequired
	}

	snapshots, err := g.store.ListSnapshots(ctx, namespace)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}

	summaries := make([]RunSummary, 0, len(snapshots))
	for _, snapshot := range snapshots {
		summaries = append(summaries, RunSummary{
			Namespace: snapshot.PipelineRun.Namespace,
			Name:      snapshot.PipelineRun.Name,
			Status:    snapshotStatus(snapshot),
			Revision:  snapshot.Revision,
		})
	}

	return summaries, nil
}

// TaskRunDisplay resolves the display identity of one task run within
// a stored pipeline run, for the logs list and side panel.
func (g *Graph) TaskRunDisplay(ctx context.Context, namespace, runName, taskRunName string) (*tasklist.TaskRunDisplay, error) {
	if err := validateRunRef(namespace, runName); err != nil {
		return nil, err
	}

	snapshot, err := g.store.Snapshot(ctx, namespace, runName)
	if err != nil {
		return nil, err
	}

	records := tasklist.Normalize(snapshot.TaskRuns, snapshot.PipelineRun)

	var record *models.TaskRunRecord

	for i := range records {
		if records[i].Name == taskRunName {
			record = &records[i]

			break
		}
	}

	if record == nil {
		return nil, ErrTaskRunNotFound
	}

	task := findTask(snapshot.PipelineRun, record.TaskName)
	if task == nil {
		return nil, ErrTaskNotFound
	}

	builder := g.listBuilder(snapshot.PipelineRun, snapshot.Revision)
	display := builder.Display(*task, *record, snapshot.PipelineRun, records)

	return &display, nil
}

func (g *Graph) invalidateCache(ctx context.Context, namespace, name string) {
	if g.cache == nil {
		return
	}

	err := g.cache.Invalidate(ctx, namespace, name)
	if err != nil {
		g.logger.WarnContext(ctx, "Graph cache invalidation failed",
			"namespace", namespace, "name", name, "error", err)
	}
}

func snapshotStatus(snapshot *store.Snapshot) models.RunStatus {
	return status.ClassifyPipelineRun(snapshot.PipelineRun)
}

func findTask(run *models.PipelineRun, taskName string) *models.PipelineTask {
	if run == nil || run.Status == nil || run.Status.PipelineSpec == nil {
		return nil
	}

	spec := run.Status.PipelineSpec

	for i := range spec.Tasks {
		if spec.Tasks[i].Name == taskName {
			return &spec.Tasks[i]
		}
	}

	for i := range spec.Finally {
		if spec.Finally[i].Name == taskName {
			return &spec.Finally[i]
		}
	}

	return nil
}
