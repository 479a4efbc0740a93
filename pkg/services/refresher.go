package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/arewm/pipegraph/pkg/eventbus"
	"github.com/arewm/pipegraph/pkg/events"
	"github.com/arewm/pipegraph/pkg/store"
)

// Refresher keeps the snapshot store in sync with pipeline run change
// events arriving on the event bus.
type Refresher struct {
	service *Graph
	logger  *slog.Logger
}

// NewRefresher creates a refresher on top of the graph service.
func NewRefresher(logger *slog.Logger, service *Graph) *Refresher {
	if logger == nil {
		logger = slog.Default()
	}

	return &Refresher{
		service: service,
		logger:  logger.With("module", "snapshot_refresher"),
	}
}

// Register subscribes the refresher's handlers on the event bus. The
// caller still owns the bus lifecycle and must call Subscribe.
func (r *Refresher) Register(bus eventbus.EventBus) error {
	if err := bus.Handle(events.PipelineRunUpdatedEvent, r.handlePipelineRunUpdated); err != nil {
		return err
	}

	if err := bus.Handle(events.TaskRunUpdatedEvent, r.handleTaskRunUpdated); err != nil {
		return err
	}

	return bus.Handle(events.PipelineRunDeletedEvent, r.handlePipelineRunDeleted)
}

func (r *Refresher) handlePipelineRunUpdated(ctx context.Context, event any) error {
	updated, ok := event.(*events.PipelineRunUpdated)
	if !ok {
		return fmt.Errorf("unexpected event payload %T", event)
	}

	r.logger.InfoContext(ctx, "Refreshing snapshot",
		"namespace", updated.Namespace, "name", updated.RunName, "revision", updated.Revision)

	return r.service.SaveSnapshot(ctx, &store.Snapshot{
		PipelineRun: updated.PipelineRun,
		TaskRuns:    updated.TaskRuns,
		Revision:    updated.Revision,
	})
}

func (r *Refresher) handleTaskRunUpdated(ctx context.Context, event any) error {
	updated, ok := event.(*events.TaskRunUpdated)
	if !ok {
		return fmt.Errorf("unexpected event payload %T", event)
	}

	snapshot, err := r.service.Snapshot(ctx, updated.Namespace, updated.RunName)
	if err != nil {
		if store.IsSnapshotNotFound(err) {
			// The task run arrived before its pipeline run; the next
			// run update carries it anyway.
			r.logger.WarnContext(ctx, "Dropping task run update for unknown pipeline run",
				"namespace", updated.Namespace, "name", updated.RunName)

			return nil
		}

		return err
	}

	replaced := false

	for i := range snapshot.TaskRuns {
		if snapshot.TaskRuns[i].Name == updated.TaskRun.Name {
			snapshot.TaskRuns[i] = updated.TaskRun
			replaced = true

			break
		}
	}

	if !replaced {
		snapshot.TaskRuns = append(snapshot.TaskRuns, updated.TaskRun)
	}

	if updated.Revision != "" {
		snapshot.Revision = updated.Revision
	}

	return r.service.SaveSnapshot(ctx, snapshot)
}

func (r *Refresher) handlePipelineRunDeleted(ctx context.Context, event any) error {
	deleted, ok := event.(*events.PipelineRunDeleted)
	if !ok {
		return fmt.Errorf("unexpected event payload %T", event)
	}

	err := r.service.DeleteSnapshot(ctx, deleted.Namespace, deleted.RunName)
	if err != nil && !store.IsSnapshotNotFound(err) {
		return err
	}

	return nil
}
