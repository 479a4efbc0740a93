// Package store provides persistence for pipeline-run snapshots: the raw
// pipeline-run object plus its task-run records, as last reported by the
// execution engine.
package store

import (
	"context"
	"time"

	"github.com/arewm/pipegraph/pkg/models"
)

// Snapshot is one pipeline run's ingested state. The graph service builds
// node models from snapshots; it never talks to the execution engine.
type Snapshot struct {
	PipelineRun *models.PipelineRun `json:"pipelineRun"`
	TaskRuns    []models.TaskRun    `json:"taskRuns"`
	// Revision changes whenever the engine reports new state; cached
	// graph models are keyed by it.
	Revision  string    `json:"revision,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Store persists pipeline-run snapshots.
type Store interface {
	SaveSnapshot(ctx context.Context, snapshot *Snapshot) error
	Snapshot(ctx context.Context, namespace, name string) (*Snapshot, error)
	ListSnapshots(ctx context.Context, namespace string) ([]*Snapshot, error)
	DeleteSnapshot(ctx context.Context, namespace, name string) error
	HealthCheck(ctx context.Context) error

	Close(ctx context.Context) error
}
