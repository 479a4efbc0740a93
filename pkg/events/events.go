// Package events defines event types for pipeline run status change notifications.
package events

import (
	"time"

	"github.com/arewm/pipegraph/pkg/models"
	"github.com/google/uuid"
)

type EventType string

// Kafka topic for snapshot change events.
const Topic = "pipegraph.snapshots"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	PipelineRunUpdatedEvent EventType = "pipelinerun.updated"
	PipelineRunDeletedEvent EventType = "pipelinerun.deleted"
	TaskRunUpdatedEvent     EventType = "taskrun.updated"
)

type BaseEvent struct {
	ID        string         `json:"id"`
	Type      EventType      `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	Namespace string         `json:"namespace"`
	RunName   string         `json:"run_name"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// PipelineRunUpdated signals that a pipeline run changed on the
// cluster. It carries the full run document so subscribers can refresh
// their snapshot without a round trip.
type PipelineRunUpdated struct {
	BaseEvent

	PipelineRun *models.PipelineRun `json:"pipeline_run"`
	TaskRuns    []models.TaskRun    `json:"task_runs,omitempty"`
	Revision    string              `json:"revision"`
}

func (e PipelineRunUpdated) GetType() EventType {
	return PipelineRunUpdatedEvent
}

// PipelineRunDeleted signals that a pipeline run was removed.
type PipelineRunDeleted struct {
	BaseEvent
}

func (e PipelineRunDeleted) GetType() EventType {
	return PipelineRunDeletedEvent
}

// TaskRunUpdated signals a status change on a single task run
// belonging to a pipeline run.
type TaskRunUpdated struct {
	BaseEvent

	TaskRun  models.TaskRun `json:"task_run"`
	Revision string         `json:"revision"`
}

func (e TaskRunUpdated) GetType() EventType {
	return TaskRunUpdatedEvent
}

func NewBaseEvent(eventType EventType, namespace, runName string) BaseEvent {
	return BaseEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Namespace: namespace,
		RunName:   runName,
		Metadata:  make(map[string]any),
	}
}
