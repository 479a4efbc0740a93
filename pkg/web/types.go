// Package web provides HTTP request and response types for the graph API.
package web

import "github.com/arewm/pipegraph/pkg/models"

// ErrorResponse represents a standardized API error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// BuildGraphRequest represents the request body for a direct graph build
// from an inline pipeline run payload.
type BuildGraphRequest struct {
	PipelineRun *models.PipelineRun `json:"pipelineRun"            validate:"required"`
	TaskRuns    []models.TaskRun    `json:"taskRuns"`
	// PipelineSpec is only needed when the run status carries no
	// resolved pipeline spec.
	PipelineSpec *models.PipelineSpec `json:"pipelineSpec,omitempty"`
}

// SnapshotRequest represents the request body for storing a pipeline run
// snapshot.
type SnapshotRequest struct {
	PipelineRun *models.PipelineRun `json:"pipelineRun" validate:"required"`
	TaskRuns    []models.TaskRun    `json:"taskRuns"`
	Revision    string              `json:"revision"    validate:"required"`
}
