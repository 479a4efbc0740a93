package store

import (
	"errors"
	"fmt"
)

// ErrSnapshotNotFound is returned when no snapshot exists for a
// namespace/name pair.
var ErrSnapshotNotFound = errors.New("pipeline-run snapshot not found")

// ErrInvalidSnapshot is returned when a snapshot is missing its
// pipeline-run object or its identity fields.
var ErrInvalidSnapshot = errors.New("invalid snapshot")

// NotFoundError wraps ErrSnapshotNotFound with the missing identity.
func NotFoundError(namespace, name string) error {
	return fmt.Errorf("%w: %s/%s", ErrSnapshotNotFound, namespace, name)
}

// IsSnapshotNotFound checks whether err represents a missing snapshot.
func IsSnapshotNotFound(err error) bool {
	return errors.Is(err, ErrSnapshotNotFound)
}

// Validate checks the snapshot carries enough identity to be stored.
func Validate(snapshot *Snapshot) error {
	if snapshot == nil || snapshot.PipelineRun == nil {
		return fmt.Errorf("%w: missing pipeline run", ErrInvalidSnapshot)
	}

	if snapshot.PipelineRun.Name == "" {
		return fmt.Errorf("%w: pipeline run has no name", ErrInvalidSnapshot)
	}

	return nil
}
