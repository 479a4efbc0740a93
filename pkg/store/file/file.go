// Package file provides file-based snapshot persistence, one JSON document
// per pipeline run under <root>/<namespace>/<name>.json.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arewm/pipegraph/pkg/store"
)

// Store implements store.Store on the local filesystem.
type Store struct {
	root string
}

// NewStore creates a file store rooted at the given directory. A
// "file://" prefix on the path is accepted and stripped.
func NewStore(root string) *Store {
	return &Store{root: strings.TrimPrefix(root, "file://")}
}

func (s *Store) snapshotPath(namespace, name string) string {
	return filepath.Join(s.root, namespace, name+".json")
}

func (s *Store) SaveSnapshot(ctx context.Context, snapshot *store.Snapshot) error {
	if err := store.Validate(snapshot); err != nil {
		return err
	}

	path := s.snapshotPath(snapshot.PipelineRun.Namespace, snapshot.PipelineRun.Name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	payload, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	if err := os.WriteFile(path, payload, 0o600); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}

	return nil
}

func (s *Store) Snapshot(ctx context.Context, namespace, name string) (*store.Snapshot, error) {
	payload, err := os.ReadFile(s.snapshotPath(namespace, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, store.NotFoundError(namespace, name)
		}

		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var snapshot store.Snapshot
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot %s/%s: %w", namespace, name, err)
	}

	return &snapshot, nil
}

func (s *Store) ListSnapshots(ctx context.Context, namespace string) ([]*store.Snapshot, error) {
	entries, err := os.ReadDir(filepath.Join(s.root, namespace))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}

	snapshots := make([]*store.Snapshot, 0, len(entries))

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		name := strings.TrimSuffix(entry.Name(), ".json")

		snapshot, err := s.Snapshot(ctx, namespace, name)
		if err != nil {
			return nil, err
		}

		snapshots = append(snapshots, snapshot)
	}

	sort.Slice(snapshots, func(i, j int) bool {
		return snapshots[i].PipelineRun.Name < snapshots[j].PipelineRun.Name
	})

	return snapshots, nil
}

func (s *Store) DeleteSnapshot(ctx context.Context, namespace, name string) error {
	err := os.Remove(s.snapshotPath(namespace, name))
	if err != nil {
		if os.IsNotExist(err) {
			return store.NotFoundError(namespace, name)
		}

		return fmt.Errorf("failed to delete snapshot: %w", err)
	}

	return nil
}

func (s *Store) HealthCheck(ctx context.Context) error {
	if _, err := os.Stat(s.root); os.IsNotExist(err) {
		return os.ErrNotExist
	}

	return nil
}

// Close is a no-op for file-based persistence.
func (s *Store) Close(ctx context.Context) error {
	return nil
}
