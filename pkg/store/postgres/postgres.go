// Package postgres provides PostgreSQL persistence for pipeline run snapshots.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/arewm/pipegraph/pkg/models"
	"github.com/arewm/pipegraph/pkg/store"
	"github.com/arewm/pipegraph/pkg/store/sqlbase"
	_ "github.com/lib/pq" // postgres driver
)

// Store implements store.Store on PostgreSQL. Each snapshot is one row
// keyed by (namespace, name); the pipeline run and task runs are kept
// as JSONB documents.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewStore opens a connection to the given database URL and runs
// pending schema migrations.
func NewStore(ctx context.Context, logger *slog.Logger, databaseURL string) (*Store, error) {
	database, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL database: %w", err)
	}

	err = database.PingContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	migrationManager := sqlbase.NewMigrationManager(logger, database, migrations())

	err = migrationManager.RunMigrations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Store{db: database, logger: logger}, nil
}

func (s *Store) SaveSnapshot(ctx context.Context, snapshot *store.Snapshot) error {
	if err := store.Validate(snapshot); err != nil {
		return err
	}

	pipelineRun, err := json.Marshal(snapshot.PipelineRun)
	if err != nil {
		return fmt.Errorf("failed to encode pipeline run: %w", err)
	}

	taskRuns, err := json.Marshal(snapshot.TaskRuns)
	if err != nil {
		return fmt.Errorf("failed to encode task runs: %w", err)
	}

	query := `
		INSERT INTO snapshots (namespace, name, revision, pipeline_run, task_runs, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (namespace, name) DO UPDATE SET
			revision = EXCLUDED.revision,
			pipeline_run = EXCLUDED.pipeline_run,
			task_runs = EXCLUDED.task_runs,
			updated_at = NOW()
	`

	_, err = s.db.ExecContext(ctx, query,
		snapshot.PipelineRun.Namespace,
		snapshot.PipelineRun.Name,
		snapshot.Revision,
		pipelineRun,
		taskRuns,
	)
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	return nil
}

func (s *Store) Snapshot(ctx context.Context, namespace, name string) (*store.Snapshot, error) {
	query := `
		SELECT
			revision
		  , pipeline_run
		  , task_runs
		  , updated_at
		FROM snapshots
		WHERE namespace = $1 AND name = $2
	`

	snapshot, err := s.scanSnapshot(s.db.QueryRowContext(ctx, query, namespace, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.NotFoundError(namespace, name)
		}

		return nil, fmt.Errorf("failed to scan snapshot: %w", err)
	}

	return snapshot, nil
}

func (s *Store) ListSnapshots(ctx context.Context, namespace string) ([]*store.Snapshot, error) {
	query := `
		SELECT
			revision
		  , pipeline_run
		  , task_runs
		  , updated_at
		FROM snapshots
		WHERE namespace = $1
		ORDER BY name
	`

	rows, err := s.db.QueryContext(ctx, query, namespace)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}

	defer func(ctx context.Context, s *Store) {
		err := rows.Close()
		if err != nil {
			s.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}(ctx, s)

	snapshots := make([]*store.Snapshot, 0)

	for rows.Next() {
		snapshot, err := s.scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}

		snapshots = append(snapshots, snapshot)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("error iterating snapshots: %w", err)
	}

	return snapshots, nil
}

func (s *Store) DeleteSnapshot(ctx context.Context, namespace, name string) error {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM snapshots WHERE namespace = $1 AND name = $2", namespace, name)
	if err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to count deleted snapshots: %w", err)
	}

	if deleted == 0 {
		return store.NotFoundError(namespace, name)
	}

	return nil
}

// HealthCheck verifies the database connection is healthy.
func (s *Store) HealthCheck(ctx context.Context) error {
	err := s.db.PingContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	return nil
}

// Close closes the database connection.
func (s *Store) Close(ctx context.Context) error {
	if s.db != nil {
		err := s.db.Close()
		if err != nil {
			return fmt.Errorf("failed to close database connection: %w", err)
		}
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *Store) scanSnapshot(row rowScanner) (*store.Snapshot, error) {
	var (
		snapshot    store.Snapshot
		pipelineRun []byte
		taskRuns    []byte
	)

	err := row.Scan(&snapshot.Revision, &pipelineRun, &taskRuns, &snapshot.UpdatedAt)
	if err != nil {
		return nil, err
	}

	snapshot.PipelineRun = &models.PipelineRun{}
	if err := json.Unmarshal(pipelineRun, snapshot.PipelineRun); err != nil {
		return nil, fmt.Errorf("failed to decode pipeline run: %w", err)
	}

	if err := json.Unmarshal(taskRuns, &snapshot.TaskRuns); err != nil {
		return nil, fmt.Errorf("failed to decode task runs: %w", err)
	}

	return &snapshot, nil
}
