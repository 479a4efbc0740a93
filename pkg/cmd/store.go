// Package cmd provides common initialization functions for command-line applications.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/arewm/pipegraph/pkg/store"
	"github.com/arewm/pipegraph/pkg/store/file"
	"github.com/arewm/pipegraph/pkg/store/postgres"
)

// NewStore creates a snapshot store from a URL. A postgres:// or
// postgresql:// URL selects the PostgreSQL backend; anything else is
// treated as a filesystem path.
func NewStore(ctx context.Context, logger *slog.Logger, storeURL string) (store.Store, error) {
	scheme, _, _ := strings.Cut(storeURL, "://")

	switch scheme {
	case "postgres", "postgresql":
		s, err := postgres.NewStore(ctx, logger, storeURL)
		if err != nil {
			return nil, fmt.Errorf("failed to create PostgreSQL store: %w", err)
		}

		return s, nil
	default:
		return file.NewStore(storeURL), nil
	}
}
