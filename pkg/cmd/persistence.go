// Package cmd provides common initialization for the command-line entrypoints.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/scoutflow/scoutflow/pkg/persistence"
	"github.com/scoutflow/scoutflow/pkg/persistence/file"
	"github.com/scoutflow/scoutflow/pkg/persistence/postgresql"
	"github.com/scoutflow/scoutflow/pkg/persistence/redis"
)

// NewPersistence selects a backend by the URL scheme: postgres:// and
// postgresql:// map to PostgreSQL, redis:// to Redis, everything else to the
// file backend.
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL string) (persistence.Persistence, error) {
	switch parseProvider(databaseURL) {
	case "postgres", "postgresql":
		p, err := postgresql.NewPersistence(ctx, logger, databaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize postgresql persistence: %w", err)
		}

		return p, nil
	case "redis":
		p, err := redis.NewPersistence(databaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize redis persistence: %w", err)
		}

		return p, nil
	default:
		return file.NewPersistence(databaseURL), nil
	}
}

func parseProvider(databaseURL string) string {
	provider, _, found := strings.Cut(databaseURL, "://")
	if !found {
		return "file"
	}

	return provider
}
