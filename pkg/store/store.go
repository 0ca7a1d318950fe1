// Package store persists the task snapshot between runs.
package store

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/harrisonrobin/timecoach/pkg/model"
)

// Store loads and saves the whole ordered task list. Save replaces what was
// stored before.
type Store interface {
	Load(ctx context.Context) ([]model.Task, error)
	Save(ctx context.Context, tasks []model.Task) error
	Close() error
}

// Open returns the store for driver ("json" or "sqlite") at path.
func Open(driver, path string, log zerolog.Logger) (Store, error) {
	switch driver {
	case "", "json":
		return NewJSONStore(path, log), nil
	case "sqlite":
		return NewSQLiteStore(path, log)
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}
