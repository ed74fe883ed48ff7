package repository

import (
	"context"
	"fmt"

	"github.com/yourusername/gridiron-edge/internal/config"
	"github.com/yourusername/gridiron-edge/internal/database"
)

// Repositories holds the data-layer implementations selected by configuration.
// Writer is nil for read-only drivers.
type Repositories struct {
	Stats  StatsStore
	Props  PropSource
	Writer StatsWriter
	ping   func(context.Context) error
	close  func() error
}

// NewRepositories opens the configured database driver and wires its repositories
func NewRepositories(ctx context.Context, cfg *config.DatabaseConfig) (*Repositories, error) {
	switch cfg.Driver {
	case "postgres":
		db, err := database.NewDB(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		repo := NewPostgresStatsRepository(db)
		return &Repositories{Stats: repo, Props: repo, ping: db.Ping, close: db.Close}, nil
	case "sqlite":
		db, err := database.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite: %w", err)
		}
		repo := NewSQLiteStatsRepository(db)
		return &Repositories{Stats: repo, Props: repo, Writer: repo, ping: db.Ping, close: db.Close}, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// NewMemoryRepositories wires an in-memory store as both stats and prop source
func NewMemoryRepositories(store *MemoryStore) *Repositories {
	return &Repositories{Stats: store, Props: store, Writer: store}
}

// WithProps swaps the prop-line source, e.g. for the remote odds feed
func (r *Repositories) WithProps(props PropSource) *Repositories {
	clone := *r
	clone.Props = props
	return &clone
}

// Ping checks the underlying store
func (r *Repositories) Ping(ctx context.Context) error {
	if r.ping == nil {
		return nil
	}
	return r.ping(ctx)
}

// Close releases the underlying connections
func (r *Repositories) Close() error {
	if r.close == nil {
		return nil
	}
	return r.close()
}
