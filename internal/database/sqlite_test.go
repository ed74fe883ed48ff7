package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSQLiteMemory(t *testing.T) {
	ctx := context.Background()

	db, err := OpenSQLite(ctx, MemoryPath)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.Ping(ctx))

	var count int
	err = db.Conn().QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN (?, ?, ?, ?)",
		"stat_aggregates", "defense_aggregates", "context_records", "prop_lines",
	).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}

func TestOpenSQLiteFileIsIdempotent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "gridiron.db")

	db, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer db.Close()
	assert.Equal(t, path, db.Path())
}
