package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsRecordVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "buckets.db")

	s, err := NewSQLiteStore(path, nil)
	require.NoError(t, err)

	var version int
	require.NoError(t, s.db.Get(&version, "SELECT MAX(version) FROM schema_version"))
	assert.Equal(t, migrations[len(migrations)-1].version, version)
	require.NoError(t, s.Close())

	// Reopening applies nothing and records nothing new.
	s, err = NewSQLiteStore(path, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	var rows int
	require.NoError(t, s.db.Get(&rows, "SELECT COUNT(*) FROM schema_version"))
	assert.Equal(t, len(migrations), rows)
}

func TestMigrationVersionsSequential(t *testing.T) {
	for i, m := range migrations {
		assert.Equal(t, i+1, m.version)
	}
}
