package database

import (
	"path/filepath"
	"strings"
	"testing"

	"dota-coach/internal/config"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := migrationsFS.ReadDir("migrations")
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	for _, e := range entries {
		assert.True(t, strings.HasSuffix(e.Name(), ".sql"), "unexpected file %s", e.Name())
	}
}

func TestNewOpensAndMigrates(t *testing.T) {
	cfg := &config.Config{DBPath: filepath.Join(t.TempDir(), "coach.db")}

	db, err := New(cfg, zerolog.Nop())
	require.NoError(t, err)
	defer db.Close()

	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type = 'table'`)
	require.NoError(t, err)
	defer rows.Close()

	tables := map[string]bool{}
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		tables[name] = true
	}
	require.NoError(t, rows.Err())

	assert.True(t, tables["analyses"])
	assert.True(t, tables["hero_benchmarks"])
	assert.True(t, tables["history_matches"])
}
