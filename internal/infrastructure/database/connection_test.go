package database_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/colony-engine/internal/infrastructure/config"
	"github.com/andrescamacho/colony-engine/internal/infrastructure/database"
)

func TestNewTestConnection_MigratesEconomyTables(t *testing.T) {
	db, err := database.NewTestConnection()
	require.NoError(t, err)
	defer database.Close(db)

	for _, table := range []string{"player_resources", "track_records", "resource_transactions"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
}

func TestNewConnection_SQLiteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "colony.db")

	db, err := database.NewConnection(&config.DatabaseConfig{Type: "sqlite", Path: path, AutoMigrate: true})
	require.NoError(t, err)
	require.NoError(t, database.Close(db))

	// reopening without migration sees the schema written to disk
	db, err = database.NewConnection(&config.DatabaseConfig{Type: "sqlite", Path: path})
	require.NoError(t, err)
	defer database.Close(db)
	assert.True(t, db.Migrator().HasTable("player_resources"))
}

func TestNewConnection_RejectsUnknownType(t *testing.T) {
	_, err := database.NewConnection(&config.DatabaseConfig{Type: "mysql"})

	assert.ErrorContains(t, err, "unsupported database type")
}
