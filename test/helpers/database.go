package helpers

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/andrescamacho/colony-engine/internal/infrastructure/database"
)

// economyTables are the tables every fixture expects, children before parents
var economyTables = []string{
	"resource_transactions",
	"track_records",
	"player_resources",
}

// NewTestDB opens a migrated in-memory economy database that closes with the test
func NewTestDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := database.NewTestConnection()
	require.NoError(t, err, "open test database")
	for _, table := range economyTables {
		require.True(t, db.Migrator().HasTable(table), "table %s not migrated", table)
	}

	t.Cleanup(func() { _ = database.Close(db) })
	return db
}
