package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/colony-engine/internal/domain/colony"
	"github.com/andrescamacho/colony-engine/internal/infrastructure/config"
)

func sqliteEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "")
	t.Setenv("COLONY_DATABASE_TYPE", "sqlite")
}

func TestLoadConfig_DefaultsMatchStandardPolicy(t *testing.T) {
	sqliteEnv(t)

	cfg, err := config.LoadConfig("")

	require.NoError(t, err)
	assert.Equal(t, "colony.db", cfg.Database.Path)
	assert.Equal(t, 9090, cfg.Metrics.Port)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.False(t, cfg.Economy.Sweep.Enabled)
	assert.Equal(t, time.Minute, cfg.Economy.Sweep.Interval)
	assert.Equal(t, colony.DefaultPolicy(), cfg.Economy.Policy())
}

func TestLoadConfig_EnvironmentOverridesEconomy(t *testing.T) {
	sqliteEnv(t)
	t.Setenv("COLONY_ECONOMY_REFUND_RATIO", "0.25")
	t.Setenv("COLONY_ECONOMY_STARTING_STOCK_DEUTERIUM", "100")
	t.Setenv("COLONY_ECONOMY_STARTING_STOCK_METAL", "1000")

	cfg, err := config.LoadConfig("")
	require.NoError(t, err)

	policy := cfg.Economy.Policy()
	assert.Equal(t, 0.25, policy.RefundRatio)
	assert.Equal(t, 1000.0, policy.Defaults.Stock.Metal)
	assert.Equal(t, 100.0, policy.Defaults.Stock.Deuterium)
	// a partially set section keeps its unset fields at zero
	assert.Equal(t, 0.0, policy.Defaults.Stock.Crystal)
}

func TestLoadConfig_RejectsRefundRatioAboveHalf(t *testing.T) {
	sqliteEnv(t)
	t.Setenv("COLONY_ECONOMY_REFUND_RATIO", "0.9")

	_, err := config.LoadConfig("")

	assert.ErrorContains(t, err, "invalid configuration")
}

func TestLoadConfig_ReadsYAMLFile(t *testing.T) {
	sqliteEnv(t)
	path := filepath.Join(t.TempDir(), "colony.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
database:
  type: sqlite
  path: /tmp/economy.db
economy:
  max_defense_batch: 50
  sweep:
    enabled: true
    interval: 30s
    players_per_second: 2.5
`), 0o600))

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/economy.db", cfg.Database.Path)
	assert.Equal(t, 50, cfg.Economy.MaxDefenseBatch)
	assert.True(t, cfg.Economy.Sweep.Enabled)
	assert.Equal(t, 30*time.Second, cfg.Economy.Sweep.Interval)
	assert.Equal(t, 2.5, cfg.Economy.Sweep.PlayersPerSecond)
}

func TestLoadConfigOrDefault_FallsBackOnInvalidConfig(t *testing.T) {
	sqliteEnv(t)
	t.Setenv("COLONY_ECONOMY_REFUND_RATIO", "-1")

	cfg := config.LoadConfigOrDefault("")

	assert.Equal(t, 0.5, cfg.Economy.RefundRatio)
	assert.Equal(t, "postgres", cfg.Database.Type)
}

func TestLoadConfig_RejectsSpinningSweep(t *testing.T) {
	sqliteEnv(t)
	t.Setenv("COLONY_ECONOMY_SWEEP_ENABLED", "true")
	t.Setenv("COLONY_ECONOMY_SWEEP_INTERVAL", "100ms")

	_, err := config.LoadConfig("")

	assert.ErrorContains(t, err, "Config.Economy.Sweep.Interval")
}

func TestLoadConfig_PostgresNeedsURLOrHost(t *testing.T) {
	sqliteEnv(t)
	t.Setenv("COLONY_DATABASE_TYPE", "postgres")
	t.Setenv("COLONY_DATABASE_URL", "postgresql://colony@db:5432/colony")

	cfg, err := config.LoadConfig("")

	require.NoError(t, err)
	assert.Equal(t, "postgresql://colony@db:5432/colony", cfg.Database.URL)
}
