package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitConfig_EmbeddedDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := InitConfig()
	require.NoError(t, err)
	assert.Equal(t, SourceCSV, cfg.Dataset.Source)
	assert.Equal(t, "8000", cfg.Server.HTTPPort)
	assert.Equal(t, 5, cfg.Recommender.DefaultCount)
	assert.Equal(t, 50, cfg.Recommender.MaxCount)
	assert.Equal(t, "9090", cfg.Handlers.Prometheus.Port)
	assert.Equal(t, "disable", cfg.Repositories.Postgres.SSLMODE)
}

func TestInitConfig_EnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("TRAVEL_DATASET_SOURCE", "postgres")

	cfg, err := InitConfig()
	require.NoError(t, err)
	assert.Equal(t, SourcePostgres, cfg.Dataset.Source)
}

func TestValidate(t *testing.T) {
	var cfg Config
	cfg.Dataset.Source = "s3"
	assert.Error(t, cfg.Validate())

	cfg.Dataset.Source = SourceCSV
	assert.Error(t, cfg.Validate())

	cfg.Dataset.DestinationsPath = "d.csv"
	cfg.Dataset.HistoryPath = "h.csv"
	assert.NoError(t, cfg.Validate())

	cfg.Recommender.MaxCount = -1
	assert.Error(t, cfg.Validate())
}
