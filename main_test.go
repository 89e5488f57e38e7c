package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pivolan/sales_insights/config"
	"github.com/pivolan/sales_insights/domain/models"
	"github.com/pivolan/sales_insights/insight"
	"github.com/pivolan/sales_insights/normalize"
)

func testService(t *testing.T) *insight.Service {
	t.Helper()
	table, err := normalize.Normalize(models.RawTable{
		Columns: []string{"Date", "Region", "Product", "Product_Category", "Salesperson", "Sales", "Cost", "Discount", "Customer_Rating"},
		Rows: [][]string{
			{"2024-01-01", "east", "Kite", "toys", "Adam", "100", "60", "20", "4"},
			{"2024-01-02", "west", "Atlas", "books", "Zoe", "50", "20", "5", "3"},
			{"2024-01-03", "east", "Kite", "toys", "Adam", "30", "10", "16", "5"},
		},
	})
	require.NoError(t, err)
	return insight.New("test", table)
}

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func TestNewLoggerLevels(t *testing.T) {
	_, err := newLogger(&config.Config{LogLevel: "loud", Env: config.DefaultEnv})
	assert.Error(t, err)

	log, err := newLogger(&config.Config{LogLevel: "warn", Env: "production"})
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(zap.InfoLevel))
	assert.True(t, log.Core().Enabled(zap.WarnLevel))
}

func TestNewLoggerFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sales.log")
	log, err := newLogger(&config.Config{LogLevel: "info", LogFile: path, Env: "production"})
	require.NoError(t, err)
	log.Info("dataset ready", zap.Int("rows", 3))
	_ = log.Sync()

	body, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"msg":"dataset ready"`)
	assert.Contains(t, string(body), `"rows":3`)
}

func TestLoadConfigOverrides(t *testing.T) {
	for _, k := range []string{"DATA_PATH", "DB_DSN", "DB_TABLE", "LOG_LEVEL"} {
		t.Setenv(k, "")
	}
	flags := &globalFlags{
		envFile:  filepath.Join(t.TempDir(), "none.env"),
		dataPath: "sales.csv.gz",
		dbDsn:    "postgres://localhost/sales",
		dbTable:  "orders",
		logLevel: "debug",
	}
	cfg, err := loadConfig(flags)
	require.NoError(t, err)
	assert.Equal(t, "sales.csv.gz", cfg.DataPath)
	assert.Equal(t, "postgres://localhost/sales", cfg.DbDsn)
	assert.Equal(t, "orders", cfg.DbTable)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.UseDatabase())
}
