package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

const (
	DefaultListenAddr = ":8005"
	DefaultDataPath   = "datasets/sales_data.csv"
	DefaultLogLevel   = "info"
	DefaultEnv        = "development"
)

type Config struct {
	DataPath   string
	DbDsn      string
	DbTable    string
	ListenAddr string
	TgToken    string
	LogLevel   string
	LogFile    string
	Env        string
}

// Load reads .env files (when present) into the environment and builds a
// Config from it. Variables already set in the environment win.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	return &Config{
		DataPath:   getenv("DATA_PATH", DefaultDataPath),
		DbDsn:      os.Getenv("DB_DSN"),
		DbTable:    os.Getenv("DB_TABLE"),
		ListenAddr: getenv("LISTEN_ADDR", DefaultListenAddr),
		TgToken:    os.Getenv("TG_TOKEN"),
		LogLevel:   getenv("LOG_LEVEL", DefaultLogLevel),
		LogFile:    os.Getenv("LOG_FILE"),
		Env:        getenv("APP_ENV", DefaultEnv),
	}, nil
}

// UseDatabase reports whether the table should be read from DbDsn rather
// than DataPath.
func (c *Config) UseDatabase() bool {
	return c.DbDsn != "" && c.DbTable != ""
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getenv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
