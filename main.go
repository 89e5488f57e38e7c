package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/pivolan/sales_insights/config"
	"github.com/pivolan/sales_insights/insight"
)

type globalFlags struct {
	envFile  string
	dataPath string
	dbDsn    string
	dbTable  string
	logLevel string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}
	root := &cobra.Command{
		Use:           "sales_insights",
		Short:         "Turn free-text questions about a sales dataset into charts",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	pf := root.PersistentFlags()
	pf.StringVar(&flags.envFile, "env-file", ".env", "dotenv file to load")
	pf.StringVar(&flags.dataPath, "data", "", "CSV file (.csv, .gz, .zip, .lz4); overrides DATA_PATH")
	pf.StringVar(&flags.dbDsn, "db-dsn", "", "ClickHouse/MySQL DSN or postgres:// URL; overrides DB_DSN")
	pf.StringVar(&flags.dbTable, "db-table", "", "table to read when a DSN is set; overrides DB_TABLE")
	pf.StringVar(&flags.logLevel, "log-level", "", "debug, info, warn or error; overrides LOG_LEVEL")

	root.AddCommand(
		newServeCmd(flags),
		newBotCmd(flags),
		newQueryCmd(flags),
		newSummaryCmd(flags),
	)
	return root
}

// loadConfig merges the environment with command line overrides.
func loadConfig(flags *globalFlags) (*config.Config, error) {
	cfg, err := config.Load(flags.envFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if flags.dataPath != "" {
		cfg.DataPath = flags.dataPath
	}
	if flags.dbDsn != "" {
		cfg.DbDsn = flags.dbDsn
	}
	if flags.dbTable != "" {
		cfg.DbTable = flags.dbTable
	}
	if flags.logLevel != "" {
		cfg.LogLevel = flags.logLevel
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	zcfg := zap.NewDevelopmentConfig()
	if cfg.IsProduction() {
		zcfg = zap.NewProductionConfig()
	}
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	log, err := zcfg.Build()
	if err != nil {
		return nil, err
	}
	if cfg.LogFile != "" {
		log = log.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
			return zapcore.NewTee(core, fileCore(cfg.LogFile, zcfg.Level))
		}))
	}
	return log, nil
}

// fileCore writes JSON lines to a size-rotated file.
func fileCore(path string, level zapcore.LevelEnabler) zapcore.Core {
	w := zapcore.AddSync(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    100,
		MaxBackups: 3,
		MaxAge:     28,
	})
	return zapcore.NewCore(zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), w, level)
}

// loadService performs the one-time load of the dataset.
func loadService(ctx context.Context, cfg *config.Config, log *zap.Logger) (*insight.Service, error) {
	var (
		svc *insight.Service
		err error
	)
	if cfg.UseDatabase() {
		log.Info("loading table", zap.String("table", cfg.DbTable))
		svc, err = insight.LoadFromDB(ctx, cfg.DbDsn, cfg.DbTable)
	} else {
		log.Info("loading file", zap.String("path", cfg.DataPath))
		svc, err = insight.Load(cfg.DataPath)
	}
	if err != nil {
		return nil, err
	}
	log.Info("dataset ready",
		zap.String("source", svc.Source()),
		zap.Int("rows", svc.Table().Len()),
		zap.Strings("columns", svc.Table().Columns),
	)
	return svc, nil
}

// setup is the common prologue of every command.
func setup(cmd *cobra.Command, flags *globalFlags) (*config.Config, *zap.Logger, *insight.Service, error) {
	cfg, err := loadConfig(flags)
	if err != nil {
		return nil, nil, nil, err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	svc, err := loadService(cmd.Context(), cfg, log)
	if err != nil {
		log.Error("cannot load dataset", zap.Error(err))
		_ = log.Sync()
		return nil, nil, nil, err
	}
	return cfg, log, svc, nil
}
