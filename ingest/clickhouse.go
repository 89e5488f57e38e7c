package ingest

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pivolan/sales_insights/domain/models"
)

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// OpenDB connects to ClickHouse (or MySQL) over the MySQL wire protocol.
func OpenDB(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("cannot connect to clickhouse: %w", err)
	}
	return db, nil
}

// IsPostgres reports whether dsn is a PostgreSQL URL.
func IsPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// ReadDatabase reads table from the database dsn points at. PostgreSQL URLs
// go through pgx, anything else through the MySQL protocol.
func ReadDatabase(ctx context.Context, dsn, table string) (models.RawTable, error) {
	if err := checkTableName(table); err != nil {
		return models.RawTable{}, err
	}
	if IsPostgres(dsn) {
		db, err := sql.Open("pgx", dsn)
		if err != nil {
			return models.RawTable{}, fmt.Errorf("cannot connect to postgres: %w", err)
		}
		defer db.Close()
		return ReadSQL(ctx, db, table)
	}
	db, err := OpenDB(dsn)
	if err != nil {
		return models.RawTable{}, err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	return ReadTable(db.WithContext(ctx), table)
}

// ReadTable reads every row of a table as text cells. NULLs become empty
// cells, which the normalizer treats as missing.
func ReadTable(db *gorm.DB, table string) (models.RawTable, error) {
	if err := checkTableName(table); err != nil {
		return models.RawTable{}, err
	}
	rows, err := db.Raw("SELECT * FROM " + table).Rows()
	if err != nil {
		return models.RawTable{}, models.NewDataFormatError(table, err, "query failed")
	}
	return scanRows(rows, table)
}

// ReadSQL is ReadTable for a plain database/sql handle.
func ReadSQL(ctx context.Context, db *sql.DB, table string) (models.RawTable, error) {
	if err := checkTableName(table); err != nil {
		return models.RawTable{}, err
	}
	rows, err := db.QueryContext(ctx, "SELECT * FROM "+table)
	if err != nil {
		return models.RawTable{}, models.NewDataFormatError(table, err, "query failed")
	}
	return scanRows(rows, table)
}

func checkTableName(table string) error {
	if !tableName.MatchString(table) {
		return models.NewDataFormatError(table, nil, "invalid table name %q", table)
	}
	return nil
}

func scanRows(rows *sql.Rows, table string) (models.RawTable, error) {
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return models.RawTable{}, models.NewDataFormatError(table, err, "cannot read columns")
	}
	raw := models.RawTable{Columns: CanonicalHeaders(columns)}

	values := make([]sql.NullString, len(columns))
	ptrs := make([]interface{}, len(columns))
	for i := range values {
		ptrs[i] = &values[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return models.RawTable{}, models.NewDataFormatError(table, err, "cannot decode row %d", len(raw.Rows)+1)
		}
		row := make([]string, len(values))
		for i, v := range values {
			if v.Valid {
				row[i] = v.String
			}
		}
		raw.Rows = append(raw.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return models.RawTable{}, models.NewDataFormatError(table, err, "cannot read rows")
	}
	return raw, nil
}
