package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/schema"
)

// Supported drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Options configures Open.
type Options struct {
	Driver          string
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	// LogQueries installs a QueryLogHook writing to Logger.
	LogQueries bool
	Logger     logrus.FieldLogger
}

// Open connects to the configured database and wraps it in a bun.DB.
func Open(opts Options) (*bun.DB, error) {
	var (
		driverName string
		dialect    schema.Dialect
	)

	switch opts.Driver {
	case DriverSQLite, "sqlite3":
		driverName, dialect = "sqlite3", sqlitedialect.New()
	case DriverPostgres, "postgresql":
		driverName, dialect = "postgres", pgdialect.New()
	default:
		return nil, fmt.Errorf("store: unsupported driver %q", opts.Driver)
	}

	sqldb, err := sql.Open(driverName, opts.DSN)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", opts.Driver, err)
	}

	if opts.MaxOpenConns > 0 {
		sqldb.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		sqldb.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.ConnMaxLifetime > 0 {
		sqldb.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}

	db := bun.NewDB(sqldb, dialect)
	if opts.LogQueries {
		db.AddQueryHook(NewQueryLogHook(opts.Logger))
	}
	return db, nil
}

// CreateSchema creates a table for every model that does not exist yet.
func CreateSchema(ctx context.Context, db bun.IDB, models ...any) error {
	for _, model := range models {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("store: create table for %T: %w", model, err)
		}
	}
	return nil
}
