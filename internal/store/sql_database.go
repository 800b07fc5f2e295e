package store

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/device-sync/internal/config"
	"github.com/MKhiriev/device-sync/internal/logger"
	"github.com/MKhiriev/device-sync/migrations"
)

// ErrorClassificator maps driver errors onto the categories repositories
// care about.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
	IsUniqueViolation(err error) bool
}

// DB is a database handle bound to one SQL dialect.
//
// builder produces squirrel statements with the dialect's placeholder
// format: "$n" for Postgres and "?" for SQLite.
type DB struct {
	*sql.DB
	driver             string
	builder            sq.StatementBuilderType
	errorClassificator ErrorClassificator
	logger             *logger.Logger
}

// NewDB wraps an already opened connection. driver is one of
// config.DriverPostgres or config.DriverSQLite.
func NewDB(conn *sql.DB, driver string, log *logger.Logger) *DB {
	db := &DB{
		DB:     conn,
		driver: driver,
		logger: log,
	}

	switch driver {
	case config.DriverSQLite:
		db.builder = sq.StatementBuilder.PlaceholderFormat(sq.Question)
		db.errorClassificator = NewSQLiteErrorClassifier()
	default:
		db.builder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
		db.errorClassificator = NewPostgresErrorClassifier()
	}

	return db
}

// NewConnect opens the database selected by cfg.Driver. An empty driver
// means Postgres.
func NewConnect(ctx context.Context, cfg config.DB, log *logger.Logger) (*DB, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		return NewConnectSQLite(ctx, cfg, log)
	case config.DriverPostgres, "":
		return NewConnectPostgres(ctx, cfg, log)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, cfg.Driver)
	}
}

// Migrate applies the embedded schema using the goose dialect matching the
// driver.
func (db *DB) Migrate() error {
	dialect := "postgres"
	if db.driver == config.DriverSQLite {
		dialect = "sqlite3"
	}
	return migrations.Migrate(db.DB, dialect)
}

// isPostgres reports whether Postgres-only statements may be used.
func (db *DB) isPostgres() bool {
	return db.driver != config.DriverSQLite
}

// wrap attaches op to err, plus ErrTransient when the driver reports the
// failure as retryable.
func (db *DB) wrap(op, err error) error {
	if db.errorClassificator != nil && db.errorClassificator.Classify(err) == Retryable {
		return fmt.Errorf("%w: %w: %w", op, ErrTransient, err)
	}
	return fmt.Errorf("%w: %w", op, err)
}
