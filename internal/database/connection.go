// Package database implements the durable progress store: the single
// owner of the progress ledger. Every other component reads and
// mutates scheduling state only through this package, never by
// holding its own reference to the underlying rows.
package database

import (
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// Config selects the driver and the data source for a Store.
type Config struct {
	// Driver is DriverSQLite (the default for a local install) or
	// DriverPostgres.
	Driver string
	// DSN is the file path for sqlite, or a connection string for
	// postgres.
	DSN string
}

// Store is the progress store. It is an explicit, injectable instance:
// callers hold or are passed a reference, and there is no package-level
// singleton.
type Store struct {
	db     *sqlx.DB
	driver string
}

// Open connects to the database and brings its schema up to the
// current version. A database created by a newer build fails closed
// with models.ErrUnknownSchemaVersion.
func Open(cfg Config) (*Store, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = DriverSQLite
	}

	if driver == DriverSQLite {
		if dir := filepath.Dir(cfg.DSN); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, errors.Wrap(err, "create data directory")
			}
		}
	}

	db, err := sqlx.Connect(driver, cfg.DSN)
	if err != nil {
		return nil, errors.Wrapf(err, "connect %s", driver)
	}

	if driver == DriverSQLite {
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return nil, errors.Wrap(err, "enable foreign keys")
		}
		// SQLite allows a single writer.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	s := &Store{db: db, driver: driver}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// rebind translates ?-style placeholders to the driver's dialect.
func (s *Store) rebind(query string) string {
	return s.db.Rebind(query)
}
