// Package db owns the database connection, the schema and development fixtures.
package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/example/gmao/internal/config"
)

var db *sql.DB

var dbInitialized bool

// GetDB returns the configured database connection, initializing if needed
func GetDB() (*sql.DB, error) {
	if db != nil {
		return db, nil
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	conn, err := Open(cfg.Storage.Driver, DataSource(cfg.Storage))
	if err != nil {
		return nil, err
	}

	// Create the schema on first connection
	if !dbInitialized {
		dbInitialized = true
		if err := InitSchema(conn, cfg.Storage.Driver); err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to initialize schema: %w", err)
		}
	}

	db = conn
	return db, nil
}

// Open connects to the given driver. For sqlite3 the dsn is a file path
// (or ":memory:"); its parent directory is created when missing.
func Open(driver, dsn string) (*sql.DB, error) {
	switch driver {
	case config.DriverSQLite:
		if dsn != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(dsn), 0755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
		// Enable foreign keys on every pooled connection
		dsn += "?_foreign_keys=on"
	case config.DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if driver == config.DriverSQLite {
		// One writer at a time; also keeps ":memory:" a single database.
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return conn, nil
}

// DataSource returns the dsn matching the storage driver.
func DataSource(cfg config.StorageConfig) string {
	if cfg.Driver == config.DriverPostgres {
		return cfg.DSN
	}
	return cfg.Path
}

// Rebind rewrites ? placeholders into $1, $2... for postgres.
// Queries for other drivers are returned unchanged.
func Rebind(driver, query string) string {
	if driver != config.DriverPostgres || !strings.Contains(query, "?") {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Close closes the database connection
func Close() error {
	if db != nil {
		err := db.Close()
		db = nil
		return err
	}
	return nil
}

// GetDBPath returns the path to the sqlite database file
func GetDBPath() (string, error) {
	cfg, err := config.Load()
	if err != nil {
		return "", err
	}
	if cfg.Storage.Driver != config.DriverSQLite {
		return "", fmt.Errorf("driver %s has no database file", cfg.Storage.Driver)
	}
	return cfg.Storage.Path, nil
}
