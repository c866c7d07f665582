package store

import (
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Catalog schema versions, stored in PRAGMA user_version:
// 0 - rules table only
// 1 - listing index on rules(package, seq, id)
const currentSchemaVersion = 1

// catalogPragmas are applied to every connection the catalog opens.
// WAL lets `list` and `show` read while a `compile --db` writes.
var catalogPragmas = []string{
	"PRAGMA journal_mode = WAL",
	"PRAGMA synchronous = NORMAL",
	"PRAGMA busy_timeout = 5000",
	"PRAGMA foreign_keys = ON",
}

// migration upgrades a catalog to version.
type migration struct {
	version int
	stmt    string
}

var migrations = []migration{
	{version: 1, stmt: `CREATE INDEX IF NOT EXISTS idx_rules_package_seq ON rules(package, seq, id)`},
}

// Store is the compiled rule catalog.
type Store struct {
	db *sql.DB
}

// Open opens the catalog at path, creating the file and the rules table if
// needed and upgrading older catalogs. Opening an up-to-date catalog again
// changes nothing.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open catalog %s: %w", path, err)
	}

	// One connection: SQLite has a single writer, and ":memory:" catalogs
	// exist only on the connection that created them.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := prepareCatalog(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("open catalog %s: %w", path, err)
	}

	slog.Debug("opened rule catalog", "path", path, "schema_version", currentSchemaVersion)
	return &Store{db: db}, nil
}

// Close closes the catalog.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func prepareCatalog(db *sql.DB) error {
	if err := db.Ping(); err != nil {
		return fmt.Errorf("connect: %w", err)
	}

	for _, pragma := range catalogPragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("%s: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	return migrate(db)
}

// migrate runs every migration newer than the catalog's user_version and
// records the current version.
func migrate(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	for _, m := range migrations {
		if m.version <= version {
			continue
		}
		if _, err := db.Exec(m.stmt); err != nil {
			return fmt.Errorf("migrate to v%d: %w", m.version, err)
		}
		slog.Debug("migrated rule catalog", "version", m.version)
	}

	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("write user_version: %w", err)
	}
	return nil
}

// verifyPragma reports an error unless PRAGMA name reads expected.
func (s *Store) verifyPragma(name, expected string) error {
	var value string
	if err := s.db.QueryRow("PRAGMA " + name).Scan(&value); err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, want %q", name, value, expected)
	}
	return nil
}
