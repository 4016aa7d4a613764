// Package store implements a small local object store on top of sqlite.
//
// A store holds a single collection of JSON documents. Each document gets an
// auto-incremented integer identity that is written back into the document at
// the schema key path. Secondary indexes are declared with a key path into the
// document and are materialised as sqlite expression indexes.
//
// The schema evolves through an ordered list of additive migration steps. A
// step only ever creates what is missing (the collection, indexes), so every
// step is safe to re-run and existing documents are never rewritten: old
// documents are expected to be upgraded lazily by their readers.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

var (
	// ErrUnavailable is returned when the store cannot be opened or migrated.
	ErrUnavailable = errors.New("store unavailable")
	// ErrTransaction is returned when sqlite rejects an operation.
	ErrTransaction = errors.New("store transaction failed")
	// ErrReadOnly is returned when a write is attempted inside View.
	ErrReadOnly = errors.New("read-only transaction")
)

// Index declares a secondary index over a document property.
type Index struct {
	Name    string // unique among the schema indexes
	KeyPath string // dot separated path into the document, e.g. "productName"
	Unique  bool
}

// Migration is one additive schema step. It is applied once, when the
// database version is lower than Version.
type Migration struct {
	Version int
	Indexes []Index
}

// Schema describes the collection and its evolution.
type Schema struct {
	Collection string      // table name
	KeyPath    string      // where the identity is written in each document
	Migrations []Migration // in strictly increasing Version order
}

// Version returns the version reached once every migration is applied.
func (s Schema) Version() int {
	if len(s.Migrations) == 0 {
		return 0
	}
	return s.Migrations[len(s.Migrations)-1].Version
}

var (
	identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	keyPath    = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)*$`)
)

// validate checks everything that ends up interpolated in SQL statements.
func (s Schema) validate() error {
	if !identifier.MatchString(s.Collection) {
		return fmt.Errorf("invalid collection name %q", s.Collection)
	}
	if !keyPath.MatchString(s.KeyPath) {
		return fmt.Errorf("invalid key path %q", s.KeyPath)
	}
	if len(s.Migrations) == 0 {
		return errors.New("schema has no migration")
	}
	names := make(map[string]bool)
	last := 0
	for _, m := range s.Migrations {
		if m.Version <= last {
			return fmt.Errorf("migration version %d must be greater than %d", m.Version, last)
		}
		last = m.Version
		for _, idx := range m.Indexes {
			if !identifier.MatchString(idx.Name) {
				return fmt.Errorf("invalid index name %q", idx.Name)
			}
			if !keyPath.MatchString(idx.KeyPath) {
				return fmt.Errorf("invalid key path %q for index %q", idx.KeyPath, idx.Name)
			}
			if names[idx.Name] {
				return fmt.Errorf("index %q is declared twice", idx.Name)
			}
			names[idx.Name] = true
		}
	}
	return nil
}

// DB is an open store. It is safe to share for the whole session; all
// operations are serialized on a single sqlite connection.
type DB struct {
	sql     *sql.DB
	path    string
	schema  Schema
	version int
	indexes map[string]Index
	log     zerolog.Logger
}

// Option configures Open.
type Option func(*DB)

// WithLogger sets the logger used for migrations and transaction failures.
func WithLogger(l zerolog.Logger) Option { return func(db *DB) { db.log = l } }

// Open opens or creates the store at path (":memory:" for a transient store)
// and applies the pending migrations of 'schema'.
//
// Every failure is wrapped with ErrUnavailable.
func Open(ctx context.Context, path string, schema Schema, opts ...Option) (*DB, error) {
	if err := schema.validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	db := &DB{
		path:    path,
		schema:  schema,
		indexes: make(map[string]Index),
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(db)
	}
	for _, m := range schema.Migrations {
		for _, idx := range m.Indexes {
			db.indexes[idx.Name] = idx
		}
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %q: %w", ErrUnavailable, path, err)
	}
	// One connection: a single logical writer, and ":memory:" databases
	// would otherwise be one per connection.
	conn.SetMaxOpenConns(1)
	db.sql = conn

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := conn.ExecContext(ctx, p); err != nil {
			conn.Close()
			return nil, fmt.Errorf("%w: %s on %q: %w", ErrUnavailable, p, path, err)
		}
	}

	if err := db.migrate(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("%w: migrate %q: %w", ErrUnavailable, path, err)
	}
	return db, nil
}

// Close releases the underlying database.
func (db *DB) Close() error { return db.sql.Close() }

// Version returns the schema version of the open store.
func (db *DB) Version() int { return db.version }

// Indexes returns the names of the declared indexes, sorted.
func (db *DB) Indexes() []string {
	names := make([]string, 0, len(db.indexes))
	for name := range db.indexes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// migrate applies, in a single transaction, every step above the current
// user_version and records the new version.
func (db *DB) migrate(ctx context.Context) error {
	var current int
	if err := db.sql.QueryRowContext(ctx, "PRAGMA user_version").Scan(&current); err != nil {
		return fmt.Errorf("cannot read schema version: %w", err)
	}
	target := db.schema.Version()
	if current > target {
		return fmt.Errorf("database version %d is newer than supported version %d", current, target)
	}
	db.version = current
	if current == target {
		return nil
	}

	tx, err := db.sql.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, m := range db.schema.Migrations {
		if m.Version <= current {
			continue
		}
		for _, stmt := range db.statements(m) {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("migration %d: %q: %w", m.Version, stmt, err)
			}
		}
		db.log.Debug().Int("version", m.Version).Int("indexes", len(m.Indexes)).Msg("applied schema migration")
	}
	// PRAGMA does not accept bound parameters, target is an int.
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", target)); err != nil {
		return fmt.Errorf("cannot record schema version %d: %w", target, err)
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	db.log.Info().Int("from", current).Int("to", target).Str("path", db.path).Msg("store upgraded")
	db.version = target
	return nil
}

// statements returns the idempotent DDL for a migration step.
func (db *DB) statements(m Migration) []string {
	coll := db.schema.Collection
	stmts := []string{fmt.Sprintf(
		`CREATE TABLE IF NOT EXISTS %s (id INTEGER PRIMARY KEY AUTOINCREMENT, doc TEXT NOT NULL CHECK (json_valid(doc)))`,
		coll)}
	for _, idx := range m.Indexes {
		unique := ""
		if idx.Unique {
			unique = "UNIQUE "
		}
		stmts = append(stmts, fmt.Sprintf(`CREATE %sINDEX IF NOT EXISTS %s_%s ON %s (%s)`,
			unique, coll, idx.Name, coll, keyExpr(idx.KeyPath)))
	}
	return stmts
}

// keyExpr is the SQL expression extracting keyPath from a document. Queries
// must use the very same text for sqlite to pick the expression index.
func keyExpr(path string) string {
	return fmt.Sprintf("json_extract(doc, '$.%s')", path)
}

// jsonPath is the sqlite JSON path for a key path.
func jsonPath(path string) string { return "$." + strings.TrimPrefix(path, "$.") }
