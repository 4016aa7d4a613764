package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// Object is a stored document and its identity.
type Object struct {
	ID  int64
	Doc json.RawMessage
}

// Tx is a transaction over the store collection. It is only valid inside the
// function passed to View or Update.
type Tx struct {
	ctx      context.Context
	tx       *sql.Tx
	db       *DB
	writable bool
}

// View runs fn in a read-only transaction.
func (db *DB) View(ctx context.Context, fn func(*Tx) error) error {
	return db.run(ctx, false, fn)
}

// Update runs fn in a read-write transaction. The transaction is committed
// when fn returns nil and rolled back otherwise; the error returned by fn is
// returned unchanged.
func (db *DB) Update(ctx context.Context, fn func(*Tx) error) error {
	return db.run(ctx, true, fn)
}

func (db *DB) run(ctx context.Context, writable bool, fn func(*Tx) error) error {
	sqltx, err := db.sql.BeginTx(ctx, nil)
	if err != nil {
		return db.fail("begin", err)
	}
	tx := &Tx{ctx: ctx, tx: sqltx, db: db, writable: writable}
	if err := fn(tx); err != nil {
		sqltx.Rollback()
		return err
	}
	if !writable {
		sqltx.Rollback()
		return nil
	}
	if err := sqltx.Commit(); err != nil {
		return db.fail("commit", err)
	}
	return nil
}

// fail logs and wraps a sqlite error with ErrTransaction.
func (db *DB) fail(op string, err error) error {
	db.log.Error().Err(err).Str("op", op).Str("collection", db.schema.Collection).Msg("store operation failed")
	return fmt.Errorf("%w: %s: %w", ErrTransaction, op, err)
}

func (tx *Tx) checkWritable(op string) error {
	if !tx.writable {
		return fmt.Errorf("%w: %s: %w", ErrTransaction, op, ErrReadOnly)
	}
	return nil
}

// Add inserts doc, assigns it a new identity, writes that identity at the
// schema key path and returns it.
func (tx *Tx) Add(doc json.RawMessage) (int64, error) {
	if err := tx.checkWritable("add"); err != nil {
		return 0, err
	}
	coll := tx.db.schema.Collection
	res, err := tx.tx.ExecContext(tx.ctx, fmt.Sprintf(`INSERT INTO %s (doc) VALUES (json(?))`, coll), string(doc))
	if err != nil {
		return 0, tx.db.fail("add", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, tx.db.fail("add", err)
	}
	stmt := fmt.Sprintf(`UPDATE %s SET doc = json_set(doc, ?, id) WHERE id = ?`, coll)
	if _, err := tx.tx.ExecContext(tx.ctx, stmt, jsonPath(tx.db.schema.KeyPath), id); err != nil {
		return 0, tx.db.fail("add", err)
	}
	return id, nil
}

// Put stores doc under id, replacing any existing document. The identity is
// written at the schema key path.
func (tx *Tx) Put(id int64, doc json.RawMessage) error {
	if err := tx.checkWritable("put"); err != nil {
		return err
	}
	stmt := fmt.Sprintf(`INSERT INTO %s (id, doc) VALUES (?1, json_set(json(?2), ?3, ?1))
ON CONFLICT (id) DO UPDATE SET doc = excluded.doc`, tx.db.schema.Collection)
	if _, err := tx.tx.ExecContext(tx.ctx, stmt, id, string(doc), jsonPath(tx.db.schema.KeyPath)); err != nil {
		return tx.db.fail("put", err)
	}
	return nil
}

// Delete removes the document id. Deleting a missing document is not an error.
func (tx *Tx) Delete(id int64) error {
	if err := tx.checkWritable("delete"); err != nil {
		return err
	}
	stmt := fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, tx.db.schema.Collection)
	if _, err := tx.tx.ExecContext(tx.ctx, stmt, id); err != nil {
		return tx.db.fail("delete", err)
	}
	return nil
}

// Get returns the document id, or false if there is none.
func (tx *Tx) Get(id int64) (Object, bool, error) {
	stmt := fmt.Sprintf(`SELECT id, doc FROM %s WHERE id = ?`, tx.db.schema.Collection)
	var o Object
	var doc string
	err := tx.tx.QueryRowContext(tx.ctx, stmt, id).Scan(&o.ID, &doc)
	if errors.Is(err, sql.ErrNoRows) {
		return Object{}, false, nil
	}
	if err != nil {
		return Object{}, false, tx.db.fail("get", err)
	}
	o.Doc = json.RawMessage(doc)
	return o, true, nil
}

// Count returns the number of documents.
func (tx *Tx) Count() (int, error) {
	var n int
	stmt := fmt.Sprintf(`SELECT count(*) FROM %s`, tx.db.schema.Collection)
	if err := tx.tx.QueryRowContext(tx.ctx, stmt).Scan(&n); err != nil {
		return 0, tx.db.fail("count", err)
	}
	return n, nil
}

// All returns every document in identity order.
func (tx *Tx) All() ([]Object, error) {
	stmt := fmt.Sprintf(`SELECT id, doc FROM %s ORDER BY id`, tx.db.schema.Collection)
	return tx.query("all", stmt)
}

// Index returns a reader over the index 'name'.
func (tx *Tx) Index(name string) (*IndexReader, error) {
	idx, ok := tx.db.indexes[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown index %q", ErrTransaction, name)
	}
	return &IndexReader{tx: tx, index: idx}, nil
}

// IndexReader reads documents through a secondary index.
type IndexReader struct {
	tx    *Tx
	index Index
}

// GetAll returns every document in index key order. Documents missing the
// key come first, as sqlite sorts NULL lowest.
func (r *IndexReader) GetAll() ([]Object, error) {
	expr := keyExpr(r.index.KeyPath)
	stmt := fmt.Sprintf(`SELECT id, doc FROM %s ORDER BY %s, id`, r.tx.db.schema.Collection, expr)
	return r.tx.query("index "+r.index.Name, stmt)
}

// Get returns the documents whose key equals 'key', in identity order.
func (r *IndexReader) Get(key any) ([]Object, error) {
	expr := keyExpr(r.index.KeyPath)
	stmt := fmt.Sprintf(`SELECT id, doc FROM %s WHERE %s = ? ORDER BY id`, r.tx.db.schema.Collection, expr)
	return r.tx.query("index "+r.index.Name, stmt, key)
}

func (tx *Tx) query(op, stmt string, args ...any) ([]Object, error) {
	rows, err := tx.tx.QueryContext(tx.ctx, stmt, args...)
	if err != nil {
		return nil, tx.db.fail(op, err)
	}
	defer rows.Close()

	var out []Object
	for rows.Next() {
		var o Object
		var doc string
		if err := rows.Scan(&o.ID, &doc); err != nil {
			return nil, tx.db.fail(op, err)
		}
		o.Doc = json.RawMessage(doc)
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, tx.db.fail(op, err)
	}
	return out, nil
}
