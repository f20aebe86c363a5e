// Package store provides the transactional, single-file persistent store
// backing the lexical editing engine: schema, row identity, foreign-key
// integrity, the metadata codec, and the history log table.
package store

import (
	"context"
	"database/sql"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	_ "github.com/ncruces/go-sqlite3/driver"
)

// Store is the SQLite-backed persistent store. It is not safe for
// concurrent use from multiple goroutines without external
// synchronization — spec.md's single-writer model assumes one engine
// instance drives it at a time.
type Store struct {
	db    *sql.DB
	cache *lru.Cache[string, int64]
}

// surrogateCacheSize bounds the LRU cache used to resolve (public_id,
// lexicon_key) pairs to surrogate row keys.
const surrogateCacheSize = 4096

// Open opens (and, if necessary, initializes) the store at dsn. Use
// ":memory:" for an ephemeral store, or a file path for a persistent one.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", dsn, err)
	}
	db.SetMaxOpenConns(1) // single-writer model: one connection, one file lock

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}

	cache, _ := lru.New[string, int64](surrogateCacheSize)
	s := &Store{db: db, cache: cache}

	if err := s.ensureMeta(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureMeta() error {
	var version int
	err := s.db.QueryRow(`SELECT schema_version FROM meta WHERE id = 1`).Scan(&version)
	switch {
	case err == sql.ErrNoRows:
		_, err := s.db.Exec(`INSERT INTO meta (id, schema_version) VALUES (1, ?)`, CurrentSchemaVersion)
		return err
	case err != nil:
		return fmt.Errorf("store: read meta: %w", err)
	case version != CurrentSchemaVersion:
		return fmt.Errorf("store: schema version mismatch: file has %d, engine expects %d", version, CurrentSchemaVersion)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Tx is a scoped transaction handle. Every public mutation on the engine
// runs inside one; its release (commit on success, rollback on failure)
// is guaranteed by Batch.
type Tx struct {
	tx    *sql.Tx
	store *Store
}

type txKey struct{}

// Batch runs fn inside a transaction. If ctx already carries an
// outstanding transaction (because Batch is already running higher up the
// call stack), fn reuses it and this call is a no-op with respect to
// commit/rollback — only the outermost Batch call commits. A panic inside
// fn rolls back the (outermost) transaction and is re-panicked.
func (s *Store) Batch(ctx context.Context, fn func(ctx context.Context, tx *Tx) error) (err error) {
	if existing, ok := ctx.Value(txKey{}).(*Tx); ok {
		return fn(ctx, existing)
	}

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin transaction: %w", err)
	}
	tx := &Tx{tx: sqlTx, store: s}
	childCtx := context.WithValue(ctx, txKey{}, tx)

	defer func() {
		if p := recover(); p != nil {
			_ = sqlTx.Rollback()
			panic(p)
		}
	}()

	if err = fn(childCtx, tx); err != nil {
		_ = sqlTx.Rollback()
		return err
	}
	if err = sqlTx.Commit(); err != nil {
		return fmt.Errorf("store: commit transaction: %w", err)
	}
	return nil
}

// Exec runs a statement inside tx.
func (t *Tx) Exec(query string, args ...any) (sql.Result, error) {
	return t.tx.Exec(query, args...)
}

// Query runs a query inside tx.
func (t *Tx) Query(query string, args ...any) (*sql.Rows, error) {
	return t.tx.Query(query, args...)
}

// QueryRow runs a single-row query inside tx.
func (t *Tx) QueryRow(query string, args ...any) *sql.Row {
	return t.tx.QueryRow(query, args...)
}

// cacheKey builds the surrogate-resolution cache key for a (table, id,
// lexiconKey) triple.
func cacheKey(table, id string, lexiconKey int64) string {
	return fmt.Sprintf("%s|%d|%s", table, lexiconKey, id)
}

// resolveSurrogate resolves a public id scoped to lexiconKey in table to
// its surrogate key column keyCol, consulting and populating the LRU
// cache.
func (t *Tx) resolveSurrogate(table, keyCol, id string, lexiconKey int64) (int64, error) {
	ck := cacheKey(table, id, lexiconKey)
	if v, ok := t.store.cache.Get(ck); ok {
		return v, nil
	}
	var key int64
	q := fmt.Sprintf(`SELECT %s FROM %s WHERE id = ? AND lexicon_key = ?`, keyCol, table)
	err := t.tx.QueryRow(q, id, lexiconKey).Scan(&key)
	if err == sql.ErrNoRows {
		return 0, &ErrNotFound{Kind: table, ID: id}
	}
	if err != nil {
		return 0, err
	}
	t.store.cache.Add(ck, key)
	return key, nil
}

// invalidate drops a cached surrogate resolution, used after a delete.
func (t *Tx) invalidate(table, id string, lexiconKey int64) {
	t.store.cache.Remove(cacheKey(table, id, lexiconKey))
}
