// Package store is the persistence collaborator: a SQLite-backed document
// store keyed by string. Apps reach it only through the Load, Save, Delete
// and Rename commands and the StoreChanged subscription.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	stderrors "errors"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"
	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/odvcencio/virtualviews/pkg/errors"
)

//go:embed schema.sql
var schemaSQL string

// Store manages SQLite document operations and notifies key watchers.
type Store struct {
	db     *sql.DB
	closed atomic.Bool

	watchMu  sync.RWMutex
	watchers map[string]map[string]func()
}

// Open creates a store at path and applies migrations. Use ":memory:" for a
// private in-memory database.
func Open(path string) (*Store, error) {
	filePath, onDisk := sqliteFilePathFromDSN(path)
	if onDisk {
		if dir := filepath.Dir(filePath); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o700); err != nil {
				return nil, errors.Wrap(err, errors.ErrCodeStoreOpen, "create database directory").
					WithContext("path", dir)
			}
		}
		if err := ensurePrivateSQLiteFile(filePath); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStoreOpen, "open database")
	}

	if onDisk {
		db.SetMaxOpenConns(4)
		if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
			db.Close()
			return nil, errors.Wrap(err, errors.ErrCodeStoreOpen, "enable WAL mode")
		}
	} else {
		// Every connection to ":memory:" is a separate database.
		db.SetMaxOpenConns(1)
	}
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, errors.Wrap(err, errors.ErrCodeStoreOpen, "set busy timeout")
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, errors.Wrap(err, errors.ErrCodeStoreOpen, "run migrations")
	}

	return &Store{db: db, watchers: make(map[string]map[string]func())}, nil
}

func sqliteFilePathFromDSN(dsn string) (string, bool) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" || dsn == ":memory:" {
		return "", false
	}
	if strings.HasPrefix(dsn, "file:") {
		u, err := url.Parse(dsn)
		if err != nil {
			return "", false
		}
		path := u.Path
		if path == "" {
			path = u.Opaque
		}
		if path == "" || path == ":memory:" || u.Query().Get("mode") == "memory" {
			return "", false
		}
		return path, true
	}
	return dsn, true
}

// ensurePrivateSQLiteFile creates the database file with owner-only
// permissions before SQLite opens it.
func ensurePrivateSQLiteFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return errors.Wrap(err, errors.ErrCodeStoreOpen, "stat db path")
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		if os.IsExist(err) {
			return nil
		}
		return errors.Wrap(err, errors.ErrCodeStoreOpen, "create db file")
	}
	return f.Close()
}

// Close closes the database. Watchers are dropped.
func (s *Store) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	s.watchMu.Lock()
	s.watchers = make(map[string]map[string]func())
	s.watchMu.Unlock()
	return s.db.Close()
}

func (s *Store) check() error {
	if s == nil || s.closed.Load() {
		return errors.New(errors.ErrCodeStoreClosed, "store closed")
	}
	return nil
}

// Load returns the value stored under key. ok is false when the key is
// absent.
func (s *Store) Load(ctx context.Context, key string) ([]byte, bool, error) {
	if err := s.check(); err != nil {
		return nil, false, err
	}
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM documents WHERE key = ?`, key).Scan(&value)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(err, errors.ErrCodeStoreRead, "load document").WithContext("key", key)
	}
	return value, true, nil
}

// Save stores value under key, replacing any previous value.
func (s *Store) Save(ctx context.Context, key string, value []byte) error {
	if err := s.check(); err != nil {
		return err
	}
	if value == nil {
		value = []byte{}
	}
	err := withBusyRetry(ctx, func() error {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO documents (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
			key, value)
		return err
	})
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeStoreWrite, "save document").WithContext("key", key)
	}
	s.notify(key)
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.check(); err != nil {
		return err
	}
	var affected int64
	err := withBusyRetry(ctx, func() error {
		res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE key = ?`, key)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeStoreWrite, "delete document").WithContext("key", key)
	}
	if affected > 0 {
		s.notify(key)
	}
	return nil
}

// Rename moves the value under key to newKey. It fails if key is absent or
// newKey is taken.
func (s *Store) Rename(ctx context.Context, key, newKey string) error {
	if err := s.check(); err != nil {
		return err
	}
	if key == newKey {
		return nil
	}
	err := withBusyRetry(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer tx.Rollback()

		var exists int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents WHERE key = ?`, newKey).Scan(&exists); err != nil {
			return err
		}
		if exists > 0 {
			return errors.New(errors.ErrCodeStoreConflict, "target key exists").WithContext("key", newKey)
		}
		res, err := tx.ExecContext(ctx, `UPDATE documents SET key = ?, updated_at = CURRENT_TIMESTAMP WHERE key = ?`, newKey, key)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err != nil {
			return err
		} else if n == 0 {
			return errors.New(errors.ErrCodeStoreNotFound, "document not found").WithContext("key", key)
		}
		return tx.Commit()
	})
	if err != nil {
		if _, coded := errors.As(err); coded {
			return err
		}
		return errors.Wrap(err, errors.ErrCodeStoreWrite, "rename document").WithContext("key", key)
	}
	s.notify(key)
	s.notify(newKey)
	return nil
}

// Keys lists stored keys with prefix in key order.
func (s *Store) Keys(ctx context.Context, prefix string) ([]string, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT key FROM documents WHERE substr(key, 1, length(?)) = ? ORDER BY key`, prefix, prefix)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStoreRead, "list keys")
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeStoreRead, "scan key")
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// Watch calls fn after every successful write to key, on the writer's
// goroutine. The returned stop function is idempotent.
func (s *Store) Watch(key string, fn func()) (stop func()) {
	id := ulid.Make().String()
	s.watchMu.Lock()
	if s.watchers[key] == nil {
		s.watchers[key] = make(map[string]func())
	}
	s.watchers[key][id] = fn
	s.watchMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.watchMu.Lock()
			defer s.watchMu.Unlock()
			delete(s.watchers[key], id)
			if len(s.watchers[key]) == 0 {
				delete(s.watchers, key)
			}
		})
	}
}

// Watchers returns the number of active watchers on key.
func (s *Store) Watchers(key string) int {
	s.watchMu.RLock()
	defer s.watchMu.RUnlock()
	return len(s.watchers[key])
}

func (s *Store) notify(key string) {
	s.watchMu.RLock()
	fns := make([]func(), 0, len(s.watchers[key]))
	for _, fn := range s.watchers[key] {
		fns = append(fns, fn)
	}
	s.watchMu.RUnlock()

	for _, fn := range fns {
		fn()
	}
}

func withBusyRetry(ctx context.Context, fn func() error) error {
	backoff := 10 * time.Millisecond
	for attempt := 0; ; attempt++ {
		err := fn()
		if err == nil || !isBusyError(err) || attempt >= 4 {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
}

func isBusyError(err error) bool {
	var sqliteErr *sqlite.Error
	if stderrors.As(err, &sqliteErr) {
		code := sqliteErr.Code()
		return code == sqlite3.SQLITE_BUSY || code == sqlite3.SQLITE_LOCKED
	}
	return false
}
