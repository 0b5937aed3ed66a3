package cache

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/gigrithm/gigrithm/internal/client/cache/migrations"
	"github.com/gigrithm/gigrithm/internal/filex"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

// Well-known keys.
const (
	KeyProfile = "profile"
	// KeyProfileSynced holds the RFC 3339 time KeyProfile was last written.
	KeyProfileSynced = "profile_synced_at"
	KeySession       = "session"

	DeviceNamespace = "_device"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Open opens (creating if needed) the SQLite database at dsn and applies
// the embedded migrations.
func Open(ctx context.Context, dsn string) (*SQLiteStore, error) {
	if _, err := filex.EnsureDSNDir(dsn); err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	// one connection: ":memory:" databases are per connection
	db.SetMaxOpenConns(1)
	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate cache: %w", err)
	}
	return NewSQLiteStore(db), nil
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Get returns (nil, nil) when the key is absent.
func (s *SQLiteStore) Get(ctx context.Context, userID, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM user_cache WHERE user_id = ? AND key = ?`, userID, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cache[%s/%s]: %w", userID, key, err)
	}
	return value, nil
}

func (s *SQLiteStore) Set(ctx context.Context, userID, key string, value []byte) error {
	if err := set(ctx, s.db, userID, key, value); err != nil {
		return fmt.Errorf("failed to set cache[%s/%s]: %w", userID, key, err)
	}
	return nil
}

// SetMany writes all values in one transaction.
func (s *SQLiteStore) SetMany(ctx context.Context, userID string, values map[string][]byte) error {
	err := withTx(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		for k, v := range values {
			if err := set(ctx, tx, userID, k, v); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to set cache[%s]: %w", userID, err)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, userID, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM user_cache WHERE user_id = ? AND key = ?`, userID, key)
	if err != nil {
		return fmt.Errorf("failed to delete cache[%s/%s]: %w", userID, key, err)
	}
	return nil
}

func (s *SQLiteStore) List(ctx context.Context, userID string) (map[string][]byte, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM user_cache WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cache[%s]: %w", userID, err)
	}
	defer rows.Close()

	result := make(map[string][]byte)
	for rows.Next() {
		var key string
		var value []byte
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan cache row: %w", err)
		}
		result[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cache rows: %w", err)
	}
	return result, nil
}

// ClearUser removes every entry of one identity.
func (s *SQLiteStore) ClearUser(ctx context.Context, userID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM user_cache WHERE user_id = ?`, userID)
	if err != nil {
		return fmt.Errorf("failed to clear cache[%s]: %w", userID, err)
	}
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func set(ctx context.Context, db execer, userID, key string, value []byte) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO user_cache (user_id, key, value, updated_at) VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(user_id, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, userID, key, value)
	return err
}

// withTx commits when fn succeeds and rolls back on error or panic.
func withTx(ctx context.Context, db *sql.DB, fn func(ctx context.Context, tx *sql.Tx) error) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()
	return fn(ctx, tx)
}
