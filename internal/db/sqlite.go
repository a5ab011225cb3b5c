package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	// registers the "sqlite" database/sql driver
	_ "modernc.org/sqlite"
)

// SQLite wraps an embedded SQLite database file
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database file at path
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// one writer; saves are already ordered by the invoker
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}
	return &SQLite{db: sqlDB}, nil
}

// Close closes the database
func (s *SQLite) Close() {
	if s.db != nil {
		_ = s.db.Close()
	}
}

const sqliteSchemaSQL = `CREATE TABLE IF NOT EXISTS resume_documents (
	name       TEXT PRIMARY KEY,
	content    TEXT NOT NULL,
	revision   INTEGER NOT NULL,
	updated_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

// EnsureSchema creates the tables used by this package if they do not exist
func (s *SQLite) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, sqliteSchemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Documents returns the persister for the named document
func (s *SQLite) Documents(name string) *DocumentStore {
	return newStore(sqliteBackend{db: s.db}, name)
}

// sqliteBackend implements backend over database/sql
type sqliteBackend struct {
	db *sql.DB
}

func (b sqliteBackend) selectDocument(ctx context.Context, name string) ([]byte, int64, error) {
	var content string
	var revision int64
	err := b.db.QueryRowContext(ctx,
		`SELECT content, revision FROM resume_documents WHERE name = ?`,
		name,
	).Scan(&content, &revision)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, 0, ErrDocumentNotFound
	}
	if err != nil {
		return nil, 0, err
	}
	return []byte(content), revision, nil
}

func (b sqliteBackend) upsertDocument(ctx context.Context, name string, content []byte, revision int64) (bool, error) {
	res, err := b.db.ExecContext(ctx,
		`INSERT INTO resume_documents (name, content, revision, updated_at)
		 VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (name) DO UPDATE SET content = excluded.content, revision = excluded.revision, updated_at = CURRENT_TIMESTAMP
		 WHERE resume_documents.revision < excluded.revision`,
		name, string(content), revision,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
