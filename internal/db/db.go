// Package db provides PostgreSQL and SQLite storage for resume documents.
package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// querier is the subset of the pool used by the document store
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

const schemaSQL = `CREATE TABLE IF NOT EXISTS resume_documents (
	name       TEXT PRIMARY KEY,
	content    JSONB NOT NULL,
	revision   BIGINT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// EnsureSchema creates the tables used by this package if they do not exist
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Documents returns the persister for the named document
func (db *DB) Documents(name string) *DocumentStore {
	return newDocumentStore(db.pool, name)
}

// postgres implements backend over a pgx pool
type postgres struct {
	q querier
}

func (p postgres) selectDocument(ctx context.Context, name string) ([]byte, int64, error) {
	var content []byte
	var revision int64
	err := p.q.QueryRow(ctx,
		`SELECT content, revision FROM resume_documents WHERE name = $1`,
		name,
	).Scan(&content, &revision)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, 0, ErrDocumentNotFound
	}
	return content, revision, err
}

func (p postgres) upsertDocument(ctx context.Context, name string, content []byte, revision int64) (bool, error) {
	tag, err := p.q.Exec(ctx,
		`INSERT INTO resume_documents (name, content, revision, updated_at)
		 VALUES ($1, $2, $3, NOW())
		 ON CONFLICT (name) DO UPDATE SET content = EXCLUDED.content, revision = EXCLUDED.revision, updated_at = NOW()
		 WHERE resume_documents.revision < EXCLUDED.revision`,
		name, content, revision,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
