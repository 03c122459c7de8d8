package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

const createKVTable = `
	CREATE TABLE IF NOT EXISTS kv_store (
		storage_key TEXT PRIMARY KEY,
		payload TEXT NOT NULL
	);`

// SQLMedium stores blobs in a two-column table. The same statements run on
// SQLite (modernc.org/sqlite) and PostgreSQL (pgx).
type SQLMedium struct {
	db     *sql.DB
	logger *zap.Logger
}

// OpenSQLMedium opens dsn with the given database/sql driver and prepares the table.
func OpenSQLMedium(ctx context.Context, driver, dsn string, logger *zap.Logger) (*SQLMedium, error) {
	if dsn == "" {
		return nil, errors.New("database dsn is empty")
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	m, err := NewSQLMedium(ctx, db, logger)
	if err != nil {
		db.Close()
		return nil, err
	}
	return m, nil
}

// NewSQLMedium wraps an open database and creates the table if needed.
func NewSQLMedium(ctx context.Context, db *sql.DB, logger *zap.Logger) (*SQLMedium, error) {
	if _, err := db.ExecContext(ctx, createKVTable); err != nil {
		// Two processes racing on CREATE TABLE IF NOT EXISTS in PostgreSQL
		// can lose with a unique violation on the catalog; the table exists.
		var pgErr *pgconn.PgError
		if !errors.As(err, &pgErr) || pgErr.Code != pgerrcode.UniqueViolation {
			return nil, fmt.Errorf("create kv_store table: %w", err)
		}
		logger.Debug("kv_store table created concurrently", zap.String("code", pgErr.Code))
	}

	logger.Info("Database connected and table ready.")
	return &SQLMedium{
		db:     db,
		logger: logger,
	}, nil
}

func (m *SQLMedium) Get(ctx context.Context, key string) ([]byte, error) {
	var payload string
	err := m.db.QueryRowContext(ctx,
		"SELECT payload FROM kv_store WHERE storage_key = $1;", key,
	).Scan(&payload)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return []byte(payload), nil
}

func (m *SQLMedium) Set(ctx context.Context, key string, value []byte) error {
	_, err := m.db.ExecContext(ctx,
		`INSERT INTO kv_store (storage_key, payload) VALUES ($1, $2)
		ON CONFLICT (storage_key) DO UPDATE SET payload = excluded.payload;`,
		key, string(value),
	)
	if err != nil {
		m.logger.Error("unable to write kv row", zap.String("key", key), zap.Error(err))
		return err
	}
	return nil
}

func (m *SQLMedium) PingContext(ctx context.Context) error {
	return m.db.PingContext(ctx)
}

func (m *SQLMedium) Close() error {
	return m.db.Close()
}
