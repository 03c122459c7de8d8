// Package storage keeps the local list of shortened links. Records live as a
// single JSON array under one key of a Medium, a tiny key-value abstraction
// with memory, file, SQL and Redis backends.
package storage

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ErrNotFound is returned by a Medium when the key has never been set.
var ErrNotFound = errors.New("not found")

// Medium stores opaque JSON blobs by key. Reads and writes are whole-value.
type Medium interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	PingContext(ctx context.Context) error
	Close() error
}

// Backend names accepted by Open.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// Options selects and configures a Medium backend.
type Options struct {
	Backend     string
	FilePath    string
	DSN         string
	RedisAddr   string
	RedisPrefix string
}

// Open creates the Medium named by o.Backend.
func Open(ctx context.Context, o Options, logger *zap.Logger) (Medium, error) {
	switch o.Backend {
	case BackendMemory:
		logger.Info("using in memory storage")
		return CreateMemoryMedium(), nil
	case BackendFile, "":
		logger.Info("using file", zap.String("filePath", o.FilePath))
		return NewFileMedium(o.FilePath, logger)
	case BackendSQLite:
		logger.Info("using sqlite", zap.String("dsn", o.DSN))
		return OpenSQLMedium(ctx, "sqlite", o.DSN, logger)
	case BackendPostgres:
		logger.Info("using postgres")
		return OpenSQLMedium(ctx, "pgx", o.DSN, logger)
	case BackendRedis:
		logger.Info("using redis", zap.String("addr", o.RedisAddr))
		return OpenRedisMedium(ctx, o.RedisAddr, o.RedisPrefix)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", o.Backend)
	}
}
