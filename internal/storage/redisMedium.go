package storage

import (
	"context"
	"errors"
	"strings"

	"github.com/redis/go-redis/v9"
)

// RedisMedium stores each key as a plain Redis string with no expiry.
type RedisMedium struct {
	client *redis.Client
	prefix string
}

func NewRedisMedium(client *redis.Client, prefix string) *RedisMedium {
	return &RedisMedium{
		client: client,
		prefix: prefix,
	}
}

// OpenRedisMedium connects to addr, which is either host:port or a redis:// URL.
func OpenRedisMedium(ctx context.Context, addr, prefix string) (*RedisMedium, error) {
	opts := &redis.Options{Addr: addr}
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			return nil, err
		}
		opts = parsed
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return NewRedisMedium(client, prefix), nil
}

func (m *RedisMedium) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := m.client.Get(ctx, m.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (m *RedisMedium) Set(ctx context.Context, key string, value []byte) error {
	return m.client.Set(ctx, m.prefix+key, value, 0).Err()
}

func (m *RedisMedium) PingContext(ctx context.Context) error {
	return m.client.Ping(ctx).Err()
}

func (m *RedisMedium) Close() error {
	return m.client.Close()
}
