package storage

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// requires Redis running on localhost:6379
const testRedisAddr = "localhost:6379"

func setupRedisMedium(t *testing.T) *RedisMedium {
	t.Helper()

	m, err := OpenRedisMedium(context.Background(), testRedisAddr, "shortify-test:"+uuid.NewString()+":")
	if err != nil {
		t.Skipf("Redis not available at %s: %v", testRedisAddr, err)
	}

	t.Cleanup(func() {
		m.client.Del(context.Background(), m.prefix+DefaultKey)
		m.Close()
	})
	return m
}

func TestRedisMedium_GetSet(t *testing.T) {
	m := setupRedisMedium(t)
	ctx := context.Background()

	_, err := m.Get(ctx, DefaultKey)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, m.Set(ctx, DefaultKey, []byte(`[]`)))

	got, err := m.Get(ctx, DefaultKey)
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(got))
	assert.NoError(t, m.PingContext(ctx))
}

func TestOpenRedisMedium_BadURL(t *testing.T) {
	_, err := OpenRedisMedium(context.Background(), "redis://:bad@host:notaport/x", "")
	assert.Error(t, err)
}
