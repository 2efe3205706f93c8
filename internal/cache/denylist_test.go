package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Harenderchhoker31/erp-managment-system-sub000/internal/config"
)

func openTestRedis(t *testing.T) *Denylist {
	t.Helper()
	addr := os.Getenv("EDUMATE_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("EDUMATE_TEST_REDIS_ADDR not set")
	}
	client, err := NewRedisClient(context.Background(), config.RedisConfig{Addr: addr})
	if err != nil {
		t.Skipf("redis unavailable: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return NewDenylist(client)
}

func TestDenylistRevokeAndCheck(t *testing.T) {
	denylist := openTestRedis(t)
	ctx := context.Background()
	tokenID := uuid.NewString()

	revoked, err := denylist.IsRevoked(ctx, tokenID)
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, denylist.Revoke(ctx, tokenID, time.Minute))

	revoked, err = denylist.IsRevoked(ctx, tokenID)
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestDenylistSkipsExpiredTokens(t *testing.T) {
	denylist := NewDenylist(nil)
	assert.NoError(t, denylist.Revoke(context.Background(), "already-expired", 0))
}
