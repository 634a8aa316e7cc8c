package services

import (
	"clinic-connector/internal/domain/entities"
	"clinic-connector/internal/infra/logger"
	client "clinic-connector/internal/pkg"
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentityCacheSharesEntriesThroughRedis(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set")
	}

	ctx := context.Background()
	redisClient, err := client.RedisClient(ctx, url)
	require.NoError(t, err)
	defer redisClient.Close()

	phone := fmt.Sprintf("7%09d", time.Now().UnixNano()%1_000_000_000)
	dir := &fakeDirectory{users: map[string]entities.UserRecord{phone: {UID: "u1", Name: "Asha"}}}

	first, err := NewIdentityCache(dir, redisClient, time.Minute, "91", logger.Discard())
	require.NoError(t, err)
	defer first.Close()
	second, err := NewIdentityCache(dir, redisClient, time.Minute, "91", logger.Discard())
	require.NoError(t, err)
	defer second.Close()
	defer first.Expire(ctx, phone)

	require.NotNil(t, first.Resolve(ctx, phone))
	user := second.Resolve(ctx, phone)

	require.NotNil(t, user)
	assert.Equal(t, "Asha", user.Name)
	assert.Equal(t, 1, dir.calls())
}
