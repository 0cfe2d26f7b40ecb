package redisstore

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"turkgpt/pkg/store"
	"turkgpt/pkg/store/storetest"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestRedisStore(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("Skipping integration test: REDIS_URL not set")
	}

	storetest.Run(t, func(t *testing.T) store.Store {
		opt, err := redis.ParseURL(url)
		require.NoError(t, err)
		rdb := redis.NewClient(opt)
		require.NoError(t, rdb.Ping(context.Background()).Err())

		// a fresh namespace per subtest keeps runs independent
		return New(rdb, fmt.Sprintf("turkgpt_test_%d", time.Now().UnixNano()))
	})
}
