package factory

import (
	"context"
	"testing"

	"turkgpt/pkg/store/memstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStore(t *testing.T) {
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		s, err := NewStore(ctx, Config{Backend: BackendMemory})
		require.NoError(t, err)
		assert.IsType(t, &memstore.Store{}, s)
		assert.NoError(t, s.Close())
	})

	t.Run("sqlite", func(t *testing.T) {
		chdir(t, t.TempDir())
		s, err := NewStore(ctx, Config{Backend: BackendSQLite, Name: "factory_test"})
		require.NoError(t, err)
		assert.NoError(t, s.Close())
		assert.FileExists(t, "factory_test.db")
	})

	t.Run("postgres needs a dsn", func(t *testing.T) {
		_, err := NewStore(ctx, Config{Backend: BackendPostgres})
		assert.Error(t, err)
	})

	t.Run("bad redis url", func(t *testing.T) {
		_, err := NewStore(ctx, Config{Backend: BackendRedis, DSN: "::not a url"})
		assert.Error(t, err)
	})

	t.Run("unknown backend", func(t *testing.T) {
		_, err := NewStore(ctx, Config{Backend: "mongo"})
		assert.ErrorContains(t, err, "unsupported storage backend")
	})
}
