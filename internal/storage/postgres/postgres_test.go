package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/survivors/internal/storage/postgres"
	"github.com/cory-johannsen/survivors/internal/testutil"
)

func TestPool_Health(t *testing.T) {
	pc := testutil.NewPostgresContainer(t)
	ctx := context.Background()

	require.NoError(t, pc.Pool.Health(ctx, 5*time.Second))

	pool, err := postgres.NewPool(ctx, pc.Config)
	require.NoError(t, err)
	require.NoError(t, pool.Health(ctx, 5*time.Second))
	pool.Close()
	assert.Error(t, pool.Health(ctx, time.Second), "a closed pool is unhealthy")
}
