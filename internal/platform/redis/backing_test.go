package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBacking(t *testing.T) *Backing {
	t.Helper()

	server := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: server.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
	})

	return NewBacking(client)
}

func TestBackingRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	backing := newTestBacking(t)

	require.NoError(t, backing.Set(ctx, "task_cache:p1_s10", []byte(`{"data":1}`)))

	data, found, err := backing.Get(ctx, "task_cache:p1_s10")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte(`{"data":1}`), data)
}

func TestBackingGetMissingKey(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	backing := newTestBacking(t)

	data, found, err := backing.Get(ctx, "absent")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, data)
}

func TestBackingOverwrite(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	backing := newTestBacking(t)

	require.NoError(t, backing.Set(ctx, "k", []byte("first")))
	require.NoError(t, backing.Set(ctx, "k", []byte("second")))

	data, found, err := backing.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte("second"), data)
}

func TestBackingDelete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	backing := newTestBacking(t)

	require.NoError(t, backing.Set(ctx, "k", []byte("value")))
	require.NoError(t, backing.Delete(ctx, "k"))

	_, found, err := backing.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)

	// Deleting an absent key is not an error.
	assert.NoError(t, backing.Delete(ctx, "absent"))
}

func TestNewBackingRequiresClient(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		NewBacking(nil)
	})
}
