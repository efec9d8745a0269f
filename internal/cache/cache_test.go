package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetch_CachesUntilInvalidated(t *testing.T) {
	t.Parallel()

	c := New(16, time.Minute)
	key := Key{Owner: uuid.New(), Resource: Alerts}
	calls := 0
	load := func(context.Context) ([]string, error) {
		calls++
		return []string{"a", "b"}, nil
	}

	got, err := Fetch(context.Background(), c, key, load)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got)

	_, err = Fetch(context.Background(), c, key, load)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)

	c.Invalidate(key)
	_, err = Fetch(context.Background(), c, key, load)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestFetch_ErrorsAreNotCached(t *testing.T) {
	t.Parallel()

	c := New(16, time.Minute)
	key := Key{Owner: uuid.New(), Resource: Animals}
	boom := errors.New("boom")

	_, err := Fetch(context.Background(), c, key, func(context.Context) (int, error) { return 0, boom })
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 0, c.Len())

	v, err := Fetch(context.Background(), c, key, func(context.Context) (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

func TestInvalidateOwner(t *testing.T) {
	t.Parallel()

	c := New(16, time.Minute)
	owner, other := uuid.New(), uuid.New()
	for _, k := range []Key{{owner, Alerts}, {owner, Animals}, {other, Alerts}} {
		_, _ = Fetch(context.Background(), c, k, func(context.Context) (int, error) { return 1, nil })
	}
	require.Equal(t, 3, c.Len())

	c.InvalidateOwner(owner)
	assert.Equal(t, 1, c.Len())
}

func TestNilCache(t *testing.T) {
	t.Parallel()

	var c *QueryCache
	calls := 0
	for i := 0; i < 2; i++ {
		_, err := Fetch(context.Background(), c, Key{}, func(context.Context) (int, error) {
			calls++
			return 1, nil
		})
		require.NoError(t, err)
	}
	assert.Equal(t, 2, calls)
	c.Invalidate(Key{})
	assert.Equal(t, 0, c.Len())
}
