package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsBadURL(t *testing.T) {
	c, err := New("http://localhost:6379", "mentorship")

	assert.Nil(t, c)
	assert.Error(t, err)
}

func TestNewParsesURL(t *testing.T) {
	c, err := New("redis://:secret@localhost:6379/2", "mentorship")
	require.NoError(t, err)
	defer c.Close()

	assert.Equal(t, "localhost:6379", c.rdb.Options().Addr)
	assert.Equal(t, 2, c.rdb.Options().DB)
}

func TestKeys(t *testing.T) {
	c, err := New("redis://localhost:6379", "mentorship")
	require.NoError(t, err)
	defer c.Close()

	assert.Equal(t, "mentorship:stats", c.Key("stats"))
	assert.Equal(t, "mentorship:lock:refresh_stats", c.lockKey("refresh_stats"))

	bare := &Client{}
	assert.Equal(t, "stats", bare.Key("stats"))
}

func TestEmptyKeysAreRejectedBeforeRedis(t *testing.T) {
	c, err := New("redis://localhost:6379", "")
	require.NoError(t, err)
	defer c.Close()
	ctx := context.Background()

	var v map[string]interface{}
	assert.ErrorIs(t, c.GetJSON(ctx, "", &v), ErrCacheKeyEmpty)
	assert.ErrorIs(t, c.SetJSON(ctx, "", v, time.Minute), ErrCacheKeyEmpty)
	ok, err := c.TryLock(ctx, "", "me", time.Minute)
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrCacheKeyEmpty)
}
