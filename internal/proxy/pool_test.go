package proxy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool_Rotation(t *testing.T) {
	pool := NewPool([]string{"p1", "p2", "p3"})

	assert.Equal(t, "p1", pool.Next())
	assert.Equal(t, "p2", pool.Next())
	assert.Equal(t, "p3", pool.Next())
	assert.Equal(t, "p1", pool.Next())

	pool.MarkFailed("p2")
	assert.Equal(t, "p3", pool.Next(), "p2 is cooling down")
	assert.Equal(t, "p1", pool.Next())
	assert.Equal(t, "p3", pool.Next())

	pool.MarkHealthy("p2")
	assert.Equal(t, "p1", pool.Next())
	assert.Equal(t, "p2", pool.Next())
}

func TestPool_CooldownExpires(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	pool := NewPool([]string{"p1", "p2"})
	pool.now = func() time.Time { return now }

	pool.MarkFailed("p1")
	assert.Equal(t, "p2", pool.Next())
	assert.Equal(t, "p2", pool.Next())

	now = now.Add(DefaultCooldown)
	assert.Equal(t, "p1", pool.Next())
}

func TestPool_AllFailed(t *testing.T) {
	pool := NewPool([]string{"p1", "p2"})
	pool.MarkFailed("p1")
	pool.MarkFailed("p2")
	assert.NotEmpty(t, pool.Next())
}

func TestPool_Empty(t *testing.T) {
	var nilPool *Pool
	assert.Equal(t, "", nilPool.Next())
	assert.Equal(t, 0, nilPool.Len())
	nilPool.MarkFailed("p1")

	assert.Equal(t, "", NewPool(nil).Next())
}

func TestParseList(t *testing.T) {
	got, err := ParseList(" http://10.0.0.1:3128, ,socks5://proxy.test:1080")
	require.NoError(t, err)
	assert.Equal(t, []string{"http://10.0.0.1:3128", "socks5://proxy.test:1080"}, got)

	_, err = ParseList("ftp://nope.test")
	assert.Error(t, err)

	_, err = ParseList("http://")
	assert.Error(t, err)

	got, err = ParseList("")
	require.NoError(t, err)
	assert.Empty(t, got)
}
