package cache

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	day := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)
	payload := []byte(`{"goals":[]}`)

	k := Key("proj", payload, day)
	assert.Regexp(t, `^proj:[0-9a-f]{16}$`, k)

	assert.Equal(t, k, Key("proj", payload, day.Add(10*time.Hour)), "same day, same key")
	assert.NotEqual(t, k, Key("proj", payload, day.AddDate(0, 0, 1)), "next day, new key")
	assert.NotEqual(t, k, Key("proj", []byte(`{"goals":[1]}`), day))
	assert.NotEqual(t, k, Key("cmp", payload, day))
}

func TestMemoryCache_RoundTrip(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	_, err := c.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrMiss)

	value := []byte("hello")
	require.NoError(t, c.Set(ctx, "k", value, 0))
	value[0] = 'j'

	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got), "stored value is a copy")

	got[0] = 'y'
	again, _ := c.Get(ctx, "k")
	assert.Equal(t, "hello", string(again), "returned value is a copy")
}

func TestMemoryCache_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemoryCache()
	c.Clock = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))

	now = now.Add(59 * time.Second)
	_, err := c.Get(ctx, "k")
	assert.NoError(t, err)

	now = now.Add(time.Second)
	_, err = c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)
	assert.Equal(t, 0, c.Len(), "expired entry is dropped")
}

func TestMemoryCache_SweepsExpiredOnSet(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemoryCache()
	c.MaxEntries = 0
	c.Clock = func() time.Time { return now }

	for i := 0; i < 10000; i++ {
		require.NoError(t, c.Set(ctx, fmt.Sprintf("k%d", i), []byte("v"), time.Minute))
	}
	assert.Equal(t, 10000, c.Len())

	now = now.Add(24 * time.Hour)
	require.NoError(t, c.Set(ctx, "fresh", []byte("v"), time.Minute))
	assert.Equal(t, 1, c.Len(), "expired entries are swept on write")

	got, err := c.Get(ctx, "fresh")
	require.NoError(t, err)
	assert.Equal(t, "v", string(got))
}

func TestMemoryCache_MaxEntries(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemoryCache()
	c.MaxEntries = 3
	c.Clock = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "forever", []byte("v"), 0))
	require.NoError(t, c.Set(ctx, "soon", []byte("v"), time.Minute))
	require.NoError(t, c.Set(ctx, "later", []byte("v"), time.Hour))
	require.NoError(t, c.Set(ctx, "new", []byte("v"), time.Hour))

	assert.Equal(t, 3, c.Len())
	_, err := c.Get(ctx, "soon")
	assert.ErrorIs(t, err, ErrMiss, "the entry closest to expiry is evicted")
	for _, k := range []string{"forever", "later", "new"} {
		_, err := c.Get(ctx, k)
		assert.NoError(t, err, k)
	}

	// Overwriting an existing key never evicts
	require.NoError(t, c.Set(ctx, "later", []byte("w"), time.Hour))
	assert.Equal(t, 3, c.Len())
}

func TestMemoryCache_ExpiredGetKeepsFreshSet(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemoryCache()
	c.Clock = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "k", []byte("old"), time.Minute))
	now = now.Add(time.Hour)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = c.Get(ctx, "k")
		}()
		go func() {
			defer wg.Done()
			_ = c.Set(ctx, "k", []byte("new"), time.Hour)
		}()
	}
	wg.Wait()

	got, err := c.Get(ctx, "k")
	require.NoError(t, err, "a fresh value is never deleted by a reader of the expired one")
	assert.Equal(t, "new", string(got))
}

func TestJSONHelpers(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	type payload struct {
		Goal    string `json:"goal"`
		Monthly int    `json:"monthly"`
	}

	require.NoError(t, SetJSON(ctx, c, "p", payload{Goal: "car", Monthly: 30000}, time.Hour))

	var got payload
	require.NoError(t, GetJSON(ctx, c, "p", &got))
	assert.Equal(t, payload{Goal: "car", Monthly: 30000}, got)

	assert.ErrorIs(t, GetJSON(ctx, c, "absent", &got), ErrMiss)

	require.NoError(t, c.Set(ctx, "bad", []byte("{"), 0))
	assert.Error(t, GetJSON(ctx, c, "bad", &got))
}

// Runs only when a Redis server is available, e.g. SIPGO_REDIS_ADDR=localhost:6379
func TestRedisCache(t *testing.T) {
	addr := os.Getenv("SIPGO_REDIS_ADDR")
	if addr == "" {
		t.Skip("SIPGO_REDIS_ADDR not set")
	}

	ctx := context.Background()
	c := NewRedisCache(addr)
	defer c.Close()
	require.NoError(t, c.Ping(ctx))

	key := Key("sipgo-test", []byte(t.Name()), time.Now())
	_, err := c.Get(ctx, key)
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, c.Set(ctx, key, []byte("v"), time.Minute))
	got, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "v", string(got))
}
