package session

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sweetshop/internal/models"
)

type fakeKV struct {
	mu   sync.Mutex
	data map[string]string
	ttls map[string]time.Duration
}

func newFakeKV() *fakeKV {
	return &fakeKV{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeKV) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = fmt.Sprint(value)
	f.ttls[key] = ttl
	return nil
}

func (f *fakeKV) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	if !ok {
		return "", redis.Nil
	}
	return v, nil
}

func (f *fakeKV) Del(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, k := range keys {
		delete(f.data, k)
	}
	return nil
}

func sessionWithCart() *Session {
	s := New()
	s.Cart.Increment(models.CartKey(1), &models.CartSnapshot{
		CategoryName: "Chocolates",
		Image:        "/media/milk.png",
		Price:        decimal.NewFromInt(120),
		CartoonSize:  20,
	})
	s.Flash = "Added to cart"
	return s
}

func assertStoreRoundTrip(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()
	s := sessionWithCart()
	require.NoError(t, store.Save(ctx, s))

	got, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.ID, got.ID)
	assert.Equal(t, 1, got.Cart.TotalCount())
	entry, ok := got.Cart.Entry("category_1")
	require.True(t, ok)
	assert.True(t, entry.Snapshot.Price.Equal(decimal.NewFromInt(120)))
	assert.Equal(t, "Added to cart", got.TakeFlash())
	assert.Empty(t, got.Flash)

	// Mutating the loaded copy does not leak into the store.
	got.Cart.Clear()
	again, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, again.Cart.TotalCount())

	require.NoError(t, store.Delete(ctx, s.ID))
	_, err = store.Get(ctx, s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore(t *testing.T) {
	assertStoreRoundTrip(t, NewMemoryStore(time.Hour))
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	clock := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return clock }

	s := New()
	require.NoError(t, store.Save(context.Background(), s))
	clock = clock.Add(2 * time.Minute)

	_, err := store.Get(context.Background(), s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStore(t *testing.T) {
	fake := newFakeKV()
	store := &RedisStore{store: fake, prefix: "sweetshop", ttl: 24 * time.Hour}
	assertStoreRoundTrip(t, store)

	s := New()
	require.NoError(t, store.Save(context.Background(), s))
	assert.Equal(t, 24*time.Hour, fake.ttls["sweetshop:session:"+s.ID])
}

func TestRedisStoreMissingCart(t *testing.T) {
	fake := newFakeKV()
	store := &RedisStore{store: fake, prefix: "p", ttl: time.Hour}
	fake.data["p:session:abc"] = `{"id":"abc","admin":true}`

	got, err := store.Get(context.Background(), "abc")
	require.NoError(t, err)
	assert.True(t, got.Admin)
	require.NotNil(t, got.Cart)
	assert.True(t, got.Cart.IsEmpty())
}
