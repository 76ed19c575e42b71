package persist

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/ShopHub/internal/domain"
	"github.com/utafrali/ShopHub/internal/repository"
	redisrepo "github.com/utafrali/ShopHub/internal/repository/redis"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redisrepo.StateStore) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, redisrepo.NewStateStore(client, 0)
}

func closeWriter(t *testing.T, w *Writer) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, w.Close(ctx))
}

// recordingStore records every Set call and can be blocked or made to fail.
type recordingStore struct {
	mu      sync.Mutex
	writes  []string
	values  map[string][]byte
	gate    chan struct{}
	failing bool
}

func newRecordingStore() *recordingStore {
	return &recordingStore{values: make(map[string][]byte)}
}

func (s *recordingStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values[key], nil
}

func (s *recordingStore) Set(ctx context.Context, key string, value []byte) error {
	if s.gate != nil {
		<-s.gate
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failing {
		return errors.New("storage unavailable")
	}
	s.writes = append(s.writes, key)
	s.values[key] = value
	return nil
}

func (s *recordingStore) Ping(ctx context.Context) error { return nil }

func (s *recordingStore) snapshot() ([]string, map[string][]byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	values := make(map[string][]byte, len(s.values))
	for k, v := range s.values {
		values[k] = v
	}
	return append([]string(nil), s.writes...), values
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestWriter_PersistsCartAndWishlistLayout(t *testing.T) {
	mr, store := setupRedis(t)
	w := NewWriter(store, DefaultConfig(), newTestLogger())

	w.SaveCart("shopper-1", []domain.StoredCartItem{{ID: "1", Quantity: 2}})
	w.SaveWishlist("shopper-1", []string{"3", "1"})
	closeWriter(t, w)

	cart, err := mr.Get("shophub:shopper-1:@shopping_cart")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"1","quantity":2}]`, cart)

	wishlist, err := mr.Get("shophub:shopper-1:@shopping_wishlist")
	require.NoError(t, err)
	assert.JSONEq(t, `["3","1"]`, wishlist)
}

func TestWriter_EmptyStateIsStoredAsEmptyArray(t *testing.T) {
	mr, store := setupRedis(t)
	w := NewWriter(store, DefaultConfig(), newTestLogger())

	w.SaveCart("s", nil)
	w.SaveWishlist("s", nil)
	closeWriter(t, w)

	cart, err := mr.Get(repository.CartKey("s"))
	require.NoError(t, err)
	assert.Equal(t, "[]", cart)

	wishlist, err := mr.Get(repository.WishlistKey("s"))
	require.NoError(t, err)
	assert.Equal(t, "[]", wishlist)
}

func TestWriter_CoalescesPendingSnapshots(t *testing.T) {
	store := newRecordingStore()
	store.gate = make(chan struct{})
	w := NewWriter(store, DefaultConfig(), newTestLogger())

	// The first write blocks inside Set, so the next snapshots for the same
	// key pile up and collapse into the latest one.
	w.Enqueue("a", []byte("1"))
	require.Eventually(t, func() bool {
		w.mu.Lock()
		defer w.mu.Unlock()
		return len(w.pending) == 0
	}, time.Second, 5*time.Millisecond)

	before := testutil.ToFloat64(coalescedTotal)
	w.Enqueue("a", []byte("2"))
	w.Enqueue("a", []byte("3"))
	assert.Equal(t, before+1, testutil.ToFloat64(coalescedTotal))

	close(store.gate)
	closeWriter(t, w)

	writes, values := store.snapshot()
	assert.Equal(t, []string{"a", "a"}, writes)
	assert.Equal(t, "3", string(values["a"]))
}

func TestWriter_FailuresAreCountedAndSwallowed(t *testing.T) {
	store := newRecordingStore()
	store.failing = true
	w := NewWriter(store, DefaultConfig(), newTestLogger())

	before := testutil.ToFloat64(failuresTotal)
	w.SaveCart("s", []domain.StoredCartItem{{ID: "1", Quantity: 1}})
	closeWriter(t, w)

	assert.Equal(t, before+1, testutil.ToFloat64(failuresTotal))
	writes, _ := store.snapshot()
	assert.Empty(t, writes)
}

func TestWriter_RedisDownDoesNotBlockCaller(t *testing.T) {
	mr, store := setupRedis(t)
	mr.Close()

	w := NewWriter(store, Config{WriteTimeout: 100 * time.Millisecond}, newTestLogger())

	start := time.Now()
	w.SaveWishlist("s", []string{"1"})
	assert.Less(t, time.Since(start), 50*time.Millisecond)

	before := testutil.ToFloat64(failuresTotal)
	closeWriter(t, w)
	assert.Equal(t, before+1, testutil.ToFloat64(failuresTotal))
}

func TestWriter_CloseDrainsAndRejectsLateSnapshots(t *testing.T) {
	store := newRecordingStore()
	w := NewWriter(store, DefaultConfig(), newTestLogger())

	w.Enqueue("a", []byte("1"))
	w.Enqueue("b", []byte("2"))
	closeWriter(t, w)

	w.Enqueue("c", []byte("3"))
	_, values := store.snapshot()
	assert.Contains(t, values, "a")
	assert.Contains(t, values, "b")
	assert.NotContains(t, values, "c")

	// Closing twice is safe.
	closeWriter(t, w)
}

func TestWriter_CloseHonoursContext(t *testing.T) {
	store := newRecordingStore()
	store.gate = make(chan struct{})
	defer close(store.gate)
	w := NewWriter(store, DefaultConfig(), newTestLogger())

	w.Enqueue("a", []byte("1"))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := w.Close(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestWriter_PendingCoversQueuedAndInFlightSnapshots(t *testing.T) {
	store := newRecordingStore()
	store.gate = make(chan struct{})
	w := NewWriter(store, DefaultConfig(), newTestLogger())

	assert.False(t, w.Pending("shopper-1"))

	w.SaveCart("shopper-1", []domain.StoredCartItem{{ID: "1", Quantity: 1}})
	w.SaveWishlist("shopper-1", []string{"2"})

	// The cart write is blocked in Set while the wishlist is still queued.
	require.Eventually(t, func() bool {
		w.mu.Lock()
		defer w.mu.Unlock()
		return w.inflight == repository.CartKey("shopper-1")
	}, time.Second, 5*time.Millisecond)
	assert.True(t, w.Pending("shopper-1"))
	assert.False(t, w.Pending("shopper-2"))

	close(store.gate)
	require.Eventually(t, func() bool {
		return !w.Pending("shopper-1")
	}, time.Second, 5*time.Millisecond)
	closeWriter(t, w)
}
