// Package persist writes shopper state snapshots to the key-value store in
// the background. Callers never wait on storage and never see its errors.
package persist

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/utafrali/ShopHub/internal/domain"
	"github.com/utafrali/ShopHub/internal/repository"
)

var (
	writesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shophub_persist_writes_total",
		Help: "Total number of shopper state snapshots written to storage.",
	})

	failuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shophub_persist_failures_total",
		Help: "Total number of shopper state snapshots that failed to persist.",
	})

	coalescedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shophub_persist_coalesced_total",
		Help: "Total number of snapshots replaced by a newer one before being written.",
	})

	pendingGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "shophub_persist_pending",
		Help: "Number of keys with a snapshot waiting to be written.",
	})
)

// Config tunes the writer.
type Config struct {
	// WriteTimeout bounds a single storage write.
	WriteTimeout time.Duration
}

// DefaultConfig returns the writer defaults.
func DefaultConfig() Config {
	return Config{WriteTimeout: 5 * time.Second}
}

// Writer keeps the latest pending snapshot per key and writes them on a
// single background goroutine.
type Writer struct {
	kv     repository.KeyValueStore
	logger *slog.Logger
	cfg    Config

	mu      sync.Mutex
	pending  map[string][]byte
	order    []string
	inflight string
	closed   bool

	wake chan struct{}
	stop chan struct{}
	done chan struct{}
}

// NewWriter creates a writer and starts its background loop. Close must be
// called to flush pending snapshots and stop the loop.
func NewWriter(kv repository.KeyValueStore, cfg Config, logger *slog.Logger) *Writer {
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = DefaultConfig().WriteTimeout
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	w := &Writer{
		kv:      kv,
		logger:  logger,
		cfg:     cfg,
		pending: make(map[string][]byte),
		wake:    make(chan struct{}, 1),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go w.run()
	return w
}

// SaveCart schedules the shopper's cart for persistence.
func (w *Writer) SaveCart(shopperID string, items []domain.StoredCartItem) {
	data, err := repository.EncodeCart(items)
	if err != nil {
		w.fail(repository.CartKey(shopperID), fmt.Errorf("encode cart: %w", err))
		return
	}
	w.Enqueue(repository.CartKey(shopperID), data)
}

// SaveWishlist schedules the shopper's wishlist for persistence.
func (w *Writer) SaveWishlist(shopperID string, ids []string) {
	data, err := repository.EncodeWishlist(ids)
	if err != nil {
		w.fail(repository.WishlistKey(shopperID), fmt.Errorf("encode wishlist: %w", err))
		return
	}
	w.Enqueue(repository.WishlistKey(shopperID), data)
}

// Enqueue schedules value to be written under key, replacing any snapshot
// for the same key that has not been written yet. After Close the snapshot
// is dropped.
func (w *Writer) Enqueue(key string, value []byte) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		w.logger.Warn("persist writer closed, dropping snapshot", slog.String("key", key))
		return
	}
	if _, ok := w.pending[key]; ok {
		coalescedTotal.Inc()
	} else {
		w.order = append(w.order, key)
	}
	w.pending[key] = value
	pendingGauge.Set(float64(len(w.pending)))
	w.mu.Unlock()

	select {
	case w.wake <- struct{}{}:
	default:
	}
}

// Pending reports whether a snapshot of the shopper's cart or wishlist is
// waiting to be written or is being written.
func (w *Writer) Pending(shopperID string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, key := range []string{repository.CartKey(shopperID), repository.WishlistKey(shopperID)} {
		if _, ok := w.pending[key]; ok || w.inflight == key {
			return true
		}
	}
	return false
}

// Close stops accepting snapshots and waits until the pending ones are
// written or ctx expires.
func (w *Writer) Close(ctx context.Context) error {
	w.mu.Lock()
	if !w.closed {
		w.closed = true
		close(w.stop)
	}
	w.mu.Unlock()

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("drain persist writer: %w", ctx.Err())
	}
}

func (w *Writer) run() {
	defer close(w.done)
	for {
		select {
		case <-w.wake:
			w.flush()
		case <-w.stop:
			w.flush()
			return
		}
	}
}

// flush writes every pending snapshot in first-enqueued order.
func (w *Writer) flush() {
	for {
		key, value, ok := w.next()
		if !ok {
			return
		}
		w.write(key, value)
		w.mu.Lock()
		w.inflight = ""
		w.mu.Unlock()
	}
}

func (w *Writer) next() (string, []byte, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(w.order) == 0 {
		return "", nil, false
	}
	key := w.order[0]
	w.order = w.order[1:]
	value := w.pending[key]
	delete(w.pending, key)
	w.inflight = key
	pendingGauge.Set(float64(len(w.pending)))
	return key, value, true
}

func (w *Writer) write(key string, value []byte) {
	ctx, cancel := context.WithTimeout(context.Background(), w.cfg.WriteTimeout)
	defer cancel()

	if err := w.kv.Set(ctx, key, value); err != nil {
		w.fail(key, err)
		return
	}
	writesTotal.Inc()
}

func (w *Writer) fail(key string, err error) {
	failuresTotal.Inc()
	w.logger.Error("failed to persist shopper state",
		slog.String("key", key),
		slog.String("error", err.Error()),
	)
}
