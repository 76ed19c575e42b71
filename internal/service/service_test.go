package service

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/ShopHub/internal/catalog"
	"github.com/utafrali/ShopHub/internal/event"
	"github.com/utafrali/ShopHub/internal/session"
	pkgkafka "github.com/utafrali/ShopHub/pkg/kafka"
)

// --- Mock Publisher ---

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, topic string, e *pkgkafka.Event) error {
	args := m.Called(ctx, topic, e)
	return args.Error(0)
}

// --- Test Helpers ---

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

type testEnv struct {
	catalog   *catalog.Catalog
	sessions  *session.Registry
	publisher *mockPublisher
	producer  *event.Producer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)

	pub := new(mockPublisher)
	logger := newTestLogger()
	return &testEnv{
		catalog:   cat,
		sessions:  session.NewRegistry(nil, nil, cat, session.DefaultConfig(), logger),
		publisher: pub,
		producer:  event.NewProducer(pub, logger),
	}
}

func (e *testEnv) cartService() *CartService {
	return NewCartService(e.sessions, e.catalog, e.producer, newTestLogger(), time.Second)
}

func (e *testEnv) wishlistService() *WishlistService {
	return NewWishlistService(e.sessions, e.catalog, e.producer, newTestLogger(), time.Second)
}
