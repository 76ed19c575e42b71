package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/utafrali/ShopHub/internal/domain"
	"github.com/utafrali/ShopHub/internal/event"
	"github.com/utafrali/ShopHub/internal/session"
	apperrors "github.com/utafrali/ShopHub/pkg/errors"
)

// MaxQuantityPerItem is the largest quantity a shopper may request for one
// line.
const MaxQuantityPerItem = 99

// CartView is the cart with its derived aggregates.
type CartView struct {
	Lines      []domain.CartLine `json:"lines"`
	Total      int64             `json:"total"`
	Count      int               `json:"count"`
	ItemsCount int               `json:"items_count"`
}

func newCartView(cart domain.Cart) *CartView {
	lines := cart.Lines
	if lines == nil {
		lines = []domain.CartLine{}
	}
	return &CartView{
		Lines:      lines,
		Total:      cart.Total(),
		Count:      cart.Count(),
		ItemsCount: cart.ItemsCount(),
	}
}

// CartService implements the cart operations of a shopper.
type CartService struct {
	sessions  Sessions
	catalog   domain.ProductLookup
	producer  *event.Producer
	logger    *slog.Logger
	readyWait time.Duration
}

// NewCartService creates a new cart service. Every operation waits up to
// readyWait for the shopper's persisted cart to be loaded.
func NewCartService(sessions Sessions, catalog domain.ProductLookup, producer *event.Producer, logger *slog.Logger, readyWait time.Duration) *CartService {
	return &CartService{
		sessions:  sessions,
		catalog:   catalog,
		producer:  producer,
		logger:    logger,
		readyWait: readyWait,
	}
}

// GetCart returns the shopper's cart.
func (s *CartService) GetCart(ctx context.Context, shopperID string) (*CartView, error) {
	sess := s.session(ctx, shopperID)
	return newCartView(sess.Cart.Snapshot()), nil
}

// AddItem adds one unit of the product to the cart.
func (s *CartService) AddItem(ctx context.Context, shopperID, productID string) (*CartView, error) {
	product, ok := s.catalog.Lookup(productID)
	if !ok {
		return nil, apperrors.NotFound("product", productID)
	}

	sess := s.session(ctx, shopperID)
	if !sess.Cart.AddItemUpTo(product, MaxQuantityPerItem) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("Quantity must be between 1 and %d", MaxQuantityPerItem))
	}

	cart := sess.Cart.Snapshot()
	s.publishUpdated(ctx, shopperID, cart)
	s.logger.InfoContext(ctx, "item added to cart",
		slog.String("shopper_id", shopperID),
		slog.String("product_id", productID),
	)
	return newCartView(cart), nil
}

// UpdateQuantity sets the quantity of a line. Zero removes it.
func (s *CartService) UpdateQuantity(ctx context.Context, shopperID, productID string, quantity int) (*CartView, error) {
	if quantity < 0 || quantity > MaxQuantityPerItem {
		return nil, apperrors.InvalidInput(fmt.Sprintf("Quantity must be between 1 and %d", MaxQuantityPerItem))
	}

	sess := s.session(ctx, shopperID)
	sess.Cart.UpdateQuantity(productID, quantity)

	cart := sess.Cart.Snapshot()
	s.publishUpdated(ctx, shopperID, cart)
	return newCartView(cart), nil
}

// RemoveItem removes a line. Removing an absent product is not an error.
func (s *CartService) RemoveItem(ctx context.Context, shopperID, productID string) (*CartView, error) {
	sess := s.session(ctx, shopperID)
	sess.Cart.RemoveItem(productID)

	cart := sess.Cart.Snapshot()
	s.publishUpdated(ctx, shopperID, cart)
	return newCartView(cart), nil
}

// ClearCart empties the cart.
func (s *CartService) ClearCart(ctx context.Context, shopperID string) (*CartView, error) {
	sess := s.session(ctx, shopperID)
	sess.Cart.ClearCart()

	if err := s.producer.PublishCartCleared(ctx, shopperID); err != nil {
		s.logger.WarnContext(ctx, "failed to publish cart.cleared event",
			slog.String("shopper_id", shopperID),
			slog.String("error", err.Error()),
		)
	}
	s.logger.InfoContext(ctx, "cart cleared", slog.String("shopper_id", shopperID))
	return newCartView(sess.Cart.Snapshot()), nil
}

// session returns the shopper's session once its persisted state is loaded,
// or after readyWait.
func (s *CartService) session(ctx context.Context, shopperID string) *session.Session {
	sess := s.sessions.Get(shopperID)
	awaitReady(ctx, sess, s.readyWait, s.logger)
	return sess
}

func (s *CartService) publishUpdated(ctx context.Context, shopperID string, cart domain.Cart) {
	if err := s.producer.PublishCartUpdated(ctx, shopperID, cart); err != nil {
		s.logger.WarnContext(ctx, "failed to publish cart.updated event",
			slog.String("shopper_id", shopperID),
			slog.String("error", err.Error()),
		)
	}
}
