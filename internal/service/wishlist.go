package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/utafrali/ShopHub/internal/domain"
	"github.com/utafrali/ShopHub/internal/event"
	"github.com/utafrali/ShopHub/internal/session"
	apperrors "github.com/utafrali/ShopHub/pkg/errors"
)

// WishlistView is the wishlist with its size.
type WishlistView struct {
	IDs   []string `json:"ids"`
	Count int      `json:"count"`
	// InWishlist is set by Toggle to the membership of the toggled id.
	InWishlist *bool `json:"in_wishlist,omitempty"`
}

// WishlistService implements the wishlist operations of a shopper.
type WishlistService struct {
	sessions  Sessions
	catalog   domain.ProductLookup
	producer  *event.Producer
	logger    *slog.Logger
	readyWait time.Duration
}

// NewWishlistService creates a new wishlist service.
func NewWishlistService(sessions Sessions, catalog domain.ProductLookup, producer *event.Producer, logger *slog.Logger, readyWait time.Duration) *WishlistService {
	return &WishlistService{
		sessions:  sessions,
		catalog:   catalog,
		producer:  producer,
		logger:    logger,
		readyWait: readyWait,
	}
}

// GetWishlist returns the shopper's wishlist.
func (s *WishlistService) GetWishlist(ctx context.Context, shopperID string) (*WishlistView, error) {
	sess := s.session(ctx, shopperID)
	ids := sess.Wishlist.Items()
	return &WishlistView{IDs: ids, Count: len(ids)}, nil
}

// Toggle likes a product, or unlikes it when already liked.
func (s *WishlistService) Toggle(ctx context.Context, shopperID, productID string) (*WishlistView, error) {
	if _, ok := s.catalog.Lookup(productID); !ok {
		return nil, apperrors.NotFound("product", productID)
	}

	sess := s.session(ctx, shopperID)
	in := sess.Wishlist.Toggle(productID)

	view := s.afterMutation(ctx, shopperID, sess.Wishlist.Items())
	view.InWishlist = &in
	return view, nil
}

// Remove unlikes a product. Removing an absent id is not an error.
func (s *WishlistService) Remove(ctx context.Context, shopperID, productID string) (*WishlistView, error) {
	sess := s.session(ctx, shopperID)
	sess.Wishlist.Remove(productID)
	return s.afterMutation(ctx, shopperID, sess.Wishlist.Items()), nil
}

// Clear empties the wishlist.
func (s *WishlistService) Clear(ctx context.Context, shopperID string) (*WishlistView, error) {
	sess := s.session(ctx, shopperID)
	sess.Wishlist.Clear()
	return s.afterMutation(ctx, shopperID, sess.Wishlist.Items()), nil
}

func (s *WishlistService) session(ctx context.Context, shopperID string) *session.Session {
	sess := s.sessions.Get(shopperID)
	awaitReady(ctx, sess, s.readyWait, s.logger)
	return sess
}

func (s *WishlistService) afterMutation(ctx context.Context, shopperID string, ids []string) *WishlistView {
	if err := s.producer.PublishWishlistUpdated(ctx, shopperID, ids); err != nil {
		s.logger.WarnContext(ctx, "failed to publish wishlist.updated event",
			slog.String("shopper_id", shopperID),
			slog.String("error", err.Error()),
		)
	}
	return &WishlistView{IDs: ids, Count: len(ids)}
}
