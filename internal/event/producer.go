package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/utafrali/ShopHub/internal/domain"
	pkgkafka "github.com/utafrali/ShopHub/pkg/kafka"
	"github.com/utafrali/ShopHub/pkg/logger"
)

// Kafka topics for shopper state events.
var (
	TopicCartUpdated     = pkgkafka.Topic("cart", "updated")
	TopicCartCleared     = pkgkafka.Topic("cart", "cleared")
	TopicWishlistUpdated = pkgkafka.Topic("wishlist", "updated")
)

// Aggregate type constants.
const (
	AggregateTypeCart     = "cart"
	AggregateTypeWishlist = "wishlist"
)

// SourceShopHub identifies events originating from this service.
const SourceShopHub = "shophub"

// CartUpdatedData is the payload for a cart.updated event.
type CartUpdatedData struct {
	UserID     string         `json:"user_id"`
	Lines      []CartLineData `json:"lines"`
	Total      int64          `json:"total"`
	Count      int            `json:"count"`
	ItemsCount int            `json:"items_count"`
}

// CartLineData is the line payload within cart events.
type CartLineData struct {
	ProductID     string `json:"product_id"`
	Name          string `json:"name"`
	DiscountPrice int64  `json:"discount_price"`
	Quantity      int    `json:"quantity"`
}

// CartClearedData is the payload for a cart.cleared event.
type CartClearedData struct {
	UserID string `json:"user_id"`
}

// WishlistUpdatedData is the payload for a wishlist.updated event.
type WishlistUpdatedData struct {
	UserID string   `json:"user_id"`
	IDs    []string `json:"ids"`
}

// Publisher sends an event envelope to a topic.
type Publisher interface {
	Publish(ctx context.Context, topic string, event *pkgkafka.Event) error
}

// Producer publishes shopper state events. A Producer without a publisher
// drops every event.
type Producer struct {
	publisher Publisher
	logger    *slog.Logger
}

// NewProducer creates a new event producer. publisher may be nil when
// events are disabled.
func NewProducer(publisher Publisher, logger *slog.Logger) *Producer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Producer{
		publisher: publisher,
		logger:    logger,
	}
}

// PublishCartUpdated publishes a cart.updated event.
func (p *Producer) PublishCartUpdated(ctx context.Context, userID string, cart domain.Cart) error {
	lines := make([]CartLineData, len(cart.Lines))
	for i, line := range cart.Lines {
		lines[i] = CartLineData{
			ProductID:     line.Product.ID,
			Name:          line.Product.Name,
			DiscountPrice: line.Product.DiscountPrice,
			Quantity:      line.Quantity,
		}
	}

	data := CartUpdatedData{
		UserID:     userID,
		Lines:      lines,
		Total:      cart.Total(),
		Count:      cart.Count(),
		ItemsCount: cart.ItemsCount(),
	}
	return p.publish(ctx, TopicCartUpdated, userID, AggregateTypeCart, data)
}

// PublishCartCleared publishes a cart.cleared event.
func (p *Producer) PublishCartCleared(ctx context.Context, userID string) error {
	return p.publish(ctx, TopicCartCleared, userID, AggregateTypeCart, CartClearedData{UserID: userID})
}

// PublishWishlistUpdated publishes a wishlist.updated event.
func (p *Producer) PublishWishlistUpdated(ctx context.Context, userID string, ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	data := WishlistUpdatedData{UserID: userID, IDs: ids}
	return p.publish(ctx, TopicWishlistUpdated, userID, AggregateTypeWishlist, data)
}

func (p *Producer) publish(ctx context.Context, topic, userID, aggregateType string, data any) error {
	if p.publisher == nil {
		return nil
	}

	event, err := pkgkafka.NewEvent(topic, userID, aggregateType, SourceShopHub, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}
	if requestID := logger.RequestIDFromContext(ctx); requestID != "" {
		event.WithRequestID(requestID)
	}

	if err := p.publisher.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published event",
		slog.String("topic", topic),
		slog.String("user_id", userID),
	)
	return nil
}
