package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/goldendrop/storefront/internal/cart"
	pkgkafka "github.com/goldendrop/storefront/pkg/kafka"
	"github.com/goldendrop/storefront/pkg/logger"
)

// Kafka topics for storefront domain events.
const (
	TopicCartUpdated          = "storefront.cart.updated"
	TopicCartCleared          = "storefront.cart.cleared"
	TopicOrderSubmitted       = "storefront.order.submitted"
	TopicNewsletterSubscribed = "storefront.newsletter.subscribed"
)

// Aggregate type constants.
const (
	AggregateTypeCart       = "cart"
	AggregateTypeOrder      = "order"
	AggregateTypeSubscriber = "subscriber"
)

// Source identifier for events originating from the storefront.
const SourceStorefront = "storefront"

// CartUpdatedData is the payload for a cart.updated event.
type CartUpdatedData struct {
	Token     string         `json:"token"`
	Lines     []CartLineData `json:"lines"`
	ItemCount int            `json:"item_count"`
	Subtotal  int64          `json:"subtotal"`
	Currency  string         `json:"currency"`
}

// CartLineData is the line payload within cart events.
type CartLineData struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Weight    int    `json:"weight"`
	Price     int64  `json:"price"`
	Quantity  int    `json:"quantity"`
}

// CartClearedData is the payload for a cart.cleared event.
type CartClearedData struct {
	Token string `json:"token"`
}

// OrderSubmittedData is the payload for an order.submitted event, emitted
// when a checkout session is handed off to the payment processor.
type OrderSubmittedData struct {
	SessionID   string         `json:"session_id"`
	Token       string         `json:"token"`
	Email       string         `json:"email"`
	Lines       []CartLineData `json:"lines"`
	Subtotal    int64          `json:"subtotal"`
	Shipping    int64          `json:"shipping"`
	Total       int64          `json:"total"`
	TotalWeight int            `json:"total_weight"`
	TestMode    bool           `json:"test_mode"`
}

// NewsletterSubscribedData is the payload for a newsletter.subscribed event.
type NewsletterSubscribedData struct {
	Email        string `json:"email"`
	DiscountCode string `json:"discount_code"`
	EmailSent    bool   `json:"email_sent"`
}

// Producer publishes storefront domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer for the storefront.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// newEvent builds the envelope for a storefront event and stamps it with
// the request correlation ID, so consumers can tie the event back to the
// HTTP request that caused it.
func newEvent(ctx context.Context, eventType, aggregateID, aggregateType string, data any) (*pkgkafka.Event, error) {
	event, err := pkgkafka.NewEvent(eventType, aggregateID, aggregateType, SourceStorefront, data)
	if err != nil {
		return nil, err
	}
	if id := logger.CorrelationIDFromContext(ctx); id != "" {
		event.WithCorrelationID(id)
	}
	return event, nil
}

func cartLines(c *cart.Cart) []CartLineData {
	lines := make([]CartLineData, len(c.Lines))
	for i, l := range c.Lines {
		lines[i] = CartLineData{
			ProductID: l.ProductID,
			Name:      l.Name,
			Weight:    l.Weight,
			Price:     l.Price,
			Quantity:  l.Quantity,
		}
	}
	return lines
}

// PublishCartUpdated publishes a cart.updated event.
func (p *Producer) PublishCartUpdated(ctx context.Context, c *cart.Cart) error {
	data := CartUpdatedData{
		Token:     c.Token,
		Lines:     cartLines(c),
		ItemCount: c.ItemCount(),
		Subtotal:  c.Subtotal(),
		Currency:  c.Currency,
	}

	event, err := newEvent(ctx, TopicCartUpdated, c.Token, AggregateTypeCart, data)
	if err != nil {
		return fmt.Errorf("create cart.updated event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicCartUpdated, event); err != nil {
		return fmt.Errorf("publish cart.updated event: %w", err)
	}

	p.logger.DebugContext(ctx, "published cart.updated event",
		slog.String("cart_token", c.Token),
		slog.Int("item_count", c.ItemCount()),
	)

	return nil
}

// PublishCartCleared publishes a cart.cleared event.
func (p *Producer) PublishCartCleared(ctx context.Context, token string) error {
	event, err := newEvent(ctx, TopicCartCleared, token, AggregateTypeCart, CartClearedData{Token: token})
	if err != nil {
		return fmt.Errorf("create cart.cleared event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicCartCleared, event); err != nil {
		return fmt.Errorf("publish cart.cleared event: %w", err)
	}

	return nil
}

// PublishOrderSubmitted publishes an order.submitted event.
func (p *Producer) PublishOrderSubmitted(ctx context.Context, data OrderSubmittedData) error {
	event, err := newEvent(ctx, TopicOrderSubmitted, data.SessionID, AggregateTypeOrder, data)
	if err != nil {
		return fmt.Errorf("create order.submitted event: %w", err)
	}
	if data.TestMode {
		event.WithMetadata("test_mode", "true")
	}

	if err := p.kafka.Publish(ctx, TopicOrderSubmitted, event); err != nil {
		return fmt.Errorf("publish order.submitted event: %w", err)
	}

	p.logger.DebugContext(ctx, "published order.submitted event",
		slog.String("session_id", data.SessionID),
		slog.Int64("total", data.Total),
	)

	return nil
}

// PublishNewsletterSubscribed publishes a newsletter.subscribed event.
func (p *Producer) PublishNewsletterSubscribed(ctx context.Context, data NewsletterSubscribedData) error {
	event, err := newEvent(ctx, TopicNewsletterSubscribed, data.Email, AggregateTypeSubscriber, data)
	if err != nil {
		return fmt.Errorf("create newsletter.subscribed event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicNewsletterSubscribed, event); err != nil {
		return fmt.Errorf("publish newsletter.subscribed event: %w", err)
	}

	return nil
}
