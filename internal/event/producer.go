package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jschof1/val-des-roses/internal/domain"
	pkgkafka "github.com/jschof1/val-des-roses/pkg/kafka"
)

// Kafka topic constants for cart domain events.
const (
	TopicCartUpdated     = "valdesroses.cart.updated"
	TopicCartCleared     = "valdesroses.cart.cleared"
	TopicCheckoutCreated = "valdesroses.checkout.created"
)

// Aggregate type constant.
const AggregateTypeCart = "cart"

// Source identifier for events originating from the storefront service.
const SourceStorefront = "storefront"

// CartUpdatedData is the payload for a cart.updated event.
type CartUpdatedData struct {
	SessionID string         `json:"session_id"`
	Items     []CartItemData `json:"items"`
	ItemCount int            `json:"item_count"`
	Subtotal  string         `json:"subtotal"`
	Currency  string         `json:"currency"`
}

// CartItemData is the item payload within cart events.
type CartItemData struct {
	VariantID string `json:"variant_id"`
	Title     string `json:"title"`
	UnitPrice string `json:"unit_price"`
	Quantity  int    `json:"quantity"`
}

// CartClearedData is the payload for a cart.cleared event.
type CartClearedData struct {
	SessionID string `json:"session_id"`
}

// CheckoutCreatedData is the payload for a checkout.created event.
type CheckoutCreatedData struct {
	SessionID  string `json:"session_id"`
	CheckoutID string `json:"checkout_id"`
	WebURL     string `json:"web_url"`
	ItemCount  int    `json:"item_count"`
	Subtotal   string `json:"subtotal"`
	Currency   string `json:"currency"`
}

// Producer publishes cart domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer for the storefront cart.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishCartUpdated publishes a cart.updated event.
func (p *Producer) PublishCartUpdated(ctx context.Context, cart *domain.Cart) error {
	items := make([]CartItemData, len(cart.Items))
	for i, item := range cart.Items {
		items[i] = CartItemData{
			VariantID: item.VariantID,
			Title:     item.Title,
			UnitPrice: item.UnitPrice.Amount(),
			Quantity:  item.Quantity,
		}
	}

	data := CartUpdatedData{
		SessionID: cart.SessionID,
		Items:     items,
		ItemCount: cart.TotalQuantity(),
		Subtotal:  cart.Subtotal().Amount(),
		Currency:  cart.Currency,
	}

	event, err := pkgkafka.NewEvent(TopicCartUpdated, cart.SessionID, AggregateTypeCart, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create cart.updated event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicCartUpdated, event); err != nil {
		return fmt.Errorf("publish cart.updated event: %w", err)
	}

	p.logger.DebugContext(ctx, "published cart.updated event",
		slog.String("session_id", cart.SessionID),
		slog.Int("item_count", cart.TotalQuantity()),
	)

	return nil
}

// PublishCartCleared publishes a cart.cleared event.
func (p *Producer) PublishCartCleared(ctx context.Context, sessionID string) error {
	data := CartClearedData{SessionID: sessionID}

	event, err := pkgkafka.NewEvent(TopicCartCleared, sessionID, AggregateTypeCart, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create cart.cleared event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicCartCleared, event); err != nil {
		return fmt.Errorf("publish cart.cleared event: %w", err)
	}

	p.logger.DebugContext(ctx, "published cart.cleared event",
		slog.String("session_id", sessionID),
	)

	return nil
}

// PublishCheckoutCreated publishes a checkout.created event.
func (p *Producer) PublishCheckoutCreated(ctx context.Context, cart *domain.Cart, checkout *domain.CheckoutSession) error {
	data := CheckoutCreatedData{
		SessionID:  cart.SessionID,
		CheckoutID: checkout.CheckoutID,
		WebURL:     checkout.WebURL,
		ItemCount:  cart.TotalQuantity(),
		Subtotal:   cart.Subtotal().Amount(),
		Currency:   cart.Currency,
	}

	event, err := pkgkafka.NewEvent(TopicCheckoutCreated, cart.SessionID, AggregateTypeCart, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create checkout.created event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicCheckoutCreated, event); err != nil {
		return fmt.Errorf("publish checkout.created event: %w", err)
	}

	p.logger.DebugContext(ctx, "published checkout.created event",
		slog.String("session_id", cart.SessionID),
		slog.String("checkout_id", checkout.CheckoutID),
	)

	return nil
}
