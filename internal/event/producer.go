package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/utafrali/patatpalace/internal/domain"
	pkgkafka "github.com/utafrali/patatpalace/pkg/kafka"
)

// Kafka topic constants for storefront events.
const (
	TopicCartUpdated       = "patat.cart.updated"
	TopicCartCleared       = "patat.cart.cleared"
	TopicCheckoutConfirmed = "patat.checkout.confirmed"
)

// Aggregate type constants.
const (
	AggregateTypeCart  = "cart"
	AggregateTypeOrder = "order"
)

// SourceStorefront identifies events originating from this service.
const SourceStorefront = "storefront"

// CartUpdatedData is the payload for a cart.updated event.
type CartUpdatedData struct {
	SessionID string         `json:"session_id"`
	Items     []CartItemData `json:"items"`
	ItemCount int            `json:"item_count"`
	Total     string         `json:"total"`
}

// CartItemData is the item payload within cart events.
type CartItemData struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	Quantity  int    `json:"quantity"`
}

// CartClearedData is the payload for a cart.cleared event.
type CartClearedData struct {
	SessionID string `json:"session_id"`
}

// CheckoutConfirmedData is the payload for a checkout.confirmed event. No
// customer contact details are included.
type CheckoutConfirmedData struct {
	SessionID     string `json:"session_id"`
	OrderNumber   int    `json:"order_number"`
	ItemCount     int    `json:"item_count"`
	Total         string `json:"total"`
	PaymentMethod string `json:"payment_method"`
}

// publisher is implemented by *pkgkafka.Producer.
type publisher interface {
	Publish(ctx context.Context, topic string, event *pkgkafka.Event) error
}

// Producer publishes storefront domain events to Kafka.
type Producer struct {
	kafka  publisher
	logger *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(kafka publisher, logger *slog.Logger) *Producer {
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
			ProductID: item.ID,
			Name:      item.Name,
			Price:     item.UnitPrice.StringFixed(2),
			Quantity:  item.Quantity,
		}
	}

	data := CartUpdatedData{
		SessionID: cart.SessionID,
		Items:     items,
		ItemCount: cart.ItemCount(),
		Total:     cart.Total.StringFixed(2),
	}

	if err := p.publish(ctx, TopicCartUpdated, "cart.updated", cart.SessionID, AggregateTypeCart, data); err != nil {
		return err
	}

	p.logger.DebugContext(ctx, "published cart.updated event",
		slog.String("session_id", cart.SessionID),
		slog.Int("item_count", data.ItemCount),
	)
	return nil
}

// PublishCartCleared publishes a cart.cleared event.
func (p *Producer) PublishCartCleared(ctx context.Context, sessionID string) error {
	return p.publish(ctx, TopicCartCleared, "cart.cleared", sessionID, AggregateTypeCart, CartClearedData{SessionID: sessionID})
}

// PublishCheckoutConfirmed publishes a checkout.confirmed event.
func (p *Producer) PublishCheckoutConfirmed(ctx context.Context, sessionID string, conf *domain.Confirmation) error {
	data := CheckoutConfirmedData{
		SessionID:     sessionID,
		OrderNumber:   conf.OrderNumber,
		ItemCount:     conf.Summary.ItemCount,
		Total:         conf.Summary.TotalAmount.StringFixed(2),
		PaymentMethod: string(conf.PaymentMethod),
	}

	if err := p.publish(ctx, TopicCheckoutConfirmed, "checkout.confirmed", fmt.Sprint(conf.OrderNumber), AggregateTypeOrder, data); err != nil {
		return err
	}

	p.logger.InfoContext(ctx, "published checkout.confirmed event",
		slog.Int("order_number", conf.OrderNumber),
	)
	return nil
}

func (p *Producer) publish(ctx context.Context, topic, eventType, aggregateID, aggregateType string, data any) error {
	event, err := pkgkafka.NewEvent(ctx, eventType, aggregateID, aggregateType, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", eventType, err)
	}

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", eventType, err)
	}
	return nil
}

// Noop discards all events. It is used when no Kafka brokers are configured.
type Noop struct{}

func (Noop) PublishCartUpdated(context.Context, *domain.Cart) error { return nil }
func (Noop) PublishCartCleared(context.Context, string) error       { return nil }
func (Noop) PublishCheckoutConfirmed(context.Context, string, *domain.Confirmation) error {
	return nil
}
