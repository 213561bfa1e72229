// Package events публикует доменные события заказов.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/linemk/wegx-store/internal/domain/models"
	"github.com/shopspring/decimal"
)

const (
	EventOrderCreated       = "OrderCreated"
	EventOrderStatusChanged = "OrderStatusChanged"
)

// Producer — имя сервиса в конверте события
const Producer = "wegx-store"

// Envelope — общий конверт события, payload зависит от event_type
type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	CorrelationID string          `json:"correlation_id,omitempty"` // id заказа
	Payload       json.RawMessage `json:"payload"`
}

type OrderCreatedPayload struct {
	OrderID         string               `json:"order_id"`
	OrderNumber     string               `json:"order_number"`
	Status          models.Status        `json:"status"`
	PaymentMethod   models.PaymentMethod `json:"payment_method"`
	Items           []models.OrderItem   `json:"items"`
	Total           decimal.Decimal      `json:"total"`
	ExpressDelivery bool                 `json:"express_delivery"`
}

type OrderStatusChangedPayload struct {
	OrderID     string        `json:"order_id"`
	OrderNumber string        `json:"order_number"`
	From        models.Status `json:"from"`
	To          models.Status `json:"to"`
	Message     string        `json:"message"`
}

// Publisher отправляет конверт события
type Publisher interface {
	Publish(ctx context.Context, env Envelope) error
	Close() error
}

// NewEnvelope собирает конверт с новым event_id
func NewEnvelope(eventType, correlationID string, at time.Time, payload any) (Envelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}
	return Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    at.UTC(),
		Producer:      Producer,
		CorrelationID: correlationID,
		Payload:       raw,
	}, nil
}

func OrderCreated(order *models.Order, at time.Time) (Envelope, error) {
	return NewEnvelope(EventOrderCreated, order.ID, at, OrderCreatedPayload{
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		Status:          order.Status,
		PaymentMethod:   order.PaymentMethod,
		Items:           order.Items,
		Total:           order.Total,
		ExpressDelivery: order.ExpressDelivery,
	})
}

func OrderStatusChanged(order *models.Order, from models.Status, message string, at time.Time) (Envelope, error) {
	return NewEnvelope(EventOrderStatusChanged, order.ID, at, OrderStatusChangedPayload{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		From:        from,
		To:          order.Status,
		Message:     message,
	})
}

// NoopPublisher отбрасывает события, используется когда брокер не настроен
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Envelope) error { return nil }
func (NoopPublisher) Close() error                            { return nil }
