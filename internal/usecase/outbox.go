package usecase

import (
	"time"

	"github.com/DRSN-tech/shop-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OutboxStatus string

const (
	Pending    OutboxStatus = "pending"
	Processing OutboxStatus = "processing"
	Processed  OutboxStatus = "processed"
)

type OutboxEventType string

const (
	EventOrderCreated       OutboxEventType = "order.created"
	EventOrderCancelled     OutboxEventType = "order.cancelled"
	EventOrderStatusChanged OutboxEventType = "order.status_changed"
)

// OutboxEvent: строка outbox_events; пишется в той же транзакции, что и изменение заказа.
type OutboxEvent struct {
	ID          int64
	EventID     uuid.UUID
	EventType   OutboxEventType
	AggregateID string // ключ партиционирования в Kafka (id заказа)
	Payload     []byte
	Status      OutboxStatus
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

// OrderEvent: содержимое события жизненного цикла заказа.
type OrderEvent struct {
	EventID        uuid.UUID
	Type           OutboxEventType
	OrderID        uuid.UUID
	UserID         string
	ActorID        string
	Status         domain.OrderStatus
	PreviousStatus domain.OrderStatus
	TotalAmount    decimal.Decimal
	Items          []domain.OrderItem
	OccurredAt     time.Time
}

func NewOutboxEvent(event *OrderEvent, payload []byte) *OutboxEvent {
	return &OutboxEvent{
		EventID:     event.EventID,
		EventType:   event.Type,
		AggregateID: event.OrderID.String(),
		Payload:     payload,
		Status:      Pending,
		CreatedAt:   event.OccurredAt,
	}
}

func NewOrderEvent(eventType OutboxEventType, order *domain.Order, previous domain.OrderStatus, actorID string, at time.Time) *OrderEvent {
	return &OrderEvent{
		EventID:        uuid.New(),
		Type:           eventType,
		OrderID:        order.ID,
		UserID:         order.UserID,
		ActorID:        actorID,
		Status:         order.Status,
		PreviousStatus: previous,
		TotalAmount:    order.TotalAmount,
		Items:          order.Items,
		OccurredAt:     at,
	}
}
