package usecase

import (
	"context"

	"github.com/DRSN-tech/shop-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// UnitOfWork выполняет fn атомарно. Реализация выбирается при сборке приложения:
// транзакция БД или прямой вызов без изоляции.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

type MessageProducer interface {
	WriteRawMessage(ctx context.Context, req *WriteRawMessageReq) error
}

// EventEncoder сериализует событие заказа в формат, который уходит в брокер.
type EventEncoder interface {
	EncodeOrderEvent(event *OrderEvent) ([]byte, error)
}

type OrderMetrics interface {
	OrderCreated(total decimal.Decimal)
	OrderCancelled()
	StatusChanged(from, to domain.OrderStatus)
	StockRejected()
}
