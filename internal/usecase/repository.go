package usecase

import (
	"context"
	"time"

	"github.com/DRSN-tech/shop-backend/internal/domain"
	"github.com/google/uuid"
)

// ProductReader: чтение товара, которого достаточно валидатору остатков.
type ProductReader interface {
	FindByID(ctx context.Context, id int64) (*domain.Product, error)
}

type ProductRepository interface {
	ProductReader
	// AdjustStock атомарно меняет остаток на delta, если результат не уходит в минус.
	// Иначе возвращает e.ErrStockConflict.
	AdjustStock(ctx context.Context, id int64, delta int) (int, error)
	Upsert(ctx context.Context, product *domain.Product) (*UpsertProductRes, error)
	GetProductsInfo(ctx context.Context, ids []int64) ([]ProductInfo, error)
}

type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) (*domain.Category, error)
}

type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) (*domain.Order, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	// UpdateStatus меняет статус только если текущий равен from, иначе e.ErrStatusConflict.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.OrderStatus) (*domain.Order, error)
	// FindMany возвращает до limit заказов по убыванию created_at строго после курсора.
	FindMany(ctx context.Context, filter OrderFilter, limit int, after *uuid.UUID) ([]*domain.Order, error)
	CountByUserID(ctx context.Context, userID *string) (int64, error)
	// Aggregate считает количество и выручку по статусам одним снимком.
	Aggregate(ctx context.Context) (*OrderTotals, error)
}

// OutboxRepository пишет события в outbox в рамках текущей транзакции.
type OutboxRepository interface {
	Create(ctx context.Context, event *OutboxEvent) (*OutboxEvent, error)
}

// OutboxQueue: сторона outbox, которую разбирает воркер.
type OutboxQueue interface {
	GetAndMarkAsProcessing(ctx context.Context, limit int) ([]*OutboxEvent, error)
	MarkAsProcessed(ctx context.Context, id int64) error
	ReleaseToPending(ctx context.Context, id int64) error
	// ReclaimStale возвращает в очередь события, зависшие в processing дольше olderThan.
	ReclaimStale(ctx context.Context, olderThan time.Duration) (int64, error)
}

type CacheRepository interface {
	GetProducts(ctx context.Context, ids []int64) (map[int64]ProductInfo, error)
	SetProducts(ctx context.Context, products []ProductInfo) error
	DeleteProducts(ctx context.Context, ids []int64) error
}

type ReportRepository interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
}
