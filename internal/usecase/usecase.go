package usecase

import (
	"context"

	"github.com/DRSN-tech/shop-backend/internal/domain"
	"github.com/google/uuid"
)

type ProductUC interface {
	RegisterProduct(ctx context.Context, req *RegisterProductReq) (*domain.Product, error)
	GetProductsInfo(ctx context.Context, req *GetProductsReq) (*GetProductsRes, error)
}

type OrderUC interface {
	CreateOrder(ctx context.Context, userID string, req *CreateOrderReq) (*domain.Order, error)
	CancelOrder(ctx context.Context, orderID uuid.UUID, actorID string, role domain.Role) (*domain.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, newStatus domain.OrderStatus, adminID string) (*domain.Order, error)
	GetOrder(ctx context.Context, orderID uuid.UUID, actorID string, role domain.Role) (*domain.Order, error)
	GetOrderAnalytics(ctx context.Context) (*OrderAnalytics, error)
	GetOrdersPaginated(ctx context.Context, filter OrderFilter, page Pagination) (*OrdersPage, error)
}

type ReportUC interface {
	ExportAnalytics(ctx context.Context) (*ExportReportRes, error)
}
