package usecase

import (
	"github.com/DRSN-tech/shop-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// ORDER USECASE

// OrderItemReq: запрошенная позиция заказа.
type OrderItemReq struct {
	ProductID int64
	Quantity  int
}

// CreateOrderReq: запрос на оформление заказа.
type CreateOrderReq struct {
	Items           []OrderItemReq
	ShippingAddress *string
	Notes           *string
}

// ValidatedItem: результат проверки одной позиции.
type ValidatedItem struct {
	Product           *domain.Product
	RequestedQuantity int
	AvailableStock    int
}

// OrderFilter: фильтры списка заказов. nil означает «без фильтра».
type OrderFilter struct {
	Status *domain.OrderStatus
	UserID *string
}

// Pagination: курсорная пагинация: First элементов после курсора After.
type Pagination struct {
	First int
	After string
}

// PageLimits: размер страницы по умолчанию и верхняя граница.
type PageLimits struct {
	Default int
	Max     int
}

// OrdersPage: страница заказов.
// TotalCount учитывает только фильтр по пользователю, фильтр по статусу в нём не участвует.
type OrdersPage struct {
	Orders     []*domain.Order
	HasMore    bool
	TotalCount int64
	EndCursor  string
}

// OrderTotals: количество заказов и сумма total_amount по статусам из одного чтения.
type OrderTotals struct {
	ByStatus map[domain.OrderStatus]int64
	Revenue  decimal.Decimal
}

// OrderAnalytics: агрегаты по всем заказам, включая отменённые.
type OrderAnalytics struct {
	TotalOrders       int64
	TotalRevenue      decimal.Decimal
	AverageOrderValue decimal.Decimal
	OrdersByStatus    map[domain.OrderStatus]int64
}

// ExportReportRes: ключ выгруженного отчёта в объектном хранилище.
type ExportReportRes struct {
	ObjectKey string
}

// PRODUCT USECASE

// RegisterProductReq: запрос на регистрацию или обновление товара.
// Stock применяется только при первом создании товара.
type RegisterProductReq struct {
	Name         string
	CategoryName string
	Price        decimal.Decimal
	Stock        int
	IsActive     bool
}

// GetProductsReq запрос информации о продуктах по их идентификаторам.
type GetProductsReq struct {
	IDs []int64
}

// GetProductsRes: ответ с данными запрошенных продуктов.
type GetProductsRes struct {
	Products         []ProductInfo
	NotFoundProducts []int64
}

// ProductInfo: DTO с информацией о продукте для внешнего использования.
type ProductInfo struct {
	ID           int64
	Name         string
	CategoryName string
	Price        decimal.Decimal
	Stock        int
	IsActive     bool
}

// INFRASTUCTURE

type WriteRawMessageReq struct {
	Key     string
	Payload []byte
}

// REPOSITORIES

type UpsertProductRes struct {
	Product   *domain.Product
	NoChanges bool
}

// MAPPERS
func NewUpsertProductRes(product *domain.Product, noChanges bool) *UpsertProductRes {
	return &UpsertProductRes{
		Product:   product,
		NoChanges: noChanges,
	}
}

func NewProductInfo(id int64, name string, category string, price decimal.Decimal, stock int, isActive bool) ProductInfo {
	return ProductInfo{
		ID:           id,
		Name:         name,
		CategoryName: category,
		Price:        price,
		Stock:        stock,
		IsActive:     isActive,
	}
}

func NewGetProductsRes(pr []ProductInfo, notFoundProducts []int64) *GetProductsRes {
	return &GetProductsRes{
		Products:         pr,
		NotFoundProducts: notFoundProducts,
	}
}

func NewGetProductsReq(ids []int64) *GetProductsReq {
	return &GetProductsReq{ids}
}

func NewWriteRawMessageReq(key string, payload []byte) *WriteRawMessageReq {
	return &WriteRawMessageReq{
		Key:     key,
		Payload: payload,
	}
}

func NewValidatedItem(product *domain.Product, requested int) ValidatedItem {
	return ValidatedItem{
		Product:           product,
		RequestedQuantity: requested,
		AvailableStock:    product.Stock,
	}
}
