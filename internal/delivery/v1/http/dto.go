package http

import (
	"time"

	"github.com/DRSN-tech/shop-backend/internal/domain"
	"github.com/DRSN-tech/shop-backend/internal/usecase"
	"github.com/shopspring/decimal"
)

// Денежные суммы отдаются строками с двумя знаками после запятой.

type CreateOrderItemRequest struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

type CreateOrderRequest struct {
	Items           []CreateOrderItemRequest `json:"items"`
	ShippingAddress *string                  `json:"shippingAddress,omitempty"`
	Notes           *string                  `json:"notes,omitempty"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type RegisterProductRequest struct {
	Name         string          `json:"name"`
	CategoryName string          `json:"categoryName"`
	Price        decimal.Decimal `json:"price" swaggertype:"string"`
	Stock        int             `json:"stock"`
	IsActive     *bool           `json:"isActive,omitempty"`
}

type OrderItemResponse struct {
	ProductID   int64  `json:"productId"`
	ProductName string `json:"productName"`
	Quantity    int    `json:"quantity"`
	Price       string `json:"price"`
}

type OrderResponse struct {
	ID              string              `json:"id"`
	UserID          string              `json:"userId"`
	Items           []OrderItemResponse `json:"items"`
	TotalAmount     string              `json:"totalAmount"`
	Status          string              `json:"status"`
	ShippingAddress *string             `json:"shippingAddress,omitempty"`
	Notes           *string             `json:"notes,omitempty"`
	CreatedAt       time.Time           `json:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt"`
}

type OrdersPageResponse struct {
	Orders     []OrderResponse `json:"orders"`
	HasMore    bool            `json:"hasMore"`
	TotalCount int64           `json:"totalCount"`
	EndCursor  string          `json:"endCursor,omitempty"`
}

type AnalyticsResponse struct {
	TotalOrders       int64            `json:"totalOrders"`
	TotalRevenue      string           `json:"totalRevenue"`
	AverageOrderValue string           `json:"averageOrderValue"`
	OrdersByStatus    map[string]int64 `json:"ordersByStatus"`
}

type ExportResponse struct {
	ObjectKey string `json:"objectKey"`
}

type ProductResponse struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	CategoryName string `json:"categoryName,omitempty"`
	Price        string `json:"price"`
	Stock        int    `json:"stock"`
	IsActive     bool   `json:"isActive"`
}

type ProductsResponse struct {
	Products []ProductResponse `json:"products"`
	NotFound []int64           `json:"notFound"`
}

// MAPPERS

func (r *CreateOrderRequest) toUseCase() *usecase.CreateOrderReq {
	items := make([]usecase.OrderItemReq, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, usecase.OrderItemReq{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	return &usecase.CreateOrderReq{
		Items:           items,
		ShippingAddress: r.ShippingAddress,
		Notes:           r.Notes,
	}
}

func (r *RegisterProductRequest) toUseCase() *usecase.RegisterProductReq {
	isActive := true
	if r.IsActive != nil {
		isActive = *r.IsActive
	}

	return &usecase.RegisterProductReq{
		Name:         r.Name,
		CategoryName: r.CategoryName,
		Price:        r.Price,
		Stock:        r.Stock,
		IsActive:     isActive,
	}
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func toOrderResponse(order *domain.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemResponse{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Price:       money(item.Price),
		})
	}

	return OrderResponse{
		ID:              order.ID.String(),
		UserID:          order.UserID,
		Items:           items,
		TotalAmount:     money(order.TotalAmount),
		Status:          string(order.Status),
		ShippingAddress: order.ShippingAddress,
		Notes:           order.Notes,
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
	}
}

func toOrdersPageResponse(page *usecase.OrdersPage) OrdersPageResponse {
	orders := make([]OrderResponse, 0, len(page.Orders))
	for _, order := range page.Orders {
		orders = append(orders, toOrderResponse(order))
	}

	return OrdersPageResponse{
		Orders:     orders,
		HasMore:    page.HasMore,
		TotalCount: page.TotalCount,
		EndCursor:  page.EndCursor,
	}
}

// toAnalyticsResponse перечисляет все статусы, включая нулевые.
func toAnalyticsResponse(a *usecase.OrderAnalytics) AnalyticsResponse {
	byStatus := make(map[string]int64, len(domain.AllStatuses))
	for _, status := range domain.AllStatuses {
		byStatus[string(status)] = a.OrdersByStatus[status]
	}

	return AnalyticsResponse{
		TotalOrders:       a.TotalOrders,
		TotalRevenue:      money(a.TotalRevenue),
		AverageOrderValue: money(a.AverageOrderValue),
		OrdersByStatus:    byStatus,
	}
}

func toProductResponse(p usecase.ProductInfo) ProductResponse {
	return ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		CategoryName: p.CategoryName,
		Price:        money(p.Price),
		Stock:        p.Stock,
		IsActive:     p.IsActive,
	}
}

func toProductsResponse(res *usecase.GetProductsRes) ProductsResponse {
	products := make([]ProductResponse, 0, len(res.Products))
	for _, p := range res.Products {
		products = append(products, toProductResponse(p))
	}

	notFound := res.NotFoundProducts
	if notFound == nil {
		notFound = []int64{}
	}

	return ProductsResponse{Products: products, NotFound: notFound}
}

func toRegisteredProductResponse(p *domain.Product, categoryName string) ProductResponse {
	return ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		CategoryName: categoryName,
		Price:        money(p.Price),
		Stock:        p.Stock,
		IsActive:     p.IsActive,
	}
}
