package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Role: роль вызывающего, приходит от шлюза уже аутентифицированной.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// Order: заказ. Позиции, сумма, адрес и комментарий фиксируются при создании
// и дальше не меняются; меняется только статус.
type Order struct {
	ID              uuid.UUID
	UserID          string
	Items           []OrderItem
	TotalAmount     decimal.Decimal
	Status          OrderStatus
	ShippingAddress *string
	Notes           *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// OrderItem: позиция заказа. Price: снимок цены товара на момент оформления.
type OrderItem struct {
	ProductID   int64
	ProductName string
	Quantity    int
	Price       decimal.Decimal
}

// LineTotal возвращает стоимость позиции.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// NewOrder собирает заказ в статусе pending и один раз считает его сумму.
func NewOrder(id uuid.UUID, userID string, items []OrderItem, shippingAddress, notes *string) *Order {
	return &Order{
		ID:              id,
		UserID:          userID,
		Items:           items,
		TotalAmount:     SumItems(items),
		Status:          StatusPending,
		ShippingAddress: shippingAddress,
		Notes:           notes,
	}
}

// SumItems: sum(price * quantity) без округления.
func SumItems(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal())
	}

	return total
}

// IsOwnedBy сообщает, принадлежит ли заказ пользователю.
func (o *Order) IsOwnedBy(userID string) bool {
	return o.UserID == userID
}

// CanBeAccessedBy: администратор видит любой заказ, остальные только свои.
func (o *Order) CanBeAccessedBy(actorID string, role Role) bool {
	return role == RoleAdmin || o.IsOwnedBy(actorID)
}
