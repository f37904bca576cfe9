package domain

import (
	"fmt"

	"github.com/DRSN-tech/shop-backend/pkg/e"
	"github.com/google/uuid"
)

// Структурированные бизнес-ошибки. Каждая сопоставляется со своим
// sentinel-значением из pkg/e через errors.Is.

type ProductNotFoundError struct {
	ProductID int64
}

func (err *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %d not found", err.ProductID)
}

func (err *ProductNotFoundError) Unwrap() error { return e.ErrProductNotFound }

type ProductInactiveError struct {
	ProductID int64
	Name      string
}

func (err *ProductInactiveError) Error() string {
	return fmt.Sprintf("product %d (%s) is not available for sale", err.ProductID, err.Name)
}

func (err *ProductInactiveError) Unwrap() error { return e.ErrProductInactive }

type InsufficientStockError struct {
	ProductID int64
	Name      string
	Available int
	Requested int
}

func (err *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d (%s): available %d, requested %d",
		err.ProductID, err.Name, err.Available, err.Requested)
}

func (err *InsufficientStockError) Unwrap() error { return e.ErrInsufficientStock }

type OrderNotFoundError struct {
	OrderID uuid.UUID
}

func (err *OrderNotFoundError) Error() string {
	return fmt.Sprintf("order %s not found", err.OrderID)
}

func (err *OrderNotFoundError) Unwrap() error { return e.ErrOrderNotFound }

type UnauthorizedError struct {
	OrderID uuid.UUID
	ActorID string
}

func (err *UnauthorizedError) Error() string {
	return fmt.Sprintf("actor %q is not allowed to access order %s", err.ActorID, err.OrderID)
}

func (err *UnauthorizedError) Unwrap() error { return e.ErrUnauthorized }

type InvalidStatusTransitionError struct {
	From OrderStatus
	To   OrderStatus
}

func (err *InvalidStatusTransitionError) Error() string {
	return fmt.Sprintf("cannot change order status from %q to %q", err.From, err.To)
}

func (err *InvalidStatusTransitionError) Unwrap() error { return e.ErrInvalidStatusTransition }

type InvalidQuantityError struct {
	ProductID int64
	Quantity  int
}

func (err *InvalidQuantityError) Error() string {
	return fmt.Sprintf("invalid quantity %d for product %d", err.Quantity, err.ProductID)
}

func (err *InvalidQuantityError) Unwrap() error { return e.ErrInvalidQuantity }
