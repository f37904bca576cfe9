package e

import (
	"errors"
	"fmt"
)

var (
	// Конфигурация
	ErrIncorrectEnvVariable = fmt.Errorf("incorrect environment variable")

	// Временная ошибка, запрос можно повторить
	ErrTransient = fmt.Errorf("transient failure, retry the request")

	// Конфликты условных обновлений (строка не обновлена)
	ErrStockConflict  = fmt.Errorf("stock conditional update rejected")
	ErrStatusConflict = fmt.Errorf("order status changed concurrently")

	// 400 Bad Request
	ErrStatusBadRequest    = fmt.Errorf("bad request")
	ErrEmptyOrder          = fmt.Errorf("order must contain at least one item")
	ErrInvalidQuantity     = fmt.Errorf("quantity must be a positive integer")
	ErrInvalidCursor       = fmt.Errorf("invalid pagination cursor")
	ErrInvalidStatus       = fmt.Errorf("unknown order status")
	ErrInvalidPrice        = fmt.Errorf("invalid price")
	ErrPricePrecision      = fmt.Errorf("price must have at most 2 decimal places")
	ErrInvalidStock        = fmt.Errorf("stock must not be negative")
	ErrMissingFields       = fmt.Errorf("missing required fields")
	ErrProductNameRequired = fmt.Errorf("product name is required")
	ErrNoProducts          = fmt.Errorf("no product ids provided")

	// 401 Unauthorized
	ErrInvalidIdentity = fmt.Errorf("missing or malformed caller identity")

	// 403 Forbidden
	ErrUnauthorized  = fmt.Errorf("actor is not allowed to access this order")
	ErrAdminRequired = fmt.Errorf("admin role required")

	// 404 Not Found
	ErrProductNotFound = fmt.Errorf("product not found")
	ErrOrderNotFound   = fmt.Errorf("order not found")

	// 409 Conflict
	ErrProductInactive         = fmt.Errorf("product is not available for sale")
	ErrInsufficientStock       = fmt.Errorf("insufficient stock")
	ErrInvalidStatusTransition = fmt.Errorf("invalid order status transition")

	// 500 Internal Server Error
	ErrInternalServerError = fmt.Errorf("internal server error")
)

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}

// IsDomain сообщает, относится ли ошибка к бизнес-ошибкам, которые не имеет смысла повторять.
func IsDomain(err error) bool {
	for _, target := range []error{
		ErrEmptyOrder, ErrInvalidQuantity, ErrInvalidCursor, ErrInvalidStatus,
		ErrUnauthorized, ErrProductNotFound, ErrOrderNotFound,
		ErrProductInactive, ErrInsufficientStock, ErrInvalidStatusTransition,
	} {
		if errors.Is(err, target) {
			return true
		}
	}

	return false
}
