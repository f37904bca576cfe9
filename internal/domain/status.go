package domain

import (
	"strings"

	"github.com/DRSN-tech/shop-backend/pkg/e"
)

type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusConfirmed  OrderStatus = "confirmed"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

// AllStatuses перечисляет статусы в порядке жизненного цикла.
var AllStatuses = []OrderStatus{
	StatusPending,
	StatusConfirmed,
	StatusProcessing,
	StatusShipped,
	StatusDelivered,
	StatusCancelled,
}

// transitions: единственный источник допустимых переходов статуса заказа.
// delivered и cancelled терминальные.
var transitions = map[OrderStatus][]OrderStatus{
	StatusPending:    {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered},
	StatusDelivered:  {},
	StatusCancelled:  {},
}

// IsValidTransition проверяет переход current -> next по таблице.
// Неизвестный current даёт false.
func IsValidTransition(current, next OrderStatus) bool {
	allowed, ok := transitions[current]
	if !ok {
		return false
	}

	for _, s := range allowed {
		if s == next {
			return true
		}
	}

	return false
}

// CanTransitionTo: IsValidTransition в форме метода.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	return IsValidTransition(s, next)
}

// IsTerminal сообщает, что из статуса нет переходов.
func (s OrderStatus) IsTerminal() bool {
	allowed, ok := transitions[s]
	return ok && len(allowed) == 0
}

func (s OrderStatus) IsKnown() bool {
	_, ok := transitions[s]
	return ok
}

// ParseOrderStatus разбирает статус из внешнего ввода.
func ParseOrderStatus(raw string) (OrderStatus, error) {
	s := OrderStatus(strings.ToLower(strings.TrimSpace(raw)))
	if !s.IsKnown() {
		return "", e.Wrap(raw, e.ErrInvalidStatus)
	}

	return s, nil
}
