package domain

import (
	"github.com/sergey-royt/effective-mobile-test-task/pkg/e"
)

// OrderStatus — закрытое множество статусов заказа.
// Валидируется на границе до передачи в хранилище.
type OrderStatus string

const (
	StatusProcessed  OrderStatus = "processed"
	StatusInProgress OrderStatus = "in_progress"
	StatusSent       OrderStatus = "sent"
	StatusDelivered  OrderStatus = "delivered"
)

// DefaultOrderStatus — статус нового заказа.
const DefaultOrderStatus = StatusProcessed

// ParseOrderStatus проверяет, что строка является допустимым статусом заказа.
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch OrderStatus(s) {
	case StatusProcessed, StatusInProgress, StatusSent, StatusDelivered:
		return OrderStatus(s), nil
	default:
		return "", e.ErrInvalidOrderStatus
	}
}
