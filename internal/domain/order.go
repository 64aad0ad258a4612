package domain

import "time"

// Order описывает заказ вместе с его позициями.
// Заказ без позиций не существует в персистентном состоянии:
// создание заказа атомарно на уровне usecase.
type Order struct {
	ID        int64
	Status    OrderStatus
	CreatedAt time.Time
	Items     []OrderItem
}

// OrderItem описывает позицию заказа. Позиции принадлежат заказу
// и удаляются вместе с ним; товар позицией только referencing, не владеется.
type OrderItem struct {
	ID        int64
	OrderID   int64
	ProductID int64
	Quantity  int64
}

func NewOrder(status OrderStatus, items []OrderItem) *Order {
	return &Order{
		Status: status,
		Items:  items,
	}
}

func NewOrderItem(productID, quantity int64) OrderItem {
	return OrderItem{
		ProductID: productID,
		Quantity:  quantity,
	}
}
