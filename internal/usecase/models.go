package usecase

import "time"

// PRODUCT USECASE

// CreateProductReq — запрос на создание товара.
type CreateProductReq struct {
	Name          string
	Description   string
	Price         int64
	StockQuantity int64
}

// UpdateProductReq — полная замена полей товара.
type UpdateProductReq struct {
	ID            int64
	Name          string
	Description   string
	Price         int64
	StockQuantity int64
}

// ListReq — параметры пагинации списочных запросов.
type ListReq struct {
	Offset int64
	Limit  int64
}

// ProductInfo — DTO с информацией о товаре для кэша.
type ProductInfo struct {
	ID            int64
	Name          string
	Description   string
	Price         int64
	StockQuantity int64
}

// ORDER USECASE

// CreateOrderReq — запрос на создание заказа.
// Позиции обрабатываются в порядке перечисления.
type CreateOrderReq struct {
	Items []OrderItemReq
}

// OrderItemReq — запрошенная позиция заказа.
type OrderItemReq struct {
	ProductID int64
	Quantity  int64
}

// OUTBOX

type OutboxStatus string

const (
	Pending    OutboxStatus = "pending"
	Processing OutboxStatus = "processing"
	Processed  OutboxStatus = "processed"
)

type OutboxEventType string

const (
	OrderCreated OutboxEventType = "order_created"
)

// OutboxEvent — событие для публикации в Kafka, записанное в той же
// транзакции, что и породившее его изменение.
type OutboxEvent struct {
	ID          int64
	EventID     string
	EventType   OutboxEventType
	OrderID     int64
	Payload     []byte
	Status      OutboxStatus
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

// INFRASTRUCTURE

type WriteRawMessageReq struct {
	OrderID int64
	Payload []byte
}

// MAPPERS

func NewCreateProductReq(name, description string, price, stockQuantity int64) *CreateProductReq {
	return &CreateProductReq{
		Name:          name,
		Description:   description,
		Price:         price,
		StockQuantity: stockQuantity,
	}
}

func NewUpdateProductReq(id int64, name, description string, price, stockQuantity int64) *UpdateProductReq {
	return &UpdateProductReq{
		ID:            id,
		Name:          name,
		Description:   description,
		Price:         price,
		StockQuantity: stockQuantity,
	}
}

func NewListReq(offset, limit int64) *ListReq {
	return &ListReq{
		Offset: offset,
		Limit:  limit,
	}
}

func NewProductInfo(id int64, name, description string, price, stockQuantity int64) ProductInfo {
	return ProductInfo{
		ID:            id,
		Name:          name,
		Description:   description,
		Price:         price,
		StockQuantity: stockQuantity,
	}
}

func NewCreateOrderReq(items []OrderItemReq) *CreateOrderReq {
	return &CreateOrderReq{Items: items}
}

func NewOutboxEvent(eventID string, eventType OutboxEventType, orderID int64, payload []byte) *OutboxEvent {
	return &OutboxEvent{
		EventID:   eventID,
		EventType: eventType,
		OrderID:   orderID,
		Payload:   payload,
		Status:    Pending,
	}
}

func NewWriteRawMessageReq(orderID int64, payload []byte) *WriteRawMessageReq {
	return &WriteRawMessageReq{
		OrderID: orderID,
		Payload: payload,
	}
}
