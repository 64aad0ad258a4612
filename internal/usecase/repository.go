package usecase

import (
	"context"

	"github.com/sergey-royt/effective-mobile-test-task/internal/domain"
)

// ProductRepository — хранилище товаров и владелец инварианта остатков:
// Reserve атомарно проверяет и списывает остаток, отрицательный остаток
// невозможен ни при каком порядке конкурентных вызовов.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) (*domain.Product, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	List(ctx context.Context, offset, limit int64) ([]domain.Product, error)
	Update(ctx context.Context, product *domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
	GetQuantity(ctx context.Context, id int64) (int64, error)
	Reserve(ctx context.Context, id, quantity int64) error
}

// OrderRepository — хранилище заказов. Save персистит заказ вместе со всеми
// позициями как единое целое в рамках транзакции вызывающего.
type OrderRepository interface {
	Save(ctx context.Context, order *domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	List(ctx context.Context, offset, limit int64) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) (*domain.Order, error)
}

type OutboxRepository interface {
	Create(ctx context.Context, event *OutboxEvent) (*OutboxEvent, error)
	GetAndMarkAsProcessing(ctx context.Context, limit int) ([]*OutboxEvent, error)
	MarkAsProcessed(ctx context.Context, id int64) error
}

type CacheRepository interface {
	GetProducts(ctx context.Context, ids []int64) (map[int64]ProductInfo, error)
	SetProducts(ctx context.Context, products []ProductInfo) error
	DeleteProducts(ctx context.Context, ids []int64) error
}
