package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	transaction "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/sergey-royt/effective-mobile-test-task/internal/domain"
	"github.com/sergey-royt/effective-mobile-test-task/pkg/e"
	"github.com/sergey-royt/effective-mobile-test-task/pkg/logger"
)

// OrderUseCase собирает заказ из запрошенных позиций: либо полностью
// персистированный заказ со списанными остатками, либо никаких изменений.
type OrderUseCase struct {
	orderRepo   OrderRepository
	productRepo ProductRepository
	outboxRepo  OutboxRepository
	dbPool      transaction.Transactional
	cacheRepo   CacheRepository
	logger      logger.Logger
}

func NewOrderUC(
	orderRepo OrderRepository,
	productRepo ProductRepository,
	outboxRepo OutboxRepository,
	dbPool transaction.Transactional,
	cacheRepo CacheRepository,
	logger logger.Logger,
) *OrderUseCase {
	return &OrderUseCase{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		outboxRepo:  outboxRepo,
		dbPool:      dbPool,
		cacheRepo:   cacheRepo,
		logger:      logger,
	}
}

// orderCreatedPayload — тело события order_created для outbox.
type orderCreatedPayload struct {
	EventID   string             `json:"event_id"`
	OrderID   int64              `json:"order_id"`
	Status    string             `json:"status"`
	CreatedAt int64              `json:"created_at"`
	Items     []orderItemPayload `json:"items"`
}

type orderItemPayload struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

// CreateOrder резервирует остаток под каждую позицию и сохраняет заказ
// вместе с позициями и outbox-событием в одной транзакции.
// Любая неудача откатывает транзакцию целиком: ни заказа, ни позиций,
// ни списаний остатков после возврата не наблюдается.
func (o *OrderUseCase) CreateOrder(ctx context.Context, req *CreateOrderReq) (*domain.Order, error) {
	const op = "OrderUseCase.CreateOrder"

	if err := validateOrderItems(req.Items); err != nil {
		return nil, e.Wrap(op, err)
	}

	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, o.dbPool)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	defer func() {
		if err != nil && tx.IsActive() {
			tx.Rollback(ctx)
		}
	}()
	ctx = context.WithValue(ctx, "tx", tx.Transaction())

	// Резервирование по позициям в порядке запроса.
	// Отсутствующий товар схлопывается в ErrInsufficientStock:
	// внешняя граница не различает эти два случая.
	for _, item := range req.Items {
		if err = o.productRepo.Reserve(ctx, item.ProductID, item.Quantity); err != nil {
			if errors.Is(err, e.ErrProductNotFound) || errors.Is(err, e.ErrInsufficientStock) {
				o.logger.Debugf("reservation rejected: product_id: %d, quantity: %d, reason: %v",
					item.ProductID, item.Quantity, err)
				err = e.ErrInsufficientStock
			}
			return nil, e.Wrap(op, err)
		}
	}

	items := make([]domain.OrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, domain.NewOrderItem(item.ProductID, item.Quantity))
	}

	order, err := o.orderRepo.Save(ctx, domain.NewOrder(domain.DefaultOrderStatus, items))
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if err = o.createOutboxEvent(ctx, order); err != nil {
		return nil, e.Wrap(op, err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, e.Wrap(op, err)
	}

	o.invalidateProducts(order.Items)

	return order, nil
}

// ListOrders возвращает страницу заказов, упорядоченных по id.
func (o *OrderUseCase) ListOrders(ctx context.Context, req *ListReq) ([]domain.Order, error) {
	const op = "OrderUseCase.ListOrders"

	offset, limit, err := normalizePagination(req)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	orders, err := o.orderRepo.List(ctx, offset, limit)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return orders, nil
}

func (o *OrderUseCase) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	const op = "OrderUseCase.GetOrder"

	order, err := o.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return order, nil
}

// UpdateOrderStatus перезаписывает только статус заказа.
// Статус валидирован на границе до вызова.
func (o *OrderUseCase) UpdateOrderStatus(ctx context.Context, id int64, status domain.OrderStatus) (*domain.Order, error) {
	const op = "OrderUseCase.UpdateOrderStatus"

	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, o.dbPool)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	defer func() {
		if err != nil && tx.IsActive() {
			tx.Rollback(ctx)
		}
	}()
	ctx = context.WithValue(ctx, "tx", tx.Transaction())

	order, err := o.orderRepo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, e.Wrap(op, err)
	}

	return order, nil
}

// createOutboxEvent записывает событие order_created в outbox
// в текущей транзакции.
func (o *OrderUseCase) createOutboxEvent(ctx context.Context, order *domain.Order) error {
	eventID := uuid.NewString()

	payload := orderCreatedPayload{
		EventID:   eventID,
		OrderID:   order.ID,
		Status:    string(order.Status),
		CreatedAt: order.CreatedAt.UnixNano(),
		Items:     make([]orderItemPayload, 0, len(order.Items)),
	}
	for _, item := range order.Items {
		payload.Items = append(payload.Items, orderItemPayload{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	_, err = o.outboxRepo.Create(ctx, NewOutboxEvent(eventID, OrderCreated, order.ID, data))
	return err
}

// invalidateProducts убирает товары заказа из кэша: их остатки изменились.
func (o *OrderUseCase) invalidateProducts(items []domain.OrderItem) {
	ids := make([]int64, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}

	bgCtx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	if err := o.cacheRepo.DeleteProducts(bgCtx, ids); err != nil {
		o.logger.Warnf("Failed to invalidate product cache: %v", err)
	}
}

// validateOrderItems отклоняет пустой список и неположительные количества
// до обращения к хранилищу.
func validateOrderItems(items []OrderItemReq) error {
	if len(items) == 0 {
		return e.ErrEmptyOrderItems
	}

	for _, item := range items {
		if item.Quantity <= 0 {
			return e.ErrQuantityNotPositive
		}
	}

	return nil
}
