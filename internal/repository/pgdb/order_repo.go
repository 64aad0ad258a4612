package pgdb

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
	"github.com/sergey-royt/effective-mobile-test-task/internal/domain"
	"github.com/sergey-royt/effective-mobile-test-task/internal/repository/pgdb/converter"
	"github.com/sergey-royt/effective-mobile-test-task/pkg/e"
	"github.com/sergey-royt/effective-mobile-test-task/pkg/tr"
)

// OrderRepo реализует репозиторий заказов поверх PostgreSQL.
// Заказ и его позиции сохраняются как единое целое в транзакции вызывающего.
type OrderRepo struct {
	pool *pgxpool.Pool
	conv converter.OrderConverter
}

func NewOrderRepo(pool *pgxpool.Pool, conv converter.OrderConverter) *OrderRepo {
	return &OrderRepo{
		pool: pool,
		conv: conv,
	}
}

// Save персистит заказ вместе со всеми позициями.
// Видны либо заказ и все позиции, либо ничего (транзакция вызывающего).
func (o *OrderRepo) Save(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	var model converter.OrderModel
	err = tx.QueryRow(ctx,
		`INSERT INTO orders (status) VALUES ($1) RETURNING id, status, created_at;`,
		order.Status,
	).Scan(&model.ID, &model.Status, &model.CreatedAt)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	itemModels := make([]converter.OrderItemModel, 0, len(order.Items))
	for _, item := range order.Items {
		var itemModel converter.OrderItemModel
		err = tx.QueryRow(ctx,
			`INSERT INTO order_items (order_id, product_id, quantity)
			 VALUES ($1, $2, $3)
			 RETURNING id, order_id, product_id, quantity;`,
			model.ID, item.ProductID, item.Quantity,
		).Scan(&itemModel.ID, &itemModel.OrderID, &itemModel.ProductID, &itemModel.Quantity)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		itemModels = append(itemModels, itemModel)
	}

	saved := o.conv.ToEntity(&model)
	saved.Items = o.conv.ToArrItemEntity(itemModels)

	return saved, nil
}

// GetByID возвращает заказ с позициями.
func (o *OrderRepo) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	var model converter.OrderModel
	err := o.pool.QueryRow(ctx,
		`SELECT id, status, created_at FROM orders WHERE id = $1`, id,
	).Scan(&model.ID, &model.Status, &model.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.ErrOrderNotFound
		}

		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	items, err := o.loadItems(ctx, []int64{id})
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	order := o.conv.ToEntity(&model)
	order.Items = o.conv.ToArrItemEntity(items[id])

	return order, nil
}

// List возвращает страницу заказов с позициями, упорядоченных по id.
func (o *OrderRepo) List(ctx context.Context, offset, limit int64) ([]domain.Order, error) {
	rows, err := o.pool.Query(ctx,
		`SELECT id, status, created_at FROM orders ORDER BY id OFFSET $1 LIMIT $2`,
		offset, limit,
	)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	models := make([]converter.OrderModel, 0)
	ids := make([]int64, 0)
	for rows.Next() {
		var model converter.OrderModel
		if err := rows.Scan(&model.ID, &model.Status, &model.CreatedAt); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		models = append(models, model)
		ids = append(ids, model.ID)
	}

	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	items, err := o.loadItems(ctx, ids)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	orders := make([]domain.Order, 0, len(models))
	for i := range models {
		order := o.conv.ToEntity(&models[i])
		order.Items = o.conv.ToArrItemEntity(items[order.ID])
		orders = append(orders, *order)
	}

	return orders, nil
}

// UpdateStatus перезаписывает только статус заказа,
// created_at и позиции не затрагиваются.
func (o *OrderRepo) UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) (*domain.Order, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	var model converter.OrderModel
	err = tx.QueryRow(ctx,
		`UPDATE orders SET status = $2 WHERE id = $1 RETURNING id, status, created_at;`,
		id, status,
	).Scan(&model.ID, &model.Status, &model.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.ErrOrderNotFound
		}

		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	rows, err := tx.Query(ctx,
		`SELECT id, order_id, product_id, quantity FROM order_items WHERE order_id = $1 ORDER BY id`,
		id,
	)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	itemModels, err := scanItems(rows)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	order := o.conv.ToEntity(&model)
	order.Items = o.conv.ToArrItemEntity(itemModels)

	return order, nil
}

// loadItems читает позиции сразу для набора заказов и группирует их по order_id.
func (o *OrderRepo) loadItems(ctx context.Context, orderIDs []int64) (map[int64][]converter.OrderItemModel, error) {
	result := make(map[int64][]converter.OrderItemModel, len(orderIDs))
	if len(orderIDs) == 0 {
		return result, nil
	}

	rows, err := o.pool.Query(ctx,
		`SELECT id, order_id, product_id, quantity FROM order_items WHERE order_id = ANY($1) ORDER BY id`,
		orderIDs,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	models, err := scanItems(rows)
	if err != nil {
		return nil, err
	}

	for _, model := range models {
		result[model.OrderID] = append(result[model.OrderID], model)
	}

	return result, nil
}

func scanItems(rows pgx.Rows) ([]converter.OrderItemModel, error) {
	models := make([]converter.OrderItemModel, 0)
	for rows.Next() {
		var model converter.OrderItemModel
		if err := rows.Scan(&model.ID, &model.OrderID, &model.ProductID, &model.Quantity); err != nil {
			return nil, err
		}

		models = append(models, model)
	}

	return models, rows.Err()
}
