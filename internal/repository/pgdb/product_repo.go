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

// ProductRepo реализует репозиторий товаров поверх PostgreSQL.
// Записи идут через транзакцию из контекста, чтения — через пул.
type ProductRepo struct {
	pool *pgxpool.Pool
	conv converter.ProductConverter
}

func NewProductRepo(pool *pgxpool.Pool, conv converter.ProductConverter) *ProductRepo {
	return &ProductRepo{
		pool: pool,
		conv: conv,
	}
}

// Create создаёт товар. Дубликат имени возвращается как e.ErrProductNameTaken.
func (p *ProductRepo) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	query := `
		INSERT INTO products (name, description, price, stock_quantity)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, description, price, stock_quantity, created_at, updated_at;
	`

	var model converter.ProductModel
	err = tx.QueryRow(ctx, query, product.Name, product.Description, product.Price, product.StockQuantity).
		Scan(
			&model.ID, &model.Name, &model.Description, &model.Price,
			&model.StockQuantity, &model.CreatedAt, &model.UpdatedAt,
		)
	if err != nil {
		if postgresDuplicate(err) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrProductNameTaken)
		}

		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToEntity(&model), nil
}

// GetByID возвращает товар по идентификатору.
func (p *ProductRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := `
		SELECT id, name, description, price, stock_quantity, created_at, updated_at
		FROM products
		WHERE id = $1
	`

	var model converter.ProductModel
	err := p.pool.QueryRow(ctx, query, id).
		Scan(
			&model.ID, &model.Name, &model.Description, &model.Price,
			&model.StockQuantity, &model.CreatedAt, &model.UpdatedAt,
		)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.ErrProductNotFound
		}

		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToEntity(&model), nil
}

// List возвращает страницу товаров, упорядоченных по id.
func (p *ProductRepo) List(ctx context.Context, offset, limit int64) ([]domain.Product, error) {
	query := `
		SELECT id, name, description, price, stock_quantity, created_at, updated_at
		FROM products
		ORDER BY id
		OFFSET $1 LIMIT $2
	`

	rows, err := p.pool.Query(ctx, query, offset, limit)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	models := make([]converter.ProductModel, 0)
	for rows.Next() {
		var model converter.ProductModel
		if err := rows.Scan(
			&model.ID, &model.Name, &model.Description, &model.Price,
			&model.StockQuantity, &model.CreatedAt, &model.UpdatedAt,
		); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		models = append(models, model)
	}

	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToArrEntity(models), nil
}

// Update полностью заменяет поля товара.
func (p *ProductRepo) Update(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	query := `
		UPDATE products
		SET name = $2, description = $3, price = $4, stock_quantity = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING id, name, description, price, stock_quantity, created_at, updated_at;
	`

	var model converter.ProductModel
	err = tx.QueryRow(ctx, query,
		product.ID, product.Name, product.Description, product.Price, product.StockQuantity,
	).Scan(
		&model.ID, &model.Name, &model.Description, &model.Price,
		&model.StockQuantity, &model.CreatedAt, &model.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.ErrProductNotFound
		}
		if postgresDuplicate(err) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrProductNameTaken)
		}

		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToEntity(&model), nil
}

// Delete удаляет товар. Товар, на который ссылаются позиции заказов,
// защищён внешним ключом и возвращает e.ErrProductReferenced.
func (p *ProductRepo) Delete(ctx context.Context, id int64) error {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	result, err := tx.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		if postgresForeignKey(err) {
			return e.Wrap(whereami.WhereAmI(), e.ErrProductReferenced)
		}

		return e.Wrap(whereami.WhereAmI(), err)
	}

	if result.RowsAffected() == 0 {
		return e.ErrProductNotFound
	}

	return nil
}

// GetQuantity возвращает текущий остаток товара. Без побочных эффектов.
func (p *ProductRepo) GetQuantity(ctx context.Context, id int64) (int64, error) {
	var quantity int64
	err := p.pool.QueryRow(ctx, `SELECT stock_quantity FROM products WHERE id = $1`, id).
		Scan(&quantity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, e.ErrProductNotFound
		}

		return 0, e.Wrap(whereami.WhereAmI(), err)
	}

	return quantity, nil
}

// Reserve атомарно проверяет и списывает остаток одним условным UPDATE.
// Блокировка строки на время UPDATE сериализует конкурирующие резервирования
// одного товара: два вызова не могут одновременно пройти проверку
// stock_quantity >= quantity.
func (p *ProductRepo) Reserve(ctx context.Context, id, quantity int64) error {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	query := `
		UPDATE products
		SET stock_quantity = stock_quantity - $2, updated_at = NOW()
		WHERE id = $1 AND stock_quantity >= $2
	`

	result, err := tx.Exec(ctx, query, id, quantity)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if result.RowsAffected() == 0 {
		// Либо товара нет, либо остатка не хватает
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, id).
			Scan(&exists); err != nil {
			return e.Wrap(whereami.WhereAmI(), err)
		}

		if !exists {
			return e.ErrProductNotFound
		}

		return e.ErrInsufficientStock
	}

	return nil
}
