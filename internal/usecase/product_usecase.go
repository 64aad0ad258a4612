package usecase

import (
	"context"
	"strings"
	"time"

	transaction "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
	"github.com/sergey-royt/effective-mobile-test-task/internal/domain"
	"github.com/sergey-royt/effective-mobile-test-task/pkg/e"
	"github.com/sergey-royt/effective-mobile-test-task/pkg/logger"
)

// ProductUseCase реализует бизнес-логику каталога товаров и владеет
// операциями над остатками.
type ProductUseCase struct {
	productRepo ProductRepository
	dbPool      transaction.Transactional
	cacheRepo   CacheRepository
	logger      logger.Logger
}

func NewProductUC(
	productRepo ProductRepository,
	dbPool transaction.Transactional,
	cacheRepo CacheRepository,
	logger logger.Logger,
) *ProductUseCase {
	return &ProductUseCase{
		productRepo: productRepo,
		dbPool:      dbPool,
		cacheRepo:   cacheRepo,
		logger:      logger,
	}
}

// CreateProduct создаёт товар. Дубликат имени возвращается как e.ErrProductNameTaken.
func (p *ProductUseCase) CreateProduct(ctx context.Context, req *CreateProductReq) (*domain.Product, error) {
	const op = "ProductUseCase.CreateProduct"

	if err := validateProductFields(req.Name, req.Price, req.StockQuantity); err != nil {
		return nil, e.Wrap(op, err)
	}

	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, p.dbPool)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	defer func() {
		if err != nil && tx.IsActive() {
			tx.Rollback(ctx)
		}
	}()
	ctx = context.WithValue(ctx, "tx", tx.Transaction())

	product, err := p.productRepo.Create(ctx, domain.NewProduct(req.Name, req.Description, req.Price, req.StockQuantity))
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, e.Wrap(op, err)
	}

	return product, nil
}

// ListProducts возвращает страницу товаров, упорядоченных по id.
func (p *ProductUseCase) ListProducts(ctx context.Context, req *ListReq) ([]domain.Product, error) {
	const op = "ProductUseCase.ListProducts"

	offset, limit, err := normalizePagination(req)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	products, err := p.productRepo.List(ctx, offset, limit)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return products, nil
}

// GetProduct возвращает товар по id, сначала заглядывая в кэш.
// Промах кэша дочитывается из БД и дозаписывается в кэш в фоне.
func (p *ProductUseCase) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	const op = "ProductUseCase.GetProduct"

	cached, err := p.cacheRepo.GetProducts(ctx, []int64{id})
	if err == nil {
		if info, ok := cached[id]; ok {
			return productFromInfo(info), nil
		}
	}

	product, err := p.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
		defer cancel()

		info := NewProductInfo(product.ID, product.Name, product.Description, product.Price, product.StockQuantity)
		if err := p.cacheRepo.SetProducts(bgCtx, []ProductInfo{info}); err != nil {
			p.logger.Warnf("Failed to cache product in background: %v", e.Wrap(op, err))
		}
	}()

	return product, nil
}

// UpdateProduct полностью заменяет поля товара.
func (p *ProductUseCase) UpdateProduct(ctx context.Context, req *UpdateProductReq) (*domain.Product, error) {
	const op = "ProductUseCase.UpdateProduct"

	if err := validateProductFields(req.Name, req.Price, req.StockQuantity); err != nil {
		return nil, e.Wrap(op, err)
	}

	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, p.dbPool)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	defer func() {
		if err != nil && tx.IsActive() {
			tx.Rollback(ctx)
		}
	}()
	ctx = context.WithValue(ctx, "tx", tx.Transaction())

	product := domain.NewProduct(req.Name, req.Description, req.Price, req.StockQuantity)
	product.ID = req.ID

	updated, err := p.productRepo.Update(ctx, product)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, e.Wrap(op, err)
	}

	p.invalidateProducts(ctx, []int64{req.ID})

	return updated, nil
}

// DeleteProduct удаляет товар. Товар, на который ссылаются позиции
// существующих заказов, не удаляется (e.ErrProductReferenced).
func (p *ProductUseCase) DeleteProduct(ctx context.Context, id int64) error {
	const op = "ProductUseCase.DeleteProduct"

	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, p.dbPool)
	if err != nil {
		return e.Wrap(op, err)
	}
	defer func() {
		if err != nil && tx.IsActive() {
			tx.Rollback(ctx)
		}
	}()
	ctx = context.WithValue(ctx, "tx", tx.Transaction())

	if err = p.productRepo.Delete(ctx, id); err != nil {
		return e.Wrap(op, err)
	}

	if err = tx.Commit(ctx); err != nil {
		return e.Wrap(op, err)
	}

	p.invalidateProducts(ctx, []int64{id})

	return nil
}

// invalidateProducts убирает устаревшие записи товаров из кэша.
// Ошибки кэша не фатальны и только логируются.
func (p *ProductUseCase) invalidateProducts(ctx context.Context, ids []int64) {
	if err := p.cacheRepo.DeleteProducts(ctx, ids); err != nil {
		p.logger.Warnf("Failed to invalidate product cache: %v", err)
	}
}

// validateProductFields проверяет корректность полей товара.
func validateProductFields(name string, price, stockQuantity int64) error {
	if strings.TrimSpace(name) == "" {
		return e.ErrProductNameRequired
	}

	if price <= 0 {
		return e.ErrPriceMustBePositive
	}

	if stockQuantity < 0 {
		return e.ErrStockMustBeNonNegative
	}

	return nil
}

// normalizePagination применяет значения по умолчанию (offset 0, limit 100).
func normalizePagination(req *ListReq) (int64, int64, error) {
	const defaultLimit = 100

	if req == nil {
		return 0, defaultLimit, nil
	}

	if req.Offset < 0 || req.Limit < 0 {
		return 0, 0, e.ErrInvalidPagination
	}

	limit := req.Limit
	if limit == 0 || limit > defaultLimit {
		limit = defaultLimit
	}

	return req.Offset, limit, nil
}

func productFromInfo(info ProductInfo) *domain.Product {
	return &domain.Product{
		ID:            info.ID,
		Name:          info.Name,
		Description:   info.Description,
		Price:         info.Price,
		StockQuantity: info.StockQuantity,
	}
}
