package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sergey-royt/effective-mobile-test-task/internal/domain"
	"github.com/sergey-royt/effective-mobile-test-task/pkg/e"
)

func newProductUC(products *fakeProductRepo, db *fakeDB, cache *fakeCacheRepo) *ProductUseCase {
	return NewProductUC(products, db, cache, nopLogger{})
}

func TestCreateProduct(t *testing.T) {
	products := newFakeProductRepo()
	db := newFakeDB()
	uc := newProductUC(products, db, newFakeCacheRepo())

	created, err := uc.CreateProduct(context.Background(), NewCreateProductReq("chair", "oak", 59999, 10))
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	require.Equal(t, "chair", created.Name)
	require.Equal(t, int64(59999), created.Price)
	require.True(t, db.tx.committed)
}

func TestCreateProduct_DuplicateName(t *testing.T) {
	products := newFakeProductRepo()
	db := newFakeDB()
	uc := newProductUC(products, db, newFakeCacheRepo())

	_, err := uc.CreateProduct(context.Background(), NewCreateProductReq("chair", "", 100, 1))
	require.NoError(t, err)

	_, err = uc.CreateProduct(context.Background(), NewCreateProductReq("chair", "", 200, 2))
	require.ErrorIs(t, err, e.ErrProductNameTaken)
	require.True(t, db.tx.rolledBack)
}

func TestCreateProduct_Validation(t *testing.T) {
	uc := newProductUC(newFakeProductRepo(), newFakeDB(), newFakeCacheRepo())

	cases := []struct {
		name string
		req  *CreateProductReq
		want error
	}{
		{"empty name", NewCreateProductReq("  ", "", 100, 1), e.ErrProductNameRequired},
		{"zero price", NewCreateProductReq("chair", "", 0, 1), e.ErrPriceMustBePositive},
		{"negative price", NewCreateProductReq("chair", "", -100, 1), e.ErrPriceMustBePositive},
		{"negative stock", NewCreateProductReq("chair", "", 100, -1), e.ErrStockMustBeNonNegative},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.CreateProduct(context.Background(), tc.req)
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestGetProduct_CacheMissFallsThrough(t *testing.T) {
	products := newFakeProductRepo()
	cache := newFakeCacheRepo()
	uc := newProductUC(products, newFakeDB(), cache)

	seeded := seedProduct(products, "chair", 10)

	got, err := uc.GetProduct(context.Background(), seeded.ID)
	require.NoError(t, err)
	require.Equal(t, seeded.ID, got.ID)
	require.Equal(t, "chair", got.Name)

	// Фоновая дозапись в кэш
	require.Eventually(t, func() bool {
		_, ok := cache.store[seeded.ID]
		return ok
	}, time.Second, 10*time.Millisecond)
}

func TestGetProduct_CacheHitSkipsRepo(t *testing.T) {
	cache := newFakeCacheRepo()
	cache.store[7] = NewProductInfo(7, "cached", "", 100, 3)

	// Репозиторий пуст: попадание в кэш не должно его трогать
	uc := newProductUC(newFakeProductRepo(), newFakeDB(), cache)

	got, err := uc.GetProduct(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, "cached", got.Name)
	require.Equal(t, int64(3), got.StockQuantity)
}

func TestGetProduct_NotFound(t *testing.T) {
	uc := newProductUC(newFakeProductRepo(), newFakeDB(), newFakeCacheRepo())

	_, err := uc.GetProduct(context.Background(), 99)
	require.ErrorIs(t, err, e.ErrProductNotFound)
}

func TestUpdateProduct(t *testing.T) {
	products := newFakeProductRepo()
	cache := newFakeCacheRepo()
	uc := newProductUC(products, newFakeDB(), cache)

	seeded := seedProduct(products, "chair", 10)
	cache.store[seeded.ID] = NewProductInfo(seeded.ID, seeded.Name, "", seeded.Price, seeded.StockQuantity)

	updated, err := uc.UpdateProduct(context.Background(),
		NewUpdateProductReq(seeded.ID, "armchair", "soft", 79999, 5))
	require.NoError(t, err)
	require.Equal(t, "armchair", updated.Name)
	require.Equal(t, int64(5), updated.StockQuantity)
	require.Contains(t, cache.deleted, seeded.ID)

	_, err = uc.UpdateProduct(context.Background(), NewUpdateProductReq(99, "ghost", "", 100, 1))
	require.ErrorIs(t, err, e.ErrProductNotFound)
}

func TestDeleteProduct(t *testing.T) {
	products := newFakeProductRepo()
	cache := newFakeCacheRepo()
	uc := newProductUC(products, newFakeDB(), cache)

	seeded := seedProduct(products, "chair", 10)

	require.NoError(t, uc.DeleteProduct(context.Background(), seeded.ID))
	require.Contains(t, cache.deleted, seeded.ID)

	err := uc.DeleteProduct(context.Background(), seeded.ID)
	require.ErrorIs(t, err, e.ErrProductNotFound)
}

func TestListProducts_LimitDefaultsAndCap(t *testing.T) {
	products := newFakeProductRepo()
	uc := newProductUC(products, newFakeDB(), newFakeCacheRepo())

	for i := 0; i < 3; i++ {
		products.add(domain.NewProduct(string(rune('a'+i)), "", 100, 1))
	}

	// Нулевой limit означает значение по умолчанию
	list, err := uc.ListProducts(context.Background(), NewListReq(0, 0))
	require.NoError(t, err)
	require.Len(t, list, 3)

	list, err = uc.ListProducts(context.Background(), NewListReq(2, 10))
	require.NoError(t, err)
	require.Len(t, list, 1)

	_, err = uc.ListProducts(context.Background(), NewListReq(0, -5))
	require.ErrorIs(t, err, e.ErrInvalidPagination)
}

func TestNormalizePagination(t *testing.T) {
	offset, limit, err := normalizePagination(nil)
	require.NoError(t, err)
	require.Equal(t, int64(0), offset)
	require.Equal(t, int64(100), limit)

	offset, limit, err = normalizePagination(NewListReq(5, 500))
	require.NoError(t, err)
	require.Equal(t, int64(5), offset)
	require.Equal(t, int64(100), limit)

	_, _, err = normalizePagination(NewListReq(-1, 10))
	require.ErrorIs(t, err, e.ErrInvalidPagination)
}
