package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/sergey-royt/effective-mobile-test-task/internal/domain"
	"github.com/sergey-royt/effective-mobile-test-task/internal/usecase"
	"github.com/sergey-royt/effective-mobile-test-task/pkg/e"
)

type fakeProductUC struct {
	created      *usecase.CreateProductReq
	createResult *domain.Product
	createErr    error
	listResult   []domain.Product
	getResult    *domain.Product
	getErr       error
	updated      *usecase.UpdateProductReq
	updateResult *domain.Product
	updateErr    error
	deletedID    int64
	deleteErr    error
}

func (f *fakeProductUC) CreateProduct(_ context.Context, req *usecase.CreateProductReq) (*domain.Product, error) {
	f.created = req
	return f.createResult, f.createErr
}

func (f *fakeProductUC) ListProducts(_ context.Context, _ *usecase.ListReq) ([]domain.Product, error) {
	return f.listResult, nil
}

func (f *fakeProductUC) GetProduct(_ context.Context, _ int64) (*domain.Product, error) {
	return f.getResult, f.getErr
}

func (f *fakeProductUC) UpdateProduct(_ context.Context, req *usecase.UpdateProductReq) (*domain.Product, error) {
	f.updated = req
	return f.updateResult, f.updateErr
}

func (f *fakeProductUC) DeleteProduct(_ context.Context, id int64) error {
	f.deletedID = id
	return f.deleteErr
}

func newProductRouter(uc usecase.ProductUC) *chi.Mux {
	r := chi.NewRouter()
	registerProductRoutes(r, NewProductHandler(uc, nopLogger{}))
	return r
}

func sampleProduct() *domain.Product {
	return &domain.Product{
		ID:            1,
		Name:          "chair",
		Description:   "oak",
		Price:         59999,
		StockQuantity: 10,
		CreatedAt:     time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestCreateProductHandler(t *testing.T) {
	uc := &fakeProductUC{createResult: sampleProduct()}
	router := newProductRouter(uc)

	body := `{"name":"chair","description":"oak","price":"599.99","stock_quantity":10}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/products/", strings.NewReader(body)))

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, uc.created)
	require.Equal(t, int64(59999), uc.created.Price)

	var resp ProductResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "599.99", resp.Price)
	require.Equal(t, int64(10), resp.StockQuantity)
}

func TestCreateProductHandler_InvalidPrice(t *testing.T) {
	router := newProductRouter(&fakeProductUC{})

	for _, price := range []string{`"0"`, `"-5"`, `"abc"`, `"5.999"`} {
		body := `{"name":"chair","price":` + price + `,"stock_quantity":1}`
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/products/", strings.NewReader(body)))

		require.Equal(t, http.StatusBadRequest, rec.Code, price)
	}
}

func TestCreateProductHandler_DuplicateName(t *testing.T) {
	uc := &fakeProductUC{createErr: e.Wrap("ProductUseCase.CreateProduct", e.ErrProductNameTaken)}
	router := newProductRouter(uc)

	body := `{"name":"chair","price":"10","stock_quantity":1}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/products/", strings.NewReader(body)))

	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestListProductsHandler(t *testing.T) {
	uc := &fakeProductUC{listResult: []domain.Product{*sampleProduct()}}
	router := newProductRouter(uc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products/?skip=0&limit=10", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp []ProductResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	require.Equal(t, "chair", resp[0].Name)
}

func TestGetProductHandler_NotFound(t *testing.T) {
	uc := &fakeProductUC{getErr: e.ErrProductNotFound}
	router := newProductRouter(uc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products/99", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateProductHandler(t *testing.T) {
	updated := sampleProduct()
	updated.Name = "armchair"
	uc := &fakeProductUC{updateResult: updated}
	router := newProductRouter(uc)

	body := `{"name":"armchair","description":"soft","price":"799.99","stock_quantity":5}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/products/1", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, uc.updated)
	require.Equal(t, int64(1), uc.updated.ID)
	require.Equal(t, int64(79999), uc.updated.Price)
}

func TestDeleteProductHandler(t *testing.T) {
	uc := &fakeProductUC{}
	router := newProductRouter(uc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/products/1", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, int64(1), uc.deletedID)
}

func TestDeleteProductHandler_Referenced(t *testing.T) {
	uc := &fakeProductUC{deleteErr: e.ErrProductReferenced}
	router := newProductRouter(uc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/products/1", nil))

	require.Equal(t, http.StatusConflict, rec.Code)
}
