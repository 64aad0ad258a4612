package http

import (
	"encoding/json"
	"net/http"

	"github.com/sergey-royt/effective-mobile-test-task/internal/usecase"
	"github.com/sergey-royt/effective-mobile-test-task/pkg/e"
	"github.com/sergey-royt/effective-mobile-test-task/pkg/logger"
)

type ProductHandler struct {
	productUsecase usecase.ProductUC
	logger         logger.Logger
}

func NewProductHandler(productUsecase usecase.ProductUC, logger logger.Logger) *ProductHandler {
	return &ProductHandler{productUsecase: productUsecase, logger: logger}
}

// createProduct
//
//	@Summary		Создание товара
//	@Description	Создаёт новый товар с указанным остатком на складе
//	@Tags			products
//	@Accept			json
//	@Produce		json
//	@Param			product	body		CreateProductRequest	true	"Данные товара"
//	@Success		201		{object}	ProductResponse			"Успешное создание"
//	@Failure		400		{object}	ErrorResponse			"Ошибка валидации"
//	@Failure		409		{object}	ErrorResponse			"Имя товара занято"
//	@Router			/products [post]
func (p *ProductHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	req, err := parseProductBody(r)
	if err != nil {
		p.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	product, err := p.productUsecase.CreateProduct(r.Context(), req)
	if err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, toProductResponse(product))
}

// listProducts
//
//	@Summary		Список товаров
//	@Description	Возвращает страницу товаров, упорядоченных по id
//	@Tags			products
//	@Produce		json
//	@Param			skip	query		int	false	"Сколько товаров пропустить"	default(0)
//	@Param			limit	query		int	false	"Максимум товаров в ответе"		default(100)
//	@Success		200		{array}		ProductResponse
//	@Failure		400		{object}	ErrorResponse
//	@Router			/products [get]
func (p *ProductHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	req, err := parsePagination(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	products, err := p.productUsecase.ListProducts(r.Context(), req)
	if err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toArrProductResponse(products))
}

// getProduct
//
//	@Summary	Карточка товара
//	@Tags		products
//	@Produce	json
//	@Param		id	path		int	true	"ID товара"
//	@Success	200	{object}	ProductResponse
//	@Failure	404	{object}	ErrorResponse	"Товар не найден"
//	@Router		/products/{id} [get]
func (p *ProductHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	product, err := p.productUsecase.GetProduct(r.Context(), id)
	if err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductResponse(product))
}

// updateProduct
//
//	@Summary		Обновление товара
//	@Description	Полностью заменяет имя, описание, цену и остаток товара
//	@Tags			products
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int						true	"ID товара"
//	@Param			product	body		CreateProductRequest	true	"Новые данные товара"
//	@Success		200		{object}	ProductResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse	"Товар не найден"
//	@Router			/products/{id} [put]
func (p *ProductHandler) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	req, err := parseProductBody(r)
	if err != nil {
		p.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	product, err := p.productUsecase.UpdateProduct(r.Context(),
		usecase.NewUpdateProductReq(id, req.Name, req.Description, req.Price, req.StockQuantity))
	if err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductResponse(product))
}

// deleteProduct
//
//	@Summary		Удаление товара
//	@Description	Товар, на который ссылаются позиции заказов, не удаляется
//	@Tags			products
//	@Produce		json
//	@Param			id	path		int	true	"ID товара"
//	@Success		200	{object}	map[string]string
//	@Failure		404	{object}	ErrorResponse	"Товар не найден"
//	@Failure		409	{object}	ErrorResponse	"Товар используется в заказах"
//	@Router			/products/{id} [delete]
func (p *ProductHandler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := p.productUsecase.DeleteProduct(r.Context(), id); err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, map[string]string{"message": "Product successfully deleted"})
}

// parseProductBody декодирует и валидирует тело запроса товара.
func parseProductBody(r *http.Request) (*usecase.CreateProductReq, error) {
	var body CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return nil, e.Wrap(err.Error(), e.ErrStatusBadRequest)
	}

	priceCents, err := parsePriceToCents(body.Price)
	if err != nil {
		return nil, err
	}

	return usecase.NewCreateProductReq(body.Name, body.Description, priceCents, body.StockQuantity), nil
}
