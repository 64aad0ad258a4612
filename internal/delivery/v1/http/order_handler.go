package http

import (
	"encoding/json"
	"net/http"

	"github.com/sergey-royt/effective-mobile-test-task/internal/domain"
	"github.com/sergey-royt/effective-mobile-test-task/internal/usecase"
	"github.com/sergey-royt/effective-mobile-test-task/pkg/e"
	"github.com/sergey-royt/effective-mobile-test-task/pkg/logger"
)

type OrderHandler struct {
	orderUsecase usecase.OrderUC
	logger       logger.Logger
}

func NewOrderHandler(orderUsecase usecase.OrderUC, logger logger.Logger) *OrderHandler {
	return &OrderHandler{orderUsecase: orderUsecase, logger: logger}
}

// createOrder
//
//	@Summary		Создание заказа
//	@Description	Атомарно резервирует остатки под все позиции и сохраняет заказ.
//	@Description	При нехватке остатка хотя бы по одной позиции заказ не создаётся
//	@Description	и остатки не меняются.
//	@Tags			orders
//	@Accept			json
//	@Produce		json
//	@Param			order	body		CreateOrderRequest	true	"Позиции заказа"
//	@Success		201		{object}	OrderResponse		"Успешное создание"
//	@Failure		400		{object}	ErrorResponse		"Пустой список позиций или нехватка остатков"
//	@Router			/orders [post]
func (o *OrderHandler) createOrder(w http.ResponseWriter, r *http.Request) {
	var body CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		o.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, e.ErrStatusBadRequest)
		return
	}

	items := make([]usecase.OrderItemReq, 0, len(body.Items))
	for _, item := range body.Items {
		items = append(items, usecase.OrderItemReq{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	order, err := o.orderUsecase.CreateOrder(r.Context(), usecase.NewCreateOrderReq(items))
	if err != nil {
		o.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, toOrderResponse(order))
}

// listOrders
//
//	@Summary	Список заказов
//	@Tags		orders
//	@Produce	json
//	@Param		skip	query		int	false	"Сколько заказов пропустить"	default(0)
//	@Param		limit	query		int	false	"Максимум заказов в ответе"		default(100)
//	@Success	200		{array}		OrderResponse
//	@Failure	400		{object}	ErrorResponse
//	@Router		/orders [get]
func (o *OrderHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	req, err := parsePagination(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	orders, err := o.orderUsecase.ListOrders(r.Context(), req)
	if err != nil {
		o.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toArrOrderResponse(orders))
}

// getOrder
//
//	@Summary	Детали заказа
//	@Tags		orders
//	@Produce	json
//	@Param		id	path		int	true	"ID заказа"
//	@Success	200	{object}	OrderResponse
//	@Failure	404	{object}	ErrorResponse	"Заказ не найден"
//	@Router		/orders/{id} [get]
func (o *OrderHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	order, err := o.orderUsecase.GetOrder(r.Context(), id)
	if err != nil {
		o.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toOrderResponse(order))
}

// updateOrderStatus
//
//	@Summary		Смена статуса заказа
//	@Description	Перезаписывает только статус; позиции и дата создания не меняются
//	@Tags			orders
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int							true	"ID заказа"
//	@Param			status	body		UpdateOrderStatusRequest	true	"Новый статус"
//	@Success		200		{object}	OrderResponse
//	@Failure		400		{object}	ErrorResponse	"Недопустимый статус"
//	@Failure		404		{object}	ErrorResponse	"Заказ не найден"
//	@Router			/orders/{id} [patch]
func (o *OrderHandler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	var body UpdateOrderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		o.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, e.ErrStatusBadRequest)
		return
	}

	// Статус валидируется до обращения к хранилищу
	status, err := domain.ParseOrderStatus(body.Status)
	if err != nil {
		WriteError(w, err)
		return
	}

	order, err := o.orderUsecase.UpdateOrderStatus(r.Context(), id, status)
	if err != nil {
		o.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toOrderResponse(order))
}
