package http

import (
	"net/http"

	"github.com/DRSN-tech/shop-backend/internal/domain"
	"github.com/DRSN-tech/shop-backend/internal/usecase"
	"github.com/DRSN-tech/shop-backend/pkg/logger"
)

type OrderHandler struct {
	orderUsecase  usecase.OrderUC
	reportUsecase usecase.ReportUC
	logger        logger.Logger
}

func NewOrderHandler(orderUsecase usecase.OrderUC, reportUsecase usecase.ReportUC, logger logger.Logger) *OrderHandler {
	return &OrderHandler{orderUsecase: orderUsecase, reportUsecase: reportUsecase, logger: logger}
}

// createOrder
//
//	@Summary		Оформление заказа
//	@Description	Проверяет остатки, списывает их и создаёт заказ в статусе pending
//	@Tags			orders
//	@Accept			json
//	@Produce		json
//	@Param			X-User-ID	header		string				true	"Идентификатор пользователя"
//	@Param			order		body		CreateOrderRequest	true	"Позиции заказа"
//	@Success		201			{object}	OrderResponse
//	@Failure		400			{object}	ErrorResponse	"Ошибка валидации"
//	@Failure		404			{object}	ErrorResponse	"Товар не найден"
//	@Failure		409			{object}	ErrorResponse	"Недостаточно товара или товар неактивен"
//	@Router			/orders [post]
func (h *OrderHandler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, err)
		return
	}

	caller := identityFrom(r.Context())
	order, err := h.orderUsecase.CreateOrder(r.Context(), caller.UserID, req.toUseCase())
	if err != nil {
		h.logFailure("create order", err)
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, toOrderResponse(order))
}

// listOrders
//
//	@Summary		Список заказов
//	@Description	Курсорная пагинация по убыванию даты создания. Покупатель видит только свои заказы.
//	@Tags			orders
//	@Produce		json
//	@Param			X-User-ID	header		string	true	"Идентификатор пользователя"
//	@Param			status		query		string	false	"Фильтр по статусу"
//	@Param			userId		query		string	false	"Фильтр по пользователю (только admin)"
//	@Param			first		query		int		false	"Размер страницы"
//	@Param			after		query		string	false	"Курсор"
//	@Success		200			{object}	OrdersPageResponse
//	@Failure		400			{object}	ErrorResponse
//	@Router			/orders [get]
func (h *OrderHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	caller := identityFrom(r.Context())

	var filter usecase.OrderFilter
	if raw := query.Get("status"); raw != "" {
		status, err := domain.ParseOrderStatus(raw)
		if err != nil {
			WriteError(w, err)
			return
		}
		filter.Status = &status
	}

	switch userID := query.Get("userId"); {
	case !caller.IsAdmin():
		filter.UserID = &caller.UserID
	case userID != "":
		filter.UserID = &userID
	}

	first, err := parseOptionalInt(query.Get("first"))
	if err != nil {
		WriteError(w, err)
		return
	}

	page, err := h.orderUsecase.GetOrdersPaginated(r.Context(), filter, usecase.Pagination{
		First: first,
		After: query.Get("after"),
	})
	if err != nil {
		h.logFailure("list orders", err)
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toOrdersPageResponse(page))
}

// getOrder
//
//	@Summary	Заказ по идентификатору
//	@Tags		orders
//	@Produce	json
//	@Param		X-User-ID	header		string	true	"Идентификатор пользователя"
//	@Param		id			path		string	true	"ID заказа"
//	@Success	200			{object}	OrderResponse
//	@Failure	403			{object}	ErrorResponse
//	@Failure	404			{object}	ErrorResponse
//	@Router		/orders/{id} [get]
func (h *OrderHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	id, err := orderIDParam(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	caller := identityFrom(r.Context())
	order, err := h.orderUsecase.GetOrder(r.Context(), id, caller.UserID, caller.Role)
	if err != nil {
		h.logFailure("get order", err)
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toOrderResponse(order))
}

// cancelOrder
//
//	@Summary		Отмена заказа
//	@Description	Отменяет заказ владельца (или любой заказ для admin) и возвращает товар на склад
//	@Tags			orders
//	@Produce		json
//	@Param			X-User-ID	header		string	true	"Идентификатор пользователя"
//	@Param			id			path		string	true	"ID заказа"
//	@Success		200			{object}	OrderResponse
//	@Failure		403			{object}	ErrorResponse
//	@Failure		404			{object}	ErrorResponse
//	@Failure		409			{object}	ErrorResponse	"Недопустимый переход статуса"
//	@Router			/orders/{id}/cancel [post]
func (h *OrderHandler) cancelOrder(w http.ResponseWriter, r *http.Request) {
	id, err := orderIDParam(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	caller := identityFrom(r.Context())
	order, err := h.orderUsecase.CancelOrder(r.Context(), id, caller.UserID, caller.Role)
	if err != nil {
		h.logFailure("cancel order", err)
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toOrderResponse(order))
}

// updateOrderStatus
//
//	@Summary	Смена статуса заказа
//	@Tags		admin
//	@Accept		json
//	@Produce	json
//	@Param		X-User-ID	header		string				true	"Идентификатор администратора"
//	@Param		X-User-Role	header		string				true	"admin"
//	@Param		id			path		string				true	"ID заказа"
//	@Param		status		body		UpdateStatusRequest	true	"Новый статус"
//	@Success	200			{object}	OrderResponse
//	@Failure	400			{object}	ErrorResponse
//	@Failure	409			{object}	ErrorResponse
//	@Router		/admin/orders/{id}/status [patch]
func (h *OrderHandler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, err := orderIDParam(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	var req UpdateStatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, err)
		return
	}

	status, err := domain.ParseOrderStatus(req.Status)
	if err != nil {
		WriteError(w, err)
		return
	}

	caller := identityFrom(r.Context())
	order, err := h.orderUsecase.UpdateOrderStatus(r.Context(), id, status, caller.UserID)
	if err != nil {
		h.logFailure("update order status", err)
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toOrderResponse(order))
}

// getAnalytics
//
//	@Summary	Аналитика заказов
//	@Tags		admin
//	@Produce	json
//	@Param		X-User-ID	header		string	true	"Идентификатор администратора"
//	@Param		X-User-Role	header		string	true	"admin"
//	@Success	200			{object}	AnalyticsResponse
//	@Router		/admin/orders/analytics [get]
func (h *OrderHandler) getAnalytics(w http.ResponseWriter, r *http.Request) {
	analytics, err := h.orderUsecase.GetOrderAnalytics(r.Context())
	if err != nil {
		h.logFailure("order analytics", err)
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toAnalyticsResponse(analytics))
}

// exportAnalytics
//
//	@Summary		Выгрузка аналитики
//	@Description	Сохраняет снимок аналитики JSON-документом в объектное хранилище
//	@Tags			admin
//	@Produce		json
//	@Param			X-User-ID	header		string	true	"Идентификатор администратора"
//	@Param			X-User-Role	header		string	true	"admin"
//	@Success		201			{object}	ExportResponse
//	@Router			/admin/orders/analytics/export [post]
func (h *OrderHandler) exportAnalytics(w http.ResponseWriter, r *http.Request) {
	res, err := h.reportUsecase.ExportAnalytics(r.Context())
	if err != nil {
		h.logFailure("export analytics", err)
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, ExportResponse{ObjectKey: res.ObjectKey})
}

// logFailure пишет 5xx как ошибку, остальное как предупреждение.
func (h *OrderHandler) logFailure(action string, err error) {
	if ToHTTPResponse(err).Code >= http.StatusInternalServerError {
		h.logger.Errorf(err, "%s failed", action)
		return
	}

	h.logger.Warnf("%s rejected: %v", action, err)
}
