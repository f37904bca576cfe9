package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/DRSN-tech/shop-backend/internal/domain"
	"github.com/DRSN-tech/shop-backend/pkg/e"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const maxBodySize = 1 << 20

type ErrorResponse struct {
	Code    int            `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func NewErrorResponse(code int, message string, details map[string]any) *ErrorResponse {
	return &ErrorResponse{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// ToHTTPResponse сопоставляет ошибку usecase со статусом и телом ответа.
// Структурированные доменные ошибки отдают свои поля в details.
func ToHTTPResponse(err error) *ErrorResponse {
	var (
		stockErr      *domain.InsufficientStockError
		inactiveErr   *domain.ProductInactiveError
		productErr    *domain.ProductNotFoundError
		orderErr      *domain.OrderNotFoundError
		transitionErr *domain.InvalidStatusTransitionError
		quantityErr   *domain.InvalidQuantityError
	)

	switch {
	case errors.As(err, &stockErr):
		return NewErrorResponse(http.StatusConflict, e.ErrInsufficientStock.Error(), map[string]any{
			"productId":   stockErr.ProductID,
			"productName": stockErr.Name,
			"available":   stockErr.Available,
			"requested":   stockErr.Requested,
		})
	case errors.As(err, &inactiveErr):
		return NewErrorResponse(http.StatusConflict, e.ErrProductInactive.Error(), map[string]any{
			"productId":   inactiveErr.ProductID,
			"productName": inactiveErr.Name,
		})
	case errors.As(err, &productErr):
		return NewErrorResponse(http.StatusNotFound, e.ErrProductNotFound.Error(), map[string]any{
			"productId": productErr.ProductID,
		})
	case errors.As(err, &orderErr):
		return NewErrorResponse(http.StatusNotFound, e.ErrOrderNotFound.Error(), map[string]any{
			"orderId": orderErr.OrderID.String(),
		})
	case errors.As(err, &transitionErr):
		return NewErrorResponse(http.StatusConflict, e.ErrInvalidStatusTransition.Error(), map[string]any{
			"from": string(transitionErr.From),
			"to":   string(transitionErr.To),
		})
	case errors.As(err, &quantityErr):
		return NewErrorResponse(http.StatusBadRequest, e.ErrInvalidQuantity.Error(), map[string]any{
			"productId": quantityErr.ProductID,
			"quantity":  quantityErr.Quantity,
		})
	}

	for _, m := range []struct {
		target error
		code   int
	}{
		{e.ErrEmptyOrder, http.StatusBadRequest},
		{e.ErrInvalidQuantity, http.StatusBadRequest},
		{e.ErrInvalidCursor, http.StatusBadRequest},
		{e.ErrInvalidStatus, http.StatusBadRequest},
		{e.ErrInvalidPrice, http.StatusBadRequest},
		{e.ErrPricePrecision, http.StatusBadRequest},
		{e.ErrInvalidStock, http.StatusBadRequest},
		{e.ErrMissingFields, http.StatusBadRequest},
		{e.ErrProductNameRequired, http.StatusBadRequest},
		{e.ErrNoProducts, http.StatusBadRequest},
		{e.ErrStatusBadRequest, http.StatusBadRequest},
		{e.ErrInvalidIdentity, http.StatusUnauthorized},
		{e.ErrUnauthorized, http.StatusForbidden},
		{e.ErrAdminRequired, http.StatusForbidden},
		{e.ErrProductNotFound, http.StatusNotFound},
		{e.ErrOrderNotFound, http.StatusNotFound},
		{e.ErrProductInactive, http.StatusConflict},
		{e.ErrInsufficientStock, http.StatusConflict},
		{e.ErrInvalidStatusTransition, http.StatusConflict},
		{e.ErrTransient, http.StatusServiceUnavailable},
	} {
		if errors.Is(err, m.target) {
			return NewErrorResponse(m.code, m.target.Error(), nil)
		}
	}

	return NewErrorResponse(http.StatusInternalServerError, e.ErrInternalServerError.Error(), nil)
}

func WriteError(w http.ResponseWriter, err error) {
	resp := ToHTTPResponse(err)
	WriteSuccess(w, resp.Code, resp)
}

func WriteSuccess(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// decodeJSON читает тело запроса в dst. Неизвестные поля и мусор после объекта дают 400.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return e.Wrap(err.Error(), e.ErrStatusBadRequest)
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return e.Wrap("body must contain a single JSON object", e.ErrStatusBadRequest)
	}

	return nil
}

func orderIDParam(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, e.Wrap("order id "+raw, e.ErrStatusBadRequest)
	}

	return id, nil
}

// parseIDs разбирает ids=1,2,3 (и повторяющийся параметр ids=1&ids=2).
func parseIDs(values []string) ([]int64, error) {
	var ids []int64
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}

			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil || id <= 0 {
				return nil, e.Wrap("product id "+part, e.ErrStatusBadRequest)
			}
			ids = append(ids, id)
		}
	}

	return ids, nil
}

func parseOptionalInt(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, e.Wrap("first "+raw, e.ErrStatusBadRequest)
	}

	return n, nil
}
