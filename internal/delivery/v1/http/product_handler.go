package http

import (
	"net/http"
	"strings"

	"github.com/DRSN-tech/shop-backend/internal/usecase"
	"github.com/DRSN-tech/shop-backend/pkg/logger"
)

type ProductHandler struct {
	productUsecase usecase.ProductUC
	logger         logger.Logger
}

func NewProductHandler(productUsecase usecase.ProductUC, logger logger.Logger) *ProductHandler {
	return &ProductHandler{productUsecase: productUsecase, logger: logger}
}

// registerProduct
//
//	@Summary		Регистрация товара
//	@Description	Создаёт товар и категорию или обновляет цену и активность существующего. Остаток задаётся только при создании.
//	@Tags			admin
//	@Accept			json
//	@Produce		json
//	@Param			X-User-ID	header		string					true	"Идентификатор администратора"
//	@Param			X-User-Role	header		string					true	"admin"
//	@Param			product		body		RegisterProductRequest	true	"Товар"
//	@Success		200			{object}	ProductResponse
//	@Failure		400			{object}	ErrorResponse	"Ошибка валидации"
//	@Router			/admin/products [post]
func (p *ProductHandler) registerProduct(w http.ResponseWriter, r *http.Request) {
	var req RegisterProductRequest
	if err := decodeJSON(w, r, &req); err != nil {
		p.logger.Warnf("%d %s", http.StatusBadRequest, err.Error())
		WriteError(w, err)
		return
	}

	product, err := p.productUsecase.RegisterProduct(r.Context(), req.toUseCase())
	if err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	categoryName := strings.TrimSpace(req.CategoryName)
	if categoryName == "" {
		categoryName = product.Name
	}

	WriteSuccess(w, http.StatusOK, toRegisteredProductResponse(product, categoryName))
}

// getProducts
//
//	@Summary	Информация о товарах
//	@Tags		products
//	@Produce	json
//	@Param		X-User-ID	header		string	true	"Идентификатор пользователя"
//	@Param		ids			query		string	true	"Список ID через запятую"
//	@Success	200			{object}	ProductsResponse
//	@Failure	400			{object}	ErrorResponse
//	@Router		/products [get]
func (p *ProductHandler) getProducts(w http.ResponseWriter, r *http.Request) {
	ids, err := parseIDs(r.URL.Query()["ids"])
	if err != nil {
		WriteError(w, err)
		return
	}

	res, err := p.productUsecase.GetProductsInfo(r.Context(), usecase.NewGetProductsReq(ids))
	if err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductsResponse(res))
}
