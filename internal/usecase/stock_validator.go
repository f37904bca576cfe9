package usecase

import (
	"context"
	"errors"

	"github.com/DRSN-tech/shop-backend/internal/domain"
	"github.com/DRSN-tech/shop-backend/pkg/e"
)

// StockValidator проверяет, что все запрошенные товары существуют, продаются
// и есть в достаточном количестве. Ничего не меняет: списание идёт отдельным шагом.
type StockValidator struct {
	productRepo ProductReader
}

func NewStockValidator(productRepo ProductReader) *StockValidator {
	return &StockValidator{productRepo: productRepo}
}

// Validate проходит позиции в порядке запроса и останавливается на первой ошибке.
func (v *StockValidator) Validate(ctx context.Context, items []OrderItemReq) ([]ValidatedItem, error) {
	result := make([]ValidatedItem, 0, len(items))
	for _, item := range items {
		product, err := v.productRepo.FindByID(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, e.ErrProductNotFound) {
				return nil, &domain.ProductNotFoundError{ProductID: item.ProductID}
			}
			return nil, err
		}

		if !product.IsActive {
			return nil, &domain.ProductInactiveError{ProductID: product.ID, Name: product.Name}
		}

		if product.Stock < item.Quantity {
			return nil, &domain.InsufficientStockError{
				ProductID: product.ID,
				Name:      product.Name,
				Available: product.Stock,
				Requested: item.Quantity,
			}
		}

		result = append(result, NewValidatedItem(product, item.Quantity))
	}

	return result, nil
}
