package converter

import (
	"github.com/DRSN-tech/shop-backend/internal/usecase"
	"github.com/shopspring/decimal"
)

type ProductInfoConverter struct{}

func (ProductInfoConverter) ToRedisModel(entity *usecase.ProductInfo) *ProductInfoRedisModel {
	return &ProductInfoRedisModel{
		ID:           entity.ID,
		Name:         entity.Name,
		CategoryName: entity.CategoryName,
		Price:        entity.Price.StringFixed(2),
		Stock:        entity.Stock,
		IsActive:     entity.IsActive,
	}
}

func (ProductInfoConverter) ToUseCase(model *ProductInfoRedisModel) (*usecase.ProductInfo, error) {
	price, err := decimal.NewFromString(model.Price)
	if err != nil {
		return nil, err
	}

	info := usecase.NewProductInfo(model.ID, model.Name, model.CategoryName, price, model.Stock, model.IsActive)
	return &info, nil
}

func (c ProductInfoConverter) ToArrRedisModel(entities []usecase.ProductInfo) []ProductInfoRedisModel {
	res := make([]ProductInfoRedisModel, 0, len(entities))
	for i := range entities {
		res = append(res, *c.ToRedisModel(&entities[i]))
	}
	return res
}
