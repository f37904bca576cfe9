package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product описывает товар каталога. Stock меняется только через условное
// списание/возврат в репозитории (Inventory Ledger), прямое присваивание запрещено.
type Product struct {
	ID         int64
	Name       string
	Price      decimal.Decimal // NUMERIC(12,2)
	Stock      int
	IsActive   bool
	CategoryID int64
	CreatedAt  time.Time
	UpdatedAt  *time.Time
}

func NewProduct(name string, price decimal.Decimal, stock int, categoryID int64) *Product {
	return &Product{
		Name:       name,
		Price:      price,
		Stock:      stock,
		IsActive:   true,
		CategoryID: categoryID,
	}
}
