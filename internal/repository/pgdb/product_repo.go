package pgdb

import (
	"context"
	"errors"

	"github.com/DRSN-tech/shop-backend/internal/domain"
	"github.com/DRSN-tech/shop-backend/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/shop-backend/internal/usecase"
	"github.com/DRSN-tech/shop-backend/pkg/e"
	"github.com/DRSN-tech/shop-backend/pkg/tr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

// ProductRepo реализует репозиторий продуктов поверх PostgreSQL.
type ProductRepo struct {
	pool *pgxpool.Pool
	conv converter.ProductConverter
}

func NewProductRepo(pool *pgxpool.Pool, conv converter.ProductConverter) *ProductRepo {
	return &ProductRepo{
		pool: pool,
		conv: conv,
	}
}

func (p *ProductRepo) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := `
		SELECT id, name, price, stock, is_active, category_id, created_at, updated_at
		FROM products
		WHERE id = $1
	`

	var model converter.ProductModel
	err := tr.Conn(ctx, p.pool).QueryRow(ctx, query, id).Scan(
		&model.ID, &model.Name, &model.Price, &model.Stock,
		&model.IsActive, &model.CategoryID, &model.CreatedAt, &model.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.ErrProductNotFound
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToEntity(&model), nil
}

// AdjustStock: единственное место, где меняется остаток. Условие в WHERE
// не даёт остатку уйти в минус даже при конкурентных списаниях.
func (p *ProductRepo) AdjustStock(ctx context.Context, id int64, delta int) (int, error) {
	query := `
		UPDATE products
		SET stock = stock + $2, updated_at = NOW()
		WHERE id = $1 AND stock + $2 >= 0
		RETURNING stock
	`

	var stock int
	if err := tr.Conn(ctx, p.pool).QueryRow(ctx, query, id, delta).Scan(&stock); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, e.ErrStockConflict
		}
		return 0, e.Wrap(whereami.WhereAmI(), err)
	}

	return stock, nil
}

// Upsert идемпотентно создаёт или обновляет продукт по уникальному имени.
// Запись обновляется только при изменении цены, категории или активности; stock задаётся только при вставке.
func (p *ProductRepo) Upsert(ctx context.Context, product *domain.Product) (*usecase.UpsertProductRes, error) {
	m := p.conv.ToModel(product)

	// VALUES ($1, $2, $3, $4, $5) name, price, stock, is_active, category_id
	query := `
		WITH upsert AS (
		INSERT INTO products (name, price, stock, is_active, category_id)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (name)
		DO UPDATE SET
			price = EXCLUDED.price,
			is_active = EXCLUDED.is_active,
			category_id = EXCLUDED.category_id,
			updated_at = NOW()
		WHERE
			products.price IS DISTINCT FROM EXCLUDED.price OR
			products.is_active IS DISTINCT FROM EXCLUDED.is_active OR
			products.category_id IS DISTINCT FROM EXCLUDED.category_id
		RETURNING
			id, name, price, stock, is_active, category_id, created_at, updated_at
		)
		SELECT
			id, name, price, stock, is_active, category_id, created_at, updated_at,
			false AS no_changes
		FROM upsert

		UNION ALL

		SELECT
			id, name, price, stock, is_active, category_id, created_at, updated_at,
			true AS no_changes
		FROM products
		WHERE name = $1
		  AND NOT EXISTS (SELECT 1 FROM upsert);
	`

	var model converter.ProductModel
	var noChanges bool
	err := tr.Conn(ctx, p.pool).QueryRow(ctx, query, m.Name, m.Price, m.Stock, m.IsActive, m.CategoryID).
		Scan(
			&model.ID, &model.Name, &model.Price, &model.Stock, &model.IsActive,
			&model.CategoryID, &model.CreatedAt, &model.UpdatedAt, &noChanges,
		)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return usecase.NewUpsertProductRes(p.conv.ToEntity(&model), noChanges), nil
}

// GetProductsInfo возвращает информацию о продуктах по их идентификаторам, включая название категории.
func (p *ProductRepo) GetProductsInfo(ctx context.Context, ids []int64) ([]usecase.ProductInfo, error) {
	query := `
		SELECT pr.id, pr.name, pr.price, pr.stock, pr.is_active, cat.name
		FROM products pr
		JOIN categories cat ON pr.category_id = cat.id
		WHERE pr.id = ANY($1)
	`

	rows, err := tr.Conn(ctx, p.pool).Query(ctx, query, ids)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	result := make([]usecase.ProductInfo, 0)
	for rows.Next() {
		var product usecase.ProductInfo
		if err := rows.Scan(
			&product.ID, &product.Name, &product.Price, &product.Stock, &product.IsActive, &product.CategoryName,
		); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		result = append(result, product)
	}

	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return result, nil
}
