package pgdb

import (
	"context"
	"errors"

	"github.com/DRSN-tech/shop-backend/internal/domain"
	"github.com/DRSN-tech/shop-backend/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/shop-backend/internal/usecase"
	"github.com/DRSN-tech/shop-backend/pkg/e"
	"github.com/DRSN-tech/shop-backend/pkg/tr"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
	"github.com/shopspring/decimal"
)

const orderColumns = `id, user_id, total_amount, status, shipping_address, notes, created_at, updated_at`

// OrderRepo хранит заказы и их позиции в PostgreSQL.
type OrderRepo struct {
	pool *pgxpool.Pool
	conv converter.OrderConverter
}

func NewOrderRepo(pool *pgxpool.Pool, conv converter.OrderConverter) *OrderRepo {
	return &OrderRepo{pool: pool, conv: conv}
}

func (o *OrderRepo) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	conn := tr.Conn(ctx, o.pool)
	model, items := o.conv.ToModel(order)

	query := `
		INSERT INTO orders (id, user_id, total_amount, status, shipping_address, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at;
	`

	if err := conn.QueryRow(ctx, query,
		model.ID,
		model.UserID,
		model.TotalAmount,
		model.Status,
		model.ShippingAddress,
		model.Notes,
	).Scan(&model.CreatedAt, &model.UpdatedAt); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	itemQuery := `
		INSERT INTO order_items (order_id, product_id, product_name, quantity, price)
		VALUES ($1, $2, $3, $4, $5);
	`
	for _, it := range items {
		if _, err := conn.Exec(ctx, itemQuery, it.OrderID, it.ProductID, it.ProductName, it.Quantity, it.Price); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
	}

	return o.conv.ToEntity(model, items), nil
}

func (o *OrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	model, err := scanOrder(tr.Conn(ctx, o.pool).QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.ErrOrderNotFound
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	orders, err := o.attachItems(ctx, []*converter.OrderModel{model})
	if err != nil {
		return nil, err
	}

	return orders[0], nil
}

// UpdateStatus: условное обновление статуса: строка меняется только если статус всё ещё from.
func (o *OrderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.OrderStatus) (*domain.Order, error) {
	conn := tr.Conn(ctx, o.pool)

	query := `
		UPDATE orders
		SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
		RETURNING ` + orderColumns

	model, err := scanOrder(conn.QueryRow(ctx, query, id, string(from), string(to)))
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		var exists bool
		if err := conn.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1)`, id).Scan(&exists); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		if !exists {
			return nil, e.ErrOrderNotFound
		}
		return nil, e.ErrStatusConflict
	}

	orders, err := o.attachItems(ctx, []*converter.OrderModel{model})
	if err != nil {
		return nil, err
	}

	return orders[0], nil
}

// FindMany выбирает заказы по убыванию (created_at, id) строго после курсора.
func (o *OrderRepo) FindMany(ctx context.Context, filter usecase.OrderFilter, limit int, after *uuid.UUID) ([]*domain.Order, error) {
	conn := tr.Conn(ctx, o.pool)

	var status *string
	if filter.Status != nil {
		s := string(*filter.Status)
		status = &s
	}

	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE ($1::text IS NULL OR status = $1)
		  AND ($2::text IS NULL OR user_id = $2)
		ORDER BY created_at DESC, id DESC
		LIMIT $3
	`
	args := []any{status, filter.UserID, limit}

	if after != nil {
		var anchor converter.OrderModel
		err := conn.QueryRow(ctx, `SELECT id, created_at FROM orders WHERE id = $1`, *after).
			Scan(&anchor.ID, &anchor.CreatedAt)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, e.ErrInvalidCursor
			}
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		query = `
			SELECT ` + orderColumns + `
			FROM orders
			WHERE ($1::text IS NULL OR status = $1)
			  AND ($2::text IS NULL OR user_id = $2)
			  AND (created_at, id) < ($4, $5)
			ORDER BY created_at DESC, id DESC
			LIMIT $3
		`
		args = append(args, anchor.CreatedAt, anchor.ID)
	}

	rows, err := conn.Query(ctx, query, args...)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	var models []*converter.OrderModel
	for rows.Next() {
		model, err := scanOrder(rows)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		models = append(models, model)
	}
	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return o.attachItems(ctx, models)
}

func (o *OrderRepo) CountByUserID(ctx context.Context, userID *string) (int64, error) {
	query := `SELECT COUNT(*) FROM orders WHERE ($1::text IS NULL OR user_id = $1)`

	var count int64
	if err := tr.Conn(ctx, o.pool).QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, e.Wrap(whereami.WhereAmI(), err)
	}

	return count, nil
}

// Aggregate считает заказы и выручку по статусам одним запросом, чтобы среднее
// не расходилось с количеством. Выручка включает отменённые заказы.
func (o *OrderRepo) Aggregate(ctx context.Context) (*usecase.OrderTotals, error) {
	query := `
		SELECT status, COUNT(*), COALESCE(SUM(total_amount), 0)::text
		FROM orders
		GROUP BY status
	`

	rows, err := tr.Conn(ctx, o.pool).Query(ctx, query)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	res := &usecase.OrderTotals{
		ByStatus: make(map[domain.OrderStatus]int64),
		Revenue:  decimal.Zero,
	}
	for rows.Next() {
		var (
			status  string
			count   int64
			revenue decimal.Decimal
		)
		if err := rows.Scan(&status, &count, &revenue); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		res.ByStatus[domain.OrderStatus(status)] = count
		res.Revenue = res.Revenue.Add(revenue)
	}
	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return res, nil
}

// attachItems одним запросом подгружает позиции для набора заказов.
func (o *OrderRepo) attachItems(ctx context.Context, models []*converter.OrderModel) ([]*domain.Order, error) {
	if len(models) == 0 {
		return []*domain.Order{}, nil
	}

	ids := make([]string, 0, len(models))
	for _, m := range models {
		ids = append(ids, m.ID.String())
	}

	query := `
		SELECT order_id, product_id, product_name, quantity, price
		FROM order_items
		WHERE order_id = ANY($1::uuid[])
		ORDER BY id
	`

	rows, err := tr.Conn(ctx, o.pool).Query(ctx, query, ids)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	items := make(map[uuid.UUID][]converter.OrderItemModel, len(models))
	for rows.Next() {
		var it converter.OrderItemModel
		if err := rows.Scan(&it.OrderID, &it.ProductID, &it.ProductName, &it.Quantity, &it.Price); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		items[it.OrderID] = append(items[it.OrderID], it)
	}
	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	res := make([]*domain.Order, 0, len(models))
	for _, m := range models {
		res = append(res, o.conv.ToEntity(m, items[m.ID]))
	}

	return res, nil
}

func scanOrder(row pgx.Row) (*converter.OrderModel, error) {
	var m converter.OrderModel
	if err := row.Scan(
		&m.ID, &m.UserID, &m.TotalAmount, &m.Status,
		&m.ShippingAddress, &m.Notes, &m.CreatedAt, &m.UpdatedAt,
	); err != nil {
		return nil, err
	}

	return &m, nil
}
