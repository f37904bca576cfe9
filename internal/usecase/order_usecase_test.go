package usecase_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/DRSN-tech/shop-backend/internal/domain"
	"github.com/DRSN-tech/shop-backend/internal/usecase"
	"github.com/DRSN-tech/shop-backend/pkg/cursor"
	"github.com/DRSN-tech/shop-backend/pkg/e"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestCreateOrder_Success(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t, "Keyboard", "10.50", 5, true)

	order, err := f.uc.CreateOrder(context.Background(), "user-1", &usecase.CreateOrderReq{
		Items: []usecase.OrderItemReq{item(p.ID, 2)},
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusPending, order.Status)
	assert.Equal(t, "user-1", order.UserID)
	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("21.00")))
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Keyboard", order.Items[0].ProductName)
	assert.True(t, order.Items[0].Price.Equal(p.Price))
	assert.Equal(t, 3, f.stock(t, p.ID))

	events := f.outbox.Events()
	require.Len(t, events, 1)
	assert.Equal(t, usecase.EventOrderCreated, events[0].EventType)
	assert.Equal(t, order.ID.String(), events[0].AggregateID)
	assert.Equal(t, usecase.Pending, events[0].Status)

	assert.Equal(t, []int64{p.ID}, f.cache.Deleted())
	assert.Equal(t, 1, f.metrics.created)
}

func TestCreateOrder_TotalIsSumOfLines(t *testing.T) {
	f := newFixture(t)
	a := f.seedProduct(t, "Pen", "10.50", 10, true)
	b := f.seedProduct(t, "Clip", "0.10", 10, true)

	order := f.placeOrder(t, "user-1", item(a.ID, 2), item(b.ID, 3))

	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("21.30")))
	assert.True(t, order.TotalAmount.Equal(domain.SumItems(order.Items)))
	assert.Equal(t, 8, f.stock(t, a.ID))
	assert.Equal(t, 7, f.stock(t, b.ID))
}

func TestCreateOrder_EmptyOrderRejectedBeforeStoreAccess(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.CreateOrder(context.Background(), "user-1", &usecase.CreateOrderReq{})
	require.ErrorIs(t, err, e.ErrEmptyOrder)

	_, err = f.uc.CreateOrder(context.Background(), "user-1", nil)
	require.ErrorIs(t, err, e.ErrEmptyOrder)

	assert.Zero(t, f.unit.Calls())
	assert.Zero(t, f.orderCount(t))
}

func TestCreateOrder_InvalidQuantity(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t, "Mouse", "5.00", 5, true)

	for _, qty := range []int{0, -1} {
		_, err := f.uc.CreateOrder(context.Background(), "user-1", &usecase.CreateOrderReq{
			Items: []usecase.OrderItemReq{item(p.ID, qty)},
		})
		require.ErrorIs(t, err, e.ErrInvalidQuantity)

		var qErr *domain.InvalidQuantityError
		require.ErrorAs(t, err, &qErr)
		assert.Equal(t, qty, qErr.Quantity)
	}

	assert.Zero(t, f.unit.Calls())
	assert.Equal(t, 5, f.stock(t, p.ID))
}

func TestCreateOrder_ValidationFailures(t *testing.T) {
	f := newFixture(t)
	active := f.seedProduct(t, "Monitor", "100.00", 1, true)
	inactive := f.seedProduct(t, "Old Monitor", "50.00", 10, false)

	tests := []struct {
		name   string
		items  []usecase.OrderItemReq
		target error
	}{
		{"unknown product", []usecase.OrderItemReq{item(active.ID, 1), item(999, 1)}, e.ErrProductNotFound},
		{"inactive product", []usecase.OrderItemReq{item(inactive.ID, 1)}, e.ErrProductInactive},
		{"not enough stock", []usecase.OrderItemReq{item(active.ID, 2)}, e.ErrInsufficientStock},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.CreateOrder(context.Background(), "user-1", &usecase.CreateOrderReq{Items: tt.items})
			require.ErrorIs(t, err, tt.target)
			assert.True(t, e.IsDomain(err))
		})
	}

	assert.Zero(t, f.orderCount(t))
	assert.Empty(t, f.outbox.Events())
	assert.Equal(t, 1, f.stock(t, active.ID))
	assert.Equal(t, 10, f.stock(t, inactive.ID))
	assert.Equal(t, 1, f.metrics.rejected)
}

func TestCreateOrder_InsufficientStockCarriesDetails(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t, "Cable", "3.00", 2, true)

	_, err := f.uc.CreateOrder(context.Background(), "user-1", &usecase.CreateOrderReq{
		Items: []usecase.OrderItemReq{item(p.ID, 3)},
	})

	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, p.ID, stockErr.ProductID)
	assert.Equal(t, "Cable", stockErr.Name)
	assert.Equal(t, 2, stockErr.Available)
	assert.Equal(t, 3, stockErr.Requested)
}

func TestCreateOrder_RollsBackOnLateFailure(t *testing.T) {
	f := newFixture(t)
	a := f.seedProduct(t, "Lamp", "20.00", 4, true)
	b := f.seedProduct(t, "Bulb", "2.00", 4, true)
	f.encoder.err = errBoom

	_, err := f.uc.CreateOrder(context.Background(), "user-1", &usecase.CreateOrderReq{
		Items: []usecase.OrderItemReq{item(a.ID, 1), item(b.ID, 4)},
	})
	require.ErrorIs(t, err, errBoom)

	assert.Equal(t, 4, f.stock(t, a.ID))
	assert.Equal(t, 4, f.stock(t, b.ID))
	assert.Zero(t, f.orderCount(t))
	assert.Empty(t, f.outbox.Events())
	assert.Empty(t, f.cache.Deleted())
	assert.Zero(t, f.metrics.created)
}

func TestCreateOrder_ConcurrentBuyersOfLastUnit(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t, "Console", "499.99", 1, true)

	var succeeded, rejected atomic.Int32
	var g errgroup.Group
	for _, user := range []string{"alice", "bob"} {
		g.Go(func() error {
			_, err := f.uc.CreateOrder(context.Background(), user, &usecase.CreateOrderReq{
				Items: []usecase.OrderItemReq{item(p.ID, 1)},
			})
			switch {
			case err == nil:
				succeeded.Add(1)
			case errors.Is(err, e.ErrInsufficientStock):
				rejected.Add(1)
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, int32(1), succeeded.Load())
	assert.Equal(t, int32(1), rejected.Load())
	assert.Equal(t, 0, f.stock(t, p.ID))
	assert.Equal(t, int64(1), f.orderCount(t))
}

func TestCreateOrder_StockNeverNegativeUnderContention(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t, "Ticket", "15.00", 5, true)

	const buyers = 20
	var succeeded atomic.Int32
	var g errgroup.Group
	for i := 0; i < buyers; i++ {
		g.Go(func() error {
			_, err := f.uc.CreateOrder(context.Background(), uuid.NewString(), &usecase.CreateOrderReq{
				Items: []usecase.OrderItemReq{item(p.ID, 1)},
			})
			if err == nil {
				succeeded.Add(1)
				return nil
			}
			if errors.Is(err, e.ErrInsufficientStock) {
				return nil
			}
			return err
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, int32(5), succeeded.Load())
	assert.Equal(t, 0, f.stock(t, p.ID))
	assert.Equal(t, int64(5), f.orderCount(t))
}

func TestCancelOrder_RestoresStock(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t, "Chair", "45.00", 3, true)
	order := f.placeOrder(t, "user-1", item(p.ID, 2))
	require.Equal(t, 1, f.stock(t, p.ID))

	cancelled, err := f.uc.CancelOrder(context.Background(), order.ID, "user-1", domain.RoleCustomer)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusCancelled, cancelled.Status)
	assert.Equal(t, 3, f.stock(t, p.ID))

	events := f.outbox.Events()
	require.Len(t, events, 2)
	assert.Equal(t, usecase.EventOrderCancelled, events[1].EventType)
	assert.Equal(t, 1, f.metrics.cancelled)
}

func TestCancelOrder_Authorization(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t, "Desk", "120.00", 5, true)
	order := f.placeOrder(t, "owner", item(p.ID, 1))

	_, err := f.uc.CancelOrder(context.Background(), order.ID, "stranger", domain.RoleCustomer)
	require.ErrorIs(t, err, e.ErrUnauthorized)
	assert.Equal(t, 4, f.stock(t, p.ID))

	stored, err := f.orders.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, stored.Status)

	cancelled, err := f.uc.CancelOrder(context.Background(), order.ID, "admin-1", domain.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, cancelled.Status)
	assert.Equal(t, 5, f.stock(t, p.ID))
}

func TestCancelOrder_NotFound(t *testing.T) {
	f := newFixture(t)

	id := uuid.New()
	_, err := f.uc.CancelOrder(context.Background(), id, "user-1", domain.RoleCustomer)
	require.ErrorIs(t, err, e.ErrOrderNotFound)

	var nfErr *domain.OrderNotFoundError
	require.ErrorAs(t, err, &nfErr)
	assert.Equal(t, id, nfErr.OrderID)
}

func TestCancelOrder_DeliveredIsFinal(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t, "Sofa", "900.00", 2, true)
	order := f.placeOrder(t, "user-1", item(p.ID, 1))

	ctx := context.Background()
	for _, next := range []domain.OrderStatus{
		domain.StatusConfirmed, domain.StatusProcessing, domain.StatusShipped, domain.StatusDelivered,
	} {
		_, err := f.uc.UpdateOrderStatus(ctx, order.ID, next, "admin-1")
		require.NoError(t, err)
	}

	_, err := f.uc.CancelOrder(ctx, order.ID, "user-1", domain.RoleCustomer)
	var trErr *domain.InvalidStatusTransitionError
	require.ErrorAs(t, err, &trErr)
	assert.Equal(t, domain.StatusDelivered, trErr.From)
	assert.Equal(t, domain.StatusCancelled, trErr.To)
	assert.Equal(t, 1, f.stock(t, p.ID))
}

func TestCancelOrder_Twice(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t, "Bag", "30.00", 2, true)
	order := f.placeOrder(t, "user-1", item(p.ID, 2))

	_, err := f.uc.CancelOrder(context.Background(), order.ID, "user-1", domain.RoleCustomer)
	require.NoError(t, err)

	_, err = f.uc.CancelOrder(context.Background(), order.ID, "user-1", domain.RoleCustomer)
	require.ErrorIs(t, err, e.ErrInvalidStatusTransition)
	assert.Equal(t, 2, f.stock(t, p.ID))
}

func TestCancelOrder_ConcurrentCancelRestoresOnce(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t, "Watch", "250.00", 3, true)
	order := f.placeOrder(t, "user-1", item(p.ID, 3))

	var succeeded atomic.Int32
	var g errgroup.Group
	for i := 0; i < 5; i++ {
		g.Go(func() error {
			_, err := f.uc.CancelOrder(context.Background(), order.ID, "user-1", domain.RoleCustomer)
			if err == nil {
				succeeded.Add(1)
				return nil
			}
			if errors.Is(err, e.ErrInvalidStatusTransition) {
				return nil
			}
			return err
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, int32(1), succeeded.Load())
	assert.Equal(t, 3, f.stock(t, p.ID))
}

func TestUpdateOrderStatus(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t, "Phone", "300.00", 5, true)
	order := f.placeOrder(t, "user-1", item(p.ID, 1))
	ctx := context.Background()

	_, err := f.uc.UpdateOrderStatus(ctx, order.ID, domain.StatusShipped, "admin-1")
	var trErr *domain.InvalidStatusTransitionError
	require.ErrorAs(t, err, &trErr)
	assert.Equal(t, domain.StatusPending, trErr.From)
	assert.Equal(t, domain.StatusShipped, trErr.To)

	updated, err := f.uc.UpdateOrderStatus(ctx, order.ID, domain.StatusConfirmed, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, updated.Status)
	assert.Equal(t, 4, f.stock(t, p.ID))
	assert.Equal(t, []string{"pending->confirmed"}, f.metrics.transitions)

	events := f.outbox.Events()
	assert.Equal(t, usecase.EventOrderStatusChanged, events[len(events)-1].EventType)

	_, err = f.uc.UpdateOrderStatus(ctx, uuid.New(), domain.StatusConfirmed, "admin-1")
	require.ErrorIs(t, err, e.ErrOrderNotFound)
}

// Остальные переходы остатки не трогают (см. TestUpdateOrderStatus), но отмена
// через административный путь возвращает товар так же, как CancelOrder.
func TestUpdateOrderStatus_CancelRestoresStock(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t, "Tablet", "199.90", 4, true)
	order := f.placeOrder(t, "user-1", item(p.ID, 3))
	ctx := context.Background()

	_, err := f.uc.UpdateOrderStatus(ctx, order.ID, domain.StatusConfirmed, "admin-1")
	require.NoError(t, err)

	cancelled, err := f.uc.UpdateOrderStatus(ctx, order.ID, domain.StatusCancelled, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, cancelled.Status)
	assert.Equal(t, 4, f.stock(t, p.ID))
	assert.Equal(t, 1, f.metrics.cancelled)
}

func TestUpdateOrderStatus_ConcurrentChangeStillAllowedIsTransient(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t, "Camera", "250.00", 2, true)
	order := f.placeOrder(t, "user-1", item(p.ID, 1))

	uc := f.withOrders(&racingOrders{OrderRepository: f.orders}, f.store)

	_, err := uc.UpdateOrderStatus(context.Background(), order.ID, domain.StatusConfirmed, "admin-1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, e.ErrTransient))
	assert.True(t, errors.Is(err, e.ErrStatusConflict))

	stored, err := f.orders.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, stored.Status)
}

func TestUpdateOrderStatus_ConcurrentChangeRetried(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t, "Lens", "120.00", 2, true)
	order := f.placeOrder(t, "user-1", item(p.ID, 1))

	unit := &retryingUnit{next: f.store}
	uc := f.withOrders(&racingOrders{OrderRepository: f.orders}, unit)

	updated, err := uc.UpdateOrderStatus(context.Background(), order.ID, domain.StatusConfirmed, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, updated.Status)
	assert.Equal(t, 2, unit.attempts)
}

func TestUpdateOrderStatus_ConcurrentChangeForbidsTransition(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t, "Tripod", "40.00", 2, true)
	order := f.placeOrder(t, "user-1", item(p.ID, 1))

	cancelled := domain.StatusCancelled
	uc := f.withOrders(&racingOrders{OrderRepository: f.orders, concurrent: &cancelled}, f.store)

	_, err := uc.UpdateOrderStatus(context.Background(), order.ID, domain.StatusConfirmed, "admin-1")
	var trErr *domain.InvalidStatusTransitionError
	require.ErrorAs(t, err, &trErr)
	assert.Equal(t, domain.StatusCancelled, trErr.From)
	assert.Equal(t, domain.StatusConfirmed, trErr.To)
	assert.False(t, errors.Is(err, e.ErrTransient))
}

func TestGetOrder_Access(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t, "Book", "12.00", 5, true)
	order := f.placeOrder(t, "owner", item(p.ID, 1))
	ctx := context.Background()

	got, err := f.uc.GetOrder(ctx, order.ID, "owner", domain.RoleCustomer)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)

	_, err = f.uc.GetOrder(ctx, order.ID, "someone", domain.RoleCustomer)
	require.ErrorIs(t, err, e.ErrUnauthorized)

	_, err = f.uc.GetOrder(ctx, order.ID, "admin-1", domain.RoleAdmin)
	require.NoError(t, err)

	_, err = f.uc.GetOrder(ctx, uuid.New(), "admin-1", domain.RoleAdmin)
	require.ErrorIs(t, err, e.ErrOrderNotFound)
}

func TestGetOrderAnalytics_Empty(t *testing.T) {
	f := newFixture(t)

	res, err := f.uc.GetOrderAnalytics(context.Background())
	require.NoError(t, err)

	assert.Zero(t, res.TotalOrders)
	assert.True(t, res.TotalRevenue.IsZero())
	assert.True(t, res.AverageOrderValue.IsZero())
	assert.Empty(t, res.OrdersByStatus)
}

func TestGetOrderAnalytics(t *testing.T) {
	f := newFixture(t)
	a := f.seedProduct(t, "Tea", "10.50", 10, true)
	b := f.seedProduct(t, "Cup", "10.00", 10, true)

	f.placeOrder(t, "user-1", item(a.ID, 2))
	second := f.placeOrder(t, "user-2", item(b.ID, 1))
	_, err := f.uc.CancelOrder(context.Background(), second.ID, "user-2", domain.RoleCustomer)
	require.NoError(t, err)

	first, err := f.uc.GetOrderAnalytics(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(2), first.TotalOrders)
	assert.True(t, first.TotalRevenue.Equal(decimal.RequireFromString("31.00")))
	assert.True(t, first.AverageOrderValue.Equal(decimal.RequireFromString("15.50")))
	assert.Equal(t, int64(1), first.OrdersByStatus[domain.StatusPending])
	assert.Equal(t, int64(1), first.OrdersByStatus[domain.StatusCancelled])

	again, err := f.uc.GetOrderAnalytics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first.TotalOrders, again.TotalOrders)
	assert.True(t, first.TotalRevenue.Equal(again.TotalRevenue))
	assert.Equal(t, first.OrdersByStatus, again.OrdersByStatus)
}

func TestGetOrderAnalytics_AverageRounded(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t, "Gum", "10.00", 10, true)
	q := f.seedProduct(t, "Mint", "0.00", 10, true)

	f.placeOrder(t, "user-1", item(p.ID, 1))
	f.placeOrder(t, "user-1", item(q.ID, 1))
	f.placeOrder(t, "user-1", item(q.ID, 1))

	res, err := f.uc.GetOrderAnalytics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "3.33", res.AverageOrderValue.StringFixed(2))
	assert.True(t, res.AverageOrderValue.Equal(decimal.RequireFromString("3.33")))
}

// fixedTotals отдаёт заранее заданный снимок агрегатов и считает обращения.
type fixedTotals struct {
	usecase.OrderRepository
	totals *usecase.OrderTotals
	reads  int
}

func (f *fixedTotals) Aggregate(context.Context) (*usecase.OrderTotals, error) {
	f.reads++
	return f.totals, nil
}

func TestGetOrderAnalytics_DerivedFromSingleSnapshot(t *testing.T) {
	f := newFixture(t)
	repo := &fixedTotals{
		OrderRepository: f.orders,
		totals: &usecase.OrderTotals{
			ByStatus: map[domain.OrderStatus]int64{
				domain.StatusPending:   2,
				domain.StatusCancelled: 1,
			},
			Revenue: decimal.RequireFromString("10.00"),
		},
	}
	uc := f.withOrders(repo, f.store)

	res, err := uc.GetOrderAnalytics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, repo.reads)
	assert.Equal(t, int64(3), res.TotalOrders)
	assert.Equal(t, "10.00", res.TotalRevenue.StringFixed(2))
	assert.Equal(t, "3.33", res.AverageOrderValue.StringFixed(2))
	assert.Equal(t, int64(1), res.OrdersByStatus[domain.StatusCancelled])
}

func TestGetOrdersPaginated_WalksAllPages(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t, "Sticker", "1.00", 100, true)

	created := make(map[uuid.UUID]bool)
	for i := 0; i < 26; i++ {
		created[f.placeOrder(t, "user-1", item(p.ID, 1)).ID] = true
	}

	ctx := context.Background()
	seen := make(map[uuid.UUID]bool)
	var (
		after    string
		sizes    []int
		hasMores []bool
	)
	for {
		page, err := f.uc.GetOrdersPaginated(ctx, usecase.OrderFilter{}, usecase.Pagination{First: 10, After: after})
		require.NoError(t, err)
		assert.Equal(t, int64(26), page.TotalCount)

		for i, o := range page.Orders {
			assert.False(t, seen[o.ID], "order %s returned twice", o.ID)
			seen[o.ID] = true
			if i > 0 {
				assert.False(t, o.CreatedAt.After(page.Orders[i-1].CreatedAt))
			}
		}

		sizes = append(sizes, len(page.Orders))
		hasMores = append(hasMores, page.HasMore)
		if !page.HasMore {
			break
		}
		after = page.EndCursor
	}

	assert.Equal(t, []int{10, 10, 6}, sizes)
	assert.Equal(t, []bool{true, true, false}, hasMores)
	assert.Equal(t, created, seen)
}

func TestGetOrdersPaginated_PageSizeLimits(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t, "Coin", "1.00", 200, true)
	for i := 0; i < 105; i++ {
		f.placeOrder(t, "user-1", item(p.ID, 1))
	}

	ctx := context.Background()

	page, err := f.uc.GetOrdersPaginated(ctx, usecase.OrderFilter{}, usecase.Pagination{})
	require.NoError(t, err)
	assert.Len(t, page.Orders, 10)

	page, err = f.uc.GetOrdersPaginated(ctx, usecase.OrderFilter{}, usecase.Pagination{First: 500})
	require.NoError(t, err)
	assert.Len(t, page.Orders, 100)
	assert.True(t, page.HasMore)
}

func TestGetOrdersPaginated_InvalidCursor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.GetOrdersPaginated(ctx, usecase.OrderFilter{}, usecase.Pagination{After: "not a cursor"})
	require.ErrorIs(t, err, e.ErrInvalidCursor)

	_, err = f.uc.GetOrdersPaginated(ctx, usecase.OrderFilter{}, usecase.Pagination{After: cursor.Encode(uuid.New())})
	require.ErrorIs(t, err, e.ErrInvalidCursor)
}

func TestGetOrdersPaginated_TotalCountHonoursOnlyUserFilter(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t, "Note", "2.00", 50, true)
	ctx := context.Background()

	var aliceOrders []*domain.Order
	for i := 0; i < 3; i++ {
		aliceOrders = append(aliceOrders, f.placeOrder(t, "alice", item(p.ID, 1)))
	}
	for i := 0; i < 2; i++ {
		f.placeOrder(t, "bob", item(p.ID, 1))
	}
	_, err := f.uc.CancelOrder(ctx, aliceOrders[0].ID, "alice", domain.RoleCustomer)
	require.NoError(t, err)

	cancelled := domain.StatusCancelled
	page, err := f.uc.GetOrdersPaginated(ctx, usecase.OrderFilter{Status: &cancelled}, usecase.Pagination{First: 10})
	require.NoError(t, err)
	assert.Len(t, page.Orders, 1)
	assert.Equal(t, int64(5), page.TotalCount)

	alice := "alice"
	page, err = f.uc.GetOrdersPaginated(ctx, usecase.OrderFilter{UserID: &alice}, usecase.Pagination{First: 10})
	require.NoError(t, err)
	assert.Len(t, page.Orders, 3)
	assert.Equal(t, int64(3), page.TotalCount)
	for _, o := range page.Orders {
		assert.Equal(t, "alice", o.UserID)
	}

	page, err = f.uc.GetOrdersPaginated(ctx, usecase.OrderFilter{UserID: &alice, Status: &cancelled}, usecase.Pagination{First: 10})
	require.NoError(t, err)
	assert.Len(t, page.Orders, 1)
	assert.Equal(t, int64(3), page.TotalCount)
	assert.Equal(t, cursor.Encode(aliceOrders[0].ID), page.EndCursor)
}
