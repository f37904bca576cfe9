package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/DRSN-tech/shop-backend/internal/domain"
	"github.com/DRSN-tech/shop-backend/pkg/cursor"
	"github.com/DRSN-tech/shop-backend/pkg/e"
	"github.com/DRSN-tech/shop-backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderUseCase управляет жизненным циклом заказа и согласованностью остатков.
type OrderUseCase struct {
	orderRepo   OrderRepository
	productRepo ProductRepository
	outboxRepo  OutboxRepository
	cacheRepo   CacheRepository
	uow         UnitOfWork
	validator   *StockValidator
	encoder     EventEncoder
	metrics     OrderMetrics
	logger      logger.Logger
	limits      PageLimits
	now         func() time.Time
}

func NewOrderUC(
	orderRepo OrderRepository,
	productRepo ProductRepository,
	outboxRepo OutboxRepository,
	cacheRepo CacheRepository,
	uow UnitOfWork,
	encoder EventEncoder,
	metrics OrderMetrics,
	logger logger.Logger,
	limits PageLimits,
) *OrderUseCase {
	return &OrderUseCase{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		outboxRepo:  outboxRepo,
		cacheRepo:   cacheRepo,
		uow:         uow,
		validator:   NewStockValidator(productRepo),
		encoder:     encoder,
		metrics:     metrics,
		logger:      logger,
		limits:      limits,
		now:         time.Now,
	}
}

// CreateOrder проверяет остатки, сохраняет заказ и списывает товар одной единицей работы.
// При любой ошибке не остаётся ни заказа, ни изменения остатков.
func (o *OrderUseCase) CreateOrder(ctx context.Context, userID string, req *CreateOrderReq) (*domain.Order, error) {
	const op = "OrderUseCase.CreateOrder"

	// Валидация до любого обращения к хранилищу
	if err := validateCreateOrder(req); err != nil {
		return nil, e.Wrap(op, err)
	}

	var created *domain.Order
	err := o.uow.Do(ctx, func(ctx context.Context) error {
		validated, err := o.validator.Validate(ctx, req.Items)
		if err != nil {
			return err
		}

		// Снимок цены на момент оформления
		items := make([]domain.OrderItem, 0, len(validated))
		for _, v := range validated {
			items = append(items, domain.OrderItem{
				ProductID:   v.Product.ID,
				ProductName: v.Product.Name,
				Quantity:    v.RequestedQuantity,
				Price:       v.Product.Price,
			})
		}

		order := domain.NewOrder(uuid.New(), userID, items, req.ShippingAddress, req.Notes)
		created, err = o.orderRepo.Create(ctx, order)
		if err != nil {
			return err
		}

		for _, v := range validated {
			if err := o.adjustStock(ctx, v.Product, -v.RequestedQuantity); err != nil {
				return err
			}
		}

		return o.writeEvent(ctx, EventOrderCreated, created, "", userID)
	})
	if err != nil {
		if errors.Is(err, e.ErrInsufficientStock) {
			o.metrics.StockRejected()
		}
		return nil, e.Wrap(op, err)
	}

	o.metrics.OrderCreated(created.TotalAmount)
	o.invalidateProducts(ctx, created.Items)

	return created, nil
}

// CancelOrder отменяет заказ и возвращает товар на склад.
// Администратор может отменить любой заказ, покупатель только свой.
func (o *OrderUseCase) CancelOrder(ctx context.Context, orderID uuid.UUID, actorID string, role domain.Role) (*domain.Order, error) {
	const op = "OrderUseCase.CancelOrder"

	var cancelled *domain.Order
	err := o.uow.Do(ctx, func(ctx context.Context) error {
		order, err := o.loadOrder(ctx, orderID)
		if err != nil {
			return err
		}

		if !order.CanBeAccessedBy(actorID, role) {
			return &domain.UnauthorizedError{OrderID: orderID, ActorID: actorID}
		}

		cancelled, err = o.cancel(ctx, order, actorID)
		return err
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	o.metrics.OrderCancelled()
	o.invalidateProducts(ctx, cancelled.Items)

	return cancelled, nil
}

// UpdateOrderStatus: административная смена статуса по таблице переходов.
// Переход в cancelled идёт тем же путём, что и CancelOrder, с возвратом остатков.
func (o *OrderUseCase) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, newStatus domain.OrderStatus, adminID string) (*domain.Order, error) {
	const op = "OrderUseCase.UpdateOrderStatus"

	var (
		updated  *domain.Order
		previous domain.OrderStatus
	)
	err := o.uow.Do(ctx, func(ctx context.Context) error {
		order, err := o.loadOrder(ctx, orderID)
		if err != nil {
			return err
		}
		previous = order.Status

		if newStatus == domain.StatusCancelled {
			updated, err = o.cancel(ctx, order, adminID)
			return err
		}

		updated, err = o.transition(ctx, order, newStatus)
		if err != nil {
			return err
		}

		return o.writeEvent(ctx, EventOrderStatusChanged, updated, previous, adminID)
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	o.metrics.StatusChanged(previous, updated.Status)
	if updated.Status == domain.StatusCancelled {
		o.metrics.OrderCancelled()
		o.invalidateProducts(ctx, updated.Items)
	}

	return updated, nil
}

// GetOrder возвращает заказ владельцу или администратору.
func (o *OrderUseCase) GetOrder(ctx context.Context, orderID uuid.UUID, actorID string, role domain.Role) (*domain.Order, error) {
	const op = "OrderUseCase.GetOrder"

	order, err := o.loadOrder(ctx, orderID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if !order.CanBeAccessedBy(actorID, role) {
		return nil, e.Wrap(op, &domain.UnauthorizedError{OrderID: orderID, ActorID: actorID})
	}

	return order, nil
}

// GetOrderAnalytics считает агрегаты по всем заказам. Выручка считается как исторический итог:
// отменённые заказы из неё не вычитаются.
func (o *OrderUseCase) GetOrderAnalytics(ctx context.Context) (*OrderAnalytics, error) {
	const op = "OrderUseCase.GetOrderAnalytics"

	totals, err := o.orderRepo.Aggregate(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	byStatus, revenue := totals.ByStatus, totals.Revenue

	var total int64
	for _, count := range byStatus {
		total += count
	}

	average := decimal.Zero
	if total > 0 {
		average = revenue.Div(decimal.NewFromInt(total)).Round(2)
	}

	return &OrderAnalytics{
		TotalOrders:       total,
		TotalRevenue:      revenue,
		AverageOrderValue: average,
		OrdersByStatus:    byStatus,
	}, nil
}

// GetOrdersPaginated отдаёт страницу заказов по убыванию даты создания.
// Запрашивается на одну строку больше, чтобы узнать HasMore без отдельного запроса.
func (o *OrderUseCase) GetOrdersPaginated(ctx context.Context, filter OrderFilter, page Pagination) (*OrdersPage, error) {
	const op = "OrderUseCase.GetOrdersPaginated"

	first := o.pageSize(page.First)

	var after *uuid.UUID
	if page.After != "" {
		id, err := cursor.Decode(page.After)
		if err != nil {
			return nil, e.Wrap(op, err)
		}
		after = &id
	}

	orders, err := o.orderRepo.FindMany(ctx, filter, first+1, after)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	hasMore := len(orders) > first
	if hasMore {
		orders = orders[:first]
	}

	// Общее количество учитывает только фильтр по пользователю
	total, err := o.orderRepo.CountByUserID(ctx, filter.UserID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	var endCursor string
	if len(orders) > 0 {
		endCursor = cursor.Encode(orders[len(orders)-1].ID)
	}

	return &OrdersPage{
		Orders:     orders,
		HasMore:    hasMore,
		TotalCount: total,
		EndCursor:  endCursor,
	}, nil
}

// cancel переводит заказ в cancelled и возвращает остатки. Вызывается внутри единицы работы.
func (o *OrderUseCase) cancel(ctx context.Context, order *domain.Order, actorID string) (*domain.Order, error) {
	previous := order.Status

	cancelled, err := o.transition(ctx, order, domain.StatusCancelled)
	if err != nil {
		return nil, err
	}

	for _, item := range order.Items {
		if _, err := o.productRepo.AdjustStock(ctx, item.ProductID, item.Quantity); err != nil {
			return nil, e.Wrap("restore stock", err)
		}
	}

	if err := o.writeEvent(ctx, EventOrderCancelled, cancelled, previous, actorID); err != nil {
		return nil, err
	}

	return cancelled, nil
}

// transition проверяет переход по таблице и пишет статус условным обновлением.
func (o *OrderUseCase) transition(ctx context.Context, order *domain.Order, next domain.OrderStatus) (*domain.Order, error) {
	if !domain.IsValidTransition(order.Status, next) {
		return nil, &domain.InvalidStatusTransitionError{From: order.Status, To: next}
	}

	updated, err := o.orderRepo.UpdateStatus(ctx, order.ID, order.Status, next)
	if err == nil {
		return updated, nil
	}
	if !errors.Is(err, e.ErrStatusConflict) {
		return nil, err
	}

	// Статус успели поменять параллельно
	current, ferr := o.loadOrder(ctx, order.ID)
	if ferr != nil {
		return nil, ferr
	}
	if domain.IsValidTransition(current.Status, next) {
		return nil, errors.Join(e.ErrTransient, err)
	}

	return nil, &domain.InvalidStatusTransitionError{From: current.Status, To: next}
}

// adjustStock списывает/возвращает остаток. Отказ условного обновления
// превращается в InsufficientStock с актуальным остатком.
func (o *OrderUseCase) adjustStock(ctx context.Context, product *domain.Product, delta int) error {
	_, err := o.productRepo.AdjustStock(ctx, product.ID, delta)
	if err == nil {
		return nil
	}
	if !errors.Is(err, e.ErrStockConflict) {
		return err
	}

	available := 0
	if current, ferr := o.productRepo.FindByID(ctx, product.ID); ferr == nil {
		available = current.Stock
	}

	return &domain.InsufficientStockError{
		ProductID: product.ID,
		Name:      product.Name,
		Available: available,
		Requested: -delta,
	}
}

func (o *OrderUseCase) loadOrder(ctx context.Context, orderID uuid.UUID) (*domain.Order, error) {
	order, err := o.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, e.ErrOrderNotFound) {
			return nil, &domain.OrderNotFoundError{OrderID: orderID}
		}
		return nil, err
	}

	return order, nil
}

// writeEvent кладёт событие в outbox в текущей единице работы.
func (o *OrderUseCase) writeEvent(ctx context.Context, eventType OutboxEventType, order *domain.Order, previous domain.OrderStatus, actorID string) error {
	event := NewOrderEvent(eventType, order, previous, actorID, o.now().UTC())

	payload, err := o.encoder.EncodeOrderEvent(event)
	if err != nil {
		return e.Wrap("encode order event", err)
	}

	if _, err := o.outboxRepo.Create(ctx, NewOutboxEvent(event, payload)); err != nil {
		return e.Wrap("write outbox event", err)
	}

	return nil
}

// invalidateProducts удаляет из кэша товары с изменившимся остатком. Ошибки только логируются.
func (o *OrderUseCase) invalidateProducts(ctx context.Context, items []domain.OrderItem) {
	ids := make([]int64, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}

	if err := o.cacheRepo.DeleteProducts(ctx, ids); err != nil {
		o.logger.Warnf("Failed to invalidate cached products %v: %v", ids, err)
	}
}

func (o *OrderUseCase) pageSize(first int) int {
	if first <= 0 {
		return o.limits.Default
	}
	if first > o.limits.Max {
		return o.limits.Max
	}

	return first
}

func validateCreateOrder(req *CreateOrderReq) error {
	if req == nil || len(req.Items) == 0 {
		return e.ErrEmptyOrder
	}

	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return &domain.InvalidQuantityError{ProductID: item.ProductID, Quantity: item.Quantity}
		}
	}

	return nil
}
