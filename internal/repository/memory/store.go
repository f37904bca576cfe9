// Package memory: хранилище каталога, заказов и outbox в памяти процесса.
// Единицы работы выполняются строго по одной; при ошибке состояние откатывается к снимку.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/DRSN-tech/shop-backend/internal/domain"
	"github.com/DRSN-tech/shop-backend/internal/usecase"
	"github.com/DRSN-tech/shop-backend/pkg/e"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type unitKey struct{}

type Store struct {
	txMu sync.Mutex // сериализует единицы работы
	mu   sync.RWMutex

	products   map[int64]*domain.Product
	categories map[string]*domain.Category
	orders     map[uuid.UUID]*domain.Order
	outbox     []*usecase.OutboxEvent
	claimedAt  map[int64]time.Time // момент перевода события в processing

	productSeq  int64
	categorySeq int64
	outboxSeq   int64

	now func() time.Time
}

type Option func(*Store)

// WithClock подменяет источник времени для created_at/updated_at.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		products:   make(map[int64]*domain.Product),
		categories: make(map[string]*domain.Category),
		orders:     make(map[uuid.UUID]*domain.Order),
		claimedAt:  make(map[int64]time.Time),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Do выполняет fn как единицу работы. Вложенный вызов выполняется в текущей единице.
func (s *Store) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(unitKey{}) != nil {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	snap := s.snapshot()
	if err := fn(context.WithValue(ctx, unitKey{}, struct{}{})); err != nil {
		s.restore(snap)
		return err
	}

	return nil
}

type snapshot struct {
	products    map[int64]*domain.Product
	categories  map[string]*domain.Category
	orders      map[uuid.UUID]*domain.Order
	outbox      []*usecase.OutboxEvent
	productSeq  int64
	categorySeq int64
	outboxSeq   int64
}

func (s *Store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := snapshot{
		products:    make(map[int64]*domain.Product, len(s.products)),
		categories:  make(map[string]*domain.Category, len(s.categories)),
		orders:      make(map[uuid.UUID]*domain.Order, len(s.orders)),
		outbox:      make([]*usecase.OutboxEvent, len(s.outbox)),
		productSeq:  s.productSeq,
		categorySeq: s.categorySeq,
		outboxSeq:   s.outboxSeq,
	}
	for id, p := range s.products {
		snap.products[id] = copyProduct(p)
	}
	for name, c := range s.categories {
		cp := *c
		snap.categories[name] = &cp
	}
	for id, o := range s.orders {
		snap.orders[id] = copyOrder(o)
	}
	for i, ev := range s.outbox {
		cp := *ev
		snap.outbox[i] = &cp
	}

	return snap
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.products = snap.products
	s.categories = snap.categories
	s.orders = snap.orders
	s.outbox = snap.outbox
	s.productSeq = snap.productSeq
	s.categorySeq = snap.categorySeq
	s.outboxSeq = snap.outboxSeq
}

// PRODUCTS

func (s *Store) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, e.ErrProductNotFound
	}

	return copyProduct(p), nil
}

func (s *Store) AdjustStock(ctx context.Context, id int64, delta int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok || p.Stock+delta < 0 {
		return 0, e.ErrStockConflict
	}

	p.Stock += delta
	now := s.now()
	p.UpdatedAt = &now

	return p.Stock, nil
}

// Upsert создаёт товар по уникальному имени. Остаток записывается только при создании.
func (s *Store) Upsert(ctx context.Context, product *domain.Product) (*usecase.UpsertProductRes, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.products {
		if p.Name != product.Name {
			continue
		}

		if p.Price.Equal(product.Price) && p.CategoryID == product.CategoryID && p.IsActive == product.IsActive {
			return usecase.NewUpsertProductRes(copyProduct(p), true), nil
		}

		p.Price = product.Price
		p.CategoryID = product.CategoryID
		p.IsActive = product.IsActive
		now := s.now()
		p.UpdatedAt = &now

		return usecase.NewUpsertProductRes(copyProduct(p), false), nil
	}

	s.productSeq++
	created := copyProduct(product)
	created.ID = s.productSeq
	created.CreatedAt = s.now()
	created.UpdatedAt = nil
	s.products[created.ID] = created

	return usecase.NewUpsertProductRes(copyProduct(created), false), nil
}

func (s *Store) GetProductsInfo(ctx context.Context, ids []int64) ([]usecase.ProductInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	categoryNames := make(map[int64]string, len(s.categories))
	for _, c := range s.categories {
		categoryNames[c.ID] = c.Name
	}

	res := make([]usecase.ProductInfo, 0, len(ids))
	for _, id := range ids {
		p, ok := s.products[id]
		if !ok {
			continue
		}
		res = append(res, usecase.NewProductInfo(p.ID, p.Name, categoryNames[p.CategoryID], p.Price, p.Stock, p.IsActive))
	}

	return res, nil
}

// CATEGORIES

func (s *Store) Create(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(category.Name)
	if c, ok := s.categories[key]; ok {
		cp := *c
		return &cp, nil
	}

	s.categorySeq++
	created := *category
	created.ID = s.categorySeq
	created.CreatedAt = s.now()
	s.categories[key] = &created

	cp := created
	return &cp, nil
}

func copyProduct(p *domain.Product) *domain.Product {
	cp := *p
	return &cp
}

// Orders возвращает репозиторий заказов поверх того же хранилища.
func (s *Store) Orders() *OrderRepo {
	return &OrderRepo{s: s}
}

// Outbox возвращает репозиторий outbox поверх того же хранилища.
func (s *Store) Outbox() *OutboxRepo {
	return &OutboxRepo{s: s}
}

type OrderRepo struct {
	s *Store
}

func (r *OrderRepo) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	created := copyOrder(order)
	now := s.now()
	created.CreatedAt = now
	created.UpdatedAt = now
	s.orders[created.ID] = created

	return copyOrder(created), nil
}

func (r *OrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orders[id]
	if !ok {
		return nil, e.ErrOrderNotFound
	}

	return copyOrder(o), nil
}

func (r *OrderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.OrderStatus) (*domain.Order, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return nil, e.ErrOrderNotFound
	}
	if o.Status != from {
		return nil, e.ErrStatusConflict
	}

	o.Status = to
	o.UpdatedAt = s.now()

	return copyOrder(o), nil
}

func (r *OrderRepo) FindMany(ctx context.Context, filter usecase.OrderFilter, limit int, after *uuid.UUID) ([]*domain.Order, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	var anchor *domain.Order
	if after != nil {
		o, ok := s.orders[*after]
		if !ok {
			return nil, e.ErrInvalidCursor
		}
		anchor = o
	}

	matched := make([]*domain.Order, 0, len(s.orders))
	for _, o := range s.orders {
		if filter.Status != nil && o.Status != *filter.Status {
			continue
		}
		if filter.UserID != nil && o.UserID != *filter.UserID {
			continue
		}
		if anchor != nil && !newer(anchor, o) {
			continue
		}
		matched = append(matched, o)
	}

	sort.Slice(matched, func(i, j int) bool { return newer(matched[i], matched[j]) })

	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}

	res := make([]*domain.Order, 0, len(matched))
	for _, o := range matched {
		res = append(res, copyOrder(o))
	}

	return res, nil
}

func (r *OrderRepo) CountByUserID(ctx context.Context, userID *string) (int64, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, o := range s.orders {
		if userID == nil || o.UserID == *userID {
			n++
		}
	}

	return n, nil
}

func (r *OrderRepo) Aggregate(ctx context.Context) (*usecase.OrderTotals, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	res := &usecase.OrderTotals{
		ByStatus: make(map[domain.OrderStatus]int64),
		Revenue:  decimal.Zero,
	}
	for _, o := range s.orders {
		res.ByStatus[o.Status]++
		res.Revenue = res.Revenue.Add(o.TotalAmount)
	}

	return res, nil
}

// newer сообщает, идёт ли a раньше b при сортировке по (created_at, id) по убыванию.
func newer(a, b *domain.Order) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID.String() > b.ID.String()
}

func copyOrder(o *domain.Order) *domain.Order {
	cp := *o
	cp.Items = append([]domain.OrderItem(nil), o.Items...)
	return &cp
}

type OutboxRepo struct {
	s *Store
}

func (r *OutboxRepo) Create(ctx context.Context, event *usecase.OutboxEvent) (*usecase.OutboxEvent, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	s.outboxSeq++
	created := *event
	created.ID = s.outboxSeq
	s.outbox = append(s.outbox, &created)

	cp := created
	return &cp, nil
}

// Events возвращает копию записанных событий в порядке записи.
func (r *OutboxRepo) Events() []usecase.OutboxEvent {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	res := make([]usecase.OutboxEvent, 0, len(s.outbox))
	for _, ev := range s.outbox {
		res = append(res, *ev)
	}

	return res
}

func (r *OutboxRepo) GetAndMarkAsProcessing(ctx context.Context, limit int) ([]*usecase.OutboxEvent, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	var res []*usecase.OutboxEvent
	for _, ev := range s.outbox {
		if len(res) >= limit {
			break
		}
		if ev.Status != usecase.Pending {
			continue
		}
		ev.Status = usecase.Processing
		s.claimedAt[ev.ID] = s.now()
		cp := *ev
		res = append(res, &cp)
	}

	return res, nil
}

func (r *OutboxRepo) MarkAsProcessed(ctx context.Context, id int64) error {
	return r.setStatus(id, usecase.Processing, usecase.Processed)
}

func (r *OutboxRepo) ReleaseToPending(ctx context.Context, id int64) error {
	return r.setStatus(id, usecase.Processing, usecase.Pending)
}

func (r *OutboxRepo) setStatus(id int64, from, to usecase.OutboxStatus) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, ev := range s.outbox {
		if ev.ID != id || ev.Status != from {
			continue
		}
		ev.Status = to
		delete(s.claimedAt, id)
		if to == usecase.Processed {
			now := s.now()
			ev.ProcessedAt = &now
		}
	}

	return nil
}

func (r *OutboxRepo) ReclaimStale(ctx context.Context, olderThan time.Duration) (int64, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	deadline := s.now().Add(-olderThan)
	var n int64
	for _, ev := range s.outbox {
		claimed, ok := s.claimedAt[ev.ID]
		if ev.Status != usecase.Processing || !ok || claimed.After(deadline) {
			continue
		}
		ev.Status = usecase.Pending
		delete(s.claimedAt, ev.ID)
		n++
	}

	return n, nil
}
