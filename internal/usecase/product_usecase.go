package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/DRSN-tech/shop-backend/internal/domain"
	"github.com/DRSN-tech/shop-backend/pkg/e"
	"github.com/DRSN-tech/shop-backend/pkg/logger"
)

// ProductUseCase реализует бизнес-логику каталога: регистрацию товаров и чтение через кэш.
type ProductUseCase struct {
	productRepo  ProductRepository
	categoryRepo CategoryRepository
	uow          UnitOfWork
	logger       logger.Logger
	cacheRepo    CacheRepository
}

func NewProductUC(
	productRepo ProductRepository,
	categoryRepo CategoryRepository,
	uow UnitOfWork,
	logger logger.Logger,
	cacheRepo CacheRepository,
) *ProductUseCase {
	return &ProductUseCase{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		uow:          uow,
		logger:       logger,
		cacheRepo:    cacheRepo,
	}
}

// RegisterProduct идемпотентно создаёт категорию и товар.
// Повторная регистрация обновляет цену и активность, но не остаток.
func (p *ProductUseCase) RegisterProduct(ctx context.Context, req *RegisterProductReq) (*domain.Product, error) {
	const op = "ProductUseCase.RegisterProduct"

	if err := p.validateProduct(req); err != nil {
		return nil, e.Wrap(op, err)
	}

	categoryName := strings.TrimSpace(req.CategoryName)
	if categoryName == "" {
		categoryName = strings.TrimSpace(req.Name)
	}

	var res *UpsertProductRes
	err := p.uow.Do(ctx, func(ctx context.Context) error {
		category, err := p.createCategory(ctx, categoryName)
		if err != nil {
			return err
		}

		product := domain.NewProduct(strings.TrimSpace(req.Name), req.Price, req.Stock, category.ID)
		product.IsActive = req.IsActive

		res, err = p.productRepo.Upsert(ctx, product)
		return err
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	// Удаление из кэша старых данных товара
	if !res.NoChanges {
		if err := p.cacheRepo.DeleteProducts(ctx, []int64{res.Product.ID}); err != nil {
			p.logger.Warnf("Failed to delete products: %v", e.Wrap(op, err))
		}
	}

	return res.Product, nil
}

// GetProductsInfo возвращает информацию о продуктах по их идентификаторам.
func (p *ProductUseCase) GetProductsInfo(ctx context.Context, req *GetProductsReq) (*GetProductsRes, error) {
	const op = "ProductUseCase.GetProductsInfo"

	if req == nil || len(req.IDs) == 0 {
		return nil, e.Wrap(op, e.ErrNoProducts)
	}

	// Поиск продуктов в кэше; недоступный кэш означает чтение всего из БД
	cached, err := p.cacheRepo.GetProducts(ctx, req.IDs)
	if err != nil {
		p.logger.Warnf("Product cache unavailable: %v", e.Wrap(op, err))
		cached = nil
	}

	var misses []int64
	for _, id := range req.IDs {
		if _, ok := cached[id]; !ok {
			misses = append(misses, id)
		}
	}

	var fromDB []ProductInfo
	if len(misses) > 0 {
		fromDB, err = p.productRepo.GetProductsInfo(ctx, misses)
		if err != nil {
			return nil, e.Wrap(op, err)
		}

		if len(fromDB) > 0 {
			// Фоновое добавление продуктов в кэш
			go func(products []ProductInfo) {
				bgCtx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
				defer cancel()

				if err := p.cacheRepo.SetProducts(bgCtx, products); err != nil {
					p.logger.Warnf("Failed to cache products in background: %v", e.Wrap(op, err))
				}
			}(fromDB)
		}
	}

	dbProducts := make(map[int64]ProductInfo, len(fromDB))
	for _, info := range fromDB {
		dbProducts[info.ID] = info
	}

	result := make([]ProductInfo, 0, len(req.IDs))
	notFound := make([]int64, 0)
	for _, id := range req.IDs {
		if pr, ok := cached[id]; ok {
			result = append(result, pr)
		} else if pr, ok := dbProducts[id]; ok {
			result = append(result, pr)
		} else {
			notFound = append(notFound, id)
		}
	}

	return NewGetProductsRes(result, notFound), nil
}

// createCategory идемпотентно создаёт категорию.
func (p *ProductUseCase) createCategory(ctx context.Context, name string) (*domain.Category, error) {
	return p.categoryRepo.Create(ctx, domain.NewCategory(name))
}

func (p *ProductUseCase) validateProduct(req *RegisterProductReq) error {
	if req == nil {
		return e.ErrMissingFields
	}

	if strings.TrimSpace(req.Name) == "" {
		return e.ErrProductNameRequired
	}

	if req.Price.IsNegative() {
		return e.ErrInvalidPrice
	}

	if !req.Price.Equal(req.Price.Round(2)) {
		return e.ErrPricePrecision
	}

	if req.Stock < 0 {
		return e.ErrInvalidStock
	}

	return nil
}
