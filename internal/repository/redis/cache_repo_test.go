package redis

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DRSN-tech/shop-backend/internal/cfg"
	"github.com/DRSN-tech/shop-backend/internal/repository/redis/converter"
	"github.com/DRSN-tech/shop-backend/internal/usecase"
	"github.com/DRSN-tech/shop-backend/pkg/clients"
	"github.com/DRSN-tech/shop-backend/pkg/logger"
	"github.com/go-redis/redismock/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ttl = 3 * time.Minute

func newTestRepo(t *testing.T) (*CacheRepo, redismock.ClientMock) {
	t.Helper()

	db, mock := redismock.NewClientMock()
	repo := NewCacheRepo(
		&clients.RedisClient{Client: db},
		converter.ProductInfoConverter{},
		&cfg.RedisCfg{ProductTTL: ttl},
		logger.NewDiscardLogger(),
	)

	return repo, mock
}

func cached(t *testing.T, model converter.ProductInfoRedisModel) string {
	t.Helper()
	data, err := json.Marshal(model)
	require.NoError(t, err)
	return string(data)
}

func TestCacheRepo_GetProducts(t *testing.T) {
	repo, mock := newTestRepo(t)

	hit := converter.ProductInfoRedisModel{ID: 1, Name: "Lamp", CategoryName: "Home", Price: "19.90", Stock: 4, IsActive: true}
	wrongID := converter.ProductInfoRedisModel{ID: 99, Name: "Other", Price: "1.00"}

	mock.ExpectMGet("product:1", "product:2", "product:3").
		SetVal([]any{cached(t, hit), nil, cached(t, wrongID)})
	mock.ExpectDel("product:3").SetVal(1)

	res, err := repo.GetProducts(context.Background(), []int64{1, 2, 3})
	require.NoError(t, err)

	require.Len(t, res, 1)
	got := res[1]
	assert.Equal(t, "Lamp", got.Name)
	assert.True(t, got.Price.Equal(decimal.RequireFromString("19.90")))
	assert.Equal(t, 4, got.Stock)
	assert.True(t, got.IsActive)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCacheRepo_GetProducts_Error(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectMGet("product:1").SetErr(errors.New("connection refused"))

	_, err := repo.GetProducts(context.Background(), []int64{1})
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCacheRepo_SetProducts(t *testing.T) {
	repo, mock := newTestRepo(t)

	info := usecase.NewProductInfo(7, "Mug", "Kitchen", decimal.RequireFromString("5.5"), 12, true)
	data, err := json.Marshal(converter.ProductInfoRedisModel{
		ID: 7, Name: "Mug", CategoryName: "Kitchen", Price: "5.50", Stock: 12, IsActive: true,
	})
	require.NoError(t, err)

	mock.ExpectSet("product:7", data, ttl).SetVal("OK")

	require.NoError(t, repo.SetProducts(context.Background(), []usecase.ProductInfo{info}))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCacheRepo_DeleteProducts(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectDel("product:1", "product:2").SetVal(2)
	require.NoError(t, repo.DeleteProducts(context.Background(), []int64{1, 2}))

	mock.ExpectDel("product:3").SetErr(errors.New("readonly"))
	require.Error(t, repo.DeleteProducts(context.Background(), []int64{3}))

	require.NoError(t, repo.DeleteProducts(context.Background(), nil))
	require.NoError(t, mock.ExpectationsWereMet())
}
