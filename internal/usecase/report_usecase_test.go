package usecase_test

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/DRSN-tech/shop-backend/internal/usecase"
	"github.com/DRSN-tech/shop-backend/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReportRepo struct {
	key         string
	data        []byte
	contentType string
	err         error
}

func (r *fakeReportRepo) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	r.key, r.data, r.contentType = key, data, contentType
	return "reports/" + key, nil
}

func TestExportAnalytics(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t, "Mug", "10.50", 10, true)
	f.placeOrder(t, "user-1", item(p.ID, 2))

	repo := &fakeReportRepo{}
	uc := usecase.NewReportUC(f.uc, repo, logger.NewDiscardLogger())

	res, err := uc.ExportAnalytics(context.Background())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(repo.key, "analytics/orders-"))
	assert.Equal(t, "reports/"+repo.key, res.ObjectKey)
	assert.Equal(t, "application/json", repo.contentType)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(repo.data, &doc))
	assert.Equal(t, float64(1), doc["totalOrders"])
	assert.Equal(t, "21.00", doc["totalRevenue"])
	assert.Equal(t, "21.00", doc["averageOrderValue"])
	assert.Equal(t, map[string]any{"pending": float64(1)}, doc["ordersByStatus"])
}

func TestExportAnalytics_UploadFailure(t *testing.T) {
	f := newFixture(t)
	uc := usecase.NewReportUC(f.uc, &fakeReportRepo{err: errBoom}, logger.NewDiscardLogger())

	_, err := uc.ExportAnalytics(context.Background())
	require.ErrorIs(t, err, errBoom)
}
