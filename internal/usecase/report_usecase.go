package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/DRSN-tech/shop-backend/pkg/e"
	"github.com/DRSN-tech/shop-backend/pkg/logger"
)

const reportContentType = "application/json"

// ReportUseCase выгружает снимок аналитики заказов в объектное хранилище.
type ReportUseCase struct {
	orders     OrderUC
	reportRepo ReportRepository
	logger     logger.Logger
	now        func() time.Time
}

func NewReportUC(orders OrderUC, reportRepo ReportRepository, logger logger.Logger) *ReportUseCase {
	return &ReportUseCase{
		orders:     orders,
		reportRepo: reportRepo,
		logger:     logger,
		now:        time.Now,
	}
}

type analyticsReport struct {
	GeneratedAt       time.Time        `json:"generatedAt"`
	TotalOrders       int64            `json:"totalOrders"`
	TotalRevenue      string           `json:"totalRevenue"`
	AverageOrderValue string           `json:"averageOrderValue"`
	OrdersByStatus    map[string]int64 `json:"ordersByStatus"`
}

// ExportAnalytics считает аналитику и сохраняет её JSON-документом.
func (r *ReportUseCase) ExportAnalytics(ctx context.Context) (*ExportReportRes, error) {
	const op = "ReportUseCase.ExportAnalytics"

	analytics, err := r.orders.GetOrderAnalytics(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	generatedAt := r.now().UTC()
	report := analyticsReport{
		GeneratedAt:       generatedAt,
		TotalOrders:       analytics.TotalOrders,
		TotalRevenue:      analytics.TotalRevenue.StringFixed(2),
		AverageOrderValue: analytics.AverageOrderValue.StringFixed(2),
		OrdersByStatus:    make(map[string]int64, len(analytics.OrdersByStatus)),
	}
	for status, count := range analytics.OrdersByStatus {
		report.OrdersByStatus[string(status)] = count
	}

	data, err := json.Marshal(report)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	key := fmt.Sprintf("analytics/orders-%s.json", generatedAt.Format("20060102T150405Z"))
	objectKey, err := r.reportRepo.Upload(ctx, key, data, reportContentType)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	r.logger.Infof("Analytics report exported: %s", objectKey)

	return &ExportReportRes{ObjectKey: objectKey}, nil
}
