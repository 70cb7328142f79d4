package service

import (
	"context"
	"time"

	"gestaomv/internal/model"

	"gorm.io/gorm"
)

type StatsService interface {
	GetRequestStatistics(ctx context.Context, startDate, endDate time.Time) (model.RequestStatistics, error)
}

type statsService struct {
	db *gorm.DB
}

func NewStatsService(db *gorm.DB) StatsService {
	return &statsService{db: db}
}

// GetRequestStatistics aggregates the request workload inside a time bracket:
// counts per status, total monetary value of non-rejected requests and the
// most requested materials.
func (s *statsService) GetRequestStatistics(ctx context.Context, startDate, endDate time.Time) (model.RequestStatistics, error) {
	stats := model.RequestStatistics{
		TimeRangeStartDate: startDate,
		TimeRangeEndDate:   endDate,
		CountsByStatus: map[string]int64{
			model.RequestStatusPending:   0,
			model.RequestStatusApproved:  0,
			model.RequestStatusRejected:  0,
			model.RequestStatusFulfilled: 0,
		},
	}

	var counts []struct {
		Status string
		Count  int64
	}
	err := s.db.WithContext(ctx).
		Model(&model.MaterialRequest{}).
		Select("status, COUNT(*) as count").
		Where("operation_date >= ? AND operation_date <= ?", startDate, endDate).
		Group("status").
		Scan(&counts).Error
	if err != nil {
		return stats, err
	}
	for _, c := range counts {
		stats.CountsByStatus[c.Status] = c.Count
	}

	var totalValue struct {
		Value string
	}
	err = s.db.WithContext(ctx).
		Table("request_items").
		Select("COALESCE(SUM(request_items.requested_qty * materials.unit_price), 0)::text as value").
		Joins("JOIN materials ON materials.id = request_items.material_id").
		Joins("JOIN material_requests ON material_requests.id = request_items.request_id").
		Where("material_requests.status <> ? AND material_requests.operation_date >= ? AND material_requests.operation_date <= ?",
			model.RequestStatusRejected, startDate, endDate).
		Scan(&totalValue).Error
	if err != nil {
		return stats, err
	}
	stats.TotalRequestedValue = totalValue.Value

	var top []struct {
		MaterialID   uint
		MaterialName string
		TotalQty     int64
		TotalValue   string
	}
	err = s.db.WithContext(ctx).
		Table("request_items").
		Select("materials.id as material_id, materials.name as material_name, SUM(request_items.requested_qty) as total_qty, SUM(request_items.requested_qty * materials.unit_price)::text as total_value").
		Joins("JOIN materials ON materials.id = request_items.material_id").
		Joins("JOIN material_requests ON material_requests.id = request_items.request_id").
		Where("material_requests.status <> ? AND material_requests.operation_date >= ? AND material_requests.operation_date <= ?",
			model.RequestStatusRejected, startDate, endDate).
		Group("materials.id, materials.name").
		Order("total_qty DESC").
		Limit(5).
		Scan(&top).Error
	if err != nil {
		return stats, err
	}
	for _, t := range top {
		stats.TopRequestedMaterials = append(stats.TopRequestedMaterials, model.MaterialRanking{
			MaterialID:   t.MaterialID,
			MaterialName: t.MaterialName,
			TotalQty:     t.TotalQty,
			TotalValue:   t.TotalValue,
		})
	}

	return stats, nil
}
