package repository

import (
	"context"
	"errors"
	"time"

	"gestaomv/internal/model"

	"gorm.io/gorm"
)

// RequestFilter narrows and orders the request listing
type RequestFilter struct {
	Status      string
	UnitID      uint
	RequesterID uint
	From        *time.Time
	To          *time.Time
	Page        int
	Limit       int
	SortBy      string // operation_date, status, unit_id (default operation_date)
	SortDesc    bool
}

// sortColumns whitelists sortable columns; anything else falls back to operation_date
var sortColumns = map[string]string{
	"operation_date": "operation_date",
	"status":         "status",
	"unit_id":        "unit_id",
	"created_at":     "created_at",
}

type RequestRepository interface {
	Create(ctx context.Context, req *model.MaterialRequest) error
	FindByID(ctx context.Context, id uint) (*model.MaterialRequest, error)
	List(ctx context.Context, filter RequestFilter) ([]model.MaterialRequest, int64, error)
	// TransitionStatus performs the atomic conditional update guarding the
	// state machine: the row is only touched when it still holds the expected
	// status, and the affected-row count reports whether this caller won.
	TransitionStatus(ctx context.Context, id uint, from, to string, updates map[string]interface{}) (bool, error)
	SetItemFulfilledQty(ctx context.Context, itemID uint, qty int) error
}

type requestRepository struct {
	db *gorm.DB
}

func NewRequestRepository(db *gorm.DB) RequestRepository {
	return &requestRepository{db: db}
}

func (r *requestRepository) Create(ctx context.Context, req *model.MaterialRequest) error {
	return GetDB(ctx, r.db).Create(req).Error
}

func (r *requestRepository) FindByID(ctx context.Context, id uint) (*model.MaterialRequest, error) {
	var req model.MaterialRequest
	err := GetDB(ctx, r.db).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("request_items.id ASC") }).
		Preload("Items.Material").
		Preload("Unit").
		Preload("Requester").
		First(&req, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &req, nil
}

func (r *requestRepository) List(ctx context.Context, filter RequestFilter) ([]model.MaterialRequest, int64, error) {
	var requests []model.MaterialRequest
	var total int64

	db := GetDB(ctx, r.db)
	apply := func(q *gorm.DB) *gorm.DB {
		if filter.Status != "" {
			q = q.Where("status = ?", filter.Status)
		}
		if filter.UnitID != 0 {
			q = q.Where("unit_id = ?", filter.UnitID)
		}
		if filter.RequesterID != 0 {
			q = q.Where("requester_id = ?", filter.RequesterID)
		}
		if filter.From != nil {
			q = q.Where("operation_date >= ?", *filter.From)
		}
		if filter.To != nil {
			q = q.Where("operation_date <= ?", *filter.To)
		}
		return q
	}

	if err := apply(db.Model(&model.MaterialRequest{})).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	column, ok := sortColumns[filter.SortBy]
	if !ok {
		column = "operation_date"
	}
	direction := "ASC"
	if filter.SortDesc {
		direction = "DESC"
	}

	offset := (filter.Page - 1) * filter.Limit
	err := apply(db.
		Preload("Items").
		Preload("Items.Material").
		Preload("Unit").
		Preload("Requester")).
		Order(column + " " + direction).
		Offset(offset).
		Limit(filter.Limit).
		Find(&requests).Error
	if err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}

func (r *requestRepository) TransitionStatus(ctx context.Context, id uint, from, to string, updates map[string]interface{}) (bool, error) {
	if updates == nil {
		updates = map[string]interface{}{}
	}
	updates["status"] = to

	res := GetDB(ctx, r.db).
		Model(&model.MaterialRequest{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *requestRepository) SetItemFulfilledQty(ctx context.Context, itemID uint, qty int) error {
	return GetDB(ctx, r.db).
		Model(&model.RequestItem{}).
		Where("id = ?", itemID).
		Update("fulfilled_qty", qty).Error
}
