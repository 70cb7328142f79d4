package repository

import (
	"context"
	"errors"

	"gestaomv/internal/model"

	"gorm.io/gorm"
)

// MaterialFilter narrows the catalog listing
type MaterialFilter struct {
	Active *bool
	Search string
	TypeID uint
	Page   int
	Limit  int
}

type MaterialRepository interface {
	Create(ctx context.Context, material *model.Material) error
	Update(ctx context.Context, material *model.Material) error
	FindByID(ctx context.Context, id uint) (*model.Material, error)
	FindActiveByIDs(ctx context.Context, ids []uint) ([]model.Material, error)
	List(ctx context.Context, filter MaterialFilter) ([]model.Material, int64, error)
	ListTypes(ctx context.Context) ([]model.MaterialType, error)
	ListUnitsOfMeasure(ctx context.Context) ([]model.UnitOfMeasure, error)
}

type materialRepository struct {
	db *gorm.DB
}

func NewMaterialRepository(db *gorm.DB) MaterialRepository {
	return &materialRepository{db: db}
}

func (r *materialRepository) Create(ctx context.Context, material *model.Material) error {
	return GetDB(ctx, r.db).Create(material).Error
}

func (r *materialRepository) Update(ctx context.Context, material *model.Material) error {
	return GetDB(ctx, r.db).Save(material).Error
}

func (r *materialRepository) FindByID(ctx context.Context, id uint) (*model.Material, error) {
	var material model.Material
	err := GetDB(ctx, r.db).
		Preload("Type").
		Preload("UnitOfMeasure").
		First(&material, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &material, nil
}

func (r *materialRepository) FindActiveByIDs(ctx context.Context, ids []uint) ([]model.Material, error) {
	var materials []model.Material
	err := GetDB(ctx, r.db).
		Where("id IN ? AND active = ?", ids, true).
		Find(&materials).Error
	return materials, err
}

func (r *materialRepository) List(ctx context.Context, filter MaterialFilter) ([]model.Material, int64, error) {
	var materials []model.Material
	var total int64

	db := GetDB(ctx, r.db).Model(&model.Material{})
	if filter.Active != nil {
		db = db.Where("active = ?", *filter.Active)
	}
	if filter.Search != "" {
		db = db.Where("name ILIKE ?", "%"+filter.Search+"%")
	}
	if filter.TypeID != 0 {
		db = db.Where("type_id = ?", filter.TypeID)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := db.
		Preload("Type").
		Preload("UnitOfMeasure").
		Order("name ASC").
		Offset(offset).
		Limit(filter.Limit).
		Find(&materials).Error
	if err != nil {
		return nil, 0, err
	}

	return materials, total, nil
}

func (r *materialRepository) ListTypes(ctx context.Context) ([]model.MaterialType, error) {
	var types []model.MaterialType
	err := GetDB(ctx, r.db).Order("name ASC").Find(&types).Error
	return types, err
}

func (r *materialRepository) ListUnitsOfMeasure(ctx context.Context) ([]model.UnitOfMeasure, error) {
	var units []model.UnitOfMeasure
	err := GetDB(ctx, r.db).Order("name ASC").Find(&units).Error
	return units, err
}
