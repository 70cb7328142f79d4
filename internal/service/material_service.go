package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gestaomv/internal/cache"
	"gestaomv/internal/model"
	"gestaomv/internal/repository"
	"gestaomv/pkg/apperror"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// --- DTOs ---

type CreateMaterialDTO struct {
	Name            string          `json:"name" binding:"required"`
	Description     string          `json:"description"`
	TypeID          uint            `json:"type_id" binding:"required"`
	UnitOfMeasureID uint            `json:"unit_of_measure_id" binding:"required"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
}

type UpdateMaterialDTO struct {
	Name            string           `json:"name"`
	Description     *string          `json:"description"`
	TypeID          uint             `json:"type_id"`
	UnitOfMeasureID uint             `json:"unit_of_measure_id"`
	UnitPrice       *decimal.Decimal `json:"unit_price"`
}

type ListMaterialsDTO struct {
	Active *bool
	Search string
	TypeID uint
	Page   int
	Limit  int
}

// PhotoStore is the object-storage collaborator holding material photos
type PhotoStore interface {
	Put(ctx context.Context, fileName string, reader io.Reader, size int64, contentType string) (string, error)
	URL(ctx context.Context, key string) (string, error)
}

// --- Interface ---

type MaterialService interface {
	Create(ctx context.Context, actor Actor, req CreateMaterialDTO) (*model.Material, error)
	Update(ctx context.Context, actor Actor, id uint, req UpdateMaterialDTO) (*model.Material, error)
	Deactivate(ctx context.Context, actor Actor, id uint) (*model.Material, error)
	Get(ctx context.Context, id uint) (*model.Material, error)
	List(ctx context.Context, filter ListMaterialsDTO) ([]model.Material, int64, error)
	ListTypes(ctx context.Context) ([]model.MaterialType, error)
	ListUnitsOfMeasure(ctx context.Context) ([]model.UnitOfMeasure, error)
	AttachPhoto(ctx context.Context, actor Actor, id uint, fileName string, reader io.Reader, size int64, contentType string) (*model.Material, error)
	PhotoURL(ctx context.Context, id uint) (string, error)
}

type materialService struct {
	materials repository.MaterialRepository
	audit     repository.AuditRepository
	photos    PhotoStore
	refs      *cache.ReferenceCache
	log       *zap.Logger
}

func NewMaterialService(
	materials repository.MaterialRepository,
	audit repository.AuditRepository,
	photos PhotoStore,
	refs *cache.ReferenceCache,
	log *zap.Logger,
) MaterialService {
	return &materialService{
		materials: materials,
		audit:     audit,
		photos:    photos,
		refs:      refs,
		log:       log,
	}
}

// --- Implementation ---

func (s *materialService) Create(ctx context.Context, actor Actor, req CreateMaterialDTO) (*model.Material, error) {
	if !model.HasAnyRole(actor.Roles, model.ReviewerRoles()...) {
		return nil, apperror.Authorization("missing required role to manage the catalog")
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, apperror.Validation("material name is required")
	}
	if req.UnitPrice.IsNegative() {
		return nil, apperror.Validation("unit price must not be negative")
	}

	material := &model.Material{
		Name:            strings.TrimSpace(req.Name),
		Description:     req.Description,
		TypeID:          req.TypeID,
		UnitOfMeasureID: req.UnitOfMeasureID,
		UnitPrice:       req.UnitPrice,
		Active:          true,
	}
	if err := s.materials.Create(ctx, material); err != nil {
		return nil, fmt.Errorf("create material: %w", err)
	}

	s.auditMaterial(ctx, actor.ID, model.ActionCreateMaterial, material)
	return s.materials.FindByID(ctx, material.ID)
}

func (s *materialService) Update(ctx context.Context, actor Actor, id uint, req UpdateMaterialDTO) (*model.Material, error) {
	if !model.HasAnyRole(actor.Roles, model.ReviewerRoles()...) {
		return nil, apperror.Authorization("missing required role to manage the catalog")
	}

	material, err := s.materials.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load material: %w", err)
	}
	if material == nil {
		return nil, apperror.NotFound("material", id)
	}

	if req.Name != "" {
		material.Name = strings.TrimSpace(req.Name)
		if material.Name == "" {
			return nil, apperror.Validation("material name is required")
		}
	}
	if req.Description != nil {
		material.Description = *req.Description
	}
	if req.TypeID != 0 {
		material.TypeID = req.TypeID
	}
	if req.UnitOfMeasureID != 0 {
		material.UnitOfMeasureID = req.UnitOfMeasureID
	}
	if req.UnitPrice != nil {
		if req.UnitPrice.IsNegative() {
			return nil, apperror.Validation("unit price must not be negative")
		}
		material.UnitPrice = *req.UnitPrice
	}

	if err := s.materials.Update(ctx, material); err != nil {
		return nil, fmt.Errorf("update material: %w", err)
	}

	s.auditMaterial(ctx, actor.ID, model.ActionUpdateMaterial, material)
	return s.materials.FindByID(ctx, id)
}

func (s *materialService) Deactivate(ctx context.Context, actor Actor, id uint) (*model.Material, error) {
	if !model.HasAnyRole(actor.Roles, model.ReviewerRoles()...) {
		return nil, apperror.Authorization("missing required role to manage the catalog")
	}

	material, err := s.materials.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load material: %w", err)
	}
	if material == nil {
		return nil, apperror.NotFound("material", id)
	}

	material.Active = false
	if err := s.materials.Update(ctx, material); err != nil {
		return nil, fmt.Errorf("deactivate material: %w", err)
	}

	s.auditMaterial(ctx, actor.ID, model.ActionDeactivateMaterial, material)
	return material, nil
}

func (s *materialService) Get(ctx context.Context, id uint) (*model.Material, error) {
	material, err := s.materials.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load material: %w", err)
	}
	if material == nil {
		return nil, apperror.NotFound("material", id)
	}
	return material, nil
}

func (s *materialService) List(ctx context.Context, filter ListMaterialsDTO) ([]model.Material, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	return s.materials.List(ctx, repository.MaterialFilter{
		Active: filter.Active,
		Search: filter.Search,
		TypeID: filter.TypeID,
		Page:   filter.Page,
		Limit:  filter.Limit,
	})
}

func (s *materialService) ListTypes(ctx context.Context) ([]model.MaterialType, error) {
	var types []model.MaterialType
	if hit, err := s.refs.GetJSON(ctx, cache.KeyMaterialTypes, &types); err != nil {
		s.log.Warn("reference cache read", zap.Error(err))
	} else if hit {
		return types, nil
	}

	types, err := s.materials.ListTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list material types: %w", err)
	}

	if err := s.refs.SetJSON(ctx, cache.KeyMaterialTypes, types); err != nil {
		s.log.Warn("reference cache write", zap.Error(err))
	}
	return types, nil
}

func (s *materialService) ListUnitsOfMeasure(ctx context.Context) ([]model.UnitOfMeasure, error) {
	var units []model.UnitOfMeasure
	if hit, err := s.refs.GetJSON(ctx, cache.KeyUnitsOfMeasure, &units); err != nil {
		s.log.Warn("reference cache read", zap.Error(err))
	} else if hit {
		return units, nil
	}

	units, err := s.materials.ListUnitsOfMeasure(ctx)
	if err != nil {
		return nil, fmt.Errorf("list units of measure: %w", err)
	}

	if err := s.refs.SetJSON(ctx, cache.KeyUnitsOfMeasure, units); err != nil {
		s.log.Warn("reference cache write", zap.Error(err))
	}
	return units, nil
}

func (s *materialService) AttachPhoto(ctx context.Context, actor Actor, id uint, fileName string, reader io.Reader, size int64, contentType string) (*model.Material, error) {
	if !model.HasAnyRole(actor.Roles, model.ReviewerRoles()...) {
		return nil, apperror.Authorization("missing required role to manage the catalog")
	}
	if s.photos == nil {
		return nil, apperror.Validation("photo storage is not configured")
	}

	material, err := s.materials.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load material: %w", err)
	}
	if material == nil {
		return nil, apperror.NotFound("material", id)
	}

	key, err := s.photos.Put(ctx, fileName, reader, size, contentType)
	if err != nil {
		return nil, fmt.Errorf("store photo: %w", err)
	}

	material.PhotoKey = &key
	if err := s.materials.Update(ctx, material); err != nil {
		return nil, fmt.Errorf("update material: %w", err)
	}

	s.auditMaterial(ctx, actor.ID, model.ActionUpdateMaterial, material)
	return material, nil
}

func (s *materialService) PhotoURL(ctx context.Context, id uint) (string, error) {
	if s.photos == nil {
		return "", apperror.Validation("photo storage is not configured")
	}

	material, err := s.materials.FindByID(ctx, id)
	if err != nil {
		return "", fmt.Errorf("load material: %w", err)
	}
	if material == nil {
		return "", apperror.NotFound("material", id)
	}
	if material.PhotoKey == nil {
		return "", apperror.NotFound("material photo", id)
	}

	return s.photos.URL(ctx, *material.PhotoKey)
}

// --- Helpers ---

func (s *materialService) auditMaterial(ctx context.Context, userID uint, action string, material *model.Material) {
	details, _ := json.Marshal(map[string]interface{}{
		"name":       material.Name,
		"unit_price": material.UnitPrice.String(),
		"active":     material.Active,
	})
	entry := &model.AuditLog{
		UserID:     &userID,
		Action:     action,
		EntityID:   strconv.FormatUint(uint64(material.ID), 10),
		EntityName: material.Name,
		Details:    string(details),
	}
	if err := s.audit.Create(ctx, entry); err != nil {
		s.log.Error("write audit log", zap.Error(err))
	}
}
