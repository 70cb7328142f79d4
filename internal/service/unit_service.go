package service

import (
	"context"
	"fmt"
	"strings"

	"gestaomv/internal/model"
	"gestaomv/internal/repository"
	"gestaomv/pkg/apperror"
)

type CreateUnitDTO struct {
	Name    string `json:"name" binding:"required"`
	Code    string `json:"code" binding:"required"`
	Address string `json:"address"`
}

type UpdateUnitDTO struct {
	Name    string  `json:"name"`
	Code    string  `json:"code"`
	Address *string `json:"address"`
	Active  *bool   `json:"active"`
}

type UnitService interface {
	Create(ctx context.Context, actor Actor, req CreateUnitDTO) (*model.Unit, error)
	Update(ctx context.Context, actor Actor, id uint, req UpdateUnitDTO) (*model.Unit, error)
	Get(ctx context.Context, id uint) (*model.Unit, error)
	List(ctx context.Context, page, limit int, search string) ([]model.Unit, int64, error)
}

type unitService struct {
	units repository.UnitRepository
}

func NewUnitService(units repository.UnitRepository) UnitService {
	return &unitService{units: units}
}

func (s *unitService) Create(ctx context.Context, actor Actor, req CreateUnitDTO) (*model.Unit, error) {
	if !model.HasAnyRole(actor.Roles, model.RoleAdmin) {
		return nil, apperror.Authorization("only administrators manage units")
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Code) == "" {
		return nil, apperror.Validation("unit name and code are required")
	}

	unit := &model.Unit{
		Name:    strings.TrimSpace(req.Name),
		Code:    strings.TrimSpace(req.Code),
		Address: req.Address,
		Active:  true,
	}
	if err := s.units.Create(ctx, unit); err != nil {
		return nil, fmt.Errorf("create unit: %w", err)
	}
	return unit, nil
}

func (s *unitService) Update(ctx context.Context, actor Actor, id uint, req UpdateUnitDTO) (*model.Unit, error) {
	if !model.HasAnyRole(actor.Roles, model.RoleAdmin) {
		return nil, apperror.Authorization("only administrators manage units")
	}

	unit, err := s.units.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load unit: %w", err)
	}
	if unit == nil {
		return nil, apperror.NotFound("unit", id)
	}

	if req.Name != "" {
		unit.Name = strings.TrimSpace(req.Name)
	}
	if req.Code != "" {
		unit.Code = strings.TrimSpace(req.Code)
	}
	if req.Address != nil {
		unit.Address = *req.Address
	}
	if req.Active != nil {
		unit.Active = *req.Active
	}

	if err := s.units.Update(ctx, unit); err != nil {
		return nil, fmt.Errorf("update unit: %w", err)
	}
	return unit, nil
}

func (s *unitService) Get(ctx context.Context, id uint) (*model.Unit, error) {
	unit, err := s.units.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load unit: %w", err)
	}
	if unit == nil {
		return nil, apperror.NotFound("unit", id)
	}
	return unit, nil
}

func (s *unitService) List(ctx context.Context, page, limit int, search string) ([]model.Unit, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	return s.units.List(ctx, page, limit, search)
}
