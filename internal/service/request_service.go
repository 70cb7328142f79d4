package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gestaomv/internal/model"
	"gestaomv/internal/repository"
	"gestaomv/pkg/apperror"

	"go.uber.org/zap"
)

// --- DTOs ---

type RequestItemInput struct {
	MaterialID uint `json:"material_id" binding:"required"`
	Quantity   int  `json:"quantity" binding:"required"`
}

type CreateRequestDTO struct {
	UnitID       uint               `json:"unit_id" binding:"required"`
	Observations string             `json:"observations"`
	Items        []RequestItemInput `json:"items" binding:"required"`
}

type ReviewRequestDTO struct {
	Status          string `json:"status" binding:"required,oneof=APPROVED REJECTED"`
	RejectionReason string `json:"rejection_reason"`
}

type FulfillItemInput struct {
	ItemID       uint `json:"item_id" binding:"required"`
	FulfilledQty int  `json:"fulfilled_qty"`
}

type FulfillRequestDTO struct {
	Items []FulfillItemInput `json:"items"`
}

type ListRequestsDTO struct {
	Status      string
	UnitID      uint
	RequesterID uint
	From        *time.Time
	To          *time.Time
	Page        int
	Limit       int
	SortBy      string
	SortDesc    bool
}

// StatusChangeEvent is handed to the notifier after a transition commits
type StatusChangeEvent struct {
	RequestID uint      `json:"request_id"`
	UnitID    uint      `json:"unit_id"`
	Status    string    `json:"status"`
	Actor     string    `json:"actor"`
	At        time.Time `json:"at"`
}

// Notifier is told about committed status changes for UI display. It is
// best-effort: failures must never roll back the transition.
type Notifier interface {
	RequestStatusChanged(ev StatusChangeEvent)
}

// --- Interface ---

type RequestService interface {
	Create(ctx context.Context, actor Actor, req CreateRequestDTO) (*model.MaterialRequest, error)
	Review(ctx context.Context, actor Actor, id uint, req ReviewRequestDTO) (*model.MaterialRequest, error)
	Fulfill(ctx context.Context, actor Actor, id uint, req FulfillRequestDTO) (*model.MaterialRequest, error)
	List(ctx context.Context, filter ListRequestsDTO) ([]model.MaterialRequest, int64, error)
	Get(ctx context.Context, id uint) (*model.MaterialRequest, error)
}

type requestService struct {
	requests  repository.RequestRepository
	materials repository.MaterialRepository
	units     repository.UnitRepository
	audit     repository.AuditRepository
	txm       repository.TransactionManager
	notifier  Notifier
	log       *zap.Logger
}

func NewRequestService(
	requests repository.RequestRepository,
	materials repository.MaterialRepository,
	units repository.UnitRepository,
	audit repository.AuditRepository,
	txm repository.TransactionManager,
	notifier Notifier,
	log *zap.Logger,
) RequestService {
	return &requestService{
		requests:  requests,
		materials: materials,
		units:     units,
		audit:     audit,
		txm:       txm,
		notifier:  notifier,
		log:       log,
	}
}

// --- Implementation ---

func (s *requestService) Create(ctx context.Context, actor Actor, req CreateRequestDTO) (*model.MaterialRequest, error) {
	if err := s.requireRoles(ctx, actor, "create request", model.RequesterRoles()...); err != nil {
		return nil, err
	}

	if len(req.Items) < model.MinRequestItems {
		return nil, apperror.Validation("a request must contain at least %d item", model.MinRequestItems)
	}
	if len(req.Items) > model.MaxRequestItems {
		return nil, apperror.Validation("a request must contain at most %d items, got %d", model.MaxRequestItems, len(req.Items))
	}
	if len(req.Observations) > model.MaxObservationsLen {
		return nil, apperror.Validation("observations must be at most %d characters", model.MaxObservationsLen)
	}

	seen := make(map[uint]bool, len(req.Items))
	ids := make([]uint, 0, len(req.Items))
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, apperror.Validation("requested quantity for material %d must be positive", item.MaterialID)
		}
		if seen[item.MaterialID] {
			return nil, apperror.Validation("material %d appears more than once", item.MaterialID)
		}
		seen[item.MaterialID] = true
		ids = append(ids, item.MaterialID)
	}

	var created *model.MaterialRequest
	err := s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		unit, err := s.units.FindByID(txCtx, req.UnitID)
		if err != nil {
			return fmt.Errorf("load unit: %w", err)
		}
		if unit == nil {
			return apperror.NotFound("unit", req.UnitID)
		}

		active, err := s.materials.FindActiveByIDs(txCtx, ids)
		if err != nil {
			return fmt.Errorf("load materials: %w", err)
		}
		if len(active) != len(ids) {
			return apperror.Validation("request references materials that are missing or inactive: %s", missingIDs(ids, active))
		}

		now := time.Now()
		request := &model.MaterialRequest{
			UnitID:        req.UnitID,
			RequesterID:   actor.ID,
			Status:        model.RequestStatusPending,
			Observations:  req.Observations,
			OperationDate: now,
		}
		for _, item := range req.Items {
			request.Items = append(request.Items, model.RequestItem{
				MaterialID:   item.MaterialID,
				RequestedQty: item.Quantity,
			})
		}

		if err := s.requests.Create(txCtx, request); err != nil {
			return fmt.Errorf("create request: %w", err)
		}

		if err := s.writeAudit(txCtx, actor.ID, model.ActionCreateRequest, request.ID, map[string]interface{}{
			"unit_id":    req.UnitID,
			"item_count": len(req.Items),
		}); err != nil {
			return err
		}

		created = request
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notify(created, actor)
	return s.Get(ctx, created.ID)
}

func (s *requestService) Review(ctx context.Context, actor Actor, id uint, req ReviewRequestDTO) (*model.MaterialRequest, error) {
	if err := s.requireRoles(ctx, actor, "review request", model.ReviewerRoles()...); err != nil {
		return nil, err
	}

	if req.Status != model.RequestStatusApproved && req.Status != model.RequestStatusRejected {
		return nil, apperror.Validation("review status must be %s or %s", model.RequestStatusApproved, model.RequestStatusRejected)
	}
	if req.Status == model.RequestStatusRejected && strings.TrimSpace(req.RejectionReason) == "" {
		return nil, apperror.Validation("a rejection reason is required when rejecting a request")
	}

	action := model.ActionApproveRequest
	reason := ""
	if req.Status == model.RequestStatusRejected {
		action = model.ActionRejectRequest
		reason = strings.TrimSpace(req.RejectionReason)
	}

	err := s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		current, err := s.requests.FindByID(txCtx, id)
		if err != nil {
			return fmt.Errorf("load request: %w", err)
		}
		if current == nil {
			return apperror.NotFound("request", id)
		}
		if !model.CanTransition(current.Status, req.Status) {
			return apperror.InvalidTransition("request", current.Status, req.Status)
		}

		now := time.Now()
		// Single-row conditional write: the transition only happens when the
		// request is still PENDING, so two concurrent reviews cannot both win.
		ok, err := s.requests.TransitionStatus(txCtx, id, model.RequestStatusPending, req.Status, map[string]interface{}{
			"rejection_reason": reason,
			"reviewed_by":      actor.ID,
			"reviewed_at":      now,
		})
		if err != nil {
			return fmt.Errorf("transition request: %w", err)
		}
		if !ok {
			return apperror.InvalidTransition("request", current.Status, req.Status)
		}

		return s.writeAudit(txCtx, actor.ID, action, id, map[string]interface{}{
			"status": req.Status,
			"reason": reason,
		})
	})
	if err != nil {
		return nil, err
	}

	result, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.notify(result, actor)
	return result, nil
}

func (s *requestService) Fulfill(ctx context.Context, actor Actor, id uint, req FulfillRequestDTO) (*model.MaterialRequest, error) {
	if err := s.requireRoles(ctx, actor, "fulfill request", model.ReviewerRoles()...); err != nil {
		return nil, err
	}

	err := s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		current, err := s.requests.FindByID(txCtx, id)
		if err != nil {
			return fmt.Errorf("load request: %w", err)
		}
		if current == nil {
			return apperror.NotFound("request", id)
		}
		if !model.CanTransition(current.Status, model.RequestStatusFulfilled) {
			return apperror.InvalidTransition("request", current.Status, model.RequestStatusFulfilled)
		}

		itemsByID := make(map[uint]model.RequestItem, len(current.Items))
		for _, item := range current.Items {
			itemsByID[item.ID] = item
		}

		// Every warehouse role is bounded by the requested quantity; increases
		// are never allowed, only the approver may fulfill exactly and the
		// manager reduces — both land on the same fulfilledQty <= requestedQty check.
		adjusted := make(map[uint]int, len(req.Items))
		for _, input := range req.Items {
			item, ok := itemsByID[input.ItemID]
			if !ok {
				return apperror.Validation("item %d does not belong to request %d", input.ItemID, id)
			}
			if _, dup := adjusted[input.ItemID]; dup {
				return apperror.Validation("item %d appears more than once", input.ItemID)
			}
			if input.FulfilledQty < 0 {
				return apperror.Validation("fulfilled quantity for item %d must not be negative", input.ItemID)
			}
			if input.FulfilledQty > item.RequestedQty {
				return apperror.Validation("fulfilled quantity %d exceeds requested quantity %d for item %d",
					input.FulfilledQty, item.RequestedQty, input.ItemID)
			}
			adjusted[input.ItemID] = input.FulfilledQty
		}

		now := time.Now()
		ok, err := s.requests.TransitionStatus(txCtx, id, model.RequestStatusApproved, model.RequestStatusFulfilled, map[string]interface{}{
			"fulfilled_by": actor.ID,
			"fulfilled_at": now,
		})
		if err != nil {
			return fmt.Errorf("transition request: %w", err)
		}
		if !ok {
			return apperror.InvalidTransition("request", current.Status, model.RequestStatusFulfilled)
		}

		// Unadjusted items default to the full requested quantity
		for _, item := range current.Items {
			qty, wasAdjusted := adjusted[item.ID]
			if !wasAdjusted {
				qty = item.RequestedQty
			}
			if err := s.requests.SetItemFulfilledQty(txCtx, item.ID, qty); err != nil {
				return fmt.Errorf("set fulfilled quantity: %w", err)
			}
		}

		return s.writeAudit(txCtx, actor.ID, model.ActionFulfillRequest, id, map[string]interface{}{
			"adjusted_items": len(req.Items),
		})
	})
	if err != nil {
		return nil, err
	}

	result, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.notify(result, actor)
	return result, nil
}

func (s *requestService) List(ctx context.Context, filter ListRequestsDTO) ([]model.MaterialRequest, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	return s.requests.List(ctx, repository.RequestFilter{
		Status:      filter.Status,
		UnitID:      filter.UnitID,
		RequesterID: filter.RequesterID,
		From:        filter.From,
		To:          filter.To,
		Page:        filter.Page,
		Limit:       filter.Limit,
		SortBy:      filter.SortBy,
		SortDesc:    filter.SortDesc,
	})
}

func (s *requestService) Get(ctx context.Context, id uint) (*model.MaterialRequest, error) {
	request, err := s.requests.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load request: %w", err)
	}
	if request == nil {
		return nil, apperror.NotFound("request", id)
	}
	return request, nil
}

// --- Helpers ---

func (s *requestService) requireRoles(ctx context.Context, actor Actor, operation string, roles ...string) error {
	if model.HasAnyRole(actor.Roles, roles...) {
		return nil
	}
	s.log.Warn("access denied",
		zap.Uint("user_id", actor.ID),
		zap.String("operation", operation),
		zap.Strings("roles", actor.Roles),
	)
	// Denials are audited outside any transaction; the mutation never started.
	if err := s.writeAudit(ctx, actor.ID, model.ActionAccessDenied, 0, map[string]interface{}{
		"operation": operation,
	}); err != nil {
		s.log.Error("audit access denial", zap.Error(err))
	}
	return apperror.Authorization("missing required role for %s", operation)
}

func (s *requestService) writeAudit(ctx context.Context, userID uint, action string, requestID uint, details map[string]interface{}) error {
	payload, _ := json.Marshal(details)
	entry := &model.AuditLog{
		UserID:   &userID,
		Action:   action,
		EntityID: strconv.FormatUint(uint64(requestID), 10),
		Details:  string(payload),
	}
	if err := s.audit.Create(ctx, entry); err != nil {
		return fmt.Errorf("write audit log: %w", err)
	}
	return nil
}

func (s *requestService) notify(request *model.MaterialRequest, actor Actor) {
	if s.notifier == nil || request == nil {
		return
	}
	s.notifier.RequestStatusChanged(StatusChangeEvent{
		RequestID: request.ID,
		UnitID:    request.UnitID,
		Status:    request.Status,
		Actor:     actor.Name,
		At:        time.Now(),
	})
}

func missingIDs(wanted []uint, found []model.Material) string {
	present := make(map[uint]bool, len(found))
	for _, m := range found {
		present[m.ID] = true
	}
	var missing []string
	for _, id := range wanted {
		if !present[id] {
			missing = append(missing, strconv.FormatUint(uint64(id), 10))
		}
	}
	return strings.Join(missing, ", ")
}
