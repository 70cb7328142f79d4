package service

import (
	"context"
	"testing"
	"time"

	"gestaomv/internal/model"
	"gestaomv/internal/repository"
	"gestaomv/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// --- Mocks ---

type MockRequestRepository struct {
	mock.Mock
}

func (m *MockRequestRepository) Create(ctx context.Context, req *model.MaterialRequest) error {
	args := m.Called(ctx, req)
	if args.Error(0) == nil && req.ID == 0 {
		req.ID = 1
		for i := range req.Items {
			req.Items[i].ID = uint(i + 1)
		}
	}
	return args.Error(0)
}

func (m *MockRequestRepository) FindByID(ctx context.Context, id uint) (*model.MaterialRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MaterialRequest), args.Error(1)
}

func (m *MockRequestRepository) List(ctx context.Context, filter repository.RequestFilter) ([]model.MaterialRequest, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]model.MaterialRequest), args.Get(1).(int64), args.Error(2)
}

func (m *MockRequestRepository) TransitionStatus(ctx context.Context, id uint, from, to string, updates map[string]interface{}) (bool, error) {
	args := m.Called(ctx, id, from, to, updates)
	return args.Bool(0), args.Error(1)
}

func (m *MockRequestRepository) SetItemFulfilledQty(ctx context.Context, itemID uint, qty int) error {
	args := m.Called(ctx, itemID, qty)
	return args.Error(0)
}

type MockMaterialRepository struct {
	mock.Mock
}

func (m *MockMaterialRepository) Create(ctx context.Context, material *model.Material) error {
	return m.Called(ctx, material).Error(0)
}

func (m *MockMaterialRepository) Update(ctx context.Context, material *model.Material) error {
	return m.Called(ctx, material).Error(0)
}

func (m *MockMaterialRepository) FindByID(ctx context.Context, id uint) (*model.Material, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Material), args.Error(1)
}

func (m *MockMaterialRepository) FindActiveByIDs(ctx context.Context, ids []uint) ([]model.Material, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]model.Material), args.Error(1)
}

func (m *MockMaterialRepository) List(ctx context.Context, filter repository.MaterialFilter) ([]model.Material, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]model.Material), args.Get(1).(int64), args.Error(2)
}

func (m *MockMaterialRepository) ListTypes(ctx context.Context) ([]model.MaterialType, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.MaterialType), args.Error(1)
}

func (m *MockMaterialRepository) ListUnitsOfMeasure(ctx context.Context) ([]model.UnitOfMeasure, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.UnitOfMeasure), args.Error(1)
}

type MockUnitRepository struct {
	mock.Mock
}

func (m *MockUnitRepository) Create(ctx context.Context, unit *model.Unit) error {
	return m.Called(ctx, unit).Error(0)
}

func (m *MockUnitRepository) Update(ctx context.Context, unit *model.Unit) error {
	return m.Called(ctx, unit).Error(0)
}

func (m *MockUnitRepository) FindByID(ctx context.Context, id uint) (*model.Unit, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Unit), args.Error(1)
}

func (m *MockUnitRepository) List(ctx context.Context, page, limit int, search string) ([]model.Unit, int64, error) {
	args := m.Called(ctx, page, limit, search)
	return args.Get(0).([]model.Unit), args.Get(1).(int64), args.Error(2)
}

type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) Create(ctx context.Context, entry *model.AuditLog) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *MockAuditRepository) List(ctx context.Context, filter repository.AuditFilter) ([]model.AuditLog, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]model.AuditLog), args.Get(1).(int64), args.Error(2)
}

// stubTxManager executes the unit of work directly, without a database
type stubTxManager struct{}

func (stubTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

type recordingNotifier struct {
	events []StatusChangeEvent
}

func (n *recordingNotifier) RequestStatusChanged(ev StatusChangeEvent) {
	n.events = append(n.events, ev)
}

// --- Fixtures ---

func requesterActor() Actor {
	return Actor{ID: 7, Name: "Maria", Roles: []string{model.RoleAlmoxarifado}}
}

func approverActor() Actor {
	return Actor{ID: 9, Name: "João", Roles: []string{model.RoleAprovadorAlmoxarifado}}
}

type lifecycleFixture struct {
	requests  *MockRequestRepository
	materials *MockMaterialRepository
	units     *MockUnitRepository
	audit     *MockAuditRepository
	notifier  *recordingNotifier
	service   RequestService
}

func newLifecycleFixture() *lifecycleFixture {
	f := &lifecycleFixture{
		requests:  new(MockRequestRepository),
		materials: new(MockMaterialRepository),
		units:     new(MockUnitRepository),
		audit:     new(MockAuditRepository),
		notifier:  &recordingNotifier{},
	}
	f.service = NewRequestService(f.requests, f.materials, f.units, f.audit, stubTxManager{}, f.notifier, zap.NewNop())
	return f
}

func pendingRequest(id uint) *model.MaterialRequest {
	return &model.MaterialRequest{
		ID:          id,
		UnitID:      3,
		RequesterID: 7,
		Status:      model.RequestStatusPending,
		Items: []model.RequestItem{
			{ID: 1, RequestID: id, MaterialID: 10, RequestedQty: 2},
		},
	}
}

func approvedRequest(id uint) *model.MaterialRequest {
	req := pendingRequest(id)
	req.Status = model.RequestStatusApproved
	return req
}

func activeMaterials(ids ...uint) []model.Material {
	out := make([]model.Material, 0, len(ids))
	for _, id := range ids {
		out = append(out, model.Material{ID: id, Active: true})
	}
	return out
}

// --- Create ---

func TestCreateRequest(t *testing.T) {
	f := newLifecycleFixture()

	f.units.On("FindByID", mock.Anything, uint(3)).Return(&model.Unit{ID: 3, Active: true}, nil)
	f.materials.On("FindActiveByIDs", mock.Anything, []uint{10}).Return(activeMaterials(10), nil)
	f.requests.On("Create", mock.Anything, mock.AnythingOfType("*model.MaterialRequest")).Return(nil)
	f.audit.On("Create", mock.Anything, mock.AnythingOfType("*model.AuditLog")).Return(nil)
	f.requests.On("FindByID", mock.Anything, uint(1)).Return(pendingRequest(1), nil)

	result, err := f.service.Create(context.Background(), requesterActor(), CreateRequestDTO{
		UnitID: 3,
		Items:  []RequestItemInput{{MaterialID: 10, Quantity: 2}},
	})

	assert.NoError(t, err)
	assert.Equal(t, model.RequestStatusPending, result.Status)
	assert.Len(t, result.Items, 1)
	assert.Equal(t, 2, result.Items[0].RequestedQty)
	assert.Len(t, f.notifier.events, 1)
	assert.Equal(t, model.RequestStatusPending, f.notifier.events[0].Status)
	f.requests.AssertExpectations(t)
	f.audit.AssertExpectations(t)
}

func TestCreateRequestItemBounds(t *testing.T) {
	cases := []struct {
		name    string
		count   int
		wantErr bool
	}{
		{"zero items", 0, true},
		{"one item", 1, false},
		{"fifty items", 50, false},
		{"fifty-one items", 51, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newLifecycleFixture()

			items := make([]RequestItemInput, 0, tc.count)
			ids := make([]uint, 0, tc.count)
			for i := 0; i < tc.count; i++ {
				items = append(items, RequestItemInput{MaterialID: uint(100 + i), Quantity: 1})
				ids = append(ids, uint(100+i))
			}

			if !tc.wantErr {
				f.units.On("FindByID", mock.Anything, uint(3)).Return(&model.Unit{ID: 3, Active: true}, nil)
				f.materials.On("FindActiveByIDs", mock.Anything, ids).Return(activeMaterials(ids...), nil)
				f.requests.On("Create", mock.Anything, mock.Anything).Return(nil)
				f.audit.On("Create", mock.Anything, mock.Anything).Return(nil)
				f.requests.On("FindByID", mock.Anything, uint(1)).Return(pendingRequest(1), nil)
			}

			_, err := f.service.Create(context.Background(), requesterActor(), CreateRequestDTO{
				UnitID: 3,
				Items:  items,
			})

			if tc.wantErr {
				var validation *apperror.ValidationError
				assert.ErrorAs(t, err, &validation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCreateRequestDuplicateMaterial(t *testing.T) {
	f := newLifecycleFixture()

	_, err := f.service.Create(context.Background(), requesterActor(), CreateRequestDTO{
		UnitID: 3,
		Items: []RequestItemInput{
			{MaterialID: 10, Quantity: 1},
			{MaterialID: 10, Quantity: 5},
		},
	})

	var validation *apperror.ValidationError
	assert.ErrorAs(t, err, &validation)
	f.requests.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateRequestUnknownUnit(t *testing.T) {
	f := newLifecycleFixture()

	f.units.On("FindByID", mock.Anything, uint(999)).Return(nil, nil)
	f.audit.On("Create", mock.Anything, mock.Anything).Return(nil)

	_, err := f.service.Create(context.Background(), requesterActor(), CreateRequestDTO{
		UnitID: 999,
		Items:  []RequestItemInput{{MaterialID: 10, Quantity: 1}},
	})

	var notFound *apperror.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestCreateRequestInactiveMaterial(t *testing.T) {
	f := newLifecycleFixture()

	f.units.On("FindByID", mock.Anything, uint(3)).Return(&model.Unit{ID: 3, Active: true}, nil)
	f.materials.On("FindActiveByIDs", mock.Anything, []uint{10, 11}).Return(activeMaterials(10), nil)

	_, err := f.service.Create(context.Background(), requesterActor(), CreateRequestDTO{
		UnitID: 3,
		Items: []RequestItemInput{
			{MaterialID: 10, Quantity: 1},
			{MaterialID: 11, Quantity: 1},
		},
	})

	var validation *apperror.ValidationError
	assert.ErrorAs(t, err, &validation)
	assert.Contains(t, err.Error(), "11")
}

func TestCreateRequestRequiresRole(t *testing.T) {
	f := newLifecycleFixture()
	f.audit.On("Create", mock.Anything, mock.Anything).Return(nil)

	_, err := f.service.Create(context.Background(), Actor{ID: 4, Roles: nil}, CreateRequestDTO{
		UnitID: 3,
		Items:  []RequestItemInput{{MaterialID: 10, Quantity: 1}},
	})

	var authz *apperror.AuthorizationError
	assert.ErrorAs(t, err, &authz)
	f.requests.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// --- Review ---

func TestReviewApprove(t *testing.T) {
	f := newLifecycleFixture()

	f.requests.On("FindByID", mock.Anything, uint(1)).Return(pendingRequest(1), nil).Once()
	f.requests.On("TransitionStatus", mock.Anything, uint(1), model.RequestStatusPending, model.RequestStatusApproved, mock.Anything).
		Return(true, nil).Once()
	f.audit.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.requests.On("FindByID", mock.Anything, uint(1)).Return(approvedRequest(1), nil).Once()

	result, err := f.service.Review(context.Background(), approverActor(), 1, ReviewRequestDTO{
		Status: model.RequestStatusApproved,
	})

	assert.NoError(t, err)
	assert.Equal(t, model.RequestStatusApproved, result.Status)
	assert.Len(t, f.notifier.events, 1)
	f.requests.AssertExpectations(t)
}

func TestReviewRejectRequiresReason(t *testing.T) {
	f := newLifecycleFixture()

	_, err := f.service.Review(context.Background(), approverActor(), 1, ReviewRequestDTO{
		Status: model.RequestStatusRejected,
	})

	var validation *apperror.ValidationError
	assert.ErrorAs(t, err, &validation)
	f.requests.AssertNotCalled(t, "TransitionStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReviewRejectWithReason(t *testing.T) {
	f := newLifecycleFixture()

	rejected := pendingRequest(1)
	rejected.Status = model.RequestStatusRejected
	rejected.RejectionReason = "fora de orçamento"

	f.requests.On("FindByID", mock.Anything, uint(1)).Return(pendingRequest(1), nil).Once()
	f.requests.On("TransitionStatus", mock.Anything, uint(1), model.RequestStatusPending, model.RequestStatusRejected, mock.MatchedBy(func(updates map[string]interface{}) bool {
		return updates["rejection_reason"] == "fora de orçamento"
	})).Return(true, nil).Once()
	f.audit.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.requests.On("FindByID", mock.Anything, uint(1)).Return(rejected, nil).Once()

	result, err := f.service.Review(context.Background(), approverActor(), 1, ReviewRequestDTO{
		Status:          model.RequestStatusRejected,
		RejectionReason: "fora de orçamento",
	})

	assert.NoError(t, err)
	assert.Equal(t, model.RequestStatusRejected, result.Status)
	assert.Equal(t, "fora de orçamento", result.RejectionReason)
	f.requests.AssertExpectations(t)
}

func TestReviewTwiceSecondCallFails(t *testing.T) {
	f := newLifecycleFixture()

	f.requests.On("FindByID", mock.Anything, uint(1)).Return(pendingRequest(1), nil).Once()
	f.requests.On("TransitionStatus", mock.Anything, uint(1), model.RequestStatusPending, model.RequestStatusApproved, mock.Anything).
		Return(true, nil).Once()
	f.audit.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.requests.On("FindByID", mock.Anything, uint(1)).Return(approvedRequest(1), nil).Once()

	_, err := f.service.Review(context.Background(), approverActor(), 1, ReviewRequestDTO{Status: model.RequestStatusApproved})
	assert.NoError(t, err)

	// Second identical call: the request is no longer PENDING, so the
	// transition table rejects it before any write is attempted.
	f.requests.On("FindByID", mock.Anything, uint(1)).Return(approvedRequest(1), nil).Once()

	_, err = f.service.Review(context.Background(), approverActor(), 1, ReviewRequestDTO{Status: model.RequestStatusApproved})

	var transition *apperror.InvalidTransitionError
	assert.ErrorAs(t, err, &transition)
	assert.Equal(t, model.RequestStatusApproved, transition.From)
	f.requests.AssertNumberOfCalls(t, "TransitionStatus", 1)
	f.requests.AssertExpectations(t)
}

func TestReviewConcurrentOnlyOneWins(t *testing.T) {
	f := newLifecycleFixture()

	// Both callers load the request while it is still PENDING; the atomic
	// conditional update decides the winner.
	f.requests.On("FindByID", mock.Anything, uint(1)).Return(pendingRequest(1), nil).Once()  // first reviewer loads
	f.requests.On("FindByID", mock.Anything, uint(1)).Return(approvedRequest(1), nil).Once() // reload after the win
	f.requests.On("FindByID", mock.Anything, uint(1)).Return(pendingRequest(1), nil).Once()  // second reviewer read a stale PENDING row
	f.requests.On("TransitionStatus", mock.Anything, uint(1), model.RequestStatusPending, model.RequestStatusApproved, mock.Anything).
		Return(true, nil).Once()
	f.requests.On("TransitionStatus", mock.Anything, uint(1), model.RequestStatusPending, model.RequestStatusRejected, mock.Anything).
		Return(false, nil).Once()
	f.audit.On("Create", mock.Anything, mock.Anything).Return(nil)

	_, errA := f.service.Review(context.Background(), approverActor(), 1, ReviewRequestDTO{Status: model.RequestStatusApproved})
	_, errB := f.service.Review(context.Background(), approverActor(), 1, ReviewRequestDTO{
		Status:          model.RequestStatusRejected,
		RejectionReason: "duplicada",
	})

	assert.NoError(t, errA)
	var transition *apperror.InvalidTransitionError
	assert.ErrorAs(t, errB, &transition)
	assert.Len(t, f.notifier.events, 1)
	f.requests.AssertExpectations(t)
}

func TestReviewRequiresRole(t *testing.T) {
	f := newLifecycleFixture()
	f.audit.On("Create", mock.Anything, mock.Anything).Return(nil)

	_, err := f.service.Review(context.Background(), requesterActor(), 1, ReviewRequestDTO{Status: model.RequestStatusApproved})

	var authz *apperror.AuthorizationError
	assert.ErrorAs(t, err, &authz)
}

// --- Fulfill ---

func TestFulfillPartialQuantity(t *testing.T) {
	f := newLifecycleFixture()

	fulfilled := approvedRequest(1)
	fulfilled.Status = model.RequestStatusFulfilled
	one := 1
	fulfilled.Items[0].FulfilledQty = &one

	f.requests.On("FindByID", mock.Anything, uint(1)).Return(approvedRequest(1), nil).Once()
	f.requests.On("TransitionStatus", mock.Anything, uint(1), model.RequestStatusApproved, model.RequestStatusFulfilled, mock.Anything).
		Return(true, nil).Once()
	f.requests.On("SetItemFulfilledQty", mock.Anything, uint(1), 1).Return(nil).Once()
	f.audit.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.requests.On("FindByID", mock.Anything, uint(1)).Return(fulfilled, nil).Once()

	result, err := f.service.Fulfill(context.Background(), approverActor(), 1, FulfillRequestDTO{
		Items: []FulfillItemInput{{ItemID: 1, FulfilledQty: 1}},
	})

	assert.NoError(t, err)
	assert.Equal(t, model.RequestStatusFulfilled, result.Status)
	assert.Equal(t, 1, *result.Items[0].FulfilledQty)
	f.requests.AssertExpectations(t)
}

func TestFulfillDefaultsToRequestedQty(t *testing.T) {
	f := newLifecycleFixture()

	f.requests.On("FindByID", mock.Anything, uint(1)).Return(approvedRequest(1), nil).Once()
	f.requests.On("TransitionStatus", mock.Anything, uint(1), model.RequestStatusApproved, model.RequestStatusFulfilled, mock.Anything).
		Return(true, nil).Once()
	// No adjustment provided: the item defaults to its requested quantity of 2
	f.requests.On("SetItemFulfilledQty", mock.Anything, uint(1), 2).Return(nil).Once()
	f.audit.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.requests.On("FindByID", mock.Anything, uint(1)).Return(approvedRequest(1), nil).Once()

	_, err := f.service.Fulfill(context.Background(), approverActor(), 1, FulfillRequestDTO{})

	assert.NoError(t, err)
	f.requests.AssertExpectations(t)
}

func TestFulfillQuantityAboveRequestedFails(t *testing.T) {
	f := newLifecycleFixture()

	f.requests.On("FindByID", mock.Anything, uint(1)).Return(approvedRequest(1), nil).Once()

	_, err := f.service.Fulfill(context.Background(), approverActor(), 1, FulfillRequestDTO{
		Items: []FulfillItemInput{{ItemID: 1, FulfilledQty: 3}},
	})

	var validation *apperror.ValidationError
	assert.ErrorAs(t, err, &validation)
	f.requests.AssertNotCalled(t, "TransitionStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestFulfillWhilePendingFails(t *testing.T) {
	f := newLifecycleFixture()

	f.requests.On("FindByID", mock.Anything, uint(1)).Return(pendingRequest(1), nil).Once()

	_, err := f.service.Fulfill(context.Background(), approverActor(), 1, FulfillRequestDTO{
		Items: []FulfillItemInput{{ItemID: 1, FulfilledQty: 1}},
	})

	var transition *apperror.InvalidTransitionError
	assert.ErrorAs(t, err, &transition)
	assert.Equal(t, model.RequestStatusPending, transition.From)
	f.requests.AssertNotCalled(t, "TransitionStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.requests.AssertNotCalled(t, "SetItemFulfilledQty", mock.Anything, mock.Anything, mock.Anything)
}

// A concurrent fulfiller can win between the read and the write; the
// conditional update reports the loss.
func TestFulfillLosesRaceToConcurrentFulfiller(t *testing.T) {
	f := newLifecycleFixture()

	f.requests.On("FindByID", mock.Anything, uint(1)).Return(approvedRequest(1), nil).Once()
	f.requests.On("TransitionStatus", mock.Anything, uint(1), model.RequestStatusApproved, model.RequestStatusFulfilled, mock.Anything).
		Return(false, nil).Once()

	_, err := f.service.Fulfill(context.Background(), approverActor(), 1, FulfillRequestDTO{})

	var transition *apperror.InvalidTransitionError
	assert.ErrorAs(t, err, &transition)
	f.requests.AssertNotCalled(t, "SetItemFulfilledQty", mock.Anything, mock.Anything, mock.Anything)
}

func TestFulfillUnknownItemFails(t *testing.T) {
	f := newLifecycleFixture()

	f.requests.On("FindByID", mock.Anything, uint(1)).Return(approvedRequest(1), nil).Once()

	_, err := f.service.Fulfill(context.Background(), approverActor(), 1, FulfillRequestDTO{
		Items: []FulfillItemInput{{ItemID: 42, FulfilledQty: 1}},
	})

	var validation *apperror.ValidationError
	assert.ErrorAs(t, err, &validation)
}

// --- List ---

func TestListDefaultsPagination(t *testing.T) {
	f := newLifecycleFixture()

	f.requests.On("List", mock.Anything, mock.MatchedBy(func(filter repository.RequestFilter) bool {
		return filter.Page == 1 && filter.Limit == 20 && filter.Status == model.RequestStatusPending
	})).Return([]model.MaterialRequest{*pendingRequest(1)}, int64(1), nil)

	requests, total, err := f.service.List(context.Background(), ListRequestsDTO{Status: model.RequestStatusPending})

	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, requests, 1)
}

func TestGetUnknownRequest(t *testing.T) {
	f := newLifecycleFixture()

	f.requests.On("FindByID", mock.Anything, uint(404)).Return(nil, nil)

	_, err := f.service.Get(context.Background(), 404)

	var notFound *apperror.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

// Notification failures or no notifier at all must not affect outcomes
func TestNilNotifierTolerated(t *testing.T) {
	f := newLifecycleFixture()
	f.service = NewRequestService(f.requests, f.materials, f.units, f.audit, stubTxManager{}, nil, zap.NewNop())

	f.requests.On("FindByID", mock.Anything, uint(1)).Return(pendingRequest(1), nil).Once()
	f.requests.On("TransitionStatus", mock.Anything, uint(1), model.RequestStatusPending, model.RequestStatusApproved, mock.Anything).
		Return(true, nil).Once()
	f.audit.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.requests.On("FindByID", mock.Anything, uint(1)).Return(approvedRequest(1), nil).Once()

	result, err := f.service.Review(context.Background(), approverActor(), 1, ReviewRequestDTO{Status: model.RequestStatusApproved})

	assert.NoError(t, err)
	assert.Equal(t, model.RequestStatusApproved, result.Status)
}

// Reviewers stamp who and when on the transition
func TestReviewRecordsReviewer(t *testing.T) {
	f := newLifecycleFixture()

	before := time.Now()
	f.requests.On("FindByID", mock.Anything, uint(1)).Return(pendingRequest(1), nil).Once()
	f.requests.On("TransitionStatus", mock.Anything, uint(1), model.RequestStatusPending, model.RequestStatusApproved, mock.MatchedBy(func(updates map[string]interface{}) bool {
		reviewedAt, ok := updates["reviewed_at"].(time.Time)
		return updates["reviewed_by"] == uint(9) && ok && !reviewedAt.Before(before)
	})).Return(true, nil).Once()
	f.audit.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.requests.On("FindByID", mock.Anything, uint(1)).Return(approvedRequest(1), nil).Once()

	_, err := f.service.Review(context.Background(), approverActor(), 1, ReviewRequestDTO{Status: model.RequestStatusApproved})

	assert.NoError(t, err)
	f.requests.AssertExpectations(t)
}
