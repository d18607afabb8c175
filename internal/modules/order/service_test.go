package order

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"carwash/internal/domain"
	"carwash/internal/pkg/paging"
	"carwash/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// Mock repositories
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(ctx context.Context, o *domain.Order) error {
	args := m.Called(ctx, o)
	if o != nil {
		o.ID = 999 // simulate DB insert
	}
	return args.Error(0)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderRepository) GetDetailed(ctx context.Context, id int64) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderRepository) ListVisible(ctx context.Context, actor domain.Actor, page repository.OrderPage) ([]domain.Order, error) {
	args := m.Called(ctx, actor, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *MockOrderRepository) UpdateFields(ctx context.Context, id int64, fields map[string]any) error {
	return m.Called(ctx, id, fields).Error(0)
}

func (m *MockOrderRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type MockVisibility struct {
	mock.Mock
}

func (m *MockVisibility) HasVisibleOrders(ctx context.Context, actor domain.Actor) (bool, error) {
	args := m.Called(ctx, actor)
	return args.Bool(0), args.Error(1)
}

func (m *MockVisibility) CanAccess(ctx context.Context, actor domain.Actor, orderID int64) (bool, error) {
	args := m.Called(ctx, actor, orderID)
	return args.Bool(0), args.Error(1)
}

type MockUserLookup struct {
	mock.Mock
}

func (m *MockUserLookup) Exists(ctx context.Context, ids ...int64) (bool, error) {
	args := m.Called(ctx, ids)
	return args.Bool(0), args.Error(1)
}

type MockCarLookup struct {
	mock.Mock
}

func (m *MockCarLookup) GetByID(ctx context.Context, id int64) (*domain.CustomerCar, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CustomerCar), args.Error(1)
}

var fixedNow = time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

func newMockedService() (*Service, *MockOrderRepository, *MockVisibility, *MockUserLookup, *MockCarLookup) {
	orders := new(MockOrderRepository)
	vis := new(MockVisibility)
	users := new(MockUserLookup)
	cars := new(MockCarLookup)
	svc := NewService(orders, vis, users, cars, time.UTC)
	svc.now = func() time.Time { return fixedNow }
	return svc, orders, vis, users, cars
}

func ptr[T any](v T) *T { return &v }

func TestUpdate_TerminalOrderIsRejected(t *testing.T) {
	svc, orders, _, _, _ := newMockedService()
	end := fixedNow.Add(-time.Minute)
	orders.On("GetByID", mock.Anything, int64(1)).Return(&domain.Order{ID: 1, StartDate: end.Add(-time.Hour), EndDate: &end}, nil)

	_, err := svc.Update(context.Background(), 1, UpdateOrderRequest{EmployeeID: ptr(int64(5))})

	assert.ErrorIs(t, err, domain.ErrTerminalOrder)
	orders.AssertNotCalled(t, "UpdateFields", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdate_OpenEndedOrderIsNeverTerminal(t *testing.T) {
	svc, orders, _, users, _ := newMockedService()
	orders.On("GetByID", mock.Anything, int64(1)).Return(&domain.Order{ID: 1, StartDate: fixedNow.Add(-48 * time.Hour)}, nil)
	users.On("Exists", mock.Anything, []int64{5}).Return(true, nil)
	orders.On("UpdateFields", mock.Anything, int64(1), map[string]any{"employee_id": int64(5)}).Return(nil)
	orders.On("GetDetailed", mock.Anything, int64(1)).Return(&domain.Order{ID: 1, EmployeeID: 5}, nil)

	o, err := svc.Update(context.Background(), 1, UpdateOrderRequest{EmployeeID: ptr(int64(5))})
	require.NoError(t, err)
	assert.Equal(t, int64(5), o.EmployeeID)
	orders.AssertExpectations(t)
}

func TestUpdate_SparseFields(t *testing.T) {
	svc, orders, _, _, cars := newMockedService()
	end := fixedNow.Add(time.Hour)
	orders.On("GetByID", mock.Anything, int64(2)).Return(&domain.Order{ID: 2, EndDate: &end}, nil)
	cars.On("GetByID", mock.Anything, int64(8)).Return(&domain.CustomerCar{ID: 8}, nil)
	orders.On("UpdateFields", mock.Anything, int64(2), map[string]any{
		"customer_car_id": int64(8),
		"status":          domain.OrderInProgress,
	}).Return(nil)
	orders.On("GetDetailed", mock.Anything, int64(2)).Return(&domain.Order{ID: 2}, nil)

	_, err := svc.Update(context.Background(), 2, UpdateOrderRequest{CustomerCarID: ptr(int64(8)), Status: ptr(domain.OrderInProgress)})
	require.NoError(t, err)
	orders.AssertExpectations(t)
}

func TestUpdate_Validation(t *testing.T) {
	svc, orders, _, users, cars := newMockedService()
	orders.On("GetByID", mock.Anything, int64(3)).Return(&domain.Order{ID: 3}, nil)
	users.On("Exists", mock.Anything, []int64{404}).Return(false, nil)
	cars.On("GetByID", mock.Anything, int64(404)).Return(nil, repository.ErrNotFound)

	cases := map[string]UpdateOrderRequest{
		"status":          {Status: ptr(domain.OrderStatus("paused"))},
		"employee_id":     {EmployeeID: ptr(int64(404))},
		"customer_car_id": {CustomerCarID: ptr(int64(404))},
	}
	for field, req := range cases {
		_, err := svc.Update(context.Background(), 3, req)
		var ve *domain.ValidationError
		require.True(t, errors.As(err, &ve), field)
		assert.Equal(t, field, ve.Field)
	}
	orders.AssertNotCalled(t, "UpdateFields", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdate_NotFound(t *testing.T) {
	svc, orders, _, _, _ := newMockedService()
	orders.On("GetByID", mock.Anything, int64(9)).Return(nil, repository.ErrNotFound)

	_, err := svc.Update(context.Background(), 9, UpdateOrderRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreate_Defaults(t *testing.T) {
	svc, orders, _, users, cars := newMockedService()
	users.On("Exists", mock.Anything, mock.Anything).Return(true, nil)
	cars.On("GetByID", mock.Anything, int64(3)).Return(&domain.CustomerCar{ID: 3}, nil)
	orders.On("Create", mock.Anything, mock.MatchedBy(func(o *domain.Order) bool {
		return o.Status == domain.OrderScheduled && o.StartDate.Equal(fixedNow) && o.EndDate == nil
	})).Return(nil)
	orders.On("GetDetailed", mock.Anything, int64(999)).Return(&domain.Order{ID: 999}, nil)

	o, err := svc.Create(context.Background(), CreateOrderRequest{AdministratorID: 1, EmployeeID: 2, CustomerCarID: 3})
	require.NoError(t, err)
	assert.Equal(t, int64(999), o.ID)
	orders.AssertExpectations(t)
}

func TestCreate_EndBeforeStart(t *testing.T) {
	svc, orders, _, _, _ := newMockedService()
	start := fixedNow
	end := fixedNow.Add(-time.Second)

	_, err := svc.Create(context.Background(), CreateOrderRequest{
		AdministratorID: 1, EmployeeID: 2, CustomerCarID: 3,
		StartDate: &start, EndDate: &end,
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
	orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreate_InvalidStatus(t *testing.T) {
	svc, _, _, _, _ := newMockedService()
	_, err := svc.Create(context.Background(), CreateOrderRequest{AdministratorID: 1, EmployeeID: 2, CustomerCarID: 3, Status: ptr(domain.OrderStatus("0"))})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCreate_UnknownAdministrator(t *testing.T) {
	svc, _, _, users, _ := newMockedService()
	users.On("Exists", mock.Anything, []int64{1}).Return(false, nil)

	_, err := svc.Create(context.Background(), CreateOrderRequest{AdministratorID: 1, EmployeeID: 2, CustomerCarID: 3})
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "administrator_id", ve.Field)
}

func TestGet_NotFoundVersusForbidden(t *testing.T) {
	svc, orders, vis, _, _ := newMockedService()
	actor := domain.Actor{UserID: 4, Role: domain.RoleCustomer}
	orders.On("GetDetailed", mock.Anything, int64(1)).Return(nil, repository.ErrNotFound)
	orders.On("GetDetailed", mock.Anything, int64(2)).Return(&domain.Order{ID: 2}, nil)
	vis.On("CanAccess", mock.Anything, actor, int64(2)).Return(false, nil)

	_, err := svc.Get(context.Background(), 1, actor)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Get(context.Background(), 2, actor)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestList_EmptyVisibleSetIsForbidden(t *testing.T) {
	svc, orders, vis, _, _ := newMockedService()
	actor := domain.Actor{UserID: 4, Role: domain.RoleCustomer}
	vis.On("HasVisibleOrders", mock.Anything, actor).Return(false, nil)

	_, err := svc.List(context.Background(), actor, ListParams{})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	orders.AssertNotCalled(t, "ListVisible", mock.Anything, mock.Anything, mock.Anything)
}

func TestList_TranslatesParamsToPage(t *testing.T) {
	svc, orders, vis, _, _ := newMockedService()
	actor := domain.Actor{UserID: 1, Role: domain.RoleAdministrator}
	vis.On("HasVisibleOrders", mock.Anything, actor).Return(true, nil)

	second := []domain.Order{{ID: 11}, {ID: 12}}
	orders.On("ListVisible", mock.Anything, actor, repository.OrderPage{SortColumn: "id", Offset: 10, Limit: 10}).
		Return(second, nil)
	status := domain.OrderCompleted
	orders.On("ListVisible", mock.Anything, actor, repository.OrderPage{Status: &status, SortColumn: "start_date", Desc: true, Limit: 3}).
		Return(nil, nil)

	page, err := svc.List(context.Background(), actor, ListParams{Params: paging.Params{Limit: 10, Page: 2}})
	require.NoError(t, err)
	assert.Equal(t, second, page)

	page, err = svc.List(context.Background(), actor, ListParams{
		Params: paging.Params{Limit: 3, SortBy: "start_date", SortDir: "DESC"},
		Status: &status,
	})
	require.NoError(t, err)
	assert.NotNil(t, page)
	assert.Empty(t, page)
	orders.AssertExpectations(t)
}

func TestList_PageBeyondAddressableRangeIsEmpty(t *testing.T) {
	svc, orders, vis, _, _ := newMockedService()
	actor := domain.Actor{UserID: 1, Role: domain.RoleAdministrator}
	vis.On("HasVisibleOrders", mock.Anything, actor).Return(true, nil)

	var page []domain.Order
	var err error
	require.NotPanics(t, func() {
		page, err = svc.List(context.Background(), actor, ListParams{Params: paging.Params{Limit: math.MaxInt64, Page: 3}})
	})
	require.NoError(t, err)
	assert.Empty(t, page)
	orders.AssertNotCalled(t, "ListVisible", mock.Anything, mock.Anything, mock.Anything)
}

func TestList_Validation(t *testing.T) {
	svc, _, vis, _, _ := newMockedService()
	actor := domain.Actor{UserID: 1, Role: domain.RoleAdministrator}

	for _, p := range []ListParams{
		{Params: paging.Params{SortBy: "end_date"}},
		{Params: paging.Params{SortDir: "up"}},
		{Params: paging.Params{Limit: -1}},
		{Status: ptr(domain.OrderStatus("done"))},
	} {
		_, err := svc.List(context.Background(), actor, p)
		assert.ErrorIs(t, err, domain.ErrValidation)
	}
	vis.AssertNotCalled(t, "HasVisibleOrders", mock.Anything, mock.Anything)
}

func TestDelete(t *testing.T) {
	svc, orders, _, _, _ := newMockedService()
	orders.On("GetDetailed", mock.Anything, int64(5)).Return(&domain.Order{ID: 5}, nil)
	orders.On("Delete", mock.Anything, int64(5)).Return(nil)
	orders.On("GetDetailed", mock.Anything, int64(6)).Return(nil, repository.ErrNotFound)

	o, err := svc.Delete(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, int64(5), o.ID)

	_, err = svc.Delete(context.Background(), 6)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
