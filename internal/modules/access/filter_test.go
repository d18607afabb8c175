package access

import (
	"context"
	"errors"
	"testing"

	"carwash/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderSource struct {
	mock.Mock
}

func (m *MockOrderSource) VisibleIDs(ctx context.Context, actor domain.Actor) ([]int64, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockOrderSource) HasVisible(ctx context.Context, actor domain.Actor) (bool, error) {
	args := m.Called(ctx, actor)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderSource) IsVisible(ctx context.Context, actor domain.Actor, id int64) (bool, error) {
	args := m.Called(ctx, actor, id)
	return args.Bool(0), args.Error(1)
}

type MockOrderServiceSource struct {
	mock.Mock
}

func (m *MockOrderServiceSource) Visible(ctx context.Context, actor domain.Actor) ([]domain.OrderService, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.OrderService), args.Error(1)
}

func TestVisibleOrders_UnresolvedActorYieldsEmpty(t *testing.T) {
	orders := new(MockOrderSource)
	f := NewFilter(orders, new(MockOrderServiceSource))

	for _, actor := range []domain.Actor{
		{},
		{UserID: 5},
		{UserID: 5, Role: domain.Role(42)},
		{Role: domain.RoleAdministrator},
	} {
		ids, err := f.VisibleOrders(context.Background(), actor)
		require.NoError(t, err)
		assert.Empty(t, ids)
		assert.NotNil(t, ids)
	}
	orders.AssertNotCalled(t, "VisibleIDs", mock.Anything, mock.Anything)
}

func TestVisibleOrders_DelegatesForResolvedActor(t *testing.T) {
	orders := new(MockOrderSource)
	actor := domain.Actor{UserID: 3, Role: domain.RoleCustomer}
	orders.On("VisibleIDs", mock.Anything, actor).Return([]int64{1, 4}, nil)

	ids, err := NewFilter(orders, nil).VisibleOrders(context.Background(), actor)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 4}, ids)
	orders.AssertExpectations(t)
}

func TestVisibleOrders_PropagatesStorageError(t *testing.T) {
	orders := new(MockOrderSource)
	actor := domain.Actor{UserID: 3, Role: domain.RoleEmployee}
	boom := errors.New("db down")
	orders.On("VisibleIDs", mock.Anything, actor).Return(nil, boom)

	_, err := NewFilter(orders, nil).VisibleOrders(context.Background(), actor)
	assert.ErrorIs(t, err, boom)
}

func TestHasVisibleOrders_UnresolvedActorSeesNothing(t *testing.T) {
	orders := new(MockOrderSource)
	f := NewFilter(orders, new(MockOrderServiceSource))

	for _, actor := range []domain.Actor{
		{},
		{UserID: 5},
		{UserID: 5, Role: domain.Role(42)},
		{Role: domain.RoleAdministrator},
	} {
		ok, err := f.HasVisibleOrders(context.Background(), actor)
		require.NoError(t, err)
		assert.False(t, ok)
	}
	orders.AssertNotCalled(t, "HasVisible", mock.Anything, mock.Anything)
}

func TestHasVisibleOrders_DelegatesForResolvedActor(t *testing.T) {
	orders := new(MockOrderSource)
	actor := domain.Actor{UserID: 3, Role: domain.RoleCustomer}
	orders.On("HasVisible", mock.Anything, actor).Return(true, nil)

	ok, err := NewFilter(orders, nil).HasVisibleOrders(context.Background(), actor)
	require.NoError(t, err)
	assert.True(t, ok)
	orders.AssertExpectations(t)
}

func TestHasVisibleOrders_PropagatesStorageError(t *testing.T) {
	orders := new(MockOrderSource)
	actor := domain.Actor{UserID: 3, Role: domain.RoleEmployee}
	boom := errors.New("db down")
	orders.On("HasVisible", mock.Anything, actor).Return(false, boom)

	_, err := NewFilter(orders, nil).HasVisibleOrders(context.Background(), actor)
	assert.ErrorIs(t, err, boom)
}

func TestVisibleOrderServices(t *testing.T) {
	rows := new(MockOrderServiceSource)
	actor := domain.Actor{UserID: 2, Role: domain.RoleEmployee}
	rows.On("Visible", mock.Anything, actor).Return(nil, nil)
	f := NewFilter(nil, rows)

	out, err := f.VisibleOrderServices(context.Background(), actor)
	require.NoError(t, err)
	assert.NotNil(t, out)
	assert.Empty(t, out)

	out, err = f.VisibleOrderServices(context.Background(), domain.Actor{})
	require.NoError(t, err)
	assert.Empty(t, out)
	rows.AssertNumberOfCalls(t, "Visible", 1)
}

func TestCanAccess(t *testing.T) {
	orders := new(MockOrderSource)
	actor := domain.Actor{UserID: 2, Role: domain.RoleEmployee}
	orders.On("IsVisible", mock.Anything, actor, int64(9)).Return(true, nil)
	f := NewFilter(orders, nil)

	ok, err := f.CanAccess(context.Background(), actor, 9)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.CanAccess(context.Background(), domain.Actor{UserID: 2}, 9)
	require.NoError(t, err)
	assert.False(t, ok)
}
