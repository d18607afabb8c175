// Package access decides which orders and order services an actor may see.
package access

import (
	"context"

	"carwash/internal/domain"
)

type OrderSource interface {
	VisibleIDs(ctx context.Context, actor domain.Actor) ([]int64, error)
	HasVisible(ctx context.Context, actor domain.Actor) (bool, error)
	IsVisible(ctx context.Context, actor domain.Actor, id int64) (bool, error)
}

type OrderServiceSource interface {
	Visible(ctx context.Context, actor domain.Actor) ([]domain.OrderService, error)
}

// Filter evaluates the visibility predicate. An unresolved actor always gets
// an empty result; callers decide between 403 and 404.
type Filter struct {
	orders        OrderSource
	orderServices OrderServiceSource
}

func NewFilter(orders OrderSource, orderServices OrderServiceSource) *Filter {
	return &Filter{orders: orders, orderServices: orderServices}
}

func (f *Filter) VisibleOrders(ctx context.Context, actor domain.Actor) ([]int64, error) {
	if !actor.Resolved() {
		return []int64{}, nil
	}
	ids, err := f.orders.VisibleIDs(ctx, actor)
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []int64{}
	}
	return ids, nil
}

// HasVisibleOrders reports whether the actor sees any order at all.
func (f *Filter) HasVisibleOrders(ctx context.Context, actor domain.Actor) (bool, error) {
	if !actor.Resolved() {
		return false, nil
	}
	return f.orders.HasVisible(ctx, actor)
}

func (f *Filter) VisibleOrderServices(ctx context.Context, actor domain.Actor) ([]domain.OrderService, error) {
	if !actor.Resolved() {
		return []domain.OrderService{}, nil
	}
	rows, err := f.orderServices.Visible(ctx, actor)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []domain.OrderService{}
	}
	return rows, nil
}

// CanAccess checks a single order without materialising the whole visible set.
func (f *Filter) CanAccess(ctx context.Context, actor domain.Actor, orderID int64) (bool, error) {
	if !actor.Resolved() {
		return false, nil
	}
	return f.orders.IsVisible(ctx, actor, orderID)
}
