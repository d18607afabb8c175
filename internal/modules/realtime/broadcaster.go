package realtime

import (
	"context"

	"carwash/internal/domain"
	"carwash/internal/readmodel"

	"go.uber.org/zap"
)

type OrderLoader interface {
	GetDetailed(ctx context.Context, id int64) (*domain.Order, error)
}

type Publisher interface {
	Online(userIDs []int64, admins bool) bool
	Publish(event Event, userIDs []int64, admins bool) int
}

// Broadcaster pushes the projected order to everyone who can see it.
type Broadcaster struct {
	orders    OrderLoader
	projector *readmodel.Projector
	hub       Publisher
}

func NewBroadcaster(orders OrderLoader, projector *readmodel.Projector, hub Publisher) *Broadcaster {
	return &Broadcaster{orders: orders, projector: projector, hub: hub}
}

func (b *Broadcaster) OrderChanged(ctx context.Context, orderID int64) {
	o, err := b.orders.GetDetailed(ctx, orderID)
	if err != nil {
		zap.S().Warnw("realtime: load order", "order_id", orderID, "error", err)
		return
	}
	audience := Audience(o)
	if !b.hub.Online(audience, true) {
		return
	}
	n := b.hub.Publish(Event{Type: EventOrderUpdated, Payload: b.projector.Order(o)}, audience, true)
	zap.S().Debugw("realtime: order pushed", "order_id", orderID, "connections", n)
}

// Audience lists the non-administrator users allowed to see o.
func Audience(o *domain.Order) []int64 {
	ids := []int64{o.EmployeeID, o.AdministratorID}
	if o.CustomerCar != nil {
		ids = append(ids, o.CustomerCar.CustomerID)
	}
	return ids
}
