package orderservice

import (
	"context"

	"carwash/internal/domain"
	"carwash/internal/repository"
)

// OrderServiceRepository is the storage the engine needs.
type OrderServiceRepository interface {
	InTx(ctx context.Context, fn func(tx repository.AttachTx) error) error
	GetByID(ctx context.Context, id int64) (*domain.OrderService, error)
	UpdateFields(ctx context.Context, id int64, fields map[string]any) error
	Delete(ctx context.Context, id int64) error
}

type Visibility interface {
	VisibleOrderServices(ctx context.Context, actor domain.Actor) ([]domain.OrderService, error)
}

// ChangeNotifier is told about orders whose services changed.
type ChangeNotifier interface {
	OrderChanged(ctx context.Context, orderID int64)
}
