package order

import (
	"context"

	"carwash/internal/domain"
	"carwash/internal/repository"
)

// OrderRepository defines the storage operations the lifecycle manager needs
type OrderRepository interface {
	Create(ctx context.Context, o *domain.Order) error
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	GetDetailed(ctx context.Context, id int64) (*domain.Order, error)
	ListVisible(ctx context.Context, actor domain.Actor, page repository.OrderPage) ([]domain.Order, error)
	UpdateFields(ctx context.Context, id int64, fields map[string]any) error
	Delete(ctx context.Context, id int64) error
}

type Visibility interface {
	HasVisibleOrders(ctx context.Context, actor domain.Actor) (bool, error)
	CanAccess(ctx context.Context, actor domain.Actor, orderID int64) (bool, error)
}

type UserLookup interface {
	Exists(ctx context.Context, ids ...int64) (bool, error)
}

type CarLookup interface {
	GetByID(ctx context.Context, id int64) (*domain.CustomerCar, error)
}

type ChangeNotifier interface {
	OrderChanged(ctx context.Context, orderID int64)
}
