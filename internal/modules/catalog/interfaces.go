package catalog

import (
	"context"

	"carwash/internal/domain"
	"carwash/internal/repository"
)

type CatalogRepository interface {
	ListBrands(ctx context.Context) ([]domain.Brand, error)
	GetBrand(ctx context.Context, id int64) (*domain.Brand, error)
	CreateBrand(ctx context.Context, b *domain.Brand) error
	UpdateBrand(ctx context.Context, id int64, fields map[string]any) error
	DeleteBrand(ctx context.Context, id int64) error

	ListCars(ctx context.Context) ([]domain.Car, error)
	GetCar(ctx context.Context, id int64) (*domain.Car, error)
	CreateCar(ctx context.Context, c *domain.Car) error
	UpdateCar(ctx context.Context, id int64, fields map[string]any) error
	DeleteCar(ctx context.Context, id int64) error

	ListServices(ctx context.Context) ([]domain.Service, error)
	GetService(ctx context.Context, id int64) (*domain.Service, error)
	CreateService(ctx context.Context, s *domain.Service) error
	UpdateService(ctx context.Context, id int64, fields map[string]any) error
	DeleteService(ctx context.Context, id int64) error
}

type CustomerCarRepository interface {
	Create(ctx context.Context, cc *domain.CustomerCar) error
	GetByID(ctx context.Context, id int64) (*domain.CustomerCar, error)
	List(ctx context.Context, f repository.CustomerCarFilters) ([]domain.CustomerCar, error)
	Update(ctx context.Context, id int64, fields map[string]any) error
	Delete(ctx context.Context, id int64) error
}

type UserLookup interface {
	Exists(ctx context.Context, ids ...int64) (bool, error)
}
