package repository

import (
	"context"

	"carwash/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CatalogRepository persists brands, cars and services. There are no business rules here.
type CatalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

/* ---------- BRANDS ---------- */

func (r *CatalogRepository) ListBrands(ctx context.Context) ([]domain.Brand, error) {
	var brands []domain.Brand
	err := r.db.WithContext(ctx).Order("id").Find(&brands).Error
	return brands, translate(err, "list brands")
}

func (r *CatalogRepository) GetBrand(ctx context.Context, id int64) (*domain.Brand, error) {
	var b domain.Brand
	if err := r.db.WithContext(ctx).First(&b, id).Error; err != nil {
		return nil, translate(err, "get brand")
	}
	return &b, nil
}

func (r *CatalogRepository) CreateBrand(ctx context.Context, b *domain.Brand) error {
	return translate(r.db.WithContext(ctx).Create(b).Error, "create brand")
}

func (r *CatalogRepository) UpdateBrand(ctx context.Context, id int64, fields map[string]any) error {
	return r.updates(ctx, &domain.Brand{}, id, fields, "update brand")
}

func (r *CatalogRepository) DeleteBrand(ctx context.Context, id int64) error {
	return r.delete(ctx, &domain.Brand{}, id, "delete brand")
}

/* ---------- CARS ---------- */

func (r *CatalogRepository) ListCars(ctx context.Context) ([]domain.Car, error) {
	var cars []domain.Car
	err := r.db.WithContext(ctx).Preload("Brand").Order("id").Find(&cars).Error
	return cars, translate(err, "list cars")
}

func (r *CatalogRepository) GetCar(ctx context.Context, id int64) (*domain.Car, error) {
	var c domain.Car
	if err := r.db.WithContext(ctx).Preload("Brand").First(&c, id).Error; err != nil {
		return nil, translate(err, "get car")
	}
	return &c, nil
}

func (r *CatalogRepository) CreateCar(ctx context.Context, c *domain.Car) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(c).Error, "create car")
}

func (r *CatalogRepository) UpdateCar(ctx context.Context, id int64, fields map[string]any) error {
	return r.updates(ctx, &domain.Car{}, id, fields, "update car")
}

func (r *CatalogRepository) DeleteCar(ctx context.Context, id int64) error {
	return r.delete(ctx, &domain.Car{}, id, "delete car")
}

/* ---------- SERVICES ---------- */

func (r *CatalogRepository) ListServices(ctx context.Context) ([]domain.Service, error) {
	var services []domain.Service
	err := r.db.WithContext(ctx).Order("id").Find(&services).Error
	return services, translate(err, "list services")
}

func (r *CatalogRepository) GetService(ctx context.Context, id int64) (*domain.Service, error) {
	var s domain.Service
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, translate(err, "get service")
	}
	return &s, nil
}

func (r *CatalogRepository) CreateService(ctx context.Context, s *domain.Service) error {
	return translate(r.db.WithContext(ctx).Create(s).Error, "create service")
}

func (r *CatalogRepository) UpdateService(ctx context.Context, id int64, fields map[string]any) error {
	return r.updates(ctx, &domain.Service{}, id, fields, "update service")
}

func (r *CatalogRepository) DeleteService(ctx context.Context, id int64) error {
	return r.delete(ctx, &domain.Service{}, id, "delete service")
}

func (r *CatalogRepository) updates(ctx context.Context, model any, id int64, fields map[string]any, op string) error {
	if len(fields) == 0 {
		return nil
	}
	tx := r.db.WithContext(ctx).Model(model).Where("id = ?", id).Updates(fields)
	if tx.Error != nil {
		return translate(tx.Error, op)
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *CatalogRepository) delete(ctx context.Context, model any, id int64, op string) error {
	tx := r.db.WithContext(ctx).Delete(model, id)
	if tx.Error != nil {
		return translate(tx.Error, op)
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
