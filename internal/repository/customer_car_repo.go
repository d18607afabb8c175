package repository

import (
	"context"
	"strings"

	"carwash/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CustomerCarFilters struct {
	CustomerID int64
	CarModel   string
}

type CustomerCarRepository struct {
	db *gorm.DB
}

func NewCustomerCarRepository(db *gorm.DB) *CustomerCarRepository {
	return &CustomerCarRepository{db: db}
}

func (r *CustomerCarRepository) withDetails(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Car.Brand").
		Preload("Customer")
}

func (r *CustomerCarRepository) Create(ctx context.Context, cc *domain.CustomerCar) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(cc).Error, "create customer car")
}

func (r *CustomerCarRepository) GetByID(ctx context.Context, id int64) (*domain.CustomerCar, error) {
	var cc domain.CustomerCar
	if err := r.withDetails(ctx).First(&cc, id).Error; err != nil {
		return nil, translate(err, "get customer car")
	}
	return &cc, nil
}

// List returns the customer's cars, optionally narrowed to models containing CarModel.
func (r *CustomerCarRepository) List(ctx context.Context, f CustomerCarFilters) ([]domain.CustomerCar, error) {
	q := r.withDetails(ctx).Where("customer_cars.customer_id = ?", f.CustomerID)

	if m := strings.TrimSpace(f.CarModel); m != "" {
		q = q.Joins("JOIN cars ON cars.id = customer_cars.car_id").
			Where("LOWER(cars.model) LIKE ?", "%"+strings.ToLower(m)+"%")
	}

	var out []domain.CustomerCar
	err := q.Order("customer_cars.id").Find(&out).Error
	return out, translate(err, "list customer cars")
}

func (r *CustomerCarRepository) Update(ctx context.Context, id int64, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	tx := r.db.WithContext(ctx).Model(&domain.CustomerCar{}).Where("id = ?", id).Updates(fields)
	if tx.Error != nil {
		return translate(tx.Error, "update customer car")
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *CustomerCarRepository) Delete(ctx context.Context, id int64) error {
	tx := r.db.WithContext(ctx).Delete(&domain.CustomerCar{}, id)
	if tx.Error != nil {
		return translate(tx.Error, "delete customer car")
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
