package repository

import (
	"context"
	"time"

	"carwash/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AttachTx is the storage view of one service-attachment batch. Every call runs
// inside the same transaction, so later calls observe earlier writes.
type AttachTx interface {
	// LockOrder loads the order and holds a row lock until the batch commits.
	LockOrder(ctx context.Context, orderID int64) (*domain.Order, error)
	FindService(ctx context.Context, serviceID int64) (*domain.Service, error)
	// FindAttachment returns the existing row for (order, service) with its Service, or ErrNotFound.
	FindAttachment(ctx context.Context, orderID, serviceID int64) (*domain.OrderService, error)
	CreateAttachment(ctx context.Context, os *domain.OrderService) error
	SaveEndDate(ctx context.Context, orderID int64, end time.Time) error
}

type OrderServiceRepository struct {
	db *gorm.DB
}

func NewOrderServiceRepository(db *gorm.DB) *OrderServiceRepository {
	return &OrderServiceRepository{db: db}
}

// InTx runs fn in one transaction; any returned error rolls the whole batch back.
func (r *OrderServiceRepository) InTx(ctx context.Context, fn func(tx AttachTx) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&attachTx{db: tx})
	})
}

type attachTx struct {
	db *gorm.DB
}

func (t *attachTx) LockOrder(ctx context.Context, orderID int64) (*domain.Order, error) {
	var o domain.Order
	err := t.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&o, orderID).Error
	if err != nil {
		return nil, translate(err, "lock order")
	}
	return &o, nil
}

func (t *attachTx) FindService(ctx context.Context, serviceID int64) (*domain.Service, error) {
	var s domain.Service
	if err := t.db.WithContext(ctx).First(&s, serviceID).Error; err != nil {
		return nil, translate(err, "get service")
	}
	return &s, nil
}

func (t *attachTx) FindAttachment(ctx context.Context, orderID, serviceID int64) (*domain.OrderService, error) {
	var os domain.OrderService
	err := t.db.WithContext(ctx).
		Preload("Service").
		Where("order_id = ? AND service_id = ?", orderID, serviceID).
		First(&os).Error
	if err != nil {
		return nil, translate(err, "find order service")
	}
	return &os, nil
}

func (t *attachTx) CreateAttachment(ctx context.Context, os *domain.OrderService) error {
	return translate(t.db.WithContext(ctx).Omit(clause.Associations).Create(os).Error, "create order service")
}

func (t *attachTx) SaveEndDate(ctx context.Context, orderID int64, end time.Time) error {
	tx := t.db.WithContext(ctx).
		Model(&domain.Order{}).
		Where("id = ?", orderID).
		Update("end_date", end.UTC())
	if tx.Error != nil {
		return translate(tx.Error, "extend order")
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Visible joins order services to their parent order and keeps rows whose order
// passes the same visibility predicate as orders.
func (r *OrderServiceRepository) Visible(ctx context.Context, actor domain.Actor) ([]domain.OrderService, error) {
	q := r.db.WithContext(ctx).
		Model(&domain.OrderService{}).
		Joins("JOIN orders ON orders.id = order_services.order_id").
		Preload("Service").
		Preload("Order")
	q = visibleTo(q, r.db, actor, "orders")

	var out []domain.OrderService
	if err := q.Order("order_services.id").Find(&out).Error; err != nil {
		return nil, translate(err, "visible order services")
	}
	return out, nil
}

func (r *OrderServiceRepository) GetByID(ctx context.Context, id int64) (*domain.OrderService, error) {
	var os domain.OrderService
	if err := r.db.WithContext(ctx).Preload("Service").First(&os, id).Error; err != nil {
		return nil, translate(err, "get order service")
	}
	return &os, nil
}

func (r *OrderServiceRepository) UpdateFields(ctx context.Context, id int64, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	tx := r.db.WithContext(ctx).Model(&domain.OrderService{}).Where("id = ?", id).Updates(fields)
	if tx.Error != nil {
		return translate(tx.Error, "update order service")
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *OrderServiceRepository) Delete(ctx context.Context, id int64) error {
	tx := r.db.WithContext(ctx).Delete(&domain.OrderService{}, id)
	if tx.Error != nil {
		return translate(tx.Error, "delete order service")
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
