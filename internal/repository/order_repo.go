package repository

import (
	"context"
	"slices"
	"time"

	"carwash/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// detailBatch bounds the ids bound into one IN list, preloads included.
const detailBatch = 500

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// withDetails eagerly loads everything the read model needs.
func withDetails(q *gorm.DB) *gorm.DB {
	return q.
		Preload("OrderServices", func(db *gorm.DB) *gorm.DB { return db.Order("order_services.id") }).
		Preload("OrderServices.Service").
		Preload("CustomerCar.Car").
		Preload("Employee").
		Preload("Administrator")
}

// visibleTo narrows q to orders the actor may see: administrators see everything,
// anyone else sees orders where they are the employee, the administrator or the car owner.
func visibleTo(q, base *gorm.DB, actor domain.Actor, table string) *gorm.DB {
	if actor.IsAdministrator() {
		return q
	}
	owned := base.Model(&domain.CustomerCar{}).Select("id").Where("customer_id = ?", actor.UserID)
	return q.Where(
		"("+table+".employee_id = ? OR "+table+".administrator_id = ? OR "+table+".customer_car_id IN (?))",
		actor.UserID, actor.UserID, owned,
	)
}

func normalizeDates(o *domain.Order) {
	o.StartDate = o.StartDate.UTC()
	if o.EndDate != nil {
		end := o.EndDate.UTC()
		o.EndDate = &end
	}
}

func (r *OrderRepository) Create(ctx context.Context, o *domain.Order) error {
	normalizeDates(o)
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(o).Error, "create order")
}

// GetByID loads the bare order row.
func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	var o domain.Order
	if err := r.db.WithContext(ctx).First(&o, id).Error; err != nil {
		return nil, translate(err, "get order")
	}
	return &o, nil
}

// GetDetailed loads the order with services, vehicle, employee and administrator.
func (r *OrderRepository) GetDetailed(ctx context.Context, id int64) (*domain.Order, error) {
	var o domain.Order
	if err := withDetails(r.db.WithContext(ctx)).First(&o, id).Error; err != nil {
		return nil, translate(err, "get order details")
	}
	return &o, nil
}

func (r *OrderRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&domain.Order{}).Where("id = ?", id).Count(&cnt).Error
	if err != nil {
		return false, translate(err, "count orders")
	}
	return cnt > 0, nil
}

// IsVisible reports whether a single order passes the visibility predicate.
func (r *OrderRepository) IsVisible(ctx context.Context, actor domain.Actor, id int64) (bool, error) {
	q := visibleTo(r.db.WithContext(ctx).Model(&domain.Order{}), r.db, actor, "orders").
		Where("orders.id = ?", id)

	var cnt int64
	if err := q.Count(&cnt).Error; err != nil {
		return false, translate(err, "order visibility")
	}
	return cnt > 0, nil
}

// visibleQuery selects the ids of the orders the actor sees.
func (r *OrderRepository) visibleQuery(ctx context.Context, actor domain.Actor) *gorm.DB {
	return visibleTo(r.db.WithContext(ctx).Model(&domain.Order{}).Select("orders.id"), r.db, actor, "orders")
}

// VisibleIDs evaluates the visibility predicate as one set-returning query.
func (r *OrderRepository) VisibleIDs(ctx context.Context, actor domain.Actor) ([]int64, error) {
	var ids []int64
	if err := r.visibleQuery(ctx, actor).Order("orders.id").Pluck("orders.id", &ids).Error; err != nil {
		return nil, translate(err, "visible orders")
	}
	return ids, nil
}

// HasVisible reports whether the actor sees at least one order.
func (r *OrderRepository) HasVisible(ctx context.Context, actor domain.Actor) (bool, error) {
	var ids []int64
	if err := r.visibleQuery(ctx, actor).Limit(1).Pluck("orders.id", &ids).Error; err != nil {
		return false, translate(err, "any visible order")
	}
	return len(ids) > 0, nil
}

// OrderPage selects one page of orders. SortColumn must come from a whitelist.
type OrderPage struct {
	Status     *domain.OrderStatus
	SortColumn string
	Desc       bool
	Offset     int
	Limit      int
}

// ListVisible sorts and pages the actor's orders in SQL, then loads details for
// that page only.
func (r *OrderRepository) ListVisible(ctx context.Context, actor domain.Actor, page OrderPage) ([]domain.Order, error) {
	q := r.db.WithContext(ctx).Model(&domain.Order{}).Where("orders.id IN (?)", r.visibleQuery(ctx, actor))
	if page.Status != nil {
		q = q.Where("orders.status = ?", *page.Status)
	}
	q = q.Order(clause.OrderByColumn{Column: clause.Column{Table: "orders", Name: page.SortColumn}, Desc: page.Desc})
	if page.SortColumn != "id" {
		q = q.Order(clause.OrderByColumn{Column: clause.Column{Table: "orders", Name: "id"}})
	}

	var ids []int64
	if err := q.Offset(page.Offset).Limit(page.Limit).Pluck("orders.id", &ids).Error; err != nil {
		return nil, translate(err, "list orders")
	}
	return r.loadDetailed(ctx, ids)
}

// loadDetailed fetches ids with their relations in bounded batches and keeps
// the order of ids. Rows deleted in the meantime are dropped.
func (r *OrderRepository) loadDetailed(ctx context.Context, ids []int64) ([]domain.Order, error) {
	byID := make(map[int64]domain.Order, len(ids))
	for chunk := range slices.Chunk(ids, detailBatch) {
		var part []domain.Order
		if err := withDetails(r.db.WithContext(ctx)).Where("orders.id IN ?", chunk).Find(&part).Error; err != nil {
			return nil, translate(err, "load order details")
		}
		for _, o := range part {
			byID[o.ID] = o
		}
	}

	out := make([]domain.Order, 0, len(ids))
	for _, id := range ids {
		if o, ok := byID[id]; ok {
			out = append(out, o)
		}
	}
	return out, nil
}

// UpdateFields applies a sparse update keyed by column name.
func (r *OrderRepository) UpdateFields(ctx context.Context, id int64, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	tx := r.db.WithContext(ctx).Model(&domain.Order{}).Where("id = ?", id).Updates(fields)
	if tx.Error != nil {
		return translate(tx.Error, "update order")
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the order together with its order services.
func (r *OrderRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&domain.OrderService{}).Error; err != nil {
			return translate(err, "delete order services")
		}
		res := tx.Delete(&domain.Order{}, id)
		if res.Error != nil {
			return translate(res.Error, "delete order")
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

/* ---------- NOTIFICATION DISPATCH ---------- */

// MarkElapsedCompleted flips every un-notified order whose end passed before now
// to completed and returns how many rows changed.
func (r *OrderRepository) MarkElapsedCompleted(ctx context.Context, now time.Time) (int64, error) {
	tx := r.db.WithContext(ctx).
		Model(&domain.Order{}).
		Where("notified = ?", false).
		Where("status <> ?", domain.OrderCompleted).
		Where("end_date IS NOT NULL AND end_date < ?", now.UTC()).
		Update("status", domain.OrderCompleted)
	if tx.Error != nil {
		return 0, translate(tx.Error, "mark elapsed orders")
	}
	return tx.RowsAffected, nil
}

// PendingNotification lists completed orders whose owner has not been told yet.
func (r *OrderRepository) PendingNotification(ctx context.Context) ([]domain.Order, error) {
	var out []domain.Order
	err := r.db.WithContext(ctx).
		Preload("CustomerCar.Customer").
		Where("status = ? AND notified = ?", domain.OrderCompleted, false).
		Order("id").
		Find(&out).Error
	return out, translate(err, "pending notifications")
}

func (r *OrderRepository) MarkNotified(ctx context.Context, id int64) error {
	tx := r.db.WithContext(ctx).Model(&domain.Order{}).Where("id = ?", id).Update("notified", true)
	if tx.Error != nil {
		return translate(tx.Error, "mark notified")
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
