// Package order creates, updates, deletes and lists orders and guards orders
// whose end time has already passed.
package order

import (
	"context"
	"errors"
	"time"

	"carwash/internal/domain"
	"carwash/internal/pkg/paging"
	"carwash/internal/repository"

	"go.uber.org/zap"
)

var sortColumns = paging.Columns{
	"id":         "id",
	"start_date": "start_date",
}

type Service struct {
	orders   OrderRepository
	access   Visibility
	users    UserLookup
	cars     CarLookup
	loc      *time.Location
	now      func() time.Time
	notifier ChangeNotifier
}

func NewService(orders OrderRepository, access Visibility, users UserLookup, cars CarLookup, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		orders: orders,
		access: access,
		users:  users,
		cars:   cars,
		loc:    loc,
		now:    time.Now,
	}
}

func (s *Service) SetNotifier(n ChangeNotifier) {
	s.notifier = n
}

func (s *Service) Create(ctx context.Context, req CreateOrderRequest) (*domain.Order, error) {
	status := domain.OrderScheduled
	if req.Status != nil {
		status = *req.Status
	}
	if !status.Valid() {
		return nil, domain.Invalid("status", status)
	}

	start := s.now().In(s.loc)
	if req.StartDate != nil {
		start = *req.StartDate
	}
	if req.EndDate != nil && req.EndDate.Before(start) {
		return nil, domain.Invalid("end_date", req.EndDate.Format(time.RFC3339))
	}

	if err := s.checkUser(ctx, "administrator_id", req.AdministratorID); err != nil {
		return nil, err
	}
	if err := s.checkUser(ctx, "employee_id", req.EmployeeID); err != nil {
		return nil, err
	}
	if err := s.checkCar(ctx, req.CustomerCarID); err != nil {
		return nil, err
	}

	o := &domain.Order{
		AdministratorID: req.AdministratorID,
		EmployeeID:      req.EmployeeID,
		CustomerCarID:   req.CustomerCarID,
		Status:          status,
		StartDate:       start,
		EndDate:         req.EndDate,
	}
	if err := s.orders.Create(ctx, o); err != nil {
		return nil, err
	}

	zap.S().Infow("order created", "order_id", o.ID, "employee_id", o.EmployeeID, "customer_car_id", o.CustomerCarID)
	s.changed(ctx, o.ID)
	return s.detailed(ctx, o.ID)
}

// Update applies only the fields present in req. Orders whose end time has
// passed are rejected with ErrTerminalOrder and left untouched.
func (s *Service) Update(ctx context.Context, id int64, req UpdateOrderRequest) (*domain.Order, error) {
	o, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, repository.DomainError(err)
	}
	if o.Terminal(s.now()) {
		return nil, domain.ErrTerminalOrder
	}

	fields := map[string]any{}
	if req.AdministratorID != nil {
		if err := s.checkUser(ctx, "administrator_id", *req.AdministratorID); err != nil {
			return nil, err
		}
		fields["administrator_id"] = *req.AdministratorID
	}
	if req.EmployeeID != nil {
		if err := s.checkUser(ctx, "employee_id", *req.EmployeeID); err != nil {
			return nil, err
		}
		fields["employee_id"] = *req.EmployeeID
	}
	if req.CustomerCarID != nil {
		if err := s.checkCar(ctx, *req.CustomerCarID); err != nil {
			return nil, err
		}
		fields["customer_car_id"] = *req.CustomerCarID
	}
	if req.Status != nil {
		if !req.Status.Valid() {
			return nil, domain.Invalid("status", *req.Status)
		}
		fields["status"] = *req.Status
	}

	if err := s.orders.UpdateFields(ctx, id, fields); err != nil {
		return nil, repository.DomainError(err)
	}
	if len(fields) > 0 {
		s.changed(ctx, id)
	}
	return s.detailed(ctx, id)
}

// Delete removes the order and its order services; it returns the deleted order.
func (s *Service) Delete(ctx context.Context, id int64) (*domain.Order, error) {
	o, err := s.detailed(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.orders.Delete(ctx, id); err != nil {
		return nil, repository.DomainError(err)
	}
	zap.S().Infow("order deleted", "order_id", id, "services", len(o.OrderServices))
	return o, nil
}

// Get distinguishes a missing order (ErrNotFound) from an invisible one (ErrForbidden).
func (s *Service) Get(ctx context.Context, id int64, actor domain.Actor) (*domain.Order, error) {
	o, err := s.detailed(ctx, id)
	if err != nil {
		return nil, err
	}
	ok, err := s.access.CanAccess(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrForbidden
	}
	return o, nil
}

// List fails with ErrForbidden when the actor sees no orders at all; otherwise it
// returns one sorted page of the visible orders.
func (s *Service) List(ctx context.Context, actor domain.Actor, p ListParams) ([]domain.Order, error) {
	if err := p.Normalize(sortColumns.Fields()); err != nil {
		return nil, err
	}
	if p.Status != nil && !p.Status.Valid() {
		return nil, domain.Invalid("status", *p.Status)
	}

	ok, err := s.access.HasVisibleOrders(ctx, actor)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrForbidden
	}

	offset, ok := p.Offset()
	if !ok {
		return []domain.Order{}, nil
	}
	orders, err := s.orders.ListVisible(ctx, actor, repository.OrderPage{
		Status:     p.Status,
		SortColumn: sortColumns[p.SortBy],
		Desc:       p.SortDir == paging.Desc,
		Offset:     offset,
		Limit:      p.Limit,
	})
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	return orders, nil
}

func (s *Service) detailed(ctx context.Context, id int64) (*domain.Order, error) {
	o, err := s.orders.GetDetailed(ctx, id)
	if err != nil {
		return nil, repository.DomainError(err)
	}
	return o, nil
}

func (s *Service) checkUser(ctx context.Context, field string, id int64) error {
	ok, err := s.users.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return domain.Invalid(field, id)
	}
	return nil
}

func (s *Service) checkCar(ctx context.Context, id int64) error {
	_, err := s.cars.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return domain.Invalid("customer_car_id", id)
	}
	return err
}

func (s *Service) changed(ctx context.Context, id int64) {
	if s.notifier != nil {
		s.notifier.OrderChanged(ctx, id)
	}
}
