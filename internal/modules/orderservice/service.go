// Package orderservice attaches catalog services to orders and keeps each
// order's end time equal to its start plus the durations of its services.
package orderservice

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"carwash/internal/domain"
	"carwash/internal/pkg/paging"
	"carwash/internal/repository"

	"go.uber.org/zap"
)

var sortable = paging.Comparators[domain.OrderService]{
	"id":       func(a, b domain.OrderService) int { return cmp.Compare(a.ID, b.ID) },
	"order_id": func(a, b domain.OrderService) int { return cmp.Compare(a.OrderID, b.OrderID) },
	"service_name": func(a, b domain.OrderService) int {
		return strings.Compare(serviceName(&a), serviceName(&b))
	},
}

type Service struct {
	repo     OrderServiceRepository
	access   Visibility
	notifier ChangeNotifier
}

func NewService(repo OrderServiceRepository, access Visibility) *Service {
	return &Service{repo: repo, access: access}
}

// SetNotifier registers a listener for orders changed by Attach.
func (s *Service) SetNotifier(n ChangeNotifier) {
	s.notifier = n
}

// Attach processes serviceIDs in order inside one transaction. Logical rejections
// are reported per item and never abort the batch; a missing order or any storage
// failure does, and nothing is committed.
func (s *Service) Attach(ctx context.Context, orderID int64, serviceIDs []int64) ([]AttachResult, error) {
	if len(serviceIDs) == 0 {
		return nil, domain.Invalid("service_ids", serviceIDs)
	}

	var results []AttachResult
	err := s.repo.InTx(ctx, func(tx repository.AttachTx) error {
		results = make([]AttachResult, 0, len(serviceIDs))

		order, err := tx.LockOrder(ctx, orderID)
		if errors.Is(err, repository.ErrNotFound) {
			return domain.ErrNotFound
		}
		if err != nil {
			return err
		}

		extended := false
		for _, serviceID := range serviceIDs {
			res, grew, err := attachOne(ctx, tx, order, serviceID)
			if err != nil {
				return err
			}
			extended = extended || grew
			results = append(results, res)
		}

		if extended {
			return tx.SaveEndDate(ctx, order.ID, *order.EndDate)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	observe(results)
	created, rejections := Split(results)
	if len(rejections) > 0 {
		zap.S().Infow("service attachment partially rejected",
			"order_id", orderID, "created", len(created), "rejected", len(rejections))
	}
	if len(created) > 0 && s.notifier != nil {
		s.notifier.OrderChanged(ctx, orderID)
	}
	return results, nil
}

// attachOne applies one item to the locked order. grew reports whether the
// order's end time moved.
func attachOne(ctx context.Context, tx repository.AttachTx, order *domain.Order, serviceID int64) (res AttachResult, grew bool, err error) {
	svc, err := tx.FindService(ctx, serviceID)
	if errors.Is(err, repository.ErrNotFound) {
		return rejected(serviceID, ReasonServiceNotFound, "Service not found"), false, nil
	}
	if err != nil {
		return AttachResult{}, false, err
	}

	if !order.Status.AcceptsServices() {
		msg := fmt.Sprintf("Order is %s and no longer accepts services", order.Status)
		return rejected(serviceID, ReasonLockedOrder, msg), false, nil
	}

	existing, err := tx.FindAttachment(ctx, order.ID, serviceID)
	switch {
	case err == nil:
		msg := fmt.Sprintf("Service '%s' is already in the order", serviceName(existing))
		return rejected(serviceID, ReasonDuplicate, msg), false, nil
	case !errors.Is(err, repository.ErrNotFound):
		return AttachResult{}, false, err
	}

	row := &domain.OrderService{OrderID: order.ID, ServiceID: serviceID}
	if err := tx.CreateAttachment(ctx, row); err != nil {
		return AttachResult{}, false, err
	}
	row.Service = svc

	order.ExtendBy(time.Duration(svc.Duration) * time.Second)
	return accepted(serviceID, row), true, nil
}

func serviceName(os *domain.OrderService) string {
	if os.Service == nil {
		return ""
	}
	return os.Service.Name
}

// List returns the actor's visible order services, optionally for one order,
// sorted and paginated. An empty visible set yields an empty page.
func (s *Service) List(ctx context.Context, actor domain.Actor, p ListParams) ([]domain.OrderService, error) {
	if err := p.Normalize(sortable.Fields()); err != nil {
		return nil, err
	}

	rows, err := s.access.VisibleOrderServices(ctx, actor)
	if err != nil {
		return nil, err
	}
	if p.OrderID != nil {
		filtered := make([]domain.OrderService, 0, len(rows))
		for _, r := range rows {
			if r.OrderID == *p.OrderID {
				filtered = append(filtered, r)
			}
		}
		rows = filtered
	}
	return paging.Apply(rows, sortable, p.Params), nil
}

// Get looks the row up among the actor's visible rows only.
func (s *Service) Get(ctx context.Context, actor domain.Actor, id int64) (*domain.OrderService, error) {
	rows, err := s.access.VisibleOrderServices(ctx, actor)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		if rows[i].ID == id {
			return &rows[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

// Reassign moves an order service to another service or order. The parent
// order's end time is left as is.
func (s *Service) Reassign(ctx context.Context, id int64, req ReassignRequest) (*domain.OrderService, error) {
	fields := map[string]any{}
	if req.ServiceID != nil {
		fields["service_id"] = *req.ServiceID
	}
	if req.OrderID != nil {
		fields["order_id"] = *req.OrderID
	}

	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, repository.DomainError(err)
	}
	if err := s.repo.UpdateFields(ctx, id, fields); err != nil {
		return nil, repository.DomainError(err)
	}
	return s.get(ctx, id)
}

// Delete removes the row without shrinking the order's end time.
func (s *Service) Delete(ctx context.Context, id int64) (*domain.OrderService, error) {
	row, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, repository.DomainError(err)
	}
	return row, nil
}

func (s *Service) get(ctx context.Context, id int64) (*domain.OrderService, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, repository.DomainError(err)
	}
	return row, nil
}
