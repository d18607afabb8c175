package orderservice

import "carwash/internal/domain"

type Reason string

const (
	ReasonServiceNotFound Reason = "service_not_found"
	ReasonLockedOrder     Reason = "locked_order"
	ReasonDuplicate       Reason = "duplicate_service"
)

type Rejection struct {
	Reason  Reason `json:"error"`
	Message string `json:"message"`
}

// AttachResult is the outcome for one requested service id: exactly one of
// OrderService and Rejection is set.
type AttachResult struct {
	ServiceID    int64                `json:"service_id"`
	OrderService *domain.OrderService `json:"data,omitempty"`
	Rejection    *Rejection           `json:"rejection,omitempty"`
}

func (r AttachResult) OK() bool { return r.Rejection == nil }

func accepted(serviceID int64, row *domain.OrderService) AttachResult {
	return AttachResult{ServiceID: serviceID, OrderService: row}
}

func rejected(serviceID int64, reason Reason, msg string) AttachResult {
	return AttachResult{ServiceID: serviceID, Rejection: &Rejection{Reason: reason, Message: msg}}
}

// Split separates successes from rejections, keeping input order.
func Split(results []AttachResult) (created []domain.OrderService, rejections []AttachResult) {
	created = []domain.OrderService{}
	for _, r := range results {
		if r.OK() {
			created = append(created, *r.OrderService)
			continue
		}
		rejections = append(rejections, r)
	}
	return created, rejections
}
