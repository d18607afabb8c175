package order

import (
	"time"

	"carwash/internal/domain"
	"carwash/internal/pkg/paging"
)

type CreateOrderRequest struct {
	AdministratorID int64               `json:"administrator_id" binding:"required,gt=0"`
	EmployeeID      int64               `json:"employee_id" binding:"required,gt=0"`
	CustomerCarID   int64               `json:"customer_car_id" binding:"required,gt=0"`
	Status          *domain.OrderStatus `json:"status"`
	StartDate       *time.Time          `json:"start_date"`
	EndDate         *time.Time          `json:"end_date"`
}

// UpdateOrderRequest is sparse: nil fields are left untouched.
type UpdateOrderRequest struct {
	AdministratorID *int64              `json:"administrator_id" binding:"omitempty,gt=0"`
	EmployeeID      *int64              `json:"employee_id" binding:"omitempty,gt=0"`
	CustomerCarID   *int64              `json:"customer_car_id" binding:"omitempty,gt=0"`
	Status          *domain.OrderStatus `json:"status"`
}

type ListParams struct {
	paging.Params
	Status *domain.OrderStatus `form:"status"`
}
