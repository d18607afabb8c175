package orderservice

import "carwash/internal/pkg/paging"

type AttachRequest struct {
	OrderID    int64   `json:"order_id" binding:"required,gt=0"`
	ServiceIDs []int64 `json:"service_ids" binding:"required,min=1,dive,gt=0"`
}

type ReassignRequest struct {
	ServiceID *int64 `json:"service_id" binding:"omitempty,gt=0"`
	OrderID   *int64 `json:"order_id" binding:"omitempty,gt=0"`
}

type ListParams struct {
	paging.Params
	OrderID *int64 `form:"order_id"`
}
