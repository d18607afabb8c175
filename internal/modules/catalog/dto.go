package catalog

import "carwash/internal/pkg/paging"

type BrandRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

type CreateCarRequest struct {
	BrandID int64  `json:"brand_id" binding:"required,gt=0"`
	Model   string `json:"model" binding:"required,max=100"`
}

type UpdateCarRequest struct {
	BrandID *int64  `json:"brand_id" binding:"omitempty,gt=0"`
	Model   *string `json:"model" binding:"omitempty,max=100"`
}

type CarListParams struct {
	paging.Params
	Brand string `form:"brand"`
}

// CreateServiceRequest carries price in kopecks and time in seconds.
type CreateServiceRequest struct {
	Name  string `json:"name" binding:"required,max=100"`
	Price int64  `json:"price" binding:"gte=0"`
	Time  int64  `json:"time" binding:"gte=0"`
}

type UpdateServiceRequest struct {
	Name  *string `json:"name" binding:"omitempty,max=100"`
	Price *int64  `json:"price" binding:"omitempty,gte=0"`
	Time  *int64  `json:"time" binding:"omitempty,gte=0"`
}

type CreateCustomerCarRequest struct {
	CarID      int64  `json:"car_id" binding:"required,gt=0"`
	CustomerID int64  `json:"customer_id" binding:"required,gt=0"`
	Year       int    `json:"year" binding:"required,gte=1900,lte=2100"`
	Number     string `json:"number" binding:"required,max=100"`
}

type UpdateCustomerCarRequest struct {
	CustomerID *int64  `json:"customer_id" binding:"omitempty,gt=0"`
	Year       *int    `json:"year" binding:"omitempty,gte=1900,lte=2100"`
	Number     *string `json:"number" binding:"omitempty,max=100"`
}

type CustomerCarListParams struct {
	paging.Params
	CarModel string `form:"car_model"`
}
