package catalog

import (
	"context"
	"net/http"
	"strconv"

	"carwash/internal/middleware"
	"carwash/internal/pkg/paging"
	"carwash/internal/pkg/response"
	"carwash/internal/readmodel"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
	view    *readmodel.Projector
}

func NewHandler(service *Service, view *readmodel.Projector) *Handler {
	return &Handler{service: service, view: view}
}

func (h *Handler) RegisterRoutes(public, protected, admin *gin.RouterGroup) {
	if public != nil {
		public.GET("/services", h.ListServices)
		public.GET("/services/:id", h.GetService)
		public.GET("/brands", h.ListBrands)
		public.GET("/brands/:id", h.GetBrand)
	}

	if protected != nil {
		protected.GET("/cars", h.ListCars)
		protected.GET("/cars/:id", h.GetCar)
		protected.GET("/customer-cars", h.ListCustomerCars)
	}

	if admin != nil {
		admin.POST("/services", h.CreateService)
		admin.PUT("/services/:id", h.UpdateService)
		admin.DELETE("/services/:id", h.DeleteService)

		admin.POST("/brands", h.CreateBrand)
		admin.PUT("/brands/:id", h.UpdateBrand)
		admin.DELETE("/brands/:id", h.DeleteBrand)

		admin.POST("/cars", h.CreateCar)
		admin.PUT("/cars/:id", h.UpdateCar)
		admin.DELETE("/cars/:id", h.DeleteCar)

		admin.POST("/customer-cars", h.CreateCustomerCar)
		admin.PUT("/customer-cars/:id", h.UpdateCustomerCar)
		admin.DELETE("/customer-cars/:id", h.DeleteCustomerCar)
	}
}

/* ---------- SERVICE HANDLERS ---------- */

func (h *Handler) ListServices(c *gin.Context) {
	var p paging.Params
	if err := c.ShouldBindQuery(&p); err != nil {
		response.BadRequest(c, err)
		return
	}
	services, err := h.service.ListServices(c.Request.Context(), p)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, h.view.Services(services))
}

func (h *Handler) GetService(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	svc, err := h.service.GetService(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, h.view.Service(svc))
}

func (h *Handler) CreateService(c *gin.Context) {
	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}
	svc, err := h.service.CreateService(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, h.view.Service(svc))
}

func (h *Handler) UpdateService(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}
	svc, err := h.service.UpdateService(c.Request.Context(), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, h.view.Service(svc))
}

func (h *Handler) DeleteService(c *gin.Context) {
	h.delete(c, h.service.DeleteService)
}

/* ---------- BRAND HANDLERS ---------- */

func (h *Handler) ListBrands(c *gin.Context) {
	brands, err := h.service.ListBrands(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, brands)
}

func (h *Handler) GetBrand(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	b, err := h.service.GetBrand(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *Handler) CreateBrand(c *gin.Context) {
	var req BrandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}
	b, err := h.service.CreateBrand(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, b)
}

func (h *Handler) UpdateBrand(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req BrandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}
	b, err := h.service.UpdateBrand(c.Request.Context(), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *Handler) DeleteBrand(c *gin.Context) {
	h.delete(c, h.service.DeleteBrand)
}

/* ---------- CAR HANDLERS ---------- */

func (h *Handler) ListCars(c *gin.Context) {
	var p CarListParams
	if err := c.ShouldBindQuery(&p); err != nil {
		response.BadRequest(c, err)
		return
	}
	cars, err := h.service.ListCars(c.Request.Context(), p)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, cars)
}

func (h *Handler) GetCar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	car, err := h.service.GetCar(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, car)
}

func (h *Handler) CreateCar(c *gin.Context) {
	var req CreateCarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}
	car, err := h.service.CreateCar(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, car)
}

func (h *Handler) UpdateCar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req UpdateCarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}
	car, err := h.service.UpdateCar(c.Request.Context(), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, car)
}

func (h *Handler) DeleteCar(c *gin.Context) {
	h.delete(c, h.service.DeleteCar)
}

/* ---------- CUSTOMER CAR HANDLERS ---------- */

func (h *Handler) ListCustomerCars(c *gin.Context) {
	var p CustomerCarListParams
	if err := c.ShouldBindQuery(&p); err != nil {
		response.BadRequest(c, err)
		return
	}
	cars, err := h.service.ListCustomerCars(c.Request.Context(), middleware.Actor(c), p)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, cars)
}

func (h *Handler) CreateCustomerCar(c *gin.Context) {
	var req CreateCustomerCarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}
	cc, err := h.service.CreateCustomerCar(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, cc)
}

func (h *Handler) UpdateCustomerCar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req UpdateCustomerCarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}
	cc, err := h.service.UpdateCustomerCar(c.Request.Context(), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, cc)
}

func (h *Handler) DeleteCustomerCar(c *gin.Context) {
	h.delete(c, h.service.DeleteCustomerCar)
}

func (h *Handler) delete(c *gin.Context, fn func(ctx context.Context, id int64) error) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := fn(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": id})
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid ID")
		return 0, false
	}
	return id, true
}
