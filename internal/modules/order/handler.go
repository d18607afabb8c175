package order

import (
	"net/http"
	"strconv"

	"carwash/internal/middleware"
	"carwash/internal/pkg/response"
	"carwash/internal/readmodel"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc  *Service
	view *readmodel.Projector
}

func NewHandler(svc *Service, view *readmodel.Projector) *Handler {
	return &Handler{svc: svc, view: view}
}

func (h *Handler) RegisterRoutes(protected, admin *gin.RouterGroup) {
	if protected != nil {
		protected.GET("/orders", h.List)
		protected.GET("/orders/:id", h.Get)
	}
	if admin != nil {
		admin.POST("/orders", h.Create)
		admin.PATCH("/orders/:id", h.Update)
		admin.DELETE("/orders/:id", h.Delete)
	}
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}

	o, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, h.view.Order(o))
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}

	o, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, h.view.Order(o))
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	o, err := h.svc.Delete(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, h.view.Order(o))
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	o, err := h.svc.Get(c.Request.Context(), id, middleware.Actor(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, h.view.Order(o))
}

func (h *Handler) List(c *gin.Context) {
	var p ListParams
	if err := c.ShouldBindQuery(&p); err != nil {
		response.BadRequest(c, err)
		return
	}

	orders, err := h.svc.List(c.Request.Context(), middleware.Actor(c), p)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, h.view.Orders(orders))
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID")
		return 0, false
	}
	return id, true
}
