package orderservice

import (
	"net/http"
	"strconv"

	"carwash/internal/middleware"
	"carwash/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts reads on protected and mutations on admin.
func (h *Handler) RegisterRoutes(protected, admin *gin.RouterGroup) {
	if protected != nil {
		protected.GET("/order-services", h.List)
		protected.GET("/order-services/:id", h.Get)
	}
	if admin != nil {
		admin.POST("/order-services", h.Attach)
		admin.PUT("/order-services/:id", h.Reassign)
		admin.DELETE("/order-services/:id", h.Delete)
	}
}

// Attach answers 201 with the created rows when every item succeeded. Otherwise
// it answers 400 listing the rejections; accepted items are committed anyway.
func (h *Handler) Attach(c *gin.Context) {
	var req AttachRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}

	results, err := h.svc.Attach(c.Request.Context(), req.OrderID, req.ServiceIDs)
	if err != nil {
		response.FromError(c, err)
		return
	}

	created, rejections := Split(results)
	if len(rejections) > 0 {
		response.ErrorWithDetails(c, http.StatusBadRequest, "SERVICES_REJECTED", "Some services could not be added", gin.H{
			"rejected": rejections,
			"created":  created,
		})
		return
	}
	response.Success(c, http.StatusCreated, created)
}

func (h *Handler) List(c *gin.Context) {
	var p ListParams
	if err := c.ShouldBindQuery(&p); err != nil {
		response.BadRequest(c, err)
		return
	}

	rows, err := h.svc.List(c.Request.Context(), middleware.Actor(c), p)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, rows)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	row, err := h.svc.Get(c.Request.Context(), middleware.Actor(c), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, row)
}

func (h *Handler) Reassign(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req ReassignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}

	row, err := h.svc.Reassign(c.Request.Context(), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, row)
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	row, err := h.svc.Delete(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, row)
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid order service ID")
		return 0, false
	}
	return id, true
}
