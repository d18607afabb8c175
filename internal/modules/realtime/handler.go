package realtime

import (
	"net/http"

	"carwash/internal/middleware"
	"carwash/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	hub *Hub
}

func NewHandler(hub *Hub) *Handler {
	return &Handler{hub: hub}
}

// RegisterRoutes mounts GET /ws/orders on a group guarded by JWTAuth.
func (h *Handler) RegisterRoutes(protected *gin.RouterGroup) {
	protected.GET("/ws/orders", h.Connect)
}

func (h *Handler) Connect(c *gin.Context) {
	actor := middleware.Actor(c)
	if !actor.Resolved() {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Unknown caller")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		zap.S().Warnw("websocket upgrade failed", "user_id", actor.UserID, "error", err)
		return
	}
	zap.S().Debugw("websocket connected", "user_id", actor.UserID)
	h.hub.Serve(conn, actor.UserID, actor.IsAdministrator())
}
