// Package server wires repositories, services and HTTP routes together.
package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"carwash/internal/middleware"
	"carwash/internal/modules/access"
	"carwash/internal/modules/auth"
	"carwash/internal/modules/catalog"
	"carwash/internal/modules/order"
	"carwash/internal/modules/orderservice"
	"carwash/internal/modules/realtime"
	"carwash/internal/pkg/jwt"
	"carwash/internal/pkg/validator"
	"carwash/internal/readmodel"
	"carwash/internal/repository"
)

type Options struct {
	Tokens      *jwt.Service
	Location    *time.Location
	CORSOrigins []string
}

type Server struct {
	Engine *gin.Engine
	Hub    *realtime.Hub
	Orders *repository.OrderRepository
}

func New(db *gorm.DB, opts Options) *Server {
	validator.UseJSONNames()

	users := repository.NewUserRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	customerCars := repository.NewCustomerCarRepository(db)
	orders := repository.NewOrderRepository(db)
	orderServices := repository.NewOrderServiceRepository(db)

	view := readmodel.NewProjector(opts.Location)
	filter := access.NewFilter(orders, orderServices)
	hub := realtime.NewHub()
	broadcaster := realtime.NewBroadcaster(orders, view, hub)

	authService := auth.NewService(users, opts.Tokens)
	catalogService := catalog.NewService(catalogRepo, customerCars, users)

	orderService := order.NewService(orders, filter, users, customerCars, opts.Location)
	orderService.SetNotifier(broadcaster)

	attachService := orderservice.NewService(orderServices, filter)
	attachService.SetNotifier(broadcaster)

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.ErrorLogger(),
		middleware.CORS(opts.CORSOrigins),
		middleware.Metrics(),
	)

	r.GET("/health", health(db))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")
	protected := v1.Group("", middleware.JWTAuth(opts.Tokens))
	admin := protected.Group("", middleware.AdminOnly())

	auth.NewHandler(authService).RegisterRoutes(v1, protected)
	catalog.NewHandler(catalogService, view).RegisterRoutes(v1, protected, admin)
	order.NewHandler(orderService, view).RegisterRoutes(protected, admin)
	orderservice.NewHandler(attachService).RegisterRoutes(protected, admin)
	realtime.NewHandler(hub).RegisterRoutes(protected)

	return &Server{Engine: r, Hub: hub, Orders: orders}
}

func health(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			zap.S().Warnw("health check failed", "error", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
