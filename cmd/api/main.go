package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"carwash/internal/config"
	"carwash/internal/database"
	"carwash/internal/modules/notification"
	jwtsvc "carwash/internal/pkg/jwt"
	"carwash/internal/pkg/logger"
	"carwash/internal/pkg/mailer"
	"carwash/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.Log.Mode, cfg.Log.File)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	if cfg.IsProd() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("database connect failed", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}

	srv := server.New(db, server.Options{
		Tokens:      jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL),
		Location:    cfg.Location,
		CORSOrigins: cfg.CORS.AllowedOrigins,
	})
	defer srv.Hub.Close()

	var scheduler *cron.Cron
	if cfg.Notify.Enabled {
		scheduler = cron.New(
			cron.WithLocation(cfg.Location),
			cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)),
		)
		d := notification.NewDispatcher(srv.Orders, mailer.NewSMTP(mailer.Config{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		}), cfg.Notify.Signature)
		if _, err := d.Schedule(scheduler, cfg.Notify.Schedule); err != nil {
			log.Fatal("invalid NOTIFY_SCHEDULE", zap.String("schedule", cfg.Notify.Schedule), zap.Error(err))
		}
		scheduler.Start()
		log.Info("order notifications scheduled", zap.String("schedule", cfg.Notify.Schedule))
	}

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server listening", zap.String("addr", cfg.HTTPAddr), zap.String("env", cfg.AppEnv))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if scheduler != nil {
		<-scheduler.Stop().Done()
	}
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}
