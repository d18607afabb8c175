// Command notifier completes elapsed orders and emails their owners, either
// once or on the configured cron schedule.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"carwash/internal/config"
	"carwash/internal/database"
	"carwash/internal/modules/notification"
	"carwash/internal/pkg/logger"
	"carwash/internal/pkg/mailer"
	"carwash/internal/repository"
)

func main() {
	once := flag.Bool("once", false, "run a single pass and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log, err := logger.New(cfg.Log.Mode, cfg.Log.File)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("database connect failed", zap.Error(err))
	}

	var m notification.Mailer = mailer.NewConsole()
	if cfg.SMTP.Host != "" {
		m = mailer.NewSMTP(mailer.Config{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		})
	}
	d := notification.NewDispatcher(repository.NewOrderRepository(db), m, cfg.Notify.Signature)

	if *once {
		rep, err := d.Run(context.Background())
		if err != nil {
			log.Fatal("notification run failed", zap.Error(err))
		}
		log.Info("notification run finished",
			zap.Int64("marked", rep.Marked),
			zap.Int("sent", rep.Sent),
			zap.Int("skipped", rep.Skipped),
			zap.Int("failed", rep.Failed),
		)
		return
	}

	c := cron.New(
		cron.WithLocation(cfg.Location),
		cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)),
	)
	if _, err := d.Schedule(c, cfg.Notify.Schedule); err != nil {
		log.Fatal("invalid NOTIFY_SCHEDULE", zap.String("schedule", cfg.Notify.Schedule), zap.Error(err))
	}
	c.Start()
	log.Info("notifier started", zap.String("schedule", cfg.Notify.Schedule))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	<-c.Stop().Done()
	log.Info("notifier stopped")
}
