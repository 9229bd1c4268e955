package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"task-manager/internal/config"
	"task-manager/internal/notify"
	"task-manager/internal/repository"
	"task-manager/internal/server"
	"task-manager/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	notifier, err := buildNotifier(cfg)
	if err != nil {
		log.Fatalf("notifier: %v", err)
	}

	engine := service.NewEngine(taskRepo, userRepo, notifier, service.EngineOptions{
		ToleranceMinutes:    cfg.ToleranceMinutes,
		DefaultReminderHour: cfg.DefaultReminderHour,
		ProductionDelivery:  cfg.Production(),
		MarkSentOnFailure:   cfg.MarkSentOnFailure,
		Channel:             cfg.NotifyChannel,
	})
	repairSvc := service.NewRepairService(taskRepo, userRepo)
	autoCompleteSvc := service.NewAutoCompleteService(taskRepo)

	scheduler := service.NewSchedulerService(time.UTC)
	if _, err := scheduler.ScheduleInterval(cfg.TickInterval, func() {
		passCtx, cancel := context.WithTimeout(context.Background(), cfg.TickInterval*5)
		defer cancel()
		engine.RunPass(passCtx, time.Now())
	}); err != nil {
		log.Fatalf("schedule reminder pass: %v", err)
	}

	if cfg.AutoCompleteEnabled {
		if _, err := scheduler.ScheduleInterval(cfg.TickInterval, func() {
			jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if _, err := autoCompleteSvc.Run(jobCtx, time.Now()); err != nil {
				log.Printf("auto-complete: %v", err)
			}
		}); err != nil {
			log.Fatalf("schedule auto-complete: %v", err)
		}
	}

	// Nightly data repair sweep; cheap and idempotent.
	if _, err := scheduler.ScheduleDaily("03:30", func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if _, err := repairSvc.Run(jobCtx); err != nil {
			log.Printf("repair sweep: %v", err)
		}
	}); err != nil {
		log.Fatalf("schedule repair sweep: %v", err)
	}

	scheduler.Start()
	defer scheduler.Stop()

	srv := server.New(engine, repairSvc, userRepo, taskRepo, !cfg.Production())
	go func() {
		if err := srv.Listen(cfg.HTTPAddr); err != nil {
			log.Printf("http server: %v", err)
			stop()
		}
	}()

	log.Printf("Task manager started, reminder pass every %s.", cfg.TickInterval)
	<-ctx.Done()

	if err := srv.Shutdown(); err != nil {
		log.Printf("http shutdown: %v", err)
	}
	log.Println("Shutdown complete.")
}

func buildNotifier(cfg config.Config) (notify.Notifier, error) {
	if cfg.NotifyChannel == config.ChannelTelegram {
		return notify.NewTelegram(cfg.TelegramToken)
	}
	return notify.NewSMTP(cfg.SMTP), nil
}
