package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/utkarshdhiman48/remindit48-bot/internal/bot"
	"github.com/utkarshdhiman48/remindit48-bot/internal/config"
	"github.com/utkarshdhiman48/remindit48-bot/internal/logger"
	"github.com/utkarshdhiman48/remindit48-bot/internal/repository"
	"github.com/utkarshdhiman48/remindit48-bot/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// No logger yet; exit immediately.
		_, _ = os.Stderr.WriteString("config error: " + err.Error() + "\n")
		os.Exit(2)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		_, _ = os.Stderr.WriteString("logger init error: " + err.Error() + "\n")
		os.Exit(2)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Fatal("load timezone failed", zap.String("timezone", cfg.Timezone), zap.Error(err))
	}

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("open db failed", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	taskSvc := service.NewTaskService(taskRepo)

	telegramBot, err := bot.New(cfg.BotToken, userRepo, taskSvc, log)
	if err != nil {
		log.Fatal("bot init failed", zap.Error(err))
	}

	reminderSvc := service.NewReminderService(userRepo, taskRepo, telegramBot, loc, log)

	scheduler := service.NewSchedulerService(loc)
	if _, err := scheduler.ScheduleDaily(cfg.SweepTime, func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := reminderSvc.RunDailyMatch(jobCtx); err != nil {
			log.Error("daily match failed", zap.Error(err))
		}
	}); err != nil {
		log.Fatal("schedule daily match failed", zap.Error(err))
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Liveness endpoint for the hosting platform.
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("Up!"))
	})
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      mux,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server error", zap.Error(err))
		}
	}()
	defer func() {
		shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shCtx); err != nil {
			log.Warn("http server shutdown error", zap.Error(err))
		}
	}()

	log.Info("remindit bot started",
		zap.String("http", cfg.HTTPAddr),
		zap.String("sweep_time", cfg.SweepTime),
		zap.String("timezone", cfg.Timezone),
	)
	if err := telegramBot.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal("bot stopped with error", zap.Error(err))
	}
	log.Info("shutdown complete")
}
