package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"rubberops-backend/internal/config"
	"rubberops-backend/internal/db"
	"rubberops-backend/internal/handler"
	"rubberops-backend/internal/repository"
	"rubberops-backend/internal/server"
	"rubberops-backend/internal/service"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pg, err := db.New(ctx, cfg)
	if err != nil {
		logger.Error("failed to connect database", "err", err)
		os.Exit(1)
	}
	defer pg.Close()

	if err := pg.Migrate(ctx); err != nil {
		logger.Error("failed to migrate schema", "err", err)
		os.Exit(1)
	}

	// repositories
	userRepo := repository.UserRepository{DB: pg}
	billRepo := repository.BillRepository{DB: pg}
	attendanceRepo := repository.AttendanceRepository{DB: pg}
	taskRepo := repository.TaskRepository{DB: pg}
	activityLogRepo := repository.ActivityLogRepository{DB: pg}
	dashboardRepo := repository.DashboardRepository{DB: pg}

	if cfg.SeedManager && cfg.SeedManagerPassword != "" {
		if err := userRepo.SeedManager(ctx, cfg.SeedManagerEmail, cfg.SeedManagerPassword); err != nil {
			logger.Error("failed to seed manager account", "err", err)
			os.Exit(1)
		}
	}

	// services
	authSvc := service.AuthService{Config: cfg, Users: userRepo, Logger: logger}
	billSvc := service.BillService{Bills: billRepo, Users: userRepo, Logs: activityLogRepo}
	attendanceSvc := service.AttendanceService{Records: attendanceRepo, Users: userRepo}
	taskSvc := service.TaskService{Tasks: taskRepo, Users: userRepo, Logs: activityLogRepo}

	// handlers
	healthHandler := handler.HealthHandler{DB: pg}
	authHandler := handler.AuthHandler{Service: &authSvc}
	billHandler := handler.BillHandler{Service: &billSvc, Currency: cfg.CurrencyCode}
	attendanceHandler := handler.AttendanceHandler{Service: &attendanceSvc}
	taskHandler := handler.TaskHandler{Service: &taskSvc}
	userHandler := handler.UserHandler{Repo: userRepo, Logs: activityLogRepo}
	dashboardHandler := handler.DashboardHandler{Repo: dashboardRepo}
	activityHandler := handler.ActivityLogHandler{Repo: activityLogRepo}
	docsHandler := handler.DocsHandler{OpenAPIPath: "api/openapi.yaml"}

	router := server.NewRouter(cfg, logger, healthHandler, authHandler, billHandler, attendanceHandler, taskHandler, userHandler, dashboardHandler, activityHandler, docsHandler)

	if err := server.Start(ctx, cfg, router, logger); err != nil {
		logger.Error("server error", "err", err)
		os.Exit(1)
	}
}
