package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"rubberops-backend/internal/config"
	"rubberops-backend/internal/domain"
	"rubberops-backend/internal/handler"
)

// NewRouter wires HTTP routes and middleware.
func NewRouter(cfg config.Config,
	logger *slog.Logger,
	health handler.HealthHandler,
	auth handler.AuthHandler,
	bills handler.BillHandler,
	attendance handler.AttendanceHandler,
	tasks handler.TaskHandler,
	users handler.UserHandler,
	dashboard handler.DashboardHandler,
	activity handler.ActivityLogHandler,
	docs handler.DocsHandler,
) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(NewLoggerMiddleware(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Scanner-Key"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(httprate.LimitByIP(200, 1*time.Minute))

	health.RegisterRoutes(r)
	auth.RegisterRoutes(r)
	docs.RegisterRoutes(r)
	r.Method("GET", "/metrics", promhttp.Handler())

	// RFID readers authenticate with a shared device key, not a user token.
	r.Group(func(dr chi.Router) {
		dr.Use(ScannerKeyMiddleware(cfg.ScannerAPIKey))
		attendance.RegisterScannerRoutes(dr)
	})

	r.Route("/api", func(api chi.Router) {
		api.Use(AuthMiddleware(cfg.JWTSecret))
		auth.RegisterProtectedRoutes(api)

		// staff-level
		api.Group(func(sr chi.Router) {
			sr.Use(RequireRole(domain.RoleManager, domain.RoleAccountant, domain.RoleStaff))
			attendance.RegisterStaffRoutes(sr)
			tasks.RegisterStaffRoutes(sr)
		})
		// customer-level
		api.Group(func(cr chi.Router) {
			cr.Use(RequireRole(domain.RoleCustomer))
			bills.RegisterCustomerRoutes(cr)
		})
		// accountant-level (accountant/manager)
		api.Group(func(ar chi.Router) {
			ar.Use(RequireRole(domain.RoleManager, domain.RoleAccountant))
			bills.RegisterAccountingRoutes(ar)
			attendance.RegisterReportRoutes(ar)
			users.RegisterDirectoryRoutes(ar)
		})
		// manager-level
		api.Group(func(mr chi.Router) {
			mr.Use(RequireRole(domain.RoleManager))
			bills.RegisterManagerRoutes(mr)
			tasks.RegisterManagerRoutes(mr)
			users.RegisterManagerRoutes(mr)
			dashboard.RegisterRoutes(mr)
			activity.RegisterRoutes(mr)
		})
	})

	return r
}
