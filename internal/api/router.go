package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/time/rate"

	"github.com/thapelomagqazana/appointment-scheduling-backend/internal/api/handler"
	"github.com/thapelomagqazana/appointment-scheduling-backend/internal/api/middleware"
	"github.com/thapelomagqazana/appointment-scheduling-backend/internal/core/domain"
	"github.com/thapelomagqazana/appointment-scheduling-backend/internal/core/ports"
	"github.com/thapelomagqazana/appointment-scheduling-backend/internal/core/service"
	"github.com/thapelomagqazana/appointment-scheduling-backend/internal/infrastructure/config"
	mongodb "github.com/thapelomagqazana/appointment-scheduling-backend/internal/infrastructure/db/mongo"
)

// NewRouter builds the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, notifier ports.Notifier, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("clinic"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	apptRepo := mongodb.NewAppointmentRepository(db)
	availRepo := mongodb.NewAvailabilityRepository(db)

	authService := service.NewAuthService(userRepo, notifier, cfg.JWTSecret, cfg.BaseURL, cfg.BcryptCost, log.With().Str("component", "auth").Logger())
	apptService := service.NewAppointmentService(apptRepo, userRepo, notifier, log.With().Str("component", "appointments").Logger())
	availService := service.NewAvailabilityService(availRepo, log.With().Str("component", "availability").Logger())
	userService := service.NewUserService(userRepo)

	authHandler := handler.NewAuthHandler(authService)
	apptHandler := handler.NewAppointmentHandler(apptService)
	doctorHandler := handler.NewDoctorHandler(availService)
	userHandler := handler.NewUserHandler(userService)

	authMW := middleware.Auth(cfg.JWTSecret, userRepo)

	// Credential endpoints are rate limited per client IP: they are the only
	// unauthenticated writes and the natural brute-force target.
	authLimiter := echomiddleware.RateLimiterWithConfig(echomiddleware.RateLimiterConfig{
		Store: echomiddleware.NewRateLimiterMemoryStoreWithConfig(echomiddleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(5),
			Burst:     10,
			ExpiresIn: 3 * time.Minute,
		}),
	})

	// --- Auth routes (public) ---
	auth := e.Group("/api/auth", authLimiter)
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/request-password-reset", authHandler.RequestPasswordReset)
	auth.POST("/reset-password", authHandler.ResetPassword)

	// --- Appointment routes ---
	appts := e.Group("/api/appointments", authMW)
	appts.POST("/create", apptHandler.Create, middleware.RBAC(domain.RolePatient))
	appts.GET("", apptHandler.List, middleware.RBAC(domain.RoleDoctor, domain.RoleReceptionist))
	appts.PUT("/update/:id", apptHandler.UpdateStatus, middleware.RBAC(domain.RoleDoctor, domain.RoleReceptionist))
	appts.DELETE("/delete/:id", apptHandler.Delete, middleware.RBAC(domain.RoleDoctor, domain.RoleReceptionist))

	// --- Doctor availability routes ---
	doctors := e.Group("/api/doctors", authMW)
	doctors.POST("/availability", doctorHandler.SetAvailability, middleware.RBAC(domain.RoleDoctor))
	doctors.GET("/availability/:id", doctorHandler.GetAvailability, middleware.RBAC(domain.RoleDoctor, domain.RoleReceptionist))

	// --- User routes ---
	users := e.Group("/api/user", authMW)
	users.GET("/profile", userHandler.Profile)

	// --- Observability (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
