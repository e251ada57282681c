package http

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/medicareplus/careportal/internal/auth"
	"github.com/medicareplus/careportal/internal/config"
	"github.com/medicareplus/careportal/internal/http/handlers"
	"github.com/medicareplus/careportal/internal/http/middlewares"
	"github.com/medicareplus/careportal/internal/observability"
	"github.com/medicareplus/careportal/internal/queue"
	"github.com/medicareplus/careportal/internal/repo/postgres"
)

type RouterDeps struct {
	Log           *slog.Logger
	Pool          *pgxpool.Pool
	Cfg           config.Config
	Confirmations *queue.ConfirmationQueue // optional
}

func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middlewares.RequestID())
	router.Use(middlewares.RequestLogger())
	router.Use(middlewares.SecurityHeaders())
	router.Use(middlewares.CORSMiddleware(deps.Cfg.CORSAllowedOrigins))
	router.Use(middlewares.MaxBodyBytes(1 << 20))
	router.Use(otelgin.Middleware("careportal-api"))

	registry := prometheus.NewRegistry()
	prom := observability.NewProm(registry)
	router.Use(prom.GinHandleMiddleware())

	// 100 requests per IP per minute is plenty for a booking portal
	limiter := middlewares.NewRateLimiter(100, time.Minute)
	router.Use(limiter.RateLimiterMiddleware(middlewares.KeyByUserOrIP))

	jwtManager := auth.NewManager(
		deps.Cfg.JWTSecret,
		time.Duration(deps.Cfg.JWTAccessTTLMinutes)*time.Minute,
		time.Duration(deps.Cfg.JWTRefreshTTLDays)*24*time.Hour,
	)

	usersRepo := postgres.NewUsersRepo(deps.Pool)
	refreshRepo := postgres.NewRefreshTokensRepo(deps.Pool)
	appointmentsRepo := postgres.NewAppointmentsRepo(deps.Pool, prom)

	authHandler := handlers.NewAuthHandler(usersRepo, usersRepo, jwtManager, refreshRepo, deps.Cfg)

	var confirmations handlers.ConfirmationEnqueuer
	if deps.Confirmations != nil {
		confirmations = deps.Confirmations
	}

	appointmentsHandler := handlers.NewAppointmentsHandler(appointmentsRepo, confirmations, deps.Log)

	healthHandler := handlers.NewHealthHandler(func() error {
		ctx, cancel := config.WithTimeout(1 * time.Second)
		defer cancel()
		return deps.Pool.Ping(ctx)
	})

	router.GET("/healthz", healthHandler.Healthz)
	router.GET("/readyz", healthHandler.Readyz)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	authRoutes := router.Group("/auth")
	authRoutes.Use(middlewares.RequireJSON())
	{
		authRoutes.POST("/register", authHandler.Register)
		authRoutes.POST("/login", authHandler.Login)
		authRoutes.POST("/refresh", authHandler.Refresh)
		authRoutes.POST("/logout", authHandler.Logout)
	}

	authMw := middlewares.NewAuthMiddleware(jwtManager)

	// Legacy route prefix kept for existing clients.
	apoint := router.Group("/apoint")
	apoint.Use(authMw.RequireAuth())
	{
		apoint.POST("/create", middlewares.RequireJSON(), appointmentsHandler.Create)
		apoint.GET("/my", appointmentsHandler.ListMine)
	}

	return router
}
