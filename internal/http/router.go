package http

import (
	"context"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/opencampus/coursehub/internal/auth"
	"github.com/opencampus/coursehub/internal/config"
	"github.com/opencampus/coursehub/internal/domain/user"
	"github.com/opencampus/coursehub/internal/http/handlers"
	"github.com/opencampus/coursehub/internal/http/middlewares"
	"github.com/opencampus/coursehub/internal/observability"
	"github.com/opencampus/coursehub/internal/repo/postgres"
)

// NewRouter builds the user-service engine: public register/login, token
// protected profile routes and the admin gate.
func NewRouter(log *slog.Logger, pool *pgxpool.Pool, cfg config.Config, prom *observability.Prom, reg *prometheus.Registry) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// middleware

	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(RequestLogger(log))
	r.Use(otelgin.Middleware("user-service"))

	if prom != nil {
		r.Use(prom.GinHandleMiddleware())
	}

	r.Use(middlewares.CORSMiddleware())
	r.Use(middlewares.MaxBodyBytes(1 << 20))

	// health
	ping := func() error {
		if pool == nil {
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()

		return pool.Ping(ctx)
	}

	health := handlers.NewHealthHandler(ping)
	r.GET("/healthz", health.Healthz)
	r.GET("/readyz", health.Readyz)

	if reg != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	}

	// wire up repositories and handlers

	jwtManager := auth.NewManager(cfg.JWTSecret, cfg.JWTIssuer, 24*time.Hour)
	usersRepo := postgres.NewUsersRepo(pool, prom)

	authHandler := handlers.NewAuthHandler(usersRepo, jwtManager)
	profileHandler := handlers.NewProfileHandler(usersRepo)
	adminHandler := handlers.NewAdminHandler()
	authMW := middlewares.NewAuthMiddleware(jwtManager)

	// public routes
	r.POST("/register", authHandler.Register)
	r.POST("/login", authHandler.Login)

	// token protected routes
	protected := r.Group("")
	protected.Use(authMW.RequireAuth())

	protected.GET("/profile", profileHandler.Get)
	protected.PUT("/profile", profileHandler.Update)
	protected.PATCH("/profile", profileHandler.Update)
	protected.GET("/admin-dashboard", authMW.RequireRole(user.RoleAdmin), adminHandler.Dashboard)

	r.NoRoute(func(ctx *gin.Context) {
		handlers.RespondNotFound(ctx, "endpoint not found")
	})

	return r
}
