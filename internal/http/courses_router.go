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

	"github.com/opencampus/coursehub/internal/config"
	"github.com/opencampus/coursehub/internal/http/handlers"
	"github.com/opencampus/coursehub/internal/http/middlewares"
	"github.com/opencampus/coursehub/internal/observability"
	"github.com/opencampus/coursehub/internal/repo/postgres"
)

// NewCoursesRouter builds the course-catalog engine. The catalog is public,
// mirroring the original service.
func NewCoursesRouter(log *slog.Logger, pool *pgxpool.Pool, cfg config.Config, prom *observability.Prom, reg *prometheus.Registry, cache handlers.CourseListCache) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(RequestLogger(log))
	r.Use(otelgin.Middleware("course-service"))

	if prom != nil {
		r.Use(prom.GinHandleMiddleware())
	}

	r.Use(middlewares.CORSMiddleware())
	r.Use(middlewares.MaxBodyBytes(1 << 20))
	r.Use(middlewares.RequireJSON())

	ping := func() error {
		if pool == nil {
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()

		return pool.Ping(ctx)
	}

	health := handlers.NewHealthHandler(ping)
	r.GET("/health", health.Healthz)
	r.GET("/healthz", health.Healthz)
	r.GET("/readyz", health.Readyz)

	if reg != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	}

	coursesRepo := postgres.NewCoursesRepo(pool, prom)
	coursesHandler := handlers.NewCoursesHandler(coursesRepo, cache)

	r.POST("/courses", coursesHandler.Create)
	r.GET("/courses", coursesHandler.List)
	r.GET("/courses/:id", coursesHandler.GetByID)
	r.PUT("/courses/:id", coursesHandler.Update)
	r.DELETE("/courses/:id", coursesHandler.Delete)

	r.NoRoute(func(ctx *gin.Context) {
		handlers.RespondNotFound(ctx, "endpoint not found")
	})

	return r
}
