package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/opencampus/coursehub/internal/cache"
	"github.com/opencampus/coursehub/internal/config"
	"github.com/opencampus/coursehub/internal/db"
	httpx "github.com/opencampus/coursehub/internal/http"
	"github.com/opencampus/coursehub/internal/http/handlers"
	"github.com/opencampus/coursehub/internal/observability"
)

func main() {
	cfg := config.Load()

	log := observability.NewLogger(cfg.Env)

	shutdownTracer, err := observability.InitTracer(context.Background(), "course-service", cfg.OTELEndpoint)

	if err != nil {
		log.Warn("tracing disabled", "err", err)
		shutdownTracer = func(context.Context) error { return nil }
	}

	pool, err := db.NewPool(cfg.DBURL)

	if err != nil {
		log.Error("could not connect to database", "err", err)
		os.Exit(1)
	}

	defer pool.Close()

	// listing cache, optional: the catalog works without redis
	var listCache handlers.CourseListCache

	courseCache := cache.New(cache.Config{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, 30*time.Second)

	pingCtx, cancelPing := config.WithTimeout(2 * time.Second)

	if err := courseCache.Ping(pingCtx); err != nil {
		log.Warn("course cache disabled", "err", err)
	} else {
		listCache = courseCache
		defer courseCache.Close()
	}

	cancelPing()

	reg := prometheus.NewRegistry()
	prom := observability.NewProm(reg)

	router := httpx.NewCoursesRouter(log, pool, cfg, prom, reg, listCache)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.CoursesPort),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("course service starting", "port", cfg.CoursesPort, "env", cfg.Env)
		err := srv.ListenAndServe()

		if err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("course service shutting down")

	shutdownCh := make(chan struct{})

	go func() {
		defer close(shutdownCh)

		ctx, cancel := config.WithTimeout(10 * time.Second)

		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("graceful shutdown failed", "err", err)
			return
		}

		if err := shutdownTracer(ctx); err != nil {
			log.Error("tracer shutdown failed", "err", err)
		}
	}()

	select {
	case <-shutdownCh:
		log.Info("shutdown complete")

	case <-time.After(12 * time.Second):
		log.Error("shutdown timed out")
	}
}
