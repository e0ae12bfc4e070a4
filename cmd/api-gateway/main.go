package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/academic-scheduler-api/api/swagger"
	"github.com/noah-isme/academic-scheduler-api/internal/bootstrap"
	"github.com/noah-isme/academic-scheduler-api/internal/handler"
	"github.com/noah-isme/academic-scheduler-api/internal/middleware"
	"github.com/noah-isme/academic-scheduler-api/pkg/cache"
	"github.com/noah-isme/academic-scheduler-api/pkg/config"
	"github.com/noah-isme/academic-scheduler-api/pkg/database"
	"github.com/noah-isme/academic-scheduler-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/academic-scheduler-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/academic-scheduler-api/pkg/middleware/requestid"
)

// @title Academic Scheduler API
// @version 1.0.0
// @description Academic periods, schedule reconciliation, preference windows and publication.
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("database connection failed", zap.Error(err))
	}
	defer db.Close()

	if cfg.Database.RunMigrations {
		if err := database.RunMigrations(db.DB, logr); err != nil {
			logr.Fatal("database migration failed", zap.Error(err))
		}
	}

	rdb, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, schedule view cache disabled", zap.Error(err))
		rdb = nil
	} else {
		defer rdb.Close()
	}

	app := bootstrap.New(cfg, db, rdb, logr)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app.StartWorkers(ctx)
	if err := app.StartScheduler(); err != nil {
		logr.Fatal("failed to schedule deferred dispatcher", zap.Error(err))
	}
	defer app.Stop()

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(app.Services.Metrics))

	metricsHandler := handler.NewMetricsHandler(app.Services.Metrics, app.Readiness())
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handler.RegisterRoutes(r.Group(cfg.APIPrefix), middleware.JWT(app.Services.Tokens), app.Handlers())

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logr.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("server shutdown failed", zap.Error(err))
	}
}
