package main // Entry point package

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"            // Echo web framework
	"github.com/labstack/echo/v4/middleware" // Echo's bundled middleware
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/hello-devops/internal/config"   // Environment config loader
	"github.com/iliyamo/hello-devops/internal/greeting" // Greeting service
	"github.com/iliyamo/hello-devops/internal/handler"  // HTTP handlers
	"github.com/iliyamo/hello-devops/internal/log"      // Structured logger
	mw "github.com/iliyamo/hello-devops/internal/middleware"
	"github.com/iliyamo/hello-devops/internal/router" // Route registration
)

func main() {
	log.InitLog() // Configure the logger before anything else logs

	cfg, err := config.Load() // Load environment config
	if err != nil {
		log.Log.WithField("error", err.Error()).Fatal("invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rlCfg := config.LoadRateLimitConfig()
	cacheCfg := config.LoadCacheConfig()
	var rdb *redis.Client
	if rlCfg.Enabled || cacheCfg.Enabled {
		// nil when unreachable; both middlewares then pass through
		rdb = config.NewRedisClient(ctx)
	}
	if rdb != nil {
		defer func() { _ = rdb.Close() }()
	}

	e := echo.New() // Create Echo instance
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(log.RequestLogger(log.Log))
	e.Use(mw.NewTokenBucket(rlCfg, rdb))
	e.Use(mw.NewRedisCache(cacheCfg, rdb))
	router.RegisterRoutes(e, handler.NewGreetingHandler(greeting.New())) // Register application routes

	go func() {
		log.Log.WithFields(logrus.Fields{"addr": cfg.Addr(), "env": cfg.Env}).Info("listening")
		if err := e.Start(cfg.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Log.WithField("error", err.Error()).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	log.Log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Log.WithField("error", err.Error()).Error("graceful shutdown failed")
	}
}
