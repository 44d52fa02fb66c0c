package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/xhfmvls/c-buy/auth"
	"github.com/xhfmvls/c-buy/cache"
	"github.com/xhfmvls/c-buy/config"
	"github.com/xhfmvls/c-buy/database"
	"github.com/xhfmvls/c-buy/events"
	"github.com/xhfmvls/c-buy/logger"
	"github.com/xhfmvls/c-buy/middleware"
	"github.com/xhfmvls/c-buy/routes"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", slog.Any("err", err))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.New(logger.Options{
		Service: "c-buy",
		Env:     cfg.AppEnv,
		Level:   cfg.LogLevel,
	})
	log.Info("starting application", slog.String("port", cfg.Port))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg, log)
	if err != nil {
		return err
	}
	if err := database.Migrate(db); err != nil {
		return err
	}

	productCache := newProductCache(ctx, cfg, log)

	hub := events.NewHub(log)
	publishers := events.Multi{hub}
	if len(cfg.KafkaBrokers) > 0 {
		kafka, err := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopicPrefix)
		if err != nil {
			return err
		}
		defer kafka.Close()
		publishers = append(publishers, kafka)
		log.Info("kafka publisher enabled", slog.Any("brokers", cfg.KafkaBrokers))
	}

	r := newRouter(cfg, log, db)
	routes.SetupRoutes(r, routes.Deps{
		DB:        db,
		Cache:     productCache,
		Publisher: publishers,
		Hub:       hub,
		Auth:      &auth.Service{DB: db, Secret: cfg.JWTSecret, TTL: cfg.JWTTTL},
		Wallets:   cfg.WalletAddresses,
		Log:       log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server running", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// newProductCache falls back to no caching when redis is not configured or unreachable.
func newProductCache(ctx context.Context, cfg *config.Config, log *slog.Logger) cache.ProductCache {
	if cfg.RedisAddr == "" {
		return cache.NopProductCache{}
	}
	client, err := cache.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Warn("redis unavailable, product cache disabled", slog.Any("err", err))
		return cache.NopProductCache{}
	}
	return cache.NewRedisProductCache(client, cfg.ProductCacheTTL, log)
}

func newRouter(cfg *config.Config, log *slog.Logger, db *gorm.DB) *gin.Engine {
	if cfg.AppEnv != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))
	r.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.CORSOrigins,
		AllowMethods:  []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}))
	r.Use(middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).Middleware())
	r.Use(middleware.ErrorHandler(log))

	r.GET("/healthz", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "message": "database unreachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	r.NoRoute(middleware.NotFound)
	return r
}
