package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/georgemunganga/dalin-backend/internal/config"
	"github.com/georgemunganga/dalin-backend/internal/database"
	ratelimit "github.com/georgemunganga/dalin-backend/internal/middleware"
	"github.com/georgemunganga/dalin-backend/internal/modules/auth"
	"github.com/georgemunganga/dalin-backend/internal/modules/catalog"
	"github.com/georgemunganga/dalin-backend/internal/modules/ledger"
	"github.com/georgemunganga/dalin-backend/internal/modules/notify"
	"github.com/georgemunganga/dalin-backend/internal/modules/order"
	"github.com/georgemunganga/dalin-backend/internal/modules/pricing"
	"github.com/georgemunganga/dalin-backend/internal/modules/profile"
	"github.com/georgemunganga/dalin-backend/internal/modules/report"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := cfg.RequireAPI(); err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := cfg.Logger()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.InitDB(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer db.Close()

	// ── Redis ───────────────────────────────────────────────
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unreachable, continuing without cache", zap.Error(err))
		}
	}

	// ── Notifications ───────────────────────────────────────
	var sink notify.Sink = notify.NewLogSink(logger.Named("notify"))
	if len(cfg.KafkaBrokers) > 0 {
		producer, err := notify.NewKafkaProducer(cfg.KafkaBrokers, logger)
		if err != nil {
			logger.Fatal("kafka producer", zap.Error(err))
		}
		kafkaSink := notify.NewKafkaSink(producer, cfg.NotifyTopic)
		defer kafkaSink.Close()
		sink = kafkaSink
	}
	dispatcherCtx, stopDispatcher := context.WithCancel(context.Background())
	dispatcher := notify.NewDispatcher(sink, 1024, logger)
	go dispatcher.Run(dispatcherCtx)

	// ── Identity ────────────────────────────────────────────
	profileRepo := profile.NewPostgresRepository(db)
	profileHandler := profile.NewHandler(profile.NewService(profileRepo), auth.CallerID)

	authService := auth.NewService(profileRepo, cfg.JWTSecret, cfg.JWTTTL)
	authHandler := auth.NewHandler(authService)

	// ── Points & Orders ─────────────────────────────────────
	ledgerHandler := ledger.NewHandler(ledger.NewService(ledger.NewPostgresRepository(db), logger))

	var orderRepo order.Repository = order.NewPostgresRepository(db)
	if rdb != nil {
		orderRepo = order.NewCachedRepository(orderRepo, rdb, cfg.OrderCacheTTL, logger)
	}
	orderService := order.NewService(orderRepo, profileRepo, pricing.StaticRates(cfg.Rates), dispatcher, logger)
	orderHandler := order.NewHandler(orderService)

	// ── Storefront & Reporting ──────────────────────────────
	catalogHandler := catalog.NewHandler(catalog.NewService(catalog.NewPostgresRepository(db)))
	reportHandler := report.NewHandler(report.NewService(report.NewPostgresRepository(db), cfg.RealMarketRate))

	// ── Router ──────────────────────────────────────────────
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	router.Route("/api/v1", func(r chi.Router) {
		profileHandler.RegisterPublicRoutes(r)
		authHandler.RegisterRoutes(r)
		catalogHandler.RegisterPublicRoutes(r)

		r.Route("/me", func(r chi.Router) {
			r.Use(auth.Authenticate(authService))
			if rdb != nil {
				r.Use(ratelimit.RateLimit(rdb, cfg.RateLimitPerMinute, time.Minute, callerKey, logger))
			}
			profileHandler.RegisterCustomerRoutes(r)
			orderHandler.RegisterCustomerRoutes(r)
			ledgerHandler.RegisterCustomerRoutes(r)
		})

		r.Route("/staff", func(r chi.Router) {
			r.Use(auth.Authenticate(authService))
			r.Use(auth.RequireStaff)
			profileHandler.RegisterStaffRoutes(r)
			orderHandler.RegisterStaffRoutes(r)
			ledgerHandler.RegisterStaffRoutes(r)
			catalogHandler.RegisterStaffRoutes(r)
			reportHandler.RegisterRoutes(r)
		})
	})

	// ── Start Server ────────────────────────────────────────
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Dalin API server starting", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}

	// flush notifications for transitions that committed before shutdown
	stopDispatcher()
	dispatcher.Wait()
	logger.Info("server exited properly")
}

// callerKey rate-limits authenticated routes per customer rather than per IP.
func callerKey(r *http.Request) string {
	if id, ok := auth.FromContext(r.Context()); ok {
		return "customer:" + id.CustomerID.String()
	}
	return "ip:" + ratelimit.ClientIP(r)
}
