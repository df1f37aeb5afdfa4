// Command notifier consumes order status changes and emails customers.
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/georgemunganga/dalin-backend/internal/config"
	"github.com/georgemunganga/dalin-backend/internal/database"
	"github.com/georgemunganga/dalin-backend/internal/modules/profile"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := cfg.Logger()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	if len(cfg.KafkaBrokers) == 0 || cfg.DatabaseURL == "" {
		logger.Fatal("KAFKA_BROKERS and DATABASE_URL are required")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	db, err := database.InitDB(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer db.Close()

	reader := newReader(cfg.KafkaBrokers, cfg.NotifyTopic, cfg.NotifyGroupID)
	defer reader.Close()

	h := &statusHandler{
		recipients: profile.NewPostgresRepository(db),
		mailer:     &logMailer{log: logger.Named("mail")},
		ordersURL:  cfg.OrdersURL,
		log:        logger,
	}

	logger.Info("notifier started",
		zap.Strings("brokers", cfg.KafkaBrokers),
		zap.String("topic", cfg.NotifyTopic))
	consume(ctx, reader, h.Handle, logger)
}
