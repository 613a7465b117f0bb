package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Gvirgo2/touropia/api"
	"github.com/Gvirgo2/touropia/config"
	"github.com/Gvirgo2/touropia/internal/bootstrap"
	"github.com/Gvirgo2/touropia/internal/cache"
	"github.com/Gvirgo2/touropia/internal/cart"
	"github.com/Gvirgo2/touropia/internal/kafka"
	"github.com/Gvirgo2/touropia/internal/kv"
	"github.com/Gvirgo2/touropia/internal/payment"
	"github.com/Gvirgo2/touropia/internal/repository"
	"github.com/Gvirgo2/touropia/internal/service/booking"
	"github.com/Gvirgo2/touropia/internal/service/catalog"
	"github.com/Gvirgo2/touropia/internal/service/checkout"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Booking.CatalogCacheTTLSeconds)*time.Second)
	sessionKV := kv.NewRedisStore(cfg.Redis, time.Duration(cfg.Session.RecordTTLHours)*time.Hour)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	catalogRepo := repository.NewCatalogRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)

	catalogService := catalog.NewCatalogService(catalogRepo, redisCache)
	bookingService := booking.NewBookingService(
		bookingRepo,
		redisCache,
		producer,
		cfg.Kafka.BookingTopic,
		time.Duration(cfg.Booking.HoldTTLMinutes)*time.Minute,
		time.Duration(cfg.Booking.ConfirmationTTLMinutes)*time.Minute,
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
	)

	cartManager := cart.NewManager(sessionKV, bookingService, time.Duration(cfg.Session.IdleMinutes)*time.Minute)
	go cartManager.Run(ctx, time.Duration(cfg.Session.SweepMinutes)*time.Minute)

	gateway := payment.NewGateway(cfg.Payment)
	checkoutService := checkout.NewCheckoutService(bookingService, gateway)

	err = bootstrap.Run(ctx, cfg,
		api.NewCatalogHandler(catalogService),
		api.NewCartHandler(cartManager),
		api.NewBookingHandler(bookingService),
		api.NewCheckoutHandler(cartManager, checkoutService),
	)
	if err != nil {
		log.Fatalf("server error: %v", err)
	}
}
