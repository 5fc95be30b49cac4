package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/garncarz/kiwi-vikend/internal/api"
	"github.com/garncarz/kiwi-vikend/internal/config"
	"github.com/garncarz/kiwi-vikend/internal/dynconfig"
	"github.com/garncarz/kiwi-vikend/internal/infrastructure/kafka"
	redisInfra "github.com/garncarz/kiwi-vikend/internal/infrastructure/redis"
	"github.com/garncarz/kiwi-vikend/internal/infrastructure/regiojet"
	"github.com/garncarz/kiwi-vikend/internal/usecase"
)

func main() {
	// Initialize structured JSON logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.New()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Shared key-value store
	redisClient, err := redisInfra.NewClient(ctx, redisInfra.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		logger.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	// Route source
	source, err := regiojet.NewClient(regiojet.Config{
		PortalURL:       cfg.Source.PortalURL,
		BookingURL:      cfg.Source.BookingURL,
		DestinationsURL: cfg.Source.DestinationsURL,
		Timeout:         cfg.Source.Timeout,
	})
	if err != nil {
		logger.Error("failed to build route source client", "error", err)
		os.Exit(1)
	}

	// Dynamic config: load once before serving, then refresh on interval.
	cfgStore := dynconfig.NewStore(dynconfig.Default())
	loader := dynconfig.NewLoader(cfgStore, redisClient, cfg.Dynamic.Name, cfg.Dynamic.Interval, cfg.Cache.TTL)
	if err := loader.Load(ctx); err != nil {
		logger.Warn("initial dynamic config load failed, using defaults", "error", err)
	}
	go loader.Run(ctx)

	// Booking events (optional)
	var events usecase.EventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		producer := kafka.NewProducer(kafka.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.Topic,
		})
		defer producer.Close()
		events = producer
	}

	// UseCases
	resolver := usecase.NewCityResolver(redisClient, source, cfg.Cache.TTL)
	getRoutes := usecase.NewGetRoutes(redisClient, source, resolver, cfg.Cache.TTL)
	between := usecase.NewRoutesBetween(redisClient)
	pricing := usecase.NewPricing(cfgStore)
	searchUC := usecase.NewSearchRoutes(getRoutes, between, pricing)
	createBookingUC := usecase.NewCreateBooking(redisClient, pricing, events)
	listBookingsUC := usecase.NewListBookings(redisClient)

	handlers := api.NewHandlers(searchUC, pricing, createBookingUC, listBookingsUC)
	apiHandler := api.NewRouter(handlers, redisClient)

	srv := &http.Server{
		Addr:    ":" + cfg.HTTP.Port,
		Handler: apiHandler,
	}

	go func() {
		logger.Info("Server starting", "port", cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("listen failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("Server exiting")
}
