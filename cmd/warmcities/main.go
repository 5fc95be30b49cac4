// Command warmcities performs one bulk refresh of the city catalog so
// that city_id_* keys are populated before traffic arrives.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/garncarz/kiwi-vikend/internal/config"
	redisInfra "github.com/garncarz/kiwi-vikend/internal/infrastructure/redis"
	"github.com/garncarz/kiwi-vikend/internal/infrastructure/regiojet"
	"github.com/garncarz/kiwi-vikend/internal/usecase"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.New()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

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

	resolver := usecase.NewCityResolver(redisClient, source, cfg.Cache.TTL)
	if err := resolver.WarmCatalog(ctx); err != nil {
		logger.Error("city catalog refresh failed", "error", err)
		os.Exit(1)
	}

	logger.Info("city catalog refreshed")
}
