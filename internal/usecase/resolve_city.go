package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/garncarz/kiwi-vikend/internal/cache"
)

// CityResolver maps human-readable city names to the portal's opaque
// destination ids, backed by city_id_* keys in the shared store.
type CityResolver struct {
	rdb    *redis.Client
	source RouteSource
	ttl    time.Duration
}

func NewCityResolver(rdb *redis.Client, source RouteSource, ttl time.Duration) *CityResolver {
	return &CityResolver{
		rdb:    rdb,
		source: source,
		ttl:    ttl,
	}
}

// Resolve looks the slugged name up in the store. On a miss the full
// catalog is refreshed once and the lookup retried; a name still absent
// after that is ErrUnknownCity. Every call with an unresolvable name
// pays for a full catalog refresh, so callers must not retry without
// correcting the name.
func (r *CityResolver) Resolve(ctx context.Context, name string) (string, error) {
	key := cache.CityKey(name)

	id, err := r.rdb.Get(ctx, key).Result()
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("read city id: %w", err)
	}

	if err := r.WarmCatalog(ctx); err != nil {
		return "", err
	}

	id, err = r.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("%w: %s", ErrUnknownCity, name)
	}
	if err != nil {
		return "", fmt.Errorf("read city id: %w", err)
	}
	return id, nil
}

// WarmCatalog downloads the full city catalog and writes every
// (slug -> id) pair in one pipelined batch with the shared TTL.
func (r *CityResolver) WarmCatalog(ctx context.Context) error {
	slog.Info("downloading cities & saving them into the store")

	cities, err := r.source.Cities(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}

	pipe := r.rdb.Pipeline()
	for _, city := range cities {
		pipe.Set(ctx, cache.CityKey(city.Name), city.ID, r.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("write city catalog: %w", err)
	}
	return nil
}
