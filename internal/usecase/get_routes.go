package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/garncarz/kiwi-vikend/internal/cache"
	"github.com/garncarz/kiwi-vikend/internal/domain/route"
	"github.com/garncarz/kiwi-vikend/internal/infrastructure/regiojet"
)

// GetRoutes is the cache-aside connection listing: hit the store first,
// fetch from the route source on a miss and store the result with a TTL.
//
// There is no per-key lock: concurrent misses for the same key may each
// fetch and each write. Last write wins, which is harmless because the
// listing for a given key is stable within the TTL.
type GetRoutes struct {
	rdb      *redis.Client
	source   RouteSource
	resolver *CityResolver
	ttl      time.Duration
}

func NewGetRoutes(rdb *redis.Client, source RouteSource, resolver *CityResolver, ttl time.Duration) *GetRoutes {
	return &GetRoutes{
		rdb:      rdb,
		source:   source,
		resolver: resolver,
		ttl:      ttl,
	}
}

func (uc *GetRoutes) Execute(ctx context.Context, fromName, toName, date string) ([]route.Entry, error) {
	fromID, err := uc.resolver.Resolve(ctx, fromName)
	if err != nil {
		return nil, err
	}
	toID, err := uc.resolver.Resolve(ctx, toName)
	if err != nil {
		return nil, err
	}

	key := cache.ConnectionKey(fromID, toID, date)

	val, err := uc.rdb.Get(ctx, key).Result()
	if err == nil {
		var entries []route.Entry
		if err := json.Unmarshal([]byte(val), &entries); err != nil {
			return nil, fmt.Errorf("unmarshal cached connections %s: %w", key, err)
		}
		routeCacheHits.Inc()
		return entries, nil
	}
	if !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("read connection cache: %w", err)
	}

	routeCacheMisses.Inc()

	entries, err := uc.source.Routes(ctx, regiojet.RoutesRequest{
		FromID:   fromID,
		ToID:     toID,
		FromName: fromName,
		ToName:   toName,
		Date:     date,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}

	data, err := json.Marshal(entries)
	if err != nil {
		return nil, fmt.Errorf("marshal connections: %w", err)
	}
	if err := uc.rdb.Set(ctx, key, data, uc.ttl).Err(); err != nil {
		return nil, fmt.Errorf("write connection cache: %w", err)
	}

	return entries, nil
}
