package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/garncarz/kiwi-vikend/internal/cache"
	"github.com/garncarz/kiwi-vikend/internal/domain/route"
)

const dateLayout = "2006-01-02"

// RoutesBetween answers "what departs or arrives inside this date
// window" across everything currently cached. It scans the whole
// connection_* key space, so its cost grows with the number of cached
// (origin, destination, date) triples, not with the window size.
type RoutesBetween struct {
	rdb *redis.Client
}

func NewRoutesBetween(rdb *redis.Client) *RoutesBetween {
	return &RoutesBetween{rdb: rdb}
}

func (uc *RoutesBetween) Execute(ctx context.Context, dateFrom, dateTo string) ([]route.Entry, error) {
	dateMin, err := time.Parse(dateLayout, dateFrom)
	if err != nil {
		return nil, fmt.Errorf("%w: date_from %q", ErrInvalidRequest, dateFrom)
	}
	dateMax, err := time.Parse(dateLayout, dateTo)
	if err != nil {
		return nil, fmt.Errorf("%w: date_to %q", ErrInvalidRequest, dateTo)
	}
	// The window covers the whole of dateTo.
	dateMax = dateMax.AddDate(0, 0, 1)

	entries := []route.Entry{}

	iter := uc.rdb.Scan(ctx, 0, cache.ConnectionScanPattern, 0).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()

		val, err := uc.rdb.Get(ctx, key).Result()
		if errors.Is(err, redis.Nil) {
			// Expired between SCAN and GET.
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read connection %s: %w", key, err)
		}

		var listing []route.Entry
		if err := json.Unmarshal([]byte(val), &listing); err != nil {
			slog.Warn("skipping unreadable connection listing", "key", key, "error", err)
			continue
		}

		for _, entry := range listing {
			if inWindow(entry.Departure.Time, dateMin, dateMax) ||
				inWindow(entry.Arrival.Time, dateMin, dateMax) {
				entries = append(entries, entry)
			}
		}
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scan connection keys: %w", err)
	}

	return entries, nil
}

func inWindow(t, min, max time.Time) bool {
	return !t.Before(min) && !t.After(max)
}
