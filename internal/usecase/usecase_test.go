package usecase

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/garncarz/kiwi-vikend/internal/cache"
	"github.com/garncarz/kiwi-vikend/internal/domain/route"
	"github.com/garncarz/kiwi-vikend/internal/dynconfig"
	"github.com/garncarz/kiwi-vikend/internal/infrastructure/regiojet"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	return mr, redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func newPricing(enabled bool, margin float64) *Pricing {
	return NewPricing(dynconfig.NewStore(dynconfig.Config{Enabled: enabled, Margin: margin}))
}

type fakeSource struct {
	cities      []regiojet.City
	entries     []route.Entry
	err         error
	citiesCalls int
	routesCalls int
}

func (f *fakeSource) Cities(ctx context.Context) ([]regiojet.City, error) {
	f.citiesCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.cities, nil
}

func (f *fakeSource) Routes(ctx context.Context, req regiojet.RoutesRequest) ([]route.Entry, error) {
	f.routesCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.entries, nil
}

func ts(t *testing.T, value string) route.Timestamp {
	t.Helper()
	parsed, err := time.Parse(route.TimeLayout, value)
	require.NoError(t, err)
	return route.NewTimestamp(parsed)
}

func fp(v float64) *float64 {
	return &v
}

func entry(t *testing.T, fromID, toID, dep, arr string, price *float64, seats int) route.Entry {
	t.Helper()
	return route.Entry{
		FromID:    fromID,
		ToID:      toID,
		FromName:  "From" + fromID,
		ToName:    "To" + toID,
		Departure: ts(t, dep),
		Arrival:   ts(t, arr),
		Seats:     seats,
		Price:     price,
		Kind:      route.KindBus,
	}
}

func seedConnection(t *testing.T, rdb *redis.Client, fromID, toID, date string, entries []route.Entry) {
	t.Helper()
	data, err := json.Marshal(entries)
	require.NoError(t, err)
	key := cache.ConnectionKey(fromID, toID, date)
	require.NoError(t, rdb.Set(context.Background(), key, data, time.Hour).Err())
}
