package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garncarz/kiwi-vikend/internal/domain/route"
	"github.com/garncarz/kiwi-vikend/internal/infrastructure/regiojet"
)

func TestGetRoutes(t *testing.T) {
	cities := []regiojet.City{
		{ID: "10202000", Name: "Praha"},
		{ID: "10202002", Name: "Ostrava"},
	}
	listing := func(t *testing.T) []route.Entry {
		return []route.Entry{
			entry(t, "10202000", "10202002", "2023-06-01 13:30", "2023-06-01 17:00", fp(219), 12),
			entry(t, "10202000", "10202002", "2023-06-01 23:50", "2023-06-02 00:15", nil, 5),
		}
	}

	t.Run("cache round-trip hits the source once", func(t *testing.T) {
		_, rdb := newTestRedis(t)
		source := &fakeSource{cities: cities, entries: listing(t)}
		uc := NewGetRoutes(rdb, source, NewCityResolver(rdb, source, time.Hour), time.Hour)

		first, err := uc.Execute(context.Background(), "Praha", "Ostrava", "2023-06-01")
		require.NoError(t, err)
		require.Len(t, first, 2)
		assert.Equal(t, 1, source.routesCalls)

		second, err := uc.Execute(context.Background(), "Praha", "Ostrava", "2023-06-01")
		require.NoError(t, err)
		assert.Equal(t, first, second)
		assert.Equal(t, 1, source.routesCalls)
	})

	t.Run("TTL expiry re-invokes the source", func(t *testing.T) {
		mr, rdb := newTestRedis(t)
		source := &fakeSource{cities: cities, entries: listing(t)}
		uc := NewGetRoutes(rdb, source, NewCityResolver(rdb, source, time.Hour), time.Hour)

		_, err := uc.Execute(context.Background(), "Praha", "Ostrava", "2023-06-01")
		require.NoError(t, err)
		assert.Equal(t, 1, source.routesCalls)

		mr.FastForward(time.Hour + time.Minute)

		_, err = uc.Execute(context.Background(), "Praha", "Ostrava", "2023-06-01")
		require.NoError(t, err)
		assert.Equal(t, 2, source.routesCalls)
	})

	t.Run("unknown city propagates before any fetch", func(t *testing.T) {
		_, rdb := newTestRedis(t)
		source := &fakeSource{cities: cities, entries: listing(t)}
		uc := NewGetRoutes(rdb, source, NewCityResolver(rdb, source, time.Hour), time.Hour)

		_, err := uc.Execute(context.Background(), "Praha", "Atlantis", "2023-06-01")
		assert.ErrorIs(t, err, ErrUnknownCity)
		assert.Equal(t, 0, source.routesCalls)
	})

	t.Run("source failure on miss propagates", func(t *testing.T) {
		_, rdb := newTestRedis(t)
		source := &fakeSource{cities: cities, entries: listing(t)}
		resolver := NewCityResolver(rdb, source, time.Hour)
		require.NoError(t, resolver.WarmCatalog(context.Background()))

		source.err = context.DeadlineExceeded
		uc := NewGetRoutes(rdb, source, resolver, time.Hour)

		_, err := uc.Execute(context.Background(), "Praha", "Ostrava", "2023-06-01")
		assert.ErrorIs(t, err, ErrSourceUnavailable)
	})
}
