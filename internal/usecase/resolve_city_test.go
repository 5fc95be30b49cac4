package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garncarz/kiwi-vikend/internal/infrastructure/regiojet"
)

func TestResolve(t *testing.T) {
	source := &fakeSource{cities: []regiojet.City{
		{ID: "10202000", Name: "Praha"},
		{ID: "10202002", Name: "Ostrava"},
	}}

	t.Run("miss triggers one bulk refresh", func(t *testing.T) {
		_, rdb := newTestRedis(t)
		source.citiesCalls = 0
		resolver := NewCityResolver(rdb, source, time.Hour)

		id, err := resolver.Resolve(context.Background(), "Praha")
		require.NoError(t, err)
		assert.Equal(t, "10202000", id)
		assert.Equal(t, 1, source.citiesCalls)

		// Second lookup is served from the store.
		id, err = resolver.Resolve(context.Background(), "Ostrava")
		require.NoError(t, err)
		assert.Equal(t, "10202002", id)
		assert.Equal(t, 1, source.citiesCalls)
	})

	t.Run("unknown city fails after refresh", func(t *testing.T) {
		_, rdb := newTestRedis(t)
		source.citiesCalls = 0
		resolver := NewCityResolver(rdb, source, time.Hour)

		_, err := resolver.Resolve(context.Background(), "Atlantis")
		assert.ErrorIs(t, err, ErrUnknownCity)
		assert.Equal(t, 1, source.citiesCalls)

		// An unresolvable name keeps forcing full refreshes.
		_, err = resolver.Resolve(context.Background(), "Atlantis")
		assert.ErrorIs(t, err, ErrUnknownCity)
		assert.Equal(t, 2, source.citiesCalls)
	})

	t.Run("name normalization matches catalog slugs", func(t *testing.T) {
		_, rdb := newTestRedis(t)
		resolver := NewCityResolver(rdb, source, time.Hour)

		id, err := resolver.Resolve(context.Background(), "  PRAHA ")
		require.NoError(t, err)
		assert.Equal(t, "10202000", id)
	})

	t.Run("source failure propagates", func(t *testing.T) {
		_, rdb := newTestRedis(t)
		broken := &fakeSource{err: context.DeadlineExceeded}
		resolver := NewCityResolver(rdb, broken, time.Hour)

		_, err := resolver.Resolve(context.Background(), "Praha")
		assert.ErrorIs(t, err, ErrSourceUnavailable)
	})
}
