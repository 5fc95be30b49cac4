package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garncarz/kiwi-vikend/internal/domain/route"
)

func TestRoutesBetween(t *testing.T) {
	t.Run("window inclusion", func(t *testing.T) {
		_, rdb := newTestRedis(t)
		uc := NewRoutesBetween(rdb)

		// Departs inside the window, arrives just past midnight.
		overnight := entry(t, "1", "2", "2023-01-01 23:50", "2023-01-02 00:15", fp(100), 4)
		// Entirely on the following day.
		nextDay := entry(t, "1", "2", "2023-01-02 10:00", "2023-01-02 11:00", fp(80), 4)

		seedConnection(t, rdb, "1", "2", "2023-01-01", []route.Entry{overnight})
		seedConnection(t, rdb, "1", "2", "2023-01-02", []route.Entry{nextDay})

		got, err := uc.Execute(context.Background(), "2023-01-01", "2023-01-01")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, overnight, got[0])
	})

	t.Run("arrival alone can qualify an entry", func(t *testing.T) {
		_, rdb := newTestRedis(t)
		uc := NewRoutesBetween(rdb)

		// Departs before the window, arrives inside it.
		e := entry(t, "1", "2", "2022-12-31 23:00", "2023-01-01 06:00", nil, 2)
		seedConnection(t, rdb, "1", "2", "2022-12-31", []route.Entry{e})

		got, err := uc.Execute(context.Background(), "2023-01-01", "2023-01-02")
		require.NoError(t, err)
		require.Len(t, got, 1)
	})

	t.Run("scans every pair, not just one prefix", func(t *testing.T) {
		_, rdb := newTestRedis(t)
		uc := NewRoutesBetween(rdb)

		seedConnection(t, rdb, "1", "2", "2023-01-01",
			[]route.Entry{entry(t, "1", "2", "2023-01-01 08:00", "2023-01-01 10:00", fp(50), 3)})
		seedConnection(t, rdb, "3", "4", "2023-01-01",
			[]route.Entry{entry(t, "3", "4", "2023-01-01 09:00", "2023-01-01 12:00", fp(70), 6)})

		got, err := uc.Execute(context.Background(), "2023-01-01", "2023-01-01")
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("unreadable listing is skipped", func(t *testing.T) {
		_, rdb := newTestRedis(t)
		uc := NewRoutesBetween(rdb)

		require.NoError(t, rdb.Set(context.Background(), "connection_1_2_2023-01-01", "{not json", time.Hour).Err())
		seedConnection(t, rdb, "3", "4", "2023-01-01",
			[]route.Entry{entry(t, "3", "4", "2023-01-01 09:00", "2023-01-01 12:00", fp(70), 6)})

		got, err := uc.Execute(context.Background(), "2023-01-01", "2023-01-01")
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("malformed dates are a client error", func(t *testing.T) {
		_, rdb := newTestRedis(t)
		uc := NewRoutesBetween(rdb)

		_, err := uc.Execute(context.Background(), "yesterday", "2023-01-01")
		assert.ErrorIs(t, err, ErrInvalidRequest)
	})
}
