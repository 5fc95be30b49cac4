package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/garncarz/kiwi-vikend/internal/cache"
	"github.com/garncarz/kiwi-vikend/internal/domain/booking"
)

// ListBookings enumerates every stored booking record, optionally
// filtered to one user. The identifier is recovered from the store key.
type ListBookings struct {
	rdb *redis.Client
}

func NewListBookings(rdb *redis.Client) *ListBookings {
	return &ListBookings{rdb: rdb}
}

func (uc *ListBookings) Execute(ctx context.Context, userID string) ([]booking.Booking, error) {
	bookings := []booking.Booking{}

	iter := uc.rdb.Scan(ctx, 0, cache.BookingScanPattern, 0).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()

		val, err := uc.rdb.Get(ctx, key).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read booking %s: %w", key, err)
		}

		var record booking.Record
		if err := json.Unmarshal([]byte(val), &record); err != nil {
			slog.Warn("skipping unreadable booking record", "key", key, "error", err)
			continue
		}

		if userID != "" && record.UserID != userID {
			continue
		}

		b := booking.Booking{
			ID:     cache.BookingID(key),
			Status: record.Status,
		}
		if record.Status == booking.StatusSuccess {
			price := record.Price
			b.Price = &price
		}
		bookings = append(bookings, b)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scan booking keys: %w", err)
	}

	return bookings, nil
}
