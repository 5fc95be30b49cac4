package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/garncarz/kiwi-vikend/internal/cache"
	"github.com/garncarz/kiwi-vikend/internal/domain/booking"
	"github.com/garncarz/kiwi-vikend/internal/domain/route"
)

// EventPublisher receives booking-created events. Implemented by the
// kafka producer; nil disables publishing.
type EventPublisher interface {
	SendMessage(ctx context.Context, key, value []byte) error
}

// CreateBooking records a booking against an already-cached connection.
// The connection spec names the origin/destination pair and an exact
// departure timestamp; every cached date for the pair is scanned until
// an entry with that departure and a published price turns up. No
// usable match is not an error, it is a failed booking.
type CreateBooking struct {
	rdb     *redis.Client
	pricing *Pricing
	events  EventPublisher
}

func NewCreateBooking(rdb *redis.Client, pricing *Pricing, events EventPublisher) *CreateBooking {
	return &CreateBooking{
		rdb:     rdb,
		pricing: pricing,
		events:  events,
	}
}

type bookingEvent struct {
	BookingID string    `json:"booking_id"`
	UserID    string    `json:"user_id"`
	Price     float64   `json:"price"`
	CreatedAt time.Time `json:"created_at"`
}

func (uc *CreateBooking) Execute(ctx context.Context, connSpec string, passengerCount int, userID string) (booking.Booking, error) {
	pairKey, departure, err := cache.ParseConnSpec(connSpec)
	if err != nil {
		return booking.Booking{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if passengerCount < 1 {
		return booking.Booking{}, fmt.Errorf("%w: passenger count must be positive", ErrInvalidRequest)
	}

	iter := uc.rdb.Scan(ctx, 0, cache.ConnectionPairPattern(pairKey), 0).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()

		val, err := uc.rdb.Get(ctx, key).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return booking.Booking{}, fmt.Errorf("read connection %s: %w", key, err)
		}

		var listing []route.Entry
		if err := json.Unmarshal([]byte(val), &listing); err != nil {
			slog.Warn("skipping unreadable connection listing", "key", key, "error", err)
			continue
		}

		entry, ok := matchDeparture(listing, departure)
		if !ok || entry.Price == nil {
			continue
		}

		priced := uc.pricing.Apply(entry)
		total := *priced.Price * float64(passengerCount)
		id := uuid.New().String()

		record, err := json.Marshal(booking.Record{
			Status: booking.StatusSuccess,
			UserID: userID,
			Price:  total,
		})
		if err != nil {
			return booking.Booking{}, fmt.Errorf("marshal booking: %w", err)
		}
		// Bookings persist; no TTL.
		if err := uc.rdb.Set(ctx, cache.BookingKey(id), record, 0).Err(); err != nil {
			return booking.Booking{}, fmt.Errorf("write booking: %w", err)
		}

		uc.publish(ctx, id, userID, total)
		bookingsCreated.WithLabelValues(string(booking.StatusSuccess)).Inc()

		return booking.Booking{
			ID:     id,
			Status: booking.StatusSuccess,
			Price:  &total,
		}, nil
	}
	if err := iter.Err(); err != nil {
		return booking.Booking{}, fmt.Errorf("scan connection keys: %w", err)
	}

	bookingsCreated.WithLabelValues(string(booking.StatusFailed)).Inc()
	return booking.Booking{Status: booking.StatusFailed}, nil
}

func matchDeparture(listing []route.Entry, departure time.Time) (route.Entry, bool) {
	for _, entry := range listing {
		if entry.Departure.Equal(departure) {
			return entry, true
		}
	}
	return route.Entry{}, false
}

// publish emits a booking-created event. Publishing is best effort; a
// broker outage never fails a booking that is already persisted.
func (uc *CreateBooking) publish(ctx context.Context, id, userID string, price float64) {
	if uc.events == nil {
		return
	}
	value, err := json.Marshal(bookingEvent{
		BookingID: id,
		UserID:    userID,
		Price:     price,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		slog.Error("marshal booking event failed", "booking_id", id, "error", err)
		return
	}
	if err := uc.events.SendMessage(ctx, []byte(id), value); err != nil {
		slog.Error("publish booking event failed", "booking_id", id, "error", err)
	}
}
