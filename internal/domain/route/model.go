package route

import (
	"fmt"
	"time"
)

// TimeLayout is the wire format for departure/arrival timestamps inside
// cached connection listings. Other instances read the same keys, so the
// layout is a contract.
const TimeLayout = "2006-01-02 15:04"

type Kind string

const (
	KindBus   Kind = "bus"
	KindTrain Kind = "train"
)

// Timestamp marshals as "YYYY-MM-DD HH:MM" to match the stored listings.
type Timestamp struct {
	time.Time
}

func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{t}
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.Format(TimeLayout) + `"`), nil
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("timestamp is not a JSON string: %s", data)
	}
	parsed, err := time.Parse(TimeLayout, string(data[1:len(data)-1]))
	if err != nil {
		return fmt.Errorf("parse timestamp: %w", err)
	}
	t.Time = parsed
	return nil
}

// Entry is one scheduled connection. Immutable once stored in the cache.
// Seats and price are numeric here; parsing from the scraped strings
// happens once, at the Route Source boundary.
type Entry struct {
	FromID    string    `json:"from"`
	ToID      string    `json:"to"`
	FromName  string    `json:"from_name"`
	ToName    string    `json:"to_name"`
	Departure Timestamp `json:"departure"`
	Arrival   Timestamp `json:"arrival"`
	Seats     int       `json:"seats"`
	Price     *float64  `json:"price,omitempty"`
	Kind      Kind      `json:"type"`
}

// NormalizeArrival advances the arrival by one day when its clock time is
// earlier than the departure's on the same calendar day. Timetables list
// clock times only, so an overnight connection would otherwise appear to
// arrive before it departs.
func NormalizeArrival(departure, arrival time.Time) time.Time {
	if arrival.Before(departure) {
		return arrival.AddDate(0, 0, 1)
	}
	return arrival
}
