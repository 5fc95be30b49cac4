package booking

type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// Booking is what callers get back. Failed bookings carry no id and no
// price.
type Booking struct {
	ID     string   `json:"id,omitempty"`
	Status Status   `json:"status"`
	Price  *float64 `json:"price,omitempty"`
}

// Record is the stored form under booking_<id>; the id lives in the key,
// not the value. Records are written once and never updated.
type Record struct {
	Status Status  `json:"status"`
	UserID string  `json:"user_id"`
	Price  float64 `json:"price"`
}
