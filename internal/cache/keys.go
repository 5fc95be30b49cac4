// Package cache defines the shared key-value store's key space. The key
// formats are a contract: other instances and ops tooling read the same
// keys, so they must not drift.
package cache

import (
	"fmt"
	"strings"
	"time"

	"github.com/gosimple/slug"
)

const (
	cityPrefix    = "city_id_"
	connPrefix    = "connection_"
	bookingPrefix = "booking_"
)

// connSpecTimeLayout covers the trailing fixed-width portion of a
// connection spec, e.g. "2016-09-25_13:30".
const connSpecTimeLayout = "2006-01-02_15:04"

// Slug normalizes a city name into its cache-key form: lowercased,
// diacritics folded to ASCII, whitespace collapsed to dashes.
func Slug(name string) string {
	return slug.Make(name)
}

func CityKey(name string) string {
	return cityPrefix + Slug(name)
}

func ConnectionKey(fromID, toID, date string) string {
	return fmt.Sprintf("%s%s_%s_%s", connPrefix, fromID, toID, date)
}

// ConnectionScanPattern matches every cached connection listing.
const ConnectionScanPattern = connPrefix + "*"

// ConnectionPairPattern matches every cached date for one
// origin/destination pair.
func ConnectionPairPattern(pairKey string) string {
	return connPrefix + pairKey + "_*"
}

func BookingKey(id string) string {
	return bookingPrefix + id
}

const BookingScanPattern = bookingPrefix + "*"

// BookingID recovers the booking identifier from its store key.
func BookingID(key string) string {
	return strings.TrimPrefix(key, bookingPrefix)
}

// ParseConnSpec decodes "<fromID>_<toID>_<YYYY-MM-DD>_<HH:MM>". The
// timestamp occupies the last 16 characters; everything before the
// separator is the origin/destination pair key used for prefix scanning.
func ParseConnSpec(spec string) (pairKey string, departure time.Time, err error) {
	if len(spec) <= len(connSpecTimeLayout)+1 || spec[len(spec)-len(connSpecTimeLayout)-1] != '_' {
		return "", time.Time{}, fmt.Errorf("malformed connection spec: %q", spec)
	}
	pairKey = spec[:len(spec)-len(connSpecTimeLayout)-1]
	if !strings.Contains(pairKey, "_") {
		return "", time.Time{}, fmt.Errorf("malformed connection spec: %q", spec)
	}
	departure, err = time.Parse(connSpecTimeLayout, spec[len(spec)-len(connSpecTimeLayout):])
	if err != nil {
		return "", time.Time{}, fmt.Errorf("parse connection spec departure: %w", err)
	}
	return pairKey, departure, nil
}
