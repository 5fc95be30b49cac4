package regiojet

import (
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gosimple/unidecode"

	"github.com/garncarz/kiwi-vikend/internal/domain/route"
)

// The day heading above each group of routes, e.g. "Ne 25.9.16".
var dateHeadingRegex = regexp.MustCompile(`.* (\d+)\.(\d+)\.(\d+)`)

// ParseTimetable extracts connection entries from the routes panel HTML.
// Entries with a vehicle kind outside the known set are dropped with a
// diagnostic; one bad row never fails the whole listing.
func ParseTimetable(r io.Reader, req RoutesRequest) ([]route.Entry, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	entries := []route.Entry{}
	var parseErr error

	doc.Find("div[class*='routeSummary']").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		heading := row.PrevAllFiltered("h2").First().Text()
		m := dateHeadingRegex.FindStringSubmatch(strings.TrimSpace(heading))
		if m == nil {
			parseErr = fmt.Errorf("no date heading before route row (heading %q)", heading)
			return false
		}
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		year += 2000

		departure, err := clockOnDay(colText(row, "col_depart"), year, month, day)
		if err != nil {
			parseErr = fmt.Errorf("parse departure: %w", err)
			return false
		}
		arrival, err := clockOnDay(colText(row, "col_arival"), year, month, day)
		if err != nil {
			parseErr = fmt.Errorf("parse arrival: %w", err)
			return false
		}
		arrival = route.NormalizeArrival(departure, arrival)

		var kind route.Kind
		switch alt := row.Find("div[class*='col_icon'] img").First().AttrOr("alt", ""); alt {
		case "Autobus":
			kind = route.KindBus
		case "Vlak":
			kind = route.KindTrain
		default:
			slog.Warn("unknown vehicle type, dropping entry", "type", alt)
			return true
		}

		entry := route.Entry{
			FromID:    req.FromID,
			ToID:      req.ToID,
			FromName:  req.FromName,
			ToName:    req.ToName,
			Departure: route.NewTimestamp(departure),
			Arrival:   route.NewTimestamp(arrival),
			Seats:     parseSeats(colText(row, "col_space")),
			Kind:      kind,
		}

		if priceText := cleanText(row.Find("div[class*='col_price']").Find("span").First().Text()); priceText != "" {
			if price, err := strconv.ParseFloat(strings.Fields(priceText)[0], 64); err == nil {
				entry.Price = &price
			}
		}

		entries = append(entries, entry)
		return true
	})

	if parseErr != nil {
		return nil, parseErr
	}
	return entries, nil
}

func colText(row *goquery.Selection, class string) string {
	return cleanText(row.Find("div[class*='" + class + "']").First().Text())
}

func cleanText(s string) string {
	return strings.TrimSpace(unidecode.Unidecode(s))
}

func clockOnDay(clock string, year, month, day int) (time.Time, error) {
	parts := strings.SplitN(clock, ":", 2)
	if len(parts) != 2 {
		return time.Time{}, fmt.Errorf("malformed clock time %q", clock)
	}
	hour, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return time.Time{}, fmt.Errorf("malformed clock time %q", clock)
	}
	minute, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return time.Time{}, fmt.Errorf("malformed clock time %q", clock)
	}
	return time.Date(year, time.Month(month), day, hour, minute, 0, 0, time.UTC), nil
}

// parseSeats turns the seat-availability column into a number. Sold-out
// rows show text instead of a count; those become zero.
func parseSeats(s string) int {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return 0
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0
	}
	return n
}
