// Package regiojet talks to the upstream travel portal: the public city
// catalog and the scraped timetable pages. It is the only place that
// sees the portal's HTML; everything downstream works with parsed
// entries.
package regiojet

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/garncarz/kiwi-vikend/internal/domain/route"
)

type City struct {
	ID   string
	Name string
}

type RoutesRequest struct {
	FromID   string
	ToID     string
	FromName string
	ToName   string
	Date     string // YYYY-MM-DD
}

type Config struct {
	PortalURL       string
	BookingURL      string
	DestinationsURL string
	Timeout         time.Duration
}

type Client struct {
	httpClient      *http.Client
	portalURL       string
	bookingURL      string
	destinationsURL string
}

func NewClient(cfg Config) (*Client, error) {
	// The booking pages require the session cookies handed out by the
	// portal landing page.
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}

	return &Client{
		httpClient: &http.Client{
			Jar:     jar,
			Timeout: cfg.Timeout,
		},
		portalURL:       cfg.PortalURL,
		bookingURL:      cfg.BookingURL,
		destinationsURL: cfg.DestinationsURL,
	}, nil
}

// Cities downloads the full place catalog, flattened across countries.
func (c *Client) Cities(ctx context.Context) ([]City, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.destinationsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build destinations request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch destinations: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch destinations: unexpected status %s", resp.Status)
	}

	var payload struct {
		Destinations []struct {
			Cities []struct {
				ID   json.Number `json:"id"`
				Name string      `json:"name"`
			} `json:"cities"`
		} `json:"destinations"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode destinations: %w", err)
	}

	var cities []City
	for _, country := range payload.Destinations {
		for _, city := range country.Cities {
			cities = append(cities, City{ID: city.ID.String(), Name: city.Name})
		}
	}
	return cities, nil
}

// Routes fetches and parses the timetable listing for one
// (origin, destination, date) triple.
func (c *Client) Routes(ctx context.Context, req RoutesRequest) ([]route.Entry, error) {
	slog.Info("downloading & parsing routes",
		"from", req.FromName, "to", req.ToName, "date", req.Date)

	if err := c.get(ctx, c.portalURL); err != nil {
		return nil, fmt.Errorf("open portal session: %w", err)
	}

	dateDigits := strings.ReplaceAll(req.Date, "-", "")
	bookingURL := fmt.Sprintf(
		"%s/Booking/from/%s/to/%s/tarif/REGULAR/departure/%s/retdep/%s/return/false",
		c.bookingURL, req.FromID, req.ToID, dateDigits, dateDigits,
	)

	if err := c.get(ctx, bookingURL); err != nil {
		return nil, fmt.Errorf("open booking page: %w", err)
	}

	// The routes panel is rendered by a second, behavior-listener request.
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet,
		bookingURL+"?0-1.IBehaviorListener.0-mainPanel-routesPanel", nil)
	if err != nil {
		return nil, fmt.Errorf("build routes request: %w", err)
	}
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("fetch routes panel: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch routes panel: unexpected status %s", resp.Status)
	}

	entries, err := ParseTimetable(resp.Body, req)
	if err != nil {
		return nil, fmt.Errorf("parse routes panel: %w", err)
	}
	return entries, nil
}

func (c *Client) get(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}
	return nil
}
