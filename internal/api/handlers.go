package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/garncarz/kiwi-vikend/internal/domain/booking"
	"github.com/garncarz/kiwi-vikend/internal/usecase"
)

type Handlers struct {
	searchUC        *usecase.SearchRoutes
	pricing         *usecase.Pricing
	createBookingUC *usecase.CreateBooking
	listBookingsUC  *usecase.ListBookings
}

func NewHandlers(
	searchUC *usecase.SearchRoutes,
	pricing *usecase.Pricing,
	createBookingUC *usecase.CreateBooking,
	listBookingsUC *usecase.ListBookings,
) *Handlers {
	return &Handlers{
		searchUC:        searchUC,
		pricing:         pricing,
		createBookingUC: createBookingUC,
		listBookingsUC:  listBookingsUC,
	}
}

func (h *Handlers) Search(w http.ResponseWriter, r *http.Request) {
	// The kill switch short-circuits before any store access.
	if !h.pricing.Enabled() {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"error": "search is temporarily unavailable"}`))
		return
	}

	q := r.URL.Query()

	params := usecase.SearchParams{
		Src:      q.Get("src"),
		Dst:      q.Get("dst"),
		Date:     q.Get("date"),
		DateFrom: q.Get("date_from"),
		DateTo:   q.Get("date_to"),
		Sort:     q.Get("sort"),
	}
	if params.Src != "" && params.Dst != "" && params.Date == "" {
		params.Date = time.Now().Format("2006-01-02")
	}

	if raw := q.Get("price"); raw != "" {
		maxPrice, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			http.Error(w, "invalid price", http.StatusBadRequest)
			return
		}
		params.MaxPrice = &maxPrice
	}
	if raw := q.Get("seats"); raw != "" {
		minSeats, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "invalid seats", http.StatusBadRequest)
			return
		}
		params.MinSeats = &minSeats
	}
	if q.Has("min_price") {
		params.MinPrice = true
	}

	entries, err := h.searchUC.Execute(r.Context(), params)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entries)
}

func (h *Handlers) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Connection string `json:"connection"`
		Passengers []struct {
			Count int `json:"count"`
		} `json:"passengers"`
		UserID string `json:"user_id"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	total := 0
	for _, p := range req.Passengers {
		total += p.Count
	}

	result, err := h.createBookingUC.Execute(r.Context(), req.Connection, total, req.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if result.Status == booking.StatusSuccess {
		w.WriteHeader(http.StatusCreated)
	}
	json.NewEncoder(w).Encode(result)
}

func (h *Handlers) ListBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.listBookingsUC.Execute(r.Context(), r.URL.Query().Get("user_id"))
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(bookings)
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, usecase.ErrInvalidRequest):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, usecase.ErrUnknownCity):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, usecase.ErrSourceUnavailable):
		http.Error(w, err.Error(), http.StatusBadGateway)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
