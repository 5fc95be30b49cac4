package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/garncarz/kiwi-vikend/internal/domain/route"
)

const (
	SortPrice        = "price"
	SortDeparture    = "departure"
	SortAlphabetical = "alphabetical"
)

// SearchParams carries one of two query modes plus optional
// post-processing. Exactly one mode must be populated: either
// (Src, Dst, Date) or (DateFrom, DateTo).
type SearchParams struct {
	Src  string
	Dst  string
	Date string

	DateFrom string
	DateTo   string

	MaxPrice *float64
	MinSeats *int
	Sort     string
	MinPrice bool // reduce to the single cheapest priced entry
}

// SearchRoutes composes the cache lookup or range scan with the optional
// filters, sorting and reduction, and applies the pricing overlay
// exactly once, last.
type SearchRoutes struct {
	getRoutes *GetRoutes
	between   *RoutesBetween
	pricing   *Pricing
}

func NewSearchRoutes(getRoutes *GetRoutes, between *RoutesBetween, pricing *Pricing) *SearchRoutes {
	return &SearchRoutes{
		getRoutes: getRoutes,
		between:   between,
		pricing:   pricing,
	}
}

func (uc *SearchRoutes) Execute(ctx context.Context, params SearchParams) ([]route.Entry, error) {
	var entries []route.Entry
	var err error

	switch {
	case params.Src != "" && params.Dst != "" && params.Date != "":
		entries, err = uc.getRoutes.Execute(ctx, params.Src, params.Dst, params.Date)
	case params.DateFrom != "" && params.DateTo != "":
		entries, err = uc.between.Execute(ctx, params.DateFrom, params.DateTo)
	default:
		return nil, fmt.Errorf("%w: need src+dst+date or date_from+date_to", ErrInvalidRequest)
	}
	if err != nil {
		return nil, err
	}

	if params.MaxPrice != nil {
		entries = filterEntries(entries, func(e route.Entry) bool {
			return e.Price != nil && *e.Price <= *params.MaxPrice
		})
	}
	if params.MinSeats != nil {
		entries = filterEntries(entries, func(e route.Entry) bool {
			return e.Seats >= *params.MinSeats
		})
	}

	if err := sortEntries(entries, params.Sort); err != nil {
		return nil, err
	}

	if params.MinPrice {
		entries = cheapest(entries)
	}

	return uc.pricing.ApplyAll(entries), nil
}

func filterEntries(entries []route.Entry, keep func(route.Entry) bool) []route.Entry {
	out := entries[:0]
	for _, e := range entries {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

func sortEntries(entries []route.Entry, key string) error {
	switch key {
	case "":
	case SortPrice:
		// Unpriced entries sort last.
		sort.SliceStable(entries, func(i, j int) bool {
			pi, pj := entries[i].Price, entries[j].Price
			if pi == nil {
				return false
			}
			if pj == nil {
				return true
			}
			return *pi < *pj
		})
	case SortDeparture:
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].Departure.Before(entries[j].Departure.Time)
		})
	case SortAlphabetical:
		sort.SliceStable(entries, func(i, j int) bool {
			if entries[i].FromName != entries[j].FromName {
				return entries[i].FromName < entries[j].FromName
			}
			return entries[i].ToName < entries[j].ToName
		})
	default:
		return fmt.Errorf("%w: unknown sort key %q", ErrInvalidRequest, key)
	}
	return nil
}

func cheapest(entries []route.Entry) []route.Entry {
	var best *route.Entry
	for i := range entries {
		if entries[i].Price == nil {
			continue
		}
		if best == nil || *entries[i].Price < *best.Price {
			best = &entries[i]
		}
	}
	if best == nil {
		return []route.Entry{}
	}
	return []route.Entry{*best}
}
