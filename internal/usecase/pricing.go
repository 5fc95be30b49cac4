package usecase

import (
	"github.com/garncarz/kiwi-vikend/internal/domain/route"
	"github.com/garncarz/kiwi-vikend/internal/dynconfig"
)

// Pricing overlays the configured margin onto connection prices. Apply
// is deliberately not idempotent: applying it twice compounds the
// margin, so every code path applies it exactly once, after filtering
// and sorting.
type Pricing struct {
	cfg *dynconfig.Store
}

func NewPricing(cfg *dynconfig.Store) *Pricing {
	return &Pricing{cfg: cfg}
}

// Apply returns a copy of the entry with the margin applied. Entries
// without a published price pass through unchanged. The price is
// reallocated so the cached original is never mutated.
func (p *Pricing) Apply(entry route.Entry) route.Entry {
	if entry.Price == nil {
		return entry
	}
	price := *entry.Price * (1 + p.cfg.Current().Margin)
	entry.Price = &price
	return entry
}

func (p *Pricing) ApplyAll(entries []route.Entry) []route.Entry {
	out := make([]route.Entry, len(entries))
	for i, entry := range entries {
		out[i] = p.Apply(entry)
	}
	return out
}

// Enabled reports whether the search surface is switched on at all.
func (p *Pricing) Enabled() bool {
	return p.cfg.Current().Enabled
}
