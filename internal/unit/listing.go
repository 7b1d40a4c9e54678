// Package unit keeps the filtered unit listing the operator works from.
package unit

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/vasiliy-maslov/ecommerce-console/internal/gateway"
)

const (
	DefaultPerPage = 10
	MaxPerPage     = 100
)

type Source interface {
	Units(ctx context.Context, filter gateway.UnitFilter) ([]gateway.Unit, error)
}

// Page is one page of the listing. Pages are 1-based.
type Page struct {
	Units   []gateway.Unit     `json:"units"`
	Page    int                `json:"page"`
	PerPage int                `json:"per_page"`
	Total   int                `json:"total"`
	Filter  gateway.UnitFilter `json:"-"`
}

// Listing caches the result of the last search so it can be paged and
// refreshed after a save. It is safe for concurrent use.
type Listing struct {
	src Source

	mu     sync.RWMutex
	filter gateway.UnitFilter
	units  []gateway.Unit
}

func NewListing(src Source) *Listing {
	return &Listing{src: src}
}

// Search runs filter against the backend and remembers it for Refresh.
func (l *Listing) Search(ctx context.Context, filter gateway.UnitFilter) ([]gateway.Unit, error) {
	units, err := l.src.Units(ctx, filter)
	if err != nil {
		log.Error().Err(err).Str("name", filter.Name).Str("person", filter.Person).Msg("unit: failed to search units")
		return nil, fmt.Errorf("unit: failed to search units: %w", err)
	}

	l.mu.Lock()
	l.filter = filter
	l.units = units
	l.mu.Unlock()

	log.Debug().Int("count", len(units)).Msg("unit: listing updated")
	return copyUnits(units), nil
}

// Refresh re-runs the last search.
func (l *Listing) Refresh(ctx context.Context) error {
	l.mu.RLock()
	filter := l.filter
	l.mu.RUnlock()

	_, err := l.Search(ctx, filter)
	return err
}

// Page slices the cached listing. Out of range pages are empty; a
// non-positive page or perPage falls back to the defaults.
func (l *Listing) Page(page, perPage int) Page {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	p := Page{Page: page, PerPage: perPage, Total: len(l.units), Filter: l.filter, Units: []gateway.Unit{}}
	start := (page - 1) * perPage
	if start >= len(l.units) {
		return p
	}
	end := start + perPage
	if end > len(l.units) {
		end = len(l.units)
	}
	p.Units = copyUnits(l.units[start:end])
	return p
}

// Find looks id up in the cached listing.
func (l *Listing) Find(id int64) (gateway.Unit, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, u := range l.units {
		if u.ID == id {
			return u, true
		}
	}
	return gateway.Unit{}, false
}

// Lookup finds id in the cached listing, falling back to an unfiltered
// backend search. The cache is left untouched by the fallback.
func (l *Listing) Lookup(ctx context.Context, id int64) (gateway.Unit, error) {
	if u, ok := l.Find(id); ok {
		return u, nil
	}
	units, err := l.src.Units(ctx, gateway.UnitFilter{})
	if err != nil {
		return gateway.Unit{}, fmt.Errorf("unit: failed to look up unit %d: %w", id, err)
	}
	for _, u := range units {
		if u.ID == id {
			return u, nil
		}
	}
	return gateway.Unit{}, fmt.Errorf("unit %d: %w", id, gateway.ErrNotFound)
}

func copyUnits(in []gateway.Unit) []gateway.Unit {
	out := make([]gateway.Unit, len(in))
	copy(out, in)
	return out
}
