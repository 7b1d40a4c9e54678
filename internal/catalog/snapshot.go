// Package catalog holds the per-session product snapshot used to price carts.
package catalog

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/vasiliy-maslov/ecommerce-console/internal/gateway"
)

type Source interface {
	Products(ctx context.Context, description string) ([]gateway.Product, error)
}

// Snapshot is the list of active products loaded for one editing session.
// It is never mutated after Load.
type Snapshot struct {
	products []gateway.Product
	byID     map[int64]gateway.Product
}

// NewSnapshot keeps the active products of list, in order.
func NewSnapshot(list []gateway.Product) *Snapshot {
	s := &Snapshot{
		products: make([]gateway.Product, 0, len(list)),
		byID:     make(map[int64]gateway.Product, len(list)),
	}
	for _, p := range list {
		if !p.Active() {
			continue
		}
		s.products = append(s.products, p)
		s.byID[p.ID] = p
	}
	return s
}

// Load fetches the full catalog from src and snapshots its active products.
func Load(ctx context.Context, src Source) (*Snapshot, error) {
	list, err := src.Products(ctx, "")
	if err != nil {
		log.Error().Err(err).Msg("catalog: failed to load products")
		return nil, fmt.Errorf("catalog: failed to load products: %w", err)
	}
	snap := NewSnapshot(list)
	log.Debug().Int("fetched", len(list)).Int("active", snap.Len()).Msg("catalog: snapshot loaded")
	return snap, nil
}

// Products returns a copy of the active products.
func (s *Snapshot) Products() []gateway.Product {
	out := make([]gateway.Product, len(s.products))
	copy(out, s.products)
	return out
}

func (s *Snapshot) Product(id int64) (gateway.Product, bool) {
	p, ok := s.byID[id]
	return p, ok
}

func (s *Snapshot) Len() int {
	return len(s.products)
}

// Total sums price × quantity over the snapshot. Products missing from
// quantities contribute nothing, and quantities for products outside the
// snapshot are ignored.
func (s *Snapshot) Total(quantities map[int64]int) decimal.Decimal {
	total := decimal.Zero
	for _, p := range s.products {
		qty := quantities[p.ID]
		if qty <= 0 {
			continue
		}
		total = total.Add(p.Price.Mul(decimal.NewFromInt(int64(qty))))
	}
	return total
}
