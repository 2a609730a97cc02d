package usecase

import (
	"context"

	"github.com/treedelivery/treedelivery-backend/internal/domain"
	"github.com/treedelivery/treedelivery-backend/internal/logging"
)

// Prices exposes the advertised price table: readable by anyone, writable
// only through the admin surface (the router gates Set).
type Prices struct {
	store PriceStore
}

func NewPrices(store PriceStore) *Prices {
	return &Prices{store: store}
}

func (s *Prices) Get(ctx context.Context) (domain.PriceTable, error) {
	return s.store.Get(ctx)
}

func (s *Prices) Set(ctx context.Context, t domain.PriceTable) error {
	if !t.Valid() {
		return domain.ErrInvalidPriceTable
	}
	if err := s.store.Set(ctx, t); err != nil {
		return err
	}
	logging.FromCtx(ctx).Info("price table updated", "op", "set_prices")
	return nil
}
