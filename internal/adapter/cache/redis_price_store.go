package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/treedelivery/treedelivery-backend/internal/domain"
	"github.com/treedelivery/treedelivery-backend/internal/usecase"
)

const priceKey = "prices"

// RedisPriceStore keeps the advertised price table in a redis hash so every
// instance serves the same prices and admin writes are visible immediately.
// When the hash is absent (fresh deployment, flushed cache) reads fall back
// to the configured defaults and seed the hash.
type RedisPriceStore struct {
	rdb      *redis.Client
	defaults domain.PriceTable
}

func NewRedisPriceStore(rdb *redis.Client, defaults domain.PriceTable) *RedisPriceStore {
	return &RedisPriceStore{rdb: rdb, defaults: defaults}
}

func (s *RedisPriceStore) Get(ctx context.Context) (domain.PriceTable, error) {
	var t struct {
		Small  int64 `redis:"small"`
		Medium int64 `redis:"medium"`
		Large  int64 `redis:"large"`
		XL     int64 `redis:"xl"`
	}
	n, err := s.rdb.Exists(ctx, priceKey).Result()
	if err != nil {
		return domain.PriceTable{}, fmt.Errorf("read prices: %w", err)
	}
	if n == 0 {
		if err := s.Set(ctx, s.defaults); err != nil {
			return domain.PriceTable{}, err
		}
		return s.defaults, nil
	}
	if err := s.rdb.HGetAll(ctx, priceKey).Scan(&t); err != nil {
		return domain.PriceTable{}, fmt.Errorf("read prices: %w", err)
	}
	return domain.PriceTable{Small: t.Small, Medium: t.Medium, Large: t.Large, XL: t.XL}, nil
}

func (s *RedisPriceStore) Set(ctx context.Context, t domain.PriceTable) error {
	err := s.rdb.HSet(ctx, priceKey,
		"small", t.Small,
		"medium", t.Medium,
		"large", t.Large,
		"xl", t.XL,
	).Err()
	if err != nil {
		return fmt.Errorf("write prices: %w", err)
	}
	return nil
}

var _ usecase.PriceStore = (*RedisPriceStore)(nil)
