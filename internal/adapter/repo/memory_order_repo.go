package repo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/treedelivery/treedelivery-backend/internal/datepolicy"
	"github.com/treedelivery/treedelivery-backend/internal/domain"
	"github.com/treedelivery/treedelivery-backend/internal/usecase"
)

// MemoryOrderRepo is an in-process OrderRepo with the same guarantees as the
// MySQL implementation (unique email, guarded delete). It backs handler
// tests and local development without a database.
type MemoryOrderRepo struct {
	mu     sync.Mutex
	orders map[string]*domain.Order // by customer id
}

func NewMemoryOrderRepo() *MemoryOrderRepo {
	return &MemoryOrderRepo{orders: map[string]*domain.Order{}}
}

func (r *MemoryOrderRepo) Insert(_ context.Context, o *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ex := range r.orders {
		if ex.Email == o.Email {
			return domain.ErrDuplicateEmail
		}
	}
	if _, ok := r.orders[o.CustomerID]; ok {
		return domain.ErrCustomerIDCollision
	}
	cp := *o
	r.orders[o.CustomerID] = &cp
	return nil
}

func (r *MemoryOrderRepo) FindByKey(_ context.Context, email, customerID string) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lookup(email, customerID)
}

func (r *MemoryOrderRepo) FindByCustomerID(_ context.Context, customerID string) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[customerID]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	cp := *o
	return &cp, nil
}

func (r *MemoryOrderRepo) UpdateByKey(_ context.Context, email, customerID string, u usecase.OrderUpdate) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[customerID]
	if !ok || o.Email != email {
		return nil, domain.ErrOrderNotFound
	}
	if u.Name != "" {
		o.Name = u.Name
	}
	o.Size, o.Street, o.Zip, o.City = u.Size, u.Street, u.Zip, u.City
	o.Date, o.SpecialRequests = u.Date, u.SpecialRequests
	o.UpdatedAt = time.Now()
	cp := *o
	return &cp, nil
}

func (r *MemoryOrderRepo) RemoveIf(_ context.Context, email, customerID string, guard func(*domain.Order) error) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[customerID]
	if !ok || o.Email != email {
		return nil, domain.ErrOrderNotFound
	}
	if err := guard(o); err != nil {
		return nil, err
	}
	delete(r.orders, customerID)
	return o, nil
}

func (r *MemoryOrderRepo) List(_ context.Context) ([]domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Order, 0, len(r.orders))
	for _, o := range r.orders {
		out = append(out, *o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *MemoryOrderRepo) DeliveriesOn(_ context.Context, day time.Time) ([]domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	day = datepolicy.Midnight(day)
	out := []domain.Order{}
	for _, o := range r.orders {
		if datepolicy.Midnight(datepolicy.PlannedDelivery(o)).Equal(day) {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *MemoryOrderRepo) SetStatus(_ context.Context, customerID string, status domain.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[customerID]
	if !ok {
		return domain.ErrOrderNotFound
	}
	o.Status = status
	o.UpdatedAt = time.Now()
	return nil
}

func (r *MemoryOrderRepo) lookup(email, customerID string) (*domain.Order, error) {
	o, ok := r.orders[customerID]
	if !ok || o.Email != email {
		return nil, domain.ErrOrderNotFound
	}
	cp := *o
	return &cp, nil
}

var _ usecase.OrderRepo = (*MemoryOrderRepo)(nil)
