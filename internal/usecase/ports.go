package usecase

import (
	"context"
	"time"

	"github.com/treedelivery/treedelivery-backend/internal/domain"
)

// OrderUpdate is the set of fields an update overwrites. Name is optional:
// blank keeps the stored value. Email, customerId and createdAt are
// immutable and never part of an update.
type OrderUpdate struct {
	Name            string
	Size            domain.Size
	Street          string
	Zip             string
	City            string
	Date            *time.Time
	SpecialRequests string
}

// OrderRepo is the persistence port. Implementations must enforce email
// uniqueness at the storage level and keep every mutation atomic: a
// conditional single-statement update, and a guarded find-and-delete for
// removal.
type OrderRepo interface {
	Insert(ctx context.Context, o *domain.Order) error
	FindByKey(ctx context.Context, email, customerID string) (*domain.Order, error)
	FindByCustomerID(ctx context.Context, customerID string) (*domain.Order, error)
	UpdateByKey(ctx context.Context, email, customerID string, u OrderUpdate) (*domain.Order, error)
	// RemoveIf deletes the order keyed by (email, customerID) after the
	// guard approves the current row, all within one storage transaction.
	// It returns the removed snapshot.
	RemoveIf(ctx context.Context, email, customerID string, guard func(*domain.Order) error) (*domain.Order, error)
	List(ctx context.Context) ([]domain.Order, error)
	DeliveriesOn(ctx context.Context, day time.Time) ([]domain.Order, error)
	SetStatus(ctx context.Context, customerID string, status domain.Status) error
}

// Email is one outbound message handed to the mail collaborator.
type Email struct {
	From    string
	To      string
	Subject string
	Text    string
	HTML    string
}

type Mailer interface {
	Send(ctx context.Context, e Email) error
}

// PriceStore holds the advertised price table.
type PriceStore interface {
	Get(ctx context.Context) (domain.PriceTable, error)
	Set(ctx context.Context, t domain.PriceTable) error
}
