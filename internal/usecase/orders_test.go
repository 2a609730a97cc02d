package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/treedelivery/treedelivery-backend/internal/datepolicy"
	"github.com/treedelivery/treedelivery-backend/internal/domain"
	"github.com/treedelivery/treedelivery-backend/internal/validation"
)

// memRepo mimics the MySQL repo's guarantees: unique email, atomic
// conditional update, guarded delete.
type memRepo struct {
	mu     sync.Mutex
	orders map[string]*domain.Order // by customer id
}

func newMemRepo() *memRepo { return &memRepo{orders: map[string]*domain.Order{}} }

func (r *memRepo) Insert(_ context.Context, o *domain.Order) error {
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

func (r *memRepo) FindByKey(_ context.Context, email, customerID string) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[customerID]
	if !ok || o.Email != email {
		return nil, domain.ErrOrderNotFound
	}
	cp := *o
	return &cp, nil
}

func (r *memRepo) FindByCustomerID(_ context.Context, customerID string) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[customerID]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	cp := *o
	return &cp, nil
}

func (r *memRepo) UpdateByKey(_ context.Context, email, customerID string, u OrderUpdate) (*domain.Order, error) {
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
	cp := *o
	return &cp, nil
}

func (r *memRepo) RemoveIf(_ context.Context, email, customerID string, guard func(*domain.Order) error) (*domain.Order, error) {
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

func (r *memRepo) List(_ context.Context) ([]domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Order, 0, len(r.orders))
	for _, o := range r.orders {
		out = append(out, *o)
	}
	return out, nil
}

func (r *memRepo) DeliveriesOn(_ context.Context, day time.Time) ([]domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	day = datepolicy.Midnight(day)
	var out []domain.Order
	for _, o := range r.orders {
		if datepolicy.Midnight(datepolicy.PlannedDelivery(o)).Equal(day) {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *memRepo) SetStatus(_ context.Context, customerID string, status domain.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[customerID]
	if !ok {
		return domain.ErrOrderNotFound
	}
	o.Status = status
	return nil
}

type memMailer struct {
	mu   sync.Mutex
	sent []Email
	fail error
}

func (m *memMailer) Send(_ context.Context, e Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	m.sent = append(m.sent, e)
	return nil
}

func (m *memMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

var testNow = time.Date(2025, time.December, 1, 10, 0, 0, 0, datepolicy.Location)

func newService(t *testing.T) (*Orders, *memRepo, *memMailer) {
	t.Helper()
	repo := newMemRepo()
	mailer := &memMailer{}
	s := NewOrders(repo, mailer, MailConfig{
		Sender:    "shop@treedelivery.example",
		AdminCopy: "admin@treedelivery.example",
		Timeout:   time.Second,
	})
	s.now = func() time.Time { return testNow }
	return s, repo, mailer
}

func annaSubmission() validation.Submission {
	return validation.Submission{
		Name:   "Anna",
		Size:   "medium",
		Street: "Teststr. 1",
		Zip:    "57072",
		City:   "Siegen",
		Email:  "anna@example.com",
		Date:   "2025-12-02",
	}
}

func TestCreateOrder(t *testing.T) {
	s, _, mailer := newService(t)

	res, err := s.Create(context.Background(), annaSubmission())
	require.NoError(t, err)
	require.NotNil(t, res.Order)

	assert.Len(t, res.Order.CustomerID, 8)
	assert.Equal(t, testNow, res.Order.CreatedAt)
	assert.Equal(t, "Siegen", res.Order.City)
	assert.Equal(t, domain.StatusOpen, res.Order.Status)
	assert.False(t, res.MailWarning)
	assert.Equal(t, 2, mailer.count()) // customer + admin copy

	got, err := s.Lookup(context.Background(), "anna@example.com", res.Order.CustomerID)
	require.NoError(t, err)
	assert.Equal(t, res.Order, got)
}

func TestCreateDuplicateEmail(t *testing.T) {
	s, repo, mailer := newService(t)

	first, err := s.Create(context.Background(), annaSubmission())
	require.NoError(t, err)
	sentBefore := mailer.count()

	in := annaSubmission()
	in.Size = "large"
	_, err = s.Create(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)

	// original untouched, no extra mail
	got, err := repo.FindByKey(context.Background(), "anna@example.com", first.Order.CustomerID)
	require.NoError(t, err)
	assert.Equal(t, domain.SizeMedium, got.Size)
	assert.Equal(t, sentBefore, mailer.count())
}

func TestCreateRejectionTouchesNothing(t *testing.T) {
	s, repo, mailer := newService(t)

	in := annaSubmission()
	in.Zip = "99999"
	_, err := s.Create(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrZipNotServiceable)

	orders, _ := repo.List(context.Background())
	assert.Empty(t, orders)
	assert.Zero(t, mailer.count())
}

func TestCreateMailFailureIsSoft(t *testing.T) {
	s, repo, mailer := newService(t)
	mailer.fail = errors.New("provider down")

	res, err := s.Create(context.Background(), annaSubmission())
	require.NoError(t, err)
	assert.True(t, res.MailWarning)

	orders, _ := repo.List(context.Background())
	assert.Len(t, orders, 1)
}

func TestUpdateOrder(t *testing.T) {
	s, _, _ := newService(t)
	created, err := s.Create(context.Background(), annaSubmission())
	require.NoError(t, err)

	in := annaSubmission()
	in.CustomerID = created.Order.CustomerID
	in.Name = "" // blank name keeps the stored one
	in.Size = "xl"
	in.Street = "Neue Str. 2"
	res, err := s.Update(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "Anna", res.Order.Name)
	assert.Equal(t, domain.SizeXL, res.Order.Size)
	assert.Equal(t, "Neue Str. 2", res.Order.Street)

	// whitespace counts as blank too
	in.Name = "   "
	in.Size = "small"
	res, err = s.Update(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "Anna", res.Order.Name)
	assert.Equal(t, domain.SizeSmall, res.Order.Size)

	in.Name = "Anna Maria"
	in.Size = "xl"
	res, err = s.Update(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "Anna Maria", res.Order.Name)
	assert.Equal(t, domain.SizeXL, res.Order.Size)
	assert.Equal(t, created.Order.CustomerID, res.Order.CustomerID)
	assert.Equal(t, created.Order.CreatedAt, res.Order.CreatedAt)
}

func TestUpdateNotFound(t *testing.T) {
	s, repo, _ := newService(t)
	created, err := s.Create(context.Background(), annaSubmission())
	require.NoError(t, err)

	in := annaSubmission()
	in.CustomerID = "NOPE1234"
	_, err = s.Update(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)

	got, err := repo.FindByKey(context.Background(), "anna@example.com", created.Order.CustomerID)
	require.NoError(t, err)
	assert.Equal(t, domain.SizeMedium, got.Size)
}

func TestCancelOrder(t *testing.T) {
	s, repo, mailer := newService(t)
	in := annaSubmission()
	in.Date = "2025-12-20"
	created, err := s.Create(context.Background(), in)
	require.NoError(t, err)

	res, err := s.Cancel(context.Background(), "anna@example.com", created.Order.CustomerID)
	require.NoError(t, err)
	assert.Equal(t, created.Order.CustomerID, res.Order.CustomerID)

	_, err = repo.FindByKey(context.Background(), "anna@example.com", created.Order.CustomerID)
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
	assert.Equal(t, 4, mailer.count()) // customer + admin copy, for create and cancel

	// email can be reused after a hard cancel
	_, err = s.Create(context.Background(), annaSubmission())
	assert.NoError(t, err)
}

func TestCancelCutoff(t *testing.T) {
	s, repo, _ := newService(t)
	in := annaSubmission()
	in.Date = "2025-12-02" // planned delivery tomorrow midnight, less than 24h away
	created, err := s.Create(context.Background(), in)
	require.NoError(t, err)

	_, err = s.Cancel(context.Background(), "anna@example.com", created.Order.CustomerID)
	assert.ErrorIs(t, err, domain.ErrCancellationWindowClosed)

	got, err := repo.FindByKey(context.Background(), "anna@example.com", created.Order.CustomerID)
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestCancelExactlyAtBoundary(t *testing.T) {
	s, _, _ := newService(t)
	in := annaSubmission()
	in.Date = "2025-12-20"
	created, err := s.Create(context.Background(), in)
	require.NoError(t, err)

	// now == planned - 24h exactly: still cancelable
	s.now = func() time.Time {
		return time.Date(2025, time.December, 19, 0, 0, 0, 0, datepolicy.Location)
	}
	_, err = s.Cancel(context.Background(), "anna@example.com", created.Order.CustomerID)
	assert.NoError(t, err)
}

func TestSetStatus(t *testing.T) {
	s, repo, _ := newService(t)
	created, err := s.Create(context.Background(), annaSubmission())
	require.NoError(t, err)

	require.NoError(t, s.SetStatus(context.Background(), created.Order.CustomerID, "scheduled"))
	got, _ := repo.FindByCustomerID(context.Background(), created.Order.CustomerID)
	assert.Equal(t, domain.StatusScheduled, got.Status)

	assert.ErrorIs(t, s.SetStatus(context.Background(), created.Order.CustomerID, "lost"), domain.ErrInvalidStatus)
	assert.ErrorIs(t, s.SetStatus(context.Background(), "NOPE1234", "open"), domain.ErrOrderNotFound)
}

func TestDeliveriesOn(t *testing.T) {
	s, _, _ := newService(t)

	withDate := annaSubmission()
	withDate.Date = "2025-12-03"
	_, err := s.Create(context.Background(), withDate)
	require.NoError(t, err)

	// no date: planned = createdAt + 2 days = Dec 3 as well
	noDate := annaSubmission()
	noDate.Email = "ben@example.com"
	noDate.Date = ""
	_, err = s.Create(context.Background(), noDate)
	require.NoError(t, err)

	got, err := s.DeliveriesOn(context.Background(), "2025-12-03")
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = s.DeliveriesOn(context.Background(), "2025-12-10")
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = s.DeliveriesOn(context.Background(), "03.12.2025")
	assert.ErrorIs(t, err, domain.ErrInvalidDate)
}

func TestSendDeliveryWindow(t *testing.T) {
	s, _, mailer := newService(t)
	created, err := s.Create(context.Background(), annaSubmission())
	require.NoError(t, err)
	before := mailer.count()

	require.NoError(t, s.SendDeliveryWindow(context.Background(), created.Order.CustomerID, "09:00", "12:00"))
	assert.Equal(t, before+1, mailer.count())

	assert.ErrorIs(t, s.SendDeliveryWindow(context.Background(), "NOPE1234", "09:00", "12:00"), domain.ErrOrderNotFound)

	mailer.fail = errors.New("provider down")
	assert.Error(t, s.SendDeliveryWindow(context.Background(), created.Order.CustomerID, "09:00", "12:00"))
}
