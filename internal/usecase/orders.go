package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/treedelivery/treedelivery-backend/internal/datepolicy"
	"github.com/treedelivery/treedelivery-backend/internal/domain"
	"github.com/treedelivery/treedelivery-backend/internal/logging"
	"github.com/treedelivery/treedelivery-backend/internal/mail"
	"github.com/treedelivery/treedelivery-backend/internal/validation"
)

const idInsertAttempts = 3

// MailConfig carries the sender identity and the best-effort send budget.
type MailConfig struct {
	Sender    string
	AdminCopy string // optional; blank disables the admin copy
	Timeout   time.Duration
}

// Orders owns the order lifecycle: admission, state transitions and the
// notifications they trigger. Every operation validates first and leaves the
// store untouched on rejection.
type Orders struct {
	repo   OrderRepo
	mailer Mailer
	mcfg   MailConfig
	now    func() time.Time
}

func NewOrders(repo OrderRepo, mailer Mailer, mcfg MailConfig) *Orders {
	if mcfg.Timeout <= 0 {
		mcfg.Timeout = 5 * time.Second
	}
	return &Orders{repo: repo, mailer: mailer, mcfg: mcfg, now: time.Now}
}

// WithClock replaces the time source. Tests use it to pin the calendar.
func (s *Orders) WithClock(now func() time.Time) *Orders {
	s.now = now
	return s
}

// OrderResult is a successful mutation plus a soft flag telling the caller
// the notification mail could not be delivered. The mutation itself is
// already committed either way.
type OrderResult struct {
	Order       *domain.Order
	MailWarning bool
}

func (s *Orders) Create(ctx context.Context, in validation.Submission) (OrderResult, error) {
	now := s.now()
	res, err := validation.Validate(in, now, false)
	if err != nil {
		return OrderResult{}, err
	}

	o := &domain.Order{
		Email:           in.Email,
		Name:            in.Name,
		Size:            res.Size,
		Street:          in.Street,
		Zip:             res.Zip,
		City:            res.City,
		Date:            res.Date,
		SpecialRequests: in.SpecialRequests,
		Status:          domain.StatusOpen,
		CreatedAt:       now,
	}

	for attempt := 0; ; attempt++ {
		id, err := newCustomerID()
		if err != nil {
			return OrderResult{}, err
		}
		o.CustomerID = id
		err = s.repo.Insert(ctx, o)
		if err == nil {
			break
		}
		if errors.Is(err, domain.ErrCustomerIDCollision) && attempt < idInsertAttempts-1 {
			continue
		}
		return OrderResult{}, err
	}

	logging.FromCtx(ctx).Info("order created", "op", "create", "customer_id", o.CustomerID)
	return OrderResult{Order: o, MailWarning: s.notify(ctx, mail.EventCreated, o)}, nil
}

func (s *Orders) Lookup(ctx context.Context, email, customerID string) (*domain.Order, error) {
	return s.repo.FindByKey(ctx, email, customerID)
}

func (s *Orders) Update(ctx context.Context, in validation.Submission) (OrderResult, error) {
	res, err := validation.Validate(in, s.now(), true)
	if err != nil {
		return OrderResult{}, err
	}

	// A blank name keeps the stored one; the stores key that off "".
	o, err := s.repo.UpdateByKey(ctx, in.Email, in.CustomerID, OrderUpdate{
		Name:            strings.TrimSpace(in.Name),
		Size:            res.Size,
		Street:          in.Street,
		Zip:             res.Zip,
		City:            res.City,
		Date:            res.Date,
		SpecialRequests: in.SpecialRequests,
	})
	if err != nil {
		return OrderResult{}, err
	}

	logging.FromCtx(ctx).Info("order updated", "op", "update", "customer_id", o.CustomerID)
	return OrderResult{Order: o, MailWarning: s.notify(ctx, mail.EventUpdated, o)}, nil
}

func (s *Orders) Cancel(ctx context.Context, email, customerID string) (OrderResult, error) {
	now := s.now()
	o, err := s.repo.RemoveIf(ctx, email, customerID, func(o *domain.Order) error {
		if !datepolicy.CancelableAt(o, now) {
			return domain.ErrCancellationWindowClosed
		}
		return nil
	})
	if err != nil {
		return OrderResult{}, err
	}

	logging.FromCtx(ctx).Info("order cancelled", "op", "cancel", "customer_id", o.CustomerID)
	return OrderResult{Order: o, MailWarning: s.notify(ctx, mail.EventCancelled, o)}, nil
}

func (s *Orders) List(ctx context.Context) ([]domain.Order, error) {
	return s.repo.List(ctx)
}

func (s *Orders) SetStatus(ctx context.Context, customerID, status string) error {
	st, ok := domain.ParseStatus(status)
	if !ok {
		return domain.ErrInvalidStatus
	}
	if err := s.repo.SetStatus(ctx, customerID, st); err != nil {
		return err
	}
	logging.FromCtx(ctx).Info("order status changed", "op", "set_status", "customer_id", customerID, "status", status)
	return nil
}

// DeliveriesOn lists orders planned for the given calendar day, including
// date-less orders whose createdAt+2d fallback lands on it.
func (s *Orders) DeliveriesOn(ctx context.Context, day string) ([]domain.Order, error) {
	d, err := time.ParseInLocation(validation.DateLayout, day, datepolicy.Location)
	if err != nil {
		return nil, domain.ErrInvalidDate
	}
	return s.repo.DeliveriesOn(ctx, d)
}

// SendDeliveryWindow mails the customer their delivery time slot. Unlike the
// lifecycle notifications this send IS the operation, so failures propagate.
func (s *Orders) SendDeliveryWindow(ctx context.Context, customerID, fromTime, toTime string) error {
	o, err := s.repo.FindByCustomerID(ctx, customerID)
	if err != nil {
		return err
	}
	msg := mail.ComposeDeliveryWindow(o, fromTime, toTime)
	if err := s.send(ctx, o.Email, msg); err != nil {
		return err
	}
	logging.FromCtx(ctx).Info("delivery window mailed", "op", "delivery_mail", "customer_id", customerID)
	return nil
}

// notify sends the event mail to the customer and, when configured, an admin
// copy. Best effort: failures are logged and reported as a soft warning,
// never as a request failure — the store mutation has already committed.
func (s *Orders) notify(ctx context.Context, event mail.Event, o *domain.Order) (warn bool) {
	msg := mail.Compose(event, o)
	if err := s.send(ctx, o.Email, msg); err != nil {
		logging.FromCtx(ctx).Warn("notification mail failed",
			"op", string(event), "customer_id", o.CustomerID, "error", err)
		warn = true
	}
	if s.mcfg.AdminCopy != "" {
		if err := s.send(ctx, s.mcfg.AdminCopy, msg); err != nil {
			logging.FromCtx(ctx).Warn("admin copy mail failed",
				"op", string(event), "customer_id", o.CustomerID, "error", err)
		}
	}
	return warn
}

// send hands a composed message to the mail collaborator with a bounded
// budget, detached from request cancellation so an aborted request cannot
// cut off a mail for a mutation that already committed.
func (s *Orders) send(ctx context.Context, to string, msg mail.Message) error {
	sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.mcfg.Timeout)
	defer cancel()
	return s.mailer.Send(sctx, Email{
		From:    s.mcfg.Sender,
		To:      to,
		Subject: msg.Subject,
		Text:    msg.Text,
		HTML:    msg.HTML,
	})
}
