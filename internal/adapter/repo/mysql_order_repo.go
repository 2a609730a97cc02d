package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"github.com/treedelivery/treedelivery-backend/internal/domain"
	"github.com/treedelivery/treedelivery-backend/internal/usecase"
)

// MySQLOrderRepo persists orders. The schema carries a unique index on
// email (uniq_email) so one-order-per-customer is enforced by the store, not
// by a check-then-insert in application code; concurrent mutations on the
// same order serialize on a row lock inside a transaction.
type MySQLOrderRepo struct{ db *sqlx.DB }

func NewMySQLOrderRepo(db *sqlx.DB) *MySQLOrderRepo { return &MySQLOrderRepo{db: db} }

const orderColumns = `customer_id, email, name, size, street, zip, city, delivery_date, special_requests, status, created_at, updated_at`

func (r *MySQLOrderRepo) Insert(ctx context.Context, o *domain.Order) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO orders (`+orderColumns+`)
VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		o.CustomerID, o.Email, o.Name, o.Size, o.Street, o.Zip, o.City,
		o.Date, o.SpecialRequests, o.Status, o.CreatedAt, o.CreatedAt)
	if err != nil {
		return mapInsertErr(err)
	}
	return nil
}

// mapInsertErr turns a MySQL duplicate-key error into the matching domain
// error: the uniq_email index means a second order for that email, the
// primary key means a customer-id collision (retryable).
func mapInsertErr(err error) error {
	var me *mysql.MySQLError
	if errors.As(err, &me) && me.Number == 1062 {
		if strings.Contains(me.Message, "PRIMARY") {
			return domain.ErrCustomerIDCollision
		}
		return domain.ErrDuplicateEmail
	}
	return fmt.Errorf("insert order: %w", err)
}

func (r *MySQLOrderRepo) FindByKey(ctx context.Context, email, customerID string) (*domain.Order, error) {
	var o domain.Order
	err := r.db.GetContext(ctx, &o, `
SELECT `+orderColumns+` FROM orders WHERE email=? AND customer_id=?`, email, customerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find order: %w", err)
	}
	return &o, nil
}

func (r *MySQLOrderRepo) FindByCustomerID(ctx context.Context, customerID string) (*domain.Order, error) {
	var o domain.Order
	err := r.db.GetContext(ctx, &o, `
SELECT `+orderColumns+` FROM orders WHERE customer_id=?`, customerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find order: %w", err)
	}
	return &o, nil
}

// UpdateByKey overwrites the mutable fields of the order keyed by the
// immutable (email, customerID) pair. The row is locked for the duration of
// the transaction so a concurrent cancel cannot interleave. A blank name
// keeps the stored one.
func (r *MySQLOrderRepo) UpdateByKey(ctx context.Context, email, customerID string, u usecase.OrderUpdate) (*domain.Order, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin update: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var o domain.Order
	err = tx.GetContext(ctx, &o, `
SELECT `+orderColumns+` FROM orders WHERE email=? AND customer_id=? FOR UPDATE`, email, customerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lock order: %w", err)
	}

	now := time.Now()
	_, err = tx.ExecContext(ctx, `
UPDATE orders
SET name = COALESCE(NULLIF(?, ''), name),
    size=?, street=?, zip=?, city=?, delivery_date=?, special_requests=?, updated_at=?
WHERE customer_id=?`,
		u.Name, u.Size, u.Street, u.Zip, u.City, u.Date, u.SpecialRequests, now, customerID)
	if err != nil {
		return nil, fmt.Errorf("update order: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit update: %w", err)
	}

	if u.Name != "" {
		o.Name = u.Name
	}
	o.Size, o.Street, o.Zip, o.City = u.Size, u.Street, u.Zip, u.City
	o.Date, o.SpecialRequests, o.UpdatedAt = u.Date, u.SpecialRequests, now
	return &o, nil
}

// RemoveIf implements the guarded find-and-delete: the row is selected FOR
// UPDATE, the guard decides on the locked snapshot, and only then is the row
// deleted. On any guard rejection the transaction rolls back untouched.
func (r *MySQLOrderRepo) RemoveIf(ctx context.Context, email, customerID string, guard func(*domain.Order) error) (*domain.Order, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin remove: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var o domain.Order
	err = tx.GetContext(ctx, &o, `
SELECT `+orderColumns+` FROM orders WHERE email=? AND customer_id=? FOR UPDATE`, email, customerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lock order: %w", err)
	}

	if err := guard(&o); err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM orders WHERE customer_id=?`, customerID); err != nil {
		return nil, fmt.Errorf("delete order: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit remove: %w", err)
	}
	return &o, nil
}

func (r *MySQLOrderRepo) List(ctx context.Context) ([]domain.Order, error) {
	var out []domain.Order
	if err := r.db.SelectContext(ctx, &out, `
SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC`); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return out, nil
}

// DeliveriesOn matches the planned delivery date: the explicit date, or the
// createdAt+2d fallback for date-less orders.
func (r *MySQLOrderRepo) DeliveriesOn(ctx context.Context, day time.Time) ([]domain.Order, error) {
	d := day.Format("2006-01-02")
	var out []domain.Order
	if err := r.db.SelectContext(ctx, &out, `
SELECT `+orderColumns+` FROM orders
WHERE delivery_date = ?
   OR (delivery_date IS NULL AND DATE(DATE_ADD(created_at, INTERVAL 2 DAY)) = ?)
ORDER BY created_at`, d, d); err != nil {
		return nil, fmt.Errorf("list deliveries: %w", err)
	}
	return out, nil
}

func (r *MySQLOrderRepo) SetStatus(ctx context.Context, customerID string, status domain.Status) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE orders SET status=?, updated_at=NOW() WHERE customer_id=?`, status, customerID)
	if err != nil {
		return fmt.Errorf("set status: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set status: %w", err)
	}
	if rows == 0 {
		// RowsAffected is also 0 when the status did not change; only report
		// not-found if the row really is missing.
		var n int
		if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM orders WHERE customer_id=?`, customerID); err != nil {
			return fmt.Errorf("set status: %w", err)
		}
		if n == 0 {
			return domain.ErrOrderNotFound
		}
	}
	return nil
}

var _ usecase.OrderRepo = (*MySQLOrderRepo)(nil)
