package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidEmailFormat       = errors.New("invalid email format")
	ErrInvalidSize              = errors.New("invalid size")
	ErrZipNotServiceable        = errors.New("zip outside delivery area")
	ErrCityZipMismatch          = errors.New("city does not match zip")
	ErrDateTooEarly             = errors.New("delivery date too early")
	ErrDateTooLate              = errors.New("delivery date too late")
	ErrInvalidDate              = errors.New("invalid delivery date")
	ErrDuplicateEmail           = errors.New("an order already exists for this email")
	ErrOrderNotFound            = errors.New("order not found")
	ErrCancellationWindowClosed = errors.New("cancellation window closed")
	ErrInvalidStatus            = errors.New("invalid order status")
	ErrInvalidPriceTable        = errors.New("price table entries must be positive")
	ErrCustomerIDCollision      = errors.New("customer id collision")
)

// MissingFieldError reports which required field was absent so callers can
// correct their input.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field %q", e.Field)
}

func MissingField(field string) error { return &MissingFieldError{Field: field} }

func IsMissingField(err error) (string, bool) {
	var mf *MissingFieldError
	if errors.As(err, &mf) {
		return mf.Field, true
	}
	return "", false
}
