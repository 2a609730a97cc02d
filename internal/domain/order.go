package domain

import "time"

type Size string

const (
	SizeSmall  Size = "small"
	SizeMedium Size = "medium"
	SizeLarge  Size = "large"
	SizeXL     Size = "xl"
)

func ParseSize(s string) (Size, bool) {
	switch Size(s) {
	case SizeSmall, SizeMedium, SizeLarge, SizeXL:
		return Size(s), true
	}
	return "", false
}

type Status string

const (
	StatusOpen          Status = "open"
	StatusScheduled     Status = "scheduled"
	StatusDeliveryToday Status = "delivery_today"
	StatusCompleted     Status = "completed"
)

func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusOpen, StatusScheduled, StatusDeliveryToday, StatusCompleted:
		return Status(s), true
	}
	return "", false
}

// Order is a single customer's tree-delivery request. CustomerID together
// with Email is the capability customers present for lookup/update/cancel.
type Order struct {
	CustomerID      string     `json:"customerId" db:"customer_id"`
	Email           string     `json:"email" db:"email"`
	Name            string     `json:"name" db:"name"`
	Size            Size       `json:"size" db:"size"`
	Street          string     `json:"street" db:"street"`
	Zip             string     `json:"zip" db:"zip"`
	City            string     `json:"city" db:"city"`
	Date            *time.Time `json:"date,omitempty" db:"delivery_date"`
	SpecialRequests string     `json:"specialRequests,omitempty" db:"special_requests"`
	Status          Status     `json:"status" db:"status"`
	CreatedAt       time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time  `json:"-" db:"updated_at"`
}

// PriceTable holds the advertised per-size prices in euro cents. It is
// informational only and never consulted when admitting an order.
type PriceTable struct {
	Small  int64 `json:"small"`
	Medium int64 `json:"medium"`
	Large  int64 `json:"large"`
	XL     int64 `json:"xl"`
}

func (p PriceTable) Valid() bool {
	return p.Small > 0 && p.Medium > 0 && p.Large > 0 && p.XL > 0
}
