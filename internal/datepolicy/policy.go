// Package datepolicy owns every calendar rule around delivery dates: the
// seasonal booking window, the implicit planned delivery when no date was
// chosen, and the cancellation cutoff. All date math is midnight-normalized
// in a single reference time zone so time-of-day never leaks into decisions.
package datepolicy

import (
	"time"

	"github.com/treedelivery/treedelivery-backend/internal/domain"
)

// The delivery area is the Siegen/Dillenburg region; all calendar math runs
// in its local zone.
var Location = mustLoadLocation("Europe/Berlin")

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

// Season ends on December 24 of the operative year.
const (
	cutoffMonth = time.December
	cutoffDay   = 24

	// Orders without an explicit date are delivered two days after creation.
	fallbackDelay = 48 * time.Hour

	// Cancellation closes 24h before the planned delivery.
	cancelLead = 24 * time.Hour
)

// Midnight truncates t to the start of its calendar day in the reference zone.
func Midnight(t time.Time) time.Time {
	t = t.In(Location)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, Location)
}

// CutoffFor returns the last bookable delivery day of today's season.
func CutoffFor(today time.Time) time.Time {
	today = today.In(Location)
	return time.Date(today.Year(), cutoffMonth, cutoffDay, 0, 0, 0, 0, Location)
}

// CheckWindow validates a requested delivery date against the booking
// window: earliest strictly tomorrow, latest the seasonal cutoff inclusive.
func CheckWindow(date, today time.Time) error {
	day := Midnight(date)
	earliest := Midnight(today).AddDate(0, 0, 1)
	if day.Before(earliest) {
		return domain.ErrDateTooEarly
	}
	if day.After(CutoffFor(today)) {
		return domain.ErrDateTooLate
	}
	return nil
}

// PlannedDelivery returns the explicit delivery date at midnight, or the
// createdAt+2d fallback when the customer chose none.
func PlannedDelivery(o *domain.Order) time.Time {
	if o.Date != nil {
		return Midnight(*o.Date)
	}
	return o.CreatedAt.In(Location).Add(fallbackDelay)
}

// CancelableAt reports whether the order may still be cancelled at now,
// i.e. now is at least 24h before the planned delivery.
func CancelableAt(o *domain.Order, now time.Time) bool {
	return !now.After(PlannedDelivery(o).Add(-cancelLead))
}
