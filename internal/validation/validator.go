// Package validation makes the admission decision for order submissions.
// Checks run in a fixed order and stop at the first failure, so every
// rejection carries exactly one actionable error kind. The package is pure:
// no clock reads, no store access.
package validation

import (
	"regexp"
	"strings"
	"time"

	"github.com/treedelivery/treedelivery-backend/internal/datepolicy"
	"github.com/treedelivery/treedelivery-backend/internal/domain"
	"github.com/treedelivery/treedelivery-backend/internal/zipdir"
)

// Deliberately shallow: local@domain.tld, nothing more. Stricter RFC checks
// reject addresses real customers use.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Dates arrive as ISO calendar days from the order form.
const DateLayout = "2006-01-02"

// Submission carries the raw fields of an order request exactly as
// submitted. CustomerID is only consulted on the update path.
type Submission struct {
	Name            string
	Size            string
	Street          string
	Zip             string
	City            string
	Email           string
	Date            string
	SpecialRequests string
	CustomerID      string
}

// Result is the canonicalized view of an accepted submission.
type Result struct {
	Size Size
	Zip  string
	City string
	Date *time.Time
}

// Size is re-exported so callers need not depend on domain for the enum.
type Size = domain.Size

// Validate admits or rejects a submission against today's calendar.
// forUpdate marks the update path: the submission must then also carry the
// customer id, while a blank name is allowed and means "keep the stored one".
func Validate(in Submission, today time.Time, forUpdate bool) (Result, error) {
	required := []struct {
		field, value string
	}{
		{"name", in.Name},
		{"size", in.Size},
		{"street", in.Street},
		{"zip", in.Zip},
		{"city", in.City},
		{"email", in.Email},
	}
	for _, r := range required {
		if r.field == "name" && forUpdate {
			continue
		}
		if strings.TrimSpace(r.value) == "" {
			return Result{}, domain.MissingField(r.field)
		}
	}
	if forUpdate && strings.TrimSpace(in.CustomerID) == "" {
		return Result{}, domain.MissingField("customerId")
	}

	if !emailPattern.MatchString(in.Email) {
		return Result{}, domain.ErrInvalidEmailFormat
	}

	size, ok := domain.ParseSize(strings.ToLower(strings.TrimSpace(in.Size)))
	if !ok {
		return Result{}, domain.ErrInvalidSize
	}

	zip := strings.TrimSpace(in.Zip)
	if !zipdir.Serviceable(zip) {
		return Result{}, domain.ErrZipNotServiceable
	}
	if !zipdir.CityMatches(zip, in.City) {
		return Result{}, domain.ErrCityZipMismatch
	}
	city, _ := zipdir.CanonicalCity(zip)

	res := Result{Size: size, Zip: zip, City: city}
	if strings.TrimSpace(in.Date) != "" {
		day, err := time.ParseInLocation(DateLayout, strings.TrimSpace(in.Date), datepolicy.Location)
		if err != nil {
			return Result{}, domain.ErrInvalidDate
		}
		if err := datepolicy.CheckWindow(day, today); err != nil {
			return Result{}, err
		}
		res.Date = &day
	}
	return res, nil
}
