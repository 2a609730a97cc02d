package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/treedelivery/treedelivery-backend/internal/datepolicy"
	"github.com/treedelivery/treedelivery-backend/internal/domain"
)

var today = time.Date(2025, time.December, 1, 10, 0, 0, 0, datepolicy.Location)

func valid() Submission {
	return Submission{
		Name:   "Anna",
		Size:   "medium",
		Street: "Teststr. 1",
		Zip:    "57072",
		City:   "Siegen",
		Email:  "anna@example.com",
		Date:   "2025-12-02",
	}
}

func TestValidateAccepts(t *testing.T) {
	res, err := Validate(valid(), today, false)
	require.NoError(t, err)
	assert.Equal(t, domain.SizeMedium, res.Size)
	assert.Equal(t, "Siegen", res.City)
	require.NotNil(t, res.Date)
	assert.Equal(t, time.Date(2025, time.December, 2, 0, 0, 0, 0, datepolicy.Location), *res.Date)
}

func TestValidateMissingFields(t *testing.T) {
	for _, field := range []string{"name", "size", "street", "zip", "city", "email"} {
		in := valid()
		switch field {
		case "name":
			in.Name = "  "
		case "size":
			in.Size = ""
		case "street":
			in.Street = ""
		case "zip":
			in.Zip = ""
		case "city":
			in.City = ""
		case "email":
			in.Email = ""
		}
		_, err := Validate(in, today, false)
		got, ok := domain.IsMissingField(err)
		require.True(t, ok, "expected missing-field error for %s", field)
		assert.Equal(t, field, got)
	}
}

func TestValidateRequiresCustomerIDOnUpdatePath(t *testing.T) {
	in := valid()
	_, err := Validate(in, today, true)
	got, ok := domain.IsMissingField(err)
	require.True(t, ok)
	assert.Equal(t, "customerId", got)

	in.CustomerID = "A1B2C3D4"
	_, err = Validate(in, today, true)
	assert.NoError(t, err)
}

func TestValidateBlankNameAllowedOnUpdatePath(t *testing.T) {
	in := valid()
	in.CustomerID = "A1B2C3D4"
	in.Name = ""
	_, err := Validate(in, today, true)
	assert.NoError(t, err)

	// create path still requires it
	in.CustomerID = ""
	_, err = Validate(in, today, false)
	got, ok := domain.IsMissingField(err)
	require.True(t, ok)
	assert.Equal(t, "name", got)
}

func TestValidateEmailShape(t *testing.T) {
	for _, bad := range []string{"anna", "anna@", "@example.com", "anna@example", "an na@example.com"} {
		in := valid()
		in.Email = bad
		_, err := Validate(in, today, false)
		assert.ErrorIs(t, err, domain.ErrInvalidEmailFormat, "email %q", bad)
	}
}

func TestValidateSize(t *testing.T) {
	in := valid()
	in.Size = "gigantic"
	_, err := Validate(in, today, false)
	assert.ErrorIs(t, err, domain.ErrInvalidSize)

	in.Size = " XL "
	res, err := Validate(in, today, false)
	require.NoError(t, err)
	assert.Equal(t, domain.SizeXL, res.Size)
}

func TestValidateZipAndCity(t *testing.T) {
	in := valid()
	in.Zip = "99999"
	_, err := Validate(in, today, false)
	assert.ErrorIs(t, err, domain.ErrZipNotServiceable)

	in = valid()
	in.City = "Kreuztal"
	_, err = Validate(in, today, false)
	assert.ErrorIs(t, err, domain.ErrCityZipMismatch)

	in = valid()
	in.City = "  siegen "
	res, err := Validate(in, today, false)
	require.NoError(t, err)
	assert.Equal(t, "Siegen", res.City)
}

func TestValidateDateWindow(t *testing.T) {
	in := valid()
	in.Date = "2025-12-01" // today
	_, err := Validate(in, today, false)
	assert.ErrorIs(t, err, domain.ErrDateTooEarly)

	in.Date = "2025-12-24"
	_, err = Validate(in, today, false)
	assert.NoError(t, err)

	in.Date = "2025-12-25"
	_, err = Validate(in, today, false)
	assert.ErrorIs(t, err, domain.ErrDateTooLate)

	in.Date = "24.12.2025"
	_, err = Validate(in, today, false)
	assert.ErrorIs(t, err, domain.ErrInvalidDate)

	in.Date = ""
	res, err := Validate(in, today, false)
	require.NoError(t, err)
	assert.Nil(t, res.Date)
}
