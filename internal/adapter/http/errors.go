package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/treedelivery/treedelivery-backend/internal/domain"
	"github.com/treedelivery/treedelivery-backend/internal/logging"
)

// writeError maps domain errors to stable machine-readable codes. Anything
// unrecognized is a server error: logged with full detail, surfaced without
// any.
func writeError(c *gin.Context, err error) {
	if field, ok := domain.IsMissingField(err); ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing_field", "field": field})
		return
	}

	var status int
	var code string
	switch {
	case errors.Is(err, domain.ErrInvalidEmailFormat):
		status, code = http.StatusBadRequest, "invalid_email"
	case errors.Is(err, domain.ErrInvalidSize):
		status, code = http.StatusBadRequest, "invalid_size"
	case errors.Is(err, domain.ErrZipNotServiceable):
		status, code = http.StatusBadRequest, "zip_not_serviceable"
	case errors.Is(err, domain.ErrCityZipMismatch):
		status, code = http.StatusBadRequest, "city_zip_mismatch"
	case errors.Is(err, domain.ErrDateTooEarly):
		status, code = http.StatusBadRequest, "date_too_early"
	case errors.Is(err, domain.ErrDateTooLate):
		status, code = http.StatusBadRequest, "date_too_late"
	case errors.Is(err, domain.ErrInvalidDate):
		status, code = http.StatusBadRequest, "invalid_date"
	case errors.Is(err, domain.ErrInvalidStatus):
		status, code = http.StatusBadRequest, "invalid_status"
	case errors.Is(err, domain.ErrInvalidPriceTable):
		status, code = http.StatusBadRequest, "invalid_prices"
	case errors.Is(err, domain.ErrDuplicateEmail):
		status, code = http.StatusConflict, "duplicate_email"
	case errors.Is(err, domain.ErrCancellationWindowClosed):
		status, code = http.StatusConflict, "cancellation_window_closed"
	case errors.Is(err, domain.ErrOrderNotFound):
		status, code = http.StatusNotFound, "order_not_found"
	default:
		logging.From(c).Error("unhandled error", "error", err)
		status, code = http.StatusInternalServerError, "server_error"
	}
	c.JSON(status, gin.H{"error": code})
}
