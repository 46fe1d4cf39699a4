package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/clinicdesk/clinic-api/pkg/errors"
)

// RespondError maps domain rejections to HTTP statuses. Substrate
// failures are logged and surfaced as a generic 500; rejection details
// are returned verbatim.
func RespondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errors.ErrDuplicatePrescription),
		errors.Is(err, errors.ErrAlreadyDispensed):
		c.JSON(http.StatusConflict, NewErrorResponse(err.Error()))
	case errors.Is(err, errors.ErrDoctorUnavailable):
		c.JSON(http.StatusUnprocessableEntity, NewErrorResponse(err.Error()))
	case errors.Is(err, errors.ErrPatientNotFound),
		errors.Is(err, errors.ErrPrescriptionNotFound),
		errors.Is(err, errors.ErrNotDispensed):
		c.JSON(http.StatusNotFound, NewErrorResponse(err.Error()))
	default:
		var appErr *errors.AppError
		if errors.As(err, &appErr) {
			switch appErr.Code {
			case errors.ErrForbidden:
				c.JSON(http.StatusForbidden, NewErrorResponse(appErr.Message))
				return
			case errors.ErrUnauthorized:
				c.JSON(http.StatusUnauthorized, NewErrorResponse(appErr.Message))
				return
			case errors.ErrNotFound:
				c.JSON(http.StatusNotFound, NewErrorResponse(appErr.Message))
				return
			case errors.ErrBadRequest:
				c.JSON(http.StatusBadRequest, NewErrorResponse(appErr.Message))
				return
			case errors.ErrConflict:
				c.JSON(http.StatusConflict, NewErrorResponse(appErr.Message))
				return
			}
		}
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("operation failed")
		c.JSON(http.StatusInternalServerError, NewErrorResponse("operation failed"))
	}
}
