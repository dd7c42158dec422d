package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/curriculum/internal/app/models/dto"
	"github.com/yigit/curriculum/internal/pkg/apperrors"
	"github.com/yigit/curriculum/internal/pkg/logger"
)

// HandleAPIError handles common API errors and returns appropriate responses
func HandleAPIError(c *gin.Context, err error) {
	_ = c.Error(err)

	switch {
	case errors.Is(err, apperrors.ErrResourceNotFound):
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(apperrors.Message(err)))
	case apperrors.Is(err, apperrors.ErrValidationFailed, apperrors.ErrBadRequest):
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(apperrors.Message(err)))
	case errors.Is(err, apperrors.ErrStore):
		logFailure(c, err).Msg("Catalog store failure")
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(apperrors.Message(err)))
	default:
		logFailure(c, err).Msg("Unhandled error")
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("internal server error"))
	}
}

// logFailure starts an error event carrying the underlying cause, which
// is never sent to the client.
func logFailure(c *gin.Context, err error) *zerolog.Event {
	event := logger.Error().Err(err).Str("requestId", GetRequestID(c))
	var ce *apperrors.CustomError
	if errors.As(err, &ce) && ce.Cause() != nil {
		event = event.AnErr("cause", ce.Cause())
	}
	return event
}
