package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/academia/internal/app/models/dto"
	"github.com/yigit/academia/internal/pkg/apperrors"
	"github.com/yigit/academia/internal/pkg/logger"
)

// errorMapping pairs an error kind with its HTTP status and response code.
type errorMapping struct {
	kind   error
	status int
	code   dto.ErrorCode
	title  string
}

var errorMappings = []errorMapping{
	{apperrors.ErrValidationFailed, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Validation failed"},
	{apperrors.ErrResourceNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Resource not found"},
	{apperrors.ErrStateConflict, http.StatusConflict, dto.ErrorCodeStateConflict, "Operation not allowed in the current state"},
	{apperrors.ErrConcurrencyConflict, http.StatusConflict, dto.ErrorCodeConcurrencyConflict, "Concurrent modification"},
	{apperrors.ErrCapacityExceeded, http.StatusUnprocessableEntity, dto.ErrorCodeCapacityExceeded, "Capacity exceeded"},
	{apperrors.ErrPermissionDenied, http.StatusForbidden, dto.ErrorCodeForbidden, "Permission denied"},
	{apperrors.ErrSessionAlreadyExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Resource already exists"},
}

// HandleAPIError handles common API errors and returns appropriate responses
func HandleAPIError(c *gin.Context, err error) {
	for _, m := range errorMappings {
		if !errors.Is(err, m.kind) {
			continue
		}

		detail := dto.NewErrorDetail(m.code, m.title)
		var custom *apperrors.CustomError
		if errors.As(err, &custom) {
			detail.Message = custom.Error()
			if field, ok := custom.Details["field"].(string); ok {
				detail.Field = field
			}
			if len(custom.Details) > 0 {
				detail.Details = custom.Details
			}
		}

		c.JSON(m.status, dto.APIResponse{Error: detail, Timestamp: time.Now()})
		return
	}

	logger.Error().Err(err).
		Str("method", c.Request.Method).
		Str("path", c.FullPath()).
		Msg("Unhandled error")
	c.JSON(http.StatusInternalServerError, dto.APIResponse{
		Error:     dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error"),
		Timestamp: time.Now(),
	})
}
