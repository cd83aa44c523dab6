package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"address-console/internal/infrastructure/catalogapi"
	"address-console/internal/shared/inflight"
)

// ErrUnsupported is returned by backends that cannot serve an operation.
var ErrUnsupported = errors.New("operation not supported by the configured backend")

// MapCommonError maps errors shared by every domain: aborts, upstream
// failures and unsupported operations.
func MapCommonError(err error) (int, string, string) {
	var apiErr *catalogapi.APIError

	switch {
	case inflight.IsAborted(err):
		return http.StatusConflict, "Request was cancelled by a newer request", CodeRequestAborted
	case errors.As(err, &apiErr):
		// upstream message được trả nguyên văn cho user
		status := http.StatusBadGateway
		if apiErr.Status >= 400 && apiErr.Status < 500 {
			status = apiErr.Status
		}
		return status, apiErr.Message, "UPSTREAM_ERROR"
	case errors.Is(err, ErrUnsupported):
		return http.StatusNotImplemented, err.Error(), "UNSUPPORTED"
	default:
		return http.StatusInternalServerError, "Internal server error", "INTERNAL_ERROR"
	}
}

// FromError writes the mapped error. Aborts are informational and logged at info.
func FromError(c *gin.Context, err error, mapper func(error) (int, string, string)) {
	status, message, code := mapper(err)

	event := log.Error()
	switch {
	case code == CodeRequestAborted:
		event = log.Info()
	case status < http.StatusInternalServerError:
		event = log.Warn()
	}
	event.Err(err).
		Str("request_id", c.GetString("request_id")).
		Str("path", c.FullPath()).
		Str("code", code).
		Msg("request failed")

	ErrorResponse(c, status, code, message)
}
