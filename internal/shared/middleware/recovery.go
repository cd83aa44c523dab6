package middleware

import (
	"errors"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"address-console/internal/shared/response"
)

// Recovery chuyển panic thành 500 theo envelope chung, kèm request id để
// operator báo lại. Response đã bắt đầu stream (export xlsx) thì chỉ abort.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
				panic(rec)
			}

			requestID := c.GetString(ContextRequestID)
			log.Error().
				Str("request_id", requestID).
				Str("user_id", c.GetString(ContextUserID)).
				Str("method", c.Request.Method).
				Str("path", c.Request.URL.Path).
				Interface("panic", rec).
				Bytes("stack", debug.Stack()).
				Msg("Panic recovered")

			if c.Writer.Written() {
				c.Abort()
				return
			}
			response.ErrorWithDetails(c, http.StatusInternalServerError, response.CodeInternal,
				"Internal server error", gin.H{"request_id": requestID})
			c.Abort()
		}()

		c.Next()
	}
}
