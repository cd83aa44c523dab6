package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"address-console/internal/shared/response"
)

// OperatorMiddleware chỉ cho phép các operator trong allowlist (id hoặc email).
// Allowlist rỗng nghĩa là mọi user đã xác thực đều là operator.
func OperatorMiddleware(allowed []string) gin.HandlerFunc {
	set := make(map[string]struct{}, len(allowed))
	for _, a := range allowed {
		set[strings.ToLower(strings.TrimSpace(a))] = struct{}{}
	}

	return func(c *gin.Context) {
		if len(set) == 0 {
			c.Next()
			return
		}

		_, byID := set[strings.ToLower(c.GetString(ContextUserID))]
		email := strings.ToLower(c.GetString(ContextEmail))
		_, byEmail := set[email]
		if !byID && !(email != "" && byEmail) {
			response.ErrorResponse(c, http.StatusForbidden, "FORBIDDEN", "Access denied: operator role required")
			c.Abort()
			return
		}

		c.Next()
	}
}
