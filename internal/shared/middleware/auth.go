package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"address-console/internal/infrastructure/catalogapi"
	"address-console/internal/shared/response"
	"address-console/pkg/jwt"
)

const (
	ContextUserID = "user_id"
	ContextEmail  = "email"
	ContextName   = "name"
)

// AuthMiddleware xác thực bearer token của identity provider.
// Token gốc được gắn vào request context để forward lên catalog API.
func AuthMiddleware(manager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Lấy token từ Authorization header
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "missing authorization header")
			c.Abort()
			return
		}

		// 2. Extract token từ "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			response.Unauthorized(c, "invalid authorization header format")
			c.Abort()
			return
		}
		token := parts[1]

		// 3. Verify và parse JWT
		claims, err := manager.ValidateAccessToken(token)
		if err != nil {
			log.Debug().Err(err).Str("request_id", c.GetString(ContextRequestID)).Msg("token rejected")
			response.Unauthorized(c, "invalid token")
			c.Abort()
			return
		}

		// 4. Set identity vào gin context, token vào request context
		c.Set(ContextUserID, claims.Identity())
		c.Set(ContextEmail, claims.Email)
		c.Set(ContextName, claims.Name)
		c.Request = c.Request.WithContext(catalogapi.WithToken(c.Request.Context(), token))

		c.Next()
	}
}

// GetUserID lấy operator id do AuthMiddleware set
func GetUserID(c *gin.Context) (string, bool) {
	userID := c.GetString(ContextUserID)
	return userID, userID != ""
}

// RequireUser ghi 401 khi không có operator id và trả về false
func RequireUser(c *gin.Context) (string, bool) {
	userID, ok := GetUserID(c)
	if !ok {
		response.ErrorResponse(c, http.StatusUnauthorized, "UNAUTHORIZED", "user not authenticated")
		return "", false
	}
	return userID, true
}
