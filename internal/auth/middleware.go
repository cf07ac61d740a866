package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sambafall/teranga/internal/api"
)

type contextKey string

const userContextKey contextKey = "terangaUser"

// ContextUser represents the authenticated principal stored in the request context.
type ContextUser struct {
	ID    string
	Email string
	Role  Role
}

// Middleware validates bearer tokens and injects the authenticated user.
func Middleware(service *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			api.AbortError(c, http.StatusUnauthorized, api.CodeUnauthorized, "missing authorization header")
			return
		}

		token := extractBearerToken(authHeader)
		if token == "" {
			api.AbortError(c, http.StatusUnauthorized, api.CodeTokenInvalid, "invalid authorization header")
			return
		}

		claims, err := service.ValidateAccessToken(token)
		if err != nil {
			api.AbortError(c, http.StatusUnauthorized, api.CodeTokenExpired, "invalid or expired token")
			return
		}

		c.Set(string(userContextKey), ContextUser{
			ID:    claims.UserID.String(),
			Email: claims.Email,
			Role:  claims.Role,
		})

		c.Next()
	}
}

// RequireAdmin rejects non-admin principals. It must run after Middleware.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			api.AbortError(c, http.StatusUnauthorized, api.CodeUnauthorized, "unauthorized")
			return
		}
		if user.Role != RoleAdmin {
			api.AbortError(c, http.StatusForbidden, api.CodeForbidden, "admin access required")
			return
		}
		c.Next()
	}
}

// CurrentUser extracts the authenticated user from the context.
func CurrentUser(c *gin.Context) (ContextUser, bool) {
	value, exists := c.Get(string(userContextKey))
	if !exists {
		return ContextUser{}, false
	}
	user, ok := value.(ContextUser)
	return user, ok
}

// RequireUser fetches the authenticated user and parses the identifier.
func RequireUser(c *gin.Context) (uuid.UUID, ContextUser, bool) {
	user, ok := CurrentUser(c)
	if !ok {
		return uuid.Nil, ContextUser{}, false
	}
	id, err := uuid.Parse(user.ID)
	if err != nil {
		return uuid.Nil, ContextUser{}, false
	}
	return id, user, true
}

func extractBearerToken(header string) string {
	if !strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}
