package middleware

import (
	"net/http"
	"strings"

	"mediagate/internal/core/domain"
	"mediagate/internal/core/services"

	"github.com/gin-gonic/gin"
)

const (
	subjectKey = "subject"
	userIDKey  = "user_id"
)

func AuthMiddleware(authService services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization header required"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			c.Abort()
			return
		}

		claims, err := authService.ValidateToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			c.Abort()
			return
		}

		c.Set(userIDKey, claims.UserID)
		c.Set("username", claims.Username)
		c.Set(subjectKey, services.ResolveSubject(claims, accessCode(c)))
		c.Next()
	}
}

// SubjectMiddleware resolves the request's credentials into a subject
// without rejecting anything. Unauthenticated requests proceed as
// anonymous or code-bearing subjects; the decision engine sorts out
// what they may do.
func SubjectMiddleware(authService services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var claims *services.Claims

		authHeader := c.GetHeader("Authorization")
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			if parsed, err := authService.ValidateToken(parts[1]); err == nil {
				claims = parsed
				c.Set(userIDKey, parsed.UserID)
				c.Set("username", parsed.Username)
			}
		}

		c.Set(subjectKey, services.ResolveSubject(claims, accessCode(c)))
		c.Next()
	}
}

// SubjectFromContext returns the subject resolved by SubjectMiddleware
// or AuthMiddleware. Requests that skipped both are anonymous.
func SubjectFromContext(c *gin.Context) domain.Subject {
	if v, ok := c.Get(subjectKey); ok {
		if subject, ok := v.(domain.Subject); ok {
			return subject
		}
	}
	return domain.AnonymousSubject()
}

// UserIDFromContext returns the authenticated user ID, if any.
func UserIDFromContext(c *gin.Context) (domain.UserID, bool) {
	if v, ok := c.Get(userIDKey); ok {
		if id, ok := v.(domain.UserID); ok {
			return id, true
		}
	}
	return "", false
}

// accessCode extracts a presented access code from the query string or
// the X-Access-Code header. The query form wins when both are set.
func accessCode(c *gin.Context) string {
	if code := c.Query("code"); code != "" {
		return code
	}
	return c.GetHeader("X-Access-Code")
}
