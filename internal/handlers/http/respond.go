package http

import (
	"errors"
	"net/http"

	"mediagate/internal/core/domain"
	"mediagate/internal/core/services"

	"github.com/gin-gonic/gin"
)

// statusForReason maps deny reasons to HTTP statuses. Scope mismatches
// answer 404 rather than 403 so code-preview surfaces never leak which
// resources exist.
func statusForReason(reason domain.DenyReason) int {
	switch reason {
	case domain.DenyCodeNotFound, domain.DenyCodeScopeMismatch:
		return http.StatusNotFound
	case domain.DenyCodeExpired, domain.DenyCodeRevoked:
		return http.StatusGone
	default:
		return http.StatusForbidden
	}
}

func respondDenied(c *gin.Context, decision domain.Decision) {
	c.JSON(statusForReason(decision.Reason), gin.H{
		"error":  "access denied",
		"reason": string(decision.Reason),
	})
}

// respondCheckError handles a non-nil error from an access check. A
// missing resource is a plain 404; anything else means the decision is
// indeterminate and the request fails closed with 503.
func respondCheckError(c *gin.Context, err error) {
	if errors.Is(err, domain.ErrResourceNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "resource not found"})
		return
	}
	c.JSON(http.StatusServiceUnavailable, gin.H{"error": "authorization temporarily unavailable"})
}

// respondServiceError maps management-operation errors to statuses.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	case errors.Is(err, domain.ErrResourceNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "resource not found"})
	case errors.Is(err, domain.ErrGroupNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "group not found"})
	case errors.Is(err, domain.ErrCodeNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "code not found"})
	case errors.Is(err, domain.ErrMembershipNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "membership not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
