package http

import (
	"net/http"
	"strconv"

	"mediagate/internal/core/domain"
	"mediagate/internal/core/ports"
	"mediagate/internal/infrastructure/middleware"

	"github.com/gin-gonic/gin"
)

type StreamHandler struct {
	delegationService ports.DelegationService
}

func NewStreamHandler(delegationService ports.DelegationService) *StreamHandler {
	return &StreamHandler{
		delegationService: delegationService,
	}
}

func (h *StreamHandler) SetupRoutes(router *gin.Engine, subject gin.HandlerFunc) {
	api := router.Group("/api/v1", subject)
	{
		api.GET("/resources/:id/stream", h.StartStream)
		api.GET("/resources/:id/stream/segments/:seq", h.FetchSegment)
	}
}

// StartStream authorizes a streaming session. On Allow the response
// carries a delegation token the client presents on every segment
// fetch.
func (h *StreamHandler) StartStream(c *gin.Context) {
	resourceID := domain.ResourceID(c.Param("id"))
	subject := middleware.SubjectFromContext(c)

	token, decision, err := h.delegationService.IssueStreamToken(c.Request.Context(), subject, resourceID)
	if err != nil {
		respondCheckError(c, err)
		return
	}
	if !decision.Allowed {
		respondDenied(c, decision)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"resource_id":  resourceID,
		"stream_token": token,
		"capability":   decision.Capability.String(),
	})
}

// FetchSegment validates the presented delegation token, falling back
// to a full re-authorization when the token is stale. A refreshed token
// is returned whenever the fallback path re-issued one.
func (h *StreamHandler) FetchSegment(c *gin.Context) {
	resourceID := domain.ResourceID(c.Param("id"))
	seq, err := strconv.Atoi(c.Param("seq"))
	if err != nil || seq < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid segment sequence"})
		return
	}

	subject := middleware.SubjectFromContext(c)
	token, decision, err := h.delegationService.AuthorizeSegment(c.Request.Context(), subject, resourceID, streamToken(c))
	if err != nil {
		respondCheckError(c, err)
		return
	}
	if !decision.Allowed {
		respondDenied(c, decision)
		return
	}

	// Segment bytes come from the media origin; this surface answers
	// with the grant and the token to present on the next fetch.
	c.JSON(http.StatusOK, gin.H{
		"resource_id":  resourceID,
		"segment":      seq,
		"stream_token": token,
		"granted":      decision.Capability.String(),
	})
}

// streamToken extracts a delegation token from the query string or the
// X-Stream-Token header.
func streamToken(c *gin.Context) string {
	if token := c.Query("token"); token != "" {
		return token
	}
	return c.GetHeader("X-Stream-Token")
}
