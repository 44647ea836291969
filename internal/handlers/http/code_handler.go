package http

import (
	"net/http"
	"time"

	"mediagate/internal/core/domain"
	"mediagate/internal/core/ports"
	"mediagate/internal/infrastructure/middleware"
	"mediagate/pkg/utils"
	"mediagate/pkg/validation"

	"github.com/gin-gonic/gin"
)

type CodeHandler struct {
	codeService  ports.CodeService
	authzService ports.AuthzService
}

func NewCodeHandler(
	codeService ports.CodeService,
	authzService ports.AuthzService,
) *CodeHandler {
	return &CodeHandler{
		codeService:  codeService,
		authzService: authzService,
	}
}

func (h *CodeHandler) SetupRoutes(router *gin.Engine, auth gin.HandlerFunc) {
	api := router.Group("/api/v1")
	{
		api.POST("/codes", auth, h.CreateCode)
		api.DELETE("/codes/:code", auth, h.DeactivateCode)

		// Public preview surface; no credentials required.
		api.GET("/shared/:code", h.ListSharedResources)
	}
}

func (h *CodeHandler) CreateCode(c *gin.Context) {
	var req struct {
		ScopeKind   string `json:"scope_kind" binding:"required"`
		ResourceID  string `json:"resource_id"`
		GroupID     string `json:"group_id"`
		Description string `json:"description" binding:"max=200"`
		ExpiresAt   string `json:"expires_at"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var expiresAt *time.Time
	if req.ExpiresAt != "" {
		parsed, err := time.Parse(time.RFC3339, req.ExpiresAt)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "expires_at must be RFC 3339"})
			return
		}
		expiresAt = &parsed
	}

	scope := domain.CodeScope{
		Kind:       domain.ScopeKind(req.ScopeKind),
		ResourceID: domain.ResourceID(req.ResourceID),
		GroupID:    domain.GroupID(req.GroupID),
	}

	subject := middleware.SubjectFromContext(c)
	code, err := h.codeService.CreateCode(c.Request.Context(), subject, scope, req.Description, expiresAt)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	resp := gin.H{"code": code}
	if code.ExpiresAt != nil {
		resp["expires_in_seconds"] = int64(utils.TimeUntilExpiry(*code.ExpiresAt).Seconds())
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CodeHandler) DeactivateCode(c *gin.Context) {
	code := c.Param("code")
	if err := validation.ValidateAccessCode(code); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	subject := middleware.SubjectFromContext(c)
	if err := h.codeService.DeactivateCode(c.Request.Context(), subject, code); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "deactivated",
	})
}

func (h *CodeHandler) ListSharedResources(c *gin.Context) {
	code := c.Param("code")
	if err := validation.ValidateAccessCode(code); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resources, decision, err := h.authzService.ListResourcesForCode(c.Request.Context(), code)
	if err != nil {
		respondCheckError(c, err)
		return
	}
	if !decision.Allowed {
		respondDenied(c, decision)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"resources": resources,
	})
}
