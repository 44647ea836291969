package http

import (
	"net/http"
	"strings"

	"mediagate/internal/core/domain"
	"mediagate/internal/core/ports"
	"mediagate/internal/infrastructure/middleware"
	"mediagate/pkg/validation"

	"github.com/gin-gonic/gin"
)

type ResourceHandler struct {
	resourceService ports.ResourceService
	authzService    ports.AuthzService
}

func NewResourceHandler(
	resourceService ports.ResourceService,
	authzService ports.AuthzService,
) *ResourceHandler {
	return &ResourceHandler{
		resourceService: resourceService,
		authzService:    authzService,
	}
}

func (h *ResourceHandler) SetupRoutes(router *gin.Engine, auth, subject gin.HandlerFunc) {
	api := router.Group("/api/v1")
	{
		api.POST("/resources", auth, h.RegisterResource)
		api.GET("/resources/:id", subject, h.GetResource)
		api.GET("/resources/:id/download", subject, h.DownloadResource)
		api.PATCH("/resources/:id/visibility", auth, h.SetVisibility)
		api.PATCH("/resources/:id/group", auth, h.AssignGroup)
	}
}

func (h *ResourceHandler) RegisterResource(c *gin.Context) {
	var req struct {
		Kind     string `json:"kind" binding:"required"`
		Title    string `json:"title" binding:"required,min=1,max=200"`
		GroupID  string `json:"group_id"`
		IsPublic bool   `json:"is_public"`
	}

	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if err := validation.ValidateResourceTitle(req.Title); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	kind := domain.ResourceKind(req.Kind)
	if kind != domain.ResourceKindVideo && kind != domain.ResourceKindImage {
		c.JSON(http.StatusBadRequest, gin.H{"error": "kind must be video or image"})
		return
	}

	ownerID, ok := middleware.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	resource, err := h.resourceService.Register(
		c.Request.Context(),
		ownerID,
		kind,
		req.Title,
		domain.GroupID(req.GroupID),
		req.IsPublic,
	)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"resource": resource,
	})
}

func (h *ResourceHandler) GetResource(c *gin.Context) {
	resourceID := domain.ResourceID(c.Param("id"))
	subject := middleware.SubjectFromContext(c)

	decision, err := h.authzService.CheckAccess(c.Request.Context(), subject, resourceID, domain.CapabilityRead)
	if err != nil {
		respondCheckError(c, err)
		return
	}
	if !decision.Allowed {
		respondDenied(c, decision)
		return
	}

	resource, err := h.resourceService.Get(c.Request.Context(), resourceID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"resource":   resource,
		"capability": decision.Capability.String(),
	})
}

func (h *ResourceHandler) DownloadResource(c *gin.Context) {
	resourceID := domain.ResourceID(c.Param("id"))
	subject := middleware.SubjectFromContext(c)

	decision, err := h.authzService.CheckAccess(c.Request.Context(), subject, resourceID, domain.CapabilityDownload)
	if err != nil {
		respondCheckError(c, err)
		return
	}
	if !decision.Allowed {
		respondDenied(c, decision)
		return
	}

	resource, err := h.resourceService.Get(c.Request.Context(), resourceID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	// Byte production is delegated to the media origin; this surface
	// answers with a grant the origin can honor.
	c.JSON(http.StatusOK, gin.H{
		"resource_id": resource.ID,
		"granted":     decision.Capability.String(),
		"download":    "authorized",
	})
}

func (h *ResourceHandler) SetVisibility(c *gin.Context) {
	resourceID := domain.ResourceID(c.Param("id"))

	var req struct {
		IsPublic *bool `json:"is_public" binding:"required"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	subject := middleware.SubjectFromContext(c)
	resource, err := h.resourceService.SetVisibility(c.Request.Context(), subject, resourceID, *req.IsPublic)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"resource": resource,
	})
}

func (h *ResourceHandler) AssignGroup(c *gin.Context) {
	resourceID := domain.ResourceID(c.Param("id"))

	var req struct {
		GroupID string `json:"group_id"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	subject := middleware.SubjectFromContext(c)
	resource, err := h.resourceService.AssignGroup(c.Request.Context(), subject, resourceID, domain.GroupID(req.GroupID))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"resource": resource,
	})
}
