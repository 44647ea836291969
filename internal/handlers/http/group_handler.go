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

type GroupHandler struct {
	groupService ports.GroupService
}

func NewGroupHandler(groupService ports.GroupService) *GroupHandler {
	return &GroupHandler{
		groupService: groupService,
	}
}

func (h *GroupHandler) SetupRoutes(router *gin.Engine, auth gin.HandlerFunc) {
	api := router.Group("/api/v1/groups", auth)
	{
		api.POST("", h.CreateGroup)
		api.PUT("/:id/members/:user", h.SetMembership)
		api.DELETE("/:id/members/:user", h.RemoveMembership)
	}
}

func (h *GroupHandler) CreateGroup(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required,min=1,max=100"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if err := validation.ValidateGroupName(req.Name); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ownerID, ok := middleware.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	group, err := h.groupService.CreateGroup(c.Request.Context(), ownerID, req.Name)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"group": group,
	})
}

func (h *GroupHandler) SetMembership(c *gin.Context) {
	groupID := domain.GroupID(c.Param("id"))
	userID := domain.UserID(c.Param("user"))

	var req struct {
		Role string `json:"role" binding:"required"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := validation.ValidateRole(req.Role); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	subject := middleware.SubjectFromContext(c)
	if err := h.groupService.SetMembership(c.Request.Context(), subject, groupID, userID, domain.Role(req.Role)); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"group_id": groupID,
		"user_id":  userID,
		"role":     req.Role,
	})
}

func (h *GroupHandler) RemoveMembership(c *gin.Context) {
	groupID := domain.GroupID(c.Param("id"))
	userID := domain.UserID(c.Param("user"))

	subject := middleware.SubjectFromContext(c)
	if err := h.groupService.RemoveMembership(c.Request.Context(), subject, groupID, userID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "removed",
	})
}
