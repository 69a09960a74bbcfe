package handler

import (
	"net/http"

	"teamtrack/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TeamHandler serves the flat roster endpoints.
type TeamHandler struct {
	teamService *service.TeamService
}

func NewTeamHandler(teamService *service.TeamService) *TeamHandler {
	return &TeamHandler{teamService: teamService}
}

type AddTeamMemberRequest struct {
	Name   string `json:"name" binding:"required"`
	Email  string `json:"email" binding:"required,email"`
	Role   string `json:"role" binding:"omitempty,oneof=Member Admin"`
	Avatar string `json:"avatar"`
}

type UpdateTeamMemberRequest struct {
	Role string `json:"role" binding:"required,oneof=Member Admin"`
}

func (h *TeamHandler) List(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}
	members, err := h.teamService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, members)
}

func (h *TeamHandler) Add(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}

	var req AddTeamMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
		return
	}

	member, err := h.teamService.Add(c.Request.Context(), req.Name, req.Email, req.Role, req.Avatar)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, member)
}

func (h *TeamHandler) UpdateRole(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid team member ID"})
		return
	}

	var req UpdateTeamMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
		return
	}

	member, err := h.teamService.UpdateRole(c.Request.Context(), id, req.Role)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, member)
}

func (h *TeamHandler) Delete(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid team member ID"})
		return
	}

	if err := h.teamService.Remove(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Team member deleted"})
}
