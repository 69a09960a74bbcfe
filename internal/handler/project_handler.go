package handler

import (
	"net/http"
	"time"

	"teamtrack/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProjectHandler struct {
	projectService *service.ProjectService
}

func NewProjectHandler(projectService *service.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

type memberRequest struct {
	UserID string `json:"user" binding:"required,uuid"`
	Role   string `json:"role" binding:"omitempty,oneof=admin member"`
}

type CreateProjectRequest struct {
	Title       string          `json:"title" binding:"required"`
	Description string          `json:"description"`
	Status      string          `json:"status"`
	Priority    string          `json:"priority" binding:"omitempty,oneof=low medium high"`
	Color       string          `json:"color"`
	DueDate     *time.Time      `json:"dueDate"`
	TeamMembers []memberRequest `json:"teamMembers" binding:"dive"`
}

type UpdateProjectRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Status      *string    `json:"status"`
	Priority    *string    `json:"priority" binding:"omitempty,oneof=low medium high"`
	Color       *string    `json:"color"`
	DueDate     *time.Time `json:"dueDate"`
}

type InviteRequest struct {
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role" binding:"omitempty,oneof=admin member"`
}

type ChangeMemberRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=admin member"`
}

// List returns the caller's projects.
// @Summary List projects
// @Security BearerAuth
// @Tags Projects
// @Router /api/projects [get]
func (h *ProjectHandler) List(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	projects, err := h.projectService.List(c.Request.Context(), user)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, projects)
}

// Create makes a new project. Global admins only.
// @Summary Create a project
// @Security BearerAuth
// @Tags Projects
// @Router /api/projects [post]
func (h *ProjectHandler) Create(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
		return
	}

	input := service.CreateProjectInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		Color:       req.Color,
		DueDate:     req.DueDate,
	}
	for _, m := range req.TeamMembers {
		userID, err := uuid.Parse(m.UserID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid team member ID"})
			return
		}
		input.TeamMembers = append(input.TeamMembers, service.MemberInput{UserID: userID, Role: m.Role})
	}

	project, err := h.projectService.Create(c.Request.Context(), user, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, project)
}

// Get returns one project.
func (h *ProjectHandler) Get(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid project ID format"})
		return
	}

	project, err := h.projectService.Get(c.Request.Context(), user, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

// Update applies a partial patch to a project.
// @Summary Update a project
// @Security BearerAuth
// @Tags Projects
// @Router /api/projects/{id} [put]
func (h *ProjectHandler) Update(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid project ID format"})
		return
	}

	var req UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
		return
	}

	patch := service.ProjectPatch{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		Color:       req.Color,
		DueDate:     req.DueDate,
	}
	project, err := h.projectService.Update(c.Request.Context(), user, id, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

// Delete removes a project and all its tasks. Owner only.
// @Summary Delete a project
// @Security BearerAuth
// @Tags Projects
// @Router /api/projects/{id} [delete]
func (h *ProjectHandler) Delete(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid project ID format"})
		return
	}

	if err := h.projectService.Delete(c.Request.Context(), user, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Project deleted successfully"})
}

// Invite adds a user to the team by email. Project admins only.
func (h *ProjectHandler) Invite(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid project ID format"})
		return
	}

	var req InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
		return
	}

	member, err := h.projectService.Invite(c.Request.Context(), user, id, req.Email, req.Role)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Member invited", "user": member.User, "role": member.Role})
}

// RemoveMember drops a user from the team. Project admins only.
func (h *ProjectHandler) RemoveMember(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid project ID format"})
		return
	}
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid user ID format"})
		return
	}

	if err := h.projectService.RemoveMember(c.Request.Context(), user, id, userID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Member removed", "userId": userID})
}

// ChangeMemberRole switches a member's project-scoped role. Project admins only.
func (h *ProjectHandler) ChangeMemberRole(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid project ID format"})
		return
	}
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid user ID format"})
		return
	}

	var req ChangeMemberRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
		return
	}

	if err := h.projectService.ChangeMemberRole(c.Request.Context(), user, id, userID, req.Role); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Role updated", "userId": userID, "role": req.Role})
}

// Team lists the project's members.
func (h *ProjectHandler) Team(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid project ID format"})
		return
	}

	members, err := h.projectService.Team(c.Request.Context(), user, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, members)
}
