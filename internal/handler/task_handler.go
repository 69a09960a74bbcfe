package handler

import (
	"net/http"
	"time"

	"teamtrack/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TaskHandler struct {
	taskService *service.TaskService
}

func NewTaskHandler(taskService *service.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

type recurrenceRequest struct {
	Type     string     `json:"type" binding:"omitempty,oneof=none daily weekly monthly"`
	Interval int        `json:"interval" binding:"omitempty,min=1"`
	EndDate  *time.Time `json:"endDate"`
}

type CreateTaskRequest struct {
	Title       string             `json:"title" binding:"required"`
	Description string             `json:"description"`
	Project     string             `json:"project" binding:"required,uuid"`
	AssignedTo  *string            `json:"assignedTo" binding:"omitempty,uuid"`
	DueDate     *time.Time         `json:"dueDate"`
	Priority    string             `json:"priority" binding:"omitempty,oneof=low medium high"`
	Recurrence  *recurrenceRequest `json:"recurrence"`
}

type UpdateTaskRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	AssignedTo  *string    `json:"assignedTo" binding:"omitempty,uuid"`
	DueDate     *time.Time `json:"dueDate"`
	Status      *string    `json:"status"`
	Priority    *string    `json:"priority" binding:"omitempty,oneof=low medium high"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type AddReminderRequest struct {
	Time time.Time `json:"time" binding:"required"`
	Type string    `json:"type" binding:"omitempty,oneof=email notification"`
}

type AddAttachmentRequest struct {
	Filename string `json:"filename" binding:"required"`
	URL      string `json:"url" binding:"required"`
}

// ListByProject returns all tasks of a project.
// @Summary List tasks for a project
// @Security BearerAuth
// @Tags Tasks
// @Router /api/tasks/project/{projectId} [get]
func (h *TaskHandler) ListByProject(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	projectID, err := uuid.Parse(c.Param("projectId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid project ID format"})
		return
	}

	tasks, err := h.taskService.ListByProject(c.Request.Context(), user, projectID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// MyTasks returns tasks assigned to the caller.
func (h *TaskHandler) MyTasks(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	tasks, err := h.taskService.MyTasks(c.Request.Context(), user)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// Stats returns the caller's dashboard counters.
func (h *TaskHandler) Stats(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	stats, err := h.taskService.Stats(c.Request.Context(), user)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Suggestions returns tasks resembling the caller's recent ones.
func (h *TaskHandler) Suggestions(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	tasks, err := h.taskService.Suggestions(c.Request.Context(), user)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// Create makes a new task.
// @Summary Create a task
// @Security BearerAuth
// @Tags Tasks
// @Router /api/tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
		return
	}

	projectID, err := uuid.Parse(req.Project)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid project ID format"})
		return
	}

	input := service.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		ProjectID:   projectID,
		DueDate:     req.DueDate,
		Priority:    req.Priority,
	}
	if req.AssignedTo != nil {
		assignee, err := uuid.Parse(*req.AssignedTo)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid assignee ID format"})
			return
		}
		input.AssignedTo = &assignee
	}
	if req.Recurrence != nil {
		input.RecurrenceType = req.Recurrence.Type
		input.RecurrenceInterval = req.Recurrence.Interval
		input.RecurrenceEndDate = req.Recurrence.EndDate
	}

	task, err := h.taskService.Create(c.Request.Context(), user, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

// Get returns one task.
func (h *TaskHandler) Get(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid task ID format"})
		return
	}

	task, err := h.taskService.Get(c.Request.Context(), user, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// Update applies a partial patch to a task.
// @Summary Update a task
// @Security BearerAuth
// @Tags Tasks
// @Router /api/tasks/{id} [put]
func (h *TaskHandler) Update(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid task ID format"})
		return
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
		return
	}

	patch := service.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Status:      req.Status,
		Priority:    req.Priority,
	}
	if req.AssignedTo != nil {
		assignee, err := uuid.Parse(*req.AssignedTo)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid assignee ID format"})
			return
		}
		patch.AssignedTo = &assignee
	}

	task, err := h.taskService.Update(c.Request.Context(), user, id, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// UpdateStatus changes only the status field.
func (h *TaskHandler) UpdateStatus(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid task ID format"})
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
		return
	}

	task, err := h.taskService.Update(c.Request.Context(), user, id, service.TaskPatch{Status: &req.Status})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// Delete removes a task. Creator or global admin only.
// @Summary Delete a task
// @Security BearerAuth
// @Tags Tasks
// @Router /api/tasks/{id} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid task ID format"})
		return
	}

	if err := h.taskService.Delete(c.Request.Context(), user, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}

// ToggleBookmark flips the bookmark flag.
func (h *TaskHandler) ToggleBookmark(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid task ID format"})
		return
	}

	task, err := h.taskService.ToggleBookmark(c.Request.Context(), user, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// AddReminder appends a reminder entry.
func (h *TaskHandler) AddReminder(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid task ID format"})
		return
	}

	var req AddReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
		return
	}

	task, err := h.taskService.AddReminder(c.Request.Context(), user, id, req.Time, req.Type)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// RemoveReminder deletes a reminder entry. Unknown reminder ids return the
// task unchanged.
func (h *TaskHandler) RemoveReminder(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid task ID format"})
		return
	}
	reminderID, err := uuid.Parse(c.Param("reminderId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid reminder ID format"})
		return
	}

	task, err := h.taskService.RemoveReminder(c.Request.Context(), user, id, reminderID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// AddAttachment records attachment metadata on a task.
func (h *TaskHandler) AddAttachment(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid task ID format"})
		return
	}

	var req AddAttachmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "No file uploaded"})
		return
	}

	task, err := h.taskService.AddAttachment(c.Request.Context(), user, id, req.Filename, req.URL)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// Complete marks a task completed and spawns the next occurrence of a
// recurring task.
func (h *TaskHandler) Complete(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid task ID format"})
		return
	}

	task, err := h.taskService.Complete(c.Request.Context(), user, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}
