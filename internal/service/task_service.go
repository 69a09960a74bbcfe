package service

import (
	"context"
	"time"

	"teamtrack/internal/apperrors"
	"teamtrack/internal/authz"
	"teamtrack/internal/model"
	"teamtrack/internal/notify"
	"teamtrack/internal/repository"

	"github.com/google/uuid"
)

// ProjectRef is the thin project projection embedded in task responses.
type ProjectRef struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title"`
}

type ReminderView struct {
	ID   uuid.UUID `json:"id"`
	Time time.Time `json:"time"`
	Type string    `json:"type"`
	Sent bool      `json:"sent"`
}

type AttachmentView struct {
	ID         uuid.UUID `json:"id"`
	Filename   string    `json:"filename"`
	URL        string    `json:"url"`
	UploadedAt time.Time `json:"uploadedAt"`
}

type RecurrenceView struct {
	Type     string     `json:"type"`
	Interval int        `json:"interval"`
	EndDate  *time.Time `json:"endDate,omitempty"`
}

// TaskView is the canonical populated task representation.
type TaskView struct {
	ID          uuid.UUID         `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Project     ProjectRef        `json:"project"`
	AssignedTo  *model.PublicUser `json:"assignedTo,omitempty"`
	CreatedBy   model.PublicUser  `json:"createdBy"`
	DueDate     *time.Time        `json:"dueDate,omitempty"`
	Status      string            `json:"status"`
	Priority    string            `json:"priority"`
	Bookmarked  bool              `json:"bookmarked"`
	Reminders   []ReminderView    `json:"reminders"`
	Attachments []AttachmentView  `json:"attachments"`
	Recurrence  RecurrenceView    `json:"recurrence"`
	CreatedAt   time.Time         `json:"createdAt"`
}

// CreateTaskInput holds validated fields for a new task.
type CreateTaskInput struct {
	Title       string
	Description string
	ProjectID   uuid.UUID
	AssignedTo  *uuid.UUID
	DueDate     *time.Time
	Priority    string

	RecurrenceType     string
	RecurrenceInterval int
	RecurrenceEndDate  *time.Time
}

// TaskPatch carries partial-update fields; nil means "leave unchanged".
type TaskPatch struct {
	Title       *string
	Description *string
	AssignedTo  *uuid.UUID
	DueDate     *time.Time
	Status      *string
	Priority    *string
}

type TaskService struct {
	tasks    repository.TaskRepositoryInterface
	projects repository.ProjectRepositoryInterface
	engine   *authz.Engine
	notifier notify.Notifier
}

func NewTaskService(
	tasks repository.TaskRepositoryInterface,
	projects repository.ProjectRepositoryInterface,
	engine *authz.Engine,
	notifier notify.Notifier,
) *TaskService {
	return &TaskService{
		tasks:    tasks,
		projects: projects,
		engine:   engine,
		notifier: notifier,
	}
}

func taskView(t *model.Task) *TaskView {
	view := &TaskView{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Project:     ProjectRef{ID: t.ProjectID, Title: t.Project.Title},
		CreatedBy:   t.Creator.Public(),
		DueDate:     t.DueDate,
		Status:      t.Status,
		Priority:    t.Priority,
		Bookmarked:  t.Bookmarked,
		Reminders:   make([]ReminderView, len(t.Reminders)),
		Attachments: make([]AttachmentView, len(t.Attachments)),
		Recurrence: RecurrenceView{
			Type:     t.RecurrenceType,
			Interval: t.RecurrenceInterval,
			EndDate:  t.RecurrenceEndDate,
		},
		CreatedAt: t.CreatedAt,
	}
	if t.Assignee != nil && t.AssignedTo != nil {
		pub := t.Assignee.Public()
		view.AssignedTo = &pub
	}
	for i, r := range t.Reminders {
		view.Reminders[i] = ReminderView{ID: r.ID, Time: r.Time, Type: r.Type, Sent: r.Sent}
	}
	for i, a := range t.Attachments {
		view.Attachments[i] = AttachmentView{ID: a.ID, Filename: a.Filename, URL: a.URL, UploadedAt: a.UploadedAt}
	}
	return view
}

func taskViews(tasks []model.Task) []TaskView {
	views := make([]TaskView, len(tasks))
	for i := range tasks {
		views[i] = *taskView(&tasks[i])
	}
	return views
}

// ListByProject returns the project's tasks, newest first.
func (s *TaskService) ListByProject(ctx context.Context, actor *model.User, projectID uuid.UUID) ([]TaskView, error) {
	project, err := s.loadProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !s.engine.CanViewProject(actor, project) {
		return nil, apperrors.Forbidden("not authorized to view this project")
	}

	tasks, err := s.tasks.GetByProject(ctx, projectID)
	if err != nil {
		return nil, apperrors.Upstream("error fetching tasks", err)
	}
	return taskViews(tasks), nil
}

// MyTasks returns tasks assigned to the actor, due soonest first.
func (s *TaskService) MyTasks(ctx context.Context, actor *model.User) ([]TaskView, error) {
	tasks, err := s.tasks.GetAssignedTo(ctx, actor.ID)
	if err != nil {
		return nil, apperrors.Upstream("error fetching tasks", err)
	}
	return taskViews(tasks), nil
}

// Stats returns the actor's dashboard counters.
func (s *TaskService) Stats(ctx context.Context, actor *model.User) (*repository.TaskStats, error) {
	stats, err := s.tasks.Stats(ctx, actor.ID, time.Now())
	if err != nil {
		return nil, apperrors.Upstream("error fetching statistics", err)
	}
	return stats, nil
}

// Suggestions returns up to five tasks resembling the actor's recent ones.
func (s *TaskService) Suggestions(ctx context.Context, actor *model.User) ([]TaskView, error) {
	tasks, err := s.tasks.Suggestions(ctx, actor.ID, 5)
	if err != nil {
		return nil, apperrors.Upstream("error fetching task suggestions", err)
	}
	return taskViews(tasks), nil
}

// Create makes a task in a project. Project admins, the owner or global
// admins only; the acting user becomes the immutable creator.
func (s *TaskService) Create(ctx context.Context, actor *model.User, input CreateTaskInput) (*TaskView, error) {
	project, err := s.loadProject(ctx, input.ProjectID)
	if err != nil {
		return nil, err
	}
	if !s.engine.CanCreateTask(actor, project) {
		return nil, apperrors.Forbidden("only project admins or global admins can create tasks")
	}
	if input.RecurrenceType != "" && input.RecurrenceType != model.RecurrenceNone && input.RecurrenceInterval < 1 {
		return nil, apperrors.Validation("recurrence interval must be at least 1")
	}

	task := &model.Task{
		Title:              input.Title,
		Description:        input.Description,
		ProjectID:          input.ProjectID,
		AssignedTo:         input.AssignedTo,
		CreatedBy:          actor.ID,
		DueDate:            input.DueDate,
		Status:             model.StatusTodo,
		Priority:           input.Priority,
		RecurrenceType:     input.RecurrenceType,
		RecurrenceInterval: input.RecurrenceInterval,
		RecurrenceEndDate:  input.RecurrenceEndDate,
	}
	if task.Priority == "" {
		task.Priority = model.PriorityMedium
	}
	if task.RecurrenceType == "" {
		task.RecurrenceType = model.RecurrenceNone
	}
	if task.RecurrenceInterval == 0 {
		task.RecurrenceInterval = 1
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, apperrors.Upstream("error creating task", err)
	}

	view, err := s.reload(ctx, task.ID)
	if err != nil {
		return nil, err
	}
	s.notifier.Publish(notify.ProjectChannel(input.ProjectID), notify.EventTaskCreated, view)
	if input.AssignedTo != nil {
		s.notifier.Publish(notify.ProjectChannel(input.ProjectID), notify.EventTaskAssigned, view)
	}
	return view, nil
}

// Get returns one task the actor can see via its project.
func (s *TaskService) Get(ctx context.Context, actor *model.User, id uuid.UUID) (*TaskView, error) {
	task, project, err := s.loadTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.engine.CanViewProject(actor, project) {
		return nil, apperrors.Forbidden("not authorized to view this task")
	}
	return taskView(task), nil
}

// Update applies a partial patch. Creator, assignee, project admins or global
// admins only.
func (s *TaskService) Update(ctx context.Context, actor *model.User, id uuid.UUID, patch TaskPatch) (*TaskView, error) {
	task, project, err := s.loadTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.engine.CanUpdateTask(actor, task, project) {
		return nil, apperrors.Forbidden("not authorized to update this task")
	}

	assigneeChanged := false
	if patch.Title != nil {
		task.Title = *patch.Title
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.AssignedTo != nil {
		task.AssignedTo = patch.AssignedTo
		assigneeChanged = true
	}
	if patch.DueDate != nil {
		task.DueDate = patch.DueDate
	}
	if patch.Status != nil {
		task.Status = *patch.Status
	}
	if patch.Priority != nil {
		task.Priority = *patch.Priority
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, apperrors.Upstream("error updating task", err)
	}

	view, err := s.reload(ctx, id)
	if err != nil {
		return nil, err
	}
	s.notifier.Publish(notify.ProjectChannel(task.ProjectID), notify.EventTaskUpdated, view)
	if assigneeChanged {
		s.notifier.Publish(notify.ProjectChannel(task.ProjectID), notify.EventTaskAssigned, view)
	}
	return view, nil
}

// Delete removes a task. Creator or global admin only — assignees and project
// admins may update but never delete.
func (s *TaskService) Delete(ctx context.Context, actor *model.User, id uuid.UUID) error {
	task, _, err := s.loadTask(ctx, id)
	if err != nil {
		return err
	}
	if !s.engine.CanDeleteTask(actor, task) {
		return apperrors.Forbidden("not authorized to delete this task")
	}

	if err := s.tasks.Delete(ctx, id); err != nil {
		return apperrors.Upstream("error deleting task", err)
	}
	s.notifier.Publish(notify.ProjectChannel(task.ProjectID), notify.EventTaskDeleted, map[string]interface{}{
		"taskId": id,
	})
	return nil
}

// ToggleBookmark flips the bookmark flag and returns the refreshed task.
func (s *TaskService) ToggleBookmark(ctx context.Context, actor *model.User, id uuid.UUID) (*TaskView, error) {
	task, project, err := s.loadTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.engine.CanViewProject(actor, project) {
		return nil, apperrors.Forbidden("not authorized to view this task")
	}

	task.Bookmarked = !task.Bookmarked
	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, apperrors.Upstream("error toggling task bookmark", err)
	}
	return s.reload(ctx, id)
}

// AddReminder appends a reminder entry and returns the refreshed task.
func (s *TaskService) AddReminder(ctx context.Context, actor *model.User, id uuid.UUID, at time.Time, kind string) (*TaskView, error) {
	task, project, err := s.loadTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.engine.CanUpdateTask(actor, task, project) {
		return nil, apperrors.Forbidden("not authorized to update this task")
	}

	if kind == "" {
		kind = model.ReminderNotification
	}
	reminder := &model.Reminder{TaskID: id, Time: at, Type: kind}
	if err := s.tasks.AddReminder(ctx, reminder); err != nil {
		return nil, apperrors.Upstream("error adding reminder", err)
	}
	return s.reload(ctx, id)
}

// RemoveReminder deletes a reminder entry. Removing an unknown id is a no-op
// that returns the current task, not an error.
func (s *TaskService) RemoveReminder(ctx context.Context, actor *model.User, id, reminderID uuid.UUID) (*TaskView, error) {
	task, project, err := s.loadTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.engine.CanUpdateTask(actor, task, project) {
		return nil, apperrors.Forbidden("not authorized to update this task")
	}

	if err := s.tasks.RemoveReminder(ctx, id, reminderID); err != nil {
		return nil, apperrors.Upstream("error removing reminder", err)
	}
	return s.reload(ctx, id)
}

// AddAttachment records an attachment's metadata and returns the refreshed
// task. Byte storage belongs to the upload layer.
func (s *TaskService) AddAttachment(ctx context.Context, actor *model.User, id uuid.UUID, filename, url string) (*TaskView, error) {
	task, project, err := s.loadTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.engine.CanUpdateTask(actor, task, project) {
		return nil, apperrors.Forbidden("not authorized to update this task")
	}

	attachment := &model.Attachment{TaskID: id, Filename: filename, URL: url}
	if err := s.tasks.AddAttachment(ctx, attachment); err != nil {
		return nil, apperrors.Upstream("error uploading attachment", err)
	}
	return s.reload(ctx, id)
}

// Complete marks the task completed and, when it recurs and the next due date
// is within the recurrence window, spawns the next occurrence with status
// reset to todo.
func (s *TaskService) Complete(ctx context.Context, actor *model.User, id uuid.UUID) (*TaskView, error) {
	task, project, err := s.loadTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.engine.CanUpdateTask(actor, task, project) {
		return nil, apperrors.Forbidden("not authorized to update this task")
	}

	task.Status = model.StatusCompleted
	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, apperrors.Upstream("error completing task", err)
	}

	if task.Recurring() {
		if next, ok := task.NextDueDate(); ok {
			successor := &model.Task{
				Title:              task.Title,
				Description:        task.Description,
				ProjectID:          task.ProjectID,
				AssignedTo:         task.AssignedTo,
				CreatedBy:          task.CreatedBy,
				DueDate:            &next,
				Status:             model.StatusTodo,
				Priority:           task.Priority,
				RecurrenceType:     task.RecurrenceType,
				RecurrenceInterval: task.RecurrenceInterval,
				RecurrenceEndDate:  task.RecurrenceEndDate,
			}
			// Carry reminders over with their sent flags cleared.
			for _, r := range task.Reminders {
				successor.Reminders = append(successor.Reminders, model.Reminder{
					Time: r.Time,
					Type: r.Type,
				})
			}
			if err := s.tasks.Create(ctx, successor); err != nil {
				return nil, apperrors.Upstream("error creating next occurrence", err)
			}
			if spawned, err := s.reload(ctx, successor.ID); err == nil {
				s.notifier.Publish(notify.ProjectChannel(task.ProjectID), notify.EventTaskCreated, spawned)
			}
		}
	}

	view, err := s.reload(ctx, id)
	if err != nil {
		return nil, err
	}
	s.notifier.Publish(notify.ProjectChannel(task.ProjectID), notify.EventTaskUpdated, view)
	return view, nil
}

func (s *TaskService) reload(ctx context.Context, id uuid.UUID) (*TaskView, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil || task == nil {
		return nil, apperrors.Upstream("error loading task", err)
	}
	return taskView(task), nil
}

// loadTask resolves the task and its project; existence comes before any
// authorization decision.
func (s *TaskService) loadTask(ctx context.Context, id uuid.UUID) (*model.Task, *model.Project, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, nil, apperrors.Upstream("error fetching task", err)
	}
	if task == nil {
		return nil, nil, apperrors.NotFound("task not found")
	}

	project, err := s.projects.GetByID(ctx, task.ProjectID)
	if err != nil {
		return nil, nil, apperrors.Upstream("error fetching project", err)
	}
	if project == nil {
		return nil, nil, apperrors.NotFound("project not found")
	}
	return task, project, nil
}

func (s *TaskService) loadProject(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.Upstream("error fetching project", err)
	}
	if project == nil {
		return nil, apperrors.NotFound("project not found")
	}
	return project, nil
}
