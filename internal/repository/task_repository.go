package repository

import (
	"context"
	"errors"
	"time"

	"teamtrack/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TaskRepository struct {
	db *gorm.DB
}

// TaskStats is the dashboard counters block for one user.
type TaskStats struct {
	TotalTasks     int64 `json:"totalTasks"`
	OverdueTasks   int64 `json:"overdueTasks"`
	TodayTasks     int64 `json:"todayTasks"`
	CompletedTasks int64 `json:"completedTasks"`
}

type TaskRepositoryInterface interface {
	Create(ctx context.Context, task *model.Task) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Task, error)
	GetByProject(ctx context.Context, projectID uuid.UUID) ([]model.Task, error)
	GetAssignedTo(ctx context.Context, userID uuid.UUID) ([]model.Task, error)
	GetAll(ctx context.Context) ([]model.Task, error)
	Update(ctx context.Context, task *model.Task) error
	Delete(ctx context.Context, id uuid.UUID) error
	Stats(ctx context.Context, userID uuid.UUID, now time.Time) (*TaskStats, error)
	Suggestions(ctx context.Context, userID uuid.UUID, limit int) ([]model.Task, error)
	AddReminder(ctx context.Context, reminder *model.Reminder) error
	RemoveReminder(ctx context.Context, taskID, reminderID uuid.UUID) error
	AddAttachment(ctx context.Context, attachment *model.Attachment) error
}

var _ TaskRepositoryInterface = (*TaskRepository)(nil)

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) withAssociations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Assignee").
		Preload("Creator").
		Preload("Project").
		Preload("Reminders").
		Preload("Attachments")
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *TaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	var task model.Task
	err := r.withAssociations(ctx).Where("id = ?", id).First(&task).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *TaskRepository) GetByProject(ctx context.Context, projectID uuid.UUID) ([]model.Task, error) {
	var tasks []model.Task
	err := r.withAssociations(ctx).
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&tasks).Error
	return tasks, err
}

// GetAssignedTo returns the user's tasks ordered by due date, soonest first.
func (r *TaskRepository) GetAssignedTo(ctx context.Context, userID uuid.UUID) ([]model.Task, error) {
	var tasks []model.Task
	err := r.withAssociations(ctx).
		Where("assigned_to = ?", userID).
		Order("due_date ASC").
		Find(&tasks).Error
	return tasks, err
}

func (r *TaskRepository) GetAll(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	err := r.withAssociations(ctx).Order("created_at DESC").Find(&tasks).Error
	return tasks, err
}

func (r *TaskRepository) Update(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).
		Omit("Assignee", "Creator", "Project", "Reminders", "Attachments").
		Save(task).Error
}

func (r *TaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Task{}, "id = ?", id).Error
}

func (r *TaskRepository) Stats(ctx context.Context, userID uuid.UUID, now time.Time) (*TaskStats, error) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	tomorrow := today.Add(24 * time.Hour)

	stats := &TaskStats{}
	db := r.db.WithContext(ctx).Model(&model.Task{})

	if err := db.Session(&gorm.Session{}).
		Where("assigned_to = ? OR created_by = ?", userID, userID).
		Count(&stats.TotalTasks).Error; err != nil {
		return nil, err
	}
	if err := db.Session(&gorm.Session{}).
		Where("assigned_to = ? AND due_date < ? AND status <> ?", userID, today, model.StatusCompleted).
		Count(&stats.OverdueTasks).Error; err != nil {
		return nil, err
	}
	if err := db.Session(&gorm.Session{}).
		Where("assigned_to = ? AND due_date >= ? AND due_date < ? AND status <> ?",
			userID, today, tomorrow, model.StatusCompleted).
		Count(&stats.TodayTasks).Error; err != nil {
		return nil, err
	}
	if err := db.Session(&gorm.Session{}).
		Where("assigned_to = ? AND status = ?", userID, model.StatusCompleted).
		Count(&stats.CompletedTasks).Error; err != nil {
		return nil, err
	}
	return stats, nil
}

// Suggestions finds tasks whose titles resemble the user's recent ones.
func (r *TaskRepository) Suggestions(ctx context.Context, userID uuid.UUID, limit int) ([]model.Task, error) {
	var recent []model.Task
	err := r.db.WithContext(ctx).
		Where("assigned_to = ?", userID).
		Order("created_at DESC").
		Limit(10).
		Find(&recent).Error
	if err != nil {
		return nil, err
	}
	if len(recent) == 0 {
		return []model.Task{}, nil
	}

	recentIDs := make([]uuid.UUID, len(recent))
	titleMatch := r.db.Where("title ILIKE ?", "%"+recent[0].Title+"%")
	for i, t := range recent {
		recentIDs[i] = t.ID
		if i > 0 {
			titleMatch = titleMatch.Or("title ILIKE ?", "%"+t.Title+"%")
		}
	}

	var suggestions []model.Task
	err = r.withAssociations(ctx).
		Where("id NOT IN (?)", recentIDs).
		Where(titleMatch).
		Limit(limit).
		Find(&suggestions).Error
	return suggestions, err
}

func (r *TaskRepository) AddReminder(ctx context.Context, reminder *model.Reminder) error {
	return r.db.WithContext(ctx).Create(reminder).Error
}

// RemoveReminder deletes the entry if present. Unknown ids are not an error;
// the caller returns the task unchanged.
func (r *TaskRepository) RemoveReminder(ctx context.Context, taskID, reminderID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("task_id = ? AND id = ?", taskID, reminderID).
		Delete(&model.Reminder{}).Error
}

func (r *TaskRepository) AddAttachment(ctx context.Context, attachment *model.Attachment) error {
	return r.db.WithContext(ctx).Create(attachment).Error
}
