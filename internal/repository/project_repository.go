package repository

import (
	"context"
	"errors"

	"teamtrack/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProjectRepository struct {
	db *gorm.DB
}

type ProjectRepositoryInterface interface {
	Create(ctx context.Context, project *model.Project) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Project, error)
	GetForUser(ctx context.Context, userID uuid.UUID) ([]model.Project, error)
	Update(ctx context.Context, project *model.Project) error
	DeleteWithTasks(ctx context.Context, id uuid.UUID) (int64, error)
	AddMember(ctx context.Context, member *model.ProjectMember) error
	RemoveMember(ctx context.Context, projectID, userID uuid.UUID) error
	UpdateMemberRole(ctx context.Context, projectID, userID uuid.UUID, role string) error
}

var _ ProjectRepositoryInterface = (*ProjectRepository)(nil)

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) Create(ctx context.Context, project *model.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

// GetByID loads the project with owner and members populated.
func (r *ProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	var project model.Project
	err := r.db.WithContext(ctx).
		Preload("Owner").
		Preload("Members.User").
		Where("id = ?", id).
		First(&project).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// GetForUser returns projects the user owns or belongs to, newest first.
func (r *ProjectRepository) GetForUser(ctx context.Context, userID uuid.UUID) ([]model.Project, error) {
	var projects []model.Project
	err := r.db.WithContext(ctx).
		Preload("Owner").
		Preload("Members.User").
		Where("owner_id = ? OR id IN (?)", userID,
			r.db.Model(&model.ProjectMember{}).Select("project_id").Where("user_id = ?", userID)).
		Order("created_at DESC").
		Find(&projects).Error
	return projects, err
}

func (r *ProjectRepository) Update(ctx context.Context, project *model.Project) error {
	return r.db.WithContext(ctx).Omit("Owner", "Members").Save(project).Error
}

// DeleteWithTasks removes the project and every task referencing it in one
// transaction. Returns the number of tasks removed.
func (r *ProjectRepository) DeleteWithTasks(ctx context.Context, id uuid.UUID) (int64, error) {
	var removed int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("project_id = ?", id).Delete(&model.Task{})
		if res.Error != nil {
			return res.Error
		}
		removed = res.RowsAffected

		if err := tx.Where("project_id = ?", id).Delete(&model.ProjectMember{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Project{}, "id = ?", id).Error
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

func (r *ProjectRepository) AddMember(ctx context.Context, member *model.ProjectMember) error {
	return r.db.WithContext(ctx).Create(member).Error
}

func (r *ProjectRepository) RemoveMember(ctx context.Context, projectID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Delete(&model.ProjectMember{}).Error
}

func (r *ProjectRepository) UpdateMemberRole(ctx context.Context, projectID, userID uuid.UUID, role string) error {
	return r.db.WithContext(ctx).
		Model(&model.ProjectMember{}).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Update("role", role).Error
}
