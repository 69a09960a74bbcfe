package repository

import (
	"context"
	"errors"

	"teamtrack/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TeamRepository stores the flat roster, unrelated to project membership.
type TeamRepository struct {
	db *gorm.DB
}

type TeamRepositoryInterface interface {
	Create(ctx context.Context, member *model.TeamMember) error
	GetAll(ctx context.Context) ([]model.TeamMember, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.TeamMember, error)
	FindByEmail(ctx context.Context, email string) (*model.TeamMember, error)
	Update(ctx context.Context, member *model.TeamMember) error
	Delete(ctx context.Context, id uuid.UUID) error
}

var _ TeamRepositoryInterface = (*TeamRepository)(nil)

func NewTeamRepository(db *gorm.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) Create(ctx context.Context, member *model.TeamMember) error {
	if err := r.db.WithContext(ctx).Create(member).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (r *TeamRepository) GetAll(ctx context.Context) ([]model.TeamMember, error) {
	var members []model.TeamMember
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&members).Error
	return members, err
}

func (r *TeamRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.TeamMember, error) {
	var member model.TeamMember
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &member, err
}

func (r *TeamRepository) FindByEmail(ctx context.Context, email string) (*model.TeamMember, error) {
	var member model.TeamMember
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &member, err
}

func (r *TeamRepository) Update(ctx context.Context, member *model.TeamMember) error {
	return r.db.WithContext(ctx).Save(member).Error
}

func (r *TeamRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.TeamMember{}, "id = ?", id).Error
}
