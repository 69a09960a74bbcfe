package handler_test

import (
	"context"
	"time"

	"teamtrack/internal/model"
	"teamtrack/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockUserRepository struct {
	mock.Mock
}

var _ repository.UserRepositoryInterface = (*MockUserRepository)(nil)

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if u := args.Get(0); u != nil {
		return u.(*model.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) FindByGoogleID(ctx context.Context, googleID string) (*model.User, error) {
	args := m.Called(ctx, googleID)
	if u := args.Get(0); u != nil {
		return u.(*model.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if u := args.Get(0); u != nil {
		return u.(*model.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) GetAll(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if u := args.Get(0); u != nil {
		return u.([]model.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockTokenRepository struct {
	mock.Mock
}

var _ repository.TokenRepositoryInterface = (*MockTokenRepository)(nil)

func (m *MockTokenRepository) Add(ctx context.Context, userID uuid.UUID, token string) error {
	args := m.Called(ctx, userID, token)
	return args.Error(0)
}

func (m *MockTokenRepository) Find(ctx context.Context, userID uuid.UUID, token string) (*model.AuthToken, error) {
	args := m.Called(ctx, userID, token)
	if t := args.Get(0); t != nil {
		return t.(*model.AuthToken), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTokenRepository) Remove(ctx context.Context, userID uuid.UUID, token string) error {
	args := m.Called(ctx, userID, token)
	return args.Error(0)
}

func (m *MockTokenRepository) RemoveAll(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockTokenRepository) PruneExpired(ctx context.Context, userID uuid.UUID, now time.Time) error {
	args := m.Called(ctx, userID, now)
	return args.Error(0)
}

type MockTeamRepository struct {
	mock.Mock
}

var _ repository.TeamRepositoryInterface = (*MockTeamRepository)(nil)

func (m *MockTeamRepository) Create(ctx context.Context, member *model.TeamMember) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *MockTeamRepository) GetAll(ctx context.Context) ([]model.TeamMember, error) {
	args := m.Called(ctx)
	if t := args.Get(0); t != nil {
		return t.([]model.TeamMember), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTeamRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.TeamMember, error) {
	args := m.Called(ctx, id)
	if t := args.Get(0); t != nil {
		return t.(*model.TeamMember), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTeamRepository) FindByEmail(ctx context.Context, email string) (*model.TeamMember, error) {
	args := m.Called(ctx, email)
	if t := args.Get(0); t != nil {
		return t.(*model.TeamMember), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTeamRepository) Update(ctx context.Context, member *model.TeamMember) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *MockTeamRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
