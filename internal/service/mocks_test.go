package service_test

import (
	"context"
	"sync"
	"time"

	"teamtrack/internal/model"
	"teamtrack/internal/notify"
	"teamtrack/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockProjectRepository struct {
	mock.Mock
}

var _ repository.ProjectRepositoryInterface = (*MockProjectRepository)(nil)

func (m *MockProjectRepository) Create(ctx context.Context, project *model.Project) error {
	args := m.Called(ctx, project)
	return args.Error(0)
}

func (m *MockProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	args := m.Called(ctx, id)
	if p := args.Get(0); p != nil {
		return p.(*model.Project), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProjectRepository) GetForUser(ctx context.Context, userID uuid.UUID) ([]model.Project, error) {
	args := m.Called(ctx, userID)
	if p := args.Get(0); p != nil {
		return p.([]model.Project), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProjectRepository) Update(ctx context.Context, project *model.Project) error {
	args := m.Called(ctx, project)
	return args.Error(0)
}

func (m *MockProjectRepository) DeleteWithTasks(ctx context.Context, id uuid.UUID) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProjectRepository) AddMember(ctx context.Context, member *model.ProjectMember) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *MockProjectRepository) RemoveMember(ctx context.Context, projectID, userID uuid.UUID) error {
	args := m.Called(ctx, projectID, userID)
	return args.Error(0)
}

func (m *MockProjectRepository) UpdateMemberRole(ctx context.Context, projectID, userID uuid.UUID, role string) error {
	args := m.Called(ctx, projectID, userID, role)
	return args.Error(0)
}

type MockTaskRepository struct {
	mock.Mock
}

var _ repository.TaskRepositoryInterface = (*MockTaskRepository)(nil)

func (m *MockTaskRepository) Create(ctx context.Context, task *model.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockTaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	args := m.Called(ctx, id)
	if t := args.Get(0); t != nil {
		return t.(*model.Task), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTaskRepository) GetByProject(ctx context.Context, projectID uuid.UUID) ([]model.Task, error) {
	args := m.Called(ctx, projectID)
	if t := args.Get(0); t != nil {
		return t.([]model.Task), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTaskRepository) GetAssignedTo(ctx context.Context, userID uuid.UUID) ([]model.Task, error) {
	args := m.Called(ctx, userID)
	if t := args.Get(0); t != nil {
		return t.([]model.Task), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTaskRepository) GetAll(ctx context.Context) ([]model.Task, error) {
	args := m.Called(ctx)
	if t := args.Get(0); t != nil {
		return t.([]model.Task), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTaskRepository) Update(ctx context.Context, task *model.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockTaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTaskRepository) Stats(ctx context.Context, userID uuid.UUID, now time.Time) (*repository.TaskStats, error) {
	args := m.Called(ctx, userID, now)
	if s := args.Get(0); s != nil {
		return s.(*repository.TaskStats), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTaskRepository) Suggestions(ctx context.Context, userID uuid.UUID, limit int) ([]model.Task, error) {
	args := m.Called(ctx, userID, limit)
	if t := args.Get(0); t != nil {
		return t.([]model.Task), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTaskRepository) AddReminder(ctx context.Context, reminder *model.Reminder) error {
	args := m.Called(ctx, reminder)
	return args.Error(0)
}

func (m *MockTaskRepository) RemoveReminder(ctx context.Context, taskID, reminderID uuid.UUID) error {
	args := m.Called(ctx, taskID, reminderID)
	return args.Error(0)
}

func (m *MockTaskRepository) AddAttachment(ctx context.Context, attachment *model.Attachment) error {
	args := m.Called(ctx, attachment)
	return args.Error(0)
}

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

// recordingNotifier collects published events for assertions.
type recordingNotifier struct {
	mu     sync.Mutex
	events []notify.Event
}

var _ notify.Notifier = (*recordingNotifier)(nil)

func (n *recordingNotifier) Publish(channel, event string, payload interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, notify.Event{Channel: channel, Name: event, Payload: payload})
}

func (n *recordingNotifier) names() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	names := make([]string, len(n.events))
	for i, e := range n.events {
		names[i] = e.Name
	}
	return names
}
