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
	"go.uber.org/zap"
)

// MemberView pairs a display-safe user projection with a project-scoped role.
type MemberView struct {
	User model.PublicUser `json:"user"`
	Role string           `json:"role"`
}

// ProjectView is the canonical populated representation returned by every
// project mutation.
type ProjectView struct {
	ID          uuid.UUID        `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Owner       model.PublicUser `json:"owner"`
	Status      string           `json:"status"`
	Priority    string           `json:"priority"`
	Color       string           `json:"color,omitempty"`
	DueDate     *time.Time       `json:"dueDate,omitempty"`
	TeamMembers []MemberView     `json:"teamMembers"`
	CreatedAt   time.Time        `json:"createdAt"`
}

// MemberInput names a user and role for project creation.
type MemberInput struct {
	UserID uuid.UUID
	Role   string
}

// CreateProjectInput holds validated fields for a new project.
type CreateProjectInput struct {
	Title       string
	Description string
	Status      string
	Priority    string
	Color       string
	DueDate     *time.Time
	TeamMembers []MemberInput
}

// ProjectPatch carries partial-update fields; nil means "leave unchanged".
type ProjectPatch struct {
	Title       *string
	Description *string
	Status      *string
	Priority    *string
	Color       *string
	DueDate     *time.Time
}

type ProjectService struct {
	projects repository.ProjectRepositoryInterface
	users    repository.UserRepositoryInterface
	engine   *authz.Engine
	notifier notify.Notifier
}

func NewProjectService(
	projects repository.ProjectRepositoryInterface,
	users repository.UserRepositoryInterface,
	engine *authz.Engine,
	notifier notify.Notifier,
) *ProjectService {
	return &ProjectService{
		projects: projects,
		users:    users,
		engine:   engine,
		notifier: notifier,
	}
}

func projectView(p *model.Project) *ProjectView {
	members := make([]MemberView, len(p.Members))
	for i, m := range p.Members {
		members[i] = MemberView{User: m.User.Public(), Role: m.Role}
	}
	return &ProjectView{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Owner:       p.Owner.Public(),
		Status:      p.Status,
		Priority:    p.Priority,
		Color:       p.Color,
		DueDate:     p.DueDate,
		TeamMembers: members,
		CreatedAt:   p.CreatedAt,
	}
}

// List returns the projects the actor owns or belongs to.
func (s *ProjectService) List(ctx context.Context, actor *model.User) ([]ProjectView, error) {
	projects, err := s.projects.GetForUser(ctx, actor.ID)
	if err != nil {
		return nil, apperrors.Upstream("error fetching projects", err)
	}
	views := make([]ProjectView, len(projects))
	for i := range projects {
		views[i] = *projectView(&projects[i])
	}
	return views, nil
}

// Create makes a new project owned by the actor. Global admins only.
func (s *ProjectService) Create(ctx context.Context, actor *model.User, input CreateProjectInput) (*ProjectView, error) {
	if !s.engine.CanCreateProject(actor) {
		return nil, apperrors.Forbidden("only admins can create projects")
	}

	project := &model.Project{
		Title:       input.Title,
		Description: input.Description,
		OwnerID:     actor.ID,
		Status:      input.Status,
		Priority:    input.Priority,
		Color:       input.Color,
		DueDate:     input.DueDate,
	}
	if project.Status == "" {
		project.Status = "active"
	}
	if project.Priority == "" {
		project.Priority = model.PriorityMedium
	}
	for _, m := range input.TeamMembers {
		role := m.Role
		if role == "" {
			role = model.ProjectRoleMember
		}
		project.Members = append(project.Members, model.ProjectMember{UserID: m.UserID, Role: role})
	}

	if err := s.projects.Create(ctx, project); err != nil {
		return nil, apperrors.Upstream("error creating project", err)
	}

	created, err := s.projects.GetByID(ctx, project.ID)
	if err != nil || created == nil {
		return nil, apperrors.Upstream("error loading created project", err)
	}

	view := projectView(created)
	s.notifier.Publish(notify.GlobalChannel, notify.EventProjectCreated, view)
	return view, nil
}

// Get returns one project the actor can see.
func (s *ProjectService) Get(ctx context.Context, actor *model.User, id uuid.UUID) (*ProjectView, error) {
	project, err := s.loadProject(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.engine.CanViewProject(actor, project) {
		return nil, apperrors.Forbidden("not authorized to view this project")
	}
	return projectView(project), nil
}

// Update applies a partial patch. Owner or any team member may update.
func (s *ProjectService) Update(ctx context.Context, actor *model.User, id uuid.UUID, patch ProjectPatch) (*ProjectView, error) {
	project, err := s.loadProject(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.engine.CanUpdateProject(actor, project) {
		return nil, apperrors.Forbidden("not authorized to update this project")
	}

	if patch.Title != nil {
		project.Title = *patch.Title
	}
	if patch.Description != nil {
		project.Description = *patch.Description
	}
	if patch.Status != nil {
		project.Status = *patch.Status
	}
	if patch.Priority != nil {
		project.Priority = *patch.Priority
	}
	if patch.Color != nil {
		project.Color = *patch.Color
	}
	if patch.DueDate != nil {
		project.DueDate = patch.DueDate
	}

	if err := s.projects.Update(ctx, project); err != nil {
		return nil, apperrors.Upstream("error updating project", err)
	}

	view := projectView(project)
	s.notifier.Publish(notify.ProjectChannel(id), notify.EventProjectUpdated, view)
	return view, nil
}

// Delete removes the project and cascades to its tasks. Owner only.
func (s *ProjectService) Delete(ctx context.Context, actor *model.User, id uuid.UUID) error {
	project, err := s.loadProject(ctx, id)
	if err != nil {
		return err
	}
	if !s.engine.CanDeleteProject(actor, project) {
		return apperrors.Forbidden("not authorized to delete this project")
	}

	removed, err := s.projects.DeleteWithTasks(ctx, id)
	if err != nil {
		return apperrors.Upstream("error deleting project", err)
	}
	zap.L().Info("project deleted",
		zap.String("project_id", id.String()),
		zap.Int64("tasks_removed", removed))

	s.notifier.Publish(notify.ProjectChannel(id), notify.EventProjectDeleted, map[string]interface{}{
		"projectId": id,
	})
	return nil
}

// Invite adds a user to the project's team by email.
func (s *ProjectService) Invite(ctx context.Context, actor *model.User, projectID uuid.UUID, email, role string) (*MemberView, error) {
	project, err := s.loadProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !s.engine.CanManageMembers(actor, project) {
		return nil, apperrors.Forbidden("admin access only")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, apperrors.Upstream("error finding user", err)
	}
	if user == nil {
		return nil, apperrors.NotFound("user not found")
	}
	if project.Member(user.ID) != nil {
		return nil, apperrors.Validation("user already a team member")
	}

	if role == "" {
		role = model.ProjectRoleMember
	}
	member := &model.ProjectMember{ProjectID: projectID, UserID: user.ID, Role: role}
	if err := s.projects.AddMember(ctx, member); err != nil {
		return nil, apperrors.Upstream("error inviting member", err)
	}

	view := &MemberView{User: user.Public(), Role: role}
	s.notifier.Publish(notify.ProjectChannel(projectID), notify.EventMemberAdded, view)
	return view, nil
}

// RemoveMember drops a user from the team.
func (s *ProjectService) RemoveMember(ctx context.Context, actor *model.User, projectID, userID uuid.UUID) error {
	project, err := s.loadProject(ctx, projectID)
	if err != nil {
		return err
	}
	if !s.engine.CanManageMembers(actor, project) {
		return apperrors.Forbidden("admin access only")
	}

	if err := s.projects.RemoveMember(ctx, projectID, userID); err != nil {
		return apperrors.Upstream("error removing member", err)
	}

	s.notifier.Publish(notify.ProjectChannel(projectID), notify.EventMemberRemoved, map[string]interface{}{
		"userId": userID,
	})
	return nil
}

// ChangeMemberRole switches a member between admin and member.
func (s *ProjectService) ChangeMemberRole(ctx context.Context, actor *model.User, projectID, userID uuid.UUID, role string) error {
	project, err := s.loadProject(ctx, projectID)
	if err != nil {
		return err
	}
	if !s.engine.CanManageMembers(actor, project) {
		return apperrors.Forbidden("admin access only")
	}
	if project.Member(userID) == nil {
		return apperrors.NotFound("member not found")
	}

	if err := s.projects.UpdateMemberRole(ctx, projectID, userID, role); err != nil {
		return apperrors.Upstream("error updating role", err)
	}

	s.notifier.Publish(notify.ProjectChannel(projectID), notify.EventMemberRoleUpdated, map[string]interface{}{
		"userId": userID,
		"role":   role,
	})
	return nil
}

// Team lists the project's members. Any member or the owner may look.
func (s *ProjectService) Team(ctx context.Context, actor *model.User, projectID uuid.UUID) ([]MemberView, error) {
	project, err := s.loadProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !s.engine.CanViewProject(actor, project) {
		return nil, apperrors.Forbidden("not authorized to view this project")
	}

	members := make([]MemberView, len(project.Members))
	for i, m := range project.Members {
		members[i] = MemberView{User: m.User.Public(), Role: m.Role}
	}
	return members, nil
}

// loadProject resolves existence before any authorization check.
func (s *ProjectService) loadProject(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.Upstream("error fetching project", err)
	}
	if project == nil {
		return nil, apperrors.NotFound("project not found")
	}
	return project, nil
}
