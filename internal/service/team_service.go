package service

import (
	"context"
	"strings"

	"teamtrack/internal/apperrors"
	"teamtrack/internal/model"
	"teamtrack/internal/repository"

	"github.com/google/uuid"
)

// TeamService manages the flat roster. It is independent of per-project
// membership and open to any authenticated user.
type TeamService struct {
	team repository.TeamRepositoryInterface
}

func NewTeamService(team repository.TeamRepositoryInterface) *TeamService {
	return &TeamService{team: team}
}

func (s *TeamService) List(ctx context.Context) ([]model.TeamMember, error) {
	members, err := s.team.GetAll(ctx)
	if err != nil {
		return nil, apperrors.Upstream("error fetching team members", err)
	}
	return members, nil
}

func (s *TeamService) Add(ctx context.Context, name, email, role, avatar string) (*model.TeamMember, error) {
	email = strings.ToLower(email)

	existing, err := s.team.FindByEmail(ctx, email)
	if err != nil {
		return nil, apperrors.Upstream("error adding team member", err)
	}
	if existing != nil {
		return nil, apperrors.Conflict("a member with this email already exists")
	}

	if role == "" {
		role = model.TeamRoleMember
	}
	member := &model.TeamMember{Name: name, Email: email, Role: role, Avatar: avatar}
	if err := s.team.Create(ctx, member); err != nil {
		if err == repository.ErrDuplicateEmail {
			return nil, apperrors.Conflict("a member with this email already exists")
		}
		return nil, apperrors.Upstream("error adding team member", err)
	}
	return member, nil
}

func (s *TeamService) UpdateRole(ctx context.Context, id uuid.UUID, role string) (*model.TeamMember, error) {
	if role != model.TeamRoleMember && role != model.TeamRoleAdmin {
		return nil, apperrors.Validation("invalid role")
	}

	member, err := s.team.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.Upstream("error updating team member", err)
	}
	if member == nil {
		return nil, apperrors.NotFound("team member not found")
	}

	member.Role = role
	if err := s.team.Update(ctx, member); err != nil {
		return nil, apperrors.Upstream("error updating team member", err)
	}
	return member, nil
}

func (s *TeamService) Remove(ctx context.Context, id uuid.UUID) error {
	member, err := s.team.GetByID(ctx, id)
	if err != nil {
		return apperrors.Upstream("error deleting team member", err)
	}
	if member == nil {
		return apperrors.NotFound("team member not found")
	}
	if err := s.team.Delete(ctx, id); err != nil {
		return apperrors.Upstream("error deleting team member", err)
	}
	return nil
}
