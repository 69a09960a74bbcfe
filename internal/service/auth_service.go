package service

import (
	"context"
	"strings"
	"time"

	"teamtrack/internal/apperrors"
	"teamtrack/internal/auth"
	"teamtrack/internal/model"
	"teamtrack/internal/repository"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"
)

// UserProfile is the full self-view returned from auth endpoints. It exposes
// more than PublicUser but still no credential or token fields.
type UserProfile struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	Image       string    `json:"image,omitempty"`
	Bio         string    `json:"bio,omitempty"`
	Role        string    `json:"role"`
}

func userProfile(u *model.User) *UserProfile {
	return &UserProfile{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Image:       u.Image,
		Bio:         u.Bio,
		Role:        u.Role,
	}
}

// Session is the result of a successful register or login.
type Session struct {
	User  *UserProfile
	Token string
}

type AuthService struct {
	users  repository.UserRepositoryInterface
	tokens repository.TokenRepositoryInterface
	tasks  repository.TaskRepositoryInterface
	jwt    *auth.JWTService
}

func NewAuthService(
	users repository.UserRepositoryInterface,
	tokens repository.TokenRepositoryInterface,
	tasks repository.TaskRepositoryInterface,
	jwt *auth.JWTService,
) *AuthService {
	return &AuthService{users: users, tokens: tokens, tasks: tasks, jwt: jwt}
}

// Register creates a local-credential user and issues a first token.
func (s *AuthService) Register(ctx context.Context, email, password, displayName string) (*Session, error) {
	email = strings.ToLower(email)

	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, apperrors.Upstream("error during registration", err)
	}
	if existing != nil {
		return nil, apperrors.Conflict("user already exists")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, apperrors.Upstream("error during registration", err)
	}

	if displayName == "" {
		displayName = strings.SplitN(email, "@", 2)[0]
	}
	user := &model.User{
		Email:          email,
		HashedPassword: hash,
		DisplayName:    displayName,
		Role:           model.GlobalRoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if err == repository.ErrDuplicateEmail {
			return nil, apperrors.Conflict("user already exists")
		}
		return nil, apperrors.Upstream("error during registration", err)
	}

	return s.issueSession(ctx, user)
}

// Login checks local credentials and issues a token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	email = strings.ToLower(email)

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, apperrors.Upstream("error during login", err)
	}
	if user == nil || user.HashedPassword == "" || !auth.CheckPassword(password, user.HashedPassword) {
		return nil, apperrors.Unauthenticated("invalid login credentials")
	}

	return s.issueSession(ctx, user)
}

// LoginWithGoogle upserts the user from a Google profile and issues a token.
// A Google account may have no local password.
func (s *AuthService) LoginWithGoogle(ctx context.Context, profile *auth.GoogleProfile) (*Session, error) {
	user, err := s.users.FindByGoogleID(ctx, profile.ID)
	if err != nil {
		return nil, apperrors.Upstream("error during login", err)
	}

	if user == nil {
		email := strings.ToLower(profile.Email)
		// Link an existing local account by email before creating a new one.
		user, err = s.users.FindByEmail(ctx, email)
		if err != nil {
			return nil, apperrors.Upstream("error during login", err)
		}
		if user != nil {
			googleID := profile.ID
			user.GoogleID = &googleID
			if user.Image == "" {
				user.Image = profile.Picture
			}
			if err := s.users.Update(ctx, user); err != nil {
				return nil, apperrors.Upstream("error during login", err)
			}
		} else {
			googleID := profile.ID
			displayName := profile.Name
			if displayName == "" {
				displayName = strings.SplitN(email, "@", 2)[0]
			}
			user = &model.User{
				Email:       email,
				GoogleID:    &googleID,
				DisplayName: displayName,
				Image:       profile.Picture,
				Role:        model.GlobalRoleUser,
			}
			if err := s.users.Create(ctx, user); err != nil {
				return nil, apperrors.Upstream("error during login", err)
			}
		}
	}

	return s.issueSession(ctx, user)
}

// Validate resolves a bearer token to its user. The token must decode, belong
// to the user's active list and sit inside the retention window.
func (s *AuthService) Validate(ctx context.Context, token string) (*model.User, error) {
	userID, err := s.jwt.ParseToken(token)
	if err != nil {
		return nil, apperrors.Unauthenticated("invalid token")
	}

	entry, err := s.tokens.Find(ctx, userID, token)
	if err != nil {
		return nil, apperrors.Upstream("error validating token", err)
	}
	if entry == nil || entry.Expired(time.Now()) {
		return nil, apperrors.Unauthenticated("user not found or token invalid")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, apperrors.Upstream("error validating token", err)
	}
	if user == nil {
		return nil, apperrors.Unauthenticated("user not found or token invalid")
	}
	return user, nil
}

// Logout revokes only the presented token; other sessions stay valid.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	userID, err := s.jwt.ParseToken(token)
	if err != nil {
		// An undecodable token has nothing to revoke.
		return nil
	}
	if err := s.tokens.Remove(ctx, userID, token); err != nil {
		return apperrors.Upstream("error logging out", err)
	}
	return nil
}

// Profile returns the caller's own projection.
func (s *AuthService) Profile(user *model.User) *UserProfile {
	return userProfile(user)
}

// UpdateProfile changes display name, bio and image. Empty fields are left
// untouched.
func (s *AuthService) UpdateProfile(ctx context.Context, user *model.User, displayName, bio, image string) (*UserProfile, error) {
	if displayName != "" {
		user.DisplayName = displayName
	}
	if bio != "" {
		user.Bio = bio
	}
	if image != "" {
		user.Image = image
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.Upstream("failed to update profile", err)
	}
	return userProfile(user), nil
}

// ChangeRole switches the caller's own global role.
func (s *AuthService) ChangeRole(ctx context.Context, user *model.User, role string) error {
	if role != model.GlobalRoleUser && role != model.GlobalRoleAdmin {
		return apperrors.Validation("invalid role")
	}
	user.Role = role
	if err := s.users.Update(ctx, user); err != nil {
		return apperrors.Upstream("failed to update role", err)
	}
	return nil
}

// ListUsers returns every account without credential fields. Admin only.
func (s *AuthService) ListUsers(ctx context.Context, actor *model.User) ([]UserProfile, error) {
	if actor.Role != model.GlobalRoleAdmin {
		return nil, apperrors.Forbidden("admin access only")
	}
	users, err := s.users.GetAll(ctx)
	if err != nil {
		return nil, apperrors.Upstream("failed to fetch users", err)
	}
	profiles := make([]UserProfile, len(users))
	for i := range users {
		profiles[i] = *userProfile(&users[i])
	}
	return profiles, nil
}

// DeleteUser removes an account. Admin only. Cleanup steps are attempted
// independently and reported together.
func (s *AuthService) DeleteUser(ctx context.Context, actor *model.User, id uuid.UUID) error {
	if actor.Role != model.GlobalRoleAdmin {
		return apperrors.Forbidden("admin access only")
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return apperrors.Upstream("failed to delete user", err)
	}
	if user == nil {
		return apperrors.NotFound("user not found")
	}

	var result *multierror.Error
	if err := s.tokens.RemoveAll(ctx, id); err != nil {
		result = multierror.Append(result, err)
	}
	if err := s.users.Delete(ctx, id); err != nil {
		result = multierror.Append(result, err)
	}
	if err := result.ErrorOrNil(); err != nil {
		zap.L().Error("user deletion incomplete", zap.String("user_id", id.String()), zap.Error(err))
		return apperrors.Upstream("failed to delete user", err)
	}
	return nil
}

// AdminListTasks returns every task. Admin only.
func (s *AuthService) AdminListTasks(ctx context.Context, actor *model.User) ([]TaskView, error) {
	if actor.Role != model.GlobalRoleAdmin {
		return nil, apperrors.Forbidden("admin access only")
	}
	tasks, err := s.tasks.GetAll(ctx)
	if err != nil {
		return nil, apperrors.Upstream("failed to fetch tasks", err)
	}
	return taskViews(tasks), nil
}

// AdminDeleteTask removes any task, bypassing the creator rule. Admin only.
func (s *AuthService) AdminDeleteTask(ctx context.Context, actor *model.User, id uuid.UUID) error {
	if actor.Role != model.GlobalRoleAdmin {
		return apperrors.Forbidden("admin access only")
	}
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return apperrors.Upstream("failed to delete task", err)
	}
	if task == nil {
		return apperrors.NotFound("task not found")
	}
	if err := s.tasks.Delete(ctx, id); err != nil {
		return apperrors.Upstream("failed to delete task", err)
	}
	return nil
}

// issueSession prunes expired token entries, signs a fresh token and stores
// it on the user's active list.
func (s *AuthService) issueSession(ctx context.Context, user *model.User) (*Session, error) {
	if err := s.tokens.PruneExpired(ctx, user.ID, time.Now()); err != nil {
		zap.L().Warn("failed to prune expired tokens", zap.Error(err))
	}

	token, err := s.jwt.GenerateToken(user.ID)
	if err != nil {
		return nil, apperrors.Upstream("failed to generate authentication token", err)
	}
	if err := s.tokens.Add(ctx, user.ID, token); err != nil {
		return nil, apperrors.Upstream("failed to generate authentication token", err)
	}

	return &Session{User: userProfile(user), Token: token}, nil
}
