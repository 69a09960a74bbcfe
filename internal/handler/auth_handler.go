package handler

import (
	"encoding/json"
	"net/http"
	"net/url"

	"teamtrack/internal/apperrors"
	"teamtrack/internal/auth"
	"teamtrack/internal/middleware"
	"teamtrack/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AuthHandler struct {
	authService  *service.AuthService
	google       *auth.GoogleProvider
	clientOrigin string
}

func NewAuthHandler(authService *service.AuthService, google *auth.GoogleProvider, clientOrigin string) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		google:       google,
		clientOrigin: clientOrigin,
	}
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=2"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UpdateProfileRequest struct {
	Name  string `json:"name"`
	Bio   string `json:"bio"`
	Photo string `json:"photo"`
}

type ChangeRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=user admin"`
}

// Register creates a local account.
// @Summary Register a new user
// @Tags Auth
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid input"})
		return
	}

	session, err := h.authService.Register(c.Request.Context(), req.Email, req.Password, req.Username)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Registration successful",
		"user":    session.User,
		"token":   session.Token,
	})
}

// Login authenticates local credentials.
// @Summary Log in with email and password
// @Tags Auth
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid input"})
		return
	}

	session, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Login successful",
		"user":    session.User,
		"token":   session.Token,
	})
}

// LoginSuccess validates the presented bearer token.
// @Summary Check authentication status
// @Security BearerAuth
// @Tags Auth
// @Router /auth/login/success [get]
func (h *AuthHandler) LoginSuccess(c *gin.Context) {
	token := bearerToken(c)
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "No token provided"})
		return
	}

	user, err := h.authService.Validate(c.Request.Context(), token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not found or token invalid"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Successfully authenticated",
		"user":    h.authService.Profile(user),
	})
}

// Logout revokes the presented token only.
// @Summary Log out the current session
// @Tags Auth
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	token := bearerToken(c)
	if token != "" {
		if err := h.authService.Logout(c.Request.Context(), token); err != nil {
			respondAuthError(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Successfully logged out"})
}

// GoogleLogin redirects to the Google consent screen.
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	state := uuid.NewString()
	c.SetCookie("oauth_state", state, 300, "/", "", false, true)
	c.Redirect(http.StatusTemporaryRedirect, h.google.AuthURL(state))
}

// GoogleCallback exchanges the code, signs the user in and redirects back to
// the client with the token.
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	state, err := c.Cookie("oauth_state")
	if err != nil || state == "" || c.Query("state") != state {
		c.Redirect(http.StatusTemporaryRedirect, h.clientOrigin+"/login?error="+url.QueryEscape("Authentication failed"))
		return
	}

	code := c.Query("code")
	if code == "" {
		c.Redirect(http.StatusTemporaryRedirect, h.clientOrigin+"/login?error="+url.QueryEscape("Authentication failed"))
		return
	}

	profile, err := h.google.Exchange(c.Request.Context(), code)
	if err != nil {
		c.Redirect(http.StatusTemporaryRedirect, h.clientOrigin+"/login?error="+url.QueryEscape(err.Error()))
		return
	}

	session, err := h.authService.LoginWithGoogle(c.Request.Context(), profile)
	if err != nil {
		c.Redirect(http.StatusTemporaryRedirect, h.clientOrigin+"/login?error="+url.QueryEscape("Authentication failed"))
		return
	}

	userJSON, _ := json.Marshal(session.User)
	redirect := h.clientOrigin + "/oauth-callback?token=" + url.QueryEscape(session.Token) +
		"&user=" + url.QueryEscape(string(userJSON))
	c.Redirect(http.StatusTemporaryRedirect, redirect)
}

// UpdateProfile changes the caller's name, bio and photo url.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid input"})
		return
	}

	profile, err := h.authService.UpdateProfile(c.Request.Context(), user, req.Name, req.Bio, req.Photo)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"name":  profile.DisplayName,
		"bio":   profile.Bio,
		"photo": profile.Image,
	})
}

// ChangeRole lets a user switch their own global role.
func (h *AuthHandler) ChangeRole(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid role"})
		return
	}

	if err := h.authService.ChangeRole(c.Request.Context(), user, req.Role); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Role updated", "role": req.Role})
}

// AdminListUsers returns all accounts without credential fields.
func (h *AuthHandler) AdminListUsers(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	users, err := h.authService.ListUsers(c.Request.Context(), user)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// AdminDeleteUser removes an account.
func (h *AuthHandler) AdminDeleteUser(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid user ID format"})
		return
	}
	if err := h.authService.DeleteUser(c.Request.Context(), user, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}

// AdminListTasks returns every task in the system.
func (h *AuthHandler) AdminListTasks(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	tasks, err := h.authService.AdminListTasks(c.Request.Context(), user)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// AdminDeleteTask removes any task.
func (h *AuthHandler) AdminDeleteTask(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid task ID format"})
		return
	}
	if err := h.authService.AdminDeleteTask(c.Request.Context(), user, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task deleted"})
}

// bearerToken extracts the raw token from the Authorization header, or falls
// back to the one the auth middleware already verified.
func bearerToken(c *gin.Context) string {
	if token := c.GetString(middleware.TokenKey); token != "" {
		return token
	}
	header := c.GetHeader("Authorization")
	const prefix = "Bearer "
	if len(header) > len(prefix) && header[:len(prefix)] == prefix {
		return header[len(prefix):]
	}
	return ""
}

// respondAuthError keeps the auth surface's {success, message} envelope.
func respondAuthError(c *gin.Context, err error) {
	appErr := apperrors.From(err)
	c.JSON(appErr.HTTPStatus(), gin.H{"success": false, "message": appErr.Message})
}
