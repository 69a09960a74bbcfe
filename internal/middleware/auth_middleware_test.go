package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"teamtrack/internal/auth"
	"teamtrack/internal/middleware"
	"teamtrack/internal/model"
	"teamtrack/internal/repository"
	"teamtrack/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// fakeUserRepo serves a single user; unused methods panic via the embedded nil
// interface.
type fakeUserRepo struct {
	repository.UserRepositoryInterface
	user *model.User
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	if f.user != nil && f.user.ID == id {
		return f.user, nil
	}
	return nil, nil
}

// fakeTokenRepo treats every token in entries as active.
type fakeTokenRepo struct {
	repository.TokenRepositoryInterface
	entries map[string]*model.AuthToken
}

func (f *fakeTokenRepo) Find(ctx context.Context, userID uuid.UUID, token string) (*model.AuthToken, error) {
	return f.entries[token], nil
}

func setupRouter(authService *service.AuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	protected := r.Group("/protected")
	protected.Use(middleware.AuthMiddleware(authService))
	protected.GET("/resource", func(c *gin.Context) {
		userID, exists := c.Get(middleware.UserIDKey)
		if !exists {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "User ID not found in context"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message": "Access granted",
			"user_id": userID,
		})
	})

	return r
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	// Arrange
	jwtService := auth.NewJWTService("test-secret-key")
	user := &model.User{ID: uuid.New(), Email: "alice@example.com", Role: model.GlobalRoleUser}
	token, err := jwtService.GenerateToken(user.ID)
	assert.NoError(t, err)

	authService := service.NewAuthService(
		&fakeUserRepo{user: user},
		&fakeTokenRepo{entries: map[string]*model.AuthToken{
			token: {UserID: user.ID, Token: token, CreatedAt: time.Now()},
		}},
		nil,
		jwtService,
	)
	router := setupRouter(authService)

	req, _ := http.NewRequest("GET", "/protected/resource", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "Access granted")
	assert.Contains(t, resp.Body.String(), user.ID.String())
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	// Arrange
	authService := service.NewAuthService(
		&fakeUserRepo{},
		&fakeTokenRepo{entries: map[string]*model.AuthToken{}},
		nil,
		auth.NewJWTService("test-secret-key"),
	)
	router := setupRouter(authService)

	req, _ := http.NewRequest("GET", "/protected/resource", nil)

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestAuthMiddleware_MalformedHeader(t *testing.T) {
	// Arrange
	authService := service.NewAuthService(
		&fakeUserRepo{},
		&fakeTokenRepo{entries: map[string]*model.AuthToken{}},
		nil,
		auth.NewJWTService("test-secret-key"),
	)
	router := setupRouter(authService)

	req, _ := http.NewRequest("GET", "/protected/resource", nil)
	req.Header.Set("Authorization", "Token abcdef")

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestAuthMiddleware_RevokedToken(t *testing.T) {
	// Arrange
	jwtService := auth.NewJWTService("test-secret-key")
	user := &model.User{ID: uuid.New()}
	token, err := jwtService.GenerateToken(user.ID)
	assert.NoError(t, err)

	// Token decodes but is not on the active list.
	authService := service.NewAuthService(
		&fakeUserRepo{user: user},
		&fakeTokenRepo{entries: map[string]*model.AuthToken{}},
		nil,
		jwtService,
	)
	router := setupRouter(authService)

	req, _ := http.NewRequest("GET", "/protected/resource", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestAuthMiddleware_ExpiredTokenEntry(t *testing.T) {
	// Arrange
	jwtService := auth.NewJWTService("test-secret-key")
	user := &model.User{ID: uuid.New()}
	token, err := jwtService.GenerateToken(user.ID)
	assert.NoError(t, err)

	authService := service.NewAuthService(
		&fakeUserRepo{user: user},
		&fakeTokenRepo{entries: map[string]*model.AuthToken{
			token: {UserID: user.ID, Token: token, CreatedAt: time.Now().Add(-model.TokenRetention)},
		}},
		nil,
		jwtService,
	)
	router := setupRouter(authService)

	req, _ := http.NewRequest("GET", "/protected/resource", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}
