package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"teamtrack/internal/auth"
	"teamtrack/internal/handler"
	"teamtrack/internal/model"
	"teamtrack/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func setupAuthTest() (*gin.Engine, *MockUserRepository, *MockTokenRepository) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	users := new(MockUserRepository)
	tokens := new(MockTokenRepository)
	authService := service.NewAuthService(users, tokens, nil, auth.NewJWTService("test-secret"))
	authHandler := handler.NewAuthHandler(authService, nil, "http://localhost:3000")

	r.POST("/auth/register", authHandler.Register)
	r.POST("/auth/login", authHandler.Login)
	r.GET("/auth/login/success", authHandler.LoginSuccess)

	return r, users, tokens
}

func TestRegister_Success(t *testing.T) {
	// Arrange
	router, users, tokens := setupAuthTest()

	users.On("FindByEmail", mock.Anything, "test@example.com").Return(nil, nil)
	users.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*model.User).ID = uuid.New()
		}).
		Return(nil)
	tokens.On("PruneExpired", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	tokens.On("Add", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	reqBody := handler.RegisterRequest{
		Username: "Test User",
		Email:    "test@example.com",
		Password: "password123",
	}
	jsonBody, _ := json.Marshal(reqBody)
	req, _ := http.NewRequest("POST", "/auth/register", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusCreated, resp.Code)

	var response struct {
		Success bool                `json:"success"`
		Token   string              `json:"token"`
		User    service.UserProfile `json:"user"`
	}
	err := json.Unmarshal(resp.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.True(t, response.Success)
	assert.NotEmpty(t, response.Token)
	assert.Equal(t, "Test User", response.User.DisplayName)
	assert.Equal(t, "test@example.com", response.User.Email)

	users.AssertExpectations(t)
}

func TestRegister_UserAlreadyExists(t *testing.T) {
	// Arrange
	router, users, _ := setupAuthTest()

	users.On("FindByEmail", mock.Anything, "taken@example.com").
		Return(&model.User{ID: uuid.New(), Email: "taken@example.com"}, nil)

	reqBody := handler.RegisterRequest{
		Username: "Test User",
		Email:    "taken@example.com",
		Password: "password123",
	}
	jsonBody, _ := json.Marshal(reqBody)
	req, _ := http.NewRequest("POST", "/auth/register", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusConflict, resp.Code)
	assert.Contains(t, resp.Body.String(), "already exists")
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegister_InvalidInput(t *testing.T) {
	// Arrange
	router, _, _ := setupAuthTest()

	// Password shorter than the minimum.
	body := `{"username": "Test User", "email": "test@example.com", "password": "123"}`
	req, _ := http.NewRequest("POST", "/auth/register", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestLogin_Success(t *testing.T) {
	// Arrange
	router, users, tokens := setupAuthTest()

	hash, err := auth.HashPassword("password123")
	assert.NoError(t, err)
	users.On("FindByEmail", mock.Anything, "test@example.com").
		Return(&model.User{
			ID:             uuid.New(),
			Email:          "test@example.com",
			HashedPassword: hash,
			DisplayName:    "Test User",
			Role:           model.GlobalRoleUser,
		}, nil)
	tokens.On("PruneExpired", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	tokens.On("Add", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	reqBody := handler.LoginRequest{Email: "test@example.com", Password: "password123"}
	jsonBody, _ := json.Marshal(reqBody)
	req, _ := http.NewRequest("POST", "/auth/login", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "Login successful")
}

func TestLogin_WrongPassword(t *testing.T) {
	// Arrange
	router, users, tokens := setupAuthTest()

	hash, err := auth.HashPassword("password123")
	assert.NoError(t, err)
	users.On("FindByEmail", mock.Anything, "test@example.com").
		Return(&model.User{ID: uuid.New(), Email: "test@example.com", HashedPassword: hash}, nil)

	reqBody := handler.LoginRequest{Email: "test@example.com", Password: "wrong"}
	jsonBody, _ := json.Marshal(reqBody)
	req, _ := http.NewRequest("POST", "/auth/login", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Contains(t, resp.Body.String(), "invalid login credentials")
	tokens.AssertNotCalled(t, "Add", mock.Anything, mock.Anything, mock.Anything)
}

func TestLoginSuccess_ValidToken(t *testing.T) {
	// Arrange
	router, users, tokens := setupAuthTest()

	jwtService := auth.NewJWTService("test-secret")
	user := &model.User{ID: uuid.New(), Email: "test@example.com", DisplayName: "Test User"}
	token, err := jwtService.GenerateToken(user.ID)
	assert.NoError(t, err)

	tokens.On("Find", mock.Anything, user.ID, token).
		Return(&model.AuthToken{UserID: user.ID, Token: token, CreatedAt: time.Now()}, nil)
	users.On("GetByID", mock.Anything, user.ID).Return(user, nil)

	req, _ := http.NewRequest("GET", "/auth/login/success", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "Successfully authenticated")
	// The self-view must never carry credential fields.
	assert.NotContains(t, resp.Body.String(), "hashedPassword")
}

func TestLoginSuccess_NoToken(t *testing.T) {
	// Arrange
	router, _, _ := setupAuthTest()

	req, _ := http.NewRequest("GET", "/auth/login/success", nil)

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}
