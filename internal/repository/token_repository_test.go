package repository_test

import (
	"context"
	"testing"
	"time"

	"teamtrack/internal/model"
	"teamtrack/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestTokenRepository_Add(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	tokenRepo := repository.NewTokenRepository(gormDB)

	userID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "auth_tokens"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New().String()))
	mock.ExpectCommit()

	// Act
	err := tokenRepo.Add(context.Background(), userID, "signed.jwt.token")

	// Assert
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenRepository_Find_Found(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	tokenRepo := repository.NewTokenRepository(gormDB)

	userID := uuid.New()
	token := "signed.jwt.token"

	mock.ExpectQuery(`SELECT .* FROM "auth_tokens" WHERE user_id = .* AND token = .*`).
		WithArgs(userID.String(), token, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "token", "created_at"}).
			AddRow(uuid.New().String(), userID.String(), token, time.Now()))

	// Act
	entry, err := tokenRepo.Find(context.Background(), userID, token)

	// Assert
	assert.NoError(t, err)
	assert.NotNil(t, entry)
	assert.Equal(t, userID, entry.UserID)
	assert.False(t, entry.Expired(time.Now()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenRepository_Find_NotFound(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	tokenRepo := repository.NewTokenRepository(gormDB)

	userID := uuid.New()

	mock.ExpectQuery(`SELECT .* FROM "auth_tokens" WHERE user_id = .* AND token = .*`).
		WithArgs(userID.String(), "revoked.jwt.token", 1).
		WillReturnError(gorm.ErrRecordNotFound)

	// Act
	entry, err := tokenRepo.Find(context.Background(), userID, "revoked.jwt.token")

	// Assert
	assert.NoError(t, err)
	assert.Nil(t, entry)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenRepository_Remove(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	tokenRepo := repository.NewTokenRepository(gormDB)

	userID := uuid.New()
	token := "signed.jwt.token"

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "auth_tokens" WHERE user_id = .* AND token = .*`).
		WithArgs(userID.String(), token).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// Act
	err := tokenRepo.Remove(context.Background(), userID, token)

	// Assert
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenRepository_PruneExpired(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	tokenRepo := repository.NewTokenRepository(gormDB)

	userID := uuid.New()
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "auth_tokens" WHERE user_id = .* AND created_at < .*`).
		WithArgs(userID.String(), now.Add(-model.TokenRetention)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	// Act
	err := tokenRepo.PruneExpired(context.Background(), userID, now)

	// Assert
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
