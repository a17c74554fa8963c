package repositories

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nizarberyan/youquote-api/internal/apperrors"
	"github.com/Nizarberyan/youquote-api/internal/models"
)

// setupUserTokenTestRepository creates a user token repository with a mock database
func setupUserTokenTestRepository(t *testing.T) (*userTokenRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	repo := NewUserTokenRepository(db)

	cleanup := func() {
		db.Close()
	}

	return repo, mock, cleanup
}

func TestUserTokenRepository_Create(t *testing.T) {
	repo, mock, cleanup := setupUserTokenTestRepository(t)
	defer cleanup()

	mock.ExpectExec(`INSERT INTO user_tokens`).
		WithArgs(1, "refresh-token").
		WillReturnResult(sqlmock.NewResult(5, 1))

	userToken := &models.UserToken{UserID: 1, Token: "refresh-token"}
	err := repo.Create(context.Background(), userToken)

	assert.NoError(t, err)
	assert.Equal(t, 5, userToken.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserTokenRepository_GetByToken(t *testing.T) {
	tests := []struct {
		name             string
		token            string
		setupMock        func(sqlmock.Sqlmock)
		expectedError    bool
		expectedNotFound bool
	}{
		{
			name:  "success",
			token: "refresh-token",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"id", "user_id", "token"}).
					AddRow(5, 1, "refresh-token")
				mock.ExpectQuery(`SELECT id, user_id, token\s+FROM user_tokens\s+WHERE token = \?`).
					WithArgs("refresh-token").
					WillReturnRows(rows)
			},
		},
		{
			name:  "not found",
			token: "unknown",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, user_id, token\s+FROM user_tokens\s+WHERE token = \?`).
					WithArgs("unknown").
					WillReturnError(sql.ErrNoRows)
			},
			expectedError:    true,
			expectedNotFound: true,
		},
		{
			name:  "database error",
			token: "refresh-token",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, user_id, token\s+FROM user_tokens\s+WHERE token = \?`).
					WithArgs("refresh-token").
					WillReturnError(errors.New("database error"))
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupUserTokenTestRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			userToken, err := repo.GetByToken(context.Background(), tt.token)

			if tt.expectedError {
				assert.Error(t, err)
				assert.Nil(t, userToken)
				if tt.expectedNotFound {
					assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
				}
			} else {
				assert.NoError(t, err)
				require.NotNil(t, userToken)
				assert.Equal(t, tt.token, userToken.Token)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserTokenRepository_UpdateToken(t *testing.T) {
	repo, mock, cleanup := setupUserTokenTestRepository(t)
	defer cleanup()

	mock.ExpectExec(`UPDATE user_tokens SET token = \? WHERE token = \? AND user_id = \?`).
		WithArgs("new-token", "old-token", 1).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateToken(context.Background(), "old-token", "new-token", 1)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserTokenRepository_DeleteByToken(t *testing.T) {
	tests := []struct {
		name          string
		setupMock     func(sqlmock.Sqlmock)
		expectedError bool
	}{
		{
			name: "success",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM user_tokens WHERE token = \?`).
					WithArgs("refresh-token").
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "absent token is not an error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM user_tokens WHERE token = \?`).
					WithArgs("refresh-token").
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
		},
		{
			name: "database error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM user_tokens WHERE token = \?`).
					WithArgs("refresh-token").
					WillReturnError(errors.New("database error"))
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupUserTokenTestRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			err := repo.DeleteByToken(context.Background(), "refresh-token")

			if tt.expectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
