package repositories

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nizarberyan/youquote-api/internal/apperrors"
	"github.com/Nizarberyan/youquote-api/internal/models"
)

// setupQuoteTestRepository creates a quote repository with a mock database
func setupQuoteTestRepository(t *testing.T) (*quoteRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	repo := NewQuoteRepository(db)

	cleanup := func() {
		db.Close()
	}

	return repo, mock, cleanup
}

// quoteRows builds a result set in the shared quote column order
func quoteRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "content", "author", "source", "length",
		"popularity_count", "user_id", "deleted_at", "created_at", "updated_at",
	})
}

func TestQuoteRepository_Create(t *testing.T) {
	author := "Mark Twain"

	tests := []struct {
		name          string
		quote         *models.Quote
		setupMock     func(sqlmock.Sqlmock)
		expectedError bool
		expectedID    int
	}{
		{
			name: "success",
			quote: &models.Quote{
				Content: "The secret of getting ahead is getting started",
				Author:  &author,
				Length:  8,
				UserID:  1,
			},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO quotes`).
					WithArgs("The secret of getting ahead is getting started", &author, nil, 8, 0, 1).
					WillReturnResult(sqlmock.NewResult(7, 1))
			},
			expectedID: 7,
		},
		{
			name: "database error",
			quote: &models.Quote{
				Content: "short one",
				Length:  2,
				UserID:  1,
			},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO quotes`).
					WithArgs("short one", nil, nil, 2, 0, 1).
					WillReturnError(errors.New("database error"))
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupQuoteTestRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			err := repo.Create(context.Background(), tt.quote)

			if tt.expectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedID, tt.quote.ID)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestQuoteRepository_GetByID(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name             string
		id               int
		setupMock        func(sqlmock.Sqlmock)
		expectedError    bool
		expectedNotFound bool
	}{
		{
			name: "success",
			id:   1,
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := quoteRows().
					AddRow(1, "some wise words", "Mark Twain", nil, 3, 5, 1, nil, now, now)
				mock.ExpectQuery(`FROM quotes\s+WHERE id = \? AND deleted_at IS NULL`).
					WithArgs(1).
					WillReturnRows(rows)
			},
		},
		{
			name: "soft-deleted quote is not found",
			id:   2,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`FROM quotes\s+WHERE id = \? AND deleted_at IS NULL`).
					WithArgs(2).
					WillReturnError(sql.ErrNoRows)
			},
			expectedError:    true,
			expectedNotFound: true,
		},
		{
			name: "database error",
			id:   1,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`FROM quotes\s+WHERE id = \? AND deleted_at IS NULL`).
					WithArgs(1).
					WillReturnError(errors.New("database error"))
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupQuoteTestRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			quote, err := repo.GetByID(context.Background(), tt.id)

			if tt.expectedError {
				assert.Error(t, err)
				assert.Nil(t, quote)
				if tt.expectedNotFound {
					assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
				}
			} else {
				assert.NoError(t, err)
				require.NotNil(t, quote)
				assert.Equal(t, tt.id, quote.ID)
				assert.False(t, quote.Trashed())
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestQuoteRepository_GetByIDWithTrashed(t *testing.T) {
	now := time.Now()
	deletedAt := now.Add(-time.Hour)

	repo, mock, cleanup := setupQuoteTestRepository(t)
	defer cleanup()

	rows := quoteRows().
		AddRow(3, "deleted words", nil, nil, 2, 0, 1, deletedAt, now, now)
	mock.ExpectQuery(`FROM quotes\s+WHERE id = \?\s+LIMIT 1`).
		WithArgs(3).
		WillReturnRows(rows)

	quote, err := repo.GetByIDWithTrashed(context.Background(), 3)

	assert.NoError(t, err)
	require.NotNil(t, quote)
	assert.True(t, quote.Trashed())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuoteRepository_List(t *testing.T) {
	now := time.Now()
	min := 3
	max := 10

	tests := []struct {
		name          string
		minLength     *int
		maxLength     *int
		setupMock     func(sqlmock.Sqlmock)
		expectedError bool
		expectedCount int
	}{
		{
			name: "no filters",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := quoteRows().
					AddRow(1, "a b c", nil, nil, 3, 0, 1, nil, now, now).
					AddRow(2, "d e f g", nil, nil, 4, 0, 1, nil, now, now)
				mock.ExpectQuery(`FROM quotes\s+WHERE deleted_at IS NULL`).
					WillReturnRows(rows)
			},
			expectedCount: 2,
		},
		{
			name:      "both bounds",
			minLength: &min,
			maxLength: &max,
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := quoteRows().
					AddRow(1, "a b c", nil, nil, 3, 0, 1, nil, now, now)
				mock.ExpectQuery(`WHERE deleted_at IS NULL\s+AND length >= \? AND length <= \?`).
					WithArgs(3, 10).
					WillReturnRows(rows)
			},
			expectedCount: 1,
		},
		{
			name: "database error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`FROM quotes\s+WHERE deleted_at IS NULL`).
					WillReturnError(errors.New("database error"))
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupQuoteTestRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			quotes, err := repo.List(context.Background(), tt.minLength, tt.maxLength)

			if tt.expectedError {
				assert.Error(t, err)
				assert.Nil(t, quotes)
			} else {
				assert.NoError(t, err)
				assert.Len(t, quotes, tt.expectedCount)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestQuoteRepository_IncrementPopularity(t *testing.T) {
	tests := []struct {
		name             string
		id               int
		setupMock        func(sqlmock.Sqlmock)
		expectedError    bool
		expectedNotFound bool
	}{
		{
			name: "success",
			id:   1,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE quotes SET popularity_count = popularity_count \+ 1 WHERE id = \? AND deleted_at IS NULL`).
					WithArgs(1).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "missing or trashed quote",
			id:   9,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE quotes SET popularity_count = popularity_count \+ 1 WHERE id = \? AND deleted_at IS NULL`).
					WithArgs(9).
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			expectedError:    true,
			expectedNotFound: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupQuoteTestRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			err := repo.IncrementPopularity(context.Background(), tt.id)

			if tt.expectedError {
				assert.Error(t, err)
				if tt.expectedNotFound {
					assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
				}
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestQuoteRepository_SoftDelete(t *testing.T) {
	tests := []struct {
		name             string
		id               int
		setupMock        func(sqlmock.Sqlmock)
		expectedError    bool
		expectedNotFound bool
	}{
		{
			name: "success",
			id:   1,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE quotes SET deleted_at = NOW\(\) WHERE id = \? AND deleted_at IS NULL`).
					WithArgs(1).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "already trashed",
			id:   1,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE quotes SET deleted_at = NOW\(\) WHERE id = \? AND deleted_at IS NULL`).
					WithArgs(1).
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			expectedError:    true,
			expectedNotFound: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupQuoteTestRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			err := repo.SoftDelete(context.Background(), tt.id)

			if tt.expectedError {
				assert.Error(t, err)
				if tt.expectedNotFound {
					assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
				}
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestQuoteRepository_Restore(t *testing.T) {
	tests := []struct {
		name          string
		id            int
		setupMock     func(sqlmock.Sqlmock)
		expectedError bool
	}{
		{
			name: "success",
			id:   1,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE quotes SET deleted_at = NULL WHERE id = \? AND deleted_at IS NOT NULL`).
					WithArgs(1).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "quote is not trashed",
			id:   1,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE quotes SET deleted_at = NULL WHERE id = \? AND deleted_at IS NOT NULL`).
					WithArgs(1).
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupQuoteTestRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			err := repo.Restore(context.Background(), tt.id)

			if tt.expectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestQuoteRepository_ForceDelete(t *testing.T) {
	repo, mock, cleanup := setupQuoteTestRepository(t)
	defer cleanup()

	mock.ExpectExec(`DELETE FROM quotes WHERE id = \?`).
		WithArgs(4).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.ForceDelete(context.Background(), 4)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuoteRepository_RestoreAllTrashed(t *testing.T) {
	tests := []struct {
		name          string
		setupMock     func(sqlmock.Sqlmock)
		expectedError bool
		expectedCount int
	}{
		{
			name: "restores three",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE quotes SET deleted_at = NULL WHERE deleted_at IS NOT NULL`).
					WillReturnResult(sqlmock.NewResult(0, 3))
			},
			expectedCount: 3,
		},
		{
			name: "empty trash is a success",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE quotes SET deleted_at = NULL WHERE deleted_at IS NOT NULL`).
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			expectedCount: 0,
		},
		{
			name: "database error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE quotes SET deleted_at = NULL WHERE deleted_at IS NOT NULL`).
					WillReturnError(errors.New("database error"))
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupQuoteTestRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			count, err := repo.RestoreAllTrashed(context.Background())

			if tt.expectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedCount, count)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestQuoteRepository_ForceDeleteAllTrashed(t *testing.T) {
	repo, mock, cleanup := setupQuoteTestRepository(t)
	defer cleanup()

	mock.ExpectExec(`DELETE FROM quotes WHERE deleted_at IS NOT NULL`).
		WillReturnResult(sqlmock.NewResult(0, 2))

	count, err := repo.ForceDeleteAllTrashed(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuoteRepository_ListTrashedWithOwner(t *testing.T) {
	now := time.Now()
	deletedAt := now.Add(-time.Hour)

	repo, mock, cleanup := setupQuoteTestRepository(t)
	defer cleanup()

	rows := sqlmock.NewRows([]string{
		"id", "content", "author", "source", "length", "popularity_count",
		"user_id", "deleted_at", "created_at", "updated_at", "name", "email",
	}).
		AddRow(5, "gone words", nil, nil, 2, 1, 2, deletedAt, now, now, "Owner", "owner@example.com")
	mock.ExpectQuery(`JOIN users u ON u\.id = q\.user_id\s+WHERE q\.deleted_at IS NOT NULL`).
		WillReturnRows(rows)

	quotes, err := repo.ListTrashedWithOwner(context.Background())

	assert.NoError(t, err)
	require.Len(t, quotes, 1)
	assert.Equal(t, "Owner", quotes[0].OwnerName)
	assert.True(t, quotes[0].Trashed())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuoteRepository_ListAuthors(t *testing.T) {
	repo, mock, cleanup := setupQuoteTestRepository(t)
	defer cleanup()

	rows := sqlmock.NewRows([]string{"author"}).
		AddRow("Mark Twain").
		AddRow("Oscar Wilde")
	mock.ExpectQuery(`SELECT DISTINCT author`).
		WillReturnRows(rows)

	authors, err := repo.ListAuthors(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, []string{"Mark Twain", "Oscar Wilde"}, authors)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuoteRepository_GetByAuthor(t *testing.T) {
	now := time.Now()

	repo, mock, cleanup := setupQuoteTestRepository(t)
	defer cleanup()

	rows := quoteRows().
		AddRow(1, "wise words here", "Mark Twain", nil, 3, 0, 1, nil, now, now)
	mock.ExpectQuery(`WHERE deleted_at IS NULL AND LOWER\(author\) = LOWER\(\?\)`).
		WithArgs("mark twain").
		WillReturnRows(rows)

	quotes, err := repo.GetByAuthor(context.Background(), "mark twain")

	assert.NoError(t, err)
	require.Len(t, quotes, 1)
	require.NotNil(t, quotes[0].Author)
	assert.Equal(t, "Mark Twain", *quotes[0].Author)
	assert.NoError(t, mock.ExpectationsWereMet())
}
