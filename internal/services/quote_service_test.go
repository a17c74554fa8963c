package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/Nizarberyan/youquote-api/internal/apperrors"
	"github.com/Nizarberyan/youquote-api/internal/models"
)

// mockQuoteRepository is a mock implementation of QuoteRepository
type mockQuoteRepository struct {
	quotes       []models.Quote
	quote        *models.Quote
	err          error
	getErr       error
	createErr    error
	updateErr    error
	deleteErr    error
	incrementErr error

	incremented   int
	updatedQuote  *models.Quote
	softDeletedID int
}

func (m *mockQuoteRepository) Create(ctx context.Context, quote *models.Quote) error {
	if m.createErr != nil {
		return m.createErr
	}
	if m.err != nil {
		return m.err
	}
	quote.ID = 1
	return nil
}

func (m *mockQuoteRepository) GetByID(ctx context.Context, id int) (*models.Quote, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if m.err != nil {
		return nil, m.err
	}
	if m.quote == nil {
		return nil, apperrors.NotFound("quote not found")
	}
	return m.quote, nil
}

func (m *mockQuoteRepository) List(ctx context.Context, minLength, maxLength *int) ([]models.Quote, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.quotes, nil
}

func (m *mockQuoteRepository) Random(ctx context.Context, count int) ([]models.Quote, error) {
	if m.err != nil {
		return nil, m.err
	}
	if count < len(m.quotes) {
		return m.quotes[:count], nil
	}
	return m.quotes, nil
}

func (m *mockQuoteRepository) Popular(ctx context.Context, limit int) ([]models.Quote, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.quotes, nil
}

func (m *mockQuoteRepository) IncrementPopularity(ctx context.Context, id int) error {
	if m.incrementErr != nil {
		return m.incrementErr
	}
	if m.err != nil {
		return m.err
	}
	if m.quote == nil {
		return apperrors.NotFound("quote not found")
	}
	m.incremented++
	m.quote.PopularityCount++
	return nil
}

func (m *mockQuoteRepository) Update(ctx context.Context, quote *models.Quote) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	if m.err != nil {
		return m.err
	}
	m.updatedQuote = quote
	return nil
}

func (m *mockQuoteRepository) SoftDelete(ctx context.Context, id int) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	if m.err != nil {
		return m.err
	}
	m.softDeletedID = id
	return nil
}

// mockReactionRepository is a stateful mock implementation of
// ReactionRepository: Toggle flips an in-memory association
type mockReactionRepository struct {
	active map[models.ReactionKind]bool
	err    error
}

func (m *mockReactionRepository) Toggle(ctx context.Context, userID, quoteID int, kind models.ReactionKind) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	if m.active == nil {
		m.active = map[models.ReactionKind]bool{}
	}
	m.active[kind] = !m.active[kind]
	return m.active[kind], nil
}

func (m *mockReactionRepository) Count(ctx context.Context, quoteID int, kind models.ReactionKind) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	if m.active[kind] {
		return 1, nil
	}
	return 0, nil
}

// quoteTestUsers returns a user repo mock holding a regular user, an
// admin and a second regular user
func quoteTestUsers() *mockUserRepository {
	return &mockUserRepository{usersByID: map[int]*models.User{
		1: {ID: 1, Role: models.RoleUser},
		2: {ID: 2, Role: models.RoleAdmin},
		3: {ID: 3, Role: models.RoleUser},
	}}
}

func TestQuoteService_List(t *testing.T) {
	min := 3
	max := 10

	mockRepo := &mockQuoteRepository{quotes: []models.Quote{{ID: 1}}}
	svc := NewQuoteService(mockRepo, &mockReactionRepository{}, quoteTestUsers(), zaptest.NewLogger(t))

	quotes, err := svc.List(context.Background(), &min, &max)

	assert.NoError(t, err)
	assert.Len(t, quotes, 1)
}

func TestQuoteService_Random(t *testing.T) {
	tests := []struct {
		name          string
		count         int
		quotes        []models.Quote
		expectedError bool
		expectedKind  apperrors.Kind
		expectedCount int
	}{
		{
			name:          "zero means one",
			count:         0,
			quotes:        []models.Quote{{ID: 1}, {ID: 2}, {ID: 3}},
			expectedCount: 1,
		},
		{
			name:          "explicit count",
			count:         2,
			quotes:        []models.Quote{{ID: 1}, {ID: 2}, {ID: 3}},
			expectedCount: 2,
		},
		{
			name:          "empty table is not found",
			count:         1,
			expectedError: true,
			expectedKind:  apperrors.KindNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &mockQuoteRepository{quotes: tt.quotes}
			svc := NewQuoteService(mockRepo, &mockReactionRepository{}, quoteTestUsers(), zaptest.NewLogger(t))

			quotes, err := svc.Random(context.Background(), tt.count)

			if tt.expectedError {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedKind, apperrors.KindOf(err))
				assert.Nil(t, quotes)
			} else {
				assert.NoError(t, err)
				assert.Len(t, quotes, tt.expectedCount)
			}
		})
	}
}

func TestQuoteService_Get(t *testing.T) {
	t.Run("each show counts one view", func(t *testing.T) {
		mockRepo := &mockQuoteRepository{
			quote: &models.Quote{ID: 1, Content: "a b c", Length: 3, PopularityCount: 4},
		}
		svc := NewQuoteService(mockRepo, &mockReactionRepository{}, quoteTestUsers(), zaptest.NewLogger(t))

		quote, err := svc.Get(context.Background(), 1)

		assert.NoError(t, err)
		require.NotNil(t, quote)
		assert.Equal(t, 1, mockRepo.incremented)
		assert.Equal(t, 5, quote.PopularityCount)
	})

	t.Run("missing quote", func(t *testing.T) {
		mockRepo := &mockQuoteRepository{}
		svc := NewQuoteService(mockRepo, &mockReactionRepository{}, quoteTestUsers(), zaptest.NewLogger(t))

		quote, err := svc.Get(context.Background(), 9)

		assert.Error(t, err)
		assert.Nil(t, quote)
		assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
	})
}

func TestQuoteService_Create(t *testing.T) {
	author := "  Mark Twain  "

	tests := []struct {
		name           string
		actorID        int
		req            *models.CreateQuoteRequest
		expectedError  bool
		expectedKind   apperrors.Kind
		expectedLength int
	}{
		{
			name:    "success with length computed from words",
			actorID: 1,
			req: &models.CreateQuoteRequest{
				Content: "  The secret of getting ahead is getting started  ",
				Author:  &author,
			},
			expectedLength: 8,
		},
		{
			name:          "empty content",
			actorID:       1,
			req:           &models.CreateQuoteRequest{Content: "   "},
			expectedError: true,
			expectedKind:  apperrors.KindValidation,
		},
		{
			name:          "content too short",
			actorID:       1,
			req:           &models.CreateQuoteRequest{Content: "ab"},
			expectedError: true,
			expectedKind:  apperrors.KindValidation,
		},
		{
			name:          "deleted account",
			actorID:       99,
			req:           &models.CreateQuoteRequest{Content: "still standing here"},
			expectedError: true,
			expectedKind:  apperrors.KindUnauthenticated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &mockQuoteRepository{}
			svc := NewQuoteService(mockRepo, &mockReactionRepository{}, quoteTestUsers(), zaptest.NewLogger(t))

			quote, err := svc.Create(context.Background(), tt.actorID, tt.req)

			if tt.expectedError {
				assert.Error(t, err)
				assert.Nil(t, quote)
				assert.Equal(t, tt.expectedKind, apperrors.KindOf(err))
			} else {
				assert.NoError(t, err)
				require.NotNil(t, quote)
				assert.Equal(t, tt.expectedLength, quote.Length)
				assert.Equal(t, models.WordCount(quote.Content), quote.Length)
				assert.Equal(t, 0, quote.PopularityCount)
				assert.Equal(t, tt.actorID, quote.UserID)
				require.NotNil(t, quote.Author)
				assert.Equal(t, "Mark Twain", *quote.Author)
			}
		})
	}
}

func TestQuoteService_Update(t *testing.T) {
	newContent := "completely new words here"

	tests := []struct {
		name           string
		actorID        int
		req            *models.UpdateQuoteRequest
		expectedError  bool
		expectedKind   apperrors.Kind
		expectedLength int
	}{
		{
			name:           "owner edits content and length follows",
			actorID:        1,
			req:            &models.UpdateQuoteRequest{Content: &newContent},
			expectedLength: 4,
		},
		{
			name:           "admin edits someone else's quote",
			actorID:        2,
			req:            &models.UpdateQuoteRequest{Content: &newContent},
			expectedLength: 4,
		},
		{
			name:          "non-owner is forbidden",
			actorID:       3,
			req:           &models.UpdateQuoteRequest{Content: &newContent},
			expectedError: true,
			expectedKind:  apperrors.KindForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &mockQuoteRepository{
				quote: &models.Quote{ID: 1, Content: "old words", Length: 2, UserID: 1},
			}
			svc := NewQuoteService(mockRepo, &mockReactionRepository{}, quoteTestUsers(), zaptest.NewLogger(t))

			quote, err := svc.Update(context.Background(), tt.actorID, 1, tt.req)

			if tt.expectedError {
				assert.Error(t, err)
				assert.Nil(t, quote)
				assert.Equal(t, tt.expectedKind, apperrors.KindOf(err))
				assert.Nil(t, mockRepo.updatedQuote)
			} else {
				assert.NoError(t, err)
				require.NotNil(t, quote)
				assert.Equal(t, newContent, quote.Content)
				assert.Equal(t, tt.expectedLength, quote.Length)
				assert.Equal(t, models.WordCount(quote.Content), quote.Length)
			}
		})
	}
}

func TestQuoteService_Update_PartialFieldsKeepContent(t *testing.T) {
	source := "Notebook, 1894"

	mockRepo := &mockQuoteRepository{
		quote: &models.Quote{ID: 1, Content: "old words stay", Length: 3, UserID: 1},
	}
	svc := NewQuoteService(mockRepo, &mockReactionRepository{}, quoteTestUsers(), zaptest.NewLogger(t))

	quote, err := svc.Update(context.Background(), 1, 1, &models.UpdateQuoteRequest{Source: &source})

	assert.NoError(t, err)
	require.NotNil(t, quote)
	assert.Equal(t, "old words stay", quote.Content)
	assert.Equal(t, 3, quote.Length)
	require.NotNil(t, quote.Source)
	assert.Equal(t, source, *quote.Source)
}

func TestQuoteService_Delete(t *testing.T) {
	tests := []struct {
		name          string
		actorID       int
		expectedError bool
		expectedKind  apperrors.Kind
	}{
		{name: "owner deletes own quote", actorID: 1},
		{name: "admin deletes someone else's quote", actorID: 2},
		{name: "non-owner is forbidden", actorID: 3, expectedError: true, expectedKind: apperrors.KindForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &mockQuoteRepository{
				quote: &models.Quote{ID: 1, Content: "going away", Length: 2, UserID: 1},
			}
			svc := NewQuoteService(mockRepo, &mockReactionRepository{}, quoteTestUsers(), zaptest.NewLogger(t))

			err := svc.Delete(context.Background(), tt.actorID, 1)

			if tt.expectedError {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedKind, apperrors.KindOf(err))
				assert.Zero(t, mockRepo.softDeletedID)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, 1, mockRepo.softDeletedID)
			}
		})
	}
}

func TestQuoteService_Toggle(t *testing.T) {
	t.Run("double toggle restores the initial state", func(t *testing.T) {
		mockRepo := &mockQuoteRepository{
			quote: &models.Quote{ID: 1, Content: "likeable words", Length: 2, UserID: 3},
		}
		svc := NewQuoteService(mockRepo, &mockReactionRepository{}, quoteTestUsers(), zaptest.NewLogger(t))

		first, err := svc.Toggle(context.Background(), 1, 1, models.ReactionLike)
		require.NoError(t, err)
		assert.True(t, first.Active)
		assert.Equal(t, 1, first.Count)

		second, err := svc.Toggle(context.Background(), 1, 1, models.ReactionLike)
		require.NoError(t, err)
		assert.False(t, second.Active)
		assert.Equal(t, 0, second.Count)
	})

	t.Run("like and favorite are independent", func(t *testing.T) {
		mockRepo := &mockQuoteRepository{
			quote: &models.Quote{ID: 1, Content: "likeable words", Length: 2, UserID: 3},
		}
		reactionRepo := &mockReactionRepository{}
		svc := NewQuoteService(mockRepo, reactionRepo, quoteTestUsers(), zaptest.NewLogger(t))

		like, err := svc.Toggle(context.Background(), 1, 1, models.ReactionLike)
		require.NoError(t, err)
		assert.True(t, like.Active)

		favorite, err := svc.Toggle(context.Background(), 1, 1, models.ReactionFavorite)
		require.NoError(t, err)
		assert.True(t, favorite.Active)

		unlike, err := svc.Toggle(context.Background(), 1, 1, models.ReactionLike)
		require.NoError(t, err)
		assert.False(t, unlike.Active)
		assert.True(t, reactionRepo.active[models.ReactionFavorite])
	})

	t.Run("trashed quote cannot be toggled", func(t *testing.T) {
		mockRepo := &mockQuoteRepository{}
		svc := NewQuoteService(mockRepo, &mockReactionRepository{}, quoteTestUsers(), zaptest.NewLogger(t))

		resp, err := svc.Toggle(context.Background(), 1, 9, models.ReactionLike)

		assert.Error(t, err)
		assert.Nil(t, resp)
		assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
	})
}
