package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/Nizarberyan/youquote-api/internal/apperrors"
	"github.com/Nizarberyan/youquote-api/internal/authz"
	"github.com/Nizarberyan/youquote-api/internal/models"
)

// QuoteRepository is the interface that wraps methods for Quote table data access
type QuoteRepository interface {
	// Method Create inserts a new quote; its ID is set on success.
	Create(ctx context.Context, quote *models.Quote) error
	// Method GetByID retrieves a live quote by ID.
	//
	// If no live quote with such ID exists, a not-found error will be
	// returned together with "nil" value.
	GetByID(ctx context.Context, id int) (*models.Quote, error)
	// Method List retrieves live quotes, optionally filtered by word length
	// bounds. A "nil" bound means unbounded on that side.
	List(ctx context.Context, minLength, maxLength *int) ([]models.Quote, error)
	// Method Random retrieves up to count live quotes in random order.
	Random(ctx context.Context, count int) ([]models.Quote, error)
	// Method Popular retrieves live quotes ordered by popularity descending.
	Popular(ctx context.Context, limit int) ([]models.Quote, error)
	// Method IncrementPopularity atomically bumps a live quote's popularity
	// count by 1.
	IncrementPopularity(ctx context.Context, id int) error
	// Method Update rewrites a live quote's content, author, source and length.
	Update(ctx context.Context, quote *models.Quote) error
	// Method SoftDelete marks a live quote as deleted.
	SoftDelete(ctx context.Context, id int) error
}

// ReactionRepository is the interface that wraps methods for like/favorite storage
type ReactionRepository interface {
	// Method Toggle flips the (user, quote) association of the given kind.
	// It returns "true" if the association now exists, "false" if it was
	// removed.
	Toggle(ctx context.Context, userID, quoteID int, kind models.ReactionKind) (bool, error)
	// Method Count returns the number of associations of the given kind
	// for a quote.
	Count(ctx context.Context, quoteID int, kind models.ReactionKind) (int, error)
}

// quoteService implements QuoteService
type quoteService struct {
	quoteRepo    QuoteRepository
	reactionRepo ReactionRepository
	userRepo     UserRepository
	logger       *zap.Logger
}

// NewQuoteService creates a new quote service
func NewQuoteService(
	quoteRepo QuoteRepository,
	reactionRepo ReactionRepository,
	userRepo UserRepository,
	logger *zap.Logger,
) *quoteService {
	return &quoteService{
		quoteRepo:    quoteRepo,
		reactionRepo: reactionRepo,
		userRepo:     userRepo,
		logger:       logger,
	}
}

// Default sizes for the random and popular listings
const (
	DefaultRandomCount  = 1
	DefaultPopularLimit = 10
)

// List retrieves live quotes, optionally filtered by word length bounds.
// Bounds are validated at the handler; a min above the max simply matches
// nothing.
func (s *quoteService) List(ctx context.Context, minLength, maxLength *int) ([]models.Quote, error) {
	return s.quoteRepo.List(ctx, minLength, maxLength)
}

// Random retrieves count live quotes in random order. A count of 0 means
// the default of one quote. An empty table is reported as not found.
func (s *quoteService) Random(ctx context.Context, count int) ([]models.Quote, error) {
	if count == 0 {
		count = DefaultRandomCount
	}

	quotes, err := s.quoteRepo.Random(ctx, count)
	if err != nil {
		return nil, err
	}
	if len(quotes) == 0 {
		return nil, apperrors.NotFound("no quotes available")
	}

	return quotes, nil
}

// Popular retrieves the most viewed live quotes. A limit of 0 means the
// default of ten quotes.
func (s *quoteService) Popular(ctx context.Context, limit int) ([]models.Quote, error) {
	if limit == 0 {
		limit = DefaultPopularLimit
	}

	return s.quoteRepo.Popular(ctx, limit)
}

// Get retrieves a live quote by ID and counts the view toward its
// popularity. Each successful show bumps popularity_count by exactly 1.
func (s *quoteService) Get(ctx context.Context, id int) (*models.Quote, error) {
	if err := s.quoteRepo.IncrementPopularity(ctx, id); err != nil {
		return nil, err
	}

	return s.quoteRepo.GetByID(ctx, id)
}

// Create stores a new quote owned by the actor
func (s *quoteService) Create(ctx context.Context, actorID int, req *models.CreateQuoteRequest) (*models.Quote, error) {
	actor, err := s.loadActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !authz.CanCreateQuote(actor) {
		return nil, apperrors.Forbidden("you do not have permission to create quotes")
	}

	content := strings.TrimSpace(req.Content)
	if err := validateContent(content); err != nil {
		return nil, err
	}

	quote := &models.Quote{
		Content: content,
		Author:  normalizeOptional(req.Author),
		Source:  normalizeOptional(req.Source),
		Length:  models.WordCount(content),
		UserID:  actor.ID,
	}

	if err := s.quoteRepo.Create(ctx, quote); err != nil {
		return nil, err
	}

	s.logger.Info("quote created",
		zap.Int("quote_id", quote.ID),
		zap.Int("user_id", actor.ID))

	return quote, nil
}

// Update applies a partial edit to a quote. Only the owner or an admin may
// edit; the stored length is recomputed whenever the content changes.
func (s *quoteService) Update(ctx context.Context, actorID, id int, req *models.UpdateQuoteRequest) (*models.Quote, error) {
	actor, err := s.loadActor(ctx, actorID)
	if err != nil {
		return nil, err
	}

	quote, err := s.quoteRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !authz.CanUpdateQuote(actor, quote) {
		return nil, apperrors.Forbidden("you do not have permission to update this quote")
	}

	if req.Content != nil {
		content := strings.TrimSpace(*req.Content)
		if err := validateContent(content); err != nil {
			return nil, err
		}
		quote.Content = content
		quote.Length = models.WordCount(content)
	}
	if req.Author != nil {
		quote.Author = normalizeOptional(req.Author)
	}
	if req.Source != nil {
		quote.Source = normalizeOptional(req.Source)
	}

	if err := s.quoteRepo.Update(ctx, quote); err != nil {
		return nil, err
	}

	return quote, nil
}

// Delete soft-deletes a quote. Only the owner or an admin may delete.
func (s *quoteService) Delete(ctx context.Context, actorID, id int) error {
	actor, err := s.loadActor(ctx, actorID)
	if err != nil {
		return err
	}

	quote, err := s.quoteRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !authz.CanDeleteQuote(actor, quote) {
		return apperrors.Forbidden("you do not have permission to delete this quote")
	}

	return s.quoteRepo.SoftDelete(ctx, id)
}

// Toggle flips the actor's like or favorite on a live quote and returns
// the resulting state together with the quote's new total
func (s *quoteService) Toggle(ctx context.Context, actorID, quoteID int, kind models.ReactionKind) (*models.ToggleResponse, error) {
	actor, err := s.loadActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !authz.CanToggleReaction(actor) {
		return nil, apperrors.Forbidden("you do not have permission to react to quotes")
	}

	// Trashed quotes cannot be reacted to
	if _, err := s.quoteRepo.GetByID(ctx, quoteID); err != nil {
		return nil, err
	}

	active, err := s.reactionRepo.Toggle(ctx, actor.ID, quoteID, kind)
	if err != nil {
		return nil, err
	}

	count, err := s.reactionRepo.Count(ctx, quoteID, kind)
	if err != nil {
		return nil, err
	}

	return &models.ToggleResponse{Active: active, Count: count}, nil
}

// loadActor resolves the authenticated user's current record. Roles are
// read from the database on every privileged call, not from the token, so
// role changes take effect immediately.
func (s *quoteService) loadActor(ctx context.Context, actorID int) (*models.User, error) {
	actor, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindNotFound {
			return nil, apperrors.Unauthenticated("user account no longer exists")
		}
		return nil, err
	}

	return actor, nil
}

// validateContent enforces the quote content rules shared by create and update
func validateContent(content string) error {
	if content == "" {
		return apperrors.Validation("validation failed", map[string]string{
			"content": "Please enter the quote content",
		})
	}
	if len(content) < 3 {
		return apperrors.Validation("validation failed", map[string]string{
			"content": "Content must be at least 3 characters",
		})
	}

	return nil
}

// normalizeOptional trims an optional string field, mapping blank values
// to NULL
func normalizeOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}

	return &trimmed
}
