package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/Nizarberyan/youquote-api/internal/apperrors"
	"github.com/Nizarberyan/youquote-api/internal/models"
)

// AuthorQuoteRepository is the interface that wraps quote data access
// needed by the author browsing surface
type AuthorQuoteRepository interface {
	// Method ListAuthors retrieves the distinct author names across live
	// quotes.
	ListAuthors(ctx context.Context) ([]string, error)
	// Method GetByAuthor retrieves live quotes whose author matches
	// case-insensitively.
	GetByAuthor(ctx context.Context, author string) ([]models.Quote, error)
}

// authorService implements AuthorService
type authorService struct {
	quoteRepo AuthorQuoteRepository
	logger    *zap.Logger
}

// NewAuthorService creates a new author service
func NewAuthorService(quoteRepo AuthorQuoteRepository, logger *zap.Logger) *authorService {
	return &authorService{
		quoteRepo: quoteRepo,
		logger:    logger,
	}
}

// ListAuthors retrieves the distinct author names across live quotes
func (s *authorService) ListAuthors(ctx context.Context) ([]string, error) {
	authors, err := s.quoteRepo.ListAuthors(ctx)
	if err != nil {
		return nil, err
	}
	if authors == nil {
		authors = []string{}
	}

	return authors, nil
}

// GetAuthorQuotes retrieves the live quotes attributed to one author.
// URL-friendly hyphens in the name are treated as spaces, so
// "mark-twain" and "Mark Twain" resolve to the same author. An author
// with no live quotes is reported as not found.
func (s *authorService) GetAuthorQuotes(ctx context.Context, name string) (*models.AuthorQuotesResponse, error) {
	normalized := strings.TrimSpace(strings.ReplaceAll(name, "-", " "))
	if normalized == "" {
		return nil, apperrors.NotFound("author not found")
	}

	quotes, err := s.quoteRepo.GetByAuthor(ctx, normalized)
	if err != nil {
		return nil, err
	}
	if len(quotes) == 0 {
		return nil, apperrors.NotFound("author not found")
	}

	// Report the author name exactly as stored
	author := normalized
	if quotes[0].Author != nil {
		author = *quotes[0].Author
	}

	return &models.AuthorQuotesResponse{
		Author: author,
		Quotes: quotes,
	}, nil
}
