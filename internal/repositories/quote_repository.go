package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Nizarberyan/youquote-api/internal/apperrors"
	"github.com/Nizarberyan/youquote-api/internal/models"
)

// quoteColumns is the scan order shared by every quote query
const quoteColumns = `id, content, author, source, length, popularity_count, user_id, deleted_at, created_at, updated_at`

type quoteRepository struct {
	db *sql.DB
}

// NewQuoteRepository creates a new quote repository
func NewQuoteRepository(db *sql.DB) *quoteRepository {
	return &quoteRepository{
		db: db,
	}
}

// scanQuote scans one row into a Quote
func scanQuote(row interface{ Scan(...any) error }, quote *models.Quote) error {
	return row.Scan(
		&quote.ID,
		&quote.Content,
		&quote.Author,
		&quote.Source,
		&quote.Length,
		&quote.PopularityCount,
		&quote.UserID,
		&quote.DeletedAt,
		&quote.CreatedAt,
		&quote.UpdatedAt,
	)
}

// collectQuotes drains rows into a slice of quotes
func collectQuotes(rows *sql.Rows) ([]models.Quote, error) {
	defer rows.Close()

	var quotes []models.Quote
	for rows.Next() {
		var quote models.Quote
		if err := scanQuote(rows, &quote); err != nil {
			return nil, fmt.Errorf("failed to scan quote: %w", err)
		}
		quotes = append(quotes, quote)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return quotes, nil
}

// Create inserts a new quote into the database
func (r *quoteRepository) Create(ctx context.Context, quote *models.Quote) error {
	query := `
		INSERT INTO quotes (content, author, source, length, popularity_count, user_id)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		quote.Content, quote.Author, quote.Source, quote.Length, quote.PopularityCount, quote.UserID)
	if err != nil {
		return fmt.Errorf("failed to create quote: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	quote.ID = int(id)
	return nil
}

// GetByID retrieves a live (not soft-deleted) quote by ID
func (r *quoteRepository) GetByID(ctx context.Context, id int) (*models.Quote, error) {
	query := `
		SELECT ` + quoteColumns + `
		FROM quotes
		WHERE id = ? AND deleted_at IS NULL
		LIMIT 1
	`

	quote := &models.Quote{}
	err := scanQuote(r.db.QueryRowContext(ctx, query, id), quote)

	if err == sql.ErrNoRows {
		return nil, apperrors.NotFound("quote not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get quote by id: %w", err)
	}

	return quote, nil
}

// GetByIDWithTrashed retrieves a quote by ID regardless of soft-delete state
func (r *quoteRepository) GetByIDWithTrashed(ctx context.Context, id int) (*models.Quote, error) {
	query := `
		SELECT ` + quoteColumns + `
		FROM quotes
		WHERE id = ?
		LIMIT 1
	`

	quote := &models.Quote{}
	err := scanQuote(r.db.QueryRowContext(ctx, query, id), quote)

	if err == sql.ErrNoRows {
		return nil, apperrors.NotFound("quote not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get quote by id: %w", err)
	}

	return quote, nil
}

// List retrieves live quotes, optionally filtered by word length bounds
func (r *quoteRepository) List(ctx context.Context, minLength, maxLength *int) ([]models.Quote, error) {
	query := `
		SELECT ` + quoteColumns + `
		FROM quotes
		WHERE deleted_at IS NULL
	`
	args := []any{}

	if minLength != nil {
		query += ` AND length >= ?`
		args = append(args, *minLength)
	}
	if maxLength != nil {
		query += ` AND length <= ?`
		args = append(args, *maxLength)
	}
	query += ` ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query quotes: %w", err)
	}

	return collectQuotes(rows)
}

// Random retrieves up to count live quotes in random order
func (r *quoteRepository) Random(ctx context.Context, count int) ([]models.Quote, error) {
	query := `
		SELECT ` + quoteColumns + `
		FROM quotes
		WHERE deleted_at IS NULL
		ORDER BY RAND()
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, count)
	if err != nil {
		return nil, fmt.Errorf("failed to query random quotes: %w", err)
	}

	return collectQuotes(rows)
}

// Popular retrieves live quotes ordered by popularity count descending
func (r *quoteRepository) Popular(ctx context.Context, limit int) ([]models.Quote, error) {
	query := `
		SELECT ` + quoteColumns + `
		FROM quotes
		WHERE deleted_at IS NULL
		ORDER BY popularity_count DESC
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query popular quotes: %w", err)
	}

	return collectQuotes(rows)
}

// IncrementPopularity atomically bumps a live quote's popularity count by 1
func (r *quoteRepository) IncrementPopularity(ctx context.Context, id int) error {
	query := `UPDATE quotes SET popularity_count = popularity_count + 1 WHERE id = ? AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to increment popularity: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return apperrors.NotFound("quote not found")
	}

	return nil
}

// Update rewrites a live quote's content, author, source and length
func (r *quoteRepository) Update(ctx context.Context, quote *models.Quote) error {
	query := `
		UPDATE quotes
		SET content = ?, author = ?, source = ?, length = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	if _, err := r.db.ExecContext(ctx, query,
		quote.Content, quote.Author, quote.Source, quote.Length, quote.ID); err != nil {
		return fmt.Errorf("failed to update quote: %w", err)
	}

	return nil
}

// SoftDelete marks a live quote as deleted
func (r *quoteRepository) SoftDelete(ctx context.Context, id int) error {
	query := `UPDATE quotes SET deleted_at = NOW() WHERE id = ? AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to soft delete quote: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return apperrors.NotFound("quote not found")
	}

	return nil
}

// Restore clears the soft-delete marker on a trashed quote
func (r *quoteRepository) Restore(ctx context.Context, id int) error {
	query := `UPDATE quotes SET deleted_at = NULL WHERE id = ? AND deleted_at IS NOT NULL`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to restore quote: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return apperrors.NotFound("quote not found")
	}

	return nil
}

// ForceDelete permanently removes a quote, trashed or not
func (r *quoteRepository) ForceDelete(ctx context.Context, id int) error {
	query := `DELETE FROM quotes WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to force delete quote: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return apperrors.NotFound("quote not found")
	}

	return nil
}

// ListAllWithOwner retrieves every quote (trashed included) joined with
// its owner's name and email, for the admin listing
func (r *quoteRepository) ListAllWithOwner(ctx context.Context) ([]models.QuoteWithOwner, error) {
	query := `
		SELECT q.id, q.content, q.author, q.source, q.length, q.popularity_count,
			q.user_id, q.deleted_at, q.created_at, q.updated_at, u.name, u.email
		FROM quotes q
		JOIN users u ON u.id = q.user_id
		ORDER BY q.id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query quotes with owner: %w", err)
	}

	return collectQuotesWithOwner(rows)
}

// ListTrashedWithOwner retrieves soft-deleted quotes joined with owner info
func (r *quoteRepository) ListTrashedWithOwner(ctx context.Context) ([]models.QuoteWithOwner, error) {
	query := `
		SELECT q.id, q.content, q.author, q.source, q.length, q.popularity_count,
			q.user_id, q.deleted_at, q.created_at, q.updated_at, u.name, u.email
		FROM quotes q
		JOIN users u ON u.id = q.user_id
		WHERE q.deleted_at IS NOT NULL
		ORDER BY q.id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query trashed quotes: %w", err)
	}

	return collectQuotesWithOwner(rows)
}

// collectQuotesWithOwner drains rows into a slice of quotes with owner info
func collectQuotesWithOwner(rows *sql.Rows) ([]models.QuoteWithOwner, error) {
	defer rows.Close()

	var quotes []models.QuoteWithOwner
	for rows.Next() {
		var quote models.QuoteWithOwner
		err := rows.Scan(
			&quote.ID,
			&quote.Content,
			&quote.Author,
			&quote.Source,
			&quote.Length,
			&quote.PopularityCount,
			&quote.UserID,
			&quote.DeletedAt,
			&quote.CreatedAt,
			&quote.UpdatedAt,
			&quote.OwnerName,
			&quote.OwnerEmail,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan quote: %w", err)
		}
		quotes = append(quotes, quote)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return quotes, nil
}

// RestoreAllTrashed clears the soft-delete marker on every trashed quote
// and returns the number restored
func (r *quoteRepository) RestoreAllTrashed(ctx context.Context) (int, error) {
	query := `UPDATE quotes SET deleted_at = NULL WHERE deleted_at IS NOT NULL`

	result, err := r.db.ExecContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to restore quotes: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return int(affected), nil
}

// ForceDeleteAllTrashed permanently removes every trashed quote and
// returns the number removed
func (r *quoteRepository) ForceDeleteAllTrashed(ctx context.Context) (int, error) {
	query := `DELETE FROM quotes WHERE deleted_at IS NOT NULL`

	result, err := r.db.ExecContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to force delete quotes: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return int(affected), nil
}

// ListAuthors retrieves the distinct author names across live quotes
func (r *quoteRepository) ListAuthors(ctx context.Context) ([]string, error) {
	query := `
		SELECT DISTINCT author
		FROM quotes
		WHERE deleted_at IS NULL AND author IS NOT NULL AND author != ''
		ORDER BY author
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query authors: %w", err)
	}
	defer rows.Close()

	var authors []string
	for rows.Next() {
		var author string
		if err := rows.Scan(&author); err != nil {
			return nil, fmt.Errorf("failed to scan author: %w", err)
		}
		authors = append(authors, author)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return authors, nil
}

// GetByAuthor retrieves live quotes whose author matches case-insensitively
func (r *quoteRepository) GetByAuthor(ctx context.Context, author string) ([]models.Quote, error) {
	query := `
		SELECT ` + quoteColumns + `
		FROM quotes
		WHERE deleted_at IS NULL AND LOWER(author) = LOWER(?)
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, author)
	if err != nil {
		return nil, fmt.Errorf("failed to query quotes by author: %w", err)
	}

	return collectQuotes(rows)
}
