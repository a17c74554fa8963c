package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Nizarberyan/youquote-api/internal/models"
)

// reactionTables maps kinds to their join tables. Table names are resolved
// through this map only, never interpolated from request input.
var reactionTables = map[models.ReactionKind]string{
	models.ReactionLike:     "quote_likes",
	models.ReactionFavorite: "quote_favorites",
}

type reactionRepository struct {
	db *sql.DB
}

// NewReactionRepository creates a new reaction repository
func NewReactionRepository(db *sql.DB) *reactionRepository {
	return &reactionRepository{
		db: db,
	}
}

// Toggle flips the (user, quote) association of the given kind: if a row
// exists it is removed (returns false), otherwise one is inserted (returns
// true). The delete-then-insert order plus the unique (user_id, quote_id)
// key keeps concurrent toggles from producing duplicate rows.
func (r *reactionRepository) Toggle(ctx context.Context, userID, quoteID int, kind models.ReactionKind) (bool, error) {
	table, ok := reactionTables[kind]
	if !ok {
		return false, fmt.Errorf("unknown reaction kind: %s", kind)
	}

	deleteQuery := fmt.Sprintf(`DELETE FROM %s WHERE user_id = ? AND quote_id = ?`, table)
	result, err := r.db.ExecContext(ctx, deleteQuery, userID, quoteID)
	if err != nil {
		return false, fmt.Errorf("failed to remove %s: %w", kind, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected > 0 {
		// Association existed and was removed
		return false, nil
	}

	insertQuery := fmt.Sprintf(`INSERT IGNORE INTO %s (user_id, quote_id) VALUES (?, ?)`, table)
	if _, err := r.db.ExecContext(ctx, insertQuery, userID, quoteID); err != nil {
		return false, fmt.Errorf("failed to add %s: %w", kind, err)
	}

	return true, nil
}

// Count returns the number of associations of the given kind for a quote
func (r *reactionRepository) Count(ctx context.Context, quoteID int, kind models.ReactionKind) (int, error) {
	table, ok := reactionTables[kind]
	if !ok {
		return 0, fmt.Errorf("unknown reaction kind: %s", kind)
	}

	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE quote_id = ?`, table)

	var count int
	if err := r.db.QueryRowContext(ctx, query, quoteID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count %ss: %w", kind, err)
	}

	return count, nil
}
