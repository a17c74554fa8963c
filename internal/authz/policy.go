// Package authz holds the authorization policy for quotes. Every mutating
// service entry point consults these predicates instead of checking roles
// ad hoc, so the rules live in exactly one place.
package authz

import "github.com/Nizarberyan/youquote-api/internal/models"

// CanCreateQuote reports whether the actor may create quotes.
// Any authenticated user may.
func CanCreateQuote(actor *models.User) bool {
	return actor != nil
}

// CanUpdateQuote reports whether the actor may update the quote.
// Owners may update their own quotes, admins may update any quote.
func CanUpdateQuote(actor *models.User, quote *models.Quote) bool {
	if actor == nil {
		return false
	}
	return actor.ID == quote.UserID || actor.IsAdmin()
}

// CanDeleteQuote reports whether the actor may soft-delete the quote.
// Same rule as update: owner or admin.
func CanDeleteQuote(actor *models.User, quote *models.Quote) bool {
	return CanUpdateQuote(actor, quote)
}

// CanToggleReaction reports whether the actor may like or favorite quotes
func CanToggleReaction(actor *models.User) bool {
	return actor != nil
}

// CanRestoreQuote reports whether the actor may restore trashed quotes
func CanRestoreQuote(actor *models.User) bool {
	return actor != nil && actor.IsAdmin()
}

// CanForceDeleteQuote reports whether the actor may permanently delete quotes
func CanForceDeleteQuote(actor *models.User) bool {
	return actor != nil && actor.IsAdmin()
}

// CanAdminister reports whether the actor may use the admin surface:
// user listing, role changes, trashed-quote listings and bulk operations
func CanAdminister(actor *models.User) bool {
	return actor != nil && actor.IsAdmin()
}
