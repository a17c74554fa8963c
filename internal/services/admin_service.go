package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/Nizarberyan/youquote-api/internal/apperrors"
	"github.com/Nizarberyan/youquote-api/internal/authz"
	"github.com/Nizarberyan/youquote-api/internal/models"
)

// AdminUserRepository is the interface that wraps user data access needed
// by the admin surface
type AdminUserRepository interface {
	// Method GetByID retrieves a user by ID.
	//
	// If user with such ID does not exist, a not-found error will be
	// returned together with "nil" value.
	GetByID(ctx context.Context, userID int) (*models.User, error)
	// Method GetAll retrieves every registered user.
	GetAll(ctx context.Context) ([]models.User, error)
	// Method UpdateRole sets a user's role.
	UpdateRole(ctx context.Context, userID int, role models.Role) error
}

// AdminQuoteRepository is the interface that wraps quote data access needed
// by the moderation surface
type AdminQuoteRepository interface {
	// Method GetByIDWithTrashed retrieves a quote regardless of its
	// soft-delete state.
	GetByIDWithTrashed(ctx context.Context, id int) (*models.Quote, error)
	// Method SoftDelete marks a live quote as deleted.
	SoftDelete(ctx context.Context, id int) error
	// Method Restore clears the soft-delete marker on a trashed quote.
	Restore(ctx context.Context, id int) error
	// Method ForceDelete permanently removes a quote, trashed or not.
	ForceDelete(ctx context.Context, id int) error
	// Method ListAllWithOwner retrieves every quote, trashed included,
	// joined with its owner's name and email.
	ListAllWithOwner(ctx context.Context) ([]models.QuoteWithOwner, error)
	// Method ListTrashedWithOwner retrieves soft-deleted quotes joined
	// with owner info.
	ListTrashedWithOwner(ctx context.Context) ([]models.QuoteWithOwner, error)
	// Method RestoreAllTrashed restores every trashed quote and returns
	// the number restored.
	RestoreAllTrashed(ctx context.Context) (int, error)
	// Method ForceDeleteAllTrashed permanently removes every trashed quote
	// and returns the number removed.
	ForceDeleteAllTrashed(ctx context.Context) (int, error)
}

// adminService implements AdminService
type adminService struct {
	userRepo  AdminUserRepository
	quoteRepo AdminQuoteRepository
	logger    *zap.Logger
}

// NewAdminService creates a new admin service
func NewAdminService(
	userRepo AdminUserRepository,
	quoteRepo AdminQuoteRepository,
	logger *zap.Logger,
) *adminService {
	return &adminService{
		userRepo:  userRepo,
		quoteRepo: quoteRepo,
		logger:    logger,
	}
}

// ListUsers retrieves every registered user. Admin only.
func (s *adminService) ListUsers(ctx context.Context, actorID int) ([]models.User, error) {
	if _, err := s.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}

	return s.userRepo.GetAll(ctx)
}

// ChangeUserRole sets a user's role. Admin only. An admin cannot demote
// themselves, which keeps the system from losing its last administrator.
func (s *adminService) ChangeUserRole(ctx context.Context, actorID, targetID int, roleValue string) (*models.User, error) {
	actor, err := s.requireAdmin(ctx, actorID)
	if err != nil {
		return nil, err
	}

	role := models.Role(roleValue)
	if !role.Valid() {
		return nil, apperrors.Validation("validation failed", map[string]string{
			"role": "role must be one of: user, moderator, admin",
		})
	}

	target, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	if actor.ID == target.ID && role != models.RoleAdmin {
		return nil, apperrors.Conflict("you cannot remove your own admin role")
	}

	if err := s.userRepo.UpdateRole(ctx, target.ID, role); err != nil {
		return nil, err
	}

	s.logger.Info("user role changed",
		zap.Int("actor_id", actor.ID),
		zap.Int("user_id", target.ID),
		zap.String("old_role", string(target.Role)),
		zap.String("new_role", string(role)))

	target.Role = role
	return target, nil
}

// ListAllQuotes retrieves every quote, trashed included, with owner info.
// Admin only.
func (s *adminService) ListAllQuotes(ctx context.Context, actorID int) ([]models.QuoteWithOwner, error) {
	if _, err := s.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}

	return s.quoteRepo.ListAllWithOwner(ctx)
}

// ListDeletedQuotes retrieves the soft-deleted quotes with owner info.
// Admin only.
func (s *adminService) ListDeletedQuotes(ctx context.Context, actorID int) ([]models.QuoteWithOwner, error) {
	if _, err := s.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}

	return s.quoteRepo.ListTrashedWithOwner(ctx)
}

// DeleteQuote soft-deletes any live quote regardless of owner. Admin only.
func (s *adminService) DeleteQuote(ctx context.Context, actorID, id int) error {
	if _, err := s.requireAdmin(ctx, actorID); err != nil {
		return err
	}

	return s.quoteRepo.SoftDelete(ctx, id)
}

// RestoreQuote brings a trashed quote back to the live set. Admin only.
// Restoring a quote that is not trashed is a conflict.
func (s *adminService) RestoreQuote(ctx context.Context, actorID, id int) (*models.Quote, error) {
	actor, err := s.requireAdmin(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !authz.CanRestoreQuote(actor) {
		return nil, apperrors.Forbidden("you do not have permission to restore quotes")
	}

	quote, err := s.quoteRepo.GetByIDWithTrashed(ctx, id)
	if err != nil {
		return nil, err
	}
	if !quote.Trashed() {
		return nil, apperrors.Conflict("quote is not deleted")
	}

	if err := s.quoteRepo.Restore(ctx, id); err != nil {
		return nil, err
	}

	quote.DeletedAt = nil
	return quote, nil
}

// ForceDeleteQuote permanently removes a quote in any state. Admin only.
// Unlike restore this accepts live quotes too, skipping the trash stage.
func (s *adminService) ForceDeleteQuote(ctx context.Context, actorID, id int) error {
	actor, err := s.requireAdmin(ctx, actorID)
	if err != nil {
		return err
	}
	if !authz.CanForceDeleteQuote(actor) {
		return apperrors.Forbidden("you do not have permission to permanently delete quotes")
	}

	return s.quoteRepo.ForceDelete(ctx, id)
}

// RestoreAllQuotes restores every trashed quote. Admin only. An empty
// trash restores zero quotes and is still a success.
func (s *adminService) RestoreAllQuotes(ctx context.Context, actorID int) (*models.BulkResult, error) {
	if _, err := s.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}

	count, err := s.quoteRepo.RestoreAllTrashed(ctx)
	if err != nil {
		return nil, err
	}

	s.logger.Info("trashed quotes restored",
		zap.Int("actor_id", actorID),
		zap.Int("count", count))

	return &models.BulkResult{Message: "all deleted quotes restored", Count: count}, nil
}

// ForceDeleteAllQuotes permanently removes every trashed quote. Admin
// only. Live quotes are untouched.
func (s *adminService) ForceDeleteAllQuotes(ctx context.Context, actorID int) (*models.BulkResult, error) {
	if _, err := s.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}

	count, err := s.quoteRepo.ForceDeleteAllTrashed(ctx)
	if err != nil {
		return nil, err
	}

	s.logger.Info("trashed quotes permanently deleted",
		zap.Int("actor_id", actorID),
		zap.Int("count", count))

	return &models.BulkResult{Message: "all deleted quotes permanently removed", Count: count}, nil
}

// requireAdmin resolves the actor and checks the admin policy. The role is
// read from the database on every call so demotions apply immediately.
func (s *adminService) requireAdmin(ctx context.Context, actorID int) (*models.User, error) {
	actor, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindNotFound {
			return nil, apperrors.Unauthenticated("user account no longer exists")
		}
		return nil, err
	}

	if !authz.CanAdminister(actor) {
		return nil, apperrors.Forbidden("admin access required")
	}

	return actor, nil
}
