package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Nizarberyan/youquote-api/internal/auth"
	"github.com/Nizarberyan/youquote-api/internal/models"
)

// AdminService is the interface that wraps methods for the admin surface.
// Every method resolves the actor's role from the database, so a forbidden
// error is returned when the actor is not an admin even if their token
// still carries an admin claim.
type AdminService interface {
	// Method ListUsers retrieves every registered user.
	ListUsers(ctx context.Context, actorID int) ([]models.User, error)
	// Method ChangeUserRole sets a user's role. An admin demoting
	// themselves is rejected with a conflict error.
	ChangeUserRole(ctx context.Context, actorID, targetID int, role string) (*models.User, error)
	// Method ListAllQuotes retrieves every quote, trashed included, with
	// owner info.
	ListAllQuotes(ctx context.Context, actorID int) ([]models.QuoteWithOwner, error)
	// Method ListDeletedQuotes retrieves the soft-deleted quotes with
	// owner info.
	ListDeletedQuotes(ctx context.Context, actorID int) ([]models.QuoteWithOwner, error)
	// Method DeleteQuote soft-deletes any live quote regardless of owner.
	DeleteQuote(ctx context.Context, actorID, id int) error
	// Method RestoreQuote brings a trashed quote back to the live set.
	// Restoring a quote that is not trashed is a conflict.
	RestoreQuote(ctx context.Context, actorID, id int) (*models.Quote, error)
	// Method ForceDeleteQuote permanently removes a quote in any state.
	ForceDeleteQuote(ctx context.Context, actorID, id int) error
	// Method RestoreAllQuotes restores every trashed quote and reports the
	// count. An empty trash is still a success.
	RestoreAllQuotes(ctx context.Context, actorID int) (*models.BulkResult, error)
	// Method ForceDeleteAllQuotes permanently removes every trashed quote
	// and reports the count.
	ForceDeleteAllQuotes(ctx context.Context, actorID int) (*models.BulkResult, error)
}

// AdminHandler handles admin and moderation HTTP requests
type AdminHandler struct {
	BaseHandler
	adminService AdminService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(
	adminService AdminService,
	logger *zap.Logger,
) *AdminHandler {
	return &AdminHandler{
		BaseHandler:  BaseHandler{Logger: logger},
		adminService: adminService,
	}
}

// RegisterRoutes registers all admin handler routes
// Note: This assumes the router is already scoped to /api/v1 and behind
// the auth middleware
func (h *AdminHandler) RegisterRoutes(r chi.Router) {
	r.Route("/admin", func(r chi.Router) {
		r.Get("/users", h.ListUsers)
		r.Patch("/users/{id}/role", h.ChangeRole)

		r.Route("/quotes", func(r chi.Router) {
			r.Get("/", h.ListQuotes)
			r.Get("/deleted", h.ListDeletedQuotes)
			r.Post("/restore-all", h.RestoreAll)
			r.Delete("/force-all", h.ForceDeleteAll)
			r.Delete("/{id}", h.DeleteQuote)
			r.Post("/{id}/restore", h.RestoreQuote)
			r.Delete("/{id}/force", h.ForceDeleteQuote)
		})
	})
}

// ListUsers handles GET /admin/users
// @Summary List users
// @Description List every registered user. Admin only.
// @Tags admin
// @Produce json
// @Success 200 {array} models.User "Users"
// @Failure 401 {object} ErrorResponse "Unauthenticated"
// @Failure 403 {object} ErrorResponse "Admin access required"
// @Security BearerAuth
// @Router /admin/users [get]
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	actorID, ok := auth.GetUserID(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	users, err := h.adminService.ListUsers(r.Context(), actorID)
	if err != nil {
		h.RespondAppError(w, err)
		return
	}
	if users == nil {
		users = []models.User{}
	}

	h.RespondJSON(w, http.StatusOK, users)
}

// ChangeRole handles PATCH /admin/users/{id}/role
// @Summary Change a user's role
// @Description Set a user's role to user, moderator or admin. Admin only. An admin cannot remove their own admin role.
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param request body models.ChangeRoleRequest true "Role change request"
// @Success 200 {object} models.User "Updated user"
// @Failure 400 {object} ErrorResponse "Invalid request"
// @Failure 401 {object} ErrorResponse "Unauthenticated"
// @Failure 403 {object} ErrorResponse "Admin access required"
// @Failure 404 {object} ErrorResponse "User not found"
// @Failure 409 {object} ErrorResponse "Self-demotion rejected"
// @Failure 422 {object} ErrorResponse "Unknown role"
// @Security BearerAuth
// @Router /admin/users/{id}/role [patch]
func (h *AdminHandler) ChangeRole(w http.ResponseWriter, r *http.Request) {
	actorID, ok := auth.GetUserID(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	targetID, ok := h.idParam(w, r, "invalid user id")
	if !ok {
		return
	}

	var req models.ChangeRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.adminService.ChangeUserRole(r.Context(), actorID, targetID, req.Role)
	if err != nil {
		h.RespondAppError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, user)
}

// ListQuotes handles GET /admin/quotes
// @Summary List all quotes
// @Description List every quote, trashed included, with owner info. Admin only.
// @Tags admin
// @Produce json
// @Success 200 {array} models.QuoteWithOwner "Quotes"
// @Failure 401 {object} ErrorResponse "Unauthenticated"
// @Failure 403 {object} ErrorResponse "Admin access required"
// @Security BearerAuth
// @Router /admin/quotes [get]
func (h *AdminHandler) ListQuotes(w http.ResponseWriter, r *http.Request) {
	actorID, ok := auth.GetUserID(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	quotes, err := h.adminService.ListAllQuotes(r.Context(), actorID)
	if err != nil {
		h.RespondAppError(w, err)
		return
	}
	if quotes == nil {
		quotes = []models.QuoteWithOwner{}
	}

	h.RespondJSON(w, http.StatusOK, quotes)
}

// ListDeletedQuotes handles GET /admin/quotes/deleted
// @Summary List deleted quotes
// @Description List the soft-deleted quotes with owner info. Admin only.
// @Tags admin
// @Produce json
// @Success 200 {array} models.QuoteWithOwner "Trashed quotes"
// @Failure 401 {object} ErrorResponse "Unauthenticated"
// @Failure 403 {object} ErrorResponse "Admin access required"
// @Security BearerAuth
// @Router /admin/quotes/deleted [get]
func (h *AdminHandler) ListDeletedQuotes(w http.ResponseWriter, r *http.Request) {
	actorID, ok := auth.GetUserID(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	quotes, err := h.adminService.ListDeletedQuotes(r.Context(), actorID)
	if err != nil {
		h.RespondAppError(w, err)
		return
	}
	if quotes == nil {
		quotes = []models.QuoteWithOwner{}
	}

	h.RespondJSON(w, http.StatusOK, quotes)
}

// DeleteQuote handles DELETE /admin/quotes/{id}
// @Summary Delete any quote
// @Description Soft-delete any live quote regardless of owner. Admin only.
// @Tags admin
// @Produce json
// @Param id path int true "Quote ID"
// @Success 200 {object} map[string]string "Quote deleted"
// @Failure 401 {object} ErrorResponse "Unauthenticated"
// @Failure 403 {object} ErrorResponse "Admin access required"
// @Failure 404 {object} ErrorResponse "Quote not found"
// @Security BearerAuth
// @Router /admin/quotes/{id} [delete]
func (h *AdminHandler) DeleteQuote(w http.ResponseWriter, r *http.Request) {
	actorID, ok := auth.GetUserID(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	id, ok := h.idParam(w, r, "invalid quote id")
	if !ok {
		return
	}

	if err := h.adminService.DeleteQuote(r.Context(), actorID, id); err != nil {
		h.RespondAppError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, map[string]string{"message": "quote deleted"})
}

// RestoreQuote handles POST /admin/quotes/{id}/restore
// @Summary Restore a deleted quote
// @Description Bring a soft-deleted quote back to the live set. Admin only.
// @Tags admin
// @Produce json
// @Param id path int true "Quote ID"
// @Success 200 {object} models.Quote "Restored quote"
// @Failure 401 {object} ErrorResponse "Unauthenticated"
// @Failure 403 {object} ErrorResponse "Admin access required"
// @Failure 404 {object} ErrorResponse "Quote not found"
// @Failure 409 {object} ErrorResponse "Quote is not deleted"
// @Security BearerAuth
// @Router /admin/quotes/{id}/restore [post]
func (h *AdminHandler) RestoreQuote(w http.ResponseWriter, r *http.Request) {
	actorID, ok := auth.GetUserID(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	id, ok := h.idParam(w, r, "invalid quote id")
	if !ok {
		return
	}

	quote, err := h.adminService.RestoreQuote(r.Context(), actorID, id)
	if err != nil {
		h.RespondAppError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, quote)
}

// ForceDeleteQuote handles DELETE /admin/quotes/{id}/force
// @Summary Permanently delete a quote
// @Description Permanently remove a quote in any state. The quote and its likes and favorites are gone for good. Admin only.
// @Tags admin
// @Produce json
// @Param id path int true "Quote ID"
// @Success 200 {object} map[string]string "Quote permanently deleted"
// @Failure 401 {object} ErrorResponse "Unauthenticated"
// @Failure 403 {object} ErrorResponse "Admin access required"
// @Failure 404 {object} ErrorResponse "Quote not found"
// @Security BearerAuth
// @Router /admin/quotes/{id}/force [delete]
func (h *AdminHandler) ForceDeleteQuote(w http.ResponseWriter, r *http.Request) {
	actorID, ok := auth.GetUserID(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	id, ok := h.idParam(w, r, "invalid quote id")
	if !ok {
		return
	}

	if err := h.adminService.ForceDeleteQuote(r.Context(), actorID, id); err != nil {
		h.RespondAppError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, map[string]string{"message": "quote permanently deleted"})
}

// RestoreAll handles POST /admin/quotes/restore-all
// @Summary Restore all deleted quotes
// @Description Restore every soft-deleted quote and report the count. Admin only.
// @Tags admin
// @Produce json
// @Success 200 {object} models.BulkResult "Restore result"
// @Failure 401 {object} ErrorResponse "Unauthenticated"
// @Failure 403 {object} ErrorResponse "Admin access required"
// @Security BearerAuth
// @Router /admin/quotes/restore-all [post]
func (h *AdminHandler) RestoreAll(w http.ResponseWriter, r *http.Request) {
	actorID, ok := auth.GetUserID(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	result, err := h.adminService.RestoreAllQuotes(r.Context(), actorID)
	if err != nil {
		h.RespondAppError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, result)
}

// ForceDeleteAll handles DELETE /admin/quotes/force-all
// @Summary Permanently delete all trashed quotes
// @Description Permanently remove every soft-deleted quote and report the count. Live quotes are untouched. Admin only.
// @Tags admin
// @Produce json
// @Success 200 {object} models.BulkResult "Deletion result"
// @Failure 401 {object} ErrorResponse "Unauthenticated"
// @Failure 403 {object} ErrorResponse "Admin access required"
// @Security BearerAuth
// @Router /admin/quotes/force-all [delete]
func (h *AdminHandler) ForceDeleteAll(w http.ResponseWriter, r *http.Request) {
	actorID, ok := auth.GetUserID(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	result, err := h.adminService.ForceDeleteAllQuotes(r.Context(), actorID)
	if err != nil {
		h.RespondAppError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, result)
}

// idParam parses the {id} route parameter, responding 400 on garbage
func (h *AdminHandler) idParam(w http.ResponseWriter, r *http.Request, message string) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id < 1 {
		h.RespondError(w, http.StatusBadRequest, message)
		return 0, false
	}

	return id, true
}
