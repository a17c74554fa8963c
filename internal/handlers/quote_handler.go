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

// QuoteService is the interface that wraps methods for quote business logic.
type QuoteService interface {
	// Method List retrieves live quotes, optionally filtered by word length
	// bounds. A "nil" bound means unbounded on that side.
	List(ctx context.Context, minLength, maxLength *int) ([]models.Quote, error)
	// Method Random retrieves count live quotes in random order. A count of
	// 0 means the default of one quote. An empty table is reported as a
	// not-found error.
	Random(ctx context.Context, count int) ([]models.Quote, error)
	// Method Popular retrieves the most viewed live quotes. A limit of 0
	// means the default of ten quotes.
	Popular(ctx context.Context, limit int) ([]models.Quote, error)
	// Method Get retrieves a live quote by ID and counts the view toward
	// its popularity.
	Get(ctx context.Context, id int) (*models.Quote, error)
	// Method Create stores a new quote owned by the actor.
	Create(ctx context.Context, actorID int, req *models.CreateQuoteRequest) (*models.Quote, error)
	// Method Update applies a partial edit to a quote. Only the owner or
	// an admin may edit.
	Update(ctx context.Context, actorID, id int, req *models.UpdateQuoteRequest) (*models.Quote, error)
	// Method Delete soft-deletes a quote. Only the owner or an admin may
	// delete.
	Delete(ctx context.Context, actorID, id int) error
	// Method Toggle flips the actor's like or favorite on a live quote and
	// returns the resulting state.
	Toggle(ctx context.Context, actorID, quoteID int, kind models.ReactionKind) (*models.ToggleResponse, error)
}

// maxListingSize caps the random and popular listing sizes
const maxListingSize = 50

// QuoteHandler handles quote-related HTTP requests
type QuoteHandler struct {
	BaseHandler
	quoteService QuoteService
}

// NewQuoteHandler creates a new quote handler
func NewQuoteHandler(
	quoteService QuoteService,
	logger *zap.Logger,
) *QuoteHandler {
	return &QuoteHandler{
		BaseHandler:  BaseHandler{Logger: logger},
		quoteService: quoteService,
	}
}

// RegisterRoutes registers the public quote routes
// Note: This assumes the router is already scoped to /api/v1
func (h *QuoteHandler) RegisterRoutes(r chi.Router) {
	r.Route("/quotes", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/random", h.Random)
		r.Get("/popular", h.Popular)
		r.Get("/{id}", h.Get)
	})
}

// RegisterProtectedRoutes registers the quote routes that require a valid
// access token
func (h *QuoteHandler) RegisterProtectedRoutes(r chi.Router) {
	r.Route("/quotes", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Put("/{id}", h.Update)
		r.Patch("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
		r.Post("/{id}/like", h.ToggleLike)
		r.Post("/{id}/favorite", h.ToggleFavorite)
	})
}

// List handles GET /quotes
// @Summary List quotes
// @Description List live quotes, optionally filtered by word count bounds.
// @Tags quotes
// @Produce json
// @Param min_length query int false "Minimum word count"
// @Param max_length query int false "Maximum word count"
// @Success 200 {array} models.Quote "Quotes"
// @Failure 400 {object} ErrorResponse "Malformed or negative query parameter"
// @Router /quotes [get]
func (h *QuoteHandler) List(w http.ResponseWriter, r *http.Request) {
	minLength, ok := h.optionalIntParam(w, r, "min_length")
	if !ok {
		return
	}
	maxLength, ok := h.optionalIntParam(w, r, "max_length")
	if !ok {
		return
	}
	if minLength != nil && *minLength < 0 {
		h.RespondError(w, http.StatusBadRequest, "min_length must not be negative")
		return
	}
	if maxLength != nil && *maxLength < 0 {
		h.RespondError(w, http.StatusBadRequest, "max_length must not be negative")
		return
	}

	quotes, err := h.quoteService.List(r.Context(), minLength, maxLength)
	if err != nil {
		h.RespondAppError(w, err)
		return
	}
	if quotes == nil {
		quotes = []models.Quote{}
	}

	h.RespondJSON(w, http.StatusOK, quotes)
}

// Random handles GET /quotes/random
// @Summary Random quotes
// @Description Return one or more live quotes in random order.
// @Tags quotes
// @Produce json
// @Param count query int false "Number of quotes (default 1, max 50)"
// @Success 200 {array} models.Quote "Quotes"
// @Failure 400 {object} ErrorResponse "Malformed or out-of-range count"
// @Failure 404 {object} ErrorResponse "No quotes available"
// @Router /quotes/random [get]
func (h *QuoteHandler) Random(w http.ResponseWriter, r *http.Request) {
	count, ok := h.optionalIntParam(w, r, "count")
	if !ok {
		return
	}

	requested := 0
	if count != nil {
		if *count < 1 || *count > maxListingSize {
			h.RespondError(w, http.StatusBadRequest, "count must be between 1 and 50")
			return
		}
		requested = *count
	}

	quotes, err := h.quoteService.Random(r.Context(), requested)
	if err != nil {
		h.RespondAppError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, quotes)
}

// Popular handles GET /quotes/popular
// @Summary Popular quotes
// @Description Return the most viewed live quotes, ordered by popularity.
// @Tags quotes
// @Produce json
// @Param limit query int false "Number of quotes (default 10, max 50)"
// @Success 200 {array} models.Quote "Quotes"
// @Failure 400 {object} ErrorResponse "Malformed or out-of-range limit"
// @Router /quotes/popular [get]
func (h *QuoteHandler) Popular(w http.ResponseWriter, r *http.Request) {
	limit, ok := h.optionalIntParam(w, r, "limit")
	if !ok {
		return
	}

	requested := 0
	if limit != nil {
		if *limit < 1 || *limit > maxListingSize {
			h.RespondError(w, http.StatusBadRequest, "limit must be between 1 and 50")
			return
		}
		requested = *limit
	}

	quotes, err := h.quoteService.Popular(r.Context(), requested)
	if err != nil {
		h.RespondAppError(w, err)
		return
	}
	if quotes == nil {
		quotes = []models.Quote{}
	}

	h.RespondJSON(w, http.StatusOK, quotes)
}

// Get handles GET /quotes/{id}
// @Summary Get a quote
// @Description Return a single live quote. Each successful request counts toward the quote's popularity.
// @Tags quotes
// @Produce json
// @Param id path int true "Quote ID"
// @Success 200 {object} models.Quote "Quote"
// @Failure 400 {object} ErrorResponse "Invalid quote ID"
// @Failure 404 {object} ErrorResponse "Quote not found"
// @Router /quotes/{id} [get]
func (h *QuoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.quoteIDParam(w, r)
	if !ok {
		return
	}

	quote, err := h.quoteService.Get(r.Context(), id)
	if err != nil {
		h.RespondAppError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, quote)
}

// Create handles POST /quotes
// @Summary Create a quote
// @Description Store a new quote owned by the authenticated user.
// @Tags quotes
// @Accept json
// @Produce json
// @Param request body models.CreateQuoteRequest true "Quote creation request"
// @Success 201 {object} models.Quote "Created quote"
// @Failure 400 {object} ErrorResponse "Invalid request body"
// @Failure 401 {object} ErrorResponse "Unauthenticated"
// @Failure 422 {object} ErrorResponse "Validation failed"
// @Security BearerAuth
// @Router /quotes [post]
func (h *QuoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req models.CreateQuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	quote, err := h.quoteService.Create(r.Context(), userID, &req)
	if err != nil {
		h.RespondAppError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusCreated, quote)
}

// Update handles PUT /quotes/{id} and PATCH /quotes/{id}
// @Summary Update a quote
// @Description Apply a partial edit to a quote. Only the owner or an admin may edit. Omitted fields are left unchanged.
// @Tags quotes
// @Accept json
// @Produce json
// @Param id path int true "Quote ID"
// @Param request body models.UpdateQuoteRequest true "Quote update request"
// @Success 200 {object} models.Quote "Updated quote"
// @Failure 400 {object} ErrorResponse "Invalid request"
// @Failure 401 {object} ErrorResponse "Unauthenticated"
// @Failure 403 {object} ErrorResponse "Not the owner"
// @Failure 404 {object} ErrorResponse "Quote not found"
// @Failure 422 {object} ErrorResponse "Validation failed"
// @Security BearerAuth
// @Router /quotes/{id} [put]
func (h *QuoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	id, ok := h.quoteIDParam(w, r)
	if !ok {
		return
	}

	var req models.UpdateQuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	quote, err := h.quoteService.Update(r.Context(), userID, id, &req)
	if err != nil {
		h.RespondAppError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, quote)
}

// Delete handles DELETE /quotes/{id}
// @Summary Delete a quote
// @Description Soft-delete a quote. Only the owner or an admin may delete. The quote leaves all public listings but can be restored by an admin.
// @Tags quotes
// @Produce json
// @Param id path int true "Quote ID"
// @Success 200 {object} map[string]string "Quote deleted"
// @Failure 400 {object} ErrorResponse "Invalid quote ID"
// @Failure 401 {object} ErrorResponse "Unauthenticated"
// @Failure 403 {object} ErrorResponse "Not the owner"
// @Failure 404 {object} ErrorResponse "Quote not found"
// @Security BearerAuth
// @Router /quotes/{id} [delete]
func (h *QuoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	id, ok := h.quoteIDParam(w, r)
	if !ok {
		return
	}

	if err := h.quoteService.Delete(r.Context(), userID, id); err != nil {
		h.RespondAppError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, map[string]string{"message": "quote deleted"})
}

// ToggleLike handles POST /quotes/{id}/like
// @Summary Toggle a like
// @Description Flip the authenticated user's like on a quote. Returns the resulting state and the quote's like count.
// @Tags quotes
// @Produce json
// @Param id path int true "Quote ID"
// @Success 200 {object} models.ToggleResponse "Resulting like state"
// @Failure 400 {object} ErrorResponse "Invalid quote ID"
// @Failure 401 {object} ErrorResponse "Unauthenticated"
// @Failure 404 {object} ErrorResponse "Quote not found"
// @Security BearerAuth
// @Router /quotes/{id}/like [post]
func (h *QuoteHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, models.ReactionLike)
}

// ToggleFavorite handles POST /quotes/{id}/favorite
// @Summary Toggle a favorite
// @Description Flip the authenticated user's favorite on a quote. Returns the resulting state and the quote's favorite count.
// @Tags quotes
// @Produce json
// @Param id path int true "Quote ID"
// @Success 200 {object} models.ToggleResponse "Resulting favorite state"
// @Failure 400 {object} ErrorResponse "Invalid quote ID"
// @Failure 401 {object} ErrorResponse "Unauthenticated"
// @Failure 404 {object} ErrorResponse "Quote not found"
// @Security BearerAuth
// @Router /quotes/{id}/favorite [post]
func (h *QuoteHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, models.ReactionFavorite)
}

// toggle is the shared implementation of the like and favorite toggles
func (h *QuoteHandler) toggle(w http.ResponseWriter, r *http.Request, kind models.ReactionKind) {
	userID, ok := auth.GetUserID(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	id, ok := h.quoteIDParam(w, r)
	if !ok {
		return
	}

	resp, err := h.quoteService.Toggle(r.Context(), userID, id, kind)
	if err != nil {
		h.RespondAppError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, resp)
}

// quoteIDParam parses the {id} route parameter, responding 400 on garbage
func (h *QuoteHandler) quoteIDParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id < 1 {
		h.RespondError(w, http.StatusBadRequest, "invalid quote id")
		return 0, false
	}

	return id, true
}

// optionalIntParam parses an optional integer query parameter, responding
// 400 when the value is present but not an integer
func (h *QuoteHandler) optionalIntParam(w http.ResponseWriter, r *http.Request, name string) (*int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, true
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, name+" must be an integer")
		return nil, false
	}

	return &value, true
}
