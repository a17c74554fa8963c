package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Nizarberyan/youquote-api/internal/models"
)

// AuthorService is the interface that wraps methods for author browsing.
type AuthorService interface {
	// Method ListAuthors retrieves the distinct author names across live
	// quotes.
	ListAuthors(ctx context.Context) ([]string, error)
	// Method GetAuthorQuotes retrieves the live quotes attributed to one
	// author. Hyphens in the name are treated as spaces. An author with no
	// live quotes is reported as not found.
	GetAuthorQuotes(ctx context.Context, name string) (*models.AuthorQuotesResponse, error)
}

// AuthorHandler handles author browsing HTTP requests
type AuthorHandler struct {
	BaseHandler
	authorService AuthorService
}

// NewAuthorHandler creates a new author handler
func NewAuthorHandler(
	authorService AuthorService,
	logger *zap.Logger,
) *AuthorHandler {
	return &AuthorHandler{
		BaseHandler:   BaseHandler{Logger: logger},
		authorService: authorService,
	}
}

// RegisterRoutes registers all author handler routes
// Note: This assumes the router is already scoped to /api/v1
func (h *AuthorHandler) RegisterRoutes(r chi.Router) {
	r.Route("/authors", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/{name}", h.Get)
	})
}

// List handles GET /authors
// @Summary List authors
// @Description List the distinct author names across live quotes.
// @Tags authors
// @Produce json
// @Success 200 {array} string "Author names"
// @Router /authors [get]
func (h *AuthorHandler) List(w http.ResponseWriter, r *http.Request) {
	authors, err := h.authorService.ListAuthors(r.Context())
	if err != nil {
		h.RespondAppError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, authors)
}

// Get handles GET /authors/{name}
// @Summary Get an author's quotes
// @Description Return the live quotes attributed to one author. Hyphens in the name match spaces, so /authors/mark-twain finds "Mark Twain".
// @Tags authors
// @Produce json
// @Param name path string true "Author name"
// @Success 200 {object} models.AuthorQuotesResponse "Author and quotes"
// @Failure 404 {object} ErrorResponse "Author not found"
// @Router /authors/{name} [get]
func (h *AuthorHandler) Get(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	resp, err := h.authorService.GetAuthorQuotes(r.Context(), name)
	if err != nil {
		h.RespondAppError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, resp)
}
