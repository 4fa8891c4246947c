package handlers

import (
	"net/http"

	"github.com/rs/zerolog"

	"kakeibo/internal/api/middleware"
)

// CategoriesHandler serves category reference data.
type CategoriesHandler struct {
	repo CategoryRepository
	log  zerolog.Logger
}

func NewCategoriesHandler(repo CategoryRepository, log zerolog.Logger) *CategoriesHandler {
	return &CategoriesHandler{repo: repo, log: log}
}

// List handles GET /api/categories: defaults plus the user's own.
func (h *CategoriesHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		middleware.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	cats, err := h.repo.ListForUser(r.Context(), userID)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list categories")
		middleware.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	middleware.WriteJSON(w, http.StatusOK, cats)
}
