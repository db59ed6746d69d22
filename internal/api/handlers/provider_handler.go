package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/zatekoja/medicalnetwork/internal/domain/entities"
	"github.com/zatekoja/medicalnetwork/internal/domain/repositories"
	apperrors "github.com/zatekoja/medicalnetwork/pkg/errors"
)

const (
	defaultSuggestLimit = 10
	maxSuggestLimit     = 50
)

// ProviderSearcher ranks providers for an explicit location and specialty
type ProviderSearcher interface {
	SearchByLocation(ctx context.Context, query entities.ProviderQuery) (*entities.ProviderListResponse, error)
}

// ProviderHandler handles provider lookups
type ProviderHandler struct {
	searcher ProviderSearcher
	index    repositories.ProviderIndexRepository
}

// NewProviderHandler creates a provider handler; index may be nil
func NewProviderHandler(searcher ProviderSearcher, index repositories.ProviderIndexRepository) *ProviderHandler {
	return &ProviderHandler{
		searcher: searcher,
		index:    index,
	}
}

// ListProviders handles GET /api/providers?location=&specialty=
func (h *ProviderHandler) ListProviders(w http.ResponseWriter, r *http.Request) {
	query := entities.ProviderQuery{
		Location:  r.URL.Query().Get("location"),
		Specialty: r.URL.Query().Get("specialty"),
	}

	resp, err := h.searcher.SearchByLocation(r.Context(), query)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, resp)
}

// SuggestProviders handles GET /api/providers/suggest?q=&limit=
func (h *ProviderHandler) SuggestProviders(w http.ResponseWriter, r *http.Request) {
	if h.index == nil {
		respondWithAppError(w, r, apperrors.NewUnavailableError("suggestions are not configured"))
		return
	}

	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		respondWithAppError(w, r, apperrors.NewValidationError("q is required"))
		return
	}

	limit := defaultSuggestLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			respondWithAppError(w, r, apperrors.NewValidationError("limit must be a positive integer"))
			return
		}
		limit = min(parsed, maxSuggestLimit)
	}

	records, err := h.index.Suggest(r.Context(), q, limit)
	if err != nil {
		respondWithAppError(w, r, apperrors.NewExternalError("suggest index query failed", err))
		return
	}
	if records == nil {
		records = []entities.ProviderRecord{}
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"query":     q,
		"providers": records,
		"count":     len(records),
	})
}
