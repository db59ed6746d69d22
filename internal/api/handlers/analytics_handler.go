package handlers

import (
	"net/http"
	"strconv"

	"github.com/zatekoja/medicalnetwork/internal/domain/entities"
	"github.com/zatekoja/medicalnetwork/internal/domain/repositories"
	apperrors "github.com/zatekoja/medicalnetwork/pkg/errors"
)

// AnalyticsHandler exposes stored search analytics
type AnalyticsHandler struct {
	repo repositories.SearchAnalyticsRepository
}

// NewAnalyticsHandler creates an analytics handler; repo may be nil
func NewAnalyticsHandler(repo repositories.SearchAnalyticsRepository) *AnalyticsHandler {
	return &AnalyticsHandler{repo: repo}
}

// GetZeroResultSearches handles GET /api/analytics/zero-result-searches
func (h *AnalyticsHandler) GetZeroResultSearches(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		respondWithAppError(w, r, apperrors.NewUnavailableError("search analytics are not configured"))
		return
	}

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	events, err := h.repo.GetZeroResultSearches(r.Context(), limit)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	if events == nil {
		events = []*entities.SearchEvent{}
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"searches": events,
		"count":    len(events),
	})
}
