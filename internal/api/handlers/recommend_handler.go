package handlers

import (
	"context"
	"net/http"

	"github.com/zatekoja/medicalnetwork/internal/domain/entities"
)

// SymptomSearcher runs the symptom to provider recommendation
type SymptomSearcher interface {
	Search(ctx context.Context, req entities.SymptomSearchRequest) (*entities.SearchResponse, error)
}

// ReportAnalyzer interprets uploaded medical reports
type ReportAnalyzer interface {
	Analyze(ctx context.Context, req entities.ReportAnalysisRequest) (*entities.ReportAnalysisResponse, error)
}

// RecommendHandler serves the two recommendation flows
type RecommendHandler struct {
	searcher SymptomSearcher
	analyzer ReportAnalyzer
}

// NewRecommendHandler creates a recommend handler
func NewRecommendHandler(searcher SymptomSearcher, analyzer ReportAnalyzer) *RecommendHandler {
	return &RecommendHandler{
		searcher: searcher,
		analyzer: analyzer,
	}
}

// Recommend handles POST /api/recommend
func (h *RecommendHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	var req entities.SymptomSearchRequest
	if err := decodeJSONBody(w, r, DefaultBodyLimit, &req); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	resp, err := h.searcher.Search(r.Context(), req)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, resp)
}

// Analyze handles POST /api/analyze
func (h *RecommendHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req entities.ReportAnalysisRequest
	if err := decodeJSONBody(w, r, AnalyzeBodyLimit, &req); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	resp, err := h.analyzer.Analyze(r.Context(), req)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, resp)
}
