package handlers_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/medicalnetwork/internal/api/handlers"
	"github.com/zatekoja/medicalnetwork/internal/domain/entities"
	apperrors "github.com/zatekoja/medicalnetwork/pkg/errors"
)

func TestRecommendHandler_Recommend(t *testing.T) {
	searcher := &stubSymptomSearcher{resp: &entities.SearchResponse{
		ResolvedLocation:     "الجيزة",
		RecommendedSpecialty: "باطنة",
		TemporaryAdvice:      []string{"اشرب سوائل"},
		DataAvailable:        true,
		Providers:            []entities.RankedProvider{},
	}}
	h := handlers.NewRecommendHandler(searcher, &stubAnalyzer{})

	body := `{"symptoms":"مغص وحموضة","location":"فيصل"}`
	w := httptest.NewRecorder()
	h.Recommend(w, httptest.NewRequest(http.MethodPost, "/api/recommend", strings.NewReader(body)))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "مغص وحموضة", searcher.last.Symptoms)
	assert.Equal(t, "فيصل", searcher.last.Location)

	var resp map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "باطنة", resp["recommended_specialty"])
	assert.Equal(t, true, resp["data_available"])
	assert.Equal(t, []interface{}{}, resp["providers"])
}

func TestRecommendHandler_Recommend_BadBody(t *testing.T) {
	h := handlers.NewRecommendHandler(&stubSymptomSearcher{}, &stubAnalyzer{})

	for _, body := range []string{"", "{not json", `{"symptoms":"` + strings.Repeat("x", int(handlers.DefaultBodyLimit)) + `"}`} {
		w := httptest.NewRecorder()
		h.Recommend(w, httptest.NewRequest(http.MethodPost, "/api/recommend", strings.NewReader(body)))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	}
}

func TestRecommendHandler_Recommend_ServiceErrors(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{apperrors.NewValidationError("symptoms are required"), http.StatusBadRequest},
		{apperrors.NewInternalError("boom", errors.New("x")), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		h := handlers.NewRecommendHandler(&stubSymptomSearcher{err: tt.err}, &stubAnalyzer{})
		w := httptest.NewRecorder()
		h.Recommend(w, httptest.NewRequest(http.MethodPost, "/api/recommend", strings.NewReader(`{"symptoms":"x"}`)))
		assert.Equal(t, tt.want, w.Code)
	}
}

func TestRecommendHandler_InternalErrorHidesDetail(t *testing.T) {
	h := handlers.NewRecommendHandler(&stubSymptomSearcher{err: errors.New("secret detail")}, &stubAnalyzer{})

	w := httptest.NewRecorder()
	h.Recommend(w, httptest.NewRequest(http.MethodPost, "/api/recommend", strings.NewReader(`{"symptoms":"x"}`)))

	assert.NotContains(t, w.Body.String(), "secret detail")
}

func TestRecommendHandler_Analyze(t *testing.T) {
	analyzer := &stubAnalyzer{resp: &entities.ReportAnalysisResponse{
		Interpretation:       "نتيجة طبيعية",
		RecommendedSpecialty: "باطنة",
		TemporaryAdvice:      []string{},
		Providers:            []entities.RankedProvider{},
	}}
	h := handlers.NewRecommendHandler(&stubSymptomSearcher{}, analyzer)

	body := `{"files":[{"mime_type":"image/png","data":"aGVsbG8="}],"location":"الجيزة"}`
	w := httptest.NewRecorder()
	h.Analyze(w, httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(body)))

	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, analyzer.last.Files, 1)
	assert.Equal(t, "image/png", analyzer.last.Files[0].MimeType)
	assert.Equal(t, "الجيزة", analyzer.last.Location)
}

func TestRecommendHandler_Analyze_Errors(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{apperrors.NewUnavailableError("report analysis is not configured"), http.StatusServiceUnavailable},
		{apperrors.NewExternalError("report analysis failed", errors.New("timeout")), http.StatusBadGateway},
		{apperrors.NewValidationError("at least one file is required"), http.StatusBadRequest},
	}
	for _, tt := range tests {
		h := handlers.NewRecommendHandler(&stubSymptomSearcher{}, &stubAnalyzer{err: tt.err})
		w := httptest.NewRecorder()
		h.Analyze(w, httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(`{"files":[]}`)))
		assert.Equal(t, tt.want, w.Code)
	}
}
