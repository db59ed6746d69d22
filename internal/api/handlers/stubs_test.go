package handlers_test

import (
	"context"

	"github.com/zatekoja/medicalnetwork/internal/application/services"
	"github.com/zatekoja/medicalnetwork/internal/domain/entities"
)

type stubDirectory struct {
	records   []entities.ProviderRecord
	err       error
	stats     services.DirectoryStats
	reloadErr error
	reloads   int
}

func (s *stubDirectory) Records(ctx context.Context) ([]entities.ProviderRecord, error) {
	return s.records, s.err
}

func (s *stubDirectory) Stats() services.DirectoryStats {
	return s.stats
}

func (s *stubDirectory) Reload(ctx context.Context) (services.DirectoryStats, error) {
	s.reloads++
	return s.stats, s.reloadErr
}

type stubProviderSearcher struct {
	last entities.ProviderQuery
	resp *entities.ProviderListResponse
	err  error
}

func (s *stubProviderSearcher) SearchByLocation(ctx context.Context, query entities.ProviderQuery) (*entities.ProviderListResponse, error) {
	s.last = query
	return s.resp, s.err
}

type stubIndex struct {
	lastQuery string
	lastLimit int
	records   []entities.ProviderRecord
	err       error
}

func (s *stubIndex) IndexAll(ctx context.Context, records []entities.ProviderRecord) error {
	return nil
}

func (s *stubIndex) Suggest(ctx context.Context, query string, limit int) ([]entities.ProviderRecord, error) {
	s.lastQuery, s.lastLimit = query, limit
	return s.records, s.err
}

type stubSymptomSearcher struct {
	last entities.SymptomSearchRequest
	resp *entities.SearchResponse
	err  error
}

func (s *stubSymptomSearcher) Search(ctx context.Context, req entities.SymptomSearchRequest) (*entities.SearchResponse, error) {
	s.last = req
	return s.resp, s.err
}

type stubAnalyzer struct {
	last entities.ReportAnalysisRequest
	resp *entities.ReportAnalysisResponse
	err  error
}

func (s *stubAnalyzer) Analyze(ctx context.Context, req entities.ReportAnalysisRequest) (*entities.ReportAnalysisResponse, error) {
	s.last = req
	return s.resp, s.err
}

type stubAnalytics struct {
	events    []*entities.SearchEvent
	lastLimit int
}

func (s *stubAnalytics) LogEvent(ctx context.Context, event *entities.SearchEvent) error {
	return nil
}

func (s *stubAnalytics) GetZeroResultSearches(ctx context.Context, limit int) ([]*entities.SearchEvent, error) {
	s.lastLimit = limit
	return s.events, nil
}
