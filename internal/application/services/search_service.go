package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/zatekoja/medicalnetwork/internal/domain/entities"
	"github.com/zatekoja/medicalnetwork/internal/domain/repositories"
	"github.com/zatekoja/medicalnetwork/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/medicalnetwork/pkg/errors"
)

const (
	maxSymptomsRunes = 2000
	analyticsTimeout = 5 * time.Second
)

// SearchService answers symptom searches and location/specialty filters
type SearchService struct {
	directory  DirectoryReader
	resolver   *LocationResolver
	classifier *SpecialtyClassifier
	ranker     *ProviderRankingService
	analytics  repositories.SearchAnalyticsRepository
}

// NewSearchService creates a search service. analytics may be nil.
func NewSearchService(
	directory DirectoryReader,
	resolver *LocationResolver,
	classifier *SpecialtyClassifier,
	ranker *ProviderRankingService,
	analytics repositories.SearchAnalyticsRepository,
) *SearchService {
	return &SearchService{
		directory:  directory,
		resolver:   resolver,
		classifier: classifier,
		ranker:     ranker,
		analytics:  analytics,
	}
}

// Search classifies the symptoms, resolves the location and ranks matching
// providers. A directory that failed to load yields DataAvailable=false and
// no providers rather than an error.
func (s *SearchService) Search(ctx context.Context, req entities.SymptomSearchRequest) (*entities.SearchResponse, error) {
	ctx, span := observability.StartSpan(ctx, "SearchService.Search")
	defer span.End()

	symptoms := strings.TrimSpace(req.Symptoms)
	if symptoms == "" {
		return nil, apperrors.NewValidationError("symptoms are required")
	}
	if len([]rune(symptoms)) > maxSymptomsRunes {
		return nil, apperrors.NewValidationError("symptoms text is too long")
	}

	start := time.Now()
	records, loadErr := s.directory.Records(ctx)
	available := DistinctSpecialties(records)

	var (
		region         string
		classification entities.ClassificationResult
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		region = s.resolver.Resolve(req.Location, records)
		return nil
	})
	g.Go(func() error {
		classification = s.classifier.Classify(gctx, symptoms, available)
		return nil
	})
	_ = g.Wait()

	target := classification.RecommendedSpecialty
	if classification.IsEmergency {
		target = EmergencyProviderType
	}
	ranked := s.ranker.Rank(records, region, target)

	resp := &entities.SearchResponse{
		ResolvedLocation:     region,
		RecommendedSpecialty: classification.RecommendedSpecialty,
		DoctorExplanation:    classification.Explanation,
		TemporaryAdvice:      classification.TemporaryAdvice,
		IsEmergency:          classification.IsEmergency,
		DataAvailable:        dataAvailable(records, loadErr),
		Providers:            ranked,
	}

	s.logEvent(ctx, &entities.SearchEvent{
		Kind:                 entities.SearchEventKindSymptoms,
		Symptoms:             symptoms,
		Location:             req.Location,
		ResolvedLocation:     region,
		RecommendedSpecialty: classification.RecommendedSpecialty,
		ClassificationSource: string(classification.Source),
		ResultCount:          len(ranked),
		LatencyMs:            int(time.Since(start).Milliseconds()),
	})
	return resp, nil
}

// SearchByLocation ranks providers for a location and an explicit
// specialty without running the classifier.
func (s *SearchService) SearchByLocation(ctx context.Context, query entities.ProviderQuery) (*entities.ProviderListResponse, error) {
	ctx, span := observability.StartSpan(ctx, "SearchService.SearchByLocation")
	defer span.End()

	if strings.TrimSpace(query.Location) == "" && strings.TrimSpace(query.Specialty) == "" {
		return nil, apperrors.NewValidationError("location or specialty is required")
	}

	start := time.Now()
	records, loadErr := s.directory.Records(ctx)

	region := ""
	if strings.TrimSpace(query.Location) != "" {
		region = s.resolver.Resolve(query.Location, records)
	}
	specialty := strings.TrimSpace(query.Specialty)
	ranked := s.ranker.Rank(records, region, specialty)

	s.logEvent(ctx, &entities.SearchEvent{
		Kind:                 entities.SearchEventKindProvider,
		Location:             query.Location,
		ResolvedLocation:     region,
		RecommendedSpecialty: specialty,
		ResultCount:          len(ranked),
		LatencyMs:            int(time.Since(start).Milliseconds()),
	})

	return &entities.ProviderListResponse{
		ResolvedLocation: region,
		Specialty:        specialty,
		DataAvailable:    dataAvailable(records, loadErr),
		Providers:        ranked,
		Count:            len(ranked),
	}, nil
}

// dataAvailable is false only when the directory could not be loaded at all
func dataAvailable(records []entities.ProviderRecord, loadErr error) bool {
	return loadErr == nil || len(records) > 0
}

func (s *SearchService) logEvent(ctx context.Context, event *entities.SearchEvent) {
	logAnalyticsEvent(ctx, s.analytics, event)
}

func logAnalyticsEvent(ctx context.Context, analytics repositories.SearchAnalyticsRepository, event *entities.SearchEvent) {
	if analytics == nil {
		return
	}
	event.ID = uuid.New().String()
	event.CreatedAt = time.Now().UTC()

	go func() {
		logCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), analyticsTimeout)
		defer cancel()
		if err := analytics.LogEvent(logCtx, event); err != nil {
			log.Warn().Err(err).Str("kind", event.Kind).Msg("Failed to log search event")
		}
	}()
}
