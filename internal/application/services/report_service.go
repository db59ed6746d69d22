package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/zatekoja/medicalnetwork/internal/domain/entities"
	"github.com/zatekoja/medicalnetwork/internal/domain/providers"
	"github.com/zatekoja/medicalnetwork/internal/domain/repositories"
	"github.com/zatekoja/medicalnetwork/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/medicalnetwork/pkg/errors"
	"github.com/zatekoja/medicalnetwork/pkg/llmjson"
)

const (
	// MaxReportFiles is the number of files accepted per analysis
	MaxReportFiles = 5
	// MaxReportFileBytes is the decoded size limit of a single file
	MaxReportFileBytes = 10 << 20
)

// ReportService interprets uploaded medical reports with the text generator.
// There is no local fallback, so generator failures reach the caller.
type ReportService struct {
	generator providers.TextGenerator
	directory DirectoryReader
	resolver  *LocationResolver
	ranker    *ProviderRankingService
	analytics repositories.SearchAnalyticsRepository
}

// NewReportService creates a report service. generator and analytics may be nil.
func NewReportService(
	generator providers.TextGenerator,
	directory DirectoryReader,
	resolver *LocationResolver,
	ranker *ProviderRankingService,
	analytics repositories.SearchAnalyticsRepository,
) *ReportService {
	return &ReportService{
		generator: generator,
		directory: directory,
		resolver:  resolver,
		ranker:    ranker,
		analytics: analytics,
	}
}

type reportPayload struct {
	Interpretation       string   `json:"interpretation"`
	RecommendedSpecialty string   `json:"recommended_specialty"`
	Reason               string   `json:"reason"`
	TemporaryAdvice      []string `json:"temporary_advice"`
	Recommendations      []struct {
		ID     string `json:"id"`
		Reason string `json:"reason"`
	} `json:"recommendations"`
}

// Analyze decodes the uploaded files, asks the generator to interpret them
// and ranks providers for the recommended specialty when a location is given.
func (s *ReportService) Analyze(ctx context.Context, req entities.ReportAnalysisRequest) (*entities.ReportAnalysisResponse, error) {
	ctx, span := observability.StartSpan(ctx, "ReportService.Analyze")
	defer span.End()

	attachments, err := DecodeReportFiles(req.Files)
	if err != nil {
		return nil, err
	}
	if s.generator == nil {
		return nil, apperrors.NewUnavailableError("report analysis is not configured")
	}

	start := time.Now()
	records, loadErr := s.directory.Records(ctx)
	available := DistinctSpecialties(records)

	text, err := s.generator.Generate(ctx, buildReportPrompt(available), attachments)
	if err != nil {
		observability.RecordError(span, err)
		return nil, apperrors.NewExternalError("report analysis failed", err)
	}

	var payload reportPayload
	if err := llmjson.Decode(text, &payload); err != nil {
		observability.RecordError(span, err)
		return nil, apperrors.NewExternalError("report analysis returned an unreadable answer", err)
	}
	if strings.TrimSpace(payload.Interpretation) == "" {
		return nil, apperrors.NewExternalError("report analysis returned no interpretation", nil)
	}

	specialty := strings.TrimSpace(payload.RecommendedSpecialty)
	reason := strings.TrimSpace(payload.Reason)
	if specialty == "" && len(payload.Recommendations) > 0 {
		specialty = strings.TrimSpace(payload.Recommendations[0].ID)
		if reason == "" {
			reason = strings.TrimSpace(payload.Recommendations[0].Reason)
		}
	}
	if specialty != "" && IsPharmacy(specialty) {
		log.Info().Str("suggested", specialty).Msg("Refusing pharmacy recommendation for report")
		specialty = SpecialtyInternalMedicine
	}

	resp := &entities.ReportAnalysisResponse{
		Interpretation:       strings.TrimSpace(payload.Interpretation),
		RecommendedSpecialty: specialty,
		RecommendationReason: reason,
		TemporaryAdvice:      cleanAdvice(payload.TemporaryAdvice),
		DataAvailable:        dataAvailable(records, loadErr),
		Providers:            []entities.RankedProvider{},
	}

	if strings.TrimSpace(req.Location) != "" && specialty != "" {
		resp.ResolvedLocation = s.resolver.Resolve(req.Location, records)
		resp.Providers = s.ranker.Rank(records, resp.ResolvedLocation, specialty)
	}

	logAnalyticsEvent(ctx, s.analytics, &entities.SearchEvent{
		Kind:                 entities.SearchEventKindReport,
		Location:             req.Location,
		ResolvedLocation:     resp.ResolvedLocation,
		RecommendedSpecialty: specialty,
		ClassificationSource: string(entities.ClassificationSourceRefined),
		ResultCount:          len(resp.Providers),
		LatencyMs:            int(time.Since(start).Milliseconds()),
	})
	return resp, nil
}

// DecodeReportFiles validates and base64-decodes uploaded files. Data may
// carry a "data:<mime>;base64," prefix, in which case the prefix mime type
// is used when MimeType is empty.
func DecodeReportFiles(files []entities.ReportFile) ([]providers.Attachment, error) {
	if len(files) == 0 {
		return nil, apperrors.NewValidationError("at least one file is required")
	}
	if len(files) > MaxReportFiles {
		return nil, apperrors.NewValidationError(fmt.Sprintf("at most %d files are allowed", MaxReportFiles))
	}

	attachments := make([]providers.Attachment, 0, len(files))
	for i, f := range files {
		mimeType := strings.ToLower(strings.TrimSpace(f.MimeType))
		data := strings.TrimSpace(f.Data)

		if rest, ok := strings.CutPrefix(data, "data:"); ok {
			header, payload, found := strings.Cut(rest, ",")
			if !found {
				return nil, apperrors.NewValidationError(fmt.Sprintf("file %d has a malformed data URI", i+1))
			}
			if mimeType == "" {
				mimeType = strings.ToLower(strings.TrimSuffix(header, ";base64"))
			}
			data = payload
		}

		if !isSupportedReportType(mimeType) {
			return nil, apperrors.NewValidationError(fmt.Sprintf("file %d has unsupported type %q", i+1, mimeType))
		}
		if base64.StdEncoding.DecodedLen(len(data)) > MaxReportFileBytes+2 {
			return nil, apperrors.NewValidationError(fmt.Sprintf("file %d exceeds the size limit", i+1))
		}

		decoded, err := base64.StdEncoding.DecodeString(data)
		if err != nil {
			return nil, apperrors.NewValidationError(fmt.Sprintf("file %d is not valid base64", i+1))
		}
		if len(decoded) == 0 {
			return nil, apperrors.NewValidationError(fmt.Sprintf("file %d is empty", i+1))
		}
		if len(decoded) > MaxReportFileBytes {
			return nil, apperrors.NewValidationError(fmt.Sprintf("file %d exceeds the size limit", i+1))
		}
		attachments = append(attachments, providers.Attachment{MimeType: mimeType, Data: decoded})
	}
	return attachments, nil
}

func isSupportedReportType(mimeType string) bool {
	return mimeType == "application/pdf" || strings.HasPrefix(mimeType, "image/")
}
