package database

import (
	"context"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/google/uuid"

	"github.com/zatekoja/medicalnetwork/internal/domain/entities"
	"github.com/zatekoja/medicalnetwork/internal/domain/repositories"
	"github.com/zatekoja/medicalnetwork/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/medicalnetwork/pkg/errors"
)

const searchAnalyticsTable = "search_analytics"

const createSearchAnalyticsTable = `
CREATE TABLE IF NOT EXISTS search_analytics (
	id TEXT PRIMARY KEY,
	kind TEXT NOT NULL,
	symptoms TEXT NOT NULL DEFAULT '',
	location TEXT NOT NULL DEFAULT '',
	resolved_location TEXT NOT NULL DEFAULT '',
	recommended_specialty TEXT NOT NULL DEFAULT '',
	classification_source TEXT NOT NULL DEFAULT '',
	result_count INTEGER NOT NULL,
	latency_ms INTEGER NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_search_analytics_zero ON search_analytics (created_at DESC) WHERE result_count = 0;
`

// SearchAnalyticsAdapter stores search events in PostgreSQL
type SearchAnalyticsAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewSearchAnalyticsAdapter creates a new search analytics adapter
func NewSearchAnalyticsAdapter(client *postgres.Client) *SearchAnalyticsAdapter {
	return &SearchAnalyticsAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

var _ repositories.SearchAnalyticsRepository = (*SearchAnalyticsAdapter)(nil)

// EnsureSchema creates the analytics table when missing
func (a *SearchAnalyticsAdapter) EnsureSchema(ctx context.Context) error {
	if _, err := a.client.DB().ExecContext(ctx, createSearchAnalyticsTable); err != nil {
		return apperrors.NewInternalError("failed to create search analytics table", err)
	}
	return nil
}

// LogEvent inserts one search event
func (a *SearchAnalyticsAdapter) LogEvent(ctx context.Context, event *entities.SearchEvent) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	record := goqu.Record{
		"id":                    event.ID,
		"kind":                  event.Kind,
		"symptoms":              event.Symptoms,
		"location":              event.Location,
		"resolved_location":     event.ResolvedLocation,
		"recommended_specialty": event.RecommendedSpecialty,
		"classification_source": event.ClassificationSource,
		"result_count":          event.ResultCount,
		"latency_ms":            event.LatencyMs,
		"created_at":            event.CreatedAt,
	}

	query, args, err := a.db.Insert(searchAnalyticsTable).Prepared(true).Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to log search event", err)
	}
	return nil
}

// GetZeroResultSearches returns the most recent searches that matched no provider
func (a *SearchAnalyticsAdapter) GetZeroResultSearches(ctx context.Context, limit int) ([]*entities.SearchEvent, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	query, args, err := a.db.From(searchAnalyticsTable).Prepared(true).
		Select(
			"id", "kind", "symptoms", "location", "resolved_location",
			"recommended_specialty", "classification_source", "result_count", "latency_ms", "created_at",
		).
		Where(goqu.Ex{"result_count": 0}).
		Order(goqu.I("created_at").Desc()).
		Limit(uint(limit)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get zero result searches", err)
	}
	defer rows.Close()

	events := []*entities.SearchEvent{}
	for rows.Next() {
		e := &entities.SearchEvent{}
		if err := rows.Scan(
			&e.ID,
			&e.Kind,
			&e.Symptoms,
			&e.Location,
			&e.ResolvedLocation,
			&e.RecommendedSpecialty,
			&e.ClassificationSource,
			&e.ResultCount,
			&e.LatencyMs,
			&e.CreatedAt,
		); err != nil {
			return nil, apperrors.NewInternalError("failed to scan search event", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate search events", err)
	}

	return events, nil
}
