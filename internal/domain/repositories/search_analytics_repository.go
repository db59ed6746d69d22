package repositories

import (
	"context"

	"github.com/zatekoja/medicalnetwork/internal/domain/entities"
)

// SearchAnalyticsRepository persists search events for later review
type SearchAnalyticsRepository interface {
	LogEvent(ctx context.Context, event *entities.SearchEvent) error
	GetZeroResultSearches(ctx context.Context, limit int) ([]*entities.SearchEvent, error)
}
