package repositories

import (
	"context"

	"github.com/zatekoja/medicalnetwork/internal/domain/entities"
)

// ProviderIndexRepository is a full-text index over the directory used for
// type-ahead suggestions.
type ProviderIndexRepository interface {
	// IndexAll replaces the indexed documents with records
	IndexAll(ctx context.Context, records []entities.ProviderRecord) error

	// Suggest returns up to limit records whose name, region or specialty
	// start with the query
	Suggest(ctx context.Context, query string, limit int) ([]entities.ProviderRecord, error)
}
