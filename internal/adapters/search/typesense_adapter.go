package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"

	"github.com/zatekoja/medicalnetwork/internal/domain/entities"
	"github.com/zatekoja/medicalnetwork/internal/domain/repositories"
	tsclient "github.com/zatekoja/medicalnetwork/internal/infrastructure/clients/typesense"
	"github.com/zatekoja/medicalnetwork/pkg/utils"
)

const maxSuggestLimit = 50

// TypesenseAdapter implements the provider suggest index using Typesense
type TypesenseAdapter struct {
	client *tsclient.Client
}

// Ensure TypesenseAdapter implements ProviderIndexRepository
var _ repositories.ProviderIndexRepository = (*TypesenseAdapter)(nil)

// NewTypesenseAdapter creates a new Typesense adapter
func NewTypesenseAdapter(client *tsclient.Client) *TypesenseAdapter {
	return &TypesenseAdapter{client: client}
}

// IndexAll replaces the collection with records. Failed documents are
// logged and counted; the first error is returned after every document was
// attempted.
func (a *TypesenseAdapter) IndexAll(ctx context.Context, records []entities.ProviderRecord) error {
	if err := a.client.ResetSchema(ctx); err != nil {
		return err
	}

	docs := a.client.Client().Collection(tsclient.ProvidersCollection).Documents()
	var firstErr error
	failed := 0
	for i := range records {
		if _, err := docs.Upsert(ctx, buildProviderDocument(&records[i], i)); err != nil {
			failed++
			if firstErr == nil {
				firstErr = fmt.Errorf("failed to index provider %s: %w", records[i].ID, err)
			}
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}

	log.Info().Int("indexed", len(records)-failed).Int("failed", failed).Msg("Indexed directory into Typesense")
	return firstErr
}

// Suggest returns providers matching query by name, region or type
func (a *TypesenseAdapter) Suggest(ctx context.Context, query string, limit int) ([]entities.ProviderRecord, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []entities.ProviderRecord{}, nil
	}
	if limit <= 0 || limit > maxSuggestLimit {
		limit = 10
	}

	params := &api.SearchCollectionParams{
		Q:       pointer.String(query),
		QueryBy: pointer.String("name,governorate,type,specialty_main,specialty_sub,search_text"),
		PerPage: pointer.Int(limit),
	}

	result, err := a.client.Client().Collection(tsclient.ProvidersCollection).Documents().Search(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to search providers: %w", err)
	}

	records := []entities.ProviderRecord{}
	if result.Hits == nil {
		return records, nil
	}
	for _, hit := range *result.Hits {
		if hit.Document == nil {
			continue
		}
		records = append(records, providerFromDocument(*hit.Document))
	}
	return records, nil
}

func buildProviderDocument(r *entities.ProviderRecord, position int) map[string]interface{} {
	phones := r.Phones
	if phones == nil {
		phones = []string{}
	}
	return map[string]interface{}{
		"id":             r.ID,
		"name":           r.Name,
		"governorate":    r.Governorate,
		"area":           r.Area,
		"type":           r.ProviderType,
		"specialty_main": r.SpecialtyMain,
		"specialty_sub":  r.SpecialtySub,
		"address":        r.Address,
		"phones":         phones,
		"hotline":        r.Hotline,
		"search_text":    utils.NormalizeArabic(strings.Join([]string{r.Name, r.Governorate, r.Area, r.ProviderType, r.SpecialtyMain, r.SpecialtySub}, " ")),
		"position":       position,
	}
}

func providerFromDocument(doc map[string]interface{}) entities.ProviderRecord {
	str := func(key string) string {
		if v, ok := doc[key].(string); ok {
			return v
		}
		return ""
	}

	r := entities.ProviderRecord{
		ID:            str("id"),
		Name:          str("name"),
		Governorate:   str("governorate"),
		Area:          str("area"),
		ProviderType:  str("type"),
		SpecialtyMain: str("specialty_main"),
		SpecialtySub:  str("specialty_sub"),
		Address:       str("address"),
		Hotline:       str("hotline"),
		Phones:        []string{},
	}
	if raw, ok := doc["phones"].([]interface{}); ok {
		for _, p := range raw {
			if s, ok := p.(string); ok && s != "" {
				r.Phones = append(r.Phones, s)
			}
		}
	}
	r.BuildSearchKeys()
	return r
}
