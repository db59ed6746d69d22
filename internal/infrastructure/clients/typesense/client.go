package typesense

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/typesense/typesense-go/v2/typesense"
	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"

	"github.com/zatekoja/medicalnetwork/pkg/config"
	"github.com/zatekoja/medicalnetwork/pkg/retry"
)

const (
	ProvidersCollection = "providers"
)

// Client represents a Typesense client
type Client struct {
	client *typesense.Client
}

// NewClient creates a new Typesense client with exponential backoff retry
func NewClient(ctx context.Context, cfg *config.TypesenseConfig) (*Client, error) {
	client := typesense.NewClient(
		typesense.WithServer(cfg.URL),
		typesense.WithAPIKey(cfg.APIKey),
		typesense.WithConnectionTimeout(5*time.Second),
	)

	err := retry.DoWithLog(
		ctx,
		retry.DefaultConfig(),
		"Typesense",
		func() error {
			healthCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			_, err := client.Health(healthCtx, 2*time.Second)
			return err
		},
		func(attempt int, err error, nextDelay time.Duration) {
			log.Warn().Err(err).Int("attempt", attempt).Dur("retry_in", nextDelay).Msg("Typesense connection attempt failed")
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Typesense after retries: %w", err)
	}

	log.Info().Str("url", cfg.URL).Msg("Connected to Typesense")
	return &Client{client: client}, nil
}

// Client returns the underlying Typesense client
func (c *Client) Client() *typesense.Client {
	return c.client
}

// ProvidersSchema is the collection schema of directory records. Rows are
// sorted by their position in the source sheet.
func ProvidersSchema() *api.CollectionSchema {
	return &api.CollectionSchema{
		Name: ProvidersCollection,
		Fields: []api.Field{
			{Name: "id", Type: "string"},
			{Name: "name", Type: "string"},
			{Name: "governorate", Type: "string", Facet: pointer.True()},
			{Name: "area", Type: "string", Optional: pointer.True()},
			{Name: "type", Type: "string", Facet: pointer.True()},
			{Name: "specialty_main", Type: "string", Optional: pointer.True()},
			{Name: "specialty_sub", Type: "string", Optional: pointer.True()},
			{Name: "address", Type: "string", Optional: pointer.True()},
			{Name: "phones", Type: "string[]", Optional: pointer.True()},
			{Name: "hotline", Type: "string", Optional: pointer.True()},
			{Name: "search_text", Type: "string"},
			{Name: "position", Type: "int32"},
		},
		DefaultSortingField: pointer.String("position"),
	}
}

// InitSchema ensures the providers collection exists
func (c *Client) InitSchema(ctx context.Context) error {
	collections, err := c.client.Collections().Retrieve(ctx)
	if err != nil {
		return fmt.Errorf("failed to retrieve collections: %w", err)
	}

	for _, col := range collections {
		if col.Name == ProvidersCollection {
			return nil
		}
	}

	if _, err := c.client.Collections().Create(ctx, ProvidersSchema()); err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	log.Info().Str("collection", ProvidersCollection).Msg("Created Typesense collection")
	return nil
}

// ResetSchema drops and recreates the providers collection
func (c *Client) ResetSchema(ctx context.Context) error {
	if _, err := c.client.Collection(ProvidersCollection).Delete(ctx); err != nil {
		log.Debug().Err(err).Msg("Providers collection did not exist before reset")
	}
	return c.InitSchema(ctx)
}
