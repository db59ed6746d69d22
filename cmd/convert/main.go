package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/zatekoja/medicalnetwork/internal/adapters/directory"
	"github.com/zatekoja/medicalnetwork/internal/adapters/search"
	"github.com/zatekoja/medicalnetwork/internal/infrastructure/clients/typesense"
	"github.com/zatekoja/medicalnetwork/internal/infrastructure/observability"
	"github.com/zatekoja/medicalnetwork/pkg/config"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	observability.InitLogger("medical-network-convert", cfg.Env, cfg.LogLevel)

	in := flag.String("in", cfg.Directory.SourcePath, "directory spreadsheet (xlsx, csv or html table)")
	out := flag.String("out", cfg.Directory.JSONExportPath, "JSON export path")
	index := flag.Bool("index", false, "also index the records into Typesense")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	records, err := directory.NewLoader().Load(ctx, *in)
	if err != nil {
		log.Fatal().Err(err).Str("source", *in).Msg("Failed to load directory")
	}

	if err := directory.WriteJSON(*out, records); err != nil {
		log.Fatal().Err(err).Str("out", *out).Msg("Failed to write JSON export")
	}
	log.Info().Int("records", len(records)).Str("out", *out).Msg("Directory exported")

	if !*index {
		return
	}

	client, err := typesense.NewClient(ctx, &cfg.Typesense)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Typesense")
	}
	if err := search.NewTypesenseAdapter(client).IndexAll(ctx, records); err != nil {
		log.Fatal().Err(err).Msg("Failed to index directory")
	}
	log.Info().Int("records", len(records)).Msg("Directory indexed")
}
